package interaction

import (
	"context"
	"fmt"

	"github.com/oremont/rfp-service/internal/apierrors"
	"github.com/oremont/rfp-service/internal/entities"
)

// The source system never constrained status transitions. The reimplemented
// graph is deliberate:
//   * draft -> for_approval (request is routed to the signers)
//   * for_approval -> approved (all signers have signed)
//   * approved -> paid (treasury has executed the payment)
//   * any non-terminal status -> cancelled
// paid and cancelled are terminal.
func isValidStatusChange(cur, next entities.RequestStatus) bool {
	if next == entities.RequestStatusCancelled {
		switch cur {
		case entities.RequestStatusPaid, entities.RequestStatusCancelled:
			return false
		}

		return true
	}

	switch cur {
	case entities.RequestStatusDraft:
		return next == entities.RequestStatusForApproval
	case entities.RequestStatusForApproval:
		return next == entities.RequestStatusApproved
	case entities.RequestStatusApproved:
		return next == entities.RequestStatusPaid
	}

	return false
}

func (s *serviceInteractor) ChangeStatus(ctx context.Context, id uint, newStatus entities.RequestStatus, remarks string) (*entities.PaymentRequest, error) {
	mgr := NewIdentityManager(ctx)
	if !mgr.IsAdmin() && !mgr.IsAPITokenCall() && !mgr.IsRegisteredUser() {
		return nil, apierrors.NewForbidden("unable to determine the request permissions")
	}

	if !newStatus.IsValid() {
		return nil, apierrors.NewBadRequest(fmt.Sprintf("invalid status %s provided", newStatus))
	}

	// moving money states is reserved for elevated access
	if newStatus == entities.RequestStatusApproved || newStatus == entities.RequestStatusPaid {
		if !mgr.IsAdmin() && !mgr.IsAPITokenCall() {
			return nil, apierrors.NewForbidden(fmt.Sprintf("no permission to move a request to status %s", newStatus))
		}
	}

	existing, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isValidStatusChange(existing.Status, newStatus) {
		return nil, apierrors.NewForbidden(
			fmt.Sprintf("cannot change status from %s to %s for request %s",
				existing.Status,
				newStatus,
				existing.RequestNumber,
			))
	}

	statusBefore := existing.Status
	existing.Status = newStatus
	existing.LineItems = nil

	if err := s.store.UpdatePaymentRequest(ctx, existing); err != nil {
		return nil, err
	}

	changes := entities.ChangeList{
		{Field: "Status", Old: string(statusBefore), New: string(newStatus)},
	}
	payload, err := changes.Serialize()
	if err != nil {
		return nil, err
	}

	err = s.appendAuditEntry(ctx, id, string(statusBefore), string(newStatus), payload, remarks)
	if err != nil {
		return nil, err
	}

	return s.store.GetPaymentRequestByID(ctx, id)
}
