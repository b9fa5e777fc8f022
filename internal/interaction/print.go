package interaction

import (
	"context"
	"database/sql"

	"github.com/oremont/rfp-service/internal/entities"
)

// printEventPayload is the fixed payload of the audit entry appended on
// every PDF generation. System events like this one store a plain
// descriptive string in the payload column instead of a change list.
const printEventPayload = "PDF document generated"

func (s *serviceInteractor) TrackPrint(ctx context.Context, id uint) (*entities.PaymentRequest, error) {
	existing, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	printedBy := "system"
	if mgr := NewIdentityManager(ctx); mgr.Subject() != "" {
		printedBy = mgr.Subject()
	}

	existing.PrintCount++
	existing.LastPrintedBy = printedBy
	existing.LastPrintedAt = sql.NullTime{Time: s.now(), Valid: true}
	existing.LineItems = nil

	if err := s.store.UpdatePaymentRequest(ctx, existing); err != nil {
		return nil, err
	}

	status := string(existing.Status)
	err = s.appendAuditEntry(ctx, id, status, status, printEventPayload, "")
	if err != nil {
		return nil, err
	}

	return s.store.GetPaymentRequestByID(ctx, id)
}
