package interaction

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/oremont/rfp-service/internal/apierrors"
	"github.com/oremont/rfp-service/internal/auditing"
	"github.com/oremont/rfp-service/internal/entities"
	"github.com/oremont/rfp-service/internal/logging"
	"github.com/oremont/rfp-service/internal/repository/database"
	"github.com/oremont/rfp-service/internal/sequence"
)

// two concurrent creations in the same month can compute the same number,
// the loser of the insert recomputes from the fresh database state
const maxSequenceAttempts = 3

// RequestUpdate carries the submitted field values of an update. The line
// item set replaces the stored set wholesale.
type RequestUpdate struct {
	Area                 entities.Area
	PayeeType            entities.PayeeType
	PayeeCode            string
	PayeeName            string
	DueDate              sql.NullTime
	CurrencyID           uint
	UsageCategoryID      uint
	SubtotalAmount       decimal.Decimal
	DownPaymentAmount    decimal.Decimal
	WithholdingTaxAmount decimal.Decimal
	GrandTotalAmount     decimal.Decimal
	Remarks              string
	LineItems            []entities.LineItem

	// free text attached to the audit entry, not to the request itself
	AuditRemarks string
}

func (s *serviceInteractor) CreateRequest(ctx context.Context, pr *entities.PaymentRequest) (*entities.PaymentRequest, error) {
	logger := logging.LoggerFromContext(ctx)

	mgr := NewIdentityManager(ctx)
	if !mgr.IsAdmin() && !mgr.IsAPITokenCall() && !mgr.IsRegisteredUser() {
		return nil, apierrors.NewForbidden("unable to determine the request permissions")
	}

	if pr.Status == "" {
		pr.Status = entities.RequestStatusDraft
	}

	if err := s.validateRequest(ctx, pr); err != nil {
		return nil, err
	}

	if pr.RequestNumber != "" {
		// only trusted imports may carry their own number, a conflict is
		// theirs to resolve
		if !mgr.IsAPITokenCall() {
			return nil, apierrors.NewForbidden("request numbers are assigned by the service")
		}

		if err := s.store.CreatePaymentRequest(ctx, pr); err != nil {
			if database.IsDuplicateKey(err) {
				return nil, apierrors.NewConflict(fmt.Sprintf("request number %s is already taken", pr.RequestNumber))
			}
			return nil, err
		}

		return pr, nil
	}

	prefix := sequence.MonthPrefix(s.now())

	for attempt := 0; attempt < maxSequenceAttempts; attempt++ {
		greatest, err := s.store.GreatestRequestNumberWithPrefix(ctx, prefix)
		if err != nil {
			return nil, err
		}

		number, err := sequence.Next(s.now(), greatest)
		if err != nil {
			return nil, err
		}

		pr.RequestNumber = number

		err = s.store.CreatePaymentRequest(ctx, pr)
		if err == nil {
			return pr, nil
		}

		if !database.IsDuplicateKey(err) {
			return nil, err
		}

		logger.Warn("request number %s was taken concurrently, recomputing (attempt %d)", number, attempt+1)
	}

	return nil, apierrors.NewConflict(fmt.Sprintf("could not assign a free request number for prefix %s", prefix))
}

func (s *serviceInteractor) UpdateRequest(ctx context.Context, id uint, upd *RequestUpdate) (*entities.PaymentRequest, error) {
	mgr := NewIdentityManager(ctx)
	if !mgr.IsAdmin() && !mgr.IsAPITokenCall() && !mgr.IsRegisteredUser() {
		return nil, apierrors.NewForbidden("unable to determine the request permissions")
	}

	existing, err := s.store.GetPaymentRequestByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apierrors.NewNotFound(fmt.Sprintf("payment request %d could not be found", id))
		}
		return nil, err
	}

	statusBefore := existing.Status
	oldValues := auditing.TrackedSnapshot(existing)

	updated := *existing
	updated.Area = upd.Area
	updated.PayeeType = upd.PayeeType
	updated.PayeeCode = upd.PayeeCode
	updated.PayeeName = upd.PayeeName
	updated.DueDate = upd.DueDate
	updated.CurrencyID = upd.CurrencyID
	updated.UsageCategoryID = upd.UsageCategoryID
	updated.SubtotalAmount = upd.SubtotalAmount
	updated.DownPaymentAmount = upd.DownPaymentAmount
	updated.WithholdingTaxAmount = upd.WithholdingTaxAmount
	updated.GrandTotalAmount = upd.GrandTotalAmount
	updated.Remarks = upd.Remarks
	updated.LineItems = nil

	if err := s.validateRequest(ctx, &updated); err != nil {
		return nil, err
	}

	newValues := auditing.TrackedSnapshot(&updated)

	changes, err := auditing.Detect(ctx, oldValues, newValues, s.lookup())
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdatePaymentRequest(ctx, &updated); err != nil {
		return nil, err
	}

	if err := s.store.ReplaceLineItems(ctx, id, upd.LineItems); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		payload, err := changes.Serialize()
		if err != nil {
			return nil, err
		}

		err = s.appendAuditEntry(ctx, id, string(statusBefore), string(updated.Status), payload, upd.AuditRemarks)
		if err != nil {
			return nil, err
		}
	}

	return s.store.GetPaymentRequestByID(ctx, id)
}

func (s *serviceInteractor) GetRequest(ctx context.Context, id uint) (*entities.PaymentRequest, error) {
	pr, err := s.store.GetPaymentRequestByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apierrors.NewNotFound(fmt.Sprintf("payment request %d could not be found", id))
		}
		return nil, err
	}

	return pr, nil
}

func (s *serviceInteractor) GetRequests(ctx context.Context, query entities.RequestQuery) ([]entities.PaymentRequest, error) {
	return s.store.GetPaymentRequestsByFilter(ctx, query)
}

func (s *serviceInteractor) GetAuditLog(ctx context.Context, id uint) ([]entities.AuditLogEntry, error) {
	if _, err := s.GetRequest(ctx, id); err != nil {
		return nil, err
	}

	return s.store.GetAuditLogEntriesForRequest(ctx, id)
}

func (s *serviceInteractor) ListSuppliers(ctx context.Context) ([]entities.Supplier, error) {
	return s.store.GetSuppliers(ctx)
}

func (s *serviceInteractor) validateRequest(ctx context.Context, pr *entities.PaymentRequest) error {
	if !pr.Area.IsValid() {
		return apierrors.NewBadRequest(fmt.Sprintf("invalid area %s provided", pr.Area))
	}

	if !pr.PayeeType.IsValid() {
		return apierrors.NewBadRequest(fmt.Sprintf("invalid payee type %s provided", pr.PayeeType))
	}

	if !pr.Status.IsValid() {
		return apierrors.NewBadRequest(fmt.Sprintf("invalid status %s provided", pr.Status))
	}

	if pr.PayeeName == "" {
		return apierrors.NewBadRequest("payee name must not be empty")
	}

	amounts := map[string]decimal.Decimal{
		"subtotal_amount":        pr.SubtotalAmount,
		"down_payment_amount":    pr.DownPaymentAmount,
		"withholding_tax_amount": pr.WithholdingTaxAmount,
		"grand_total_amount":     pr.GrandTotalAmount,
	}
	for name, amount := range amounts {
		if amount.IsNegative() {
			return apierrors.NewBadRequest(fmt.Sprintf("%s must not be negative", name))
		}
	}

	for _, item := range pr.LineItems {
		if item.TotalAmount.IsNegative() {
			return apierrors.NewBadRequest("line item amounts must not be negative")
		}
	}

	if _, err := s.store.GetCurrencyByID(ctx, pr.CurrencyID); err != nil {
		if database.IsNotFound(err) {
			return apierrors.NewBadRequest(fmt.Sprintf("currency %d does not exist", pr.CurrencyID))
		}
		return err
	}

	if _, err := s.store.GetUsageCategoryByID(ctx, pr.UsageCategoryID); err != nil {
		if database.IsNotFound(err) {
			return apierrors.NewBadRequest(fmt.Sprintf("usage category %d does not exist", pr.UsageCategoryID))
		}
		return err
	}

	return nil
}

// appendAuditEntry writes one immutable trail entry. The acting user is
// taken from the request identity, api token calls record a system entry.
func (s *serviceInteractor) appendAuditEntry(ctx context.Context, requestID uint, statusFrom, statusInto, payload, remarks string) error {
	code, err := auditing.GenerateEntryCode(func(code string) (bool, error) {
		return s.store.AuditCodeExists(ctx, code)
	})
	if err != nil {
		return err
	}

	entry := entities.AuditLogEntry{
		PaymentRequestID: requestID,
		Code:             code,
		ActingUser:       actingUser(ctx),
		StatusFrom:       statusFrom,
		StatusInto:       statusInto,
		Changes:          payload,
		Remarks:          remarks,
	}

	return s.store.CreateAuditLogEntry(ctx, &entry)
}

func actingUser(ctx context.Context) sql.NullString {
	mgr := NewIdentityManager(ctx)
	if mgr.IsAPITokenCall() || mgr.Subject() == "" {
		return sql.NullString{}
	}

	return sql.NullString{String: mgr.Subject(), Valid: true}
}

func (s *serviceInteractor) ResolveRefs(ctx context.Context, pr *entities.PaymentRequest) (string, string, error) {
	lookup := s.lookup()

	currencyCode, err := lookup.CurrencyCode(ctx, pr.CurrencyID)
	if err != nil {
		return "", "", err
	}

	usageLabel, err := lookup.UsageLabel(ctx, pr.UsageCategoryID)
	if err != nil {
		return "", "", err
	}

	return currencyCode, usageLabel, nil
}

type storeLookup struct {
	store database.LookupRead
}

func (s *serviceInteractor) lookup() auditing.RefLookup {
	return &storeLookup{store: s.store}
}

func (l *storeLookup) CurrencyCode(ctx context.Context, id uint) (string, error) {
	currency, err := l.store.GetCurrencyByID(ctx, id)
	if err != nil {
		return "", err
	}

	return currency.Code, nil
}

func (l *storeLookup) UsageLabel(ctx context.Context, id uint) (string, error) {
	usage, err := l.store.GetUsageCategoryByID(ctx, id)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s - %s", usage.Code, usage.Description), nil
}
