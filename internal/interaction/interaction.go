package interaction

import (
	"context"
	"errors"
	"time"

	"github.com/oremont/rfp-service/internal/entities"
	"github.com/oremont/rfp-service/internal/logging"
	"github.com/oremont/rfp-service/internal/repository/database"
)

var _ Interactor = (*serviceInteractor)(nil)

type Interactor interface {
	// CreateRequest persists a new payment request with its line items,
	// assigning the next request number of the month unless one is set.
	CreateRequest(ctx context.Context, pr *entities.PaymentRequest) (*entities.PaymentRequest, error)

	// UpdateRequest applies the submitted field values, replaces the line
	// items wholesale and appends an audit entry when any tracked field
	// changed.
	UpdateRequest(ctx context.Context, id uint, upd *RequestUpdate) (*entities.PaymentRequest, error)

	GetRequest(ctx context.Context, id uint) (*entities.PaymentRequest, error)
	GetRequests(ctx context.Context, query entities.RequestQuery) ([]entities.PaymentRequest, error)

	// ChangeStatus moves the request along the status graph and appends an
	// audit entry describing the transition.
	ChangeStatus(ctx context.Context, id uint, newStatus entities.RequestStatus, remarks string) (*entities.PaymentRequest, error)

	// TrackPrint records one PDF generation: increments the counter, stamps
	// the printer identity and appends a fixed audit entry.
	TrackPrint(ctx context.Context, id uint) (*entities.PaymentRequest, error)

	GetAuditLog(ctx context.Context, id uint) ([]entities.AuditLogEntry, error)

	// ResolveRefs returns the currency code and usage label referenced by
	// the request, for display.
	ResolveRefs(ctx context.Context, pr *entities.PaymentRequest) (currencyCode string, usageLabel string, err error)

	ListSuppliers(ctx context.Context) ([]entities.Supplier, error)
}

type serviceInteractor struct {
	logger logging.Logger
	store  database.Repository

	// overridable for tests
	now func() time.Time
}

func NewServiceInteractor(r database.Repository, logger logging.Logger) (Interactor, error) {
	if r == nil {
		return nil, errors.New("repository must not be nil")
	}

	return &serviceInteractor{
		logger: logger,
		store:  r,
		now:    time.Now,
	}, nil
}
