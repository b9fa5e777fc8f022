package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oremont/rfp-service/internal/entities"
)

type Repository interface {
	Migrate() error
	PaymentRequestCRUD
	AuditLogWrite
	LookupRead
	SupplierCRUD
}

type PaymentRequestCRUD interface {
	CreatePaymentRequest(ctx context.Context, pr *entities.PaymentRequest) error
	GetPaymentRequestByID(ctx context.Context, id uint) (*entities.PaymentRequest, error)
	GetPaymentRequestsByFilter(ctx context.Context, query entities.RequestQuery) ([]entities.PaymentRequest, error)
	UpdatePaymentRequest(ctx context.Context, pr *entities.PaymentRequest) error

	// ReplaceLineItems deletes all line items of the request and inserts the
	// submitted set in their place.
	ReplaceLineItems(ctx context.Context, requestID uint, items []entities.LineItem) error

	// GreatestRequestNumberWithPrefix returns the lexicographically greatest
	// request number sharing the prefix, including soft deleted requests.
	// Returns the empty string when no number shares the prefix.
	GreatestRequestNumberWithPrefix(ctx context.Context, prefix string) (string, error)
}

// AuditLogWrite is deliberately insert only. Audit entries are immutable,
// no update or delete operation exists anywhere in the repository.
type AuditLogWrite interface {
	CreateAuditLogEntry(ctx context.Context, entry *entities.AuditLogEntry) error
	GetAuditLogEntriesForRequest(ctx context.Context, requestID uint) ([]entities.AuditLogEntry, error)
	AuditCodeExists(ctx context.Context, code string) (bool, error)
}

type LookupRead interface {
	GetCurrencyByID(ctx context.Context, id uint) (*entities.Currency, error)
	GetUsageCategoryByID(ctx context.Context, id uint) (*entities.UsageCategory, error)
}

type SupplierCRUD interface {
	UpsertSuppliers(ctx context.Context, suppliers []entities.Supplier) error
	GetSuppliers(ctx context.Context) ([]entities.Supplier, error)
}

// IsDuplicateKey reports whether err is a unique constraint violation.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
