package mysql

import (
	"context"
	"time"

	"github.com/oremont/rfp-service/internal/entities"
)

func (m *mysqlConnector) CreateAuditLogEntry(ctx context.Context, entry *entities.AuditLogEntry) error {
	tCtx, cancel := context.WithTimeout(ctx, time.Second*20)
	defer cancel()

	res := m.db.WithContext(tCtx).Create(entry)
	return res.Error
}

func (m *mysqlConnector) GetAuditLogEntriesForRequest(ctx context.Context, requestID uint) ([]entities.AuditLogEntry, error) {
	tCtx, cancel := context.WithTimeout(ctx, time.Second*20)
	defer cancel()

	var entries []entities.AuditLogEntry
	res := m.db.WithContext(tCtx).
		Where(&entities.AuditLogEntry{PaymentRequestID: requestID}).
		Order("created_at").
		Find(&entries)

	if res.Error != nil {
		return nil, res.Error
	}

	return entries, nil
}

func (m *mysqlConnector) AuditCodeExists(ctx context.Context, code string) (bool, error) {
	tCtx, cancel := context.WithTimeout(ctx, time.Second*20)
	defer cancel()

	var count int64
	res := m.db.WithContext(tCtx).
		Model(&entities.AuditLogEntry{}).
		Where(&entities.AuditLogEntry{Code: code}).
		Count(&count)

	if res.Error != nil {
		return false, res.Error
	}

	return count > 0, nil
}
