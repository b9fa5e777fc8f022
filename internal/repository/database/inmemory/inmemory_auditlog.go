package inmemory

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/oremont/rfp-service/internal/entities"
)

func (m *InmemoryProvider) CreateAuditLogEntry(ctx context.Context, entry *entities.AuditLogEntry) error {
	if entry.ID != 0 {
		return errors.New("create needs a new audit log entry")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.auditLogEntries {
		if existing.Code == entry.Code {
			return gorm.ErrDuplicatedKey
		}
	}

	entry.ID = m.nextID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	m.auditLogEntries[entry.ID] = *entry
	return nil
}

func (m *InmemoryProvider) GetAuditLogEntriesForRequest(ctx context.Context, requestID uint) ([]entities.AuditLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]entities.AuditLogEntry, 0)
	for _, entry := range m.auditLogEntries {
		if entry.PaymentRequestID == requestID {
			entries = append(entries, entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})

	return entries, nil
}

func (m *InmemoryProvider) AuditCodeExists(ctx context.Context, code string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, entry := range m.auditLogEntries {
		if entry.Code == code {
			return true, nil
		}
	}

	return false, nil
}
