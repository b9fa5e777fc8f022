// Package inmemory implements the repository on plain maps. It backs the
// tests and the local development mode, no durability whatsoever.
package inmemory

import (
	"sync"

	"github.com/oremont/rfp-service/internal/entities"
	"github.com/oremont/rfp-service/internal/repository/database"
)

var _ database.Repository = (*InmemoryProvider)(nil)

type InmemoryProvider struct {
	mu              sync.RWMutex
	requests        map[uint]entities.PaymentRequest
	lineItems       map[uint]entities.LineItem
	auditLogEntries map[uint]entities.AuditLogEntry
	currencies      map[uint]entities.Currency
	usageCategories map[uint]entities.UsageCategory
	suppliers       map[uint]entities.Supplier
	idSequence      uint32
}

func NewInMemoryProvider() *InmemoryProvider {
	return &InmemoryProvider{
		requests:        make(map[uint]entities.PaymentRequest),
		lineItems:       make(map[uint]entities.LineItem),
		auditLogEntries: make(map[uint]entities.AuditLogEntry),
		currencies:      make(map[uint]entities.Currency),
		usageCategories: make(map[uint]entities.UsageCategory),
		suppliers:       make(map[uint]entities.Supplier),
	}
}

func (m *InmemoryProvider) Migrate() error {
	// Nothing to do here
	return nil
}

// SeedCurrency registers a currency for lookups. Test and dev helper.
func (m *InmemoryProvider) SeedCurrency(c entities.Currency) uint {
	m.mu.Lock()
	defer m.mu.Unlock()

	c.ID = m.nextID()
	m.currencies[c.ID] = c
	return c.ID
}

// SeedUsageCategory registers a usage category for lookups. Test and dev helper.
func (m *InmemoryProvider) SeedUsageCategory(u entities.UsageCategory) uint {
	m.mu.Lock()
	defer m.mu.Unlock()

	u.ID = m.nextID()
	m.usageCategories[u.ID] = u
	return u.ID
}

// nextID must be called with the mutex held.
func (m *InmemoryProvider) nextID() uint {
	m.idSequence++
	return uint(m.idSequence)
}
