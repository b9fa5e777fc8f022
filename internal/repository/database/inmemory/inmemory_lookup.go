package inmemory

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/oremont/rfp-service/internal/entities"
)

func (m *InmemoryProvider) GetCurrencyByID(ctx context.Context, id uint) (*entities.Currency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	currency, ok := m.currencies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	return &currency, nil
}

func (m *InmemoryProvider) GetUsageCategoryByID(ctx context.Context, id uint) (*entities.UsageCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	usage, ok := m.usageCategories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	return &usage, nil
}

func (m *InmemoryProvider) UpsertSuppliers(ctx context.Context, suppliers []entities.Supplier) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, supplier := range suppliers {
		replaced := false
		for id, existing := range m.suppliers {
			if existing.SAPCode == supplier.SAPCode {
				supplier.ID = id
				supplier.CreatedAt = existing.CreatedAt
				supplier.UpdatedAt = time.Now()
				m.suppliers[id] = supplier
				replaced = true
				break
			}
		}

		if !replaced {
			supplier.ID = m.nextID()
			supplier.CreatedAt = time.Now()
			m.suppliers[supplier.ID] = supplier
		}
	}

	return nil
}

func (m *InmemoryProvider) GetSuppliers(ctx context.Context) ([]entities.Supplier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	suppliers := make([]entities.Supplier, 0)
	for _, supplier := range m.suppliers {
		suppliers = append(suppliers, supplier)
	}

	sort.Slice(suppliers, func(i, j int) bool {
		return suppliers[i].SAPCode < suppliers[j].SAPCode
	})

	return suppliers, nil
}
