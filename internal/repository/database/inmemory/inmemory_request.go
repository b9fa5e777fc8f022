package inmemory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/oremont/rfp-service/internal/entities"
)

func (m *InmemoryProvider) CreatePaymentRequest(ctx context.Context, pr *entities.PaymentRequest) error {
	if pr.ID != 0 {
		return errors.New("create needs a new payment request")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.requests {
		if existing.RequestNumber == pr.RequestNumber {
			return gorm.ErrDuplicatedKey
		}
	}

	pr.ID = m.nextID()

	if pr.CreatedAt.IsZero() {
		pr.CreatedAt = time.Now()
	}

	items := pr.LineItems
	pr.LineItems = nil
	m.requests[pr.ID] = *pr

	for i := range items {
		items[i].ID = m.nextID()
		items[i].PaymentRequestID = pr.ID
		m.lineItems[items[i].ID] = items[i]
	}
	pr.LineItems = items

	return nil
}

func (m *InmemoryProvider) GetPaymentRequestByID(ctx context.Context, id uint) (*entities.PaymentRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pr, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	pr.LineItems = m.lineItemsForRequest(id)
	return &pr, nil
}

func (m *InmemoryProvider) GetPaymentRequestsByFilter(ctx context.Context, query entities.RequestQuery) ([]entities.PaymentRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]entities.PaymentRequest, 0)
	for _, pr := range m.requests {
		if query.Status != "" && pr.Status != query.Status {
			continue
		}
		if query.Area != "" && pr.Area != query.Area {
			continue
		}
		if query.PayeeType != "" && pr.PayeeType != query.PayeeType {
			continue
		}
		if query.NumberPrefix != "" && !strings.HasPrefix(pr.RequestNumber, query.NumberPrefix) {
			continue
		}

		pr.LineItems = m.lineItemsForRequest(pr.ID)
		result = append(result, pr)
	}

	// mirror the request_number ordering of the mysql implementation
	sort.Slice(result, func(i, j int) bool {
		return result[i].RequestNumber < result[j].RequestNumber
	})

	return result, nil
}

func (m *InmemoryProvider) UpdatePaymentRequest(ctx context.Context, pr *entities.PaymentRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.requests[pr.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	upd := *pr
	// the request number and creation time are immutable
	upd.RequestNumber = cur.RequestNumber
	upd.CreatedAt = cur.CreatedAt
	upd.UpdatedAt = time.Now()
	upd.LineItems = nil

	m.requests[pr.ID] = upd
	return nil
}

func (m *InmemoryProvider) ReplaceLineItems(ctx context.Context, requestID uint, items []entities.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.requests[requestID]; !ok {
		return gorm.ErrRecordNotFound
	}

	for id, item := range m.lineItems {
		if item.PaymentRequestID == requestID {
			delete(m.lineItems, id)
		}
	}

	for i := range items {
		items[i].ID = m.nextID()
		items[i].PaymentRequestID = requestID
		m.lineItems[items[i].ID] = items[i]
	}

	return nil
}

func (m *InmemoryProvider) GreatestRequestNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	greatest := ""
	for _, pr := range m.requests {
		if strings.HasPrefix(pr.RequestNumber, prefix) && pr.RequestNumber > greatest {
			greatest = pr.RequestNumber
		}
	}

	return greatest, nil
}

// lineItemsForRequest must be called with the mutex held.
func (m *InmemoryProvider) lineItemsForRequest(requestID uint) []entities.LineItem {
	items := make([]entities.LineItem, 0)
	for _, item := range m.lineItems {
		if item.PaymentRequestID == requestID {
			items = append(items, item)
		}
	}

	return items
}
