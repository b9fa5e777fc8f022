package mysql

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"github.com/oremont/rfp-service/internal/entities"
)

func (m *mysqlConnector) CreatePaymentRequest(ctx context.Context, pr *entities.PaymentRequest) error {
	tCtx, cancel := context.WithTimeout(ctx, time.Second*20)
	defer cancel()

	result := m.db.WithContext(tCtx).Create(pr)

	return result.Error
}

func (m *mysqlConnector) GetPaymentRequestByID(ctx context.Context, id uint) (*entities.PaymentRequest, error) {
	tCtx, cancel := context.WithTimeout(ctx, time.Second*20)
	defer cancel()

	var pr entities.PaymentRequest
	res := m.db.WithContext(tCtx).
		Preload("LineItems").
		First(&pr, id)

	if res.Error != nil {
		return nil, res.Error
	}

	return &pr, nil
}

func (m *mysqlConnector) GetPaymentRequestsByFilter(ctx context.Context, query entities.RequestQuery) ([]entities.PaymentRequest, error) {
	var requests []entities.PaymentRequest

	tCtx, cancel := context.WithTimeout(ctx, time.Second*20)
	defer cancel()

	db := m.db.WithContext(tCtx).
		Preload("LineItems").
		Where(&entities.PaymentRequest{
			Status:    query.Status,
			Area:      query.Area,
			PayeeType: query.PayeeType,
		})

	if query.NumberPrefix != "" {
		db = db.Where("request_number LIKE ?", query.NumberPrefix+"%")
	}

	res := db.Order("request_number").Find(&requests)
	if res.Error != nil {
		return nil, res.Error
	}

	return requests, nil
}

func (m *mysqlConnector) UpdatePaymentRequest(ctx context.Context, pr *entities.PaymentRequest) error {
	tCtx, cancel := context.WithTimeout(ctx, time.Second*20)
	defer cancel()

	res := m.db.WithContext(tCtx).
		Model(pr).
		Omit("LineItems", "RequestNumber", "CreatedAt").
		Updates(pr)

	if res.Error != nil {
		return res.Error
	}

	// persist zeroed fields that Updates skips
	return m.db.WithContext(tCtx).
		Model(pr).
		Select("PayeeCode", "Remarks", "LastPrintedBy", "DueDate").
		Updates(map[string]interface{}{
			"payee_code":      pr.PayeeCode,
			"remarks":         pr.Remarks,
			"last_printed_by": pr.LastPrintedBy,
			"due_date":        pr.DueDate,
		}).Error
}

func (m *mysqlConnector) ReplaceLineItems(ctx context.Context, requestID uint, items []entities.LineItem) error {
	tCtx, cancel := context.WithTimeout(ctx, time.Second*20)
	defer cancel()

	return m.db.WithContext(tCtx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("payment_request_id = ?", requestID).
			Delete(&entities.LineItem{}).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].ID = 0
			items[i].PaymentRequestID = requestID
		}

		if len(items) == 0 {
			return nil
		}

		return tx.Create(&items).Error
	})
}

func (m *mysqlConnector) GreatestRequestNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	tCtx, cancel := context.WithTimeout(ctx, time.Second*20)
	defer cancel()

	// soft deleted requests keep their number reserved, hence Unscoped
	var greatest sql.NullString
	res := m.db.WithContext(tCtx).
		Unscoped().
		Model(&entities.PaymentRequest{}).
		Where("request_number LIKE ?", prefix+"%").
		Select("MAX(request_number)").
		Find(&greatest)

	if res.Error != nil {
		return "", res.Error
	}

	if !greatest.Valid {
		return "", nil
	}

	return greatest.String, nil
}
