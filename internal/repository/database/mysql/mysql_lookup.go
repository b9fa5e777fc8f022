package mysql

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/oremont/rfp-service/internal/entities"
)

func (m *mysqlConnector) GetCurrencyByID(ctx context.Context, id uint) (*entities.Currency, error) {
	tCtx, cancel := context.WithTimeout(ctx, time.Second*20)
	defer cancel()

	var currency entities.Currency
	res := m.db.WithContext(tCtx).First(&currency, id)
	if res.Error != nil {
		return nil, res.Error
	}

	return &currency, nil
}

func (m *mysqlConnector) GetUsageCategoryByID(ctx context.Context, id uint) (*entities.UsageCategory, error) {
	tCtx, cancel := context.WithTimeout(ctx, time.Second*20)
	defer cancel()

	var usage entities.UsageCategory
	res := m.db.WithContext(tCtx).First(&usage, id)
	if res.Error != nil {
		return nil, res.Error
	}

	return &usage, nil
}

func (m *mysqlConnector) UpsertSuppliers(ctx context.Context, suppliers []entities.Supplier) error {
	if len(suppliers) == 0 {
		return nil
	}

	tCtx, cancel := context.WithTimeout(ctx, time.Second*20)
	defer cancel()

	res := m.db.WithContext(tCtx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sap_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "city", "country", "synced_at", "updated_at"}),
		}).
		Create(&suppliers)

	return res.Error
}

func (m *mysqlConnector) GetSuppliers(ctx context.Context) ([]entities.Supplier, error) {
	tCtx, cancel := context.WithTimeout(ctx, time.Second*20)
	defer cancel()

	var suppliers []entities.Supplier
	res := m.db.WithContext(tCtx).Order("sap_code").Find(&suppliers)
	if res.Error != nil {
		return nil, res.Error
	}

	return suppliers, nil
}
