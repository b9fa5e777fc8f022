package entities

import (
	"time"

	"gorm.io/gorm"
)

// Currency is a lookup table referenced by payment requests and used for
// audit log display formatting.
type Currency struct {
	gorm.Model
	Code string `gorm:"uniqueIndex:idx_uq_currency_code;type:varchar(3);NOT NULL"`
	Name string `gorm:"type:varchar(80)"`
}

// UsageCategory is a lookup table referenced by payment requests.
type UsageCategory struct {
	gorm.Model
	Code        string `gorm:"uniqueIndex:idx_uq_usage_code;type:varchar(20);NOT NULL"`
	Description string `gorm:"type:varchar(180)"`
}

// Supplier mirrors the supplier list of the external ERP. It is written
// only by the sync worker and read-only everywhere else.
type Supplier struct {
	gorm.Model
	SAPCode  string    `gorm:"uniqueIndex:idx_uq_sap_code;type:varchar(40);NOT NULL"`
	Name     string    `gorm:"type:varchar(180);NOT NULL"`
	City     string    `gorm:"type:varchar(80)"`
	Country  string    `gorm:"type:varchar(80)"`
	SyncedAt time.Time `gorm:"NOT NULL"`
}
