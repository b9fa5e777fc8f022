package entities

import (
	"database/sql"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestStatusDraft       RequestStatus = "draft"
	RequestStatusCancelled   RequestStatus = "cancelled"
	RequestStatusForApproval RequestStatus = "for_approval"
	RequestStatusApproved    RequestStatus = "approved"
	RequestStatusPaid        RequestStatus = "paid"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusDraft, RequestStatusCancelled, RequestStatusForApproval, RequestStatusApproved, RequestStatusPaid:
		return true
	}

	return false
}

// LegacyLabel maps the canonical status values to the display vocabulary
// still used on printed documents. Not stored anywhere.
func (s RequestStatus) LegacyLabel() string {
	switch s {
	case RequestStatusDraft:
		return "Draft"
	case RequestStatusCancelled:
		return "Cancelled"
	case RequestStatusForApproval:
		return "Final"
	case RequestStatusApproved:
		return "Final with CV"
	case RequestStatusPaid:
		return "Paid"
	}

	return string(s)
}

type Area string

const (
	AreaHeadOffice Area = "head_office"
	AreaMineSite   Area = "mine_site"
)

func (a Area) IsValid() bool {
	switch a {
	case AreaHeadOffice, AreaMineSite:
		return true
	}

	return false
}

type PayeeType string

const (
	PayeeTypeEmployee PayeeType = "employee"
	PayeeTypeSupplier PayeeType = "supplier"
)

func (p PayeeType) IsValid() bool {
	switch p {
	case PayeeTypeEmployee, PayeeTypeSupplier:
		return true
	}

	return false
}

// PaymentRequest is the central workflow entity. The request number is
// assigned once at creation and never changes afterwards.
type PaymentRequest struct {
	gorm.Model
	RequestNumber        string          `gorm:"uniqueIndex:idx_uq_request_number;type:varchar(20);NOT NULL"`
	Area                 Area            `gorm:"type:enum('head_office', 'mine_site')"`
	PayeeType            PayeeType       `gorm:"type:enum('employee', 'supplier')"`
	PayeeCode            string          `gorm:"type:varchar(40)"`
	PayeeName            string          `gorm:"type:varchar(180);NOT NULL"`
	DueDate              sql.NullTime    `gorm:"type:date;NULL;default:NULL"`
	CurrencyID           uint            `gorm:"index;NOT NULL"`
	UsageCategoryID      uint            `gorm:"index;NOT NULL"`
	SubtotalAmount       decimal.Decimal `gorm:"type:decimal(15,2)"`
	DownPaymentAmount    decimal.Decimal `gorm:"type:decimal(15,2)"`
	WithholdingTaxAmount decimal.Decimal `gorm:"type:decimal(15,2)"`
	GrandTotalAmount     decimal.Decimal `gorm:"type:decimal(15,2)"`
	Remarks              string          `gorm:"type:text"`
	Status               RequestStatus   `gorm:"type:enum('draft', 'cancelled', 'for_approval', 'approved', 'paid')"`
	PrintCount           uint            `gorm:"NOT NULL;default:0"`
	LastPrintedBy        string          `gorm:"type:varchar(180)"`
	LastPrintedAt        sql.NullTime    `gorm:"NULL;default:NULL"`
	LineItems            []LineItem      `gorm:"foreignKey:PaymentRequestID"`
}

// LineItem belongs to exactly one PaymentRequest. Line items have no
// identity of their own across updates, the submitted set replaces the
// stored set wholesale.
type LineItem struct {
	gorm.Model
	PaymentRequestID uint            `gorm:"index;NOT NULL"`
	AccountCode      string          `gorm:"type:varchar(40)"`
	AccountName      string          `gorm:"type:varchar(180)"`
	Description      string          `gorm:"type:text"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(15,2)"`
}
