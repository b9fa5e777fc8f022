package v1requests

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oremont/rfp-service/internal/entities"
	"github.com/oremont/rfp-service/internal/interaction"
)

const dateLayout = "2006-01-02"

type LineItemDto struct {
	AccountCode string `json:"account_code"`
	AccountName string `json:"account_name"`
	Description string `json:"description"`
	TotalAmount string `json:"total_amount"`
}

type RequestDto struct {
	ID                   uint          `json:"id"`
	RequestNumber        string        `json:"request_number"`
	Area                 string        `json:"area"`
	PayeeType            string        `json:"payee_type"`
	PayeeCode            string        `json:"payee_code"`
	PayeeName            string        `json:"payee_name"`
	DueDate              string        `json:"due_date,omitempty"`
	CurrencyID           uint          `json:"currency_id"`
	UsageCategoryID      uint          `json:"usage_category_id"`
	SubtotalAmount       string        `json:"subtotal_amount"`
	DownPaymentAmount    string        `json:"down_payment_amount"`
	WithholdingTaxAmount string        `json:"withholding_tax_amount"`
	GrandTotalAmount     string        `json:"grand_total_amount"`
	Remarks              string        `json:"remarks"`
	Status               string        `json:"status"`
	StatusLabel          string        `json:"status_label"`
	PrintCount           uint          `json:"print_count"`
	LastPrintedBy        string        `json:"last_printed_by,omitempty"`
	LastPrintedAt        string        `json:"last_printed_at,omitempty"`
	CreatedAt            string        `json:"created_at"`
	UpdatedAt            string        `json:"updated_at"`
	LineItems            []LineItemDto `json:"line_items"`
}

type RequestListDto struct {
	Requests []RequestDto `json:"requests"`
}

// WriteRequestDto carries the writable fields of a payment request. Used
// for both create and update, amounts travel as strings with two decimals
// and dates in ISO format.
type WriteRequestDto struct {
	// may only be set on create, and only by api token callers
	RequestNumber string `json:"request_number,omitempty"`

	Area                 string        `json:"area"`
	PayeeType            string        `json:"payee_type"`
	PayeeCode            string        `json:"payee_code"`
	PayeeName            string        `json:"payee_name"`
	DueDate              string        `json:"due_date,omitempty"`
	CurrencyID           uint          `json:"currency_id"`
	UsageCategoryID      uint          `json:"usage_category_id"`
	SubtotalAmount       string        `json:"subtotal_amount"`
	DownPaymentAmount    string        `json:"down_payment_amount"`
	WithholdingTaxAmount string        `json:"withholding_tax_amount"`
	GrandTotalAmount     string        `json:"grand_total_amount"`
	Remarks              string        `json:"remarks"`
	LineItems            []LineItemDto `json:"line_items"`

	// free text recorded with the audit entry of an update
	AuditRemarks string `json:"audit_remarks,omitempty"`
}

type StatusChangeDto struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks,omitempty"`
}

type ChangeRecordDto struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

type AuditLogEntryDto struct {
	Code       string            `json:"code"`
	ActingUser string            `json:"acting_user,omitempty"`
	StatusFrom string            `json:"status_from"`
	StatusInto string            `json:"status_into"`
	Changes    []ChangeRecordDto `json:"changes"`
	// set instead of changes for system events such as PDF generation
	Description string `json:"description,omitempty"`
	Remarks     string `json:"remarks,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type AuditLogDto struct {
	Entries []AuditLogEntryDto `json:"entries"`
}

func toRequestDto(r *entities.PaymentRequest) RequestDto {
	dto := RequestDto{
		ID:                   r.ID,
		RequestNumber:        r.RequestNumber,
		Area:                 string(r.Area),
		PayeeType:            string(r.PayeeType),
		PayeeCode:            r.PayeeCode,
		PayeeName:            r.PayeeName,
		CurrencyID:           r.CurrencyID,
		UsageCategoryID:      r.UsageCategoryID,
		SubtotalAmount:       r.SubtotalAmount.StringFixed(2),
		DownPaymentAmount:    r.DownPaymentAmount.StringFixed(2),
		WithholdingTaxAmount: r.WithholdingTaxAmount.StringFixed(2),
		GrandTotalAmount:     r.GrandTotalAmount.StringFixed(2),
		Remarks:              r.Remarks,
		Status:               string(r.Status),
		StatusLabel:          r.Status.LegacyLabel(),
		PrintCount:           r.PrintCount,
		LastPrintedBy:        r.LastPrintedBy,
		CreatedAt:            r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            r.UpdatedAt.Format(time.RFC3339),
		LineItems:            make([]LineItemDto, 0, len(r.LineItems)),
	}

	if r.DueDate.Valid {
		dto.DueDate = r.DueDate.Time.Format(dateLayout)
	}
	if r.LastPrintedAt.Valid {
		dto.LastPrintedAt = r.LastPrintedAt.Time.Format(time.RFC3339)
	}

	for _, item := range r.LineItems {
		dto.LineItems = append(dto.LineItems, LineItemDto{
			AccountCode: item.AccountCode,
			AccountName: item.AccountName,
			Description: item.Description,
			TotalAmount: item.TotalAmount.StringFixed(2),
		})
	}

	return dto
}

func toAuditLogEntryDto(entry entities.AuditLogEntry) AuditLogEntryDto {
	dto := AuditLogEntryDto{
		Code:       entry.Code,
		StatusFrom: entry.StatusFrom,
		StatusInto: entry.StatusInto,
		Changes:    make([]ChangeRecordDto, 0),
		Remarks:    entry.Remarks,
		CreatedAt:  entry.CreatedAt.Format(time.RFC3339),
	}

	if entry.ActingUser.Valid {
		dto.ActingUser = entry.ActingUser.String
	}

	if entry.Changes == "" {
		return dto
	}

	changes, err := entities.ParseChangeList(entry.Changes)
	if err != nil {
		// system events store a plain descriptive string in the payload column
		dto.Description = entry.Changes
		return dto
	}

	for _, change := range changes {
		dto.Changes = append(dto.Changes, ChangeRecordDto(change))
	}

	return dto
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount in field %s: %s", field, value)
	}

	return amount, nil
}

func parseDueDate(value string) (sql.NullTime, error) {
	if value == "" {
		return sql.NullTime{}, nil
	}

	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return sql.NullTime{}, fmt.Errorf("invalid due_date, expected YYYY-MM-DD: %s", value)
	}

	return sql.NullTime{Time: parsed, Valid: true}, nil
}

func (dto *WriteRequestDto) toEntity() (*entities.PaymentRequest, error) {
	dueDate, err := parseDueDate(dto.DueDate)
	if err != nil {
		return nil, err
	}

	subtotal, err := parseAmount("subtotal_amount", dto.SubtotalAmount)
	if err != nil {
		return nil, err
	}
	downPayment, err := parseAmount("down_payment_amount", dto.DownPaymentAmount)
	if err != nil {
		return nil, err
	}
	withholdingTax, err := parseAmount("withholding_tax_amount", dto.WithholdingTaxAmount)
	if err != nil {
		return nil, err
	}
	grandTotal, err := parseAmount("grand_total_amount", dto.GrandTotalAmount)
	if err != nil {
		return nil, err
	}

	lineItems, err := dto.lineItemEntities()
	if err != nil {
		return nil, err
	}

	return &entities.PaymentRequest{
		RequestNumber:        dto.RequestNumber,
		Area:                 entities.Area(dto.Area),
		PayeeType:            entities.PayeeType(dto.PayeeType),
		PayeeCode:            dto.PayeeCode,
		PayeeName:            dto.PayeeName,
		DueDate:              dueDate,
		CurrencyID:           dto.CurrencyID,
		UsageCategoryID:      dto.UsageCategoryID,
		SubtotalAmount:       subtotal,
		DownPaymentAmount:    downPayment,
		WithholdingTaxAmount: withholdingTax,
		GrandTotalAmount:     grandTotal,
		Remarks:              dto.Remarks,
		LineItems:            lineItems,
	}, nil
}

func (dto *WriteRequestDto) toUpdate() (*interaction.RequestUpdate, error) {
	entity, err := dto.toEntity()
	if err != nil {
		return nil, err
	}

	return &interaction.RequestUpdate{
		Area:                 entity.Area,
		PayeeType:            entity.PayeeType,
		PayeeCode:            entity.PayeeCode,
		PayeeName:            entity.PayeeName,
		DueDate:              entity.DueDate,
		CurrencyID:           entity.CurrencyID,
		UsageCategoryID:      entity.UsageCategoryID,
		SubtotalAmount:       entity.SubtotalAmount,
		DownPaymentAmount:    entity.DownPaymentAmount,
		WithholdingTaxAmount: entity.WithholdingTaxAmount,
		GrandTotalAmount:     entity.GrandTotalAmount,
		Remarks:              entity.Remarks,
		LineItems:            entity.LineItems,
		AuditRemarks:         dto.AuditRemarks,
	}, nil
}

func (dto *WriteRequestDto) lineItemEntities() ([]entities.LineItem, error) {
	lineItems := make([]entities.LineItem, 0, len(dto.LineItems))
	for _, item := range dto.LineItems {
		amount, err := parseAmount("line item total_amount", item.TotalAmount)
		if err != nil {
			return nil, err
		}

		lineItems = append(lineItems, entities.LineItem{
			AccountCode: item.AccountCode,
			AccountName: item.AccountName,
			Description: item.Description,
			TotalAmount: amount,
		})
	}

	return lineItems, nil
}
