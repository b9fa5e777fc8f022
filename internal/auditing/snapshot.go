package auditing

import (
	"strconv"

	"github.com/oremont/rfp-service/internal/entities"
)

// TrackedSnapshot extracts the tracked field values of a payment request as
// the string map the change detector consumes.
func TrackedSnapshot(r *entities.PaymentRequest) map[string]string {
	dueDate := ""
	if r.DueDate.Valid {
		dueDate = r.DueDate.Time.Format("2006-01-02")
	}

	return map[string]string{
		"area":                   string(r.Area),
		"payee_name":             r.PayeeName,
		"due_date":               dueDate,
		"currency_id":            refID(r.CurrencyID),
		"usage_category_id":      refID(r.UsageCategoryID),
		"subtotal_amount":        r.SubtotalAmount.StringFixed(2),
		"down_payment_amount":    r.DownPaymentAmount.StringFixed(2),
		"withholding_tax_amount": r.WithholdingTaxAmount.StringFixed(2),
		"grand_total_amount":     r.GrandTotalAmount.StringFixed(2),
		"remarks":                r.Remarks,
	}
}

func refID(id uint) string {
	if id == 0 {
		return ""
	}

	return strconv.FormatUint(uint64(id), 10)
}
