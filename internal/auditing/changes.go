// Package auditing computes the field level diffs and short codes that feed
// the audit trail of a payment request.
package auditing

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oremont/rfp-service/internal/entities"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindAmount
	kindDate
	kindCurrencyRef
	kindUsageRef
)

// TrackedField is one entry of the fixed field set eligible for change
// detection. The order of trackedFields defines the order of the resulting
// change records.
type TrackedField struct {
	Key   string
	Label string
	kind  fieldKind
}

var trackedFields = []TrackedField{
	{Key: "area", Label: "Area", kind: kindText},
	{Key: "payee_name", Label: "Payee Name", kind: kindText},
	{Key: "due_date", Label: "Due Date", kind: kindDate},
	{Key: "currency_id", Label: "Currency", kind: kindCurrencyRef},
	{Key: "usage_category_id", Label: "Usage", kind: kindUsageRef},
	{Key: "subtotal_amount", Label: "Subtotal", kind: kindAmount},
	{Key: "down_payment_amount", Label: "Down Payment", kind: kindAmount},
	{Key: "withholding_tax_amount", Label: "Withholding Tax", kind: kindAmount},
	{Key: "grand_total_amount", Label: "Grand Total", kind: kindAmount},
	{Key: "remarks", Label: "Remarks", kind: kindText},
}

// TrackedFields exposes a copy of the tracked field set.
func TrackedFields() []TrackedField {
	res := make([]TrackedField, len(trackedFields))
	copy(res, trackedFields)
	return res
}

// RefLookup resolves reference ids for display formatting.
type RefLookup interface {
	CurrencyCode(ctx context.Context, id uint) (string, error)
	UsageLabel(ctx context.Context, id uint) (string, error)
}

// Detect compares the previous and the submitted field value maps over the
// tracked field set and returns one change record per field whose
// normalized values differ. An empty result means nothing changed and the
// caller must not write an audit entry.
func Detect(ctx context.Context, oldValues, newValues map[string]string, lookup RefLookup) (entities.ChangeList, error) {
	changes := make(entities.ChangeList, 0)

	for _, field := range trackedFields {
		oldNorm := normalize(field.kind, oldValues[field.Key])
		newNorm := normalize(field.kind, newValues[field.Key])

		if oldNorm == newNorm {
			continue
		}

		oldDisplay, err := display(ctx, field.kind, oldNorm, lookup)
		if err != nil {
			return nil, err
		}

		newDisplay, err := display(ctx, field.kind, newNorm, lookup)
		if err != nil {
			return nil, err
		}

		changes = append(changes, entities.ChangeRecord{
			Field: field.Label,
			Old:   oldDisplay,
			New:   newDisplay,
		})
	}

	return changes, nil
}

// accepted textual date shapes, most specific first
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// normalize maps equivalent spellings of a field value onto one canonical
// string so that the comparison ignores formatting differences.
func normalize(kind fieldKind, value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	switch kind {
	case kindAmount:
		d, err := decimal.NewFromString(trimmed)
		if err != nil {
			return trimmed
		}
		return d.StringFixed(2)
	case kindDate:
		t, ok := parseDate(trimmed)
		if !ok {
			return trimmed
		}
		return t.Format("2006-01-02")
	default:
		return trimmed
	}
}

// display renders a normalized value for the audit trail.
func display(ctx context.Context, kind fieldKind, normalized string, lookup RefLookup) (string, error) {
	if normalized == "" {
		return "N/A", nil
	}

	switch kind {
	case kindAmount:
		return FormatAmount(normalized), nil
	case kindDate:
		t, ok := parseDate(normalized)
		if !ok {
			return normalized, nil
		}
		return t.Format("01/02/2006"), nil
	case kindCurrencyRef:
		id, err := strconv.ParseUint(normalized, 10, 64)
		if err != nil {
			return normalized, nil
		}
		code, err := lookup.CurrencyCode(ctx, uint(id))
		if err != nil {
			return "", err
		}
		return code, nil
	case kindUsageRef:
		id, err := strconv.ParseUint(normalized, 10, 64)
		if err != nil {
			return normalized, nil
		}
		label, err := lookup.UsageLabel(ctx, uint(id))
		if err != nil {
			return "", err
		}
		return label, nil
	default:
		return normalized, nil
	}
}

// FormatAmount renders a monetary value with thousands separators and two
// fraction digits, e.g. 1234567.5 -> 1,234,567.50.
func FormatAmount(value string) string {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return value
	}

	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteRune(',')
		}
		sb.WriteRune(r)
	}

	return sign + sb.String() + "." + fracPart
}
