package auditing

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oremont/rfp-service/internal/entities"
)

type stubLookup struct {
	currencies map[uint]string
	usages     map[uint]string
}

func (s *stubLookup) CurrencyCode(_ context.Context, id uint) (string, error) {
	code, ok := s.currencies[id]
	if !ok {
		return "", fmt.Errorf("no currency with id %d", id)
	}
	return code, nil
}

func (s *stubLookup) UsageLabel(_ context.Context, id uint) (string, error) {
	label, ok := s.usages[id]
	if !ok {
		return "", fmt.Errorf("no usage category with id %d", id)
	}
	return label, nil
}

func newStubLookup() *stubLookup {
	return &stubLookup{
		currencies: map[uint]string{1: "USD", 2: "IDR"},
		usages:     map[uint]string{5: "OPEX - Operational expense", 7: "CAPEX - Capital expense"},
	}
}

func baseValues() map[string]string {
	return map[string]string{
		"area":                   "head_office",
		"payee_name":             "PT Sumber Makmur",
		"due_date":               "2025-01-05",
		"currency_id":            "1",
		"usage_category_id":      "5",
		"subtotal_amount":        "100.00",
		"down_payment_amount":    "0.00",
		"withholding_tax_amount": "0.00",
		"grand_total_amount":     "100.00",
		"remarks":                "monthly office supplies",
	}
}

func TestDetectReturnsEmptyListForEquivalentValues(t *testing.T) {
	oldValues := baseValues()

	newValues := baseValues()
	// equivalent but differently formatted values must compare equal
	newValues["subtotal_amount"] = "100"
	newValues["grand_total_amount"] = "100.0"
	newValues["due_date"] = "Jan 5, 2025"
	newValues["remarks"] = "  monthly office supplies  "

	changes, err := Detect(context.Background(), oldValues, newValues, newStubLookup())
	require.NoError(t, err)
	require.Empty(t, changes)
}

func TestDetectReturnsExactlyOneRecordForOneChangedField(t *testing.T) {
	oldValues := baseValues()
	newValues := baseValues()
	newValues["due_date"] = "2025-01-06"

	changes, err := Detect(context.Background(), oldValues, newValues, newStubLookup())
	require.NoError(t, err)
	require.Len(t, changes, 1)
	require.Equal(t, entities.ChangeRecord{
		Field: "Due Date",
		Old:   "01/05/2025",
		New:   "01/06/2025",
	}, changes[0])
}

func TestDetectFormatsReferenceFields(t *testing.T) {
	oldValues := baseValues()
	newValues := baseValues()
	newValues["currency_id"] = "2"
	newValues["usage_category_id"] = "7"

	changes, err := Detect(context.Background(), oldValues, newValues, newStubLookup())
	require.NoError(t, err)
	require.Len(t, changes, 2)

	// tracked field order defines output order
	require.Equal(t, entities.ChangeRecord{Field: "Currency", Old: "USD", New: "IDR"}, changes[0])
	require.Equal(t, entities.ChangeRecord{
		Field: "Usage",
		Old:   "OPEX - Operational expense",
		New:   "CAPEX - Capital expense",
	}, changes[1])
}

func TestDetectFormatsAmountsWithThousandsSeparators(t *testing.T) {
	oldValues := baseValues()
	newValues := baseValues()
	newValues["grand_total_amount"] = "1234567.5"

	changes, err := Detect(context.Background(), oldValues, newValues, newStubLookup())
	require.NoError(t, err)
	require.Len(t, changes, 1)
	require.Equal(t, entities.ChangeRecord{
		Field: "Grand Total",
		Old:   "100.00",
		New:   "1,234,567.50",
	}, changes[0])
}

func TestDetectRendersAbsentValuesAsNA(t *testing.T) {
	oldValues := baseValues()
	oldValues["due_date"] = ""

	newValues := baseValues()
	newValues["due_date"] = "2025-02-28"
	newValues["remarks"] = ""

	changes, err := Detect(context.Background(), oldValues, newValues, newStubLookup())
	require.NoError(t, err)
	require.Len(t, changes, 2)
	require.Equal(t, entities.ChangeRecord{Field: "Due Date", Old: "N/A", New: "02/28/2025"}, changes[0])
	require.Equal(t, entities.ChangeRecord{
		Field: "Remarks",
		Old:   "monthly office supplies",
		New:   "N/A",
	}, changes[1])
}

func TestDetectFailsOnUnknownReference(t *testing.T) {
	oldValues := baseValues()
	newValues := baseValues()
	newValues["currency_id"] = "99"

	_, err := Detect(context.Background(), oldValues, newValues, newStubLookup())
	require.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Should not group amounts below one thousand",
			input:    "500",
			expected: "500.00",
		},
		{
			name:     "Should group every three digits",
			input:    "1234567.5",
			expected: "1,234,567.50",
		},
		{
			name:     "Should keep the sign outside the grouping",
			input:    "-1000",
			expected: "-1,000.00",
		},
		{
			name:     "Should pass through non numeric input",
			input:    "n/a",
			expected: "n/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, FormatAmount(tt.input))
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	list := entities.ChangeList{
		{Field: "Grand Total", Old: "500.00", New: "750.00"},
	}

	payload, err := list.Serialize()
	require.NoError(t, err)

	parsed, err := entities.ParseChangeList(payload)
	require.NoError(t, err)
	require.Equal(t, list, parsed)
}
