package pdfrender

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/oremont/rfp-service/internal/entities"
)

func sampleRequest() *entities.PaymentRequest {
	return &entities.PaymentRequest{
		RequestNumber:    "RFP-2025-01-0042",
		Area:             entities.AreaHeadOffice,
		PayeeType:        entities.PayeeTypeSupplier,
		PayeeCode:        "S-1001",
		PayeeName:        "PT Sumber Makmur",
		DueDate:          sql.NullTime{Time: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), Valid: true},
		SubtotalAmount:   decimal.RequireFromString("1234567.50"),
		GrandTotalAmount: decimal.RequireFromString("1234567.50"),
		Status:           entities.RequestStatusApproved,
		Remarks:          "urgent payment",
		PrintCount:       3,
		LineItems: []entities.LineItem{
			{AccountCode: "6100", AccountName: "Services", Description: "consulting services", TotalAmount: decimal.RequireFromString("1234567.50")},
		},
	}
}

func TestRenderSummaryProducesPDF(t *testing.T) {
	payload, err := RenderSummary(Document{
		Request:      sampleRequest(),
		CurrencyCode: "USD",
		UsageLabel:   "OPEX - Operational expense",
		FooterText:   "Oremont Group - internal document",
	})
	require.NoError(t, err)
	require.True(t, len(payload) > 500)
	require.Equal(t, "%PDF", string(payload[:4]))
}

func TestRenderSummaryHandlesSparseRequest(t *testing.T) {
	r := sampleRequest()
	r.DueDate = sql.NullTime{}
	r.Remarks = ""
	r.LineItems = nil

	payload, err := RenderSummary(Document{Request: r, CurrencyCode: "USD", UsageLabel: "OPEX - Operational expense"})
	require.NoError(t, err)
	require.Equal(t, "%PDF", string(payload[:4]))
}

func TestRenderSummaryRejectsNilRequest(t *testing.T) {
	_, err := RenderSummary(Document{})
	require.Error(t, err)
}
