package pdfrender

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/oremont/rfp-service/internal/auditing"
	"github.com/oremont/rfp-service/internal/entities"
)

// Document bundles a payment request with its resolved reference data for
// rendering. The renderer does not touch the database.
type Document struct {
	Request      *entities.PaymentRequest
	CurrencyCode string
	UsageLabel   string
	FooterText   string
}

const (
	pageMargin   = 15.0
	lineHeight   = 6.0
	labelWidth   = 40.0
	amountColumn = 35.0
)

// RenderSummary produces the printable one-page summary of a payment
// request as a PDF.
func RenderSummary(doc Document) ([]byte, error) {
	r := doc.Request
	if r == nil {
		return nil, fmt.Errorf("no request to render")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	writeHeader(pdf, r)
	writeInfoBlock(pdf, r, doc.CurrencyCode, doc.UsageLabel)
	writeLineItems(pdf, r)
	writeTotals(pdf, r)
	writeRemarks(pdf, r)
	writeSignatureBoxes(pdf)
	writeFooter(pdf, r, doc.FooterText)

	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *fpdf.Fpdf, r *entities.PaymentRequest) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Request for Payment", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, lineHeight, r.RequestNumber, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, lineHeight, fmt.Sprintf("Status: %s", r.Status.LegacyLabel()), "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func writeInfoBlock(pdf *fpdf.Fpdf, r *entities.PaymentRequest, currencyCode, usageLabel string) {
	dueDate := "N/A"
	if r.DueDate.Valid {
		dueDate = r.DueDate.Time.Format("January 2, 2006")
	}

	rows := []struct {
		label string
		value string
	}{
		{"Area", string(r.Area)},
		{"Payee", fmt.Sprintf("%s (%s %s)", r.PayeeName, r.PayeeType, r.PayeeCode)},
		{"Due Date", dueDate},
		{"Currency", currencyCode},
		{"Usage", usageLabel},
	}

	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(labelWidth, lineHeight, row.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, lineHeight, row.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func writeLineItems(pdf *fpdf.Fpdf, r *entities.PaymentRequest) {
	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pageMargin
	descWidth := usable - 20 - amountColumn - 40

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(20, lineHeight+1, "No.", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, lineHeight+1, "Account", "1", 0, "L", true, 0, "")
	pdf.CellFormat(descWidth, lineHeight+1, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(amountColumn, lineHeight+1, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for i, item := range r.LineItems {
		account := item.AccountCode
		if item.AccountName != "" {
			account = fmt.Sprintf("%s %s", item.AccountCode, item.AccountName)
		}

		pdf.CellFormat(20, lineHeight+1, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, lineHeight+1, account, "1", 0, "L", false, 0, "")
		pdf.CellFormat(descWidth, lineHeight+1, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(amountColumn, lineHeight+1, auditing.FormatAmount(item.TotalAmount.StringFixed(2)), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func writeTotals(pdf *fpdf.Fpdf, r *entities.PaymentRequest) {
	pageWidth, _ := pdf.GetPageSize()
	indent := pageWidth - 2*pageMargin - labelWidth - amountColumn

	rows := []struct {
		label string
		value string
		bold  bool
	}{
		{"Subtotal", auditing.FormatAmount(r.SubtotalAmount.StringFixed(2)), false},
		{"Down Payment", auditing.FormatAmount(r.DownPaymentAmount.StringFixed(2)), false},
		{"Withholding Tax", auditing.FormatAmount(r.WithholdingTaxAmount.StringFixed(2)), false},
		{"Grand Total", auditing.FormatAmount(r.GrandTotalAmount.StringFixed(2)), true},
	}

	for _, row := range rows {
		style := ""
		if row.bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(indent, lineHeight, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(labelWidth, lineHeight, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(amountColumn, lineHeight, row.value, "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func writeRemarks(pdf *fpdf.Fpdf, r *entities.PaymentRequest) {
	remarks := r.Remarks
	if remarks == "" {
		remarks = "N/A"
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, lineHeight, "Remarks", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, lineHeight, remarks, "", "L", false)
	pdf.Ln(6)
}

func writeSignatureBoxes(pdf *fpdf.Fpdf) {
	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pageMargin
	boxWidth := usable / 3

	pdf.SetFont("Helvetica", "", 10)
	for _, label := range []string{"Prepared by", "Approved by", "Paid by"} {
		pdf.CellFormat(boxWidth, 25, label, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
}

func writeFooter(pdf *fpdf.Fpdf, r *entities.PaymentRequest, footerText string) {
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 8)
	if footerText != "" {
		pdf.CellFormat(0, 5, footerText, "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 5, fmt.Sprintf("Print no. %d", r.PrintCount), "", 1, "C", false, 0, "")
}
