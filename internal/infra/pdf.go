package infra

// pdf.go — receipt PDF generation using go-pdf/fpdf.
// Generates thermal-receipt-style tickets with:
//   - Business name header
//   - Receipt number and timestamp
//   - Item table (name, quantity, line total) for purchases
//   - Cashback amount + service charge for cashback transactions
//   - Discount line (if applicable)
//   - Bold total, amount paid, change
//
// The output file is saved to storagePath/receipt_{number}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"tillpoint/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReceiptPDF renders a PDF receipt for a committed sale.
// storagePath is the directory the PDF is written to (created if needed).
// Returns the absolute path to the generated file.
func GenerateReceiptPDF(sale *model.Sale, businessName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%d.pdf", sale.ReceiptNumber)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, businessName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	subtitle := "Sales Receipt"
	if sale.Kind == model.SaleKindCashback {
		subtitle = "Cashback Receipt"
	}
	pdf.CellFormat(contentW, 5, subtitle, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Receipt info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Receipt #%d", sale.ReceiptNumber), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, sale.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52 // item name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // line total

	if sale.Kind == model.SaleKindCashback {
		pdf.SetFont("Helvetica", "", 7)
		if sale.CashbackAmount != nil {
			pdf.CellFormat(col1+col2, 5, "Cash disbursed:", "", 0, "L", false, 0, "")
			pdf.CellFormat(col3, 5, sale.CashbackAmount.StringFixed(2), "", 1, "R", false, 0, "")
		}
		if sale.ServiceCharge != nil && !sale.ServiceCharge.IsZero() {
			pdf.CellFormat(col1+col2, 5, "Service charge:", "", 0, "L", false, 0, "")
			pdf.CellFormat(col3, 5, sale.ServiceCharge.StringFixed(2), "", 1, "R", false, 0, "")
		}
	} else {
		// ── Items ────────────────────────────────────────────────────────────
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "Total", "B", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 7)
		for _, item := range sale.Items {
			name := item.Name
			if len(name) > 22 {
				name = name[:21] + "…"
			}
			pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 5, "x"+item.Quantity.String(), "", 0, "C", false, 0, "")
			pdf.CellFormat(col3, 5, item.Total.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	if !sale.DiscountAmount.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Discount:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-"+sale.DiscountAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if !sale.TaxAmount.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Tax:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, sale.TaxAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, sale.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Payments ─────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	for _, p := range sale.Payments {
		label := "Paid (" + p.Method + "):"
		pdf.CellFormat(col1+col2, 4, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, p.Amount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if !sale.ChangeGiven.IsZero() {
		pdf.CellFormat(col1+col2, 4, "Change:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, sale.ChangeGiven.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if !sale.AmountDue.IsZero() {
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(col1+col2, 4, "Balance due:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, sale.AmountDue.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you for your business!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
