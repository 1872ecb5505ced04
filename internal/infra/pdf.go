package infra

// pdf.go: document generation using go-pdf/fpdf:
//   - 80 × 150 mm thermal-style sale receipt
//   - A4 stock valuation report
//   - A4 financial summary with the most recent transactions
//
// Every renderer returns the PDF bytes; SaveReceiptPDF also writes the
// receipt under a storage directory for the receipt worker.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/dto"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
)

// FinancialReportRows is how many recent transactions the financial PDF lists.
const FinancialReportRows = 50

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// ── Receipt ───────────────────────────────────────────────────────────────────

// RenderReceiptPDF draws one sale on an 80 × 150 mm page: store header,
// lines as "qty x price" with the extended amount, total, payment method
// and, for cash, the change.
func RenderReceiptPDF(tx model.Transaction, profile model.StoreProfile, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.Local
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: 150},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(true, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 6, tr(profile.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.MultiCell(contentW, 3.5, tr(profile.Address), "", "C", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, tr(tx.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tx.Date.In(loc).Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Pelanggan: "+tx.CustomerName), "", 1, "L", false, 0, "")
	if profile.AdminName != "" {
		pdf.CellFormat(contentW, 4, tr("Kasir: "+profile.AdminName), "", 1, "L", false, 0, "")
	}
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ─────────────────────────────────────────────────────────────────
	amountW := contentW * 0.38
	for _, item := range tx.Items {
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(contentW, 4, tr(truncate(item.Name, 40)), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(contentW-amountW, 4, fmt.Sprintf("%d x %s", item.Quantity, FormatNumber(item.Price)), "", 0, "L", false, 0, "")
		pdf.CellFormat(amountW, 4, FormatNumber(item.LineTotal()), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW-amountW, 6, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(amountW, 6, FormatRupiah(tx.Total), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW-amountW, 4, "Metode", "", 0, "L", false, 0, "")
	pdf.CellFormat(amountW, 4, string(tx.PaymentMethod), "", 1, "R", false, 0, "")
	if tx.PaymentMethod == model.PaymentCash {
		pdf.CellFormat(contentW-amountW, 4, "Tunai", "", 0, "L", false, 0, "")
		pdf.CellFormat(amountW, 4, FormatRupiah(tx.AmountGiven), "", 1, "R", false, 0, "")
		pdf.CellFormat(contentW-amountW, 4, "Kembalian", "", 0, "L", false, 0, "")
		pdf.CellFormat(amountW, 4, FormatRupiah(tx.Change), "", 1, "R", false, 0, "")
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Terima kasih atas kunjungan Anda", "", 1, "C", false, 0, "")

	return output(pdf)
}

// SaveReceiptPDF renders the receipt to storagePath/receipt_<id>.pdf
// (directory created if needed) and returns the file path.
func SaveReceiptPDF(tx model.Transaction, profile model.StoreProfile, loc *time.Location, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	data, err := RenderReceiptPDF(tx, profile, loc)
	if err != nil {
		return "", err
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("receipt_%s.pdf", tx.ID))
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// ── Reports ───────────────────────────────────────────────────────────────────

func reportHeader(pdf *fpdf.Fpdf, tr func(string) string, title string, profile model.StoreProfile, generatedAt time.Time) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 7, tr(profile.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr(profile.Address), "", 1, "L", false, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 6, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 5, "Dicetak: "+generatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(3)
}

func tableRow(pdf *fpdf.Fpdf, widths []float64, aligns []string, cells []string, border string) {
	for i, cell := range cells {
		ln := 0
		if i == len(cells)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 6, cell, border, ln, aligns[i], false, 0, "")
	}
}

// RenderStockValuationPDF lists every product with its cost valuation
// (cost price × stock) and a grand total row.
func RenderStockValuationPDF(products []model.Product, profile model.StoreProfile, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	reportHeader(pdf, tr, "Laporan Valuasi Stok", profile, generatedAt)

	widths := []float64{28, 50, 26, 24, 24, 14, 24}
	aligns := []string{"L", "L", "L", "R", "R", "R", "R"}
	pdf.SetFont("Helvetica", "B", 8)
	tableRow(pdf, widths, []string{"C", "C", "C", "C", "C", "C", "C"},
		[]string{"Barcode", "Nama", "Kategori", "Harga Modal", "Harga Jual", "Stok", "Valuasi"}, "1")

	pdf.SetFont("Helvetica", "", 8)
	var totalValue int64
	totalUnits := 0
	for _, p := range products {
		totalValue += p.StockValue()
		totalUnits += p.Stock
		tableRow(pdf, widths, aligns, []string{
			tr(truncate(p.Barcode, 16)),
			tr(truncate(p.Name, 30)),
			tr(truncate(p.Category, 14)),
			FormatNumber(p.CostPrice),
			FormatNumber(p.Price),
			FormatNumber(int64(p.Stock)),
			FormatNumber(p.StockValue()),
		}, "1")
	}

	pdf.SetFont("Helvetica", "B", 8)
	labelW := widths[0] + widths[1] + widths[2] + widths[3] + widths[4]
	pdf.CellFormat(labelW, 6, "TOTAL", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[5], 6, FormatNumber(int64(totalUnits)), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[6], 6, FormatNumber(totalValue), "1", 1, "R", false, 0, "")

	return output(pdf)
}

// RenderFinancialPDF prints revenue, COGS and gross profit, then the most
// recent transactions (newest first, at most FinancialReportRows).
func RenderFinancialPDF(summary dto.ReportSummary, txs []model.Transaction, profile model.StoreProfile, generatedAt time.Time, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.Local
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	reportHeader(pdf, tr, "Laporan Keuangan", profile, generatedAt.In(loc))

	// ── Summary ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 10)
	summaryRows := [][2]string{
		{"Total Pendapatan", FormatRupiah(summary.TotalRevenue)},
		{"Harga Pokok Penjualan (HPP)", FormatRupiah(summary.TotalCOGS)},
		{"Laba Kotor", FormatRupiah(summary.GrossProfit)},
		{"Margin Kotor", summary.GrossMargin.StringFixed(2) + "%"},
		{"Jumlah Transaksi", FormatNumber(int64(summary.TransactionCount))},
	}
	for _, row := range summaryRows {
		pdf.CellFormat(80, 6, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, row[1], "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// ── Recent transactions ───────────────────────────────────────────────────
	if len(txs) > FinancialReportRows {
		txs = txs[:FinancialReportRows]
	}
	widths := []float64{30, 36, 58, 24, 42}
	aligns := []string{"L", "L", "L", "C", "R"}
	pdf.SetFont("Helvetica", "B", 8)
	tableRow(pdf, widths, []string{"C", "C", "C", "C", "C"},
		[]string{"ID", "Tanggal", "Pelanggan", "Metode", "Total"}, "1")
	pdf.SetFont("Helvetica", "", 8)
	for _, tx := range txs {
		tableRow(pdf, widths, aligns, []string{
			tr(tx.ID),
			tx.Date.In(loc).Format("02/01/2006 15:04"),
			tr(truncate(tx.CustomerName, 34)),
			string(tx.PaymentMethod),
			FormatRupiah(tx.Total),
		}, "1")
	}

	return output(pdf)
}
