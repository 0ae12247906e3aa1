package infra

// pdf.go — Session-history report generation using go-pdf/fpdf.
// Renders a landscape A4 table of the visible session subset plus the
// aggregate block, mirroring the CSV/XLSX column order.

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fitri99main/winny-pos-sub002/internal/model"

	"github.com/go-pdf/fpdf"
)

const pdfTimeLayout = "02/01/2006 15:04"

// GenerateHistoryPDF renders the filtered subset and its summary to PDF bytes.
func GenerateHistoryPDF(sessions []model.CashierSession, stats model.SummaryStats, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Cashier Session History", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Generated "+generatedAt.Format(pdfTimeLayout), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Table header ─────────────────────────────────────────────────────────
	widths := []float64{0.18, 0.13, 0.13, 0.12, 0.12, 0.12, 0.11, 0.09}
	headers := []string{"Cashier", "Opened", "Closed", "Starting Cash", "Total Sales", "Ending Cash", "Variance", "Status"}

	pdf.SetFont("Helvetica", "B", 8)
	for i, h := range headers {
		align := "R"
		if i < 3 || i == 7 {
			align = "L"
		}
		pdf.CellFormat(contentW*widths[i], 6, h, "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for i := range sessions {
		s := &sessions[i]
		closedAt := "-"
		if s.ClosedAt != nil {
			closedAt = s.ClosedAt.Format(pdfTimeLayout)
		}
		endingCash := "0"
		if s.EndingCash != nil {
			endingCash = s.EndingCash.String()
		}
		cells := []string{
			s.DisplayName(),
			s.OpenedAt.Format(pdfTimeLayout),
			closedAt,
			s.StartingCash.String(),
			s.TotalSales.String(),
			endingCash,
			s.ComputedVariance().String(),
			s.Status,
		}
		for j, cell := range cells {
			align := "R"
			if j < 3 || j == 7 {
				align = "L"
			}
			pdf.CellFormat(contentW*widths[j], 5, cell, "", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	// ── Summary ──────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 6, fmt.Sprintf(
		"Sessions: %d    Total sales: %s    Average variance: %s",
		stats.SessionCount, stats.TotalSales.String(), stats.AverageVariance.String(),
	), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render history report: %w", err)
	}
	return buf.Bytes(), nil
}
