package sink

import (
	"fmt"
	"os"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/salescope/salescope-cli/internal/report"
)

// WritePDF assembles the paginated report: a cover page, the executive
// summary, and the dashboard image when one was rendered. imagePath may be
// empty, in which case the image page is omitted.
func WritePDF(path string, sum *report.Summary, imagePath string) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pageW, pageH := pdf.GetPageSize()

	// Cover page
	pdf.AddPage()
	pdf.SetFillColor(26, 59, 92)
	pdf.Rect(0, 0, pageW, pageH, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetY(pageH * 0.3)
	pdf.MultiCell(0, 12, "VEHICLE SALES\nDEEP DIVE ANALYSIS", "", "C", false)
	pdf.SetFont("Helvetica", "", 16)
	pdf.Ln(10)
	if sum.MinYear > 0 {
		pdf.MultiCell(0, 8, fmt.Sprintf("%d - %d", sum.MinYear, sum.MaxYear), "", "C", false)
	}
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetY(pageH * 0.7)
	pdf.MultiCell(0, 6, fmt.Sprintf("Generated: %s", sum.GeneratedAt.Format("January 2, 2006")), "", "C", false)
	pdf.MultiCell(0, 6, fmt.Sprintf("Run: %s", sum.RunID), "", "C", false)

	// Executive summary page
	pdf.AddPage()
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, "EXECUTIVE SUMMARY", "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range sum.Lines() {
		pdf.CellFormat(0, 7, "- "+line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 10, "KEY INSIGHTS", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range sum.Insights {
		pdf.CellFormat(0, 7, "- "+line, "", 1, "L", false, 0, "")
	}

	// Dashboard image page
	if imagePath != "" {
		if _, err := os.Stat(imagePath); err == nil {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "B", 14)
			pdf.CellFormat(0, 10, "DASHBOARD", "", 1, "C", false, 0, "")
			pdf.ImageOptions(imagePath, 10, 25, pageW-20, 0, false,
				fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// PDFName returns the timestamped report filename.
func PDFName(now time.Time) string {
	return fmt.Sprintf("Vehicle_Sales_Analysis_Report_%s.pdf", now.Format("20060102_150405"))
}
