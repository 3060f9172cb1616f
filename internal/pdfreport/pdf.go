// Package pdfreport renders the ledger summary as a printable PDF.
package pdfreport

import (
	"bytes"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"github.com/Veraticus/momo-ledger/internal/sheets"
)

// ContentType is the MIME type of the rendered document.
const ContentType = "application/pdf"

const (
	title       = "MoMo Ledger Report"
	lineHeight  = 7.0
	maxContacts = 15
)

// Build renders the summary, monthly and contact sections of report.
// Individual transactions are not listed.
func Build(report *sheets.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders report to w.
func Write(w io.Writer, report *sheets.Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, lineHeight, "Generated: "+report.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.Ln(lineHeight + 3)

	if s := report.Summary; s != nil {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Cell(0, 8, fmt.Sprintf("Total volume: %s", rwf(s.TotalAmount)))
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, lineHeight, fmt.Sprintf("Transactions: %d    Fees: %s    Contacts: %d",
			s.TotalTransactions, rwf(s.TotalFees), s.UniqueContacts))
		pdf.Ln(lineHeight + 3)

		rows := make([][]string, 0, len(s.ByCategory))
		for _, c := range s.ByCategory {
			rows = append(rows, []string{string(c.Category), fmt.Sprint(c.Count), rwf(c.Total), c.Average.StringFixed(0)})
		}
		table(pdf, tr, "By category", []string{"Category", "Count", "Total", "Average"}, []float64{60, 25, 50, 40}, rows)
	}

	if len(report.Months) > 0 {
		rows := make([][]string, 0, len(report.Months))
		for _, m := range report.Months {
			rows = append(rows, []string{m.Month, fmt.Sprint(m.Count), rwf(m.Total), rwf(m.Fees)})
		}
		table(pdf, tr, "By month", []string{"Month", "Count", "Total", "Fees"}, []float64{40, 25, 55, 45}, rows)
	}

	if len(report.Contacts) > 0 {
		contacts := report.Contacts[:min(len(report.Contacts), maxContacts)]
		rows := make([][]string, 0, len(contacts))
		for _, c := range contacts {
			rows = append(rows, []string{c.Counterparty, fmt.Sprint(c.Count), rwf(c.Total), c.LastTimestamp})
		}
		table(pdf, tr, "Top contacts", []string{"Contact", "Count", "Total", "Last seen"}, []float64{65, 20, 45, 50}, rows)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func table(pdf *gofpdf.Fpdf, tr func(string) string, heading string, header []string, widths []float64, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, heading)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	for i, h := range header {
		pdf.CellFormat(widths[i], lineHeight, h, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(lineHeight)

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], lineHeight, tr(cell), "", 0, "L", false, 0, "")
		}
		pdf.Ln(lineHeight)
	}
	pdf.Ln(4)
}

func rwf(n int64) string {
	return fmt.Sprintf("%d RWF", n)
}
