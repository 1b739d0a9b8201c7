// Package report renders the back-office PDF reports.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	rowHeight  = 7.0
	margin     = 14.0
	fontFamily = "Helvetica"
)

// column is one table column; the running number column is added automatically.
type column struct {
	title string
	width float64 // mm
}

// document wraps an fpdf instance with the shared page furniture: a title block on
// the first page and a numbered footer on every page.
type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDocument(company, title string, landscape bool, from, to string, generated time.Time) *document {
	orientation := "P"
	if landscape {
		orientation = "L"
	}
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.AliasNbPages("")

	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFooterFunc(func() {
		w, h := pdf.GetPageSize()
		pdf.SetDrawColor(204, 204, 204)
		pdf.Line(margin, h-12, w-margin, h-12)
		pdf.SetY(-11)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footer := fmt.Sprintf("Generated %s - Page %d of {nb}", generated.Format("2006-01-02 15:04"), pdf.PageNo())
		pdf.CellFormat(0, 5, d.tr(footer), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 9, d.tr(company), "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "B", 13)
	pdf.CellFormat(0, 8, d.tr(title), "", 1, "C", false, 0, "")
	if from != "" || to != "" {
		pdf.SetFont(fontFamily, "", 10)
		pdf.CellFormat(0, 6, d.tr(fmt.Sprintf("Range: %s to %s", orDash(from), orDash(to))), "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)
	return d
}

func (d *document) heading(text string) {
	d.pdf.SetFont(fontFamily, "B", 12)
	d.pdf.CellFormat(0, 8, d.tr(text), "", 1, "L", false, 0, "")
}

func (d *document) header(cols []column) {
	pdf := d.pdf
	pdf.SetFont(fontFamily, "B", 9)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(10, rowHeight, d.tr("No."), "1", 0, "L", true, 0, "")
	for _, c := range cols {
		pdf.CellFormat(c.width, rowHeight, d.tr(c.title), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(fontFamily, "", 8)
}

// table draws rows under cols, repeating the header on every new page. Cells that
// do not fit their column are truncated; empty cells print as "-".
func (d *document) table(cols []column, rows [][]string) {
	pdf := d.pdf
	_, pageH := pdf.GetPageSize()
	limit := pageH - margin - 10

	d.header(cols)
	for i, row := range rows {
		if pdf.GetY()+rowHeight > limit {
			pdf.AddPage()
			d.header(cols)
		}
		pdf.CellFormat(10, rowHeight, fmt.Sprintf("%d", i+1), "1", 0, "L", false, 0, "")
		for j, c := range cols {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			pdf.CellFormat(c.width, rowHeight, d.fit(orDash(cell), c.width-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func (d *document) fit(s string, width float64) string {
	s = d.tr(s)
	if d.pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []byte(s)
	for len(r) > 0 && d.pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
