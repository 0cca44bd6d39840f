package submission

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/greenroots/greenroots-backend/internal/content"
)

// Export formats
const (
	FormatCSV   = "csv"
	FormatExcel = "xlsx"
	FormatPDF   = "pdf"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Exporter renders a collection's entries as a downloadable file.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

// Export returns the file body, its name and its MIME type. Columns are
// the keys of the first entry.
func (e *Exporter) Export(c Collection, format string, entries []Entry, day time.Time) ([]byte, string, string, error) {
	headers := Headers(entries)
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = cellValue(entry[h])
		}
		rows = append(rows, row)
	}

	if format == "" {
		format = FormatCSV
	}
	filename := fmt.Sprintf("greenroots_%s_%s.%s", c, day.Format("2006-01-02"), format)

	switch format {
	case FormatCSV:
		return exportCSV(headers, rows), filename, "text/csv", nil

	case FormatExcel:
		data, err := exportExcel(string(c), headers, rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		data, err := exportPDF(string(c), headers, rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, filename, "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Headers are the keys of the first entry, sorted.
func Headers(entries []Entry) []string {
	if len(entries) == 0 {
		return nil
	}
	headers := make([]string, 0, len(entries[0]))
	for k := range entries[0] {
		headers = append(headers, k)
	}
	sort.Strings(headers)
	return headers
}

// cellValue prints a stored value. Empty, false and zero values print
// blank, as the admin panel always did.
func cellValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		if !t {
			return ""
		}
	case float64:
		if t == 0 {
			return ""
		}
	case int64:
		if t == 0 {
			return ""
		}
	case int:
		if t == 0 {
			return ""
		}
	case map[string]any, []any:
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	}
	return content.Text(v)
}

// exportCSV quotes every field, not only the ones that need it.
func exportCSV(headers []string, rows [][]string) []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(headers, ","))
	buf.WriteByte('\n')
	for _, row := range rows {
		for i, v := range row {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(v, `"`, `""`))
			buf.WriteByte('"')
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func exportExcel(title string, headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := sheetTitle(title)
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheetName, cell, header)
	}
	for r, row := range rows {
		for i, v := range row {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheetName, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sheetTitle fits a sheet name into Excel's 31 character limit.
func sheetTitle(s string) string {
	if len(s) > 31 {
		return s[:31]
	}
	return s
}

func exportPDF(title string, headers []string, rows [][]string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr("GreenRoots "+title))
	pdf.Ln(20)

	if len(headers) == 0 {
		return outputPDF(pdf)
	}

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := (pageWidth - left - right) / float64(len(headers))
	maxChars := int(width / 1.6)

	pdf.SetFont("Arial", "B", 8)
	for _, h := range headers {
		pdf.CellFormat(width, 7, tr(clip(h, maxChars)), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	for _, row := range rows {
		for _, v := range row {
			pdf.CellFormat(width, 6, tr(clip(v, maxChars)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return outputPDF(pdf)
}

func outputPDF(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
