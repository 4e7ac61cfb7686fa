// Package export writes the admin report table as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"lostfound/internal/domain"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a query value to a Format. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// BOM is the UTF-8 byte order mark, written first so Excel on Windows
// detects the encoding.
var BOM = []byte{0xEF, 0xBB, 0xBF}

const sheetName = "Reports"

var columns = []string{
	"ID",
	"Item Name",
	"Category",
	"Description",
	"Location",
	"Contact",
	"Status",
	"Reported By",
	"Image URL",
	"Created At",
}

func reportToRow(r *domain.Report) []string {
	return []string{
		r.ID.String(),
		r.Name,
		string(r.Category),
		r.Description,
		r.Location,
		r.Contact,
		string(r.Status),
		r.ReporterEmail,
		r.ImageURL,
		r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Write encodes reports in format f to w.
func Write(w io.Writer, f Format, reports []domain.Report) error {
	if f == FormatXLSX {
		return WriteXLSX(w, reports)
	}
	return WriteCSV(w, reports)
}

// WriteCSV writes a BOM, the header row and one row per report.
func WriteCSV(w io.Writer, reports []domain.Report) error {
	if _, err := w.Write(BOM); err != nil {
		return fmt.Errorf("export.WriteCSV: bom: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("export.WriteCSV: header: %w", err)
	}
	for i := range reports {
		if err := cw.Write(reportToRow(&reports[i])); err != nil {
			return fmt.Errorf("export.WriteCSV: row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, reports []domain.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("export.WriteXLSX: sheet: %w", err)
	}

	if err := setRow(f, 1, columns); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export.WriteXLSX: style: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("export.WriteXLSX: header style: %w", err)
	}

	for i := range reports {
		if err := setRow(f, i+2, reportToRow(&reports[i])); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetName, "A", "J", 22); err != nil {
		return fmt.Errorf("export.WriteXLSX: widths: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.WriteXLSX: write: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export.WriteXLSX: cell: %w", err)
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &vals); err != nil {
		return fmt.Errorf("export.WriteXLSX: row %d: %w", row, err)
	}
	return nil
}

// BuildFilename returns the Content-Disposition filename for an export
// taken at now, e.g. lost_and_found_reports_2025-01-15.csv.
func BuildFilename(f Format, now time.Time) string {
	return fmt.Sprintf("lost_and_found_reports_%s.%s", now.Format("2006-01-02"), f)
}
