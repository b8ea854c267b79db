package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"

	"popdash/domain/population"
)

const (
	dataSheet    = "data"
	summarySheet = "summary"
)

// Exporter writes filtered records as CSV or xlsx using the dataset's own
// column labels
type Exporter struct {
	labels ColumnLabels
}

// NewExporter creates an exporter with the given header labels
func NewExporter(labels ColumnLabels) *Exporter {
	return &Exporter{labels: labels}
}

// WriteCSV writes records as CSV prefixed with a UTF-8 byte-order mark so
// that spreadsheet tools pick the right encoding
func (e *Exporter) WriteCSV(w io.Writer, records []population.Record) error {
	bomWriter := unicode.UTF8BOM.NewEncoder().Writer(w)
	cw := csv.NewWriter(bomWriter)

	if err := cw.Write([]string{e.labels.Region, e.labels.Year, e.labels.Population}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range records {
		row := []string{rec.Region, strconv.Itoa(rec.Year), strconv.FormatInt(rec.Population, 10)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	if closer, ok := bomWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// WriteXLSX writes records to a workbook with a data sheet and a per-year
// summary sheet
func (e *Exporter) WriteXLSX(w io.Writer, records []population.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return fmt.Errorf("failed to name data sheet: %w", err)
	}

	headers := []interface{}{e.labels.Region, e.labels.Year, e.labels.Population}
	if err := f.SetSheetRow(dataSheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, rec := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{rec.Region, rec.Year, rec.Population}
		if err := f.SetSheetRow(dataSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(dataSheet, "A", "C", 16)

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	summaryHeaders := []interface{}{e.labels.Year, e.labels.Population}
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeaders); err != nil {
		return fmt.Errorf("failed to write summary headers: %w", err)
	}
	for i, total := range population.TotalsByYear(records) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{total.Year, total.Total}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "B", 16)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
