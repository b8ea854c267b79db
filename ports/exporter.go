package ports

import (
	"io"

	"popdash/domain/population"
)

// Export formats
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// Exporter writes a filtered subset in a downloadable format
type Exporter interface {
	WriteCSV(w io.Writer, records []population.Record) error
	WriteXLSX(w io.Writer, records []population.Record) error
}
