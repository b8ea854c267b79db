package excel

// RawRowData represents a row of raw spreadsheet data as header -> cell text
type RawRowData map[string]string

// ExcelData represents a complete sheet or CSV file
type ExcelData struct {
	Headers []string     // Column headers, in file order
	Rows    []RawRowData // Data rows
}

// HasColumn reports whether a header with the given label exists
func (d *ExcelData) HasColumn(label string) bool {
	for _, h := range d.Headers {
		if h == label {
			return true
		}
	}
	return false
}

// ColumnLabels names the region, year and population columns of a file
type ColumnLabels struct {
	Region     string
	Year       string
	Population string
}
