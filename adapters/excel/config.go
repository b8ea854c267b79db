package excel

import (
	"popdash/internal/config"
)

// ReaderConfig holds configuration for the population data source
type ReaderConfig struct {
	FilePath string
	Sheet    string // xlsx only; first sheet when empty
	Encoding string // csv only; utf-8 or shift_jis
	Columns  ColumnLabels
}

// ReaderConfigFromData builds a ReaderConfig from the application data config
func ReaderConfigFromData(data config.DataConfig) ReaderConfig {
	return ReaderConfig{
		FilePath: data.File,
		Sheet:    data.Sheet,
		Encoding: data.Encoding,
		Columns:  LabelsFromConfig(data.Columns),
	}
}

// LabelsFromConfig converts configured column labels
func LabelsFromConfig(cols config.ColumnConfig) ColumnLabels {
	return ColumnLabels{
		Region:     cols.Region,
		Year:       cols.Year,
		Population: cols.Population,
	}
}

// DefaultColumnLabels returns the e-Stat prefecture table labels
func DefaultColumnLabels() ColumnLabels {
	return ColumnLabels{
		Region:     config.DefaultRegionColumn,
		Year:       config.DefaultYearColumn,
		Population: config.DefaultPopColumn,
	}
}
