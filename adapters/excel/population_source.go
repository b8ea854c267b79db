package excel

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"popdash/domain/population"
	"popdash/internal"
	"popdash/internal/errors"
)

// PopulationSource implements ports.DatasetSource over a CSV or xlsx file
type PopulationSource struct {
	config ReaderConfig
	reader *DataReader
	logger *internal.Logger
}

// NewPopulationSource creates a source for the configured file and columns
func NewPopulationSource(cfg ReaderConfig) *PopulationSource {
	return &PopulationSource{
		config: cfg,
		reader: NewDataReader(cfg.FilePath).WithSheet(cfg.Sheet).WithEncoding(cfg.Encoding),
		logger: internal.DefaultLogger.Component("population_source"),
	}
}

// Describe returns the backing file path
func (s *PopulationSource) Describe() string {
	return s.config.FilePath
}

// Load reads the file and maps the configured columns into records. Every
// failure is collapsed into a DATASET_UNAVAILABLE error.
func (s *PopulationSource) Load(ctx context.Context) (*population.Dataset, error) {
	raw, err := s.reader.ReadData(ctx)
	if err != nil {
		s.logger.Error("failed to read %s: %v", s.config.FilePath, err)
		return nil, errors.DatasetUnavailable(err)
	}

	records, err := ToRecords(raw, s.config.Columns)
	if err != nil {
		s.logger.Error("failed to parse %s: %v", s.config.FilePath, err)
		return nil, errors.DatasetUnavailable(err)
	}

	s.logger.Info("loaded %d records from %s", len(records), s.config.FilePath)
	return &population.Dataset{
		Records:  records,
		Source:   s.config.FilePath,
		LoadedAt: time.Now(),
	}, nil
}

// ToRecords maps raw rows to population records using the column labels.
// Other columns are ignored.
func ToRecords(raw *ExcelData, labels ColumnLabels) ([]population.Record, error) {
	for _, label := range []string{labels.Region, labels.Year, labels.Population} {
		if !raw.HasColumn(label) {
			return nil, fmt.Errorf("missing column %q (have %v)", label, raw.Headers)
		}
	}

	records := make([]population.Record, 0, len(raw.Rows))
	for i, row := range raw.Rows {
		line := i + 2 // header is line 1

		region := row[labels.Region]
		if region == "" {
			return nil, fmt.Errorf("line %d: empty %s", line, labels.Region)
		}
		year, err := parseYear(row[labels.Year])
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, labels.Year, err)
		}
		pop, err := parsePopulation(row[labels.Population])
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, labels.Population, err)
		}

		records = append(records, population.Record{Region: region, Year: year, Population: pop})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no data rows")
	}
	return records, nil
}

// parseYear accepts "2020" and the e-Stat form "2020年"
func parseYear(cell string) (int, error) {
	cell = strings.TrimSuffix(strings.TrimSpace(cell), "年")
	year, err := strconv.Atoi(cell)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", cell)
	}
	return year, nil
}

// parsePopulation accepts plain integers, thousands separators and
// integral floats such as "1234.0"
func parsePopulation(cell string) (int64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if v, err := strconv.ParseInt(clean, 10, 64); err == nil {
		if v < 0 {
			return 0, fmt.Errorf("negative population %q", cell)
		}
		return v, nil
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || f != math.Trunc(f) || f < 0 || f >= 1<<63 {
		return 0, fmt.Errorf("invalid population %q", cell)
	}
	return int64(f), nil
}
