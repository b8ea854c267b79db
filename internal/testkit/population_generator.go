package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"popdash/adapters/excel"
	"popdash/domain/population"
)

// PopulationGeneratorConfig configures the synthetic population table
type PopulationGeneratorConfig struct {
	Regions     []string         `json:"regions"`
	Baseline    map[string]int64 `json:"baseline"` // population in StartYear; regions without one get a random baseline
	StartYear   int              `json:"start_year"`
	EndYear     int              `json:"end_year"`
	DriftPct    float64          `json:"drift_pct"`    // mean yearly change in percent
	NoisePct    float64          `json:"noise_pct"`    // standard deviation of the yearly change in percent
	MissingRate float64          `json:"missing_rate"` // probability that a region skips a year
	Seed        int64            `json:"seed"`
}

// DefaultPopulationConfig returns a prefecture-like table shaped after the
// e-Stat series
func DefaultPopulationConfig() PopulationGeneratorConfig {
	return PopulationGeneratorConfig{
		Regions: []string{"北海道", "宮城県", "東京都", "神奈川県", "愛知県", "大阪府", "福岡県", "沖縄県"},
		Baseline: map[string]int64{
			"北海道":  5683062,
			"宮城県":  2365320,
			"東京都":  12064101,
			"神奈川県": 8489974,
			"愛知県":  7043300,
			"大阪府":  8805081,
			"福岡県":  5015699,
			"沖縄県":  1318220,
		},
		StartYear: 2000,
		EndYear:   2023,
		DriftPct:  -0.2,
		NoisePct:  0.4,
		Seed:      42,
	}
}

// PopulationGenerator produces deterministic synthetic population rows
type PopulationGenerator struct {
	config PopulationGeneratorConfig
	rng    *rand.Rand
}

// NewPopulationGenerator creates a generator; the same seed always yields
// the same table
func NewPopulationGenerator(config PopulationGeneratorConfig) *PopulationGenerator {
	return &PopulationGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns rows grouped by region, each region in year order
func (g *PopulationGenerator) Generate() ([]population.Record, error) {
	if len(g.config.Regions) == 0 {
		return nil, fmt.Errorf("at least one region is required")
	}
	if g.config.EndYear < g.config.StartYear {
		return nil, fmt.Errorf("end year %d is before start year %d", g.config.EndYear, g.config.StartYear)
	}

	var records []population.Record
	for _, region := range g.config.Regions {
		records = append(records, g.generateRegion(region)...)
	}
	return records, nil
}

func (g *PopulationGenerator) generateRegion(region string) []population.Record {
	current := float64(g.config.Baseline[region])
	if current <= 0 {
		current = float64(500000 + g.rng.Intn(9500000))
	}

	var records []population.Record
	for year := g.config.StartYear; year <= g.config.EndYear; year++ {
		// the latest year is always present so every region reaches the end
		skip := year != g.config.EndYear && g.rng.Float64() < g.config.MissingRate
		if !skip {
			records = append(records, population.Record{
				Region:     region,
				Year:       year,
				Population: int64(math.Round(current)),
			})
		}

		change := g.config.DriftPct + g.rng.NormFloat64()*g.config.NoisePct
		current = math.Max(0, current*(1+change/100))
	}
	return records
}

// WriteDataFile writes records to path as CSV (with BOM) or xlsx depending
// on the extension, using the default column labels
func WriteDataFile(path string, records []population.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	exporter := excel.NewExporter(excel.DefaultColumnLabels())
	if isXLSX(path) {
		err = exporter.WriteXLSX(f, records)
	} else {
		err = exporter.WriteCSV(f, records)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func isXLSX(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".xlsx" || ext == ".xlsm"
}
