package population

import (
	"github.com/montanaflynn/stats"
)

// DescribeRegions computes per-region descriptive statistics, in
// first-appearance order
func DescribeRegions(records []Record) ([]RegionStats, error) {
	series := SeriesByRegion(records)
	out := make([]RegionStats, 0, len(series))

	for _, region := range RegionOrder(records) {
		rows := series[region]
		data := make(stats.Float64Data, len(rows))
		for i, rec := range rows {
			data[i] = float64(rec.Population)
		}

		lo, err := data.Min()
		if err != nil {
			return nil, err
		}
		hi, err := data.Max()
		if err != nil {
			return nil, err
		}
		mean, err := data.Mean()
		if err != nil {
			return nil, err
		}
		median, err := data.Median()
		if err != nil {
			return nil, err
		}

		last := rows[len(rows)-1]
		out = append(out, RegionStats{
			Region:    region,
			Years:     len(rows),
			FirstYear: rows[0].Year,
			LastYear:  last.Year,
			Latest:    last.Population,
			Min:       lo,
			Max:       hi,
			Mean:      mean,
			Median:    median,
		})
	}
	return out, nil
}
