package population

import (
	"sort"
)

// Filter returns the records whose region is selected, in input order
func Filter(records []Record, selection Selection) []Record {
	set := make(map[string]bool, len(selection))
	for _, r := range selection {
		set[r] = true
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if set[rec.Region] {
			out = append(out, rec)
		}
	}
	return out
}

// LatestYear returns the maximum year across records
func LatestYear(records []Record) (int, error) {
	if len(records) == 0 {
		return 0, ErrNoRows
	}
	latest := records[0].Year
	for _, rec := range records[1:] {
		if rec.Year > latest {
			latest = rec.Year
		}
	}
	return latest, nil
}

// PriorYear returns the year before latest
func PriorYear(latest int) int {
	return latest - 1
}

// TotalForYear sums population over the records of one year
func TotalForYear(records []Record, year int) int64 {
	var total int64
	for _, rec := range records {
		if rec.Year == year {
			total += rec.Population
		}
	}
	return total
}

// HasYear reports whether any record belongs to year
func HasYear(records []Record, year int) bool {
	for _, rec := range records {
		if rec.Year == year {
			return true
		}
	}
	return false
}

// AtYear returns the records of one year, in input order
func AtYear(records []Record, year int) []Record {
	var out []Record
	for _, rec := range records {
		if rec.Year == year {
			out = append(out, rec)
		}
	}
	return out
}

// TotalsByYear returns per-year totals in ascending year order
func TotalsByYear(records []Record) []YearTotal {
	totals := make(map[int]int64)
	for _, rec := range records {
		totals[rec.Year] += rec.Population
	}
	out := make([]YearTotal, 0, len(totals))
	for year, total := range totals {
		out = append(out, YearTotal{Year: year, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Summarize computes the latest-year metric and its change from the prior year
func Summarize(records []Record) (Summary, error) {
	latest, err := LatestYear(records)
	if err != nil {
		return Summary{}, err
	}
	prior := PriorYear(latest)
	s := Summary{
		LatestYear:  latest,
		PriorYear:   prior,
		LatestTotal: TotalForYear(records, latest),
	}
	if HasYear(records, prior) {
		s.HasPrior = true
		s.PriorTotal = TotalForYear(records, prior)
		s.Delta = s.LatestTotal - s.PriorTotal
		if s.PriorTotal != 0 {
			s.DeltaPct = float64(s.Delta) / float64(s.PriorTotal) * 100
		}
	}
	return s, nil
}

// RegionOrder returns regions in first-appearance order
func RegionOrder(records []Record) []string {
	ds := Dataset{Records: records}
	return ds.Regions()
}

// SeriesByRegion groups records per region, each series sorted by year
func SeriesByRegion(records []Record) map[string][]Record {
	series := make(map[string][]Record)
	for _, rec := range records {
		series[rec.Region] = append(series[rec.Region], rec)
	}
	for region := range series {
		s := series[region]
		sort.SliceStable(s, func(i, j int) bool { return s[i].Year < s[j].Year })
	}
	return series
}
