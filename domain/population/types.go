package population

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"popdash/domain/core"
)

// ErrNoRows is returned by aggregates that are undefined on an empty set
var ErrNoRows = errors.New("no rows")

// Record is one (region, year, population) observation
type Record struct {
	Region     string `json:"region"`
	Year       int    `json:"year"`
	Population int64  `json:"population"`
}

// Dataset is the full table as loaded from the source file. It is never
// mutated after loading.
type Dataset struct {
	Records  []Record  `json:"records"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Regions returns the distinct regions in first-appearance order
func (d *Dataset) Regions() []string {
	seen := make(map[string]bool)
	var regions []string
	for _, r := range d.Records {
		if !seen[r.Region] {
			seen[r.Region] = true
			regions = append(regions, r.Region)
		}
	}
	return regions
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Fingerprint hashes the record contents; identical files give identical
// fingerprints regardless of load time.
func (d *Dataset) Fingerprint() core.Hash {
	var b strings.Builder
	for _, r := range d.Records {
		fmt.Fprintf(&b, "%s\x1f%d\x1f%d\x1e", r.Region, r.Year, r.Population)
	}
	return core.NewHash([]byte(b.String()))
}

// Selection is an ordered, duplicate-free list of region names
type Selection []string

// NewSelection trims values, drops blanks and duplicates, and keeps order
func NewSelection(values ...string) Selection {
	seen := make(map[string]bool, len(values))
	sel := make(Selection, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		sel = append(sel, v)
	}
	return sel
}

// IsEmpty reports whether no region is selected
func (s Selection) IsEmpty() bool {
	return len(s) == 0
}

// Contains reports whether region is selected
func (s Selection) Contains(region string) bool {
	for _, r := range s {
		if r == region {
			return true
		}
	}
	return false
}

// Intersect keeps only the selected regions present in available
func (s Selection) Intersect(available []string) Selection {
	set := make(map[string]bool, len(available))
	for _, a := range available {
		set[a] = true
	}
	out := make(Selection, 0, len(s))
	for _, r := range s {
		if set[r] {
			out = append(out, r)
		}
	}
	return out
}

// YearTotal is the summed population of one year
type YearTotal struct {
	Year  int   `json:"year"`
	Total int64 `json:"total"`
}

// Summary is the headline metric: latest-year total against the prior year
type Summary struct {
	LatestYear  int     `json:"latest_year"`
	PriorYear   int     `json:"prior_year"`
	LatestTotal int64   `json:"latest_total"`
	PriorTotal  int64   `json:"prior_total"`
	HasPrior    bool    `json:"has_prior"`
	Delta       int64   `json:"delta"`
	DeltaPct    float64 `json:"delta_pct"`
}

// RegionStats holds descriptive statistics for one region's rows
type RegionStats struct {
	Region    string  `json:"region"`
	Years     int     `json:"years"`
	FirstYear int     `json:"first_year"`
	LastYear  int     `json:"last_year"`
	Latest    int64   `json:"latest"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
}
