package population

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	return []Record{
		{Region: "A", Year: 2020, Population: 100},
		{Region: "A", Year: 2021, Population: 110},
		{Region: "B", Year: 2020, Population: 50},
	}
}

func TestWorkedExample(t *testing.T) {
	filtered := Filter(sampleRecords(), NewSelection("A", "B"))
	assert.Equal(t, sampleRecords(), filtered)

	latest, err := LatestYear(filtered)
	require.NoError(t, err)
	assert.Equal(t, 2021, latest)
	assert.Equal(t, int64(110), TotalForYear(filtered, 2021))
}

func TestFilterMembershipAndOrder(t *testing.T) {
	records := []Record{
		{Region: "C", Year: 2020, Population: 1},
		{Region: "A", Year: 2020, Population: 2},
		{Region: "B", Year: 2020, Population: 3},
		{Region: "A", Year: 2021, Population: 4},
		{Region: "C", Year: 2021, Population: 5},
		{Region: "B", Year: 2021, Population: 6},
	}
	regions := []string{"A", "B", "C"}

	// every non-empty subset of {A,B,C}
	for mask := 1; mask < 1<<len(regions); mask++ {
		var subset []string
		for i, r := range regions {
			if mask&(1<<i) != 0 {
				subset = append(subset, r)
			}
		}
		sel := NewSelection(subset...)

		t.Run(fmtSubset(subset), func(t *testing.T) {
			var want []Record
			for _, rec := range records {
				if sel.Contains(rec.Region) {
					want = append(want, rec)
				}
			}
			got := Filter(records, sel)
			assert.Equal(t, want, got)
		})
	}
}

func fmtSubset(subset []string) string {
	name := ""
	for _, s := range subset {
		name += s
	}
	return name
}

func TestFilterUnknownRegion(t *testing.T) {
	assert.Empty(t, Filter(sampleRecords(), NewSelection("Z")))
	assert.Empty(t, Filter(sampleRecords(), nil))
}

func TestLatestYearIsMax(t *testing.T) {
	records := []Record{
		{Region: "A", Year: 2019, Population: 1},
		{Region: "A", Year: 2023, Population: 1},
		{Region: "B", Year: 2021, Population: 1},
	}
	latest, err := LatestYear(records)
	require.NoError(t, err)
	assert.Equal(t, 2023, latest)
	assert.Equal(t, 2022, PriorYear(latest))
}

func TestLatestYearEmpty(t *testing.T) {
	_, err := LatestYear(nil)
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = Summarize(nil)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestTotalForYearIsArithmeticSum(t *testing.T) {
	records := []Record{
		{Region: "A", Year: 2020, Population: 13_960_000},
		{Region: "B", Year: 2020, Population: 8_837_000},
		{Region: "C", Year: 2020, Population: 5_224_000},
		{Region: "A", Year: 2021, Population: 14_010_000},
	}
	assert.Equal(t, int64(13_960_000+8_837_000+5_224_000), TotalForYear(records, 2020))
	assert.Equal(t, int64(14_010_000), TotalForYear(records, 2021))
	assert.Equal(t, int64(0), TotalForYear(records, 1999))
}

func TestAtYear(t *testing.T) {
	got := AtYear(sampleRecords(), 2020)
	assert.Equal(t, []Record{
		{Region: "A", Year: 2020, Population: 100},
		{Region: "B", Year: 2020, Population: 50},
	}, got)
}

func TestTotalsByYear(t *testing.T) {
	assert.Equal(t, []YearTotal{
		{Year: 2020, Total: 150},
		{Year: 2021, Total: 110},
	}, TotalsByYear(sampleRecords()))
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, 2021, s.LatestYear)
	assert.Equal(t, 2020, s.PriorYear)
	assert.Equal(t, int64(110), s.LatestTotal)
	assert.Equal(t, int64(150), s.PriorTotal)
	assert.True(t, s.HasPrior)
	assert.Equal(t, int64(-40), s.Delta)
	assert.InDelta(t, -26.666, s.DeltaPct, 0.001)
}

func TestSummarizeWithoutPrior(t *testing.T) {
	s, err := Summarize([]Record{
		{Region: "A", Year: 2015, Population: 10},
		{Region: "A", Year: 2020, Population: 12},
	})
	require.NoError(t, err)

	assert.Equal(t, 2020, s.LatestYear)
	assert.False(t, s.HasPrior)
	assert.Zero(t, s.Delta)
	assert.Zero(t, s.DeltaPct)
}

func TestSeriesByRegion(t *testing.T) {
	records := []Record{
		{Region: "B", Year: 2021, Population: 2},
		{Region: "A", Year: 2021, Population: 4},
		{Region: "B", Year: 2020, Population: 1},
	}
	series := SeriesByRegion(records)

	assert.Equal(t, []string{"B", "A"}, RegionOrder(records))
	assert.Equal(t, []Record{
		{Region: "B", Year: 2020, Population: 1},
		{Region: "B", Year: 2021, Population: 2},
	}, series["B"])
	assert.Len(t, series["A"], 1)
}

func TestDescribeRegions(t *testing.T) {
	got, err := DescribeRegions([]Record{
		{Region: "A", Year: 2021, Population: 30},
		{Region: "A", Year: 2019, Population: 10},
		{Region: "A", Year: 2020, Population: 20},
		{Region: "B", Year: 2020, Population: 5},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	a := got[0]
	assert.Equal(t, "A", a.Region)
	assert.Equal(t, 3, a.Years)
	assert.Equal(t, 2019, a.FirstYear)
	assert.Equal(t, 2021, a.LastYear)
	assert.Equal(t, int64(30), a.Latest)
	assert.Equal(t, 10.0, a.Min)
	assert.Equal(t, 30.0, a.Max)
	assert.Equal(t, 20.0, a.Mean)
	assert.Equal(t, 20.0, a.Median)

	assert.Equal(t, "B", got[1].Region)
	assert.Equal(t, 1, got[1].Years)
}
