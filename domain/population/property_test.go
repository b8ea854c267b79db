package population_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popdash/domain/population"
	"popdash/internal/testkit"
)

func generated(t *testing.T) []population.Record {
	t.Helper()
	config := testkit.DefaultPopulationConfig()
	config.MissingRate = 0.2
	records, err := testkit.NewPopulationGenerator(config).Generate()
	require.NoError(t, err)
	return records
}

func TestPropertiesOnGeneratedTable(t *testing.T) {
	records := generated(t)
	regions := population.RegionOrder(records)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		var picked []string
		for _, r := range regions {
			if rng.Intn(2) == 0 {
				picked = append(picked, r)
			}
		}
		if len(picked) == 0 {
			picked = regions[:1]
		}
		sel := population.NewSelection(picked...)
		filtered := population.Filter(records, sel)

		// membership and order
		j := 0
		for _, rec := range records {
			if !sel.Contains(rec.Region) {
				continue
			}
			require.Less(t, j, len(filtered))
			assert.Equal(t, rec, filtered[j])
			j++
		}
		assert.Len(t, filtered, j)

		// latest year is the maximum
		latest, err := population.LatestYear(filtered)
		require.NoError(t, err)
		for _, rec := range filtered {
			assert.LessOrEqual(t, rec.Year, latest)
		}

		// per-year total is the plain sum
		for _, yt := range population.TotalsByYear(filtered) {
			var sum int64
			for _, rec := range filtered {
				if rec.Year == yt.Year {
					sum += rec.Population
				}
			}
			assert.Equal(t, sum, yt.Total)
			assert.Equal(t, sum, population.TotalForYear(filtered, yt.Year))
		}
	}
}
