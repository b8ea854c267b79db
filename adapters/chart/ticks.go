package chart

import (
	"strconv"

	"gonum.org/v1/plot"

	"popdash/internal/format"
)

// maxYearLabels bounds the number of labelled year ticks on the x axis
const maxYearLabels = 12

// yearTicks places a tick on every year and labels at most maxYearLabels of them
type yearTicks []int

func (t yearTicks) Ticks(min, max float64) []plot.Tick {
	step := 1
	if len(t) > maxYearLabels {
		step = (len(t) + maxYearLabels - 1) / maxYearLabels
	}
	ticks := make([]plot.Tick, 0, len(t))
	for i, year := range t {
		v := float64(year)
		if v < min || v > max {
			continue
		}
		tick := plot.Tick{Value: v}
		if i%step == 0 || i == len(t)-1 {
			tick.Label = strconv.Itoa(year)
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

// groupedTicks is plot.DefaultTicks with digit-grouped labels instead of
// exponent notation
type groupedTicks struct{}

func (groupedTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = format.Float(ticks[i].Value)
		}
	}
	return ticks
}
