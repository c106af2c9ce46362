package plan

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/alexanderramin/racecoach/internal/domain"
)

// Stats summarizes a series of weekly mileages.
type Stats struct {
	Total  float64 `json:"total"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	Max    float64 `json:"max"`
}

// MileageStats computes totals and percentiles over weekly mileages. An
// empty series yields zero stats.
func MileageStats(weekly []float64) Stats {
	if len(weekly) == 0 {
		return Stats{}
	}

	sorted := append([]float64(nil), weekly...)
	sort.Float64s(sorted)

	var total float64
	for _, v := range weekly {
		total += v
	}
	total = domain.Round1(total)

	return Stats{
		Total:  total,
		Mean:   domain.Round1(total / float64(len(weekly))),
		Median: domain.Round1(percentile(sorted, 50)),
		P75:    domain.Round1(percentile(sorted, 75)),
		P90:    domain.Round1(percentile(sorted, 90)),
		Max:    sorted[len(sorted)-1],
	}
}

// percentile uses linear interpolation between closest ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total miles: %.1f\n", s.Total)
	fmt.Fprintf(&b, "Avg Miles per week: %.1f\n", s.Mean)
	fmt.Fprintf(&b, "Median weekly mileage: %.1f\n", s.Median)
	fmt.Fprintf(&b, "75%%ile of weekly mileage: %.1f\n", s.P75)
	fmt.Fprintf(&b, "90%%ile of weekly mileage: %.1f\n", s.P90)
	fmt.Fprintf(&b, "Max weekly mileage: %g\n", s.Max)
	return b.String()
}
