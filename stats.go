package activity

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultHistogramBinWidth is the bin width, in steps, of daily-total
// histograms when none is configured.
const DefaultHistogramBinWidth = 2500.0

// DailyStats describes the distribution of the present daily totals.
type DailyStats struct {
	Days        int      `json:"days"`
	PresentDays int      `json:"present_days"`
	MissingDays int      `json:"missing_days"`
	TotalSteps  float64  `json:"total_steps"`
	MeanSteps   *float64 `json:"mean_steps,omitempty"`
	MedianSteps *float64 `json:"median_steps,omitempty"`
	StdDevSteps *float64 `json:"stddev_steps,omitempty"`
	MinSteps    *float64 `json:"min_steps,omitempty"`
	MaxSteps    *float64 `json:"max_steps,omitempty"`
}

// HistogramBin counts daily totals in [Lower, Upper).
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// SummarizeDaily computes statistics over the totals that are present.
// Missing days are counted but contribute nothing else.
func SummarizeDaily(totals []DailyTotal) DailyStats {
	values := presentTotals(totals)
	s := DailyStats{
		Days:        len(totals),
		PresentDays: len(values),
		MissingDays: len(totals) - len(values),
	}
	if len(values) == 0 {
		return s
	}
	for _, v := range values {
		s.TotalSteps += v
	}
	mean, std := stat.MeanStdDev(values, nil)
	s.MeanSteps = floatPtr(mean)
	if len(values) > 1 && !math.IsNaN(std) {
		s.StdDevSteps = floatPtr(std)
	}
	s.MedianSteps = floatPtr(median(values))
	s.MinSteps = floatPtr(values[0])
	s.MaxSteps = floatPtr(values[len(values)-1])
	return s
}

// DailyHistogram bins the present daily totals into fixed-width bins starting
// at 0. The last bin always contains the maximum total.
func DailyHistogram(totals []DailyTotal, binWidth float64) []HistogramBin {
	values := presentTotals(totals)
	if len(values) == 0 {
		return nil
	}
	if binWidth <= 0 {
		binWidth = DefaultHistogramBinWidth
	}
	bins := int(math.Floor(values[len(values)-1]/binWidth)) + 1
	dividers := make([]float64, bins+1)
	for i := range dividers {
		dividers[i] = float64(i) * binWidth
	}
	counts := stat.Histogram(nil, dividers, values, nil)

	out := make([]HistogramBin, 0, bins)
	for i, c := range counts {
		out = append(out, HistogramBin{
			Lower: dividers[i],
			Upper: dividers[i+1],
			Count: int(c),
		})
	}
	return out
}

// presentTotals returns the non-missing totals sorted ascending.
func presentTotals(totals []DailyTotal) []float64 {
	values := make([]float64, 0, len(totals))
	for _, t := range totals {
		if t.TotalSteps != nil {
			values = append(values, *t.TotalSteps)
		}
	}
	sort.Float64s(values)
	return values
}

// median expects sorted input and averages the two middle values for even
// lengths.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
