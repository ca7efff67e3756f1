package activity

import (
	"fmt"
	"strings"
)

// BuildNotes turns an analysis into a plain-text activity summary.
func BuildNotes(a *Analysis) string {
	if a == nil {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(
		&b,
		"Dataset: %s to %s | %d days (%d weekday / %d weekend) | %d intervals per day\n",
		a.FirstDate,
		a.LastDate,
		a.DateCount,
		a.WeekdayDates,
		a.WeekendDates,
		a.IntervalCount,
	)
	fmt.Fprintf(
		&b,
		"Records %d | Missing step values %d (%.1f%%) | Days without a complete total %d\n",
		a.RecordCount,
		a.MissingSteps,
		pct(a.MissingSteps, a.RecordCount),
		a.RawDaily.MissingDays,
	)

	b.WriteString("\nDaily Steps\n")
	fmt.Fprintf(&b, "- Raw (complete days only): %s\n", formatDailyStats(a.RawDaily))
	fmt.Fprintf(&b, "- Imputed (all days):        %s\n", formatDailyStats(a.ImputedDaily))
	if a.RawDaily.MeanSteps != nil && a.ImputedDaily.MeanSteps != nil {
		fmt.Fprintf(
			&b,
			"- Imputation shifted the mean by %+.0f and the median by %+.0f steps.\n",
			*a.ImputedDaily.MeanSteps-*a.RawDaily.MeanSteps,
			deref(a.ImputedDaily.MedianSteps)-deref(a.RawDaily.MedianSteps),
		)
	}

	b.WriteString("\nPeak Intervals\n")
	if len(a.PeakIntervals) == 0 {
		b.WriteString("- No interval has observed step values.\n")
	}
	for i, p := range a.PeakIntervals {
		fmt.Fprintf(&b, "- #%d %s (interval %d): %.1f steps on average\n", i+1, p.Time, int(p.Interval), deref(p.MeanSteps))
	}

	if len(a.DayKindPeaks) > 0 {
		b.WriteString("\nWeekday vs Weekend\n")
		for _, kind := range DayKinds {
			peak, ok := a.DayKindPeaks[kind]
			if !ok {
				continue
			}
			fmt.Fprintf(
				&b,
				"- %s: peak at %s with %.1f steps, %.0f steps per day on average\n",
				kind,
				peak.Time,
				deref(peak.MeanSteps),
				profileDailySum(a.DayKindProfiles[kind]),
			)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatDailyStats(s DailyStats) string {
	if s.MeanSteps == nil {
		return fmt.Sprintf("no complete days out of %d", s.Days)
	}
	return fmt.Sprintf(
		"mean %.0f | median %.0f | min %.0f | max %.0f over %d days",
		*s.MeanSteps,
		deref(s.MedianSteps),
		deref(s.MinSteps),
		deref(s.MaxSteps),
		s.PresentDays,
	)
}

// profileDailySum adds the interval means, which is the average daily total
// of the dates the profile was built from.
func profileDailySum(p *IntervalProfile) float64 {
	sum := 0.0
	for _, e := range p.Entries() {
		sum += deref(e.MeanSteps)
	}
	return sum
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
