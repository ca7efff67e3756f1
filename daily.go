package activity

import (
	"sort"
)

// DailyTotal is the sum of one date's step values. TotalSteps is nil when any
// value of the date is missing.
type DailyTotal struct {
	Date       Date     `json:"date"`
	TotalSteps *float64 `json:"total_steps"`
}

// AggregateDaily groups rows by date and sums valueOf over each group. A single
// missing value makes the whole group total missing; it is never summed as 0.
// Output is ordered by date ascending.
func AggregateDaily[T any](rows []T, dateOf func(T) Date, valueOf func(T) (float64, bool)) []DailyTotal {
	type acc struct {
		sum     float64
		missing bool
	}
	groups := make(map[Date]*acc)
	order := make([]Date, 0, 64)
	for _, row := range rows {
		d := dateOf(row)
		g, ok := groups[d]
		if !ok {
			g = &acc{}
			groups[d] = g
			order = append(order, d)
		}
		v, present := valueOf(row)
		if !present {
			g.missing = true
			continue
		}
		g.sum += v
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })
	out := make([]DailyTotal, 0, len(order))
	for _, d := range order {
		g := groups[d]
		total := DailyTotal{Date: d}
		if !g.missing {
			total.TotalSteps = floatPtr(g.sum)
		}
		out = append(out, total)
	}
	return out
}

// RawDailyTotals sums the recorded steps per date.
func RawDailyTotals(records []Record) []DailyTotal {
	return AggregateDaily(records, func(r Record) Date { return r.Date }, Record.StepsValue)
}

// ImputedDailyTotals sums the imputed steps per date. No total is missing.
func ImputedDailyTotals(records []ImputedRecord) []DailyTotal {
	return AggregateDaily(records,
		func(r ImputedRecord) Date { return r.Date },
		func(r ImputedRecord) (float64, bool) { return r.ImputedSteps, true },
	)
}
