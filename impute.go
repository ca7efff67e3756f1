package activity

import "fmt"

// Impute fills every missing step value with the profile mean of the record's
// interval. Present values are copied unchanged and the input slice is not
// modified. A missing value whose interval has no mean aborts with
// *InsufficientDataError; no default is substituted.
func Impute(records []Record, profile *IntervalProfile) ([]ImputedRecord, error) {
	out := make([]ImputedRecord, 0, len(records))
	for i, r := range records {
		rec := ImputedRecord{Record: r}
		if r.Steps != nil {
			rec.Record.Steps = intPtr(*r.Steps)
			rec.ImputedSteps = float64(*r.Steps)
		} else {
			mean, err := profile.Mean(r.Interval)
			if err != nil {
				return nil, fmt.Errorf("impute record %d (%s %s): %w", i, r.Date, r.Interval, err)
			}
			rec.ImputedSteps = mean
			rec.Imputed = true
		}
		out = append(out, rec)
	}
	return out, nil
}

// MissingCount returns the number of records without a step value.
func MissingCount(records []Record) int {
	n := 0
	for _, r := range records {
		if r.Steps == nil {
			n++
		}
	}
	return n
}
