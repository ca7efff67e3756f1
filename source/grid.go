package source

import (
	"fmt"

	activity "github.com/lucasjlepore/step-analyzer"
)

// ValidateGrid checks that every interval id is well formed, that no
// (date, interval) pair repeats and that every date carries the same set of
// interval ids as the first date.
func ValidateGrid(records []activity.Record) error {
	perDate := make(map[activity.Date]map[activity.IntervalID]struct{})
	order := make([]activity.Date, 0, 64)
	for i, r := range records {
		if !r.Interval.Valid() {
			return &activity.FormatError{
				Field: "interval",
				Value: fmt.Sprintf("%s %d", r.Date, int(r.Interval)),
				Err:   fmt.Errorf("malformed interval id at record %d", i),
			}
		}
		set, ok := perDate[r.Date]
		if !ok {
			set = make(map[activity.IntervalID]struct{}, activity.SlotsPerDay)
			perDate[r.Date] = set
			order = append(order, r.Date)
		}
		if _, dup := set[r.Interval]; dup {
			return &activity.FormatError{
				Field: "interval",
				Value: fmt.Sprintf("%s %s", r.Date, r.Interval),
				Err:   fmt.Errorf("duplicate slot at record %d", i),
			}
		}
		set[r.Interval] = struct{}{}
	}
	if len(order) < 2 {
		return nil
	}

	ref := perDate[order[0]]
	for _, d := range order[1:] {
		set := perDate[d]
		if len(set) != len(ref) {
			return &activity.FormatError{
				Field: "date",
				Value: d.String(),
				Err:   fmt.Errorf("has %d intervals, %s has %d", len(set), order[0], len(ref)),
			}
		}
		for id := range ref {
			if _, ok := set[id]; !ok {
				return &activity.FormatError{
					Field: "date",
					Value: d.String(),
					Err:   fmt.Errorf("interval %s missing", id),
				}
			}
		}
	}
	return nil
}
