package activity

import "testing"

const missing = -1

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

// rec builds a record; steps == missing leaves Steps nil.
func rec(t *testing.T, date string, interval, steps int) Record {
	t.Helper()
	id, err := ParseIntervalID(interval)
	if err != nil {
		t.Fatalf("interval %d: %v", interval, err)
	}
	r := Record{Date: mustDate(t, date), Interval: id}
	if steps != missing {
		r.Steps = intPtr(steps)
	}
	return r
}

// fullGrid builds days*288 records starting at start. stepsAt returns the
// step count for a day index and slot index, or missing.
func fullGrid(t *testing.T, start string, days int, stepsAt func(day, slot int) int) []Record {
	t.Helper()
	first := mustDate(t, start)
	ids := DayIntervals()
	out := make([]Record, 0, days*len(ids))
	for d := 0; d < days; d++ {
		date := first.AddDays(d)
		for s, id := range ids {
			r := Record{Date: date, Interval: id}
			if v := stepsAt(d, s); v != missing {
				r.Steps = intPtr(v)
			}
			out = append(out, r)
		}
	}
	return out
}

func floatEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
