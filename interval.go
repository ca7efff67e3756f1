package activity

import (
	"fmt"
)

const (
	// SlotMinutes is the width of one recording interval.
	SlotMinutes = 5
	// SlotsPerDay is the number of intervals in a full day.
	SlotsPerDay = 24 * 60 / SlotMinutes

	maxIntervalID = 2359
)

// IntervalID encodes a time-of-day slot as hour*100 + minute, so 835 is 08:35.
// The encoding is not a flat index: 855 is followed by 900.
type IntervalID int

// ParseIntervalID validates the hour*100 + minute encoding.
func ParseIntervalID(v int) (IntervalID, error) {
	if v < 0 || v > maxIntervalID {
		return 0, fmt.Errorf("interval %d outside [0, %d]", v, maxIntervalID)
	}
	if v%100 >= 60 {
		return 0, fmt.Errorf("interval %d has minute %d", v, v%100)
	}
	return IntervalID(v), nil
}

func (id IntervalID) Hour() int   { return int(id) / 100 }
func (id IntervalID) Minute() int { return int(id) % 100 }

// Valid reports whether id is a well-formed hour*100 + minute value.
func (id IntervalID) Valid() bool {
	_, err := ParseIntervalID(int(id))
	return err == nil
}

// TimeOfDay decodes the id.
func (id IntervalID) TimeOfDay() TimeOfDay {
	return TimeOfDay{Hour: id.Hour(), Minute: id.Minute()}
}

func (id IntervalID) String() string {
	return fmt.Sprintf("%04d", int(id))
}

// TimeOfDay is a clock time with no date component.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// TimeOfDayFromMinutes converts minutes since midnight into a TimeOfDay.
func TimeOfDayFromMinutes(m int) TimeOfDay {
	m = ((m % (24 * 60)) + 24*60) % (24 * 60)
	return TimeOfDay{Hour: m / 60, Minute: m % 60}
}

func (t TimeOfDay) MinutesSinceMidnight() int {
	return t.Hour*60 + t.Minute
}

// Interval re-encodes the time as an IntervalID.
func (t TimeOfDay) Interval() IntervalID {
	return IntervalID(t.Hour*100 + t.Minute)
}

// Slot floors t to the start of its recording interval.
func (t TimeOfDay) Slot() TimeOfDay {
	return TimeOfDay{Hour: t.Hour, Minute: t.Minute - t.Minute%SlotMinutes}
}

func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.MinutesSinceMidnight() < o.MinutesSinceMidnight()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// DayIntervals returns the canonical 288 interval ids of a day in
// chronological order.
func DayIntervals() []IntervalID {
	out := make([]IntervalID, 0, SlotsPerDay)
	for m := 0; m < 24*60; m += SlotMinutes {
		out = append(out, TimeOfDayFromMinutes(m).Interval())
	}
	return out
}
