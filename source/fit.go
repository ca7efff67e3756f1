package source

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/tormoder/fit"

	activity "github.com/lucasjlepore/step-analyzer"
)

// fitEpoch is the FIT time base; timestamps at or before it are unset.
var fitEpoch = time.Date(1989, time.December, 31, 0, 0, 0, 0, time.UTC)

// LoadFIT reads a FIT monitoring (A or B) file into 5-minute step records of
// the local day in loc. Monitoring cycles are running counters kept per
// activity type and local day, so each slot receives the counter increase
// since the previous message of the same activity type. Only walking and
// running cycles count as steps. The result is a dense grid covering every
// date from the first to the last message; slots without any message are
// missing.
func LoadFIT(r io.Reader, loc *time.Location) ([]activity.Record, error) {
	if loc == nil {
		loc = time.UTC
	}
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode fit: %w", err)
	}

	var msgs []*fit.MonitoringMsg
	switch decoded.Type() {
	case fit.FileTypeMonitoringA:
		f, err := decoded.MonitoringA()
		if err != nil {
			return nil, err
		}
		msgs = f.Monitorings
	case fit.FileTypeMonitoringB:
		f, err := decoded.MonitoringB()
		if err != nil {
			return nil, err
		}
		msgs = f.Monitorings
	default:
		return nil, fmt.Errorf("fit file type %v has no monitoring data", decoded.Type())
	}
	return monitoringRecords(msgs, loc)
}

// stepActivities are the activity types whose cycles are steps.
var stepActivities = map[fit.ActivityType]bool{
	fit.ActivityTypeWalking: true,
	fit.ActivityTypeRunning: true,
}

type slotKey struct {
	date     activity.Date
	interval activity.IntervalID
}

type counterKey struct {
	kind fit.ActivityType
	date activity.Date
}

func monitoringRecords(msgs []*fit.MonitoringMsg, loc *time.Location) ([]activity.Record, error) {
	ordered := make([]*fit.MonitoringMsg, 0, len(msgs))
	for i, m := range msgs {
		if m == nil {
			continue
		}
		if !m.Timestamp.After(fitEpoch) {
			return nil, &activity.FormatError{
				Line:  i + 1,
				Field: "monitoring.timestamp",
				Value: m.Timestamp.String(),
				Err:   errors.New("timestamp not set"),
			}
		}
		ordered = append(ordered, m)
	}
	if len(ordered) == 0 {
		return nil, errors.New("fit file has no monitoring messages")
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Timestamp.Before(ordered[j].Timestamp) })

	sums := make(map[slotKey]int)
	counters := make(map[counterKey]uint32)
	var first, last activity.Date
	for _, m := range ordered {
		local := m.Timestamp.In(loc)
		tod := activity.TimeOfDay{Hour: local.Hour(), Minute: local.Minute()}.Slot()
		key := slotKey{date: activity.DateOf(local), interval: tod.Interval()}
		if first.IsZero() || key.date.Before(first) {
			first = key.date
		}
		if last.IsZero() || last.Before(key.date) {
			last = key.date
		}

		if m.ActivityType == fit.ActivityTypeInvalid {
			continue
		}
		if !stepActivities[m.ActivityType] {
			// Logged, but not walking or running: no steps.
			if _, ok := sums[key]; !ok {
				sums[key] = 0
			}
			continue
		}
		if m.Cycles == ^uint32(0) {
			continue
		}

		ck := counterKey{kind: m.ActivityType, date: key.date}
		delta := m.Cycles
		if prev, ok := counters[ck]; ok && m.Cycles >= prev {
			delta = m.Cycles - prev
		}
		counters[ck] = m.Cycles
		sums[key] += int(delta)
	}

	ids := activity.DayIntervals()
	out := make([]activity.Record, 0, len(ids)*8)
	for d := first; !last.Before(d); d = d.AddDays(1) {
		for _, id := range ids {
			rec := activity.Record{Date: d, Interval: id}
			if v, ok := sums[slotKey{date: d, interval: id}]; ok {
				steps := v
				rec.Steps = &steps
			}
			out = append(out, rec)
		}
	}
	return out, nil
}
