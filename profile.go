package activity

import (
	"encoding/json"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// IntervalMean is the across-date mean for one interval id. MeanSteps is nil
// when the interval has no present values.
type IntervalMean struct {
	Interval  IntervalID `json:"interval"`
	Time      string     `json:"time"`
	MeanSteps *float64   `json:"mean_steps"`
	Observed  int        `json:"observed"`
	Missing   int        `json:"missing"`
}

// IntervalProfile maps interval ids to their mean step count. Entries are kept
// in chronological order of the decoded time of day.
type IntervalProfile struct {
	scope   string
	entries []IntervalMean
	index   map[IntervalID]int
}

// BuildProfile computes the mean recorded steps per interval id, excluding
// missing values from both sum and count.
func BuildProfile(records []Record) *IntervalProfile {
	return buildProfile("", len(records), func(i int) (IntervalID, float64, bool) {
		v, ok := records[i].StepsValue()
		return records[i].Interval, v, ok
	})
}

// BuildImputedProfile computes the mean imputed steps per interval id.
func BuildImputedProfile(records []ImputedRecord) *IntervalProfile {
	return buildProfile("", len(records), func(i int) (IntervalID, float64, bool) {
		return records[i].Interval, records[i].ImputedSteps, true
	})
}

func buildProfile(scope string, n int, at func(int) (IntervalID, float64, bool)) *IntervalProfile {
	values := make(map[IntervalID][]float64)
	missing := make(map[IntervalID]int)
	ids := make([]IntervalID, 0, SlotsPerDay)
	for i := 0; i < n; i++ {
		id, v, ok := at(i)
		if _, seen := values[id]; !seen {
			values[id] = nil
			ids = append(ids, id)
		}
		if !ok {
			missing[id]++
			continue
		}
		values[id] = append(values[id], v)
	}

	sort.Slice(ids, func(i, j int) bool {
		ti, tj := ids[i].TimeOfDay(), ids[j].TimeOfDay()
		if ti != tj {
			return ti.Before(tj)
		}
		return ids[i] < ids[j]
	})

	p := &IntervalProfile{
		scope:   scope,
		entries: make([]IntervalMean, 0, len(ids)),
		index:   make(map[IntervalID]int, len(ids)),
	}
	for _, id := range ids {
		vals := values[id]
		e := IntervalMean{
			Interval: id,
			Time:     id.TimeOfDay().String(),
			Observed: len(vals),
			Missing:  missing[id],
		}
		if len(vals) > 0 {
			e.MeanSteps = floatPtr(stat.Mean(vals, nil))
		}
		p.index[id] = len(p.entries)
		p.entries = append(p.entries, e)
	}
	return p
}

// Mean returns the mean steps for id. It fails with *InsufficientDataError
// when id is not in the profile or has no present values.
func (p *IntervalProfile) Mean(id IntervalID) (float64, error) {
	if p == nil {
		return 0, &InsufficientDataError{Interval: id}
	}
	i, ok := p.index[id]
	if !ok || p.entries[i].MeanSteps == nil {
		return 0, &InsufficientDataError{Interval: id, Scope: p.scope}
	}
	return *p.entries[i].MeanSteps, nil
}

// Len is the number of distinct interval ids in the profile.
func (p *IntervalProfile) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Entries returns a copy of the profile in chronological order.
func (p *IntervalProfile) Entries() []IntervalMean {
	if p == nil {
		return nil
	}
	return append([]IntervalMean(nil), p.entries...)
}

// Ranked orders intervals by mean descending, ties by ascending interval id.
// Intervals without a mean are left out.
func (p *IntervalProfile) Ranked() []IntervalMean {
	if p == nil {
		return nil
	}
	out := make([]IntervalMean, 0, len(p.entries))
	for _, e := range p.entries {
		if e.MeanSteps != nil {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if *out[i].MeanSteps != *out[j].MeanSteps {
			return *out[i].MeanSteps > *out[j].MeanSteps
		}
		return out[i].Interval < out[j].Interval
	})
	return out
}

// Top returns the first k entries of Ranked.
func (p *IntervalProfile) Top(k int) []IntervalMean {
	ranked := p.Ranked()
	if k < 0 {
		k = 0
	}
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}

// Peak returns the interval with the highest mean. ok is false when no
// interval has a mean.
func (p *IntervalProfile) Peak() (peak IntervalMean, ok bool) {
	top := p.Top(1)
	if len(top) == 0 {
		return IntervalMean{}, false
	}
	return top[0], true
}

// MarshalJSON encodes the profile as its chronological entry list.
func (p *IntervalProfile) MarshalJSON() ([]byte, error) {
	entries := p.Entries()
	if entries == nil {
		entries = []IntervalMean{}
	}
	return json.Marshal(entries)
}
