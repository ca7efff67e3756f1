package activity

import (
	"sort"
	"time"
)

// DayKind labels a date as a weekday or a weekend day.
type DayKind string

const (
	Weekday DayKind = "weekday"
	Weekend DayKind = "weekend"
)

// DayKinds lists the labels in report order.
var DayKinds = []DayKind{Weekday, Weekend}

// Classify maps Saturday and Sunday to Weekend and every other day to Weekday.
func Classify(d Date) DayKind {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return Weekend
	default:
		return Weekday
	}
}

// PartitionByDayKind splits records by the kind of their date, preserving
// order within each part.
func PartitionByDayKind(records []ImputedRecord) map[DayKind][]ImputedRecord {
	out := make(map[DayKind][]ImputedRecord, len(DayKinds))
	for _, r := range records {
		k := Classify(r.Date)
		out[k] = append(out[k], r)
	}
	return out
}

// BuildDayKindProfiles builds an independent imputed-steps profile per day
// kind. Kinds with no records are absent from the result.
func BuildDayKindProfiles(records []ImputedRecord) map[DayKind]*IntervalProfile {
	parts := PartitionByDayKind(records)
	out := make(map[DayKind]*IntervalProfile, len(parts))
	for kind, part := range parts {
		out[kind] = buildProfile(string(kind), len(part), func(i int) (IntervalID, float64, bool) {
			return part[i].Interval, part[i].ImputedSteps, true
		})
	}
	return out
}

// PartitionDates splits distinct dates by kind, each part sorted ascending.
func PartitionDates(dates []Date) map[DayKind][]Date {
	seen := make(map[Date]struct{}, len(dates))
	out := make(map[DayKind][]Date, len(DayKinds))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		k := Classify(d)
		out[k] = append(out[k], d)
	}
	for _, part := range out {
		sort.Slice(part, func(i, j int) bool { return part[i].Before(part[j]) })
	}
	return out
}

// Dates returns the distinct dates of records in ascending order.
func Dates(records []Record) []Date {
	seen := make(map[Date]struct{})
	out := make([]Date, 0, 64)
	for _, r := range records {
		if _, ok := seen[r.Date]; ok {
			continue
		}
		seen[r.Date] = struct{}{}
		out = append(out, r.Date)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
