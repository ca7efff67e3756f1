package activity

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAnalyzeProducesDataProducts(t *testing.T) {
	// One week from Monday 2012-10-01. Monday has no values at all and
	// Wednesday misses one slot.
	records := fullGrid(t, "2012-10-01", 7, func(day, slot int) int {
		switch {
		case day == 0:
			return missing
		case day == 2 && slot == 102:
			return missing
		case slot == 102: // 08:30
			return 400 + day
		default:
			return day
		}
	})

	a, err := Analyze(records, Config{TopIntervals: 3, HistogramBinWidth: 1000})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if a.RecordCount != 7*SlotsPerDay || a.DateCount != 7 || a.IntervalCount != SlotsPerDay {
		t.Fatalf("unexpected counts: %d records, %d dates, %d intervals", a.RecordCount, a.DateCount, a.IntervalCount)
	}
	if a.MissingSteps != SlotsPerDay+1 {
		t.Fatalf("expected %d missing steps, got %d", SlotsPerDay+1, a.MissingSteps)
	}
	if a.WeekdayDates != 5 || a.WeekendDates != 2 {
		t.Fatalf("unexpected day kinds: %d/%d", a.WeekdayDates, a.WeekendDates)
	}

	if a.RawDaily.MissingDays != 2 || a.ImputedDaily.MissingDays != 0 {
		t.Fatalf("unexpected missing days raw=%d imputed=%d", a.RawDaily.MissingDays, a.ImputedDaily.MissingDays)
	}
	if len(a.RawDailyTotals) != 7 || len(a.ImputedDailyTotals) != 7 {
		t.Fatalf("expected 7 daily totals each")
	}
	for _, total := range a.ImputedDailyTotals {
		if total.TotalSteps == nil {
			t.Fatalf("imputed total missing on %s", total.Date)
		}
	}

	if len(a.PeakIntervals) != 3 {
		t.Fatalf("expected 3 peak intervals, got %d", len(a.PeakIntervals))
	}
	if a.PeakIntervals[0].Interval != 830 {
		t.Fatalf("expected peak at 830, got %s", a.PeakIntervals[0].Interval)
	}
	// 08:30 mean over Tue, Thu..Sun: (401+403+404+405+406)/5.
	if !floatEqual(*a.PeakIntervals[0].MeanSteps, 403.8) {
		t.Fatalf("expected peak mean 403.8, got %v", *a.PeakIntervals[0].MeanSteps)
	}
	if len(a.DayKindProfiles) != 2 {
		t.Fatalf("expected weekday and weekend profiles, got %d", len(a.DayKindProfiles))
	}
	if peak := a.DayKindPeaks[Weekend]; peak.Interval != 830 || !floatEqual(*peak.MeanSteps, 405.5) {
		t.Fatalf("unexpected weekend peak %+v", peak)
	}
	if len(a.Imputed) != len(records) {
		t.Fatalf("expected %d imputed records, got %d", len(records), len(a.Imputed))
	}

	if !strings.Contains(a.Notes, "Peak Intervals") || !strings.Contains(a.Notes, "08:30") {
		t.Fatalf("notes missing peak section:\n%s", a.Notes)
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal analysis: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal analysis: %v", err)
	}
	for _, key := range []string{"raw_daily_totals", "raw_interval_profile", "imputed_daily_totals", "day_kind_profiles"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing %s in json", key)
		}
	}
	var profile []IntervalMean
	if err := json.Unmarshal(decoded["raw_interval_profile"], &profile); err != nil {
		t.Fatalf("unmarshal profile: %v", err)
	}
	if len(profile) != SlotsPerDay {
		t.Fatalf("expected %d profile rows in json, got %d", SlotsPerDay, len(profile))
	}
}

func TestAnalyzeRejectsEmptyInput(t *testing.T) {
	if _, err := Analyze(nil, Config{}); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestBuildNotesNil(t *testing.T) {
	if BuildNotes(nil) != "" {
		t.Fatal("expected empty notes for nil analysis")
	}
}
