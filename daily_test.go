package activity

import "testing"

func TestRawDailyTotalsPropagateMissing(t *testing.T) {
	records := []Record{
		rec(t, "2012-10-02", 0, 10),
		rec(t, "2012-10-01", 0, 5),
		rec(t, "2012-10-01", 5, 7),
		rec(t, "2012-10-02", 5, missing),
	}

	totals := RawDailyTotals(records)
	if len(totals) != 2 {
		t.Fatalf("expected 2 days, got %d", len(totals))
	}
	if totals[0].Date.String() != "2012-10-01" || totals[1].Date.String() != "2012-10-02" {
		t.Fatalf("expected ascending dates, got %s %s", totals[0].Date, totals[1].Date)
	}
	if totals[0].TotalSteps == nil || *totals[0].TotalSteps != 12 {
		t.Fatalf("expected 12 steps on 2012-10-01, got %v", totals[0].TotalSteps)
	}
	if totals[1].TotalSteps != nil {
		t.Fatalf("expected missing total on 2012-10-02, got %v", *totals[1].TotalSteps)
	}
}

func TestRawTotalsSumEqualsFullyPresentDays(t *testing.T) {
	records := fullGrid(t, "2012-10-01", 5, func(day, slot int) int {
		if day == 1 && slot == 100 {
			return missing
		}
		if day == 3 && slot%2 == 0 {
			return missing
		}
		return day*3 + slot%7
	})

	ignoringMissing := 0.0
	for _, total := range RawDailyTotals(records) {
		if total.TotalSteps != nil {
			ignoringMissing += *total.TotalSteps
		}
	}

	complete := make(map[Date]bool)
	for _, r := range records {
		if _, ok := complete[r.Date]; !ok {
			complete[r.Date] = true
		}
		if r.Steps == nil {
			complete[r.Date] = false
		}
	}
	restricted := 0.0
	for _, r := range records {
		if complete[r.Date] {
			restricted += float64(*r.Steps)
		}
	}

	if !floatEqual(ignoringMissing, restricted) {
		t.Fatalf("expected %v, got %v", restricted, ignoringMissing)
	}
}

func TestImputedDailyTotalsAreNeverMissing(t *testing.T) {
	records := fullGrid(t, "2012-10-01", 4, func(day, slot int) int {
		if day == 0 {
			return missing
		}
		if day == 2 && slot%5 == 0 {
			return missing
		}
		return slot
	})
	imputed, err := Impute(records, BuildProfile(records))
	if err != nil {
		t.Fatalf("impute: %v", err)
	}
	for _, total := range ImputedDailyTotals(imputed) {
		if total.TotalSteps == nil {
			t.Fatalf("missing imputed total on %s", total.Date)
		}
	}
}

func TestAggregateDailyAllMissingDayIsNotZero(t *testing.T) {
	records := []Record{
		rec(t, "2012-10-01", 0, missing),
		rec(t, "2012-10-01", 5, missing),
	}
	totals := RawDailyTotals(records)
	if len(totals) != 1 || totals[0].TotalSteps != nil {
		t.Fatalf("expected one missing total, got %+v", totals)
	}
}
