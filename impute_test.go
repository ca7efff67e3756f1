package activity

import (
	"errors"
	"reflect"
	"testing"
)

func TestImputeUsesIntervalMean(t *testing.T) {
	records := []Record{
		rec(t, "2012-10-01", 835, 150),
		rec(t, "2012-10-02", 835, 200),
		rec(t, "2012-10-03", 835, 250),
	}
	profile := BuildProfile(records)

	target := []Record{
		rec(t, "2012-10-04", 835, missing),
		rec(t, "2012-10-04", 835, 17),
	}
	out, err := Impute(target, profile)
	if err != nil {
		t.Fatalf("impute: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].ImputedSteps != 200.0 || !out[0].Imputed {
		t.Fatalf("expected imputed 200.0, got %+v", out[0])
	}
	if out[0].Steps != nil {
		t.Fatalf("original steps must stay missing, got %d", *out[0].Steps)
	}
	if out[1].ImputedSteps != 17 || out[1].Imputed || out[1].Steps == nil || *out[1].Steps != 17 {
		t.Fatalf("expected present value copied, got %+v", out[1])
	}
	if target[0].Steps != nil {
		t.Fatal("input record was mutated")
	}
}

func TestImputeIsIdempotent(t *testing.T) {
	records := fullGrid(t, "2012-10-01", 3, func(day, slot int) int {
		if (day+slot)%4 == 0 {
			return missing
		}
		return slot * day
	})
	profile := BuildProfile(records)

	first, err := Impute(records, profile)
	if err != nil {
		t.Fatalf("first impute: %v", err)
	}
	second, err := Impute(records, profile)
	if err != nil {
		t.Fatalf("second impute: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("imputing twice produced different output")
	}
}

func TestImputeFailsWithoutIntervalMean(t *testing.T) {
	records := []Record{
		rec(t, "2012-10-01", 835, missing),
		rec(t, "2012-10-02", 835, missing),
		rec(t, "2012-10-01", 840, 3),
	}
	_, err := Impute(records, BuildProfile(records))
	var insufficient *InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}

	_, err = Impute([]Record{rec(t, "2012-10-01", 900, missing)}, BuildProfile(records))
	if !errors.As(err, &insufficient) || insufficient.Interval != 900 {
		t.Fatalf("expected InsufficientDataError for absent interval 900, got %v", err)
	}
}

func TestMissingCount(t *testing.T) {
	records := []Record{
		rec(t, "2012-10-01", 0, missing),
		rec(t, "2012-10-01", 5, 0),
		rec(t, "2012-10-01", 10, missing),
	}
	if got := MissingCount(records); got != 2 {
		t.Fatalf("expected 2 missing, got %d", got)
	}
}
