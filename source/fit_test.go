package source

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/tormoder/fit"

	activity "github.com/lucasjlepore/step-analyzer"
)

func buildMonitoringFIT(t *testing.T, msgs ...*fit.MonitoringMsg) []byte {
	t.Helper()

	header := fit.NewHeader(fit.V20, true)
	file, err := fit.NewFile(fit.FileTypeMonitoringB, header)
	if err != nil {
		t.Fatalf("new fit file: %v", err)
	}
	monitoring, err := file.MonitoringB()
	if err != nil {
		t.Fatalf("monitoring accessor: %v", err)
	}
	monitoring.Monitorings = append(monitoring.Monitorings, msgs...)

	var buf bytes.Buffer
	if err := fit.Encode(&buf, file, binary.LittleEndian); err != nil {
		t.Fatalf("encode fit: %v", err)
	}
	return buf.Bytes()
}

// monitoringMsg builds a monitoring message carrying the accumulated cycle
// counter of kind at ts.
func monitoringMsg(ts time.Time, kind fit.ActivityType, cycles uint32) *fit.MonitoringMsg {
	m := fit.NewMonitoringMsg()
	m.Timestamp = ts
	m.ActivityType = kind
	m.Cycles = cycles
	return m
}

func walking(ts time.Time, cycles uint32) *fit.MonitoringMsg {
	return monitoringMsg(ts, fit.ActivityTypeWalking, cycles)
}

// stepsAt indexes present step values by "date interval".
func stepsAt(records []activity.Record) map[string]int {
	out := make(map[string]int)
	for _, r := range records {
		if r.Steps != nil {
			out[r.Date.String()+" "+r.Interval.String()] = *r.Steps
		}
	}
	return out
}

func TestLoadFITBucketsMonitoringIntoSlots(t *testing.T) {
	day := time.Date(2012, 10, 1, 0, 0, 0, 0, time.UTC)
	data := buildMonitoringFIT(t,
		walking(day.Add(8*time.Hour+31*time.Minute), 100),
		walking(day.Add(8*time.Hour+34*time.Minute), 120),
		walking(day.Add(9*time.Hour), 120),
		walking(day.Add(47*time.Hour+57*time.Minute), ^uint32(0)),
	)

	records, err := LoadFIT(bytes.NewReader(data), time.UTC)
	if err != nil {
		t.Fatalf("LoadFIT() error: %v", err)
	}
	if len(records) != 2*288 {
		t.Fatalf("expected two full days, got %d records", len(records))
	}

	present := 0
	for _, r := range records {
		if r.Steps == nil {
			continue
		}
		present++
		switch {
		case r.Date.String() == "2012-10-01" && r.Interval == 830:
			if *r.Steps != 120 {
				t.Fatalf("expected 120 steps at 08:30, got %d", *r.Steps)
			}
		case r.Date.String() == "2012-10-01" && r.Interval == 900:
			if *r.Steps != 0 {
				t.Fatalf("expected 0 steps at 09:00, got %d", *r.Steps)
			}
		default:
			t.Fatalf("unexpected present value at %s %s", r.Date, r.Interval)
		}
	}
	if present != 2 {
		t.Fatalf("expected 2 present slots, got %d", present)
	}
	last := records[len(records)-1]
	if last.Date.String() != "2012-10-02" || last.Interval != 2355 || last.Steps != nil {
		t.Fatalf("expected missing 2012-10-02 23:55 as last record, got %+v", last)
	}
	if err := ValidateGrid(records); err != nil {
		t.Fatalf("FIT records should form a dense grid: %v", err)
	}
}

func TestLoadFITUsesLocation(t *testing.T) {
	ts := time.Date(2012, 10, 2, 3, 31, 0, 0, time.UTC)
	data := buildMonitoringFIT(t, walking(ts, 42))

	loc := time.FixedZone("UTC-5", -5*3600)
	records, err := LoadFIT(bytes.NewReader(data), loc)
	if err != nil {
		t.Fatalf("LoadFIT() error: %v", err)
	}
	if len(records) != 288 {
		t.Fatalf("expected one day, got %d records", len(records))
	}
	for _, r := range records {
		if r.Steps != nil {
			if r.Date.String() != "2012-10-01" || r.Interval != 2230 {
				t.Fatalf("expected local slot 2012-10-01 22:30, got %s %s", r.Date, r.Interval)
			}
			return
		}
	}
	t.Fatal("no present slot found")
}

func TestLoadFITRejectsActivityFiles(t *testing.T) {
	file, err := fit.NewFile(fit.FileTypeActivity, fit.NewHeader(fit.V20, true))
	if err != nil {
		t.Fatalf("new fit file: %v", err)
	}
	var buf bytes.Buffer
	if err := fit.Encode(&buf, file, binary.LittleEndian); err != nil {
		t.Fatalf("encode fit: %v", err)
	}
	if _, err := LoadFIT(bytes.NewReader(buf.Bytes()), nil); err == nil {
		t.Fatal("expected error for activity file")
	}
}

func TestLoadFITTakesCounterDifferences(t *testing.T) {
	day := time.Date(2012, 10, 1, 0, 0, 0, 0, time.UTC)
	data := buildMonitoringFIT(t,
		walking(day.Add(8*time.Hour+30*time.Minute), 100),
		walking(day.Add(8*time.Hour+35*time.Minute), 150),
		walking(day.Add(8*time.Hour+40*time.Minute), 150),
	)

	records, err := LoadFIT(bytes.NewReader(data), time.UTC)
	if err != nil {
		t.Fatalf("LoadFIT() error: %v", err)
	}
	got := stepsAt(records)
	want := map[string]int{
		"2012-10-01 0830": 100,
		"2012-10-01 0835": 50,
		"2012-10-01 0840": 0,
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s: expected %d steps, got %d", k, v, got[k])
		}
	}
	total := 0
	for _, v := range got {
		total += v
	}
	if total != 150 {
		t.Fatalf("day total %d, want 150", total)
	}
}

func TestLoadFITKeepsCountersPerActivityAndDay(t *testing.T) {
	day := time.Date(2012, 10, 1, 0, 0, 0, 0, time.UTC)
	data := buildMonitoringFIT(t,
		walking(day.Add(7*time.Hour), 300),
		monitoringMsg(day.Add(7*time.Hour+5*time.Minute), fit.ActivityTypeRunning, 40),
		monitoringMsg(day.Add(7*time.Hour+10*time.Minute), fit.ActivityTypeCycling, 900),
		walking(day.Add(7*time.Hour+15*time.Minute), 310),
		monitoringMsg(day.Add(7*time.Hour+20*time.Minute), fit.ActivityTypeRunning, 100),
		walking(day.Add(23*time.Hour+55*time.Minute), 500),
		// New day: the counter restarts from zero.
		walking(day.Add(24*time.Hour+5*time.Minute), 25),
		// A lower value than the previous one is a device reset.
		walking(day.Add(24*time.Hour+10*time.Minute), 10),
	)

	records, err := LoadFIT(bytes.NewReader(data), time.UTC)
	if err != nil {
		t.Fatalf("LoadFIT() error: %v", err)
	}
	got := stepsAt(records)
	want := map[string]int{
		"2012-10-01 0700": 300,
		"2012-10-01 0705": 40,
		"2012-10-01 0710": 0,
		"2012-10-01 0715": 10,
		"2012-10-01 0720": 60,
		"2012-10-01 2355": 190,
		"2012-10-02 0005": 25,
		"2012-10-02 0010": 10,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d present slots, got %d: %v", len(want), len(got), got)
	}
	for k, v := range want {
		if n, ok := got[k]; !ok || n != v {
			t.Fatalf("%s: expected %d steps, got %d (present=%v)", k, v, n, ok)
		}
	}
}

func TestLoadFITRejectsMissingTimestamp(t *testing.T) {
	day := time.Date(2012, 10, 1, 0, 0, 0, 0, time.UTC)
	unset := fit.NewMonitoringMsg()
	unset.ActivityType = fit.ActivityTypeWalking
	unset.Cycles = 10
	data := buildMonitoringFIT(t, walking(day.Add(8*time.Hour), 5), unset)

	_, err := LoadFIT(bytes.NewReader(data), time.UTC)
	var fe *activity.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if fe.Field != "monitoring.timestamp" || fe.Line != 2 {
		t.Fatalf("unexpected FormatError %+v", fe)
	}
}
