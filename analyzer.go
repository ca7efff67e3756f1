package activity

import (
	"errors"
	"fmt"
)

const defaultTopIntervals = 5

// Config controls optional report parameters.
type Config struct {
	TopIntervals      int
	HistogramBinWidth float64
}

// Analysis holds every derived table of a dataset. The four data products
// consumed by reporting are RawDailyTotals, RawProfile, ImputedDailyTotals and
// DayKindProfiles.
type Analysis struct {
	RecordCount   int  `json:"record_count"`
	DateCount     int  `json:"date_count"`
	IntervalCount int  `json:"interval_count"`
	MissingSteps  int  `json:"missing_steps"`
	FirstDate     Date `json:"first_date"`
	LastDate      Date `json:"last_date"`
	WeekdayDates  int  `json:"weekday_dates"`
	WeekendDates  int  `json:"weekend_dates"`

	RawDailyTotals     []DailyTotal                 `json:"raw_daily_totals"`
	RawProfile         *IntervalProfile             `json:"raw_interval_profile"`
	ImputedDailyTotals []DailyTotal                 `json:"imputed_daily_totals"`
	DayKindProfiles    map[DayKind]*IntervalProfile `json:"day_kind_profiles"`

	RawDaily         DailyStats               `json:"raw_daily_stats"`
	ImputedDaily     DailyStats               `json:"imputed_daily_stats"`
	RawHistogram     []HistogramBin           `json:"raw_daily_histogram,omitempty"`
	ImputedHistogram []HistogramBin           `json:"imputed_daily_histogram,omitempty"`
	PeakIntervals    []IntervalMean           `json:"peak_intervals"`
	DayKindPeaks     map[DayKind]IntervalMean `json:"day_kind_peaks,omitempty"`

	Imputed []ImputedRecord `json:"-"`
	Notes   string          `json:"notes"`
}

// Analyze runs the aggregation and imputation pipeline over records:
// raw daily totals and interval profile, imputation, imputed daily totals and
// the weekday/weekend profiles.
func Analyze(records []Record, cfg Config) (*Analysis, error) {
	if len(records) == 0 {
		return nil, errors.New("no step records to analyze")
	}
	topK := cfg.TopIntervals
	if topK <= 0 {
		topK = defaultTopIntervals
	}

	dates := Dates(records)
	byKind := PartitionDates(dates)

	rawTotals := RawDailyTotals(records)
	rawProfile := BuildProfile(records)

	imputed, err := Impute(records, rawProfile)
	if err != nil {
		return nil, err
	}
	imputedTotals := ImputedDailyTotals(imputed)
	kindProfiles := BuildDayKindProfiles(imputed)

	a := &Analysis{
		RecordCount:        len(records),
		DateCount:          len(dates),
		IntervalCount:      rawProfile.Len(),
		MissingSteps:       MissingCount(records),
		FirstDate:          dates[0],
		LastDate:           dates[len(dates)-1],
		WeekdayDates:       len(byKind[Weekday]),
		WeekendDates:       len(byKind[Weekend]),
		RawDailyTotals:     rawTotals,
		RawProfile:         rawProfile,
		ImputedDailyTotals: imputedTotals,
		DayKindProfiles:    kindProfiles,
		RawDaily:           SummarizeDaily(rawTotals),
		ImputedDaily:       SummarizeDaily(imputedTotals),
		RawHistogram:       DailyHistogram(rawTotals, cfg.HistogramBinWidth),
		ImputedHistogram:   DailyHistogram(imputedTotals, cfg.HistogramBinWidth),
		PeakIntervals:      rawProfile.Top(topK),
		DayKindPeaks:       make(map[DayKind]IntervalMean, len(kindProfiles)),
		Imputed:            imputed,
	}
	for kind, p := range kindProfiles {
		if peak, ok := p.Peak(); ok {
			a.DayKindPeaks[kind] = peak
		}
	}
	if a.ImputedDaily.MissingDays != 0 {
		return nil, fmt.Errorf("imputation left %d days without a total", a.ImputedDaily.MissingDays)
	}
	a.Notes = BuildNotes(a)
	return a, nil
}
