package pipeline

import (
	"time"

	activity "github.com/lucasjlepore/step-analyzer"
)

// Options configures the step_analyze pipeline.
type Options struct {
	InputPath         string
	OutDir            string
	Format            string // parquet|csv
	SQLitePath        string
	TopIntervals      int
	HistogramBinWidth float64
	TimeZone          string // IANA zone used to bucket FIT timestamps
	MissingTokens     []string
	SkipGridCheck     bool
	Overwrite         bool
}

// Result returns generated output paths.
type Result struct {
	RunID                string   `json:"run_id"`
	OutputDir            string   `json:"output_dir"`
	SummaryPath          string   `json:"summary_path"`
	DailyTotalsPath      string   `json:"daily_totals_path"`
	IntervalProfilesPath string   `json:"interval_profiles_path"`
	ImputedRecordsPath   string   `json:"imputed_records_path"`
	NotesPath            string   `json:"notes_path"`
	SQLitePath           string   `json:"sqlite_path,omitempty"`
	Warnings             []string `json:"warnings,omitempty"`

	Analysis *activity.Analysis `json:"-"`
}

// SummaryFile is the content of summary.json.
type SummaryFile struct {
	RunID       string     `json:"run_id"`
	GeneratedAt time.Time  `json:"generated_at"`
	Source      SourceInfo `json:"source"`
	*activity.Analysis
}

// SourceInfo describes the loaded input.
type SourceInfo struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Entry  string `json:"entry,omitempty"`
}

// DailyTotalRow is one row of daily_totals.
type DailyTotalRow struct {
	Date              string   `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DayKind           string   `parquet:"name=day_kind, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	RawTotalSteps     *float64 `parquet:"name=raw_total_steps, type=DOUBLE, repetitiontype=OPTIONAL"`
	ImputedTotalSteps float64  `parquet:"name=imputed_total_steps, type=DOUBLE"`
}

// IntervalProfileRow is one row of interval_profiles.
type IntervalProfileRow struct {
	Interval    int32    `parquet:"name=interval, type=INT32"`
	Time        string   `parquet:"name=time, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	RawMean     *float64 `parquet:"name=raw_mean_steps, type=DOUBLE, repetitiontype=OPTIONAL"`
	RawObserved int32    `parquet:"name=raw_observed, type=INT32"`
	RawMissing  int32    `parquet:"name=raw_missing, type=INT32"`
	WeekdayMean *float64 `parquet:"name=weekday_mean_steps, type=DOUBLE, repetitiontype=OPTIONAL"`
	WeekendMean *float64 `parquet:"name=weekend_mean_steps, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// ImputedRecordRow is one row of imputed_records.
type ImputedRecordRow struct {
	Date         string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Interval     int32   `parquet:"name=interval, type=INT32"`
	Time         string  `parquet:"name=time, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DayKind      string  `parquet:"name=day_kind, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Steps        *int64  `parquet:"name=steps, type=INT64, repetitiontype=OPTIONAL"`
	ImputedSteps float64 `parquet:"name=imputed_steps, type=DOUBLE"`
	Imputed      bool    `parquet:"name=imputed, type=BOOLEAN"`
}

var (
	dailyTotalsHeader      = []string{"date", "day_kind", "raw_total_steps", "imputed_total_steps"}
	intervalProfilesHeader = []string{"interval", "time", "raw_mean_steps", "raw_observed", "raw_missing", "weekday_mean_steps", "weekend_mean_steps"}
	imputedRecordsHeader   = []string{"date", "interval", "time", "day_kind", "steps", "imputed_steps", "imputed"}
)
