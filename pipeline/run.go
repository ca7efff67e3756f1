package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	activity "github.com/lucasjlepore/step-analyzer"
	"github.com/lucasjlepore/step-analyzer/internal/log"
	"github.com/lucasjlepore/step-analyzer/source"
)

// missingToken is written for missing values in CSV artifacts.
const missingToken = "NA"

// Run executes the full step_analyze pipeline and writes all artifacts.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log.Infow("step analysis started", "run_id", runID, "input", opts.InputPath, "out", opts.OutDir, "format", format)

	dataset, analysis, err := Analyze(opts)
	if err != nil {
		log.Errorw("step analysis failed", "run_id", runID, "error", err)
		return nil, err
	}

	if err := ensureOutputDir(opts.OutDir, opts.Overwrite); err != nil {
		return nil, err
	}

	art, err := renderArtifacts(runID, dataset, analysis, format)
	if err != nil {
		return nil, err
	}
	for _, name := range art.names() {
		if err := os.WriteFile(filepath.Join(opts.OutDir, name), art.files[name], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}

	ext := formatExtension(format)
	res := &Result{
		RunID:                runID,
		OutputDir:            opts.OutDir,
		SummaryPath:          filepath.Join(opts.OutDir, summaryFileName),
		DailyTotalsPath:      filepath.Join(opts.OutDir, dailyTotalsName+"."+ext),
		IntervalProfilesPath: filepath.Join(opts.OutDir, intervalProfilesName+"."+ext),
		ImputedRecordsPath:   filepath.Join(opts.OutDir, imputedRecordsName+"."+ext),
		NotesPath:            filepath.Join(opts.OutDir, notesFileName),
		Warnings:             buildWarnings(analysis),
		Analysis:             analysis,
	}

	if opts.SQLitePath != "" {
		if err := exportSQLite(opts.SQLitePath, art.summary, art.daily, art.profiles, art.imputed); err != nil {
			return nil, fmt.Errorf("export sqlite: %w", err)
		}
		res.SQLitePath = opts.SQLitePath
	}

	log.Infow("step analysis complete",
		"run_id", runID,
		"records", analysis.RecordCount,
		"dates", analysis.DateCount,
		"missing_steps", analysis.MissingSteps,
		"out", opts.OutDir,
	)
	return res, nil
}

// Analyze loads the input named by opts and runs the analysis without writing
// any artifacts.
func Analyze(opts Options) (*source.Dataset, *activity.Analysis, error) {
	srcOpts, err := sourceOptions(opts)
	if err != nil {
		return nil, nil, err
	}
	dataset, err := source.LoadFile(opts.InputPath, srcOpts)
	if err != nil {
		return nil, nil, err
	}
	analysis, err := analyzeDataset(dataset, opts)
	if err != nil {
		return nil, nil, err
	}
	return dataset, analysis, nil
}

func sourceOptions(opts Options) (source.Options, error) {
	loc := time.UTC
	if tz := strings.TrimSpace(opts.TimeZone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return source.Options{}, fmt.Errorf("load time zone %q: %w", tz, err)
		}
		loc = l
	}
	return source.Options{
		CSV:      source.CSVOptions{MissingTokens: opts.MissingTokens},
		Location: loc,
	}, nil
}

func analyzeDataset(dataset *source.Dataset, opts Options) (*activity.Analysis, error) {
	log.Debugw("input loaded", "path", dataset.Path, "format", dataset.Format, "records", len(dataset.Records))

	if !opts.SkipGridCheck {
		if err := source.ValidateGrid(dataset.Records); err != nil {
			return nil, fmt.Errorf("validate grid: %w", err)
		}
	}

	analysis, err := activity.Analyze(dataset.Records, activity.Config{
		TopIntervals:      opts.TopIntervals,
		HistogramBinWidth: opts.HistogramBinWidth,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", filepath.Base(dataset.Path), err)
	}
	return analysis, nil
}

func normalizeFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "parquet"
	}
	if format != "parquet" && format != "csv" {
		return "", fmt.Errorf("unsupported format %q (expected parquet|csv)", format)
	}
	return format, nil
}

func formatExtension(format string) string {
	if format == "csv" {
		return "csv"
	}
	return "parquet"
}

func ensureOutputDir(dir string, overwrite bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}
	if len(entries) > 0 && !overwrite {
		return fmt.Errorf("output directory %s is not empty (use overwrite)", dir)
	}
	return nil
}

const (
	summaryFileName      = "summary.json"
	notesFileName        = "notes.txt"
	dailyTotalsName      = "daily_totals"
	intervalProfilesName = "interval_profiles"
	imputedRecordsName   = "imputed_records"
)

// artifacts is the rendered output of one run, keyed by file name.
type artifacts struct {
	summary  SummaryFile
	daily    []DailyTotalRow
	profiles []IntervalProfileRow
	imputed  []ImputedRecordRow
	files    map[string][]byte
}

func (a *artifacts) names() []string {
	names := make([]string, 0, len(a.files))
	for name := range a.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func renderArtifacts(runID string, dataset *source.Dataset, analysis *activity.Analysis, format string) (*artifacts, error) {
	art := &artifacts{
		summary: SummaryFile{
			RunID:       runID,
			GeneratedAt: time.Now().UTC(),
			Source: SourceInfo{
				Path:   dataset.Path,
				Format: string(dataset.Format),
				Entry:  dataset.Entry,
			},
			Analysis: analysis,
		},
		daily:    buildDailyTotalRows(analysis),
		profiles: buildIntervalProfileRows(analysis),
		imputed:  buildImputedRecordRows(analysis.Imputed),
		files:    make(map[string][]byte, 5),
	}

	summary, err := marshalJSON(art.summary)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", summaryFileName, err)
	}
	art.files[summaryFileName] = summary
	art.files[notesFileName] = []byte(analysis.Notes + "\n")

	ext := formatExtension(format)
	tables := []struct {
		name   string
		render func() ([]byte, error)
	}{
		{dailyTotalsName, func() ([]byte, error) {
			if format == "csv" {
				return marshalCSV(dailyTotalsHeader, art.daily, dailyTotalCSV)
			}
			return marshalParquet(art.daily)
		}},
		{intervalProfilesName, func() ([]byte, error) {
			if format == "csv" {
				return marshalCSV(intervalProfilesHeader, art.profiles, intervalProfileCSV)
			}
			return marshalParquet(art.profiles)
		}},
		{imputedRecordsName, func() ([]byte, error) {
			if format == "csv" {
				return marshalCSV(imputedRecordsHeader, art.imputed, imputedRecordCSV)
			}
			return marshalParquet(art.imputed)
		}},
	}
	for _, tbl := range tables {
		data, err := tbl.render()
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", tbl.name, format, err)
		}
		art.files[tbl.name+"."+ext] = data
	}
	return art, nil
}

func buildWarnings(analysis *activity.Analysis) []string {
	var warnings []string
	if analysis.RawDaily.MissingDays > 0 {
		warnings = append(warnings, fmt.Sprintf("%d of %d days have missing step values; raw totals for them are NA", analysis.RawDaily.MissingDays, analysis.DateCount))
	}
	for _, kind := range activity.DayKinds {
		if _, ok := analysis.DayKindProfiles[kind]; !ok {
			warnings = append(warnings, fmt.Sprintf("no %s dates in input; %s profile omitted", kind, kind))
		}
	}
	return warnings
}

func buildDailyTotalRows(a *activity.Analysis) []DailyTotalRow {
	raw := make(map[activity.Date]*float64, len(a.RawDailyTotals))
	for _, t := range a.RawDailyTotals {
		raw[t.Date] = t.TotalSteps
	}
	rows := make([]DailyTotalRow, 0, len(a.ImputedDailyTotals))
	for _, t := range a.ImputedDailyTotals {
		row := DailyTotalRow{
			Date:          t.Date.String(),
			DayKind:       string(activity.Classify(t.Date)),
			RawTotalSteps: raw[t.Date],
		}
		if t.TotalSteps != nil {
			row.ImputedTotalSteps = *t.TotalSteps
		}
		rows = append(rows, row)
	}
	return rows
}

func buildIntervalProfileRows(a *activity.Analysis) []IntervalProfileRow {
	kindMean := func(kind activity.DayKind, id activity.IntervalID) *float64 {
		v, err := a.DayKindProfiles[kind].Mean(id)
		if err != nil {
			return nil
		}
		return &v
	}
	entries := a.RawProfile.Entries()
	rows := make([]IntervalProfileRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, IntervalProfileRow{
			Interval:    int32(e.Interval),
			Time:        e.Time,
			RawMean:     e.MeanSteps,
			RawObserved: int32(e.Observed),
			RawMissing:  int32(e.Missing),
			WeekdayMean: kindMean(activity.Weekday, e.Interval),
			WeekendMean: kindMean(activity.Weekend, e.Interval),
		})
	}
	return rows
}

func buildImputedRecordRows(records []activity.ImputedRecord) []ImputedRecordRow {
	rows := make([]ImputedRecordRow, 0, len(records))
	for _, r := range records {
		row := ImputedRecordRow{
			Date:         r.Date.String(),
			Interval:     int32(r.Interval),
			Time:         r.TimeOfDay().String(),
			DayKind:      string(activity.Classify(r.Date)),
			ImputedSteps: r.ImputedSteps,
			Imputed:      r.Imputed,
		}
		if r.Steps != nil {
			v := int64(*r.Steps)
			row.Steps = &v
		}
		rows = append(rows, row)
	}
	return rows
}

func dailyTotalCSV(r DailyTotalRow) []string {
	return []string{
		r.Date,
		r.DayKind,
		formatFloatPtr(r.RawTotalSteps),
		formatFloat(r.ImputedTotalSteps),
	}
}

func intervalProfileCSV(r IntervalProfileRow) []string {
	return []string{
		strconv.Itoa(int(r.Interval)),
		r.Time,
		formatFloatPtr(r.RawMean),
		strconv.Itoa(int(r.RawObserved)),
		strconv.Itoa(int(r.RawMissing)),
		formatFloatPtr(r.WeekdayMean),
		formatFloatPtr(r.WeekendMean),
	}
}

func imputedRecordCSV(r ImputedRecordRow) []string {
	steps := missingToken
	if r.Steps != nil {
		steps = strconv.FormatInt(*r.Steps, 10)
	}
	return []string{
		r.Date,
		strconv.Itoa(int(r.Interval)),
		r.Time,
		r.DayKind,
		steps,
		formatFloat(r.ImputedSteps),
		strconv.FormatBool(r.Imputed),
	}
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func marshalCSV[T any](header []string, rows []T, toRow func(T) []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(toRow(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return missingToken
	}
	return formatFloat(*v)
}
