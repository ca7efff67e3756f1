package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	activity "github.com/lucasjlepore/step-analyzer"
)

// Header is the fixed column order of the step CSV.
var Header = []string{"steps", "date", "interval"}

// CSVOptions controls CSV parsing.
type CSVOptions struct {
	// MissingTokens are step values read as missing. Matching ignores case
	// and surrounding spaces. Defaults to "" and "NA".
	MissingTokens []string
}

func (o CSVOptions) missingTokens() map[string]struct{} {
	tokens := o.MissingTokens
	if len(tokens) == 0 {
		tokens = []string{"", "NA"}
	}
	out := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		out[strings.ToUpper(strings.TrimSpace(tok))] = struct{}{}
	}
	return out
}

// LoadCSV reads step records in source order. Any malformed row aborts the
// load with *activity.FormatError.
func LoadCSV(r io.Reader, opts CSVOptions) ([]activity.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &activity.FormatError{Line: 1, Field: "header", Err: errors.New("empty input")}
	}
	if err != nil {
		return nil, csvError(err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	missing := opts.missingTokens()
	records := make([]activity.Record, 0, 17568)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		line, _ := cr.FieldPos(0)
		if len(row) != len(Header) {
			return nil, &activity.FormatError{
				Line:  line,
				Field: "row",
				Value: strings.Join(row, ","),
				Err:   fmt.Errorf("expected %d columns, got %d", len(Header), len(row)),
			}
		}
		rec, err := parseRow(line, row, missing)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func checkHeader(header []string) error {
	if len(header) != len(Header) {
		return &activity.FormatError{
			Line:  1,
			Field: "header",
			Value: strings.Join(header, ","),
			Err:   fmt.Errorf("expected columns %s", strings.Join(Header, ",")),
		}
	}
	for i, want := range Header {
		got := strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
		if !strings.EqualFold(got, want) {
			return &activity.FormatError{
				Line:  1,
				Field: "header",
				Value: header[i],
				Err:   fmt.Errorf("column %d must be %q", i+1, want),
			}
		}
	}
	return nil
}

func parseRow(line int, row []string, missing map[string]struct{}) (activity.Record, error) {
	stepsRaw := strings.TrimSpace(row[0])
	dateRaw := strings.TrimSpace(row[1])
	intervalRaw := strings.TrimSpace(row[2])

	date, err := activity.ParseDate(dateRaw)
	if err != nil {
		return activity.Record{}, &activity.FormatError{Line: line, Field: "date", Value: row[1], Err: err}
	}

	n, err := strconv.Atoi(intervalRaw)
	if err != nil {
		return activity.Record{}, &activity.FormatError{Line: line, Field: "interval", Value: row[2], Err: err}
	}
	interval, err := activity.ParseIntervalID(n)
	if err != nil {
		return activity.Record{}, &activity.FormatError{Line: line, Field: "interval", Value: row[2], Err: err}
	}

	rec := activity.Record{Date: date, Interval: interval}
	if _, ok := missing[strings.ToUpper(stepsRaw)]; ok {
		return rec, nil
	}
	steps, err := strconv.Atoi(stepsRaw)
	if err != nil {
		return activity.Record{}, &activity.FormatError{Line: line, Field: "steps", Value: row[0], Err: err}
	}
	if steps < 0 {
		return activity.Record{}, &activity.FormatError{Line: line, Field: "steps", Value: row[0], Err: errors.New("negative step count")}
	}
	rec.Steps = &steps
	return rec, nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &activity.FormatError{Line: pe.Line, Field: "row", Err: pe.Err}
	}
	return fmt.Errorf("read csv: %w", err)
}
