// Package source loads step-count records from CSV, zipped CSV and FIT
// monitoring files.
package source

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	activity "github.com/lucasjlepore/step-analyzer"
)

// Format names the kind of input a Dataset was loaded from.
type Format string

const (
	FormatCSV Format = "csv"
	FormatZip Format = "zip"
	FormatFIT Format = "fit"
)

// Options configures LoadFile.
type Options struct {
	CSV CSVOptions
	// Location is the zone FIT timestamps are bucketed in. Defaults to UTC.
	Location *time.Location
}

// Dataset is a loaded input file.
type Dataset struct {
	Path    string
	Format  Format
	Entry   string // csv entry name inside a zip archive
	Records []activity.Record
}

// LoadFile loads path according to its extension: .csv, .zip or .fit.
func LoadFile(path string, opts Options) (*Dataset, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if _, err := formatOf(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(path, data, opts)
}

// LoadBytes loads an in-memory input. name only selects the format and is
// reported as the dataset path.
func LoadBytes(name string, data []byte, opts Options) (*Dataset, error) {
	format, err := formatOf(name)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Path: name, Format: format}
	switch format {
	case FormatCSV:
		ds.Records, err = LoadCSV(bytes.NewReader(data), opts.CSV)
	case FormatZip:
		ds.Entry, ds.Records, err = loadZip(name, data, opts.CSV)
	case FormatFIT:
		ds.Records, err = LoadFIT(bytes.NewReader(data), opts.Location)
	}
	if err != nil {
		if ds.Entry != "" {
			return nil, fmt.Errorf("load %s: %w", ds.Entry, err)
		}
		return nil, fmt.Errorf("load %s: %w", filepath.Base(name), err)
	}
	return ds, nil
}

func formatOf(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".zip":
		return FormatZip, nil
	case ".fit":
		return FormatFIT, nil
	default:
		return "", fmt.Errorf("unsupported input extension %q (expected .csv, .zip or .fit)", ext)
	}
}

// loadZip reads the first non-hidden .csv entry by name.
func loadZip(name string, data []byte, opts CSVOptions) (string, []activity.Record, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("open zip: %w", err)
	}

	var entries []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(filepath.Base(f.Name), ".") {
			continue
		}
		if strings.EqualFold(filepath.Ext(f.Name), ".csv") {
			entries = append(entries, f)
		}
	}
	if len(entries) == 0 {
		return "", nil, fmt.Errorf("zip %s contains no .csv entry", filepath.Base(name))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	entry := entries[0]

	rc, err := entry.Open()
	if err != nil {
		return entry.Name, nil, fmt.Errorf("open zip entry: %w", err)
	}
	defer rc.Close()

	records, err := LoadCSV(rc, opts)
	return entry.Name, records, err
}
