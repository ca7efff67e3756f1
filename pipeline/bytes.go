package pipeline

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	activity "github.com/lucasjlepore/step-analyzer"
	"github.com/lucasjlepore/step-analyzer/internal/log"
	"github.com/lucasjlepore/step-analyzer/source"
)

// BytesOptions configures RunBytes for inputs that never touch disk.
type BytesOptions struct {
	SourceFileName    string // selects the input format by extension
	Data              []byte
	Format            string // parquet|csv
	TopIntervals      int
	HistogramBinWidth float64
	TimeZone          string
	MissingTokens     []string
	SkipGridCheck     bool
}

// BytesResult holds the rendered artifacts keyed by file name.
type BytesResult struct {
	RunID    string
	Files    map[string][]byte
	Warnings []string
	Analysis *activity.Analysis
}

// RunBytes runs the pipeline over an in-memory input and returns the artifacts
// Run would have written.
func RunBytes(opts BytesOptions) (*BytesResult, error) {
	if strings.TrimSpace(opts.SourceFileName) == "" {
		return nil, fmt.Errorf("source file name is required")
	}
	if len(opts.Data) == 0 {
		return nil, fmt.Errorf("input data is empty")
	}
	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	runOpts := Options{
		InputPath:         opts.SourceFileName,
		Format:            format,
		TopIntervals:      opts.TopIntervals,
		HistogramBinWidth: opts.HistogramBinWidth,
		TimeZone:          opts.TimeZone,
		MissingTokens:     opts.MissingTokens,
		SkipGridCheck:     opts.SkipGridCheck,
	}
	srcOpts, err := sourceOptions(runOpts)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	dataset, err := source.LoadBytes(opts.SourceFileName, opts.Data, srcOpts)
	if err != nil {
		return nil, err
	}
	analysis, err := analyzeDataset(dataset, runOpts)
	if err != nil {
		return nil, err
	}
	art, err := renderArtifacts(runID, dataset, analysis, format)
	if err != nil {
		return nil, err
	}

	log.Debugw("in-memory step analysis complete", "run_id", runID, "files", len(art.files))
	return &BytesResult{
		RunID:    runID,
		Files:    art.files,
		Warnings: buildWarnings(analysis),
		Analysis: analysis,
	}, nil
}
