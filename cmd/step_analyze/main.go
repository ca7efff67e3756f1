package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasjlepore/step-analyzer/internal/log"
	"github.com/lucasjlepore/step-analyzer/pipeline"
)

func main() {
	var (
		configPath = flag.String("config", "", "Optional YAML config file; explicit flags override it")
		inPath     = flag.String("in", "", "Path to input .csv, .zip or .fit file")
		outDir     = flag.String("out", "", "Output directory")
		format     = flag.String("format", "parquet", "Table format: parquet|csv")
		sqlitePath = flag.String("sqlite", "", "Also export all tables to this SQLite database")
		top        = flag.Int("top", 5, "Number of peak intervals to report")
		binWidth   = flag.Float64("bin-width", 2500, "Daily total histogram bin width in steps")
		tz         = flag.String("tz", "UTC", "IANA time zone used to bucket FIT timestamps")
		missing    = flag.String("missing", "", "Comma-separated step values read as missing (default: empty and NA)")
		skipGrid   = flag.Bool("skip-grid-check", false, "Accept duplicate slots and days with differing intervals")
		overwrite  = flag.Bool("overwrite", false, "Allow writing into non-empty output directories")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --in activity.csv --out outdir [--format parquet|csv] [--sqlite steps.db] [--config step_analyze.yaml]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "step_analyze failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	opts := pipeline.Options{
		Format:            *format,
		TopIntervals:      *top,
		HistogramBinWidth: *binWidth,
		TimeZone:          *tz,
		MissingTokens:     pipeline.ParseMissingTokens(*missing),
		SkipGridCheck:     *skipGrid,
		Overwrite:         *overwrite,
	}
	if *configPath != "" {
		cfg, err := pipeline.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "step_analyze failed: %v\n", err)
			os.Exit(1)
		}
		opts = cfg
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			opts.InputPath = *inPath
		case "out":
			opts.OutDir = *outDir
		case "format":
			opts.Format = *format
		case "sqlite":
			opts.SQLitePath = *sqlitePath
		case "top":
			opts.TopIntervals = *top
		case "bin-width":
			opts.HistogramBinWidth = *binWidth
		case "tz":
			opts.TimeZone = *tz
		case "missing":
			opts.MissingTokens = pipeline.ParseMissingTokens(*missing)
		case "skip-grid-check":
			opts.SkipGridCheck = *skipGrid
		case "overwrite":
			opts.Overwrite = *overwrite
		}
	})

	if strings.TrimSpace(opts.InputPath) == "" || strings.TrimSpace(opts.OutDir) == "" {
		flag.Usage()
		os.Exit(2)
	}

	result, err := pipeline.Run(opts)
	if err != nil {
		log.Sync()
		fmt.Fprintf(os.Stderr, "step_analyze failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("step_analyze complete\n")
	fmt.Printf("Run id:              %s\n", result.RunID)
	fmt.Printf("Output dir:          %s\n", result.OutputDir)
	fmt.Printf("summary.json:        %s\n", result.SummaryPath)
	fmt.Printf("daily totals:        %s\n", result.DailyTotalsPath)
	fmt.Printf("interval profiles:   %s\n", result.IntervalProfilesPath)
	fmt.Printf("imputed records:     %s\n", result.ImputedRecordsPath)
	fmt.Printf("notes.txt:           %s\n", result.NotesPath)
	if result.SQLitePath != "" {
		fmt.Printf("sqlite:              %s\n", result.SQLitePath)
	}
	for _, w := range result.Warnings {
		log.Warnw("analysis warning", "run_id", result.RunID, "warning", w)
		fmt.Printf("warning:             %s\n", w)
	}
}
