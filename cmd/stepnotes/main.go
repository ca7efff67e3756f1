package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	activity "github.com/lucasjlepore/step-analyzer"
	"github.com/lucasjlepore/step-analyzer/pipeline"
)

func main() {
	var (
		jsonOut  = flag.Bool("json", false, "Emit full analysis as JSON")
		top      = flag.Int("top", 5, "Number of peak intervals to report")
		tz       = flag.String("tz", "UTC", "IANA time zone used to bucket FIT timestamps")
		showDays = flag.Bool("days", false, "Include day-by-day totals in text output")
		missing  = flag.String("missing", "", "Comma-separated step values read as missing (default: empty and NA)")
		skipGrid = flag.Bool("skip-grid-check", false, "Accept duplicate slots and days with differing intervals")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <path-to-csv-zip-or-fit>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	_, analysis, err := pipeline.Analyze(pipeline.Options{
		InputPath:     flag.Arg(0),
		TopIntervals:  *top,
		TimeZone:      *tz,
		MissingTokens: pipeline.ParseMissingTokens(*missing),
		SkipGridCheck: *skipGrid,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			fmt.Fprintf(os.Stderr, "json encode failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(analysis.Notes)
	if *showDays {
		fmt.Println()
		fmt.Println("Daily Totals")
		for i, imputed := range analysis.ImputedDailyTotals {
			raw := "NA"
			if t := analysis.RawDailyTotals[i].TotalSteps; t != nil {
				raw = fmt.Sprintf("%.0f", *t)
			}
			fmt.Printf(
				"- %s | %-7s | raw %6s | imputed %6.0f\n",
				imputed.Date,
				activity.Classify(imputed.Date),
				raw,
				*imputed.TotalSteps,
			)
		}
	}
}
