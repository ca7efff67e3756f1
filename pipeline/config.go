package pipeline

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// configYAML mirrors Options with YAML tags.
type configYAML struct {
	Input             string   `yaml:"input"`
	Out               string   `yaml:"out"`
	Format            string   `yaml:"format,omitempty"`
	SQLite            string   `yaml:"sqlite,omitempty"`
	TopIntervals      int      `yaml:"top_intervals,omitempty"`
	HistogramBinWidth float64  `yaml:"histogram_bin_width,omitempty"`
	TimeZone          string   `yaml:"timezone,omitempty"`
	MissingTokens     []string `yaml:"missing_tokens,omitempty"`
	SkipGridCheck     bool     `yaml:"skip_grid_check,omitempty"`
	Overwrite         bool     `yaml:"overwrite,omitempty"`
}

// LoadConfig reads pipeline options from a YAML file. Unknown keys are
// rejected.
func LoadConfig(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read config: %w", err)
	}

	var cfg configYAML
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Options{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return Options{
		InputPath:         cfg.Input,
		OutDir:            cfg.Out,
		Format:            cfg.Format,
		SQLitePath:        cfg.SQLite,
		TopIntervals:      cfg.TopIntervals,
		HistogramBinWidth: cfg.HistogramBinWidth,
		TimeZone:          cfg.TimeZone,
		MissingTokens:     cfg.MissingTokens,
		SkipGridCheck:     cfg.SkipGridCheck,
		Overwrite:         cfg.Overwrite,
	}, nil
}

// ParseMissingTokens splits a comma-separated token list as given on the
// command line. An empty list keeps the loader defaults.
func ParseMissingTokens(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
