package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// CaptionSettings holds the caption layout and timing parameters.
type CaptionSettings struct {
	FPS             float64 `yaml:"fps"`
	Locale          string  `yaml:"locale"`
	MaxCharsPerLine int     `yaml:"max_chars_per_line"`
}

// PipelineSettings holds the word-list tables that steer normalization and
// line splitting.
type PipelineSettings struct {
	// RestrictiveModels forbid inner prompts; repetitions on them are
	// treated as errors and dual repetitions are merged.
	RestrictiveModels     []string `yaml:"restrictive_models"`
	BoilerplatePhrases    []string `yaml:"boilerplate_phrases"`
	DontSplitPairs        []string `yaml:"dont_split_pairs"`
	Conjunctions          []string `yaml:"conjunctions"`
	ConjunctionExceptions []string `yaml:"conjunction_exceptions"`
}

// OracleSettings configures the HTTP sentence-boundary oracle. An empty
// endpoint selects the built-in punctuation oracle.
type OracleSettings struct {
	Endpoint          string        `yaml:"endpoint"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	MaxRetries        int           `yaml:"max_retries"`
	Timeout           time.Duration `yaml:"timeout"`
}

// SpellingSettings points at the spelling dictionary and exception tables.
type SpellingSettings struct {
	Dictionary string `yaml:"dictionary"`
	Exceptions string `yaml:"exceptions"`
}

// Config holds the full application configuration.
type Config struct {
	CaptionSettings  `yaml:",inline"`
	PipelineSettings `yaml:",inline"`

	Oracle   OracleSettings   `yaml:"oracle"`
	Spelling SpellingSettings `yaml:"spelling"`

	CachePath            string `yaml:"cache_path"`
	CorrectionDictionary string `yaml:"correction_dictionary"`
	Jobs                 int    `yaml:"jobs"`
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		CaptionSettings: CaptionSettings{
			FPS:             30,
			Locale:          "de",
			MaxCharsPerLine: 42,
		},
		PipelineSettings: PipelineSettings{
			RestrictiveModels: []string{"large-v3", "large-v3-turbo", "distil-large-v3"},
			BoilerplatePhrases: []string{
				"Untertitel im Auftrag des ZDF für funk, 2017",
				"Untertitel im Auftrag des ZDF, 2017",
				"Untertitel im Auftrag des ZDF, 2018",
				"Untertitel im Auftrag des ZDF, 2020",
				"Untertitel im Auftrag des ZDF, 2021",
				"Untertitel der Amara.org-Community",
				"Untertitelung des ZDF, 2020",
				"Copyright WDR 2021",
				"SWR 2021",
				"Vielen Dank fürs Zuschauen",
				"Vielen Dank für Ihre Aufmerksamkeit",
				"Bis zum nächsten Mal",
				"Tschüss",
				"Thank you for watching",
				"Thanks for watching",
			},
			DontSplitPairs: []string{
				"zum Beispiel",
				"z. B.",
				"das heißt",
				"d. h.",
				"bzw. die",
			},
			Conjunctions:          []string{"und", "oder", "sowie", "and", "or"},
			ConjunctionExceptions: []string{"mehr", "hin", "ab", "nach", "kreuz", "dann", "auf", "hier", "more", "back", "over"},
		},
		Oracle: OracleSettings{
			RequestsPerMinute: 120,
			MaxRetries:        3,
			Timeout:           30 * time.Second,
		},
		Jobs: 2,
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r on top of Default and validates it.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
func Validate(cfg *Config) error {
	var result *multierror.Error
	if cfg.FPS <= 0 {
		result = multierror.Append(result, fmt.Errorf("config: fps must be positive, got %v", cfg.FPS))
	}
	if cfg.MaxCharsPerLine <= 0 {
		result = multierror.Append(result, fmt.Errorf("config: max_chars_per_line must be positive, got %d", cfg.MaxCharsPerLine))
	}
	if cfg.Jobs <= 0 {
		result = multierror.Append(result, fmt.Errorf("config: jobs must be positive, got %d", cfg.Jobs))
	}
	if cfg.Oracle.Endpoint != "" && cfg.Oracle.RequestsPerMinute <= 0 {
		result = multierror.Append(result, fmt.Errorf("config: oracle.requests_per_minute must be positive, got %d", cfg.Oracle.RequestsPerMinute))
	}
	if _, err := ParseLocale(cfg.Locale); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
