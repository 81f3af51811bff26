// Package config loads and saves the bank-cleaner.yaml project file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dvloznov/bank-cleaner/internal/categorize"
	"github.com/dvloznov/bank-cleaner/internal/normalize"
	"github.com/dvloznov/bank-cleaner/internal/schema"
)

// DefaultSpreadsheetTitle names a spreadsheet created when the config points
// at neither an ID nor an existing document name.
const DefaultSpreadsheetTitle = "Banking Transactions"

// Config represents the top-level bank-cleaner.yaml configuration.
type Config struct {
	Parsing     ParsingConfig         `yaml:"parsing"`
	Inference   InferenceConfig       `yaml:"inference"`
	Merchants   []categorize.Merchant `yaml:"merchants,omitempty"`
	Rules       []categorize.Rule     `yaml:"rules,omitempty"`
	Spreadsheet SpreadsheetConfig     `yaml:"spreadsheet"`
}

// ParsingConfig controls amount and date normalization.
type ParsingConfig struct {
	// CurrencySymbols are stripped from raw amount text before parsing.
	CurrencySymbols string `yaml:"currency_symbols"`

	// YearPivot resolves two-digit years: yy <= pivot is 20yy, else 19yy.
	YearPivot int `yaml:"year_pivot"`
}

// InferenceConfig controls column-role inference.
type InferenceConfig struct {
	SampleSize int     `yaml:"sample_size"`
	Threshold  float64 `yaml:"threshold"`
}

// SpreadsheetConfig identifies the target Google Sheets document. ID wins
// over Name when both are set; Title names a document created when neither
// resolves to an existing one.
type SpreadsheetConfig struct {
	ID    string `yaml:"id,omitempty"`
	Name  string `yaml:"name,omitempty"`
	Title string `yaml:"title"`
}

// Load reads a bank-cleaner.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.fillDefaults()
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	cfg := &Config{Merchants: categorize.DefaultMerchants()}
	cfg.fillDefaults()
	return cfg
}

func (c *Config) fillDefaults() {
	if c.Parsing.CurrencySymbols == "" {
		c.Parsing.CurrencySymbols = normalize.DefaultCurrencySymbols
	}
	if c.Parsing.YearPivot == 0 {
		c.Parsing.YearPivot = normalize.DefaultYearPivot
	}
	if c.Inference.SampleSize == 0 {
		c.Inference.SampleSize = schema.DefaultSampleSize
	}
	if c.Inference.Threshold == 0 {
		c.Inference.Threshold = schema.DefaultThreshold
	}
	if c.Spreadsheet.Title == "" {
		c.Spreadsheet.Title = DefaultSpreadsheetTitle
	}
}

// RuleSet returns the categorization rules in effect: the explicit rules
// list when present, otherwise the built-in rules derived from the merchant
// list. Merchant rules always run first so merchant views stay consistent
// with categorization.
func (c *Config) RuleSet() []categorize.Rule {
	if len(c.Rules) > 0 {
		merchantRules := make([]categorize.Rule, 0, len(c.Merchants))
		for _, m := range c.Merchants {
			merchantRules = append(merchantRules, categorize.Rule{Label: m.Label, Keywords: []string{m.Pattern}})
		}
		return append(merchantRules, c.Rules...)
	}
	return categorize.DefaultRules(c.Merchants)
}
