package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/bank-cleaner/internal/categorize"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Spreadsheet.Name = "Family Finances"
	cfg.Merchants = append(cfg.Merchants, categorize.Merchant{Label: "Amazon", Pattern: "amazon"})

	path := filepath.Join(t.TempDir(), "bank-cleaner.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Parsing.CurrencySymbols, got.Parsing.CurrencySymbols)
	assert.Equal(t, cfg.Parsing.YearPivot, got.Parsing.YearPivot)
	assert.Equal(t, cfg.Inference.SampleSize, got.Inference.SampleSize)
	assert.InDelta(t, cfg.Inference.Threshold, got.Inference.Threshold, 0.001)
	assert.Equal(t, "Family Finances", got.Spreadsheet.Name)
	require.Len(t, got.Merchants, 2)
	assert.Equal(t, "Amazon", got.Merchants[1].Label)
	assert.Equal(t, "amazon", got.Merchants[1].Pattern)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "$£€¥", cfg.Parsing.CurrencySymbols)
	assert.Equal(t, 49, cfg.Parsing.YearPivot)
	assert.Equal(t, 20, cfg.Inference.SampleSize)
	assert.InDelta(t, 0.5, cfg.Inference.Threshold, 0.001)
	assert.Equal(t, DefaultSpreadsheetTitle, cfg.Spreadsheet.Title)
	assert.Empty(t, cfg.Spreadsheet.ID)
	require.Len(t, cfg.Merchants, 1)
	assert.Equal(t, "eBay", cfg.Merchants[0].Label)
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank-cleaner.yaml")
	err := os.WriteFile(path, []byte("spreadsheet:\n  id: abc123\n"), 0o644)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "abc123", got.Spreadsheet.ID)
	assert.Equal(t, "$£€¥", got.Parsing.CurrencySymbols)
	assert.Equal(t, 49, got.Parsing.YearPivot)
	assert.Equal(t, DefaultSpreadsheetTitle, got.Spreadsheet.Title)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRuleSetDefaultsToMerchantsFirst(t *testing.T) {
	cfg := Default()
	rules := cfg.RuleSet()

	require.NotEmpty(t, rules)
	assert.Equal(t, "eBay", rules[0].Label)
	assert.Equal(t, "Expense", rules[len(rules)-1].Label)
}

func TestRuleSetExplicitRulesKeepMerchantsFirst(t *testing.T) {
	cfg := Default()
	cfg.Rules = []categorize.Rule{
		{Label: "Rent", Keywords: []string{"landlord"}, Sign: categorize.SignDebit},
	}

	rules := cfg.RuleSet()
	require.Len(t, rules, 2)
	assert.Equal(t, "eBay", rules[0].Label)
	assert.Equal(t, "Rent", rules[1].Label)
}
