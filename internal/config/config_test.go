package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
backtest:
  start_date: "2020-01-01"
  end_date: "2021-01-01"
`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Data.CSVPath != "data/btc_daily.csv" {
		t.Errorf("default csv path: %s", cfg.Data.CSVPath)
	}
	if cfg.Trend.A != 9.7724e-18 || cfg.Trend.B != 5.84 || cfg.Trend.Origin != "2009-01-03" {
		t.Errorf("default trend params: %+v", cfg.Trend)
	}
	if cfg.Backtest.MonthlyBudget != 300 {
		t.Errorf("default budget: %.2f", cfg.Backtest.MonthlyBudget)
	}
	if len(cfg.Strategies) != 5 {
		t.Errorf("expected all 5 default strategies, got %d", len(cfg.Strategies))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backtest.MonthlyBudget != 300 {
		t.Errorf("expected defaults for a missing file, got %+v", cfg.Backtest)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PRICES_CSV", "/tmp/other.csv")
	t.Setenv("MONTHLY_BUDGET", "450.5")
	t.Setenv("START_DATE", "2018-01-01")

	cfg, err := Load(writeConfig(t, `
data:
  csv_path: "from-file.csv"
backtest:
  start_date: "2020-01-01"
  end_date: "2021-01-01"
  monthly_budget: 300
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Data.CSVPath != "/tmp/other.csv" {
		t.Errorf("env should win over the file: %s", cfg.Data.CSVPath)
	}
	if cfg.Backtest.MonthlyBudget != 450.5 {
		t.Errorf("budget override: %.2f", cfg.Backtest.MonthlyBudget)
	}
	if cfg.Backtest.StartDate != "2018-01-01" {
		t.Errorf("start date override: %s", cfg.Backtest.StartDate)
	}
}

func TestLoad_ExplicitZeroThresholdSurvives(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
backtest:
  start_date: "2020-01-01"
  end_date: "2021-01-01"
strategies:
  - type: threshold
    threshold: 0
  - type: threshold
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Strategies[0].Threshold == nil || *cfg.Strategies[0].Threshold != 0 {
		t.Error("explicit threshold 0 must be kept, not treated as missing")
	}
	if cfg.Strategies[1].Threshold != nil {
		t.Error("omitted threshold must stay nil so the default applies")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"start after end", `
backtest: {start_date: "2021-01-01", end_date: "2020-01-01"}
`},
		{"bad date", `
backtest: {start_date: "01/01/2020", end_date: "2021-01-01"}
`},
		{"unknown strategy", `
backtest: {start_date: "2020-01-01", end_date: "2021-01-01"}
strategies: [{type: martingale}]
`},
		{"day of month out of range", `
backtest: {start_date: "2020-01-01", end_date: "2021-01-01"}
strategies: [{type: fixed-monthly, day_of_month: 31}]
`},
		{"negative threshold", `
backtest: {start_date: "2020-01-01", end_date: "2021-01-01"}
strategies: [{type: threshold, threshold: -0.1}]
`},
	}
	for _, tt := range tests {
		cfg, err := Load(writeConfig(t, tt.yaml))
		if err != nil {
			t.Fatalf("%s: load: %v", tt.name, err)
		}
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
