package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Data struct {
		CSVPath         string `yaml:"csv_path"`
		ParquetSnapshot string `yaml:"parquet_snapshot"`
	} `yaml:"data"`
	Trend struct {
		A      float64 `yaml:"a"`
		B      float64 `yaml:"b"`
		Origin string  `yaml:"origin"`
	} `yaml:"trend"`
	Backtest struct {
		StartDate     string  `yaml:"start_date"`
		EndDate       string  `yaml:"end_date"`
		MonthlyBudget float64 `yaml:"monthly_budget"`
	} `yaml:"backtest"`
	Strategies []StrategySpec `yaml:"strategies"`
	Database   struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// StrategySpec selects one strategy variant plus its options. Pointer fields
// distinguish "not configured" (use the documented default) from an explicit
// zero, which several options treat as meaningful.
type StrategySpec struct {
	Type string `yaml:"type"`

	// fixed-monthly
	DayOfMonth *int `yaml:"day_of_month"`

	// percentile-tiered
	Multipliers *TierSpec `yaml:"multipliers"`
	Unlimited   bool      `yaml:"unlimited"`

	// threshold: explicit 0 means "never invest"
	Threshold *float64 `yaml:"threshold"`

	// power-curve
	MinMultiplier *float64 `yaml:"min_multiplier"`
	MaxMultiplier *float64 `yaml:"max_multiplier"`
	Gamma         *float64 `yaml:"gamma"`
	ALow          *float64 `yaml:"a_low"`
	AHigh         *float64 `yaml:"a_high"`
	DrawdownBoost *bool    `yaml:"drawdown_boost"`
	MonthlyCap    *bool    `yaml:"monthly_cap"`
}

// TierSpec holds the six percentile-tier multipliers; nil fields fall back
// to the strategy defaults.
type TierSpec struct {
	P10  *float64 `yaml:"p10"`
	P25  *float64 `yaml:"p25"`
	P50  *float64 `yaml:"p50"`
	P75  *float64 `yaml:"p75"`
	P90  *float64 `yaml:"p90"`
	P100 *float64 `yaml:"p100"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PRICES_CSV"); v != "" {
		cfg.Data.CSVPath = v
	}
	if v := os.Getenv("PARQUET_SNAPSHOT"); v != "" {
		cfg.Data.ParquetSnapshot = v
	}
	if v := os.Getenv("MONTHLY_BUDGET"); v != "" {
		var budget float64
		if _, err := fmt.Sscanf(v, "%f", &budget); err == nil {
			cfg.Backtest.MonthlyBudget = budget
		}
	}
	if v := os.Getenv("START_DATE"); v != "" {
		cfg.Backtest.StartDate = v
	}
	if v := os.Getenv("END_DATE"); v != "" {
		cfg.Backtest.EndDate = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Data.CSVPath == "" {
		cfg.Data.CSVPath = "data/btc_daily.csv"
	}
	// AHR999 power-law fit: price = 10^(5.84*log10(age) - 17.01), age in
	// days since the genesis block.
	if cfg.Trend.A == 0 {
		cfg.Trend.A = 9.7724e-18
	}
	if cfg.Trend.B == 0 {
		cfg.Trend.B = 5.84
	}
	if cfg.Trend.Origin == "" {
		cfg.Trend.Origin = "2009-01-03"
	}
	if cfg.Backtest.MonthlyBudget == 0 {
		cfg.Backtest.MonthlyBudget = 300
	}
	if len(cfg.Strategies) == 0 {
		cfg.Strategies = []StrategySpec{
			{Type: "fixed-daily"},
			{Type: "fixed-monthly"},
			{Type: "percentile-tiered"},
			{Type: "threshold"},
			{Type: "power-curve"},
		}
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Data.CSVPath == "" && c.Data.ParquetSnapshot == "" {
		return fmt.Errorf("data.csv_path or data.parquet_snapshot is required")
	}
	if c.Backtest.MonthlyBudget <= 0 {
		return fmt.Errorf("backtest.monthly_budget must be positive")
	}
	start, end, err := c.Range()
	if err != nil {
		return err
	}
	if !start.Before(end) {
		return fmt.Errorf("backtest.start_date must be before backtest.end_date")
	}
	if _, err := c.TrendOrigin(); err != nil {
		return err
	}
	for i, spec := range c.Strategies {
		switch spec.Type {
		case "fixed-daily", "fixed-monthly", "percentile-tiered", "threshold", "power-curve":
		default:
			return fmt.Errorf("strategies[%d]: unknown type %q", i, spec.Type)
		}
		if spec.DayOfMonth != nil && (*spec.DayOfMonth < 1 || *spec.DayOfMonth > 28) {
			return fmt.Errorf("strategies[%d]: day_of_month must be in [1, 28]", i)
		}
		if spec.Threshold != nil && *spec.Threshold < 0 {
			return fmt.Errorf("strategies[%d]: threshold must be non-negative", i)
		}
	}
	return nil
}

// Range parses the backtest date range.
func (c *Config) Range() (start, end time.Time, err error) {
	start, err = time.Parse("2006-01-02", c.Backtest.StartDate)
	if err != nil {
		return start, end, fmt.Errorf("parse backtest.start_date: %w", err)
	}
	end, err = time.Parse("2006-01-02", c.Backtest.EndDate)
	if err != nil {
		return start, end, fmt.Errorf("parse backtest.end_date: %w", err)
	}
	return start, end, nil
}

// TrendOrigin parses the trend reference origin date.
func (c *Config) TrendOrigin() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.Trend.Origin)
	if err != nil {
		return t, fmt.Errorf("parse trend.origin: %w", err)
	}
	return t, nil
}
