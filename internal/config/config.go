// Package config defines the top-level configuration for relicbot and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by RELICBOT_* environment
// variables.
type Config struct {
	Drops     DropsConfig     `toml:"drops"`
	Market    MarketConfig    `toml:"market"`
	Fetch     FetchConfig     `toml:"fetch"`
	Valuation ValuationConfig `toml:"valuation"`
	Snapshot  SnapshotConfig  `toml:"snapshot"`
	Report    ReportConfig    `toml:"report"`
	Watch     WatchConfig     `toml:"watch"`
	Mode      string          `toml:"mode"`
	LogLevel  string          `toml:"log_level"`
}

// DropsConfig holds the drop-table feed endpoint.
type DropsConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout duration `toml:"timeout"`
}

// MarketConfig holds the market API endpoint and its retry policy. Retries
// apply only to throttled (HTTP 429) requests and are bounded: after
// RetryMax additional attempts the entity is marked failed and the run
// moves on.
type MarketConfig struct {
	BaseURL      string   `toml:"base_url"`
	Timeout      duration `toml:"timeout"`
	RetryMax     int      `toml:"retry_max"`
	RetryWait    duration `toml:"retry_wait"`
	RetryMaxWait duration `toml:"retry_max_wait"`
}

// FetchConfig holds the concurrency bound for per-entity market fetches.
type FetchConfig struct {
	Concurrency int `toml:"concurrency"`
}

// ValuationConfig selects the price-estimation strategy.
//
// Mode "statistics" averages per-day medians from the closed statistics
// window; "live" takes the upper median of current sell offers. WindowPolicy
// picks which WindowDays records of the sorted window are averaged:
// "oldest" keeps the upstream-compatible slice, "recent" the newest records.
type ValuationConfig struct {
	Mode         string `toml:"mode"`
	Window       string `toml:"window"`
	WindowDays   int    `toml:"window_days"`
	WindowPolicy string `toml:"window_policy"`
}

// SnapshotConfig holds the on-disk snapshot directory and the relic catalog
// staleness horizon.
type SnapshotConfig struct {
	Dir         string   `toml:"dir"`
	RelicMaxAge duration `toml:"relic_max_age"`
}

// ReportConfig holds report sizing and the spreadsheet export target.
type ReportConfig struct {
	Top        int    `toml:"top"`
	ExportPath string `toml:"export_path"`
}

// WatchConfig holds the refresh interval for watch mode.
type WatchConfig struct {
	Interval duration `toml:"interval"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "30s", "24h").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "30s" or "24h".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Drops: DropsConfig{
			BaseURL: "https://drops.warframestat.us/data",
			Timeout: duration{30 * time.Second},
		},
		Market: MarketConfig{
			BaseURL:      "https://api.warframe.market/v1",
			Timeout:      duration{30 * time.Second},
			RetryMax:     3,
			RetryWait:    duration{1 * time.Second},
			RetryMaxWait: duration{8 * time.Second},
		},
		Fetch: FetchConfig{
			Concurrency: 15,
		},
		Valuation: ValuationConfig{
			Mode:         "statistics",
			Window:       "90days",
			WindowDays:   7,
			WindowPolicy: "oldest",
		},
		Snapshot: SnapshotConfig{
			Dir:         "data",
			RelicMaxAge: duration{24 * time.Hour},
		},
		Report: ReportConfig{
			Top:        25,
			ExportPath: "rankings.xlsx",
		},
		Watch: WatchConfig{
			Interval: duration{6 * time.Hour},
		},
		Mode:     "query",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"query":   true,
	"refresh": true,
	"watch":   true,
	"export":  true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validValuationModes enumerates the accepted values for Valuation.Mode.
var validValuationModes = map[string]bool{
	"statistics": true,
	"live":       true,
}

// validWindowPolicies enumerates the accepted values for
// Valuation.WindowPolicy.
var validWindowPolicies = map[string]bool{
	"oldest": true,
	"recent": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: query, refresh, watch, export)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Drops feed
	if c.Drops.BaseURL == "" {
		errs = append(errs, "drops: base_url must not be empty")
	}
	if c.Drops.Timeout.Duration <= 0 {
		errs = append(errs, "drops: timeout must be positive")
	}

	// Market API
	if c.Market.BaseURL == "" {
		errs = append(errs, "market: base_url must not be empty")
	}
	if c.Market.Timeout.Duration <= 0 {
		errs = append(errs, "market: timeout must be positive")
	}
	if c.Market.RetryMax < 0 {
		errs = append(errs, "market: retry_max must be >= 0")
	}
	if c.Market.RetryMax > 0 {
		if c.Market.RetryWait.Duration <= 0 {
			errs = append(errs, "market: retry_wait must be positive when retry_max > 0")
		}
		if c.Market.RetryMaxWait.Duration < c.Market.RetryWait.Duration {
			errs = append(errs, "market: retry_max_wait must not be below retry_wait")
		}
	}

	// Fetch pool
	if c.Fetch.Concurrency < 1 {
		errs = append(errs, "fetch: concurrency must be >= 1")
	}

	// Valuation
	if !validValuationModes[strings.ToLower(c.Valuation.Mode)] {
		errs = append(errs, fmt.Sprintf("valuation: unknown mode %q (valid: statistics, live)", c.Valuation.Mode))
	}
	if c.Valuation.Window == "" {
		errs = append(errs, "valuation: window must not be empty")
	}
	if c.Valuation.WindowDays < 1 {
		errs = append(errs, "valuation: window_days must be >= 1")
	}
	if !validWindowPolicies[strings.ToLower(c.Valuation.WindowPolicy)] {
		errs = append(errs, fmt.Sprintf("valuation: unknown window_policy %q (valid: oldest, recent)", c.Valuation.WindowPolicy))
	}

	// Snapshots
	if c.Snapshot.Dir == "" {
		errs = append(errs, "snapshot: dir must not be empty")
	}
	if c.Snapshot.RelicMaxAge.Duration <= 0 {
		errs = append(errs, "snapshot: relic_max_age must be positive")
	}

	// Report
	if c.Report.Top < 1 {
		errs = append(errs, "report: top must be >= 1")
	}
	if strings.ToLower(c.Mode) == "export" && c.Report.ExportPath == "" {
		errs = append(errs, "report: export_path must not be empty for export mode")
	}

	// Watch
	if strings.ToLower(c.Mode) == "watch" && c.Watch.Interval.Duration <= 0 {
		errs = append(errs, "watch: interval must be positive for watch mode")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
