package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies RELICBOT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known RELICBOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). This lets operators point the tool at alternate endpoints or
// data directories without touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Drops feed ──
	setStr(&cfg.Drops.BaseURL, "RELICBOT_DROPS_BASE_URL")
	setDuration(&cfg.Drops.Timeout, "RELICBOT_DROPS_TIMEOUT")

	// ── Market API ──
	setStr(&cfg.Market.BaseURL, "RELICBOT_MARKET_BASE_URL")
	setDuration(&cfg.Market.Timeout, "RELICBOT_MARKET_TIMEOUT")
	setInt(&cfg.Market.RetryMax, "RELICBOT_MARKET_RETRY_MAX")
	setDuration(&cfg.Market.RetryWait, "RELICBOT_MARKET_RETRY_WAIT")
	setDuration(&cfg.Market.RetryMaxWait, "RELICBOT_MARKET_RETRY_MAX_WAIT")

	// ── Fetch pool ──
	setInt(&cfg.Fetch.Concurrency, "RELICBOT_FETCH_CONCURRENCY")

	// ── Valuation ──
	setStr(&cfg.Valuation.Mode, "RELICBOT_VALUATION_MODE")
	setStr(&cfg.Valuation.Window, "RELICBOT_VALUATION_WINDOW")
	setInt(&cfg.Valuation.WindowDays, "RELICBOT_VALUATION_WINDOW_DAYS")
	setStr(&cfg.Valuation.WindowPolicy, "RELICBOT_VALUATION_WINDOW_POLICY")

	// ── Snapshots ──
	setStr(&cfg.Snapshot.Dir, "RELICBOT_SNAPSHOT_DIR")
	setDuration(&cfg.Snapshot.RelicMaxAge, "RELICBOT_SNAPSHOT_RELIC_MAX_AGE")

	// ── Report ──
	setInt(&cfg.Report.Top, "RELICBOT_REPORT_TOP")
	setStr(&cfg.Report.ExportPath, "RELICBOT_REPORT_EXPORT_PATH")

	// ── Watch ──
	setDuration(&cfg.Watch.Interval, "RELICBOT_WATCH_INTERVAL")

	// ── Top-level ──
	setStr(&cfg.Mode, "RELICBOT_MODE")
	setStr(&cfg.LogLevel, "RELICBOT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
