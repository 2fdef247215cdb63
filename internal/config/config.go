package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type HTTP struct {
	RequestTimeoutSec int    `json:"request_timeout_sec" yaml:"request_timeout_sec"`
	UserAgent         string `json:"user_agent" yaml:"user_agent"`
}

// Fetch holds the built-in run defaults. Flags override them per field.
type Fetch struct {
	Symbol     string   `json:"symbol" yaml:"symbol"`
	Expiration string   `json:"expiration" yaml:"expiration"`
	Side       string   `json:"side" yaml:"side"`
	KMin       *float64 `json:"kmin" yaml:"kmin"`
	KMax       *float64 `json:"kmax" yaml:"kmax"`
	Limit      int      `json:"limit" yaml:"limit"`
	Out        string   `json:"out" yaml:"out"`
}

type Yahoo struct {
	BaseURL               string `json:"base_url" yaml:"base_url"`
	MaxRequestsPerMinute  int    `json:"max_requests_per_minute" yaml:"max_requests_per_minute"`
	MinRequestIntervalSec int    `json:"min_request_interval_sec" yaml:"min_request_interval_sec"`
	Burst                 int    `json:"burst" yaml:"burst"`
	CacheTTLSeconds       int    `json:"cache_ttl_sec" yaml:"cache_ttl_sec"`
	CacheMaxItems         int    `json:"cache_max_items" yaml:"cache_max_items"`
}

type Polygon struct {
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	APIKey       string `json:"api_key" yaml:"api_key"`
	LookbackDays int    `json:"lookback_days" yaml:"lookback_days"`
}

// Rates names the reference yield series used for the risk-free rate.
type Rates struct {
	ShortTicker string  `json:"short_ticker" yaml:"short_ticker"`
	LongTicker  string  `json:"long_ticker" yaml:"long_ticker"`
	Fallback    float64 `json:"fallback" yaml:"fallback"`
}

// FallbackRate returns Fallback as a decimal. NaN and infinities are rejected.
func (r Rates) FallbackRate() (decimal.Decimal, error) {
	if math.IsNaN(r.Fallback) || math.IsInf(r.Fallback, 0) {
		return decimal.Zero, fmt.Errorf("invalid fallback rate %v: must be a finite number", r.Fallback)
	}
	return decimal.NewFromFloat(r.Fallback), nil
}

type Log struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

type Config struct {
	HTTP    HTTP    `json:"http" yaml:"http"`
	Fetch   Fetch   `json:"fetch" yaml:"fetch"`
	Yahoo   Yahoo   `json:"yahoo" yaml:"yahoo"`
	Polygon Polygon `json:"polygon" yaml:"polygon"`
	Rates   Rates   `json:"rates" yaml:"rates"`
	Log     Log     `json:"log" yaml:"log"`
}

func Default() Config {
	kmin, kmax := 180.0, 300.0
	return Config{
		HTTP: HTTP{RequestTimeoutSec: 15},
		Fetch: Fetch{
			Symbol: "TSLA",
			Side:   "calls",
			KMin:   &kmin,
			KMax:   &kmax,
			Limit:  40,
			Out:    "data/option_chain_sample.csv",
		},
		Yahoo: Yahoo{
			BaseURL:              "https://query2.finance.yahoo.com",
			MaxRequestsPerMinute: 60,
			Burst:                5,
			CacheTTLSeconds:      60,
			CacheMaxItems:        256,
		},
		Polygon: Polygon{LookbackDays: 10},
		Rates: Rates{
			ShortTicker: "^IRX",
			LongTicker:  "^TNX",
			Fallback:    0.02,
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

var searchPaths = []string{"config.json", "config.yaml", "config.yml"}

// Load reads config from path (JSON, or YAML by extension). If path is empty the
// working directory is searched; a missing file yields defaults. Environment
// variables override select fields afterwards.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		for _, p := range searchPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := decode(path, b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func decode(path string, b []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return json.Unmarshal(b, cfg)
	}
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables already set are left alone. An empty path tries ".env" and is a
// no-op when that file does not exist.
func LoadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if x, ok := envInt("REQUEST_TIMEOUT_SEC"); ok && x > 0 {
		cfg.HTTP.RequestTimeoutSec = x
	}
	if v := os.Getenv("HTTP_USER_AGENT"); v != "" {
		cfg.HTTP.UserAgent = v
	}

	if v := os.Getenv("FETCH_SYMBOL"); v != "" {
		cfg.Fetch.Symbol = v
	}
	if v := os.Getenv("FETCH_SIDE"); v != "" {
		cfg.Fetch.Side = v
	}
	if v := os.Getenv("FETCH_OUT"); v != "" {
		cfg.Fetch.Out = v
	}

	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.Yahoo.BaseURL = v
	}
	if x, ok := envInt("YAHOO_MAX_RPM"); ok && x >= 0 {
		cfg.Yahoo.MaxRequestsPerMinute = x
	}
	if x, ok := envInt("YAHOO_MIN_INTERVAL_SEC"); ok && x >= 0 {
		cfg.Yahoo.MinRequestIntervalSec = x
	}
	if x, ok := envInt("YAHOO_BURST"); ok && x > 0 {
		cfg.Yahoo.Burst = x
	}
	if x, ok := envInt("YAHOO_CACHE_TTL_SEC"); ok && x >= 0 {
		cfg.Yahoo.CacheTTLSeconds = x
	}
	if x, ok := envInt("YAHOO_CACHE_MAX_ITEMS"); ok && x > 0 {
		cfg.Yahoo.CacheMaxItems = x
	}

	if v, ok := envBool("POLYGON_ENABLED"); ok {
		cfg.Polygon.Enabled = v
	}
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.Polygon.APIKey = v
	}
	if x, ok := envInt("POLYGON_LOOKBACK_DAYS"); ok && x > 0 {
		cfg.Polygon.LookbackDays = x
	}

	if v := os.Getenv("RATES_SHORT_TICKER"); v != "" {
		cfg.Rates.ShortTicker = v
	}
	if v := os.Getenv("RATES_LONG_TICKER"); v != "" {
		cfg.Rates.LongTicker = v
	}
	if v := os.Getenv("RATES_FALLBACK"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Rates.Fallback = f
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	x, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return x, true
}

func envBool(key string) (bool, bool) {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true, true
	case "0", "false", "no", "n":
		return false, true
	}
	return false, false
}
