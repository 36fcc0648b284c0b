// Package config loads the engine's settings from YAML with environment-variable overrides, the
// same two-step pattern as the teacher's internal/config/config.go: a compiled-in default,
// optionally replaced by a file, optionally replaced again by environment variables so container
// deployments never need to bake secrets into the image.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the minimal settings required to boot the estimation engine.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Estimation EstimationConfig `yaml:"estimation"`
	History    HistoryConfig    `yaml:"history"`
	Datasource DatasourceConfig `yaml:"datasource"`
	Logging    LoggingConfig    `yaml:"logging"`
	Cache      CacheConfig      `yaml:"cache"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// EstimationConfig holds Newton-Raphson tolerances, a default significance level and generalized
// gamma outer bracket bounds (§4.2), loaded from YAML with SURVFIT_* env overrides. Nothing
// outside this package reads them: the estimator runs with estimate.DefaultOptions and fixed
// bracket bounds of 0.1 and 10.
type EstimationConfig struct {
	Eps              float64 `yaml:"eps"`
	MaxIterations    int     `yaml:"maxIterations"`
	DefaultSig       float64 `yaml:"defaultSig"`
	GenGammaBetaLow  float64 `yaml:"genGammaBetaLow"`
	GenGammaBetaHigh float64 `yaml:"genGammaBetaHigh"`
}

// HistoryConfig configures the optional fit-history store used for warm starts (§10.5).
type HistoryConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"apiKey"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DatasourceConfig configures the optional remote observation-set loader (§10.6).
type DatasourceConfig struct {
	BaseURL          string        `yaml:"baseURL"`
	ObservationsPath string        `yaml:"observationsPath"`
	Timeout          time.Duration `yaml:"timeout"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// CacheConfig controls Valkey-backed caching of datasource loads and history lookups.
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Addr          string        `yaml:"addr"`
	Username      string        `yaml:"username"`
	Password      string        `yaml:"password"`
	DB            int           `yaml:"db"`
	DialTimeout   time.Duration `yaml:"dialTimeout"`
	ReadTimeout   time.Duration `yaml:"readTimeout"`
	WriteTimeout  time.Duration `yaml:"writeTimeout"`
	MaxRetries    int           `yaml:"maxRetries"`
	TLS           bool          `yaml:"tls"`
	DatasourceTTL time.Duration `yaml:"datasourceTTL"`
	HistoryTTL    time.Duration `yaml:"historyTTL"`
}

// Load initializes Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("SURVFIT_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			MetricsAddress:  ":2112",
			GracefulTimeout: 10 * time.Second,
		},
		Estimation: EstimationConfig{
			Eps:              1e-8,
			MaxIterations:    200,
			DefaultSig:       0.05,
			GenGammaBetaLow:  0.1,
			GenGammaBetaHigh: 10,
		},
		History: HistoryConfig{
			Enabled: false,
			Timeout: 5 * time.Second,
		},
		Datasource: DatasourceConfig{
			ObservationsPath: "/api/v1/observations",
			Timeout:          5 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Cache: CacheConfig{
			Enabled:       false,
			DatasourceTTL: 5 * time.Minute,
			HistoryTTL:    10 * time.Minute,
			DialTimeout:   2 * time.Second,
			ReadTimeout:   500 * time.Millisecond,
			WriteTimeout:  500 * time.Millisecond,
			MaxRetries:    2,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SURVFIT_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("SURVFIT_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("SURVFIT_ESTIMATION_EPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Estimation.Eps = f
		}
	}
	if v := os.Getenv("SURVFIT_ESTIMATION_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Estimation.MaxIterations = n
		}
	}
	if v := os.Getenv("SURVFIT_ESTIMATION_DEFAULT_SIG"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Estimation.DefaultSig = f
		}
	}
	if v := os.Getenv("SURVFIT_HISTORY_ENABLED"); v != "" {
		cfg.History.Enabled = strings.EqualFold(v, "true") || strings.EqualFold(v, "1")
	}
	if v := os.Getenv("SURVFIT_HISTORY_ENDPOINT"); v != "" {
		cfg.History.Endpoint = v
	}
	if v := os.Getenv("SURVFIT_HISTORY_API_KEY"); v != "" {
		cfg.History.APIKey = v
	}
	if v := os.Getenv("SURVFIT_DATASOURCE_BASE_URL"); v != "" {
		cfg.Datasource.BaseURL = v
	}
	if v := os.Getenv("SURVFIT_DATASOURCE_OBSERVATIONS_PATH"); v != "" {
		cfg.Datasource.ObservationsPath = v
	}
	if v := os.Getenv("SURVFIT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SURVFIT_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("SURVFIT_CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("SURVFIT_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = strings.EqualFold(v, "true") || strings.EqualFold(v, "1")
	}
	if v := os.Getenv("SURVFIT_CACHE_USERNAME"); v != "" {
		cfg.Cache.Username = v
	}
	if v := os.Getenv("SURVFIT_CACHE_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("SURVFIT_CACHE_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.DB = db
		}
	}
	if v := os.Getenv("SURVFIT_CACHE_TLS"); strings.EqualFold(v, "true") || strings.EqualFold(v, "1") {
		cfg.Cache.TLS = true
	}
	if v := os.Getenv("SURVFIT_CACHE_DIAL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.DialTimeout = d
		}
	}
	if v := os.Getenv("SURVFIT_CACHE_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.ReadTimeout = d
		}
	}
	if v := os.Getenv("SURVFIT_CACHE_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.WriteTimeout = d
		}
	}
	if v := os.Getenv("SURVFIT_CACHE_MAX_RETRIES"); v != "" {
		if retry, err := strconv.Atoi(v); err == nil {
			cfg.Cache.MaxRetries = retry
		}
	}
	if v := os.Getenv("SURVFIT_CACHE_DATASOURCE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.DatasourceTTL = d
		}
	}
	if v := os.Getenv("SURVFIT_CACHE_HISTORY_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.HistoryTTL = d
		}
	}
}
