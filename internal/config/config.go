// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/biotech-analyzer/sponsor-cli/internal/resilience"
)

// Config holds the full application configuration.
type Config struct {
	Wikidata WikidataConfig `yaml:"wikidata" mapstructure:"wikidata"`
	Retry    RetryConfig    `yaml:"retry" mapstructure:"retry"`
	Resolve  ResolveConfig  `yaml:"resolve" mapstructure:"resolve"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// WikidataConfig holds knowledge-graph endpoint settings.
type WikidataConfig struct {
	SPARQLEndpoint    string  `yaml:"sparql_endpoint" mapstructure:"sparql_endpoint"`
	SearchEndpoint    string  `yaml:"search_endpoint" mapstructure:"search_endpoint"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
	QueryTimeoutSecs  int     `yaml:"query_timeout_secs" mapstructure:"query_timeout_secs"`
	SearchTimeoutSecs int     `yaml:"search_timeout_secs" mapstructure:"search_timeout_secs"`
	RatePerSec        float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst         int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// RetryConfig holds explicit retry/backoff settings for query clients.
type RetryConfig struct {
	MaxAttempts       int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs  int     `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs      int     `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	Multiplier        float64 `yaml:"multiplier" mapstructure:"multiplier"`
	JitterFraction    float64 `yaml:"jitter_fraction" mapstructure:"jitter_fraction"`
	RetryableStatuses []int   `yaml:"retryable_statuses" mapstructure:"retryable_statuses"`
}

// ToResilience converts the config section to a resilience.RetryConfig.
func (r RetryConfig) ToResilience() resilience.RetryConfig {
	return resilience.FromRetryConfig(
		r.MaxAttempts,
		r.InitialBackoffMs,
		r.MaxBackoffMs,
		r.Multiplier,
		r.JitterFraction,
		r.RetryableStatuses,
	)
}

// ResolveConfig configures the resolution ladder.
type ResolveConfig struct {
	SearchLimit int `yaml:"search_limit" mapstructure:"search_limit"`
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SPONSOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("wikidata.sparql_endpoint", "https://query.wikidata.org/sparql")
	v.SetDefault("wikidata.search_endpoint", "https://www.wikidata.org/w/api.php")
	v.SetDefault("wikidata.user_agent", "BiotechAnalyzer/1.0 (contact@biotech-analyzer.dev)")
	v.SetDefault("wikidata.query_timeout_secs", 60)
	v.SetDefault("wikidata.search_timeout_secs", 10)
	v.SetDefault("wikidata.rate_per_sec", 2.0)
	v.SetDefault("wikidata.rate_burst", 2)
	v.SetDefault("retry.max_attempts", 6)
	v.SetDefault("retry.initial_backoff_ms", 1000)
	v.SetDefault("retry.max_backoff_ms", 30000)
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("retry.jitter_fraction", 0.25)
	v.SetDefault("retry.retryable_statuses", []int{429, 500, 502, 503, 504})
	v.SetDefault("resolve.search_limit", 5)
	v.SetDefault("resolve.concurrency", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
