package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/sterrysx/gymai/internal/workout/progression"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// http
	AllowedOrigins            []string `toml:"allowed_origins"`
	ChatRateLimitPerMin       int      `toml:"chat_rate_limit_per_min"`
	TransitionRateLimitPerMin int      `toml:"transition_rate_limit_per_min"`
	// data dir holds the biometric CSVs, targets and week archive exports
	DataDir string `toml:"data_dir"`
	// ollama
	OllamaURL        string `toml:"ollama_url"`
	OllamaModel      string `toml:"ollama_model"`
	OllamaTimeoutSec int    `toml:"ollama_timeout_sec"`
	// progression
	ProgressionStrategy  string  `toml:"progression_strategy"`
	AdvisoryOnFailure    string  `toml:"advisory_on_failure"`
	FallbackRepTarget    int     `toml:"fallback_rep_target"`
	DefaultBenchRounding float64 `toml:"default_bench_rounding"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no [%s] section in config", strings.ToLower(env))
	}
	return cfg, nil
}

// Load reads the TOML file, picks the env section, fills in defaults and validates it.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults(env)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults(env string) {
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	if c.PostgresHost == "" {
		c.PostgresHost = "localhost"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresDBName == "" {
		c.PostgresDBName = "gymai"
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.ChatRateLimitPerMin == 0 {
		c.ChatRateLimitPerMin = 20
	}
	if c.TransitionRateLimitPerMin == 0 {
		c.TransitionRateLimitPerMin = 5
	}
	if c.OllamaURL == "" {
		c.OllamaURL = "http://localhost:11434"
	}
	if c.OllamaModel == "" {
		c.OllamaModel = "qwen2.5:32b"
	}
	if c.OllamaTimeoutSec == 0 {
		c.OllamaTimeoutSec = 120
	}
	if c.ProgressionStrategy == "" {
		c.ProgressionStrategy = progression.NameDeterministic
	}
	if c.AdvisoryOnFailure == "" {
		c.AdvisoryOnFailure = progression.OnFailureFallback
	}
	if c.FallbackRepTarget == 0 {
		c.FallbackRepTarget = progression.DefaultFallbackRepTarget
	}
	if c.DefaultBenchRounding == 0 {
		c.DefaultBenchRounding = 2.5
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port out of range: %d", c.Port))
	}
	switch c.ProgressionStrategy {
	case progression.NameDeterministic, progression.NameExternalAdvisory:
	default:
		errs = append(errs, fmt.Errorf("unknown progression_strategy: %q", c.ProgressionStrategy))
	}
	switch c.AdvisoryOnFailure {
	case progression.OnFailureFallback, progression.OnFailureAbort:
	default:
		errs = append(errs, fmt.Errorf("unknown advisory_on_failure: %q", c.AdvisoryOnFailure))
	}
	if c.FallbackRepTarget < 0 {
		errs = append(errs, fmt.Errorf("negative fallback_rep_target: %d", c.FallbackRepTarget))
	}
	if c.DefaultBenchRounding < 0 {
		errs = append(errs, fmt.Errorf("negative default_bench_rounding: %v", c.DefaultBenchRounding))
	}
	if c.ChatRateLimitPerMin < 0 || c.TransitionRateLimitPerMin < 0 {
		errs = append(errs, errors.New("negative rate limit"))
	}
	return errors.Join(errs...)
}
