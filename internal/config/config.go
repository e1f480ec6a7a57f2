package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Index backends.
const (
	BackendUpstash = "upstash"
	BackendValkey  = "valkey"
)

// Config holds the storefront API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	API     APIConfig     `yaml:"api"`
	Index   IndexConfig   `yaml:"index"`
	Breaker BreakerConfig `yaml:"breaker"`
	Logging LoggingConfig `yaml:"logging"`
	Seed    SeedConfig    `yaml:"seed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// APIConfig holds settings of the product query endpoint.
type APIConfig struct {
	QueryTimeoutMs int      `yaml:"query_timeout_ms"`
	LegacyErrors   bool     `yaml:"legacy_errors"`    // every failure becomes 500 "Internal Server error"
	RateLimitRPS   float64  `yaml:"rate_limit_rps"`   // 0 = unlimited
	RateLimitBurst int      `yaml:"rate_limit_burst"` // defaults to ceil(rps)
	APIKeys        []string `yaml:"api_keys"`         // empty = auth disabled
}

// QueryTimeout returns the per-request index deadline.
func (c APIConfig) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutMs) * time.Millisecond
}

// IndexConfig selects and configures the vector index backend.
type IndexConfig struct {
	Backend string        `yaml:"backend"` // upstash (default), valkey
	Upstash UpstashConfig `yaml:"upstash"`
	Valkey  ValkeyConfig  `yaml:"valkey"`
}

// UpstashConfig holds Upstash Vector REST settings.
type UpstashConfig struct {
	URL        string  `yaml:"url"`
	Token      string  `yaml:"token"`
	TimeoutSec int     `yaml:"timeout_sec"`
	RateLimit  float64 `yaml:"rate_limit_rps"` // outbound, 0 = unlimited
	RateBurst  int     `yaml:"rate_limit_burst"`
}

// ValkeyConfig holds Valkey connection and storage settings.
type ValkeyConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// BreakerConfig holds circuit breaker settings for index calls.
type BreakerConfig struct {
	Enabled          *bool   `yaml:"enabled"` // default true
	MinRequests      uint32  `yaml:"min_requests"`
	FailureRatio     float64 `yaml:"failure_ratio"`
	OpenTimeoutSec   int     `yaml:"open_timeout_sec"`
	HalfOpenMaxCalls uint32  `yaml:"half_open_max_calls"`
}

// IsEnabled reports whether index calls go through the breaker.
func (c BreakerConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// SeedConfig holds catalog seeding settings.
type SeedConfig struct {
	Count      int    `yaml:"count"`
	RandomSeed uint64 `yaml:"random_seed"`
	BatchSize  int    `yaml:"batch_size"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded first; it never
// overrides variables that are already set.
func Load(env string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands ${VAR} references in data and decodes it.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.API.QueryTimeoutMs <= 0 {
		c.API.QueryTimeoutMs = 5000
	}
	if c.API.RateLimitRPS > 0 && c.API.RateLimitBurst <= 0 {
		c.API.RateLimitBurst = int(c.API.RateLimitRPS + 0.999)
	}
	if c.Index.Backend == "" {
		c.Index.Backend = BackendUpstash
	}
	if c.Index.Upstash.TimeoutSec <= 0 {
		c.Index.Upstash.TimeoutSec = 10
	}
	if c.Index.Upstash.RateLimit > 0 && c.Index.Upstash.RateBurst <= 0 {
		c.Index.Upstash.RateBurst = int(c.Index.Upstash.RateLimit + 0.999)
	}
	if c.Index.Valkey.KeyPrefix == "" {
		c.Index.Valkey.KeyPrefix = "storefront:"
	}
	if c.Index.Valkey.ReadinessTimeout <= 0 {
		c.Index.Valkey.ReadinessTimeout = 10
	}
	if c.Breaker.MinRequests == 0 {
		c.Breaker.MinRequests = 10
	}
	if c.Breaker.FailureRatio <= 0 {
		c.Breaker.FailureRatio = 0.5
	}
	if c.Breaker.OpenTimeoutSec <= 0 {
		c.Breaker.OpenTimeoutSec = 30
	}
	if c.Breaker.HalfOpenMaxCalls == 0 {
		c.Breaker.HalfOpenMaxCalls = 2
	}
	if c.Seed.Count <= 0 {
		c.Seed.Count = 120
	}
	if c.Seed.BatchSize <= 0 {
		c.Seed.BatchSize = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.API.RateLimitRPS < 0 {
		return fmt.Errorf("api.rate_limit_rps must not be negative, got %v", c.API.RateLimitRPS)
	}

	switch c.Index.Backend {
	case BackendUpstash:
		if c.Index.Upstash.URL == "" {
			return fmt.Errorf("index.upstash.url is required")
		}
		if c.Index.Upstash.Token == "" {
			return fmt.Errorf("index.upstash.token is required")
		}
	case BackendValkey:
		if len(c.Index.Valkey.Addrs) == 0 {
			return fmt.Errorf("index.valkey.addrs is required")
		}
	default:
		return fmt.Errorf(
			"index.backend must be %q or %q, got %q",
			BackendUpstash, BackendValkey, c.Index.Backend,
		)
	}

	if c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("breaker.failure_ratio must be in (0, 1], got %v", c.Breaker.FailureRatio)
	}
	return nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
