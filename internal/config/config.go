package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverRedis = "redis"
	DriverNone  = "none"
)

// Embedding providers.
const (
	ProviderOpenAI  = "openai"
	ProviderHashing = "hashing"
)

// Config holds the laptopbot service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Recommend RecommendConfig `yaml:"recommend"`
	Session   SessionConfig   `yaml:"session"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the embedding cache store settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, none (default: none)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// EmbeddingConfig holds the text embedding service settings.
type EmbeddingConfig struct {
	Provider    string `yaml:"provider"` // openai, hashing (default: hashing)
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	Dimensions  int    `yaml:"dimensions"`
	Instruction string `yaml:"instruction"`
	Cache       bool   `yaml:"cache"`
	BatchSize   int    `yaml:"batch_size"`
	TimeoutSec  int    `yaml:"timeout_sec"`
	// Prototype build at startup: attempts before giving up, first backoff.
	StartupAttempts  int `yaml:"startup_attempts"`
	StartupBackoffMs int `yaml:"startup_backoff_ms"`
}

// CatalogConfig holds catalog provider settings.
type CatalogConfig struct {
	Path         string `yaml:"path"`
	FallbackSize int    `yaml:"fallback_size"`
}

// RecommendConfig holds recommendation policy knobs.
type RecommendConfig struct {
	Count               int     `yaml:"count"`
	WindowSize          int     `yaml:"window_size"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	SecondaryThreshold  float64 `yaml:"secondary_threshold"`
	OffTopicThreshold   float64 `yaml:"off_topic_threshold"`
	OffTopicLimit       int     `yaml:"off_topic_limit"`
	CheaperRatio        float64 `yaml:"cheaper_ratio"`
	PricierRatio        float64 `yaml:"pricier_ratio"`
	BudgetBand          float64 `yaml:"budget_band"`
	Seed                uint64  `yaml:"seed"` // 0 = seeded from the clock
}

// SessionConfig holds session store settings.
type SessionConfig struct {
	TTLMin             int `yaml:"ttl_min"`
	CleanupIntervalMin int `yaml:"cleanup_interval_min"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
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
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverNone
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "laptopbot:"
	}
	c.applyEmbeddingDefaults()
	c.applyRecommendDefaults()
	if c.Catalog.FallbackSize <= 0 {
		c.Catalog.FallbackSize = 5
	}
	if c.Session.TTLMin <= 0 {
		c.Session.TTLMin = 30
	}
	if c.Session.CleanupIntervalMin <= 0 {
		c.Session.CleanupIntervalMin = 5
	}
}

func (c *Config) applyEmbeddingDefaults() {
	e := &c.Embedding
	if e.Provider == "" {
		e.Provider = ProviderHashing
	}
	if e.Provider == ProviderOpenAI && e.Model == "" {
		e.Model = "text-embedding-3-small"
	}
	if e.Provider == ProviderHashing && e.Model == "" {
		e.Model = "fnv-hashing"
	}
	if e.BatchSize <= 0 {
		e.BatchSize = 256
	}
	if e.TimeoutSec <= 0 {
		e.TimeoutSec = 30
	}
	if e.StartupAttempts <= 0 {
		e.StartupAttempts = 5
	}
	if e.StartupBackoffMs <= 0 {
		e.StartupBackoffMs = 500
	}
}

func (c *Config) applyRecommendDefaults() {
	r := &c.Recommend
	if r.Count <= 0 {
		r.Count = 3
	}
	if r.WindowSize <= 0 {
		r.WindowSize = 15
	}
	if r.ConfidenceThreshold <= 0 {
		r.ConfidenceThreshold = 0.3
	}
	if r.SecondaryThreshold <= 0 {
		r.SecondaryThreshold = 0.35
	}
	if r.OffTopicThreshold <= 0 {
		r.OffTopicThreshold = 0.2
	}
	if r.OffTopicLimit <= 0 {
		r.OffTopicLimit = 3
	}
	if r.CheaperRatio <= 0 {
		r.CheaperRatio = 0.75
	}
	if r.PricierRatio <= 0 {
		r.PricierRatio = 1.25
	}
	if r.BudgetBand <= 0 {
		r.BudgetBand = 0.2
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverNone:
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverRedis, DriverNone, c.Database.Driver)
	}
	switch c.Embedding.Provider {
	case ProviderHashing:
	case ProviderOpenAI:
		if c.Embedding.APIKey == "" {
			return fmt.Errorf("embedding.api_key is required for provider %q", ProviderOpenAI)
		}
	default:
		return fmt.Errorf(
			"embedding.provider must be %q or %q, got %q",
			ProviderOpenAI, ProviderHashing, c.Embedding.Provider,
		)
	}
	if c.Embedding.Cache && c.Database.Driver == DriverNone {
		return fmt.Errorf("embedding.cache requires a database driver")
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	r := c.Recommend
	if r.CheaperRatio >= 1 {
		return fmt.Errorf("recommend.cheaper_ratio must be below 1, got %g", r.CheaperRatio)
	}
	if r.PricierRatio <= 1 {
		return fmt.Errorf("recommend.pricier_ratio must be above 1, got %g", r.PricierRatio)
	}
	if r.WindowSize < r.Count {
		return fmt.Errorf("recommend.window_size (%d) must be at least recommend.count (%d)", r.WindowSize, r.Count)
	}
	for name, v := range map[string]float64{
		"confidence_threshold": r.ConfidenceThreshold,
		"secondary_threshold":  r.SecondaryThreshold,
		"off_topic_threshold":  r.OffTopicThreshold,
	} {
		if v > 1 {
			return fmt.Errorf("recommend.%s must be at most 1, got %g", name, v)
		}
	}
	return nil
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
