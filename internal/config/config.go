package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Index drivers.
const (
	DriverRedis  = "redis"
	DriverQdrant = "qdrant"
)

// Rewriter drivers.
const (
	RewriterOpenAI = "openai"
	RewriterOllama = "ollama"
)

// Config holds the regask API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
	Index     IndexConfig     `yaml:"index"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Rewriter  RewriterConfig  `yaml:"rewriter"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
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
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// IndexConfig holds vector index connection and layout settings.
type IndexConfig struct {
	Driver           string   `yaml:"driver"` // redis, qdrant (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	APIKey           string   `yaml:"api_key"` // qdrant only
	UseTLS           bool     `yaml:"use_tls"` // qdrant only
	Name             string   `yaml:"name"`
	VectorField      string   `yaml:"vector_field"`
	ContentField     string   `yaml:"content_field"`
	MetadataFields   []string `yaml:"metadata_fields"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds the embedding provider settings.
type EmbeddingConfig struct {
	Provider         string      `yaml:"provider"` // label for metrics and logs
	BaseURL          string      `yaml:"base_url"`
	APIKey           string      `yaml:"api_key"`
	Model            string      `yaml:"model"`
	Dimensions       int         `yaml:"dimensions"`
	QueryInstruction string      `yaml:"query_instruction"`
	Cache            CacheConfig `yaml:"cache"`
}

// CacheConfig holds embedding cache settings. Only the redis driver can back it.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	TTLSec  int  `yaml:"ttl_sec"`
}

// RewriterConfig holds the answer rewriting model settings.
type RewriterConfig struct {
	Driver      string  `yaml:"driver"` // openai, ollama (default: ollama)
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// PipelineConfig sizes the retrieval and reranking stages.
type PipelineConfig struct {
	CandidateK int `yaml:"candidate_k"`
	TopK       int `yaml:"top_k"`
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

// Parse decodes YAML config bytes, substituting env variables, then applies
// defaults and validates.
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
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if len(c.HTTP.CORSOrigins) == 0 {
		c.HTTP.CORSOrigins = []string{"*"}
	}
	if c.Index.Driver == "" {
		c.Index.Driver = DriverRedis
	}
	if c.Index.Name == "" {
		c.Index.Name = "regask_passages"
	}
	if c.Index.ContentField == "" {
		c.Index.ContentField = "content"
	}
	if c.Index.KeyPrefix == "" {
		c.Index.KeyPrefix = "regask:passage:"
	}
	if c.Index.ReadinessTimeout <= 0 {
		c.Index.ReadinessTimeout = 10
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Cache.TTLSec <= 0 {
		c.Embedding.Cache.TTLSec = 86400
	}
	if c.Rewriter.Driver == "" {
		c.Rewriter.Driver = RewriterOllama
	}
	if c.Rewriter.Model == "" && c.Rewriter.Driver == RewriterOllama {
		c.Rewriter.Model = "llama3"
	}
	if c.Rewriter.MaxTokens <= 0 {
		c.Rewriter.MaxTokens = 512
	}
	if c.Pipeline.CandidateK <= 0 {
		c.Pipeline.CandidateK = 8
	}
	if c.Pipeline.TopK <= 0 {
		c.Pipeline.TopK = 3
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Index.Driver {
	case DriverRedis, DriverQdrant:
	default:
		return fmt.Errorf("index.driver must be %q or %q, got %q", DriverRedis, DriverQdrant, c.Index.Driver)
	}
	if len(c.Index.Addrs) == 0 {
		return errors.New("index.addrs is required")
	}
	if c.Embedding.Model == "" {
		return errors.New("embedding.model is required")
	}
	if c.Embedding.Cache.Enabled && c.Index.Driver != DriverRedis {
		return fmt.Errorf("embedding.cache requires index.driver %q, got %q", DriverRedis, c.Index.Driver)
	}
	switch c.Rewriter.Driver {
	case RewriterOpenAI, RewriterOllama:
	default:
		return fmt.Errorf("rewriter.driver must be %q or %q, got %q", RewriterOpenAI, RewriterOllama, c.Rewriter.Driver)
	}
	if c.Rewriter.Model == "" {
		return errors.New("rewriter.model is required")
	}
	if c.Rewriter.Temperature < 0 || c.Rewriter.Temperature > 2 {
		return fmt.Errorf("rewriter.temperature must be between 0 and 2, got %g", c.Rewriter.Temperature)
	}
	if c.Pipeline.CandidateK <= 0 {
		return fmt.Errorf("pipeline.candidate_k must be positive, got %d", c.Pipeline.CandidateK)
	}
	if c.Pipeline.TopK <= 0 {
		return fmt.Errorf("pipeline.top_k must be positive, got %d", c.Pipeline.TopK)
	}
	if c.Pipeline.TopK > c.Pipeline.CandidateK {
		return fmt.Errorf("pipeline.top_k (%d) must not exceed pipeline.candidate_k (%d)",
			c.Pipeline.TopK, c.Pipeline.CandidateK)
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
