package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderAuto   = "auto"

	StoreFile     = "file"
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"

	SessionModeIP     = "ip"
	SessionModeRandom = "random"
)

// ErrMissingAPIKey is returned by Validate when the selected provider has no credential.
var ErrMissingAPIKey = errors.New("missing language model API key")

type Config struct {
	Port           string
	LogLevel       string
	LogFormat      string
	AllowedOrigins []string
	// TrustedProxies lists proxy IPs/CIDRs whose forwarding headers are honored.
	// Empty means client IPs always come from the connection.
	TrustedProxies []string

	// AI provider
	AIProvider    string
	AIModel       string
	AITimeout     time.Duration
	OpenAIAPIKey  string
	OpenAIBaseURL string
	GeminiAPIKey  string
	OllamaBaseURL string
	OllamaModel   string

	// Rate limiting
	RateLimitStore       string
	RateLimitFile        string
	RedisURL             string
	DatabaseURL          string
	DailyLimit           int
	HourlyLimit          int
	AnonymousSessionMode string
	BurstRPS             float64
	Burst                int
}

// fileConfig mirrors config.yaml. Every field is optional; environment variables win.
type fileConfig struct {
	Port           string   `yaml:"port"`
	LogLevel       string   `yaml:"log_level"`
	LogFormat      string   `yaml:"log_format"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	TrustedProxies []string `yaml:"trusted_proxies"`
	AI             struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		Timeout  string `yaml:"timeout"`
		OpenAI   struct {
			APIKey  string `yaml:"api_key"`
			BaseURL string `yaml:"base_url"`
		} `yaml:"openai"`
		Gemini struct {
			APIKey string `yaml:"api_key"`
		} `yaml:"gemini"`
		Ollama struct {
			BaseURL string `yaml:"base_url"`
			Model   string `yaml:"model"`
		} `yaml:"ollama"`
	} `yaml:"ai"`
	RateLimit struct {
		Store         string  `yaml:"store"`
		File          string  `yaml:"file"`
		RedisURL      string  `yaml:"redis_url"`
		DatabaseURL   string  `yaml:"database_url"`
		Daily         int     `yaml:"daily"`
		Hourly        int     `yaml:"hourly"`
		AnonymousMode string  `yaml:"anonymous_mode"`
		BurstRPS      float64 `yaml:"burst_rps"`
		Burst         int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// Load reads .env, then the optional YAML file at path (CONFIG_PATH when path is empty),
// then environment variables. The result is validated before it is returned.
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	if path == "" {
		path = getEnv("CONFIG_PATH", "config.yaml")
	}

	var fc fileConfig
	if data, err := os.ReadFile(path); err == nil {
		// Expand ${VAR} references in the YAML
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &fc); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg := &Config{
		Port:           getEnv("PORT", firstNonEmpty(fc.Port, "8000")),
		LogLevel:       getEnv("LOG_LEVEL", firstNonEmpty(fc.LogLevel, "info")),
		LogFormat:      getEnv("LOG_FORMAT", firstNonEmpty(fc.LogFormat, "text")),
		AllowedOrigins: fc.AllowedOrigins,
		TrustedProxies: fc.TrustedProxies,

		AIProvider:    strings.ToLower(getEnv("AI_PROVIDER", firstNonEmpty(fc.AI.Provider, ProviderOpenAI))),
		AIModel:       getEnv("AI_MODEL", fc.AI.Model),
		AITimeout:     getEnvDuration("AI_TIMEOUT", parseDuration(fc.AI.Timeout, 60*time.Second)),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", fc.AI.OpenAI.APIKey),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", firstNonEmpty(fc.AI.OpenAI.BaseURL, "https://api.openai.com/v1")),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", fc.AI.Gemini.APIKey),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", firstNonEmpty(fc.AI.Ollama.BaseURL, "http://localhost:11434")),
		OllamaModel:   getEnv("OLLAMA_MODEL", firstNonEmpty(fc.AI.Ollama.Model, "llama3")),

		RateLimitStore:       strings.ToLower(getEnv("RATE_LIMIT_STORE", firstNonEmpty(fc.RateLimit.Store, StoreFile))),
		RateLimitFile:        getEnv("RATE_LIMIT_FILE", firstNonEmpty(fc.RateLimit.File, "rate_limits.json")),
		RedisURL:             getEnv("REDIS_URL", firstNonEmpty(fc.RateLimit.RedisURL, "redis://localhost:6379/0")),
		DatabaseURL:          getEnv("DATABASE_URL", fc.RateLimit.DatabaseURL),
		DailyLimit:           getEnvInt("RATE_LIMIT_DAILY", positiveOr(fc.RateLimit.Daily, 15)),
		HourlyLimit:          getEnvInt("RATE_LIMIT_HOURLY", positiveOr(fc.RateLimit.Hourly, 5)),
		AnonymousSessionMode: strings.ToLower(getEnv("RATE_LIMIT_ANONYMOUS_MODE", firstNonEmpty(fc.RateLimit.AnonymousMode, SessionModeIP))),
		BurstRPS:             getEnvFloat("RATE_LIMIT_BURST_RPS", fc.RateLimit.BurstRPS),
		Burst:                getEnvInt("RATE_LIMIT_BURST", positiveOr(fc.RateLimit.Burst, 5)),
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}
	if proxies := os.Getenv("TRUSTED_PROXIES"); proxies != "" {
		cfg.TrustedProxies = splitList(proxies)
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"https://www.pepsales.ai"}
	}
	if cfg.BurstRPS == 0 {
		cfg.BurstRPS = 1
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the service cannot start without.
func (c *Config) Validate() error {
	switch c.AIProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is required for the openai provider", ErrMissingAPIKey)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is required for the gemini provider", ErrMissingAPIKey)
		}
	case ProviderAuto:
		if c.OpenAIAPIKey == "" && c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY or GEMINI_API_KEY is required for the auto provider", ErrMissingAPIKey)
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", c.AIProvider)
	}

	switch c.RateLimitStore {
	case StoreFile, StoreMemory, StoreRedis:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres rate limit store")
		}
	default:
		return fmt.Errorf("unknown RATE_LIMIT_STORE %q", c.RateLimitStore)
	}

	if c.AnonymousSessionMode != SessionModeIP && c.AnonymousSessionMode != SessionModeRandom {
		return fmt.Errorf("unknown RATE_LIMIT_ANONYMOUS_MODE %q", c.AnonymousSessionMode)
	}
	if c.DailyLimit <= 0 || c.HourlyLimit <= 0 {
		return fmt.Errorf("rate limits must be positive (daily=%d, hourly=%d)", c.DailyLimit, c.HourlyLimit)
	}
	return nil
}

// Model returns the model identifier for the configured provider.
func (c *Config) Model() string {
	if c.AIModel != "" {
		return c.AIModel
	}
	switch c.AIProvider {
	case ProviderGemini:
		return "gemini-2.0-flash"
	case ProviderOllama:
		return c.OllamaModel
	case ProviderAuto:
		// each provider in the chain falls back to its own default model
		return ""
	default:
		return "gpt-3.5-turbo"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
