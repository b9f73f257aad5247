// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	AI         AIConfig         `mapstructure:"ai"`
	AWS        AWSConfig        `mapstructure:"aws"`
	Vision     VisionConfig     `mapstructure:"vision"`
	Translate  TranslateConfig  `mapstructure:"translate"`
	Speech     SpeechConfig     `mapstructure:"speech"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics"`
	History    HistoryConfig    `mapstructure:"history"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string   `mapstructure:"name"`
	Version     string   `mapstructure:"version"`
	Environment string   `mapstructure:"environment"`
	Debug       bool     `mapstructure:"debug"`
	LogLevel    string   `mapstructure:"log_level"`
	LogFormat   string   `mapstructure:"log_format"`
	LogOutputs  []string `mapstructure:"log_outputs"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

// AIConfig selects and configures the generative provider
type AIConfig struct {
	Provider      string        `mapstructure:"provider"`
	GeminiKey     string        `mapstructure:"gemini_key"`
	GeminiModel   string        `mapstructure:"gemini_model"`
	GeminiBaseURL string        `mapstructure:"gemini_base_url"`
	OpenAIKey     string        `mapstructure:"openai_key"`
	OpenAIModel   string        `mapstructure:"openai_model"`
	OpenAIBaseURL string        `mapstructure:"openai_base_url"`
	MaxTokens     int           `mapstructure:"max_tokens"`
	Temperature   float64       `mapstructure:"temperature"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// AWSConfig contains AWS service configuration shared by the AWS backends
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SessionToken    string `mapstructure:"session_token"`
	Endpoint        string `mapstructure:"endpoint"`
}

// VisionConfig configures the object/label detector
type VisionConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Backend       string        `mapstructure:"backend"`
	GoogleKey     string        `mapstructure:"google_key"`
	Endpoint      string        `mapstructure:"endpoint"`
	MinLabelScore float64       `mapstructure:"min_label_score"`
	MaxResults    int           `mapstructure:"max_results"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// TranslateConfig configures the translator
type TranslateConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Backend   string        `mapstructure:"backend"`
	GoogleKey string        `mapstructure:"google_key"`
	Endpoint  string        `mapstructure:"endpoint"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// SpeechConfig configures the narration chain
type SpeechConfig struct {
	CloudEnabled bool          `mapstructure:"cloud_enabled"`
	Backend      string        `mapstructure:"backend"`
	GoogleKey    string        `mapstructure:"google_key"`
	Endpoint     string        `mapstructure:"endpoint"`
	PollyVoice   string        `mapstructure:"polly_voice"`
	Player       string        `mapstructure:"player"`
	LocalEnabled bool          `mapstructure:"local_enabled"`
	LocalCommand string        `mapstructure:"local_command"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// AnalyticsConfig contains analytics database configuration
type AnalyticsConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// HistoryConfig bounds the session history
type HistoryConfig struct {
	Limit     int    `mapstructure:"limit"`
	Backend   string `mapstructure:"backend"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics   bool    `mapstructure:"enable_metrics"`
	MetricsPath     string  `mapstructure:"metrics_path"`
	EnableTracing   bool    `mapstructure:"enable_tracing"`
	OTLPEndpoint    string  `mapstructure:"otlp_endpoint"`
	SamplingRate    float64 `mapstructure:"sampling_rate"`
	HealthCheckPath string  `mapstructure:"health_check_path"`
}

// well-known variables honoured alongside the SHELFIE_ prefixed ones
var envAliases = map[string][]string{
	"ai.gemini_key":        {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"ai.openai_key":        {"OPENAI_API_KEY"},
	"vision.google_key":    {"GOOGLE_API_KEY"},
	"translate.google_key": {"GOOGLE_API_KEY"},
	"speech.google_key":    {"GOOGLE_API_KEY"},
	"aws.region":           {"AWS_REGION", "AWS_DEFAULT_REGION"},
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/shelfie")
	}

	v.SetEnvPrefix("SHELFIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, aliases := range envAliases {
		names := append([]string{"SHELFIE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Shelfie")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")
	v.SetDefault("app.log_outputs", []string{})

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.request_timeout", "110s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.max_upload_bytes", 20<<20)

	// AI defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini_model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini_base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("ai.openai_model", "gpt-4o-mini")
	v.SetDefault("ai.max_tokens", 2048)
	v.SetDefault("ai.temperature", 0.4)
	v.SetDefault("ai.timeout", "90s")

	v.SetDefault("aws.region", "us-east-1")

	// Capability defaults
	v.SetDefault("vision.enabled", true)
	v.SetDefault("vision.backend", "google")
	v.SetDefault("vision.endpoint", "https://vision.googleapis.com/v1")
	v.SetDefault("vision.min_label_score", 0.7)
	v.SetDefault("vision.max_results", 20)
	v.SetDefault("vision.timeout", "15s")

	v.SetDefault("translate.enabled", true)
	v.SetDefault("translate.backend", "google")
	v.SetDefault("translate.endpoint", "https://translation.googleapis.com/language/translate/v2")
	v.SetDefault("translate.timeout", "15s")

	v.SetDefault("speech.cloud_enabled", true)
	v.SetDefault("speech.backend", "google")
	v.SetDefault("speech.endpoint", "https://texttospeech.googleapis.com/v1")
	v.SetDefault("speech.polly_voice", "Joanna")
	v.SetDefault("speech.local_enabled", true)
	v.SetDefault("speech.timeout", "60s")

	// Analytics defaults
	v.SetDefault("analytics.enabled", true)
	v.SetDefault("analytics.driver", "sqlite")
	v.SetDefault("analytics.path", "shelfie_analytics.db")
	v.SetDefault("analytics.port", 5432)
	v.SetDefault("analytics.database", "shelfie")
	v.SetDefault("analytics.ssl_mode", "disable")
	v.SetDefault("analytics.max_open_conns", 10)
	v.SetDefault("analytics.max_idle_conns", 2)
	v.SetDefault("analytics.conn_max_lifetime", "1h")
	v.SetDefault("analytics.auto_migrate", true)
	v.SetDefault("analytics.timeout", "10s")

	// History defaults
	v.SetDefault("history.limit", 10)
	v.SetDefault("history.backend", "memory")
	v.SetDefault("history.key_prefix", "shelfie:history")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")

	// Monitoring defaults
	v.SetDefault("monitoring.enable_metrics", true)
	v.SetDefault("monitoring.metrics_path", "/metrics")
	v.SetDefault("monitoring.enable_tracing", false)
	v.SetDefault("monitoring.otlp_endpoint", "localhost:4318")
	v.SetDefault("monitoring.sampling_rate", 0.1)
	v.SetDefault("monitoring.health_check_path", "/health")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	switch c.AI.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("ai.provider must be gemini or openai, got %q", c.AI.Provider)
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive")
	}

	if err := oneOf("vision.backend", c.Vision.Backend, "google", "rekognition"); err != nil {
		return err
	}
	if c.Vision.MinLabelScore < 0 || c.Vision.MinLabelScore > 1 {
		return fmt.Errorf("vision.min_label_score must be within [0,1]")
	}
	if err := oneOf("translate.backend", c.Translate.Backend, "google", "aws"); err != nil {
		return err
	}
	if err := oneOf("speech.backend", c.Speech.Backend, "google", "polly"); err != nil {
		return err
	}
	if err := oneOf("analytics.driver", c.Analytics.Driver, "sqlite", "postgres"); err != nil {
		return err
	}
	if err := oneOf("history.backend", c.History.Backend, "memory", "redis"); err != nil {
		return err
	}

	if c.History.Limit < 1 {
		return fmt.Errorf("history.limit must be at least 1")
	}

	return nil
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", key, strings.Join(allowed, ", "), value)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Address returns the HTTP listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDSN returns the postgres connection string for the analytics database
func (c *AnalyticsConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.Username,
		c.Password,
		c.Database,
		c.SSLMode,
	)
}

// GetAddr returns the redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
