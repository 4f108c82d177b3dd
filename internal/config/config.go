// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultDatabaseURL is the SQLite file used when no DSN is configured
const DefaultDatabaseURL = "resume_builder.db"

// Config is the application configuration. Values come from an optional config
// file, RESUME_-prefixed environment variables and the conventional names bound
// in Load (DATABASE_URL, GROQ_API_KEY, ...).
type Config struct {
	DatabaseURL string        `mapstructure:"database_url"`
	HTTP        HTTPConfig    `mapstructure:"http"`
	Auth        AuthConfig    `mapstructure:"auth"`
	LLM         LLMConfig     `mapstructure:"llm"`
	Render      RenderConfig  `mapstructure:"render"`
	Archive     ArchiveConfig `mapstructure:"archive"`
	RateLimit   RateConfig    `mapstructure:"rate_limit"`
	Log         LogConfig     `mapstructure:"log"`
}

// HTTPConfig holds listener settings
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	SecureCookie    bool          `mapstructure:"secure_cookie"`
}

// AuthConfig holds password hashing and token settings
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
	BcryptCost         int    `mapstructure:"bcrypt_cost"`
	PasswordPepper     string `mapstructure:"password_pepper"`
}

// LLMConfig selects the enrichment provider. Missing keys are reported per call.
type LLMConfig struct {
	Provider     string        `mapstructure:"provider"`
	Model        string        `mapstructure:"model"`
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	GroqAPIKey   string        `mapstructure:"groq_api_key"`
	GeminiAPIKey string        `mapstructure:"gemini_api_key"`
}

// RenderConfig holds PDF export settings
type RenderConfig struct {
	ChromePath string        `mapstructure:"chrome_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ArchiveConfig describes the optional export bucket
type ArchiveConfig struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Prefix          string `mapstructure:"prefix"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// RateConfig limits enrichment calls per identity
type RateConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
	Burst   int           `mapstructure:"burst"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// envAliases binds config keys to the unprefixed variable names used in deployments
var envAliases = map[string]string{
	"database_url":              "DATABASE_URL",
	"auth.jwt_secret":           "JWT_SECRET",
	"auth.jwt_expiration_hours": "JWT_EXPIRATION_HOURS",
	"auth.bcrypt_cost":          "BCRYPT_COST",
	"auth.password_pepper":      "PASSWORD_PEPPER",
	"llm.groq_api_key":          "GROQ_API_KEY",
	"llm.gemini_api_key":        "GEMINI_API_KEY",
	"render.chrome_path":        "CHROME_PATH",
	"archive.bucket":            "EXPORT_BUCKET",
	"archive.endpoint":          "EXPORT_ENDPOINT",
	"archive.access_key_id":     "AWS_ACCESS_KEY_ID",
	"archive.secret_access_key": "AWS_SECRET_ACCESS_KEY",
	"archive.region":            "AWS_REGION",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_url", DefaultDatabaseURL)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", 30*time.Second)
	v.SetDefault("http.secure_cookie", false)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_expiration_hours", 24)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.password_pepper", "")
	v.SetDefault("llm.provider", "groq")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.groq_api_key", "")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("render.chrome_path", "")
	v.SetDefault("render.timeout", 60*time.Second)
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.region", "")
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.access_key_id", "")
	v.SetDefault("archive.secret_access_key", "")
	v.SetDefault("archive.prefix", "exports")
	v.SetDefault("archive.use_path_style", false)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.limit", 10)
	v.SetDefault("rate_limit.window", time.Hour)
	v.SetDefault("rate_limit.burst", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads the configuration. path may be empty, in which case only
// defaults and the environment are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RESUME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		prefixed := "RESUME_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges. Secrets needed only by some commands are
// checked by JWT and Password.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("config error: 'database_url' must not be empty")
	}
	switch strings.ToLower(c.LLM.Provider) {
	case "groq", "gemini":
	default:
		return fmt.Errorf("config error: unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("config error: 'llm.timeout' must be positive")
	}
	if c.Render.Timeout <= 0 {
		return fmt.Errorf("config error: 'render.timeout' must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("config error: 'rate_limit' needs a positive limit and window")
	}
	if c.RateLimit.Burst < 0 {
		return fmt.Errorf("config error: 'rate_limit.burst' must be non-negative")
	}
	return nil
}

// LLMAPIKey returns the key of the configured provider
func (c *Config) LLMAPIKey() string {
	if strings.EqualFold(c.LLM.Provider, "gemini") {
		return c.LLM.GeminiAPIKey
	}
	return c.LLM.GroqAPIKey
}
