// Package config provides application configuration with multi-source
// priority: environment variables override the config file
// (~/.treatybot/config.yaml), which overrides built-in defaults.
//
// The context token budget has a configured default but is passed into the
// answer pipeline as an explicit per-call parameter; nothing in the core
// reads ambient configuration.
//
// Sensitive values (the Postgres password) are masked by MarshalJSON and
// String, so a Config can be logged safely.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidModelName indicates an empty model name.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates a temperature outside [0, 1].
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidContextTokens indicates a non-positive context budget.
	ErrInvalidContextTokens = errors.New("invalid context token budget")

	// ErrInvalidRetrievalLimit indicates a non-positive retrieval limit.
	ErrInvalidRetrievalLimit = errors.New("invalid retrieval limit")

	// ErrInvalidPostgresHost indicates an empty PostgreSQL host.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates a PostgreSQL port out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")
)

const (
	// DefaultModelName is the provider-qualified completion model used for
	// answers.
	DefaultModelName = "googleai/gemini-2.5-flash"

	// DefaultEmbedderModel embeds passages and questions.
	DefaultEmbedderModel = "gemini-embedding-001"

	// DefaultContextTokens is the default token budget for the assembled
	// passage context. It sits well under the completion model's context
	// size to leave room for the prompt template and the response.
	DefaultContextTokens = 3000

	// DefaultRetrievalLimit is the maximum number of passages fetched from
	// the vector index per question; the token budget decides how many of
	// them actually reach the prompt.
	DefaultRetrievalLimit = 100

	// DefaultTemperature matches the answer style the reviewers settled on.
	DefaultTemperature = 0.3
)

// Config stores application configuration.
type Config struct {
	// Model configuration
	ModelName     string  `mapstructure:"model_name" json:"model_name"`
	EmbedderModel string  `mapstructure:"embedder_model" json:"embedder_model"`
	Temperature   float64 `mapstructure:"temperature" json:"temperature"`

	// Context assembly
	ContextTokens  int `mapstructure:"context_tokens" json:"context_tokens"`
	RetrievalLimit int `mapstructure:"retrieval_limit" json:"retrieval_limit"`

	// Storage
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"postgres_password"` // SENSITIVE: masked in MarshalJSON
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`

	// Serve mode
	ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"`

	// Tracing (serve mode, optional). Empty endpoint disables export.
	OTLPEndpoint string `mapstructure:"otlp_endpoint" json:"otlp_endpoint"`
	Environment  string `mapstructure:"environment" json:"environment"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > defaults.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}
	configDir := filepath.Join(home, ".treatybot")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults plus env carry it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model_name", DefaultModelName)
	v.SetDefault("embedder_model", DefaultEmbedderModel)
	v.SetDefault("temperature", DefaultTemperature)
	v.SetDefault("context_tokens", DefaultContextTokens)
	v.SetDefault("retrieval_limit", DefaultRetrievalLimit)

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "treatybot")
	v.SetDefault("postgres_password", "treatybot_dev_password")
	v.SetDefault("postgres_db_name", "treatybot")
	v.SetDefault("postgres_ssl_mode", "disable")

	v.SetDefault("listen_addr", "127.0.0.1:3500")
	v.SetDefault("environment", "dev")
}

// bindEnvVariables binds explicit environment overrides.
// GEMINI_API_KEY is read directly by the Genkit plugin, not via viper.
func bindEnvVariables(v *viper.Viper) {
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("model_name", "TREATYBOT_MODEL_NAME")
	mustBind("embedder_model", "TREATYBOT_EMBEDDER_MODEL")
	mustBind("context_tokens", "TREATYBOT_CONTEXT_TOKENS")
	mustBind("listen_addr", "TREATYBOT_LISTEN_ADDR")
	mustBind("otlp_endpoint", "TREATYBOT_OTLP_ENDPOINT")
	mustBind("environment", "TREATYBOT_ENVIRONMENT")
}

// parseDatabaseURL applies DATABASE_URL, when set, over the individual
// Postgres fields. Deploy environments usually hand out a single URL.
func (c *Config) parseDatabaseURL() error {
	raw := os.Getenv("DATABASE_URL")
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL scheme %q: want postgres or postgresql", u.Scheme)
	}

	c.PostgresHost = u.Hostname()
	if port := u.Port(); port != "" {
		if _, err := fmt.Sscanf(port, "%d", &c.PostgresPort); err != nil {
			return fmt.Errorf("invalid DATABASE_URL port %q: %w", port, err)
		}
	}
	if u.User != nil {
		c.PostgresUser = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			c.PostgresPassword = pw
		}
	}
	if db := filepath.Base(u.Path); db != "." && db != "/" {
		c.PostgresDBName = db
	}
	if mode := u.Query().Get("sslmode"); mode != "" {
		c.PostgresSSLMode = mode
	}
	return nil
}

// PostgresURL returns the postgres:// URL form of the storage settings,
// as consumed by golang-migrate and pgxpool.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:   fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:   "/" + c.PostgresDBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.PostgresSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

const maskedValue = "████████"

// MarshalJSON masks sensitive fields.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	if a.PostgresPassword != "" {
		a.PostgresPassword = maskedValue
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
