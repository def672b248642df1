package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	AI       AIConfig       `mapstructure:"ai"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	MCP      MCPConfig      `mapstructure:"mcp"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DatabaseConfig struct {
	Type string `mapstructure:"type"` // "sqlite", "postgres", or "sqlserver"
	DSN  string `mapstructure:"dsn"`
	// Pool settings. Zero values let each dialect pick its own default.
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
}

// GitHubConfig holds credentials for the account whose repositories are
// tailored. The token needs repo scope for mutations (create/delete).
type GitHubConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
	// Username is the account login whose repositories are synced.
	// Empty means "the authenticated user".
	Username string `mapstructure:"username"`
	// FetchLanguages enables the per-repository language breakdown call
	// during sync. It costs one extra API request per repository.
	FetchLanguages bool `mapstructure:"fetch_languages"`
}

// AIConfig configures the hosted text-generation API.
type AIConfig struct {
	BaseURL        string `mapstructure:"base_url"` // empty means the provider default
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	// PromptsFile optionally points at a YAML file overriding the built-in
	// prompt templates.
	PromptsFile string `mapstructure:"prompts_file"`
}

// SyncConfig defines the background repository sync worker configuration.
type SyncConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // "debug", "info", "warn", "error"
	Format     string `mapstructure:"format"` // "json" or "text"
	OutputFile string `mapstructure:"output_file"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// MCPConfig configures the optional MCP tool server.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

func Load() (*Config, error) {
	// Load .env if present so GHTAILOR_* variables set there are visible
	// to viper's AutomaticEnv below. Missing file is fine.
	_ = gotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Environment variable support:
	// github.fetch_languages -> GHTAILOR_GITHUB_FETCH_LANGUAGES
	viper.SetEnvPrefix("GHTAILOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A config file is optional; env vars plus defaults are enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.type", "sqlite")
	viper.SetDefault("database.dsn", "./data/tailor.db")
	viper.SetDefault("github.base_url", "https://api.github.com")
	viper.SetDefault("github.fetch_languages", false)
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.timeout_seconds", 30)
	viper.SetDefault("sync.enabled", true)
	viper.SetDefault("sync.interval_minutes", 60)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output_file", "./logs/tailor.log")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 3)
	viper.SetDefault("logging.max_age", 28)
	viper.SetDefault("mcp.enabled", false)
	viper.SetDefault("mcp.port", 8090)
}

// Validate checks settings that would otherwise fail deep inside a collaborator.
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "sqlite", "postgres", "sqlserver":
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.AI.TimeoutSeconds <= 0 {
		return fmt.Errorf("ai.timeout_seconds must be positive, got %d", c.AI.TimeoutSeconds)
	}
	return nil
}
