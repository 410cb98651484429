package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// CacheBackend identifies the store behind the cache and liked items
type CacheBackend string

const (
	CacheBackendBolt     CacheBackend = "bolt"
	CacheBackendPostgres CacheBackend = "postgres"
	CacheBackendMemory   CacheBackend = "memory"
)

// Config holds all application configuration
type Config struct {
	TMDB          TMDBConfig         `mapstructure:"tmdb"`
	Cache         CacheConfig        `mapstructure:"cache"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Liked         LikedConfig        `mapstructure:"liked"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Browser       BrowserConfig      `mapstructure:"browser"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// TMDBConfig holds remote catalog configuration
type TMDBConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	Language     string        `mapstructure:"language"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RPS          float64       `mapstructure:"rps"` // Request pacing
}

// CacheConfig holds cache policy and storage configuration
type CacheConfig struct {
	Backend       CacheBackend  `mapstructure:"backend"` // "bolt", "postgres" or "memory"
	Dir           string        `mapstructure:"dir"`     // Bolt only
	TrendingTTL   time.Duration `mapstructure:"trending_ttl"`
	SearchTTL     time.Duration `mapstructure:"search_ttl"`
	Retention     time.Duration `mapstructure:"retention"` // Rows older than this are swept
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// DatabaseConfig holds postgres connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// LikedConfig holds liked-item toggle configuration
type LikedConfig struct {
	UndoWindow time.Duration `mapstructure:"undo_window"`
}

// NotificationConfig holds the liked-toggle notification channel
type NotificationConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Timeout  time.Duration  `mapstructure:"timeout"` // Per delivery
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

// RabbitMQConfig holds broker settings; an empty URL logs notifications instead
type RabbitMQConfig struct {
	URL        string `mapstructure:"url"`
	Exchange   string `mapstructure:"exchange"`
	RoutingKey string `mapstructure:"routing_key"`
	Queue      string `mapstructure:"queue"`
}

// BrowserConfig holds the command used to open TMDB pages
type BrowserConfig struct {
	Command string   `mapstructure:"command"` // Empty = system default
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File   string `mapstructure:"file"` // "-" logs to stderr
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			Language:     "en-US",
			Timeout:      15 * time.Second,
			RPS:          20,
		},
		Cache: CacheConfig{
			Backend:       CacheBackendBolt,
			Dir:           defaultCachePath(),
			TrendingTTL:   time.Hour,
			SearchTTL:     15 * time.Minute,
			Retention:     7 * 24 * time.Hour,
			SweepInterval: time.Hour,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "movietracker",
			DBName:  "movietracker",
			SSLMode: "disable",
		},
		Liked: LikedConfig{
			UndoWindow: 4 * time.Second,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Timeout: 5 * time.Second,
			RabbitMQ: RabbitMQConfig{
				Exchange:   "movietracker",
				RoutingKey: "liked.changed",
				Queue:      "liked_notifications",
			},
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// setDefaults registers every default with v so env overrides reach all keys
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("tmdb.api_key", cfg.TMDB.APIKey)
	v.SetDefault("tmdb.base_url", cfg.TMDB.BaseURL)
	v.SetDefault("tmdb.image_base_url", cfg.TMDB.ImageBaseURL)
	v.SetDefault("tmdb.language", cfg.TMDB.Language)
	v.SetDefault("tmdb.timeout", cfg.TMDB.Timeout)
	v.SetDefault("tmdb.rps", cfg.TMDB.RPS)

	v.SetDefault("cache.backend", string(cfg.Cache.Backend))
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.trending_ttl", cfg.Cache.TrendingTTL)
	v.SetDefault("cache.search_ttl", cfg.Cache.SearchTTL)
	v.SetDefault("cache.retention", cfg.Cache.Retention)
	v.SetDefault("cache.sweep_interval", cfg.Cache.SweepInterval)

	v.SetDefault("database.host", cfg.Database.Host)
	v.SetDefault("database.port", cfg.Database.Port)
	v.SetDefault("database.user", cfg.Database.User)
	v.SetDefault("database.password", cfg.Database.Password)
	v.SetDefault("database.dbname", cfg.Database.DBName)
	v.SetDefault("database.sslmode", cfg.Database.SSLMode)

	v.SetDefault("liked.undo_window", cfg.Liked.UndoWindow)

	v.SetDefault("notifications.enabled", cfg.Notifications.Enabled)
	v.SetDefault("notifications.timeout", cfg.Notifications.Timeout)
	v.SetDefault("notifications.rabbitmq.url", cfg.Notifications.RabbitMQ.URL)
	v.SetDefault("notifications.rabbitmq.exchange", cfg.Notifications.RabbitMQ.Exchange)
	v.SetDefault("notifications.rabbitmq.routing_key", cfg.Notifications.RabbitMQ.RoutingKey)
	v.SetDefault("notifications.rabbitmq.queue", cfg.Notifications.RabbitMQ.Queue)

	v.SetDefault("browser.command", cfg.Browser.Command)
	v.SetDefault("browser.args", cfg.Browser.Args)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "movietracker", "movietracker.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "movietracker", "movietracker.log")
	}
}

// DefaultConfigPath returns the default config directory for the current OS
func DefaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "movietracker")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "movietracker")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "movietracker", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "movietracker", "cache")
	}
}

// LoadConfig loads configuration from a .env file, the config file and the
// environment (MOVIETRACKER_TMDB_API_KEY and so on). An empty path searches
// the default config directory and the working directory.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	v := viper.New()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides
	v.SetEnvPrefix("MOVIETRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes cfg as YAML to path, creating the directory if needed
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	setDefaults(v, cfg)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects configurations the application cannot start with
func (c *Config) Validate() error {
	var errs []error

	if c.TMDB.APIKey == "" {
		errs = append(errs, errors.New("tmdb.api_key is required"))
	}
	if c.TMDB.BaseURL == "" {
		errs = append(errs, errors.New("tmdb.base_url is required"))
	}

	switch c.Cache.Backend {
	case CacheBackendBolt:
		if c.Cache.Dir == "" {
			errs = append(errs, errors.New("cache.dir is required for the bolt backend"))
		}
	case CacheBackendPostgres, CacheBackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend: %q", c.Cache.Backend))
	}

	if c.Cache.TrendingTTL <= 0 {
		errs = append(errs, errors.New("cache.trending_ttl must be positive"))
	}
	if c.Cache.SearchTTL <= 0 {
		errs = append(errs, errors.New("cache.search_ttl must be positive"))
	}
	if c.Cache.Retention < 0 {
		errs = append(errs, errors.New("cache.retention must not be negative"))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", LogFormatJSON, LogFormatText:
	default:
		errs = append(errs, fmt.Errorf("unknown log format: %q", c.Logging.Format))
	}

	if c.Liked.UndoWindow < 0 {
		errs = append(errs, errors.New("liked.undo_window must not be negative"))
	}

	return errors.Join(errs...)
}

// IsConfigured returns true if the API key is set
func (c *Config) IsConfigured() bool {
	return c.TMDB.APIKey != ""
}
