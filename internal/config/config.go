package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all application settings read from the environment
type Config struct {
	LogLevel string `validate:"required,oneof=debug info warn error"`
	LogMode  string `validate:"required,oneof=development production"`
	// Telegram bot API token
	BotToken string `validate:"required"`
	// Use a reduced default card set for new users
	TestWords bool
	// Optional .xlsx/.csv file with the default card set
	DefaultCardsFile string

	Database  DatabaseConfig
	Scheduler SchedulerConfig
}

// DatabaseConfig holds storage connection parameters
type DatabaseConfig struct {
	Driver    string `validate:"required,oneof=sqlite3 postgres"`
	Path      string `validate:"required_if=Driver sqlite3"`
	Host      string `validate:"required_if=Driver postgres"`
	Port      int    `validate:"gt=0,lt=65536"`
	Name      string `validate:"required_if=Driver postgres"`
	User      string
	Password  string
	SSLMode   string
	ClearData bool
}

// SchedulerConfig controls the stale session cleanup job
type SchedulerConfig struct {
	Enabled         bool
	SessionTTL      time.Duration `validate:"gt=0"`
	CleanupInterval time.Duration `validate:"gt=0"`
}

// DSN returns the connection string for the configured driver
func (c DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
			c.Host, c.Port, c.Name, c.User, c.Password, c.SSLMode)
	}
	return c.Path
}

var validate = validator.New()

// Load reads configuration from the environment. Values from a .env file in
// the working directory are used for variables that are not already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds and validates a Config from current environment variables.
// Values that are set but do not parse are reported together.
func FromEnv() (*Config, error) {
	env := &envReader{}
	cfg := &Config{
		LogLevel:         strings.ToLower(env.String("LOG_LEVEL", "info")),
		LogMode:          strings.ToLower(env.String("LOG_MODE", "development")),
		BotToken:         env.String("TELEGRAM_BOT_TOKEN", ""),
		TestWords:        env.Bool("TEST_WORDS", false),
		DefaultCardsFile: env.String("DEFAULT_CARDS_FILE", ""),
		Database: DatabaseConfig{
			Driver:    env.String("DB_DRIVER", "sqlite3"),
			Path:      env.String("DB_PATH", "data/cardbot.db"),
			Host:      env.String("DB_HOST", "localhost"),
			Port:      env.Int("DB_PORT", 5432),
			Name:      env.String("DB_NAME", "cardbot"),
			User:      env.String("DB_USER", "postgres"),
			Password:  env.String("DB_PASS", "postgres"),
			SSLMode:   env.String("DB_SSLMODE", "disable"),
			ClearData: env.Bool("DB_CLEAR_DATA", false),
		},
		Scheduler: SchedulerConfig{
			Enabled:         env.Bool("ENABLE_SCHEDULER", true),
			SessionTTL:      env.Duration("SESSION_TTL", 24*time.Hour),
			CleanupInterval: env.Duration("CLEANUP_INTERVAL", time.Hour),
		},
	}

	if err := env.Err(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// envReader reads typed environment variables and remembers every value
// that failed to parse
type envReader struct {
	errs []error
}

// Err returns all parse errors joined, or nil
func (r *envReader) Err() error {
	return errors.Join(r.errs...)
}

func (r *envReader) String(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func (r *envReader) Int(name string, def int) int {
	v := r.String(name, "")
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		r.fail(name, v, "an integer")
		return def
	}
	return i
}

func (r *envReader) Bool(name string, def bool) bool {
	v := r.String(name, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(name, v, "a boolean")
		return def
	}
	return b
}

func (r *envReader) Duration(name string, def time.Duration) time.Duration {
	v := r.String(name, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(name, v, "a duration like 30m or 24h")
		return def
	}
	return d
}

func (r *envReader) fail(name, value, want string) {
	r.errs = append(r.errs, fmt.Errorf("%s=%q is not %s", name, value, want))
}
