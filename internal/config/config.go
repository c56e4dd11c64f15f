package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type App struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	// StorageDriver selects postgres or sqlite.
	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"postgres"`
	SQLitePath    string `envconfig:"SQLITE_PATH" default:"tazkarti.db"`
	CORSOrigins   string `envconfig:"CORS_ORIGINS"`

	ResourceConflictWindow time.Duration `envconfig:"RESOURCE_CONFLICT_WINDOW" default:"12h"`
	UserCollisionWindow    time.Duration `envconfig:"USER_COLLISION_WINDOW" default:"150m"`
	EventTimezone          string        `envconfig:"EVENT_TIMEZONE" default:"UTC"`

	// RabbitURL empty disables the broker notifier.
	RabbitURL    string `envconfig:"RABBIT_URL"`
	SeatExchange string `envconfig:"SEAT_EXCHANGE" default:"seat.exchange"`
	// NotifyTimeout bounds one seat-change publish.
	NotifyTimeout time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"5s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// OTLPEndpoint empty disables tracing export.
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Environment  string `envconfig:"ENV" default:"dev"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads the environment into App. Variables from envFile, or from the nearest .env when
// envFile is empty, are loaded first and never override values already set.
func Load(envFile string) (App, error) {
	if err := loadDotEnv(envFile); err != nil {
		return App{}, err
	}

	var c App
	if err := envconfig.Process("", &c); err != nil {
		return App{}, fmt.Errorf("process env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return App{}, err
	}
	return c, nil
}

func (c App) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.ResourceConflictWindow <= 0 || c.UserCollisionWindow <= 0 {
		return errors.New("conflict windows must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// Location resolves EventTimezone.
func (c App) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.EventTimezone)
	if err != nil {
		return nil, fmt.Errorf("EVENT_TIMEZONE: %w", err)
	}
	return loc, nil
}

// Origins splits CORSOrigins on commas.
func (c App) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c App) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func loadDotEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		return nil
	}
	path, ok := findDotEnv()
	if !ok {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// findDotEnv walks from the working directory up to the filesystem root looking for .env.
func findDotEnv() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, ".env")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
