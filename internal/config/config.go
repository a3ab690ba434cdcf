package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DriverSQLite   DatabaseDriver = "sqlite"
	DriverPostgres DatabaseDriver = "postgres"
)

type (
	Config struct {
		HTTP     HTTP     `validate:"required"`
		Global   Global   `validate:"required"`
		Database Database `validate:"required"`
		API      API      `validate:"required"`
		Study    Study    `validate:"required"`
		Seed     Seed
		Log      Log
	}

	HTTP struct {
		Port           int32  `validate:"min=1,max=65535"`
		Host           string `validate:"required"`
		Mode           string `validate:"oneof=debug release test"`
		AllowedOrigins []string
	}
	Global struct {
		ShutdownTimeoutInSeconds int `validate:"min=0"`
	}
	Database struct {
		Driver      DatabaseDriver `validate:"oneof=sqlite postgres"`
		Path        string         // SQLite file path
		DSN         string         // Postgres connection string
		BusyTimeout time.Duration  `validate:"min=0"`
		LogLevel    string         `validate:"oneof=silent error warn info"`
	}
	API struct {
		ItemsPerPage    int `validate:"min=1,max=1000"`
		SearchMaxLength int `validate:"min=1"`
	}
	Study struct {
		// Calendar days for the streak are computed in this location.
		StreakTimezone string `validate:"required"`
	}
	Seed struct {
		Dir string // Re-imported on full reset when set
	}
	Log struct {
		Mode string
	}
)

var validate = validator.New()

func NewConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 5000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("cors_allowed_origins", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("database_driver", string(DriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_busy_timeout", "5s")
	v.SetDefault("database_log_level", "warn")

	v.SetDefault("items_per_page", DefaultItemsPerPage)
	v.SetDefault("search_max_length", DefaultSearchMaxLength)
	v.SetDefault("streak_timezone", "UTC")
	v.SetDefault("seed_dir", "")
	v.SetDefault("log_mode", "development")

	cfg := &Config{
		HTTP: HTTP{
			Port:           v.GetInt32("PORT"),
			Host:           v.GetString("HOST"),
			Mode:           v.GetString("GIN_MODE"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:      DatabaseDriver(strings.ToLower(v.GetString("DATABASE_DRIVER"))),
			Path:        v.GetString("DATABASE_PATH"),
			DSN:         v.GetString("DATABASE_DSN"),
			BusyTimeout: v.GetDuration("DATABASE_BUSY_TIMEOUT"),
			LogLevel:    strings.ToLower(v.GetString("DATABASE_LOG_LEVEL")),
		},
		API: API{
			ItemsPerPage:    v.GetInt("ITEMS_PER_PAGE"),
			SearchMaxLength: v.GetInt("SEARCH_MAX_LENGTH"),
		},
		Study: Study{
			StreakTimezone: v.GetString("STREAK_TIMEZONE"),
		},
		Seed: Seed{
			Dir: v.GetString("SEED_DIR"),
		},
		Log: Log{
			Mode: v.GetString("LOG_MODE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var msgs []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (param %q)", fe.Namespace(), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("invalid configuration: DATABASE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("invalid configuration: DATABASE_DSN is required for the postgres driver")
		}
	}

	if _, err := time.LoadLocation(c.Study.StreakTimezone); err != nil {
		return fmt.Errorf("invalid configuration: STREAK_TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the streak timezone. Validate guarantees it loads.
func (s Study) Location() *time.Location {
	loc, err := time.LoadLocation(s.StreakTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
