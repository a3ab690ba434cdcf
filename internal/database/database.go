package database

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/langportal/internal/config"
	"github.com/mrlokans/langportal/internal/entities"
)

// Clock returns the current time. Repositories stamp rows with it so tests can
// pin "now".
type Clock func() time.Time

// SystemClock returns the wall clock in UTC. Timestamps are always written in
// UTC so their text form sorts chronologically on SQLite.
func SystemClock() time.Time {
	return time.Now().UTC()
}

type Database struct {
	DB     *gorm.DB
	Driver config.DatabaseDriver
}

// NewDatabase opens the configured engine and migrates the schema.
func NewDatabase(cfg config.Database) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.DriverSQLite, "":
		dialector = SQLiteDialector(SQLiteDSN(cfg.Path, cfg.BusyTimeout))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel(cfg.LogLevel)),
		NowFunc: SystemClock,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverSQLite
	}
	return &Database{DB: db, Driver: driver}, nil
}

// SQLiteDSN enables foreign keys on every pooled connection and makes writers
// wait for the lock instead of failing immediately.
func SQLiteDSN(path string, busyTimeout time.Duration) string {
	params := []string{
		"_foreign_keys=on",
		"_journal_mode=WAL",
		fmt.Sprintf("_busy_timeout=%d", busyTimeout.Milliseconds()),
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

// Migrate creates or updates the five tables and the membership table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(entities.All()...)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
