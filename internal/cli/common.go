package cli

import (
	"fmt"

	"github.com/mrlokans/langportal/internal/config"
	"github.com/mrlokans/langportal/internal/database"
)

// openDatabase loads the environment configuration and opens the database.
// A non-empty dbPath replaces DATABASE_PATH and selects the sqlite driver.
func openDatabase(dbPath string) (*database.Database, *config.Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}
	if dbPath != "" {
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.Path = dbPath
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, cfg, nil
}
