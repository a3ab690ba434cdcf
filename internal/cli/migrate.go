package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/langportal/internal/config"
)

// MigrateCommand creates or updates the schema. Opening the database already
// migrates it, so Run only reports where it did so.
type MigrateCommand struct {
	DatabasePath string
}

func NewMigrateCommand() *MigrateCommand {
	return &MigrateCommand{}
}

func (cmd *MigrateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", "", "SQLite database file (default: DATABASE_PATH)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s migrate [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create or update the database schema.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *MigrateCommand) Run() error {
	db, cfg, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	target := cfg.Database.Path
	if cfg.Database.Driver == config.DriverPostgres {
		target = "postgres database"
	}
	fmt.Printf("Schema is up to date (%s)\n", target)
	return nil
}
