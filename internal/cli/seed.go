package cli

import (
	"flag"
	"fmt"
	"os"
)

// SeedCommand imports study activities and word lists from a directory.
// Re-running it reuses existing rows.
type SeedCommand struct {
	Directory    string
	DatabasePath string
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)

	fs.StringVar(&cmd.Directory, "dir", "", "Directory with study_activities.json and <group>.json word lists (default: SEED_DIR)")
	fs.StringVar(&cmd.DatabasePath, "db", "", "SQLite database file (default: DATABASE_PATH)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import seed data. Groups are named after their file: core_verbs.json becomes \"Core Verbs\".\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s seed -dir ./seed\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s seed -dir ./seed -db ./words.db\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *SeedCommand) Run() error {
	db, cfg, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	dir := cmd.Directory
	if dir == "" {
		dir = cfg.Seed.Dir
	}
	if dir == "" {
		return fmt.Errorf("seed directory is required: pass -dir or set SEED_DIR")
	}

	fmt.Printf("Importing seed data from %s\n", dir)
	result, err := db.Seed(dir)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	fmt.Printf("\n=== Seed Results ===\n")
	fmt.Printf("Study activities: %d\n", result.Activities)
	fmt.Printf("Groups: %d\n", result.Groups)
	fmt.Printf("Words: %d\n", result.Words)
	return nil
}
