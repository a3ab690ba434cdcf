package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/langportal/internal/database/admin"
)

// ResetHistoryCommand deletes every study session and review, keeping the
// vocabulary.
type ResetHistoryCommand struct {
	DatabasePath string
	Full         bool
}

func NewResetHistoryCommand() *ResetHistoryCommand {
	return &ResetHistoryCommand{}
}

func (cmd *ResetHistoryCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("reset-history", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", "", "SQLite database file (default: DATABASE_PATH)")
	fs.BoolVar(&cmd.Full, "full", false, "Empty every table and re-import SEED_DIR when set")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s reset-history [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete study history.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ResetHistoryCommand) Run() error {
	db, cfg, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := admin.NewRepository(db.DB, cfg.Seed.Dir)
	if !cmd.Full {
		if err := repo.ResetHistory(); err != nil {
			return fmt.Errorf("failed to reset history: %w", err)
		}
		fmt.Println("Study history has been reset")
		return nil
	}

	result, err := repo.FullReset()
	if err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	fmt.Println("Database has been reset to initial state")
	if result != nil {
		fmt.Printf("Re-imported %d activities, %d groups, %d words\n", result.Activities, result.Groups, result.Words)
	}
	return nil
}
