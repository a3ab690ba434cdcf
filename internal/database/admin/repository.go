// Package admin provides destructive maintenance operations: clearing study
// history and resetting the whole database.
//
// This package implements the AdminStore interface defined in internal/http/admin.go.
//
// # Interface Implementation
//
//	var _ http.AdminStore = (*Repository)(nil)
//
// # Usage
//
//	repo := admin.NewRepository(db, cfg.Seed.Dir)
//	err := repo.ResetHistory()
package admin

import (
	"gorm.io/gorm"

	"github.com/mrlokans/langportal/internal/database"
	"github.com/mrlokans/langportal/internal/entities"
)

// Repository handles reset operations.
type Repository struct {
	db      *gorm.DB
	seedDir string
}

// NewRepository creates a new admin repository. When seedDir is set, FullReset
// re-imports it after clearing the tables.
func NewRepository(db *gorm.DB, seedDir string) *Repository {
	return &Repository{db: db, seedDir: seedDir}
}

// ResetHistory deletes every review and study session. Words, groups and
// activities are kept.
func (r *Repository) ResetHistory() error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return deleteAll(tx, &entities.WordReviewItem{}, &entities.StudySession{})
	})
	return database.Classify(err)
}

// FullReset empties every table in foreign-key order and, if configured,
// re-imports the seed data in the same transaction. The returned result is
// nil when no seed directory is configured.
func (r *Repository) FullReset() (*database.SeedResult, error) {
	var result *database.SeedResult
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := deleteAll(tx,
			&entities.WordReviewItem{},
			&entities.StudySession{},
			&entities.WordGroup{},
			&entities.Word{},
			&entities.Group{},
			&entities.StudyActivity{},
		)
		if err != nil {
			return err
		}
		if r.seedDir == "" {
			return nil
		}
		result, err = database.SeedDir(tx, r.seedDir)
		return err
	})
	if err != nil {
		return nil, database.Classify(err)
	}
	return result, nil
}

func deleteAll(tx *gorm.DB, models ...any) error {
	all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range models {
		if err := all.Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
