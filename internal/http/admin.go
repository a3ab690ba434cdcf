package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/langportal/internal/database"
)

// AdminStore defines the destructive maintenance operations.
type AdminStore interface {
	ResetHistory() error
	FullReset() (*database.SeedResult, error)
}

type AdminController struct {
	store AdminStore
}

func NewAdminController(store AdminStore) *AdminController {
	return &AdminController{store: store}
}

// ResetHistory deletes every study session and review.
// POST /api/reset_history
func (ac *AdminController) ResetHistory(c *gin.Context) {
	if err := ac.store.ResetHistory(); err != nil {
		respondStoreError(c, err, "reset history")
		return
	}
	respondSuccess(c, "Study history has been reset", "", nil)
}

// FullReset empties every table and re-imports the seed data when a seed
// directory is configured.
// POST /api/full_reset
func (ac *AdminController) FullReset(c *gin.Context) {
	seeded, err := ac.store.FullReset()
	if err != nil {
		respondStoreError(c, err, "full reset")
		return
	}
	if seeded == nil {
		respondSuccess(c, "Database has been reset to initial state", "", nil)
		return
	}
	respondSuccess(c, "Database has been reset to initial state", "seeded", seeded)
}
