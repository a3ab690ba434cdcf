package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/langportal/internal/database/dashboard"
)

// DashboardStore defines the read-only aggregates shown on the dashboard.
type DashboardStore interface {
	LastSession() (*dashboard.LastSession, error)
	StudyProgress() (*dashboard.StudyProgress, error)
	QuickStats() (*dashboard.QuickStats, error)
}

type DashboardController struct {
	store DashboardStore
}

func NewDashboardController(store DashboardStore) *DashboardController {
	return &DashboardController{store: store}
}

// LastStudySession answers JSON null when nothing has been studied yet.
// GET /api/dashboard/last_study_session
func (dc *DashboardController) LastStudySession(c *gin.Context) {
	last, err := dc.store.LastSession()
	if err != nil {
		respondStoreError(c, err, "last study session")
		return
	}
	c.JSON(http.StatusOK, last)
}

// GET /api/dashboard/study_progress
func (dc *DashboardController) StudyProgress(c *gin.Context) {
	progress, err := dc.store.StudyProgress()
	if err != nil {
		respondStoreError(c, err, "study progress")
		return
	}
	c.JSON(http.StatusOK, progress)
}

// GET /api/dashboard/quick_stats
func (dc *DashboardController) QuickStats(c *gin.Context) {
	stats, err := dc.store.QuickStats()
	if err != nil {
		respondStoreError(c, err, "quick stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
