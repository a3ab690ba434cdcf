package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/langportal/internal/config"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// API routes are mounted under /api; /health and /ping sit at the root.
func NewRouter(cfg RouterConfig) *gin.Engine {
	perPage := cfg.ItemsPerPage
	if perPage <= 0 {
		perPage = config.DefaultItemsPerPage
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogger(cfg.Logger))
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	healthController := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", healthController.Status)
	router.GET("/ping", Ping)

	api := router.Group("/api")

	if cfg.WordStore != nil {
		wordsController := NewWordsController(cfg.WordStore, perPage)
		api.GET("/words", wordsController.ListWords)
		api.GET("/words/search", wordsController.SearchWords)
		api.GET("/words/:id", wordsController.GetWord)
		api.POST("/words", wordsController.CreateWord)
		api.PUT("/words/:id", wordsController.UpdateWord)
		api.DELETE("/words/:id", wordsController.DeleteWord)
	}

	if cfg.GroupStore != nil {
		groupsController := NewGroupsController(cfg.GroupStore, perPage)
		api.GET("/groups", groupsController.ListGroups)
		api.POST("/groups", groupsController.CreateGroup)
		api.GET("/groups/:id", groupsController.GetGroup)
		api.DELETE("/groups/:id", groupsController.DeleteGroup)
		api.GET("/groups/:id/words", groupsController.ListGroupWords)
		api.POST("/groups/:id/words", groupsController.AddWord)
		api.DELETE("/groups/:id/words/:word_id", groupsController.RemoveWord)
	}

	if cfg.StudyStore != nil {
		studyController := NewStudyController(cfg.StudyStore, perPage)
		api.GET("/study_activities", studyController.ListActivities)
		api.GET("/study_activities/:id", studyController.GetActivity)
		api.GET("/groups/:id/study_sessions", studyController.ListGroupSessions)
		api.GET("/study_sessions", studyController.ListSessions)
		api.POST("/study_sessions", studyController.CreateSession)
		api.GET("/study_sessions/:id", studyController.GetSession)
		api.POST("/study_sessions/:id/complete", studyController.CompleteSession)
		api.GET("/study_sessions/:id/words", studyController.SessionWords)
		api.GET("/study_sessions/:id/stats", studyController.SessionStats)
		api.POST("/study_sessions/:id/words/:word_id/review", studyController.RecordReview)
	}

	if cfg.DashboardStore != nil {
		dashboardController := NewDashboardController(cfg.DashboardStore)
		api.GET("/dashboard/last_study_session", dashboardController.LastStudySession)
		api.GET("/dashboard/study_progress", dashboardController.StudyProgress)
		api.GET("/dashboard/quick_stats", dashboardController.QuickStats)
	}

	if cfg.AdminStore != nil {
		adminController := NewAdminController(cfg.AdminStore)
		api.POST("/reset_history", adminController.ResetHistory)
		api.POST("/full_reset", adminController.FullReset)
	}

	return router
}
