package http

import "github.com/mrlokans/langportal/internal/logger"

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Stores
	WordStore      WordStore
	GroupStore     GroupStore
	StudyStore     StudyStore
	DashboardStore DashboardStore
	AdminStore     AdminStore

	// Health check target, usually *database.Database
	Database Pinger

	// Listings
	ItemsPerPage int

	// Frontend origins allowed by CORS; empty allows any origin
	AllowedOrigins []string

	Logger *logger.Logger

	// Application info
	Version string
}
