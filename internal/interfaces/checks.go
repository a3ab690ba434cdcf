package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/langportal/internal/database"
	"github.com/mrlokans/langportal/internal/database/admin"
	"github.com/mrlokans/langportal/internal/database/dashboard"
	"github.com/mrlokans/langportal/internal/database/groups"
	"github.com/mrlokans/langportal/internal/database/study"
	"github.com/mrlokans/langportal/internal/database/words"
	"github.com/mrlokans/langportal/internal/http"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// WordStore implementations
var _ http.WordStore = (*words.Repository)(nil)

// GroupStore implementations
var _ http.GroupStore = (*groups.Repository)(nil)

// StudyStore implementations
var _ http.StudyStore = (*study.Repository)(nil)

// DashboardStore implementations
var _ http.DashboardStore = (*dashboard.Repository)(nil)

// AdminStore implementations
var _ http.AdminStore = (*admin.Repository)(nil)

// =============================================================================
// Health
// =============================================================================

// Pinger implementations
var _ http.Pinger = (*database.Database)(nil)
