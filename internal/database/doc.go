// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres), migrations
//	├── errors.go        # Driver error classification, LIKE escaping
//	├── seed.go          # JSON seed import
//	├── words/           # Word CRUD and search
//	├── groups/          # Groups and word memberships
//	├── study/           # Study activities, sessions and reviews
//	├── dashboard/       # Read-only aggregates and the study streak
//	└── admin/           # History and full resets
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	wordsRepo := words.NewRepository(db.DB, cfg.API.SearchMaxLength)
//	groupsRepo := groups.NewRepository(db.DB)
//	studyRepo := study.NewRepository(db.DB, database.SystemClock, cfg.Study.Location())
//
//	word, err := wordsRepo.GetWord(123)
//
// # Errors
//
// Repositories return *apperr.Error values. Anything coming from the driver
// goes through Classify, which separates retryable lock contention (busy)
// from other storage failures.
//
// # Interface Implementations
//
//   - words.Repository: implements http.WordStore
//   - groups.Repository: implements http.GroupStore
//   - study.Repository: implements http.StudyStore
//   - dashboard.Repository: implements http.DashboardStore
//   - admin.Repository: implements http.AdminStore
//   - Database: implements http.Pinger
//
// The compile-time checks live in internal/interfaces/checks.go.
package database
