// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help code agents understand
// extension points and how to implement new functionality.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - WordStore: Word CRUD and search (internal/http/words.go)
//   - GroupStore: Groups and word membership (internal/http/groups.go)
//   - StudyStore: Activities, sessions and reviews (internal/http/study.go)
//   - DashboardStore: Read-only aggregates (internal/http/dashboard.go)
//   - AdminStore: History and full resets (internal/http/admin.go)
//
// ## Health
//
//   - Pinger: Database reachability for /health (internal/http/health.go)
//
// # Adding a New Endpoint Group
//
// To expose a new data domain (e.g., word tags):
//
//  1. Create sub-package: internal/database/tags/
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//     Return *apperr.Error values and pass driver errors through
//     database.Classify so the HTTP layer can pick the status code.
//
//  2. Define the store interface next to its controller in internal/http/:
//
//     type TagStore interface {
//         ListTags(page, perPage int) (*pagination.Result[entities.Tag], error)
//     }
//
//     type TagsController struct {
//         store   TagStore
//         perPage int
//     }
//
//  3. Add the store to RouterConfig and register routes in router.go
//
//  4. Wire the repository in internal/entrypoint/entrypoint.go
//
//  5. Add compile-time check to checks.go:
//
//     var _ http.TagStore = (*tags.Repository)(nil)
//
// # Adding a Seed Source
//
// Seed files are plain JSON read by database.SeedDir. A new word list is a new
// <group_slug>.json file in the seed directory; no code change is needed.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
