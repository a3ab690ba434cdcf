// Package dashboard provides read-only aggregates over study history.
//
// This package implements the DashboardStore interface defined in internal/http/dashboard.go.
//
// # Interface Implementation
//
//	var _ http.DashboardStore = (*Repository)(nil)
//
// # Usage
//
//	repo := dashboard.NewRepository(db, database.SystemClock, cfg.Study.Location())
//	stats, err := repo.QuickStats()
package dashboard

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/langportal/internal/database"
	"github.com/mrlokans/langportal/internal/database/study"
	"github.com/mrlokans/langportal/internal/entities"
)

type LastSession struct {
	ID           uint       `json:"id"`
	ActivityID   uint       `json:"activity_id"`
	ActivityName string     `json:"activity_name"`
	GroupID      uint       `json:"group_id"`
	GroupName    string     `json:"group_name"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

type StudyProgress struct {
	TotalWords        int64   `json:"total_words"`
	TotalWordsStudied int64   `json:"total_words_studied"`
	MasteryPercentage float64 `json:"mastery_percentage"`
}

type QuickStats struct {
	TotalSessions     int64   `json:"total_sessions"`
	CurrentStreak     int     `json:"current_streak"`
	SuccessRate       float64 `json:"success_rate"`
	TotalActiveGroups int64   `json:"total_active_groups"`
}

// Repository computes dashboard aggregates.
type Repository struct {
	db  *gorm.DB
	now database.Clock
	loc *time.Location
}

// NewRepository creates a new dashboard repository. loc decides which calendar
// day a session belongs to when computing the streak.
func NewRepository(db *gorm.DB, now database.Clock, loc *time.Location) *Repository {
	if now == nil {
		now = database.SystemClock
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{db: db, now: now, loc: loc}
}

// LastSession returns the most recently started session, or nil when there
// are none.
func (r *Repository) LastSession() (*LastSession, error) {
	var sessions []LastSession
	err := r.db.Table("study_sessions AS s").
		Select("s.id, s.study_activity_id AS activity_id, a.name AS activity_name, " +
			"s.group_id, g.name AS group_name, s.created_at, s.completed_at").
		Joins("JOIN study_activities a ON a.id = s.study_activity_id").
		Joins("JOIN groups g ON g.id = s.group_id").
		Order("s.created_at DESC, s.id DESC").
		Limit(1).
		Scan(&sessions).Error
	if err != nil {
		return nil, database.Classify(err)
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

func (r *Repository) StudyProgress() (*StudyProgress, error) {
	var progress StudyProgress
	if err := r.db.Model(&entities.Word{}).Count(&progress.TotalWords).Error; err != nil {
		return nil, database.Classify(err)
	}
	err := r.db.Model(&entities.WordReviewItem{}).Distinct("word_id").Count(&progress.TotalWordsStudied).Error
	if err != nil {
		return nil, database.Classify(err)
	}
	progress.MasteryPercentage = study.Accuracy(progress.TotalWordsStudied, progress.TotalWords)
	return &progress, nil
}

func (r *Repository) QuickStats() (*QuickStats, error) {
	var stats QuickStats
	if err := r.db.Model(&entities.StudySession{}).Count(&stats.TotalSessions).Error; err != nil {
		return nil, database.Classify(err)
	}

	err := r.db.Model(&entities.StudySession{}).Distinct("group_id").Count(&stats.TotalActiveGroups).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	var reviews struct {
		Total   int64
		Correct int64
	}
	err = r.db.Model(&entities.WordReviewItem{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN correct THEN 1 ELSE 0 END), 0) AS correct").
		Scan(&reviews).Error
	if err != nil {
		return nil, database.Classify(err)
	}
	stats.SuccessRate = study.Accuracy(reviews.Correct, reviews.Total)

	streak, err := r.currentStreak()
	if err != nil {
		return nil, err
	}
	stats.CurrentStreak = streak

	return &stats, nil
}

// currentStreak streams session start times newest first and stops reading at
// the first gap, so only the rows inside the streak are fetched.
func (r *Repository) currentStreak() (int, error) {
	rows, err := r.db.Model(&entities.StudySession{}).
		Select("created_at").
		Order("created_at DESC").
		Rows()
	if err != nil {
		return 0, database.Classify(err)
	}
	defer rows.Close()

	counter := newStreakCounter(r.now(), r.loc)
	for rows.Next() {
		var createdAt time.Time
		if err := rows.Scan(&createdAt); err != nil {
			return 0, database.Classify(err)
		}
		if !counter.observe(createdAt) {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return 0, database.Classify(err)
	}
	return counter.count, nil
}
