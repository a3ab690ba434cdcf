// Package study provides database operations for study activities, study
// sessions and word reviews.
//
// This package implements the StudyStore interface defined in internal/http/study.go.
//
// A session is pending until CompleteSession sets completed_at. The update is
// conditioned on completed_at still being NULL, so a session completes at most
// once even when two requests race.
//
// # Interface Implementation
//
//	var _ http.StudyStore = (*Repository)(nil)
//
// # Usage
//
//	repo := study.NewRepository(db, database.SystemClock, time.UTC)
//	session, err := repo.CreateSession(study.CreateInput{GroupID: &groupID, ActivityID: &activityID})
//	_, err = repo.RecordReview(session.ID, wordID, true)
//	session, err = repo.CompleteSession(session.ID)
package study

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/langportal/internal/apperr"
	"github.com/mrlokans/langportal/internal/database"
	"github.com/mrlokans/langportal/internal/entities"
	"github.com/mrlokans/langportal/internal/pagination"
)

const (
	ErrActivityNotFound  = "Study activity not found"
	ErrSessionNotFound   = "Session not found"
	ErrGroupNotFound     = "Group not found"
	ErrAlreadyCompleted  = "Session already completed"
	ErrMissingFields     = "Missing required fields"
	ErrMissingGroupID    = "Missing required field: group_id"
	ErrMissingActivityID = "Missing required field: activity_id"
	ErrInvalidGroupID    = "Invalid group ID"
	ErrInvalidActivityID = "Invalid activity ID"
	ErrInvalidDate       = "Invalid date"
)

const dateLayout = "2006-01-02"

// Session is a study session joined with its group and activity names.
// EndTime is nil while the session is pending.
type Session struct {
	ID               uint       `json:"id"`
	GroupID          uint       `json:"group_id"`
	GroupName        string     `json:"group_name"`
	ActivityID       uint       `json:"activity_id"`
	ActivityName     string     `json:"activity_name"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
	ReviewItemsCount int64      `json:"review_items_count"`
}

// SessionFilter narrows ListSessions. Date is "today" or YYYY-MM-DD; From and
// To are inclusive YYYY-MM-DD bounds. Days are interpreted in the repository's
// location.
type SessionFilter struct {
	GroupID    *uint
	ActivityID *uint
	Date       string
	From       string
	To         string
}

type CreateInput struct {
	GroupID    *uint `json:"group_id"`
	ActivityID *uint `json:"activity_id"`
}

type Review struct {
	ID        uint      `json:"id"`
	SessionID uint      `json:"session_id"`
	WordID    uint      `json:"word_id"`
	Correct   bool      `json:"correct"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionWord is a word reviewed during a session. Correct is the result of
// the most recent review.
type SessionWord struct {
	ID            uint   `json:"id"`
	Spanish       string `json:"spanish"`
	Pronunciation string `json:"pronunciation"`
	English       string `json:"english"`
	Reviewed      bool   `json:"reviewed"`
	Correct       bool   `json:"correct"`
	ReviewCount   int64  `json:"review_count"`
	CorrectCount  int64  `json:"correct_count"`
	WrongCount    int64  `json:"wrong_count"`
}

type Stats struct {
	SessionID    uint    `json:"session_id"`
	TotalWords   int64   `json:"total_words"`
	CorrectCount int64   `json:"correct_count"`
	WrongCount   int64   `json:"wrong_count"`
	Accuracy     float64 `json:"accuracy"`
}

// Repository handles all study database operations.
type Repository struct {
	db  *gorm.DB
	now database.Clock
	loc *time.Location
}

// NewRepository creates a new study repository. now stamps new sessions and
// reviews; loc decides where calendar days start for date filters.
func NewRepository(db *gorm.DB, now database.Clock, loc *time.Location) *Repository {
	if now == nil {
		now = database.SystemClock
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{db: db, now: now, loc: loc}
}

// ListActivities returns every study activity ordered by id.
func (r *Repository) ListActivities() ([]entities.StudyActivity, error) {
	activities := []entities.StudyActivity{}
	if err := r.db.Order("id").Find(&activities).Error; err != nil {
		return nil, database.Classify(err)
	}
	return activities, nil
}

// GetActivity retrieves a study activity by ID.
func (r *Repository) GetActivity(id uint) (*entities.StudyActivity, error) {
	var activity entities.StudyActivity
	err := r.db.First(&activity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(ErrActivityNotFound, fmt.Sprintf("Study activity with ID %d does not exist", id))
	}
	if err != nil {
		return nil, database.Classify(err)
	}
	return &activity, nil
}

// ListSessions returns one page of sessions, newest first.
func (r *Repository) ListSessions(filter SessionFilter, page, perPage int) (*pagination.Result[Session], error) {
	scope, err := r.filterScope(filter)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := r.db.Table("study_sessions AS s").Scopes(scope).Count(&total).Error; err != nil {
		return nil, database.Classify(err)
	}

	p, err := pagination.New(page, total, perPage)
	if err != nil {
		return nil, err
	}

	sessions := []Session{}
	err = sessionQuery(r.db).
		Scopes(scope).
		Order("s.created_at DESC, s.id DESC").
		Offset(p.Offset()).
		Limit(p.Limit()).
		Scan(&sessions).Error
	if err != nil {
		return nil, database.Classify(err)
	}
	return &pagination.Result[Session]{Items: sessions, Page: p}, nil
}

// ListGroupSessions lists the sessions of one group, newest first.
func (r *Repository) ListGroupSessions(groupID uint, page, perPage int) (*pagination.Result[Session], error) {
	var groups int64
	if err := r.db.Model(&entities.Group{}).Where("id = ?", groupID).Count(&groups).Error; err != nil {
		return nil, database.Classify(err)
	}
	if groups == 0 {
		return nil, apperr.NotFound(ErrGroupNotFound, fmt.Sprintf("Group with ID %d does not exist", groupID))
	}
	return r.ListSessions(SessionFilter{GroupID: &groupID}, page, perPage)
}

// GetSession retrieves a session with its names and review count.
func (r *Repository) GetSession(id uint) (*Session, error) {
	return findSession(r.db, id)
}

// CreateSession starts a pending session. A missing group is reported before
// a missing activity.
func (r *Repository) CreateSession(in CreateInput) (*Session, error) {
	switch {
	case in.GroupID == nil && in.ActivityID == nil:
		return nil, apperr.Validation(ErrMissingFields, "group_id and activity_id are required")
	case in.GroupID == nil:
		return nil, apperr.Validation(ErrMissingGroupID, "group_id is required")
	case in.ActivityID == nil:
		return nil, apperr.Validation(ErrMissingActivityID, "activity_id is required")
	}

	var session *Session
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&entities.Group{}).Where("id = ?", *in.GroupID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return apperr.Validation(ErrInvalidGroupID, fmt.Sprintf("Group with ID %d does not exist", *in.GroupID))
		}

		if err := tx.Model(&entities.StudyActivity{}).Where("id = ?", *in.ActivityID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return apperr.Validation(ErrInvalidActivityID, fmt.Sprintf("Study activity with ID %d does not exist", *in.ActivityID))
		}

		row := &entities.StudySession{
			GroupID:         *in.GroupID,
			StudyActivityID: *in.ActivityID,
			CreatedAt:       r.now().UTC(),
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}

		var err error
		session, err = findSession(tx, row.ID)
		return err
	})
	if err != nil {
		return nil, database.Classify(err)
	}
	return session, nil
}

// RecordReview appends one review to a session. Unknown sessions or words are
// rejected by the foreign keys and surface as storage errors.
func (r *Repository) RecordReview(sessionID, wordID uint, correct bool) (*Review, error) {
	item := &entities.WordReviewItem{
		WordID:         wordID,
		StudySessionID: sessionID,
		Correct:        correct,
		CreatedAt:      r.now().UTC(),
	}
	if err := r.db.Create(item).Error; err != nil {
		return nil, database.Classify(err)
	}
	return &Review{
		ID:        item.ID,
		SessionID: item.StudySessionID,
		WordID:    item.WordID,
		Correct:   item.Correct,
		CreatedAt: item.CreatedAt,
	}, nil
}

// CompleteSession marks a pending session completed. Completing twice is a
// conflict and leaves the first completed_at untouched.
func (r *Repository) CompleteSession(id uint) (*Session, error) {
	var session *Session
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := findSession(tx, id); err != nil {
			return err
		}

		result := tx.Model(&entities.StudySession{}).
			Where("id = ? AND completed_at IS NULL", id).
			UpdateColumn("completed_at", r.now().UTC())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.Conflict(ErrAlreadyCompleted, fmt.Sprintf("Session %d has already been completed", id))
		}

		var err error
		session, err = findSession(tx, id)
		return err
	})
	if err != nil {
		return nil, database.Classify(err)
	}
	return session, nil
}

// SessionWords returns one page of the distinct words reviewed in a session,
// ordered by word id.
func (r *Repository) SessionWords(id uint, page, perPage int) (*pagination.Result[SessionWord], error) {
	if _, err := findSession(r.db, id); err != nil {
		return nil, err
	}

	var total int64
	err := r.db.Model(&entities.WordReviewItem{}).
		Where("study_session_id = ?", id).
		Distinct("word_id").
		Count(&total).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	p, err := pagination.New(page, total, perPage)
	if err != nil {
		return nil, err
	}

	words := []SessionWord{}
	err = r.db.Table("word_review_items AS r").
		Select("w.id, w.spanish, w.pronunciation, w.english, "+
			"COUNT(r.id) AS review_count, "+
			"SUM(CASE WHEN r.correct THEN 1 ELSE 0 END) AS correct_count, "+
			"SUM(CASE WHEN r.correct THEN 0 ELSE 1 END) AS wrong_count").
		Joins("JOIN words w ON w.id = r.word_id").
		Where("r.study_session_id = ?", id).
		Group("w.id, w.spanish, w.pronunciation, w.english").
		Order("w.id").
		Offset(p.Offset()).
		Limit(p.Limit()).
		Scan(&words).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	if len(words) > 0 {
		ids := make([]uint, len(words))
		for i, w := range words {
			ids[i] = w.ID
		}

		var reviews []entities.WordReviewItem
		err = r.db.Where("study_session_id = ? AND word_id IN ?", id, ids).
			Order("created_at, id").
			Find(&reviews).Error
		if err != nil {
			return nil, database.Classify(err)
		}

		last := make(map[uint]bool, len(words))
		for _, review := range reviews {
			last[review.WordID] = review.Correct
		}
		for i := range words {
			words[i].Reviewed = true
			words[i].Correct = last[words[i].ID]
		}
	}

	return &pagination.Result[SessionWord]{Items: words, Page: p}, nil
}

// SessionStats summarises the reviews of one session.
func (r *Repository) SessionStats(id uint) (*Stats, error) {
	if _, err := findSession(r.db, id); err != nil {
		return nil, err
	}

	var counts struct {
		Total   int64
		Correct int64
	}
	err := r.db.Model(&entities.WordReviewItem{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN correct THEN 1 ELSE 0 END), 0) AS correct").
		Where("study_session_id = ?", id).
		Scan(&counts).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	return &Stats{
		SessionID:    id,
		TotalWords:   counts.Total,
		CorrectCount: counts.Correct,
		WrongCount:   counts.Total - counts.Correct,
		Accuracy:     Accuracy(counts.Correct, counts.Total),
	}, nil
}

// Accuracy is 100*correct/total rounded to two decimals, or 0 with no reviews.
func Accuracy(correct, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(correct)*10000/float64(total)) / 100
}

type bound struct {
	op string
	at time.Time
}

func (r *Repository) filterScope(f SessionFilter) (func(*gorm.DB) *gorm.DB, error) {
	var bounds []bound
	addDay := func(raw string, lower, upper bool) error {
		start, err := r.dayStart(raw)
		if err != nil {
			return err
		}
		if lower {
			bounds = append(bounds, bound{">=", start})
		}
		if upper {
			bounds = append(bounds, bound{"<", start.AddDate(0, 0, 1)})
		}
		return nil
	}

	if f.Date != "" {
		if err := addDay(f.Date, true, true); err != nil {
			return nil, err
		}
	}
	if f.From != "" {
		if err := addDay(f.From, true, false); err != nil {
			return nil, err
		}
	}
	if f.To != "" {
		if err := addDay(f.To, false, true); err != nil {
			return nil, err
		}
	}

	return func(tx *gorm.DB) *gorm.DB {
		if f.GroupID != nil {
			tx = tx.Where("s.group_id = ?", *f.GroupID)
		}
		if f.ActivityID != nil {
			tx = tx.Where("s.study_activity_id = ?", *f.ActivityID)
		}
		for _, b := range bounds {
			tx = tx.Where("s.created_at "+b.op+" ?", b.at.UTC())
		}
		return tx
	}, nil
}

// dayStart resolves "today" or a YYYY-MM-DD date to midnight in r.loc.
func (r *Repository) dayStart(raw string) (time.Time, error) {
	if raw == "today" {
		now := r.now().In(r.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.loc), nil
	}
	day, err := time.ParseInLocation(dateLayout, raw, r.loc)
	if err != nil {
		return time.Time{}, apperr.Validation(ErrInvalidDate,
			fmt.Sprintf("%q is not a valid date, expected YYYY-MM-DD or today", raw))
	}
	return day, nil
}

func sessionQuery(db *gorm.DB) *gorm.DB {
	return db.Table("study_sessions AS s").
		Select("s.id, s.group_id, g.name AS group_name, " +
			"s.study_activity_id AS activity_id, a.name AS activity_name, " +
			"s.created_at AS start_time, s.completed_at AS end_time, " +
			"(SELECT COUNT(*) FROM word_review_items r WHERE r.study_session_id = s.id) AS review_items_count").
		Joins("JOIN groups g ON g.id = s.group_id").
		Joins("JOIN study_activities a ON a.id = s.study_activity_id")
}

func findSession(db *gorm.DB, id uint) (*Session, error) {
	var sessions []Session
	if err := sessionQuery(db).Where("s.id = ?", id).Limit(1).Scan(&sessions).Error; err != nil {
		return nil, database.Classify(err)
	}
	if len(sessions) == 0 {
		return nil, apperr.NotFound(ErrSessionNotFound, fmt.Sprintf("Session with ID %d does not exist", id))
	}
	return &sessions[0], nil
}
