package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/langportal/internal/database/study"
	"github.com/mrlokans/langportal/internal/entities"
	"github.com/mrlokans/langportal/internal/pagination"
)

const ErrInvalidCorrect = "Invalid correct value"

// StudyStore defines database operations for study activities, sessions and
// word reviews.
type StudyStore interface {
	ListActivities() ([]entities.StudyActivity, error)
	GetActivity(id uint) (*entities.StudyActivity, error)
	ListSessions(filter study.SessionFilter, page, perPage int) (*pagination.Result[study.Session], error)
	ListGroupSessions(groupID uint, page, perPage int) (*pagination.Result[study.Session], error)
	GetSession(id uint) (*study.Session, error)
	CreateSession(in study.CreateInput) (*study.Session, error)
	RecordReview(sessionID, wordID uint, correct bool) (*study.Review, error)
	CompleteSession(id uint) (*study.Session, error)
	SessionWords(id uint, page, perPage int) (*pagination.Result[study.SessionWord], error)
	SessionStats(id uint) (*study.Stats, error)
}

type StudyController struct {
	store   StudyStore
	perPage int
}

func NewStudyController(store StudyStore, perPage int) *StudyController {
	return &StudyController{store: store, perPage: perPage}
}

// GET /api/study_activities
func (sc *StudyController) ListActivities(c *gin.Context) {
	activities, err := sc.store.ListActivities()
	if err != nil {
		respondStoreError(c, err, "list study activities")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": activities})
}

// GET /api/study_activities/:id
func (sc *StudyController) GetActivity(c *gin.Context) {
	id, ok := parseIDParam(c, "id", ErrInvalidActivityID)
	if !ok {
		return
	}

	activity, err := sc.store.GetActivity(id)
	if err != nil {
		respondStoreError(c, err, "get study activity")
		return
	}
	c.JSON(http.StatusOK, activity)
}

// ListSessions returns a page of sessions, newest first.
// GET /api/study_sessions?page=&group_id=&activity_id=&date=&from=&to=
func (sc *StudyController) ListSessions(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	groupID, ok := parseOptionalQueryID(c, "group_id", ErrInvalidGroupID)
	if !ok {
		return
	}
	activityID, ok := parseOptionalQueryID(c, "activity_id", ErrInvalidActivityID)
	if !ok {
		return
	}

	filter := study.SessionFilter{
		GroupID:    groupID,
		ActivityID: activityID,
		Date:       c.Query("date"),
		From:       c.Query("from"),
		To:         c.Query("to"),
	}
	result, err := sc.store.ListSessions(filter, page, sc.perPage)
	if err != nil {
		respondStoreError(c, err, "list study sessions")
		return
	}
	respondPage(c, "sessions", result)
}

// GET /api/groups/:id/study_sessions?page=
func (sc *StudyController) ListGroupSessions(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id", ErrInvalidGroupID)
	if !ok {
		return
	}
	page, ok := parsePage(c)
	if !ok {
		return
	}

	result, err := sc.store.ListGroupSessions(groupID, page, sc.perPage)
	if err != nil {
		respondStoreError(c, err, "list group study sessions")
		return
	}
	respondPage(c, "sessions", result)
}

// POST /api/study_sessions  {"group_id": 1, "activity_id": 1}
func (sc *StudyController) CreateSession(c *gin.Context) {
	fields, ok := decodeObject(c)
	if !ok {
		return
	}
	groupID, ok := fieldID(fields, "group_id")
	if !ok {
		respondBadRequest(c, ErrInvalidGroupID, "group_id must be a positive integer")
		return
	}
	activityID, ok := fieldID(fields, "activity_id")
	if !ok {
		respondBadRequest(c, ErrInvalidActivityID, "activity_id must be a positive integer")
		return
	}

	session, err := sc.store.CreateSession(study.CreateInput{GroupID: groupID, ActivityID: activityID})
	if err != nil {
		respondStoreError(c, err, "create study session")
		return
	}
	respondSuccess(c, "Study session created", "session", session)
}

// GET /api/study_sessions/:id
func (sc *StudyController) GetSession(c *gin.Context) {
	id, ok := parseIDParam(c, "id", ErrInvalidSessionID)
	if !ok {
		return
	}

	session, err := sc.store.GetSession(id)
	if err != nil {
		respondStoreError(c, err, "get study session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// CompleteSession stamps completed_at. A session completes at most once.
// POST /api/study_sessions/:id/complete
func (sc *StudyController) CompleteSession(c *gin.Context) {
	id, ok := parseIDParam(c, "id", ErrInvalidSessionID)
	if !ok {
		return
	}

	session, err := sc.store.CompleteSession(id)
	if err != nil {
		respondStoreError(c, err, "complete study session")
		return
	}
	respondSuccess(c, "Study session completed", "session", session)
}

// GET /api/study_sessions/:id/words?page=
func (sc *StudyController) SessionWords(c *gin.Context) {
	id, ok := parseIDParam(c, "id", ErrInvalidSessionID)
	if !ok {
		return
	}
	page, ok := parsePage(c)
	if !ok {
		return
	}

	result, err := sc.store.SessionWords(id, page, sc.perPage)
	if err != nil {
		respondStoreError(c, err, "list session words")
		return
	}
	respondPage(c, "words", result)
}

// GET /api/study_sessions/:id/stats
func (sc *StudyController) SessionStats(c *gin.Context) {
	id, ok := parseIDParam(c, "id", ErrInvalidSessionID)
	if !ok {
		return
	}

	stats, err := sc.store.SessionStats(id)
	if err != nil {
		respondStoreError(c, err, "get session stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RecordReview stores one answer. "correct" defaults to false when omitted
// or null; any other non-boolean value is rejected before writing.
// POST /api/study_sessions/:id/words/:word_id/review  {"correct": true}
func (sc *StudyController) RecordReview(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id", ErrInvalidSessionID)
	if !ok {
		return
	}
	wordID, ok := parseIDParam(c, "word_id", ErrInvalidWordID)
	if !ok {
		return
	}
	fields, ok := decodeObject(c)
	if !ok {
		return
	}

	var correct bool
	if raw, ok := fields["correct"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &correct); err != nil {
			respondBadRequest(c, ErrInvalidCorrect, "correct must be a boolean")
			return
		}
	}

	review, err := sc.store.RecordReview(sessionID, wordID, correct)
	if err != nil {
		respondStoreError(c, err, "record word review")
		return
	}
	respondSuccess(c, "Word review recorded successfully", "review", review)
}
