package http

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/langportal/internal/apperr"
	"github.com/mrlokans/langportal/internal/logger"
	"github.com/mrlokans/langportal/internal/pagination"
)

const (
	ErrInvalidJSON       = "Invalid JSON"
	ErrInvalidWordID     = "Invalid word ID"
	ErrInvalidGroupID    = "Invalid group ID"
	ErrInvalidSessionID  = "Invalid session ID"
	ErrInvalidActivityID = "Invalid activity ID"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`             // short code, e.g. "Word not found"
	Message string `json:"message,omitempty"` // human readable detail
}

// PageResponse is the paginated listing envelope. The total key is named
// after the listed resource (total_words, total_groups, ...).
type PageResponse map[string]any

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: code, Message: message})
}

// respondStoreError translates a repository error into a response. Causes of
// storage errors are logged but not exposed to the client.
func respondStoreError(c *gin.Context, err error, context string) {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Storage(err)
	}

	switch {
	case e.Kind == apperr.KindValidation, e.Kind == apperr.KindConflict:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: e.Code, Message: e.Message})
	case e.Kind == apperr.KindNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: e.Code, Message: e.Message})
	case e.Retryable():
		requestLogger(c).Warn("Database busy", "context", context, "error", e.Err)
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: e.Code, Message: e.Message})
	default:
		requestLogger(c).Error("Internal error", "context", context, "error", e.Err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: e.Code, Message: e.Message})
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK mutation response. The resource, when given,
// is added under key.
func respondSuccess(c *gin.Context, message, key string, resource any) {
	body := gin.H{"success": true, "message": message}
	if key != "" {
		body[key] = resource
	}
	c.JSON(http.StatusOK, body)
}

// respondPage sends one page of a listing.
func respondPage[T any](c *gin.Context, noun string, result *pagination.Result[T]) {
	items := result.Items
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, PageResponse{
		"items":          items,
		"total_pages":    result.Page.TotalPages,
		"current_page":   result.Page.Number,
		"total_" + noun: result.Page.Total,
	})
}

// --- Parameter Parsing ---

// parseIDParam extracts a positive integer ID from URL parameters.
// Responds with a 400 error carrying code and returns 0, false on failure.
func parseIDParam(c *gin.Context, paramName, code string) (uint, bool) {
	id, ok := parseID(c.Param(paramName))
	if !ok {
		respondBadRequest(c, code, "ID must be a positive integer")
		return 0, false
	}
	return id, true
}

// parseOptionalQueryID reads an optional ID filter from the query string.
// An absent parameter yields nil.
func parseOptionalQueryID(c *gin.Context, paramName, code string) (*uint, bool) {
	raw := strings.TrimSpace(c.Query(paramName))
	if raw == "" {
		return nil, true
	}
	id, ok := parseID(raw)
	if !ok {
		respondBadRequest(c, code, "ID must be a positive integer")
		return nil, false
	}
	return &id, true
}

// parsePage reads the page query parameter.
func parsePage(c *gin.Context) (int, bool) {
	page, err := pagination.Parse(c.Query("page"))
	if err != nil {
		respondStoreError(c, err, "parse page")
		return 0, false
	}
	return page, true
}

// decodeObject reads the request body as a JSON object so that handlers can
// report each bad field on its own. An empty body is an empty object.
func decodeObject(c *gin.Context) (map[string]json.RawMessage, bool) {
	fields := map[string]json.RawMessage{}
	if c.Request.Body == nil {
		return fields, true
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, ErrInvalidJSON, "Could not read request body")
		return nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return fields, true
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		respondBadRequest(c, ErrInvalidJSON, "Request body must be a JSON object")
		return nil, false
	}
	return fields, true
}

// fieldID reads a positive integer field. Absent and null fields yield nil.
func fieldID(fields map[string]json.RawMessage, key string) (*uint, bool) {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return nil, true
	}
	var id uint64
	if err := json.Unmarshal(raw, &id); err != nil || id == 0 || id > math.MaxUint32 {
		return nil, false
	}
	v := uint(id)
	return &v, true
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// requestLogger returns the request-scoped logger set by RequestLogger.
func requestLogger(c *gin.Context) *logger.Logger {
	if v, ok := c.Get(contextKeyLogger); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return logger.Nop()
}
