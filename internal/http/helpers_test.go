package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/langportal/internal/apperr"
	"github.com/mrlokans/langportal/internal/pagination"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestParseIDParam_Valid(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "123"}}

	id, ok := parseIDParam(c, "id", ErrInvalidWordID)

	assert.True(t, ok)
	assert.Equal(t, uint(123), id)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseIDParam_Invalid(t *testing.T) {
	for _, value := range []string{"abc", "-1", "0", "1.5", ""} {
		t.Run(value, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: value}}

			id, ok := parseIDParam(c, "id", ErrInvalidSessionID)

			assert.False(t, ok)
			assert.Equal(t, uint(0), id)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, ErrInvalidSessionID, decodeError(t, w).Error)
		})
	}
}

func TestParseOptionalQueryID(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/", nil)

		id, ok := parseOptionalQueryID(c, "group_id", ErrInvalidGroupID)

		assert.True(t, ok)
		assert.Nil(t, id)
	})

	t.Run("valid", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/?group_id=7", nil)

		id, ok := parseOptionalQueryID(c, "group_id", ErrInvalidGroupID)

		assert.True(t, ok)
		require.NotNil(t, id)
		assert.Equal(t, uint(7), *id)
	})

	t.Run("malformed", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/?group_id=abc", nil)

		_, ok := parseOptionalQueryID(c, "group_id", ErrInvalidGroupID)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, ErrInvalidGroupID, decodeError(t, w).Error)
	})
}

func TestParsePage(t *testing.T) {
	t.Run("defaults to first page", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/", nil)

		page, ok := parsePage(c)

		assert.True(t, ok)
		assert.Equal(t, 1, page)
	})

	t.Run("rejects non-integer", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/?page=abc", nil)

		_, ok := parsePage(c)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, pagination.ErrCode, resp.Error)
		assert.Equal(t, "Page number must be an integer", resp.Message)
	})
}

func TestRespondStoreError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperr.Validation("Fields cannot be empty", "x"), http.StatusBadRequest, "Fields cannot be empty"},
		{"conflict", apperr.Conflict("Word already in group", "x"), http.StatusBadRequest, "Word already in group"},
		{"not found", apperr.NotFound("Word not found", "x"), http.StatusNotFound, "Word not found"},
		{"storage", apperr.Storage(errors.New("disk I/O error")), http.StatusInternalServerError, "Database error"},
		{"busy", apperr.Busy(errors.New("database is locked")), http.StatusServiceUnavailable, "Database busy"},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, "Database error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondStoreError(c, tt.err, "test")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Error)
		})
	}
}

func TestRespondStoreError_HidesStorageCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondStoreError(c, apperr.Storage(errors.New("FOREIGN KEY constraint failed")), "test")

	assert.NotContains(t, w.Body.String(), "FOREIGN KEY")
	assert.Equal(t, "An internal error occurred", decodeError(t, w).Message)
}

func TestRespondStoreError_BusySetsRetryAfter(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondStoreError(c, apperr.Busy(errors.New("database is locked")), "test")

	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRespondPage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondPage(c, "groups", &pagination.Result[string]{
		Page: pagination.Page{Number: 1, PerPage: 100, TotalPages: 1, Total: 0},
	})

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []any{}, body["items"])
	assert.Equal(t, float64(1), body["total_pages"])
	assert.Equal(t, float64(1), body["current_page"])
	assert.Equal(t, float64(0), body["total_groups"])
}

func TestDecodeObject(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantOK bool
		wantN  int
	}{
		{"empty body", "", true, 0},
		{"whitespace", "  \n", true, 0},
		{"object", `{"word_id": 1, "extra": "x"}`, true, 2},
		{"null", "null", true, 0},
		{"malformed", `{"word_id":`, false, 0},
		{"array", `[1, 2]`, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", strings.NewReader(tt.body))

			fields, ok := decodeObject(c)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Len(t, fields, tt.wantN)
				return
			}
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, ErrInvalidJSON, decodeError(t, w).Error)
		})
	}
}

func TestFieldID(t *testing.T) {
	fields := map[string]json.RawMessage{
		"ok":       json.RawMessage(`12`),
		"null":     json.RawMessage(`null`),
		"string":   json.RawMessage(`"12"`),
		"negative": json.RawMessage(`-3`),
		"zero":     json.RawMessage(`0`),
		"float":    json.RawMessage(`1.5`),
	}

	id, ok := fieldID(fields, "ok")
	assert.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, uint(12), *id)

	for _, key := range []string{"missing", "null"} {
		id, ok := fieldID(fields, key)
		assert.True(t, ok, key)
		assert.Nil(t, id, key)
	}

	for _, key := range []string{"string", "negative", "zero", "float"} {
		_, ok := fieldID(fields, key)
		assert.False(t, ok, key)
	}
}
