package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mrlokans/langportal/internal/logger"
)

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusServiceUnavailable, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			log, logs := observedLogger()
			router := gin.New()
			router.Use(RequestIDMiddleware(), RequestLogger(log))
			router.GET("/api/words/:id", func(c *gin.Context) { c.Status(tt.status) })

			req := httptest.NewRequest("GET", "/api/words/7", nil)
			req.Header.Set(headerRequestID, "req-1")
			router.ServeHTTP(httptest.NewRecorder(), req)

			entries := logs.FilterMessage("HTTP request").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)

			fields := entries[0].ContextMap()
			assert.Equal(t, "GET", fields["method"])
			assert.Equal(t, "/api/words/:id", fields["path"])
			assert.EqualValues(t, tt.status, fields["status"])
			assert.Equal(t, "req-1", fields["request_id"])
		})
	}
}

func TestRequestLogger_StorageErrorsUseRequestLogger(t *testing.T) {
	log, logs := observedLogger()
	router := gin.New()
	router.Use(RequestIDMiddleware(), RequestLogger(log))
	router.GET("/fail", func(c *gin.Context) {
		respondStoreError(c, assertError("disk full"), "test")
	})

	req := httptest.NewRequest("GET", "/fail", nil)
	req.Header.Set(headerRequestID, "req-2")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entries := logs.FilterMessage("Internal error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-2", entries[0].ContextMap()["request_id"])
}

type assertError string

func (e assertError) Error() string { return string(e) }
