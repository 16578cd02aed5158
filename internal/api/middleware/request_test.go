package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(logger *logrus.Logger, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger))
	r.GET("/ping", func(c *gin.Context) {
		c.String(status, c.GetString(RequestIDKey))
	})
	return r
}

func TestRequestID_Generated(t *testing.T) {
	logger, _ := test.NewNullLogger()
	r := newTestEngine(logger, http.StatusOK)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.Body.String())
}

func TestRequestID_ReusesValidHeader(t *testing.T) {
	logger, _ := test.NewNullLogger()
	r := newTestEngine(logger, http.StatusOK)
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_ReplacesGarbageHeader(t *testing.T) {
	logger, _ := test.NewNullLogger()
	r := newTestEngine(logger, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.NotEqual(t, "<script>", rec.Header().Get(RequestIDHeader))
}

func TestRequestLogger_Levels(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  logrus.Level
	}{
		{"success", http.StatusOK, logrus.InfoLevel},
		{"client error", http.StatusNotFound, logrus.WarnLevel},
		{"server error", http.StatusBadGateway, logrus.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			r := newTestEngine(logger, tt.status)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, tt.status, entry.Data["status_code"])
			assert.Equal(t, "/ping", entry.Data["path"])
			assert.NotEmpty(t, entry.Data[RequestIDKey])
		})
	}
}
