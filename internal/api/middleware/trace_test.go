package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceAttachesIDAndLogger(t *testing.T) {
	logBuf, base, restore := logger.SetupTestLogger(t)
	defer restore()

	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	Trace(base)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Len(t, traceID, 32)
	assert.Equal(t, traceID, rr.Header().Get(TraceIDHeader))

	entries, err := logBuf.GetLogEntries()
	require.NoError(t, err)
	var sawHandler, sawCompleted bool
	for _, entry := range entries {
		assert.Equal(t, traceID, entry["trace_id"])
		switch entry["msg"] {
		case "inside handler":
			sawHandler = true
		case "request completed":
			sawCompleted = true
			assert.Equal(t, float64(http.StatusTeapot), entry["status"])
		}
	}
	assert.True(t, sawHandler)
	assert.True(t, sawCompleted)
}

func TestTraceReusesChiRequestID(t *testing.T) {
	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
	})

	handler := chimiddleware.RequestID(Trace(nil)(next))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, traceID)
	assert.Equal(t, traceID, rr.Header().Get(TraceIDHeader))
}
