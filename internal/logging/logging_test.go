package logging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want int8
	}{
		{"debug", -1},
		{"INFO", 0},
		{" warn ", 1},
		{"error", 2},
		{"nonsense", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestGetReturnsSameInstance(t *testing.T) {
	l1 := Get(0)
	l2 := Get(-1)
	require.NotNil(t, l1)
	assert.Same(t, l1, l2)
}

func TestWithLoggerRoundTrip(t *testing.T) {
	lgr := Get(0)
	ctx := WithLogger(context.Background(), lgr)
	assert.Same(t, lgr, FromContext(ctx))

	// Attaching the same logger twice keeps the context unchanged.
	assert.Equal(t, ctx, WithLogger(ctx, lgr))
}

func TestFromContextFallsBackToNoop(t *testing.T) {
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	lgr := FromContext(context.Background())
	require.NotNil(t, lgr)
	assert.Same(t, &defaultNoopLogger, lgr)
}

func TestMiddlewareAttachesLogger(t *testing.T) {
	var sawLogger bool
	h := middleware.RequestID(Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawLogger = r.Context().Value(loggerContextKey{}).(*logr.Logger)
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.True(t, sawLogger)
}
