package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/sitenav/internal/db"
	"github.com/ziadkadry99/sitenav/internal/nav"
	"github.com/ziadkadry99/sitenav/internal/search"
	"github.com/ziadkadry99/sitenav/internal/session"
	"github.com/ziadkadry99/sitenav/internal/site"
	"github.com/ziadkadry99/sitenav/internal/storage"
)

type stubSearcher struct{}

func (stubSearcher) FetchSuggestions(context.Context, string, search.Context) ([]search.Suggestion, error) {
	return []search.Suggestion{{Highlighted: "{pipette}"}}, nil
}

func (stubSearcher) SubmitSearch(context.Context, string, string, search.Context) (string, bool, error) {
	return "", false, nil
}

type stubNav struct{}

func (stubNav) Assemble(context.Context, session.Session, string) (*nav.Header, error) {
	return nil, nav.ErrFragmentUnavailable
}

func newTestServer(t *testing.T, cfg Config) (*Server, storage.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	store := storage.NewSQL(database)
	return New(cfg, Deps{DB: database, Store: store, Searcher: stubSearcher{}, Nav: stubNav{}}), store
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	database, err := db.OpenMemory()
	require.NoError(t, err)
	database.Close()
	srv := New(Config{}, Deps{DB: database, Store: storage.NewMemory(), Searcher: stubSearcher{}, Nav: stubNav{}})

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t, Config{CORSOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/search/suggest", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestIssuesVisitorCookie(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search/recent", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieVisitorID && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "expected a visitor id cookie")
}

func TestCapturesCampaignParameters(t *testing.T) {
	srv, store := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/healthz?utm_source=newsletter", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieVisitorID, Value: "v1"})
	srv.Router().ServeHTTP(httptest.NewRecorder(), req)

	v, ok, err := store.Get(context.Background(), "v1", site.UTMKey("utm_source"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "newsletter", v)
}

func TestRoutesMounted(t *testing.T) {
	srv, _ := newTestServer(t, Config{SearchPage: "/us/en/search.html"})

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search/suggest?q=pip", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pipette")

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/header", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get(nav.HeaderFallback))

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/convert/us/en/a", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
