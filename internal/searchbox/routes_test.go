package searchbox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/sitenav/internal/search"
	"github.com/ziadkadry99/sitenav/internal/session"
	"github.com/ziadkadry99/sitenav/internal/storage"
)

func setupRouter(t *testing.T) (*chi.Mux, *fakeSearcher, storage.Store) {
	t.Helper()
	searcher := newFakeSearcher()
	store := storage.NewMemory()
	r := chi.NewRouter()
	RegisterRoutes(r, Deps{
		Searcher: searcher,
		Store:    store,
		Now:      func() time.Time { return fixedNow },
	})
	return r, searcher, store
}

func withVisitor(req *http.Request, id string) *http.Request {
	req.AddCookie(&http.Cookie{Name: session.CookieVisitorID, Value: id})
	return req
}

func TestSuggestRoute(t *testing.T) {
	r, searcher, store := setupRouter(t)
	require.NoError(t, store.Set(context.Background(), "v1", "coveo-recent-queries", `["old"]`))
	searcher.suggestions[""] = []search.Suggestion{{Highlighted: "{new}"}}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withVisitor(httptest.NewRequest(http.MethodGet, "/api/search/suggest?q=", nil), "v1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp suggestResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Rows, 3)
	assert.Equal(t, "old", resp.Rows[1].Text)
	assert.Equal(t, "new", resp.Rows[2].Text)
	assert.Contains(t, resp.HTML, "Recent Searches")
}

func TestSuggestRouteUpstreamFailure(t *testing.T) {
	r, searcher, _ := setupRouter(t)
	searcher.fetchErr = &search.APIError{Endpoint: search.PathSuggest, StatusCode: 503}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withVisitor(httptest.NewRequest(http.MethodGet, "/api/search/suggest?q=p", nil), "v1"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestSubmitRoute(t *testing.T) {
	r, searcher, _ := setupRouter(t)

	body := strings.NewReader(`{"term":"pipette tips","action_cause":"omniboxFromLink"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withVisitor(httptest.NewRequest(http.MethodPost, "/api/search/submit", body), "v1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var out Outcome
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, "/us/en/search.html#q=pipette%20tips", out.Location)
	assert.False(t, out.Redirected)
	assert.Equal(t, "omniboxFromLink", searcher.submits[0].Cause)
	assert.Equal(t, "v1", searcher.submits[0].Ctx.VisitorID)

	// The term is now a recent search.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, withVisitor(httptest.NewRequest(http.MethodGet, "/api/search/recent", nil), "v1"))
	assert.JSONEq(t, `{"recent":["pipette tips"]}`, rec.Body.String())
}

func TestSubmitRouteFailure(t *testing.T) {
	r, searcher, _ := setupRouter(t)
	searcher.submitErr = &search.APIError{Endpoint: search.PathSearch, Err: errors.New("dial tcp: refused")}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withVisitor(httptest.NewRequest(http.MethodPost, "/api/search/submit", strings.NewReader(`{"term":"x"}`)), "v1"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSubmitRouteBadBody(t *testing.T) {
	r, _, _ := setupRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/search/submit", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestClearRecentRoute(t *testing.T) {
	r, _, store := setupRouter(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "v1", "coveo-recent-queries", `["a","b"]`))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withVisitor(httptest.NewRequest(http.MethodDelete, "/api/search/recent", nil), "v1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, ok, err := store.Get(ctx, "v1", "coveo-recent-queries")
	require.NoError(t, err)
	assert.False(t, ok)
}

// brokenStore fails every removal.
type brokenStore struct {
	*storage.Memory
}

func (brokenStore) Remove(context.Context, string, string) error {
	return errors.New(`disk "visitor" is read-only`)
}

func TestClearRecentRouteFailure(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, Deps{Searcher: newFakeSearcher(), Store: brokenStore{storage.NewMemory()}})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withVisitor(httptest.NewRequest(http.MethodDelete, "/api/search/recent", nil), "v1"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], `disk "visitor" is read-only`)
}
