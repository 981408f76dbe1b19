package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 5, 14, 7, 9, 123_000_000, time.UTC)

func testContext() Context {
	return Context{
		Now:       fixedNow,
		Timezone:  "America/New_York",
		VisitorID: "visitor-1",
		Location:  "https://lifesciences.danaher.com/us/en/products.html",
		Referrer:  "https://www.google.com/",
	}
}

type recordedCall struct {
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
	Header http.Header
}

type fakeService struct {
	mu      sync.Mutex
	calls   []recordedCall
	handler func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
		Header: r.Header.Clone(),
	})
	f.mu.Unlock()
	f.handler(w, r)
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *fakeService) {
	t.Helper()
	fake := &fakeService{handler: handler}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	c := NewClient(Config{Org: "testorg", Key: "secret", HostTemplate: srv.URL}, srv.Client())
	return c, fake
}

func TestBuildPayloadSuggest(t *testing.T) {
	p := BuildPayload(Config{}, KindSuggest, "pip", testContext())

	assert.Equal(t, "pip", p.Q)
	assert.Equal(t, "en", p.Locale)
	assert.Equal(t, "Danaher Marketplace", p.Pipeline)
	assert.Equal(t, "DanaherMainSearch", p.SearchHub)
	assert.Equal(t, "America/New_York", p.Timezone)
	assert.Equal(t, "visitor-1", p.VisitorID)
	assert.Equal(t, "2024-03-05T14:07:09.123Z", p.Analytics.ClientTimestamp)
	assert.Equal(t, "visitor-1", p.Analytics.ClientID)
	assert.Equal(t, "Search", p.Analytics.OriginContext)
	assert.Nil(t, p.Enrichment)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.NotContains(t, m, "actionsHistory")
	assert.NotContains(t, m, "count")
}

func TestBuildPayloadSearchCapsHistory(t *testing.T) {
	sc := testContext()
	for i := 0; i < 12; i++ {
		sc.History = append(sc.History, Action{Time: "t", Value: string(rune('a' + i)), Name: "Query"})
	}

	p := BuildPayload(Config{}, KindSearch, "pipette", sc)
	require.NotNil(t, p.Enrichment)
	assert.Len(t, p.ActionsHistory, MaxActionsHistory)
	assert.Equal(t, "a", p.ActionsHistory[0].Value)
	assert.Equal(t, 8, p.Count)
	assert.Equal(t, "https://www.google.com/", p.Referrer)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, float64(8), m["count"])
	assert.Equal(t, "visitor-1", m["clientId"])
	assert.Equal(t, "Search", m["originContext"])
	assert.Len(t, m["actionsHistory"], 8)
}

func TestBuildPayloadSearchEmptyHistoryEncodesArray(t *testing.T) {
	p := BuildPayload(Config{}, KindSearch, "x", testContext())
	data, err := json.Marshal(p)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, []any{}, m["actionsHistory"])
}

func TestBuildPayloadDeterministic(t *testing.T) {
	a := BuildPayload(Config{}, KindSearch, "x", testContext())
	b := BuildPayload(Config{}, KindSearch, "x", testContext())
	assert.Equal(t, a, b)
}

func TestBuildPayloadDefaultTimezone(t *testing.T) {
	sc := testContext()
	sc.Timezone = ""
	assert.Equal(t, "UTC", BuildPayload(Config{}, KindSuggest, "x", sc).Timezone)
}

func TestEndpoint(t *testing.T) {
	c := NewClient(Config{Org: "danahernonproduction1892f3fhz"}, nil)
	assert.Equal(t,
		"https://danahernonproduction1892f3fhz.org.coveo.com/rest/search/v2/querySuggest?organizationId=danahernonproduction1892f3fhz",
		c.Endpoint(PathSuggest))
}

func TestFetchSuggestions(t *testing.T) {
	c, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"completions":[{"expression":"pipette tips","highlighted":"[pip]{ette tips}"},{"expression":"pipettes","highlighted":"[pip]{ettes}"}]}`)
	})

	got, err := c.FetchSuggestions(context.Background(), "pip", testContext())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "[pip]{ette tips}", got[0].Highlighted)
	assert.Equal(t, "[pip]{ettes}", got[1].Highlighted)

	require.Len(t, fake.calls, 1)
	call := fake.calls[0]
	assert.Equal(t, PathSuggest, call.Path)
	assert.Equal(t, "organizationId=testorg", call.Query)
	assert.Equal(t, "Bearer secret", call.Auth)
	assert.Equal(t, "application/json", call.Header.Get("Content-Type"))
	assert.Equal(t, "pip", call.Body["q"])
	assert.NotContains(t, call.Body, "actionsHistory")
}

func TestFetchSuggestionsNoCompletions(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})
	got, err := c.FetchSuggestions(context.Background(), "zzz", testContext())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFetchSuggestionsNon2xx(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	})

	_, err := c.FetchSuggestions(context.Background(), "pip", testContext())
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, PathSuggest, apiErr.Endpoint)
	assert.Contains(t, apiErr.Body, "denied")
}

func TestFetchSuggestionsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{Org: "o", Key: "k", HostTemplate: url}, nil)
	_, err := c.FetchSuggestions(context.Background(), "pip", testContext())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.NotNil(t, apiErr.Err)
}

func TestSubmitSearchRedirect(t *testing.T) {
	c, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathSearch:
			io.WriteString(w, `{"totalCount":3,"results":[]}`)
		case PathPlan:
			io.WriteString(w, `{"preprocessingOutput":{"triggers":[
				{"type":"notify","content":"hello"},
				{"type":"redirect","content":"https://example.com/first"},
				{"type":"redirect","content":"https://example.com/second"}]}}`)
		}
	})

	redirect, ok, err := c.SubmitSearch(context.Background(), "pipette", CauseOmniboxFromLink, testContext())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/first", redirect)

	require.Len(t, fake.calls, 2)
	assert.Equal(t, PathSearch, fake.calls[0].Path)
	assert.Equal(t, PathPlan, fake.calls[1].Path)

	analytics := fake.calls[0].Body["analytics"].(map[string]any)
	assert.Equal(t, CauseOmniboxFromLink, analytics["actionCause"])
	assert.Equal(t, float64(8), fake.calls[0].Body["count"])

	planAnalytics := fake.calls[1].Body["analytics"].(map[string]any)
	assert.NotContains(t, planAnalytics, "actionCause")
	assert.NotContains(t, fake.calls[1].Body, "count")
}

func TestSubmitSearchDefaultCause(t *testing.T) {
	c, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"preprocessingOutput":{"triggers":null}}`)
	})

	_, ok, err := c.SubmitSearch(context.Background(), "x", "", testContext())
	require.NoError(t, err)
	assert.False(t, ok)
	analytics := fake.calls[0].Body["analytics"].(map[string]any)
	assert.Equal(t, CauseSearchFromLink, analytics["actionCause"])
}

func TestSubmitSearchFailures(t *testing.T) {
	tests := []struct {
		name      string
		failPath  string
		wantCalls int
	}{
		{"search fails", PathSearch, 1},
		{"plan fails", PathPlan, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == tt.failPath {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				io.WriteString(w, `{}`)
			})

			_, _, err := c.SubmitSearch(context.Background(), "x", CauseSearchFromLink, testContext())
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.failPath, apiErr.Endpoint)
			assert.Len(t, fake.calls, tt.wantCalls)
		})
	}
}

func TestFirstRedirect(t *testing.T) {
	_, ok := FirstRedirect(nil)
	assert.False(t, ok)

	got, ok := FirstRedirect([]Trigger{{Type: "query", Content: "a"}, {Type: "redirect", Content: "/b"}})
	assert.True(t, ok)
	assert.Equal(t, "/b", got)
}
