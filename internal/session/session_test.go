package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/sitenav/internal/search"
	"github.com/ziadkadry99/sitenav/internal/storage"
)

func requestWithCookies(cookies map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/header", nil)
	for name, value := range cookies {
		r.AddCookie(&http.Cookie{Name: name, Value: url.PathEscape(value)})
	}
	return r
}

func TestUserInitials(t *testing.T) {
	tests := []struct {
		user *User
		want string
	}{
		{&User{FirstName: "jane", LastName: "doe"}, "JD"},
		{&User{FirstName: "Émile", LastName: "zola"}, "ÉZ"},
		{&User{FirstName: "Solo"}, "S"},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.user.Initials())
	}
}

func TestFromRequestAnonymous(t *testing.T) {
	r := requestWithCookies(map[string]string{CookieVisitorID: "v-1"})
	s := FromRequest(r, storage.NewMemory())

	assert.False(t, s.LoggedIn())
	assert.Nil(t, s.User())
	assert.Equal(t, "v-1", s.VisitorID())
	assert.Empty(t, s.Authorization())
	assert.Equal(t, "UTC", s.Timezone())
}

func TestFromRequestSignedIn(t *testing.T) {
	r := requestWithCookies(map[string]string{
		CookieVisitorID: "v-1",
		CookieLoggedIn:  "12345",
		CookieFirstName: "Jane",
		CookieLastName:  "Doe",
	})
	r.Header.Set("Referer", "https://lifesciences.danaher.com/us/en/products.html")
	r.Header.Set(HeaderReferrer, "https://www.google.com/")
	r.Header.Set(HeaderTimezone, "Europe/Berlin")

	s := FromRequest(r, storage.NewMemory())
	require.True(t, s.LoggedIn())
	assert.Equal(t, "JD", s.User().Initials())
	assert.Equal(t, "https://lifesciences.danaher.com/us/en/products.html", s.Location())
	assert.Equal(t, "https://www.google.com/", s.Referrer())
	assert.Equal(t, "Europe/Berlin", s.Timezone())
}

func TestFromRequestInvalidTimezone(t *testing.T) {
	r := requestWithCookies(nil)
	r.Header.Set(HeaderTimezone, "Not/AZone")
	assert.Equal(t, "UTC", FromRequest(r, storage.NewMemory()).Timezone())
}

func TestAuthorizationPrecedence(t *testing.T) {
	ctx := context.Background()

	t.Run("stored bearer token wins", func(t *testing.T) {
		store := storage.NewMemory()
		require.NoError(t, store.Set(ctx, "v-1", AuthTokenKey, "tok"))
		r := requestWithCookies(map[string]string{
			CookieVisitorID: "v-1",
			CookieProfile:   `{"customer_token":"cust"}`,
			CookieAPIToken:  "api",
		})
		h := FromRequest(r, store).Authorization()
		assert.Equal(t, "Bearer tok", h.Get("Authorization"))
		assert.Empty(t, h.Get("authentication-token"))
	})

	t.Run("profile cookie", func(t *testing.T) {
		r := requestWithCookies(map[string]string{
			CookieVisitorID: "v-1",
			CookieProfile:   `{"customer_token":"cust"}`,
			CookieAPIToken:  "api",
		})
		h := FromRequest(r, storage.NewMemory()).Authorization()
		assert.Equal(t, "cust", h.Get("authentication-token"))
		assert.True(t, HasCredentials(h))
	})

	t.Run("api token cookie", func(t *testing.T) {
		r := requestWithCookies(map[string]string{CookieVisitorID: "v-1", CookieAPIToken: "api"})
		h := FromRequest(r, storage.NewMemory()).Authorization()
		assert.Equal(t, "api", h.Get("authentication-token"))
	})

	t.Run("none", func(t *testing.T) {
		r := requestWithCookies(map[string]string{CookieVisitorID: "v-1"})
		assert.False(t, HasCredentials(FromRequest(r, storage.NewMemory()).Authorization()))
	})
}

func TestCookieJSON(t *testing.T) {
	r := requestWithCookies(map[string]string{
		"obj":    `{"a":"b"}`,
		"arr":    `[1,2]`,
		"broken": `{nope}`,
		"plain":  `hello`,
	})

	var obj map[string]string
	assert.True(t, CookieJSON(r, "obj", &obj))
	assert.Equal(t, "b", obj["a"])

	var arr []int
	assert.True(t, CookieJSON(r, "arr", &arr))
	assert.Equal(t, []int{1, 2}, arr)

	var x map[string]any
	assert.False(t, CookieJSON(r, "broken", &x))
	assert.False(t, CookieJSON(r, "plain", &x))
	assert.False(t, CookieJSON(r, "missing", &x))
	assert.Equal(t, `{nope}`, CookieValue(r, "broken"))
}

func TestMiddlewareIssuesVisitorID(t *testing.T) {
	store := storage.NewMemory()
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromRequest(r, store).VisitorID()
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieVisitorID, cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)
}

func TestMiddlewareKeepsExistingVisitorID(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromRequest(r, storage.NewMemory()).VisitorID()
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithCookies(map[string]string{CookieVisitorID: "existing"}))

	assert.Equal(t, "existing", seen)
	assert.Empty(t, rec.Result().Cookies())
}

func TestHistoryAppendAndCap(t *testing.T) {
	ctx := context.Background()
	s := NewStatic("v-1")
	assert.Empty(t, s.History(ctx))

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < MaxHistory+5; i++ {
		require.NoError(t, s.AppendHistory(ctx, QueryAction(string(rune('a'+i)), now)))
	}
	h := s.History(ctx)
	require.Len(t, h, MaxHistory)
	assert.Equal(t, string(rune('a'+MaxHistory+4)), h[0].Value)
	assert.Equal(t, "Query", h[0].Name)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", h[0].Time)
}

func TestHistoryCorrupt(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.Set(ctx, "v-1", HistoryKey, "garbage"))
	s := NewStaticWithStore(store, "v-1")
	assert.Empty(t, s.History(ctx))
}

func TestSearchContext(t *testing.T) {
	ctx := context.Background()
	s := NewStatic("v-9")
	s.Page = "https://example.com/page"
	s.Ref = "https://ref.example.com/"
	s.TZ = "Asia/Tokyo"
	require.NoError(t, s.AppendHistory(ctx, search.Action{Name: "Query", Value: "x", Time: "t"}))

	now := time.Unix(100, 0)
	sc := SearchContext(ctx, s, now)
	assert.Equal(t, search.Context{
		Now:       now,
		Timezone:  "Asia/Tokyo",
		VisitorID: "v-9",
		Location:  "https://example.com/page",
		Referrer:  "https://ref.example.com/",
		History:   []search.Action{{Name: "Query", Value: "x", Time: "t"}},
	}, sc)
}

func TestRecentSharesVisitorStorage(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	a := FromRequest(requestWithCookies(map[string]string{CookieVisitorID: "v-1"}), store)
	require.NoError(t, a.Recent().Record(ctx, "pipette"))

	b := FromRequest(requestWithCookies(map[string]string{CookieVisitorID: "v-1"}), store)
	assert.Equal(t, []string{"pipette"}, b.Recent().Get(ctx))

	other := FromRequest(requestWithCookies(map[string]string{CookieVisitorID: "v-2"}), store)
	assert.Empty(t, other.Recent().Get(ctx))
}
