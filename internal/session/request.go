package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/sitenav/internal/logging"
	"github.com/ziadkadry99/sitenav/internal/storage"
)

// Cookie names read from the visitor's browser.
const (
	CookieVisitorID  = "coveo_visitorId"
	CookieFirstName  = "first_name"
	CookieLastName   = "last_name"
	CookieLoggedIn   = "rationalized_id"
	CookieProfile    = "ProfileData"
	CookieAPIToken   = "apiToken"
	HeaderTimezone   = "X-Timezone"
	HeaderReferrer   = "X-Document-Referrer"
	visitorCookieTTL = 365 * 24 * time.Hour
)

type visitorIDKey struct{}

// Request is the Session of one HTTP request.
type Request struct {
	visitorState
	user      *User
	visitorID string
	auth      http.Header
	location  string
	referrer  string
	timezone  string
}

// FromRequest builds the session of r. Visitor-scoped state lives in
// store under the visitor id cookie, or the id Middleware issued.
func FromRequest(r *http.Request, store storage.Store) *Request {
	visitorID := CookieValue(r, CookieVisitorID)
	if visitorID == "" {
		visitorID, _ = r.Context().Value(visitorIDKey{}).(string)
	}
	kv := storage.Scoped(store, visitorID)

	s := &Request{
		visitorState: newVisitorState(kv),
		visitorID:    visitorID,
		location:     r.Header.Get("Referer"),
		referrer:     r.Header.Get(HeaderReferrer),
		timezone:     timezone(r.Header.Get(HeaderTimezone)),
	}

	if CookieValue(r, CookieLoggedIn) != "" {
		s.user = &User{
			FirstName: CookieValue(r, CookieFirstName),
			LastName:  CookieValue(r, CookieLastName),
		}
	}
	s.auth = authorization(r.Context(), r, kv)
	return s
}

func (s *Request) User() *User                { return s.user }
func (s *Request) LoggedIn() bool             { return s.user != nil }
func (s *Request) VisitorID() string          { return s.visitorID }
func (s *Request) Authorization() http.Header { return s.auth.Clone() }
func (s *Request) Location() string           { return s.location }
func (s *Request) Referrer() string           { return s.referrer }
func (s *Request) Timezone() string           { return s.timezone }

// authorization picks the first available credential: a stored bearer
// token, then the profile cookie's customer token, then the api token
// cookie.
func authorization(ctx context.Context, r *http.Request, kv storage.KV) http.Header {
	h := http.Header{}
	if token, ok, err := kv.Get(ctx, AuthTokenKey); err == nil && ok && token != "" {
		h.Set("Authorization", "Bearer "+token)
		return h
	}
	var profile struct {
		CustomerToken string `json:"customer_token"`
	}
	if CookieJSON(r, CookieProfile, &profile) && profile.CustomerToken != "" {
		h.Set("authentication-token", profile.CustomerToken)
		return h
	}
	if token := CookieValue(r, CookieAPIToken); token != "" {
		h.Set("authentication-token", token)
	}
	return h
}

func timezone(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "UTC"
	}
	if _, err := time.LoadLocation(v); err != nil {
		return "UTC"
	}
	return v
}

// CookieValue returns the URI-decoded value of a cookie, or "".
func CookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	v, err := url.PathUnescape(c.Value)
	if err != nil {
		return c.Value
	}
	return v
}

// CookieJSON decodes a cookie holding a JSON object or array into v. It
// reports false when the cookie is absent, is not JSON-shaped, or fails to
// decode.
func CookieJSON(r *http.Request, name string, v any) bool {
	raw := CookieValue(r, name)
	if !looksLikeJSON(raw) {
		return false
	}
	return json.Unmarshal([]byte(raw), v) == nil
}

func looksLikeJSON(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return (first == '{' && last == '}') || (first == '[' && last == ']')
}

// Middleware issues an anonymous visitor id cookie to visitors that have
// none and makes it visible to FromRequest for the same request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CookieValue(r, CookieVisitorID) != "" {
			next.ServeHTTP(w, r)
			return
		}
		id := uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     CookieVisitorID,
			Value:    id,
			Path:     "/",
			Expires:  time.Now().Add(visitorCookieTTL),
			SameSite: http.SameSiteLaxMode,
		})
		logging.FromContext(r.Context()).V(1).Info("issued visitor id", "visitor_id", id)
		ctx := context.WithValue(r.Context(), visitorIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
