// Package session exposes the visitor's ambient state (identity cookies,
// commerce credentials, recent searches and analytics history) behind a
// narrow interface.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ziadkadry99/sitenav/internal/logging"
	"github.com/ziadkadry99/sitenav/internal/recent"
	"github.com/ziadkadry99/sitenav/internal/search"
	"github.com/ziadkadry99/sitenav/internal/storage"
)

const (
	// HistoryKey is the storage key of the analytics action history.
	HistoryKey = "__coveo.analytics.history"
	// MaxHistory is how many actions the stored history keeps.
	MaxHistory = 20
	// AuthTokenKey is the storage key of a bearer token for commerce calls.
	AuthTokenKey = "authToken"
)

// User is a signed-in visitor.
type User struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Initials returns the upper-cased first letters of the first and last
// name.
func (u *User) Initials() string {
	if u == nil {
		return ""
	}
	return firstUpper(u.FirstName) + firstUpper(u.LastName)
}

func firstUpper(s string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s))
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// Session is what header components know about the current visitor.
type Session interface {
	// User returns the signed-in user, or nil for anonymous visitors.
	User() *User
	LoggedIn() bool
	VisitorID() string
	// Authorization returns the headers for commerce API calls. It is
	// empty when the visitor holds no credentials.
	Authorization() http.Header
	Recent() *recent.Store
	// History returns the analytics action history, most recent first.
	History(ctx context.Context) []search.Action
	AppendHistory(ctx context.Context, a search.Action) error
	Location() string
	Referrer() string
	Timezone() string
}

// SearchContext snapshots the session state a search request needs.
func SearchContext(ctx context.Context, s Session, now time.Time) search.Context {
	return search.Context{
		Now:       now,
		Timezone:  s.Timezone(),
		VisitorID: s.VisitorID(),
		Location:  s.Location(),
		Referrer:  s.Referrer(),
		History:   s.History(ctx),
	}
}

// HasCredentials reports whether h carries a commerce credential.
func HasCredentials(h http.Header) bool {
	return h.Get("Authorization") != "" || h.Get("authentication-token") != ""
}

// visitorState implements the storage-backed parts of Session.
type visitorState struct {
	kv     storage.KV
	recent *recent.Store
}

func newVisitorState(kv storage.KV) visitorState {
	return visitorState{kv: kv, recent: recent.New(kv)}
}

func (v visitorState) Recent() *recent.Store {
	return v.recent
}

func (v visitorState) History(ctx context.Context) []search.Action {
	raw, ok, err := v.kv.Get(ctx, HistoryKey)
	if err != nil {
		logging.FromContext(ctx).Error(err, "reading action history")
		return []search.Action{}
	}
	if !ok {
		return []search.Action{}
	}
	var actions []search.Action
	if err := json.Unmarshal([]byte(raw), &actions); err != nil || actions == nil {
		return []search.Action{}
	}
	return actions
}

func (v visitorState) AppendHistory(ctx context.Context, a search.Action) error {
	actions := append([]search.Action{a}, v.History(ctx)...)
	if len(actions) > MaxHistory {
		actions = actions[:MaxHistory]
	}
	data, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("encoding action history: %w", err)
	}
	if err := v.kv.Set(ctx, HistoryKey, string(data)); err != nil {
		return fmt.Errorf("saving action history: %w", err)
	}
	return nil
}

// QueryAction is the history entry recorded for a submitted search.
func QueryAction(term string, now time.Time) search.Action {
	return search.Action{Name: "Query", Value: term, Time: search.FormatTimestamp(now)}
}
