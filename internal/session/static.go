package session

import (
	"net/http"

	"github.com/ziadkadry99/sitenav/internal/storage"
)

// Static is a Session with fixed identity, backed by in-memory storage.
// It serves tests and the stdio tool server.
type Static struct {
	visitorState
	CurrentUser *User
	ID          string
	Auth        http.Header
	Page        string
	Ref         string
	TZ          string
}

// NewStatic returns an anonymous session with its own storage.
func NewStatic(visitorID string) *Static {
	return NewStaticWithStore(storage.NewMemory(), visitorID)
}

// NewStaticWithStore returns an anonymous session over store.
func NewStaticWithStore(store storage.Store, visitorID string) *Static {
	return &Static{
		visitorState: newVisitorState(storage.Scoped(store, visitorID)),
		ID:           visitorID,
		Auth:         http.Header{},
		TZ:           "UTC",
	}
}

func (s *Static) User() *User                { return s.CurrentUser }
func (s *Static) LoggedIn() bool             { return s.CurrentUser != nil }
func (s *Static) VisitorID() string          { return s.ID }
func (s *Static) Authorization() http.Header { return s.Auth.Clone() }
func (s *Static) Location() string           { return s.Page }
func (s *Static) Referrer() string           { return s.Ref }
func (s *Static) Timezone() string           { return s.TZ }
