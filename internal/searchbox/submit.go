// Package searchbox drives the header search input: suggestion fetches,
// keyboard selection and search submission.
package searchbox

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ziadkadry99/sitenav/internal/logging"
	"github.com/ziadkadry99/sitenav/internal/search"
	"github.com/ziadkadry99/sitenav/internal/session"
	"github.com/ziadkadry99/sitenav/internal/site"
)

// DefaultSearchPage is the results page searches land on.
const DefaultSearchPage = "/us/en/search.html"

// Searcher is the part of the search client the search box uses.
type Searcher interface {
	FetchSuggestions(ctx context.Context, query string, sc search.Context) ([]search.Suggestion, error)
	SubmitSearch(ctx context.Context, term, actionCause string, sc search.Context) (string, bool, error)
}

// Outcome is where a submitted search sends the visitor.
type Outcome struct {
	Location   string `json:"location"`
	Redirected bool   `json:"redirected"`
}

// Submitter resolves search terms to a destination.
type Submitter struct {
	Searcher   Searcher
	SearchPage string
	Now        func() time.Time
}

func (s Submitter) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Submitter) searchPage() string {
	if s.SearchPage != "" {
		return s.SearchPage
	}
	return DefaultSearchPage
}

// Resolve runs the search and trigger plan for term without touching the
// visitor's recent searches or history.
func (s Submitter) Resolve(ctx context.Context, sess session.Session, term, cause string) (Outcome, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Outcome{Location: s.searchPage()}, nil
	}

	sc := session.SearchContext(ctx, sess, s.now())
	redirect, ok, err := s.Searcher.SubmitSearch(ctx, term, cause, sc)
	if err != nil {
		return Outcome{}, fmt.Errorf("submitting search %q: %w", term, err)
	}
	if ok {
		return Outcome{Location: redirect, Redirected: true}, nil
	}
	return Outcome{Location: site.SearchResultsURL(s.searchPage(), term)}, nil
}

// Submit resolves term and, on success, records it as a recent search and
// in the action history.
func (s Submitter) Submit(ctx context.Context, sess session.Session, term, cause string) (Outcome, error) {
	out, err := s.Resolve(ctx, sess, term, cause)
	if err != nil {
		return Outcome{}, err
	}

	term = strings.TrimSpace(term)
	if term == "" {
		return out, nil
	}
	log := logging.FromContext(ctx)
	if err := sess.Recent().Record(ctx, term); err != nil {
		log.Error(err, "recording recent search")
	}
	if err := sess.AppendHistory(ctx, session.QueryAction(term, s.now())); err != nil {
		log.Error(err, "recording search history")
	}
	return out, nil
}
