package searchbox

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/sitenav/internal/logging"
	"github.com/ziadkadry99/sitenav/internal/search"
	"github.com/ziadkadry99/sitenav/internal/session"
	"github.com/ziadkadry99/sitenav/internal/storage"
	"github.com/ziadkadry99/sitenav/internal/suggest"
)

// Deps are the collaborators of the search API routes.
type Deps struct {
	Searcher   Searcher
	Store      storage.Store
	SearchPage string
	Now        func() time.Time
}

func (d Deps) submitter() Submitter {
	return Submitter{Searcher: d.Searcher, SearchPage: d.SearchPage, Now: d.Now}
}

// RegisterRoutes mounts the search API routes.
func RegisterRoutes(r chi.Router, deps Deps) {
	r.Route("/api/search", func(r chi.Router) {
		r.Get("/suggest", handleSuggest(deps))
		r.Post("/submit", handleSubmit(deps))
		r.Get("/recent", handleRecent(deps))
		r.Delete("/recent", handleClearRecent(deps))
	})
}

type suggestResponse struct {
	Query string        `json:"query"`
	Rows  []suggest.Row `json:"rows"`
	HTML  string        `json:"html"`
}

func handleSuggest(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromRequest(r, deps.Store)
		query := r.URL.Query().Get("q")

		sc := session.SearchContext(r.Context(), sess, deps.submitter().now())
		suggestions, err := deps.Searcher.FetchSuggestions(r.Context(), query, sc)
		if err != nil {
			logging.FromContext(r.Context()).Info("suggestion fetch failed", "error", err.Error())
			writeError(w, err)
			return
		}

		rows := suggest.Render(query, sess.Recent().Get(r.Context()), suggestions)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(suggestResponse{Query: query, Rows: rows, HTML: suggest.RenderHTML(rows)})
	}
}

type submitRequest struct {
	Term        string `json:"term"`
	ActionCause string `json:"action_cause"`
}

func handleSubmit(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeStatus(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sess := session.FromRequest(r, deps.Store)
		out, err := deps.submitter().Submit(r.Context(), sess, req.Term, req.ActionCause)
		if err != nil {
			logging.FromContext(r.Context()).Error(err, "search submission failed")
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

func handleRecent(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromRequest(r, deps.Store)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string][]string{"recent": sess.Recent().Get(r.Context())})
	}
}

func handleClearRecent(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromRequest(r, deps.Store)
		if err := sess.Recent().Clear(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// writeError maps search service failures to 502 and anything else to
// 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var apiErr *search.APIError
	if errors.As(err, &apiErr) {
		status = http.StatusBadGateway
	}
	writeStatus(w, status, err.Error())
}

func writeStatus(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
