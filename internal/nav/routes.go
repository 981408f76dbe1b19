package nav

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/sitenav/internal/flyout"
	"github.com/ziadkadry99/sitenav/internal/logging"
	"github.com/ziadkadry99/sitenav/internal/session"
	"github.com/ziadkadry99/sitenav/internal/storage"
)

// HeaderFallback is set on /header responses that carry the minimal
// header.
const HeaderFallback = "X-Header-Fallback"

// Source assembles headers; *Assembler satisfies it.
type Source interface {
	Assemble(ctx context.Context, sess session.Session, pagePath string) (*Header, error)
}

// Deps are the collaborators of the navigation routes.
type Deps struct {
	Source     Source
	Store      storage.Store
	SearchPage string
}

// RegisterRoutes mounts the header and menu routes.
func RegisterRoutes(r chi.Router, deps Deps) {
	r.Get("/header", handleHeader(deps))
	r.Get("/api/menu", handleMenu(deps))
}

func pagePath(r *http.Request, sess session.Session) string {
	if p := r.URL.Query().Get("page"); p != "" {
		return p
	}
	return PagePath(sess.Location())
}

func handleHeader(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromRequest(r, deps.Store)
		h, err := deps.Source.Assemble(r.Context(), sess, pagePath(r, sess))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err != nil {
			if !errors.Is(err, ErrFragmentUnavailable) {
				logging.FromContext(r.Context()).Error(err, "assembling header")
			}
			w.Header().Set(HeaderFallback, "1")
			w.Write([]byte(RenderFallback(deps.SearchPage)))
			return
		}
		w.Write([]byte(RenderWith(h, showParam(r))))
	}
}

func showParam(r *http.Request) []string {
	show := r.URL.Query().Get("show")
	if show == "" {
		return nil
	}
	return []string{flyout.MenuPath(show).ID()}
}

type menuResponse struct {
	Panels  []Panel  `json:"panels"`
	Visible []string `json:"visible"`
	Inert   int      `json:"inert"`
}

func handleMenu(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromRequest(r, deps.Store)
		h, err := deps.Source.Assemble(r.Context(), sess, pagePath(r, sess))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrFragmentUnavailable) {
				status = http.StatusBadGateway
			}
			writeError(w, status, "navigation unavailable")
			return
		}

		ctrl, err := h.Flyouts()
		if err != nil {
			logging.FromContext(r.Context()).Info("duplicate flyout panels", "error", err.Error())
		}
		if show := r.URL.Query().Get("show"); show != "" {
			if err := ctrl.Show(flyout.MenuPath(show)); err != nil {
				writeError(w, http.StatusNotFound, "unknown panel")
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(menuResponse{
			Panels:  h.Panels,
			Visible: ctrl.Visible(),
			Inert:   h.Inert,
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
