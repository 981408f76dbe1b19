package importer

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/sitenav/internal/logging"
)

// ImageSourceHeader tells the client which host image paths resolve
// against.
const ImageSourceHeader = "x-html2md-img-src"

// Deps are the collaborators of the importer routes. Store may be nil.
type Deps struct {
	Converter *Converter
	Store     *Store
}

// RegisterRoutes mounts the conversion and import log routes.
func RegisterRoutes(r chi.Router, deps Deps) {
	r.Get("/convert/*", handleConvert(deps))
	r.Get("/api/imports", handleList(deps))
}

func handleConvert(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := "/" + chi.URLParam(r, "*")
		params := Params{
			Authorization: r.Header.Get("Authorization"),
			WCMMode:       r.URL.Query().Get("wcmmode"),
		}

		res, err := deps.Converter.Convert(r.Context(), path, params)
		if err != nil {
			var fetchErr *FetchError
			if errors.As(err, &fetchErr) {
				http.Error(w, http.StatusText(fetchErr.StatusCode), fetchErr.StatusCode)
				return
			}
			logging.FromContext(r.Context()).Error(err, "converting page", "path", path)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set(ImageSourceHeader, deps.Converter.Host())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(res.HTML))
	}
}

func handleList(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Store == nil {
			writeError(w, http.StatusNotFound, "import log not configured")
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		entries, err := deps.Store.List(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if entries == nil {
			entries = []LogEntry{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
