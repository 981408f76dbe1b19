package site

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ziadkadry99/sitenav/internal/logging"
	"github.com/ziadkadry99/sitenav/internal/session"
	"github.com/ziadkadry99/sitenav/internal/storage"
)

// UTMParams are the campaign parameters remembered per visitor.
var UTMParams = []string{
	"utm_campaign",
	"utm_source",
	"utm_medium",
	"utm_content",
	"utm_term",
	"utm_previouspage",
}

// UTMKey is the storage key a campaign parameter is kept under.
func UTMKey(param string) string {
	return "danaher_" + param
}

// CaptureUTM stores every campaign parameter present in query. A
// parameter present without a value is stored as "".
func CaptureUTM(ctx context.Context, query url.Values, kv storage.KV) error {
	for _, param := range UTMParams {
		if !query.Has(param) {
			continue
		}
		if err := kv.Set(ctx, UTMKey(param), query.Get(param)); err != nil {
			return fmt.Errorf("storing %s: %w", param, err)
		}
	}
	return nil
}

// UTMMiddleware captures campaign parameters of every request into the
// visitor's storage. It must run after session.Middleware.
func UTMMiddleware(store storage.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if q := r.URL.Query(); hasUTM(q) {
				visitor := session.FromRequest(r, store).VisitorID()
				if err := CaptureUTM(r.Context(), q, storage.Scoped(store, visitor)); err != nil {
					logging.FromContext(r.Context()).Error(err, "capturing campaign parameters")
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasUTM(q url.Values) bool {
	for _, p := range UTMParams {
		if q.Has(p) {
			return true
		}
	}
	return false
}
