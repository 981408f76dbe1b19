// Package site holds page-level helpers shared by every page of the
// marketing site: public URL shaping, campaign parameter capture and
// date formatting.
package site

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/ziadkadry99/sitenav/internal/logging"
)

// MakePublicURL returns raw with the .html suffix production pages carry,
// or without it outside production. raw must be absolute; anything else
// is returned unchanged.
func MakePublicURL(ctx context.Context, raw string, prod bool) string {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		logging.FromContext(ctx).Info("invalid url", "url", raw)
		return raw
	}
	hasExt := strings.HasSuffix(u.Path, ".html")
	switch {
	case prod && !hasExt:
		u.Path += ".html"
		if u.RawPath != "" {
			u.RawPath += ".html"
		}
	case !prod && hasExt:
		u.Path = strings.TrimSuffix(u.Path, ".html")
		u.RawPath = strings.TrimSuffix(u.RawPath, ".html")
	}
	return u.String()
}

// FormatDateUTCSeconds formats a Unix timestamp as "Mar 05, 2024".
func FormatDateUTCSeconds(sec int64) string {
	return time.Unix(sec, 0).UTC().Format("Jan 02, 2006")
}

// EncodeURIComponent escapes s the way browsers escape a URI component:
// spaces become %20 and the marks !'()* are left as they are.
func EncodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	r := strings.NewReplacer("+", "%20", "%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")
	return r.Replace(escaped)
}

// SearchResultsURL is the results page for term under searchPage, e.g.
// /us/en/search.html#q=pipette%20tips. An empty term yields searchPage.
func SearchResultsURL(searchPage, term string) string {
	if term == "" {
		return searchPage
	}
	return searchPage + "#q=" + EncodeURIComponent(term)
}
