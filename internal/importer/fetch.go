package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Fetcher downloads rendered pages from the authoring host.
type Fetcher struct {
	host *url.URL
	http *http.Client
}

// NewFetcher creates a fetcher for host, e.g. https://author.example.com.
func NewFetcher(host string, httpClient *http.Client) (*Fetcher, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parsing author host: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("author host %q must be an absolute URL", host)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Fetcher{host: u, http: httpClient}, nil
}

// Host returns the authoring host.
func (f *Fetcher) Host() string {
	return f.host.String()
}

// Fetch returns the HTML of the authoring path. Caches are bypassed and
// the caller's authorization is forwarded.
func (f *Fetcher) Fetch(ctx context.Context, path string, params Params) (string, error) {
	u := f.host.ResolveReference(&url.URL{Path: path})
	if params.WCMMode != "" {
		q := u.Query()
		q.Set("wcmmode", params.WCMMode)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("building page request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	if params.Authorization != "" {
		req.Header.Set("Authorization", params.Authorization)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &FetchError{URL: u.String(), StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", u, err)
	}
	return string(body), nil
}
