// Package search talks to the hosted search service: query suggestions,
// full searches for analytics attribution, and trigger plans.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	PathSuggest = "/rest/search/v2/querySuggest"
	PathSearch  = "/rest/search/v2"
	PathPlan    = "/rest/search/v2/plan"

	// DefaultHostTemplate is expanded with the organization id.
	DefaultHostTemplate = "https://{org}.org.coveo.com"
)

// Config holds the search service coordinates.
type Config struct {
	Org          string
	Key          string
	HostTemplate string
	Pipeline     string
	SearchHub    string
	Locale       string
}

func (c *Config) applyDefaults() {
	if c.HostTemplate == "" {
		c.HostTemplate = DefaultHostTemplate
	}
	if c.Pipeline == "" {
		c.Pipeline = "Danaher Marketplace"
	}
	if c.SearchHub == "" {
		c.SearchHub = "DanaherMainSearch"
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
}

// Client is a search service client. It is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a client. A nil httpClient uses a client with a 30s
// timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	cfg.applyDefaults()
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// BuildPayload constructs the request body for kind. It reads nothing but
// its arguments.
func (c *Client) BuildPayload(kind Kind, query string, sc Context) Payload {
	return BuildPayload(c.cfg, kind, query, sc)
}

// BuildPayload constructs the request body for kind from cfg and sc.
func BuildPayload(cfg Config, kind Kind, query string, sc Context) Payload {
	cfg.applyDefaults()
	ts := FormatTimestamp(sc.Now)
	tz := sc.Timezone
	if tz == "" {
		tz = "UTC"
	}

	p := Payload{
		Analytics: Analytics{
			ClientID:         sc.VisitorID,
			ClientTimestamp:  ts,
			DocumentLocation: sc.Location,
			DocumentReferrer: sc.Referrer,
			OriginContext:    OriginContext,
		},
		Locale:    cfg.Locale,
		Pipeline:  cfg.Pipeline,
		Q:         query,
		SearchHub: cfg.SearchHub,
		Timezone:  tz,
		VisitorID: sc.VisitorID,
	}

	if kind == KindSearch {
		history := sc.History
		if len(history) > MaxActionsHistory {
			history = history[:MaxActionsHistory]
		}
		actions := make([]Action, len(history))
		copy(actions, history)
		p.Enrichment = &Enrichment{
			ActionsHistory:  actions,
			ClientID:        sc.VisitorID,
			ClientTimestamp: ts,
			OriginContext:   OriginContext,
			Count:           ResultCount,
			Referrer:        sc.Referrer,
		}
	}
	return p
}

// FormatTimestamp renders t the way a browser's Date.toISOString does.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// FetchSuggestions returns the service's completions for query, in the
// order the service ranked them.
func (c *Client) FetchSuggestions(ctx context.Context, query string, sc Context) ([]Suggestion, error) {
	var resp suggestResponse
	if err := c.post(ctx, PathSuggest, BuildPayload(c.cfg, KindSuggest, query, sc), &resp); err != nil {
		return nil, err
	}
	if resp.Completions == nil {
		return []Suggestion{}, nil
	}
	return resp.Completions, nil
}

// SubmitSearch runs a full search attributed to actionCause and then asks
// for the trigger plan. It returns the first redirect trigger, if any.
// The two calls are sequential; either failing fails the submission.
func (c *Client) SubmitSearch(ctx context.Context, term, actionCause string, sc Context) (string, bool, error) {
	if actionCause == "" {
		actionCause = CauseSearchFromLink
	}

	searchPayload := BuildPayload(c.cfg, KindSearch, term, sc)
	searchPayload.Analytics.ActionCause = actionCause
	if err := c.post(ctx, PathSearch, searchPayload, nil); err != nil {
		return "", false, err
	}

	var plan planResponse
	if err := c.post(ctx, PathPlan, BuildPayload(c.cfg, KindTrigger, term, sc), &plan); err != nil {
		return "", false, err
	}

	redirect, ok := FirstRedirect(plan.PreprocessingOutput.Triggers)
	return redirect, ok, nil
}

// FirstRedirect returns the content of the first redirect trigger.
func FirstRedirect(triggers []Trigger) (string, bool) {
	for _, t := range triggers {
		if t.Type == "redirect" {
			return t.Content, true
		}
	}
	return "", false
}

// Endpoint returns the absolute URL for an API path.
func (c *Client) Endpoint(path string) string {
	base := strings.ReplaceAll(c.cfg.HostTemplate, "{org}", c.cfg.Org)
	return strings.TrimRight(base, "/") + path + "?organizationId=" + url.QueryEscape(c.cfg.Org)
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(path), bytes.NewReader(body))
	if err != nil {
		return &APIError{Endpoint: path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Endpoint: path, StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Endpoint: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
