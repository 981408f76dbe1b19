package search

import (
	"fmt"
	"time"
)

// Attribution causes sent as analytics.actionCause.
const (
	CauseSearchFromLink  = "searchFromLink"
	CauseOmniboxFromLink = "omniboxFromLink"
)

const (
	// MaxActionsHistory is how many prior actions a full search sends.
	MaxActionsHistory = 8
	// ResultCount is the page size requested by a full search.
	ResultCount = 8
	// OriginContext identifies where searches originate.
	OriginContext = "Search"
)

// Kind selects the shape of a request payload.
type Kind string

const (
	KindSuggest Kind = "suggest"
	KindSearch  Kind = "search"
	KindTrigger Kind = "trigger"
)

// Action is one entry of the analytics action history.
type Action struct {
	Time  string `json:"time"`
	Value string `json:"value"`
	Name  string `json:"name"`
}

// Context is the ambient session state a request is built from.
type Context struct {
	Now       time.Time
	Timezone  string
	VisitorID string
	Location  string
	Referrer  string
	// History is ordered most recent first.
	History []Action
}

// Analytics is the analytics block of every payload.
type Analytics struct {
	ClientID         string `json:"clientId"`
	ClientTimestamp  string `json:"clientTimestamp"`
	DocumentLocation string `json:"documentLocation"`
	DocumentReferrer string `json:"documentReferrer"`
	OriginContext    string `json:"originContext"`
	ActionCause      string `json:"actionCause,omitempty"`
}

// Enrichment carries the fields only a full search sends.
type Enrichment struct {
	ActionsHistory  []Action `json:"actionsHistory"`
	ClientID        string   `json:"clientId"`
	ClientTimestamp string   `json:"clientTimestamp"`
	OriginContext   string   `json:"originContext"`
	Count           int      `json:"count"`
	Referrer        string   `json:"referrer"`
}

// Payload is the JSON body posted to the search service.
type Payload struct {
	Analytics Analytics `json:"analytics"`
	Locale    string    `json:"locale"`
	Pipeline  string    `json:"pipeline"`
	Q         string    `json:"q"`
	SearchHub string    `json:"searchHub"`
	Timezone  string    `json:"timezone"`
	VisitorID string    `json:"visitorId"`
	*Enrichment
}

// Suggestion is one query completion.
type Suggestion struct {
	Expression  string  `json:"expression"`
	Highlighted string  `json:"highlighted"`
	Score       float64 `json:"score,omitempty"`
}

type suggestResponse struct {
	Completions []Suggestion `json:"completions"`
}

// Trigger is a side effect attached to a query by the trigger plan.
type Trigger struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type planResponse struct {
	PreprocessingOutput struct {
		Triggers []Trigger `json:"triggers"`
	} `json:"preprocessingOutput"`
}

// APIError reports a failed call to the search service.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("search api %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("search api %s: status %d", e.Endpoint, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
