package importer

import (
	"fmt"
	"net/http"
	"time"
)

// Params carry the per-request options of a conversion.
type Params struct {
	Authorization string
	WCMMode       string
}

// Result is a converted page.
type Result struct {
	Path     string   `json:"path"`
	Markdown string   `json:"markdown"`
	HTML     string   `json:"html"`
	Metadata Metadata `json:"metadata"`
}

// FetchError is a non-2xx answer from the authoring host.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Status is the outcome recorded for one page of a batch.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// LogEntry is one row of the import log.
type LogEntry struct {
	ID          string    `json:"id"`
	SourcePath  string    `json:"source_path"`
	ContentPath string    `json:"content_path"`
	OutputFile  string    `json:"output_file,omitempty"`
	Status      Status    `json:"status"`
	Error       string    `json:"error,omitempty"`
	ContentHash string    `json:"content_hash,omitempty"`
	ImportedAt  time.Time `json:"imported_at"`
}

// Summary is the result of a batch import.
type Summary struct {
	Found    int        `json:"found"`
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Failed   int        `json:"failed"`
	Entries  []LogEntry `json:"entries"`
	Errors   []string   `json:"errors,omitempty"`
}
