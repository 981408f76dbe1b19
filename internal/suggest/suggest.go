// Package suggest turns recent searches and query completions into the
// rows of the suggestion panel.
package suggest

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/sitenav/internal/search"
)

// Kind classifies a row.
type Kind string

const (
	KindHeader     Kind = "header"
	KindRecent     Kind = "recent"
	KindSuggestion Kind = "suggestion"
)

// HeaderLabel is the text of the recent-searches header row.
const HeaderLabel = "Recent Searches"

// Row is one line of the suggestion panel. Markup is the inner HTML of
// the row's text span; Text is what the search input is filled with when
// the row is chosen.
type Row struct {
	Kind   Kind   `json:"kind"`
	Markup string `json:"markup"`
	Text   string `json:"text"`
	Cause  string `json:"cause,omitempty"`
}

// Selectable reports whether the row can be highlighted and chosen.
func (r Row) Selectable() bool {
	return r.Kind == KindRecent || r.Kind == KindSuggestion
}

var (
	emphasized   = regexp.MustCompile(`\[([^\]]+)\]`)
	deemphasized = regexp.MustCompile(`\{([^}]+)\}`)
)

// FormatSuggestionString converts the service's highlight markers into
// markup. [x] becomes bold only when input is non-empty; {x} is unwrapped.
func FormatSuggestionString(highlighted, input string) string {
	repl := "$1"
	if input != "" {
		repl = `<span class="font-bold">$1</span>`
	}
	out := emphasized.ReplaceAllString(highlighted, repl)
	return deemphasized.ReplaceAllString(out, "$1")
}

// Render builds the panel rows. With an empty query and at least one
// recent term the panel starts with a header row and the recent terms;
// one suggestion row per completion always follows.
func Render(query string, recents []string, suggestions []search.Suggestion) []Row {
	rows := make([]Row, 0, len(recents)+len(suggestions)+1)

	if query == "" && len(recents) > 0 {
		rows = append(rows, Row{Kind: KindHeader, Markup: HeaderLabel, Text: HeaderLabel})
		for _, term := range recents {
			rows = append(rows, Row{
				Kind:   KindRecent,
				Markup: html.EscapeString(term),
				Text:   term,
				Cause:  search.CauseSearchFromLink,
			})
		}
	}

	for _, s := range suggestions {
		markup := FormatSuggestionString(html.EscapeString(s.Highlighted), query)
		rows = append(rows, Row{
			Kind:   KindSuggestion,
			Markup: markup,
			Text:   PlainText(markup),
			Cause:  search.CauseOmniboxFromLink,
		})
	}
	return rows
}

// Selectable returns the rows that take part in keyboard navigation, in
// display order.
func Selectable(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Selectable() {
			out = append(out, r)
		}
	}
	return out
}

// PlainText returns the text content of an HTML fragment.
func PlainText(markup string) string {
	if !strings.ContainsAny(markup, "<&") {
		return markup
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return html.UnescapeString(markup)
	}
	return doc.Text()
}
