package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/sitenav/internal/flyout"
	"github.com/ziadkadry99/sitenav/internal/nav"
	"github.com/ziadkadry99/sitenav/internal/searchbox"
	"github.com/ziadkadry99/sitenav/internal/session"
	"github.com/ziadkadry99/sitenav/internal/suggest"
)

// handleSuggestQueries fetches completions for a partial term.
func (s *Server) handleSuggestQueries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	sc := session.SearchContext(ctx, s.session, time.Now())
	suggestions, err := s.searcher.FetchSuggestions(ctx, query, sc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("suggestion fetch failed: %v", err)), nil
	}

	rows := suggest.Selectable(suggest.Render(query, nil, suggestions))
	if len(rows) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No completions for %q.", query)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d completion(s):\n", len(rows))
	for i, r := range rows {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, r.Text)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleResolveSearch reports where a submitted term leads. Nothing is
// recorded in the visitor's recent searches.
func (s *Server) handleResolveSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := request.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: term"), nil
	}

	out, err := s.submitter().Resolve(ctx, s.session, term, "")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if out.Redirected {
		return mcp.NewToolResultText("Redirect: " + out.Location), nil
	}
	return mcp.NewToolResultText("Results: " + out.Location), nil
}

// handleGetNavigation assembles the header and prints its menu tree.
func (s *Server) handleGetNavigation(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.nav == nil {
		return mcp.NewToolResultError("No navigation source configured. Set content_base in the config file."), nil
	}

	h, err := s.nav.Assemble(ctx, s.session, "/")
	if err != nil {
		if errors.Is(err, nav.ErrFragmentUnavailable) {
			return mcp.NewToolResultError("The navigation fragment is unavailable."), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to assemble navigation: %v", err)), nil
	}

	return mcp.NewToolResultText(formatMenuTree(h)), nil
}

func (s *Server) submitter() searchbox.Submitter {
	return searchbox.Submitter{Searcher: s.searcher, SearchPage: s.searchPage}
}

// formatMenuTree renders the top-level items followed by each panel
// reachable from them, depth first.
func formatMenuTree(h *nav.Header) string {
	panels := make(map[string]nav.Panel, len(h.Panels))
	for _, p := range h.Panels {
		panels[p.ID] = p
	}

	var sb strings.Builder
	sb.WriteString("Navigation:\n")
	seen := make(map[string]bool)
	for _, item := range h.NavItems {
		if !item.Expandable {
			fmt.Fprintf(&sb, "- %s (%s)\n", item.Label, item.Href)
			continue
		}
		fmt.Fprintf(&sb, "- %s\n", item.Label)
		writePanel(&sb, panels, seen, item.Path, 1)
	}
	return sb.String()
}

func writePanel(sb *strings.Builder, panels map[string]nav.Panel, seen map[string]bool, path flyout.MenuPath, depth int) {
	p, ok := panels[path.ID()]
	if !ok || seen[p.ID] {
		return
	}
	seen[p.ID] = true

	indent := strings.Repeat("  ", depth)
	if p.ExploreAll != "" {
		fmt.Fprintf(sb, "%s- Explore All (%s)\n", indent, p.ExploreAll)
	}
	for _, l := range p.Links {
		if l.Submenu != "" {
			fmt.Fprintf(sb, "%s- %s\n", indent, l.Label)
			writePanel(sb, panels, seen, l.Submenu, depth+1)
			continue
		}
		fmt.Fprintf(sb, "%s- %s (%s)\n", indent, l.Label, l.Href)
	}
}
