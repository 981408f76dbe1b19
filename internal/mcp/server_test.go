package mcp

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/sitenav/internal/nav"
	"github.com/ziadkadry99/sitenav/internal/search"
	"github.com/ziadkadry99/sitenav/internal/session"
)

// mockSearcher implements searchbox.Searcher for testing.
type mockSearcher struct {
	suggestions []search.Suggestion
	redirect    string
	err         error
	submitted   []string
}

func (m *mockSearcher) FetchSuggestions(_ context.Context, _ string, _ search.Context) ([]search.Suggestion, error) {
	return m.suggestions, m.err
}

func (m *mockSearcher) SubmitSearch(_ context.Context, term, _ string, _ search.Context) (string, bool, error) {
	m.submitted = append(m.submitted, term)
	if m.err != nil {
		return "", false, m.err
	}
	return m.redirect, m.redirect != "", nil
}

// fixtureSource parses the header fragment used by the nav tests.
type fixtureSource struct {
	raw string
	err error
}

func (f fixtureSource) Assemble(_ context.Context, sess session.Session, pagePath string) (*nav.Header, error) {
	if f.err != nil {
		return nil, f.err
	}
	return nav.Parse(f.raw, sess, pagePath)
}

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../nav/testdata/header.plain.html")
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	return string(data)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want mcp.TextContent", result.Content[0])
	}
	return text.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"suggest_queries", suggestQueriesTool, "suggest_queries"},
		{"resolve_search", resolveSearchTool, "resolve_search"},
		{"get_navigation", getNavigationTool, "get_navigation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	searcher := &mockSearcher{}
	srv := NewServer(searcher, nil, "/us/en/search.html")

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.session.VisitorID() != VisitorID {
		t.Errorf("visitor id = %q, want %q", srv.session.VisitorID(), VisitorID)
	}
}

func TestHandleSuggestQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("completions", func(t *testing.T) {
		srv := NewServer(&mockSearcher{suggestions: []search.Suggestion{
			{Highlighted: "[pip]{ette}"},
			{Highlighted: "[pip]{ette tips}"},
		}}, nil, "")
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "pip"}

		result, err := srv.handleSuggestQueries(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "1. pipette\n") || !strings.Contains(text, "2. pipette tips\n") {
			t.Errorf("unexpected completions:\n%s", text)
		}
	})

	t.Run("no completions", func(t *testing.T) {
		srv := NewServer(&mockSearcher{}, nil, "")
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "zzz"}

		result, err := srv.handleSuggestQueries(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(resultText(t, result), "No completions") {
			t.Error("expected no-completions message")
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		srv := NewServer(&mockSearcher{err: &search.APIError{Endpoint: search.PathSuggest, StatusCode: 503}}, nil, "")
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "p"}

		result, err := srv.handleSuggestQueries(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error")
		}
	})

	t.Run("missing query", func(t *testing.T) {
		srv := NewServer(&mockSearcher{}, nil, "")
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSuggestQueries(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})
}

func TestHandleResolveSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("results page", func(t *testing.T) {
		searcher := &mockSearcher{}
		srv := NewServer(searcher, nil, "/us/en/search.html")
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"term": "pipette tips"}

		result, err := srv.handleResolveSearch(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := resultText(t, result); got != "Results: /us/en/search.html#q=pipette%20tips" {
			t.Errorf("result = %q", got)
		}
		if recents := srv.session.Recent().Get(ctx); len(recents) != 0 {
			t.Errorf("recent searches = %v, want none", recents)
		}
	})

	t.Run("redirect", func(t *testing.T) {
		srv := NewServer(&mockSearcher{redirect: "https://lifesciences.danaher.com/us/en/products.html"}, nil, "")
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"term": "products"}

		result, err := srv.handleResolveSearch(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := resultText(t, result); got != "Redirect: https://lifesciences.danaher.com/us/en/products.html" {
			t.Errorf("result = %q", got)
		}
	})

	t.Run("empty term", func(t *testing.T) {
		searcher := &mockSearcher{}
		srv := NewServer(searcher, nil, "")
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"term": "   "}

		result, err := srv.handleResolveSearch(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := resultText(t, result); got != "Results: /us/en/search.html" {
			t.Errorf("result = %q", got)
		}
		if len(searcher.submitted) != 0 {
			t.Error("empty term should not reach the search service")
		}
	})

	t.Run("missing term", func(t *testing.T) {
		srv := NewServer(&mockSearcher{}, nil, "")
		result, err := srv.handleResolveSearch(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing term")
		}
	})
}

func TestHandleGetNavigation(t *testing.T) {
	ctx := context.Background()

	t.Run("menu tree", func(t *testing.T) {
		srv := NewServer(&mockSearcher{}, fixtureSource{raw: loadFixture(t)}, "")
		result, err := srv.handleGetNavigation(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		for _, want := range []string{
			"- Products\n",
			"  - Explore All (/us/en/products.html)\n",
			"  - Consumables\n",
			"    - Pipette Tips (/us/en/products/consumables/pipette-tips.html)\n",
			"  - Instruments (/us/en/products/instruments.html)\n",
			"- News (/us/en/news.html)\n",
		} {
			if !strings.Contains(text, want) {
				t.Errorf("menu tree missing %q:\n%s", want, text)
			}
		}
	})

	t.Run("fragment unavailable", func(t *testing.T) {
		srv := NewServer(&mockSearcher{}, fixtureSource{err: nav.ErrFragmentUnavailable}, "")
		result, err := srv.handleGetNavigation(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error")
		}
	})

	t.Run("no source", func(t *testing.T) {
		srv := NewServer(&mockSearcher{}, nil, "")
		result, err := srv.handleGetNavigation(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error")
		}
	})
}
