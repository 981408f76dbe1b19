package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/sitenav/internal/nav"
	"github.com/ziadkadry99/sitenav/internal/searchbox"
	"github.com/ziadkadry99/sitenav/internal/session"
)

// Version is set via ldflags at build time.
var Version = "dev"

// VisitorID identifies the tool server to the search service.
const VisitorID = "sitenav-mcp"

// Server wraps an MCP server that exposes site search and navigation tools.
type Server struct {
	searcher   searchbox.Searcher
	nav        nav.Source
	searchPage string
	session    session.Session
	mcp        *server.MCPServer
}

// NewServer creates a new MCP server. navSource may be nil, in which case
// get_navigation reports that no navigation is configured.
func NewServer(searcher searchbox.Searcher, navSource nav.Source, searchPage string) *Server {
	s := &Server{
		searcher:   searcher,
		nav:        navSource,
		searchPage: searchPage,
		session:    session.NewStatic(VisitorID),
	}

	s.mcp = server.NewMCPServer(
		"sitenav",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(suggestQueriesTool, s.handleSuggestQueries)
	s.mcp.AddTool(resolveSearchTool, s.handleResolveSearch)
	s.mcp.AddTool(getNavigationTool, s.handleGetNavigation)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
