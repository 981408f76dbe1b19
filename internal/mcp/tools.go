package mcp

import "github.com/mark3labs/mcp-go/mcp"

// suggestQueriesTool defines the suggest_queries MCP tool.
var suggestQueriesTool = mcp.NewTool("suggest_queries",
	mcp.WithDescription("Get query completions from the site search service for a partial search term."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Partial search term as typed into the header search box"),
	),
)

// resolveSearchTool defines the resolve_search MCP tool.
var resolveSearchTool = mcp.NewTool("resolve_search",
	mcp.WithDescription("Resolve a search term to the page a visitor would land on: a redirect target or the search results page."),
	mcp.WithString("term",
		mcp.Required(),
		mcp.Description("Search term"),
	),
)

// getNavigationTool defines the get_navigation MCP tool.
var getNavigationTool = mcp.NewTool("get_navigation",
	mcp.WithDescription("Get the site's header navigation as a menu tree, including every flyout panel and its links."),
)
