// Package mcp exposes route generation to MCP clients over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdul-hamid-achik/routegen/internal/version"
)

// Server wraps an MCP server bound to a project directory.
type Server struct {
	workdir   string
	mcpServer *server.MCPServer
}

// NewServer creates a Server for the project in workdir and registers its
// tools.
func NewServer(workdir string) *Server {
	s := &Server{
		workdir:   workdir,
		mcpServer: server.NewMCPServer("routegen", version.GetVersion(), server.WithToolCapabilities(true)),
	}
	s.registerTools()
	return s
}

// Serve serves MCP over stdin/stdout until the client disconnects.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("resolve_routes",
		mcp.WithDescription("Resolve page file paths into a route tree without touching the disk"),
		mcp.WithString("paths",
			mcp.Required(),
			mcp.Description("Comma-separated page paths relative to the pages directory (e.g. 'index.vue,users/_id.vue')"),
		),
		mcp.WithBoolean("nested",
			mcp.Description("Make top-level paths relative, for mounting under a parent route"),
		),
		mcp.WithBoolean("optional_params",
			mcp.Description("Mark trailing params without an index sibling optional"),
		),
		mcp.WithString("import_prefix",
			mcp.Description("Prefix for component import paths (default: '@/pages/')"),
		),
	), s.handleResolveRoutes)

	s.mcpServer.AddTool(mcp.NewTool("generate_routes",
		mcp.WithDescription("Scan the pages directory and write the route module"),
		mcp.WithBoolean("dry_run",
			mcp.Description("Render and validate without writing the module"),
		),
		mcp.WithBoolean("include_code",
			mcp.Description("Include the generated module source in the result"),
		),
	), s.handleGenerateRoutes)

	s.mcpServer.AddTool(mcp.NewTool("list_routes",
		mcp.WithDescription("List the routes the current pages directory produces"),
	), s.handleListRoutes)

	s.mcpServer.AddTool(mcp.NewTool("info",
		mcp.WithDescription("Show the routegen configuration of the project"),
	), s.handleInfo)

	s.mcpServer.AddTool(mcp.NewTool("validate",
		mcp.WithDescription("Check the configuration and every page's custom blocks"),
	), s.handleValidate)
}
