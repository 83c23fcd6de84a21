// Package mcpserver exposes the documentation query tools over MCP
// (Model Context Protocol), on streamable HTTP and stdio transports.
package mcpserver

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/fusiondocs/internal/docservice"
)

const (
	serverName    = "fusion360-docs"
	serverVersion = "1.0.1"

	healthMessage = "🟢 Fusion 360 API Documentation MCP Server is running!"
)

// DocService is the query surface the tools delegate to.
type DocService interface {
	Overview(ctx context.Context) string
	Search(ctx context.Context, query string, maxResults int) string
	ClassInfo(ctx context.Context, className string) string
	AnalyzeArrange3D(ctx context.Context) string
}

// Server wraps the MCP server with the documentation tools.
type Server struct {
	mcp *server.MCPServer
	svc DocService
}

// New creates an MCP server with all documentation tools registered.
func New(svc DocService) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("get_toctree_info",
		mcp.WithDescription("Get information about the Fusion 360 API documentation structure. "+
			"Returns an overview of available documentation sections and API-related content."),
	), s.getToctreeInfo)

	s.mcp.AddTool(mcp.NewTool("search_api_documentation",
		mcp.WithDescription("Search the Fusion 360 API documentation for specific topics."),
		mcp.WithString("query", mcp.Required(),
			mcp.Description("Search query (class name, method name, or topic)")),
		mcp.WithNumber("max_results",
			mcp.DefaultNumber(docservice.DefaultMaxResults),
			mcp.Description("Maximum number of results to return")),
	), s.searchAPIDocumentation)

	s.mcp.AddTool(mcp.NewTool("get_api_class_info",
		mcp.WithDescription("Get detailed information about a specific API class."),
		mcp.WithString("class_name", mcp.Required(),
			mcp.Description("Name of the class to look up (e.g. \"ExtrudeFeature\", \"Sketch\")")),
	), s.getAPIClassInfo)

	s.mcp.AddTool(mcp.NewTool("analyze_arrange3d_definition",
		mcp.WithDescription("Analyze the Arrange3DDefinition object in the Fusion 360 API: "+
			"fixed searches for Arrange3D functionality plus a detailed class lookup."),
	), s.analyzeArrange3DDefinition)

	s.mcp.AddTool(mcp.NewTool("health_check",
		mcp.WithDescription("Health check for monitoring the service."),
	), s.healthCheck)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// HTTPHandler returns the streamable HTTP transport for mounting into the
// process router.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp, server.WithStateLess(true))
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getToctreeInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.svc.Overview(ctx)), nil
}

func (s *Server) searchAPIDocumentation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxResults := req.GetInt("max_results", docservice.DefaultMaxResults)
	return mcp.NewToolResultText(s.svc.Search(ctx, query, maxResults)), nil
}

func (s *Server) getAPIClassInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	className, err := req.RequireString("class_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.svc.ClassInfo(ctx, className)), nil
}

func (s *Server) analyzeArrange3DDefinition(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.svc.AnalyzeArrange3D(ctx)), nil
}

func (s *Server) healthCheck(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(healthMessage), nil
}
