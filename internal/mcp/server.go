// Package mcp exposes the portfolio insights as MCP tools over SSE, so
// external agents can query the same data the dashboard shows.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tailorhq/github-tailor/internal/models"
)

// InsightSource is the scored portfolio view the tools read from.
type InsightSource interface {
	Insights(ctx context.Context) ([]models.RepositoryInsight, error)
	Insight(ctx context.Context, fullName string) (*models.RepositoryInsight, error)
}

// Server wraps the MCP server and provides portfolio tools
type Server struct {
	mcpServer *server.MCPServer
	sseServer *server.SSEServer
	insights  InsightSource
	logger    *slog.Logger
	addr      string
	mu        sync.RWMutex
	running   bool
}

// Config holds configuration for the MCP server
type Config struct {
	// Address to listen on (e.g., ":8081")
	Address string
}

// NewServer creates a new MCP server with portfolio tools
func NewServer(insights InsightSource, logger *slog.Logger, cfg Config) *Server {
	mcpServer := server.NewMCPServer(
		"GitHub Tailor",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(`You are the GitHub Tailor assistant. You have access to tools that
analyze a user's GitHub portfolio: repository complexity and completeness
scores, improvement suggestions, and CV-ready project rankings. Use these
tools to help the user present their repositories well.

Key capabilities:
- List the synced repositories with their scores, sorted by any criterion
- Get the full insight for one repository
- Get concrete improvement suggestions for one repository
- Rank the portfolio for a CV and list portfolio-wide improvements`),
	)

	s := &Server{
		mcpServer: mcpServer,
		insights:  insights,
		logger:    logger,
		addr:      cfg.Address,
	}

	s.registerTools()

	return s
}

// Start starts the MCP server on the configured address
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("MCP server already running")
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("Starting MCP server", "address", s.addr)

	s.sseServer = server.NewSSEServer(s.mcpServer,
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
	)

	// Start blocks until the server stops.
	if err := s.sseServer.Start(s.addr); err != nil && err != http.ErrServerClosed {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}

// Stop gracefully shuts down the MCP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.logger.Info("Stopping MCP server")
	s.running = false

	if s.sseServer != nil {
		if err := s.sseServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown MCP server: %w", err)
		}
	}

	return nil
}

// IsRunning returns true if the server is running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Address returns the server's listening address
func (s *Server) Address() string {
	return s.addr
}

// registerTools registers all portfolio tools with the MCP server
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list_repositories",
			mcp.WithDescription("List the synced repositories with their complexity and completeness scores. Optionally sorted by a criterion."),
			mcp.WithString("sort",
				mcp.Description("Sort criterion"),
				mcp.Enum("complexity", "cv", "date", "alphabetical"),
			),
			mcp.WithString("direction",
				mcp.Description("Sort direction (default desc)"),
				mcp.Enum("asc", "desc"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of repositories to return (default 20, max 100)"),
			),
		),
		s.handleListRepositories,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("analyze_repository",
			mcp.WithDescription("Get the full insight for one repository: summary, complexity assessment, completeness score, and suggestions."),
			mcp.WithString("repository",
				mcp.Required(),
				mcp.Description("Full repository name (owner/repo)"),
			),
		),
		s.handleGetInsight,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("suggest_improvements",
			mcp.WithDescription("Get concrete improvement suggestions for one repository (description, topics, README, activity)."),
			mcp.WithString("repository",
				mcp.Required(),
				mcp.Description("Full repository name (owner/repo)"),
			),
		),
		s.handleSuggestImprovements,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("cv_recommendations",
			mcp.WithDescription("Rank the portfolio for a CV. Returns the top projects with reasons plus portfolio-wide improvement hints."),
			mcp.WithNumber("max_count",
				mcp.Description("Maximum number of recommendations to return (default 5)"),
			),
		),
		s.handleCvRecommendations,
	)

	s.logger.Info("Registered MCP tools", "count", 4)
}
