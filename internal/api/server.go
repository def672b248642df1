// Package api exposes the HTTP surface of the application.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/tailorhq/github-tailor/internal/ai"
	"github.com/tailorhq/github-tailor/internal/api/middleware"
	"github.com/tailorhq/github-tailor/internal/chat"
	"github.com/tailorhq/github-tailor/internal/config"
	"github.com/tailorhq/github-tailor/internal/storage"
)

// ContentsFetcher is the slice of the GitHub client the deep-analysis
// endpoints use.
type ContentsFetcher interface {
	ListTopLevelContents(ctx context.Context, owner, repo string) ([]string, error)
	ListLanguages(ctx context.Context, owner, repo string) (map[string]int, error)
}

// Syncer triggers and reports on the background repository sync.
type Syncer interface {
	SyncOnce(ctx context.Context) error
	IsSyncing() bool
	LastSync() time.Time
}

// Server holds the handler dependencies. Optional collaborators (contents
// fetcher, generator, chat, syncer) may be nil; the endpoints needing them
// report that instead of panicking.
type Server struct {
	cfg      *config.Config
	db       *storage.Database
	insights *InsightService
	contents ContentsFetcher
	gen      ai.Generator
	prompts  ai.Prompts
	chat     *chat.Service
	syncer   Syncer
	owner    string
	logger   *slog.Logger
}

// ServerConfig wires the server's collaborators.
type ServerConfig struct {
	Config   *config.Config
	DB       *storage.Database
	Insights *InsightService
	Contents ContentsFetcher
	Gen      ai.Generator
	Prompts  ai.Prompts
	Chat     *chat.Service
	Syncer   Syncer
	Owner    string
	Logger   *slog.Logger
}

// NewServer creates the HTTP server.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg.Config,
		db:       cfg.DB,
		insights: cfg.Insights,
		contents: cfg.Contents,
		gen:      cfg.Gen,
		prompts:  cfg.Prompts,
		chat:     cfg.Chat,
		syncer:   cfg.Syncer,
		owner:    cfg.Owner,
		logger:   logger,
	}
}

// Router builds the route table wrapped in the middleware stack.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/v1/repositories", s.handleListRepositories)
	mux.HandleFunc("POST /api/v1/repositories/sync", s.handleSync)
	mux.HandleFunc("POST /api/v1/repositories/reorder", s.handleReorder)
	mux.HandleFunc("POST /api/v1/repositories/analyze", s.handleAnalyzeAll)

	mux.HandleFunc("GET /api/v1/repositories/{owner}/{repo}", s.handleGetRepository)
	mux.HandleFunc("GET /api/v1/repositories/{owner}/{repo}/complexity", s.handleDeepComplexity)
	mux.HandleFunc("GET /api/v1/repositories/{owner}/{repo}/suggestions", s.handleSuggestions)
	mux.HandleFunc("PUT /api/v1/repositories/{owner}/{repo}/notes", s.handleNotes)
	mux.HandleFunc("PUT /api/v1/repositories/{owner}/{repo}/featured", s.handleFeatured)
	mux.HandleFunc("POST /api/v1/repositories/{owner}/{repo}/analyze", s.handleAnalyzeOne)
	mux.HandleFunc("POST /api/v1/repositories/{owner}/{repo}/readme", s.handleGenerateReadme)

	mux.HandleFunc("GET /api/v1/recommendations", s.handleRecommendations)

	mux.HandleFunc("POST /api/v1/chat/messages", s.handleChatMessage)
	mux.HandleFunc("GET /api/v1/chat/sessions", s.handleListSessions)
	mux.HandleFunc("GET /api/v1/chat/sessions/{id}/messages", s.handleSessionMessages)
	mux.HandleFunc("DELETE /api/v1/chat/sessions/{id}", s.handleDeleteSession)

	return middleware.CORS(
		middleware.Logging(s.logger)(
			middleware.Recovery(s.logger)(mux)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "healthy"}
	if s.syncer != nil {
		status["syncing"] = s.syncer.IsSyncing()
		if last := s.syncer.LastSync(); !last.IsZero() {
			status["last_sync"] = last
		}
	}
	s.sendJSON(w, http.StatusOK, status)
}

// fullNameFromPath joins the {owner}/{repo} path segments.
func fullNameFromPath(r *http.Request) string {
	return r.PathValue("owner") + "/" + r.PathValue("repo")
}
