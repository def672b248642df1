package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tailorhq/github-tailor/internal/ai"
	"github.com/tailorhq/github-tailor/internal/api"
	"github.com/tailorhq/github-tailor/internal/chat"
	"github.com/tailorhq/github-tailor/internal/config"
	"github.com/tailorhq/github-tailor/internal/github"
	"github.com/tailorhq/github-tailor/internal/logging"
	"github.com/tailorhq/github-tailor/internal/mcp"
	"github.com/tailorhq/github-tailor/internal/storage"
	"github.com/tailorhq/github-tailor/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logging
	logger, _ := logging.NewLogger(cfg.Logging)
	slog.SetDefault(logger)

	// Initialize database
	db, err := storage.NewDatabase(cfg.Database)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	// Run migrations
	if err := db.Migrate(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize GitHub client
	ghClient := initializeGitHubClient(cfg, logger)

	// Resolve the account whose repositories are tailored
	owner := resolveOwner(cfg, ghClient, logger)

	// Initialize the AI generator and prompt templates (both optional)
	gen := initializeGenerator(cfg, logger)
	prompts, err := ai.LoadPrompts(cfg.AI.PromptsFile)
	if err != nil {
		slog.Warn("Failed to load prompt overrides, using built-in prompts", "error", err)
	}

	// Assemble the insight read model and chat pipeline
	insights := api.NewInsightService(db, owner)

	var mutator chat.Mutator
	if ghClient != nil {
		mutator = ghClient
	}
	chatService := chat.NewService(db,
		chat.NewParser(gen, logger),
		chat.NewDispatcher(mutator, insights, owner, logger),
		gen, logger)

	// Create cancellable context for background workers
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	// Initialize and start the repository sync worker
	syncWorker := initializeSyncWorker(workerCtx, cfg, ghClient, db, logger)

	// Create API server
	var contents api.ContentsFetcher
	var syncer api.Syncer
	if ghClient != nil {
		contents = ghClient
	}
	if syncWorker != nil {
		syncer = syncWorker
	}
	server := api.NewServer(api.ServerConfig{
		Config:   cfg,
		DB:       db,
		Insights: insights,
		Contents: contents,
		Gen:      gen,
		Prompts:  prompts,
		Chat:     chatService,
		Syncer:   syncer,
		Owner:    owner,
		Logger:   logger,
	})

	// Start the optional MCP tool server
	mcpServer := initializeMCPServer(cfg, insights, logger)

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Server.Port, "owner", owner)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Received interrupt signal")

	slog.Info("Shutting down server...")
	cancelWorkers()

	// Stop only applies to the started periodic loop; a manual-only worker
	// has nothing to wind down.
	if syncWorker != nil && cfg.Sync.Enabled {
		slog.Info("Stopping sync worker...")
		if err := syncWorker.Stop(); err != nil {
			slog.Error("Failed to stop sync worker", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if mcpServer != nil {
		if err := mcpServer.Stop(ctx); err != nil {
			slog.Error("Failed to stop MCP server", "error", err)
		}
	}

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

// initializeGitHubClient creates the GitHub client if a token is configured.
// Without one the server still runs, serving previously synced data.
func initializeGitHubClient(cfg *config.Config, logger *slog.Logger) *github.Client {
	if cfg.GitHub.Token == "" {
		logger.Warn("No GitHub token configured, sync and repository actions are disabled")
		return nil
	}

	client, err := github.NewClient(github.ClientConfig{
		BaseURL: cfg.GitHub.BaseURL,
		Token:   cfg.GitHub.Token,
		Timeout: 120 * time.Second,
		Logger:  logger,
	})
	if err != nil {
		slog.Warn("Failed to initialize GitHub client", "error", err)
		return nil
	}

	slog.Info("GitHub client initialized", "base_url", cfg.GitHub.BaseURL)
	return client
}

// resolveOwner determines the account login whose repositories are tailored.
// An explicit username wins; otherwise the token's own identity is used.
func resolveOwner(cfg *config.Config, client *github.Client, logger *slog.Logger) string {
	if cfg.GitHub.Username != "" {
		return cfg.GitHub.Username
	}
	if client == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	login, err := client.AuthenticatedLogin(ctx)
	if err != nil {
		logger.Warn("Failed to resolve authenticated user, set github.username explicitly", "error", err)
		return ""
	}
	return login
}

// initializeGenerator creates the AI client if an API key is configured.
func initializeGenerator(cfg *config.Config, logger *slog.Logger) ai.Generator {
	if cfg.AI.APIKey == "" {
		logger.Info("No AI API key configured, analysis and chat fall back to heuristics")
		return nil
	}

	client, err := ai.NewClient(cfg.AI, logger)
	if err != nil {
		slog.Warn("Failed to initialize AI client", "error", err)
		return nil
	}

	slog.Info("AI client initialized", "model", cfg.AI.Model)
	return client
}

// initializeSyncWorker creates and starts the repository sync worker.
func initializeSyncWorker(ctx context.Context, cfg *config.Config, client *github.Client, db *storage.Database, logger *slog.Logger) *worker.SyncWorker {
	if client == nil {
		logger.Info("Sync worker not started - GitHub client not configured")
		return nil
	}

	interval := time.Duration(cfg.Sync.IntervalMinutes) * time.Minute
	syncWorker, err := worker.NewSyncWorker(worker.SyncWorkerConfig{
		Fetcher:  client,
		Storage:  db,
		Logger:   logger,
		GitHub:   cfg.GitHub,
		Interval: interval,
	})
	if err != nil {
		slog.Error("Failed to create sync worker", "error", err)
		return nil
	}

	if !cfg.Sync.Enabled {
		slog.Info("Periodic sync disabled, manual sync remains available")
		return syncWorker
	}

	if err := syncWorker.Start(ctx); err != nil {
		slog.Error("Failed to start sync worker", "error", err)
		return nil
	}

	slog.Info("Sync worker started", "interval", interval)
	return syncWorker
}

// initializeMCPServer starts the MCP tool server when enabled.
func initializeMCPServer(cfg *config.Config, insights *api.InsightService, logger *slog.Logger) *mcp.Server {
	if !cfg.MCP.Enabled {
		return nil
	}

	mcpServer := mcp.NewServer(insights, logger, mcp.Config{
		Address: fmt.Sprintf(":%d", cfg.MCP.Port),
	})

	go func() {
		if err := mcpServer.Start(); err != nil {
			slog.Error("MCP server failed", "error", err)
		}
	}()

	slog.Info("MCP server starting", "port", cfg.MCP.Port)
	return mcpServer
}
