// Package worker runs the background repository sync.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	gh "github.com/google/go-github/v75/github"

	"github.com/tailorhq/github-tailor/internal/config"
	"github.com/tailorhq/github-tailor/internal/score"
	"github.com/tailorhq/github-tailor/internal/storage"
)

// RepoFetcher is the slice of the GitHub client the sync worker uses.
type RepoFetcher interface {
	AuthenticatedLogin(ctx context.Context) (string, error)
	ListRepositories(ctx context.Context, username string) ([]*gh.Repository, error)
	ListLanguages(ctx context.Context, owner, repo string) (map[string]int, error)
	HasReadme(ctx context.Context, owner, repo string) (bool, error)
	PinnedRepositories(ctx context.Context, login string) ([]string, error)
}

// SyncWorker periodically mirrors the account's repositories into storage.
type SyncWorker struct {
	fetcher  RepoFetcher
	storage  *storage.Database
	logger   *slog.Logger
	cfg      config.GitHubConfig
	interval time.Duration

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	syncing  bool
	lastSync time.Time
}

// SyncWorkerConfig configures the sync worker.
type SyncWorkerConfig struct {
	Fetcher  RepoFetcher
	Storage  *storage.Database
	Logger   *slog.Logger
	GitHub   config.GitHubConfig
	Interval time.Duration
}

// NewSyncWorker creates a sync worker.
func NewSyncWorker(cfg SyncWorkerConfig) (*SyncWorker, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if cfg.Storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}

	return &SyncWorker{
		fetcher:  cfg.Fetcher,
		storage:  cfg.Storage,
		logger:   cfg.Logger,
		cfg:      cfg.GitHub,
		interval: cfg.Interval,
	}, nil
}

// Start begins the periodic sync loop. The first sync runs immediately.
func (w *SyncWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.ctx != nil {
		w.mu.Unlock()
		return fmt.Errorf("worker already started")
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	w.logger.Info("Starting repository sync worker", "interval", w.interval)

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop cancels the loop and waits for an in-flight sync to finish.
func (w *SyncWorker) Stop() error {
	w.mu.Lock()
	if w.cancel == nil {
		w.mu.Unlock()
		return fmt.Errorf("worker not started")
	}
	w.cancel()
	w.cancel = nil
	w.mu.Unlock()

	w.wg.Wait()
	w.logger.Info("Repository sync worker stopped")
	return nil
}

func (w *SyncWorker) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if err := w.SyncOnce(w.ctx); err != nil {
		w.logger.Error("Initial sync failed", "error", err)
	}

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if err := w.SyncOnce(w.ctx); err != nil {
				w.logger.Error("Scheduled sync failed", "error", err)
			}
		}
	}
}

// SyncOnce mirrors the remote repository list into storage: every remote
// repository is upserted, records missing from the remote set are pruned,
// and pinned repositories get the featured flag. Concurrent calls coalesce:
// a second caller while a sync is running gets an error rather than a
// duplicate run.
func (w *SyncWorker) SyncOnce(ctx context.Context) error {
	w.mu.Lock()
	if w.syncing {
		w.mu.Unlock()
		return fmt.Errorf("sync already in progress")
	}
	w.syncing = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.syncing = false
		w.lastSync = time.Now()
		w.mu.Unlock()
	}()

	started := time.Now()
	login := w.cfg.Username
	if login == "" {
		resolved, err := w.fetcher.AuthenticatedLogin(ctx)
		if err != nil {
			return fmt.Errorf("resolving account login: %w", err)
		}
		login = resolved
	}

	repos, err := w.fetcher.ListRepositories(ctx, w.cfg.Username)
	if err != nil {
		return fmt.Errorf("listing repositories: %w", err)
	}
	w.logger.Info("Syncing repositories", "login", login, "count", len(repos))

	for _, raw := range repos {
		if err := ctx.Err(); err != nil {
			return err
		}

		summary := score.Normalize(raw)
		record := score.RecordFromSummary(summary, started)

		owner, name, ok := splitFullName(summary.FullName)
		if ok {
			if w.cfg.FetchLanguages {
				langs, err := w.fetcher.ListLanguages(ctx, owner, name)
				if err != nil {
					w.logger.Warn("Language fetch failed", "repo", summary.FullName, "error", err)
				} else {
					record.LanguageCount = len(langs)
				}
			}

			hasReadme, err := w.fetcher.HasReadme(ctx, owner, name)
			if err != nil {
				w.logger.Warn("README probe failed", "repo", summary.FullName, "error", err)
			} else {
				record.HasReadme = hasReadme
			}
		}

		if err := w.storage.SaveRepository(ctx, &record); err != nil {
			return fmt.Errorf("saving %s: %w", summary.FullName, err)
		}
	}

	pruned, err := w.storage.PruneRepositoriesSyncedBefore(ctx, started)
	if err != nil {
		return err
	}
	if pruned > 0 {
		w.logger.Info("Pruned repositories removed upstream", "count", pruned)
	}

	w.markPinned(ctx, login)

	w.logger.Info("Repository sync complete",
		"count", len(repos),
		"duration", time.Since(started).Round(time.Millisecond))
	return nil
}

// markPinned flags the user's pinned repositories as featured. Pins are a
// presentation hint, so failures only log.
func (w *SyncWorker) markPinned(ctx context.Context, login string) {
	pinned, err := w.fetcher.PinnedRepositories(ctx, login)
	if err != nil {
		w.logger.Warn("Pinned repository lookup failed", "login", login, "error", err)
		return
	}

	for _, fullName := range pinned {
		record, err := w.storage.GetRepository(ctx, fullName)
		if err != nil || record == nil {
			continue
		}
		if err := w.storage.SetFeatured(ctx, login, record.ID, true); err != nil {
			w.logger.Warn("Marking pinned repository failed", "repo", fullName, "error", err)
		}
	}
}

// LastSync returns when the last sync finished, zero before the first one.
func (w *SyncWorker) LastSync() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSync
}

// IsSyncing reports whether a sync is currently running.
func (w *SyncWorker) IsSyncing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.syncing
}

func splitFullName(fullName string) (owner, name string, ok bool) {
	idx := strings.IndexByte(fullName, '/')
	if idx <= 0 || idx == len(fullName)-1 {
		return "", "", false
	}
	return fullName[:idx], fullName[idx+1:], true
}
