package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	gh "github.com/google/go-github/v75/github"

	"github.com/tailorhq/github-tailor/internal/config"
	"github.com/tailorhq/github-tailor/internal/storage"
)

type fakeFetcher struct {
	login     string
	repos     []*gh.Repository
	languages map[string]map[string]int
	readmes   map[string]bool
	pinned    []string

	listErr   error
	listCalls atomic.Int32
}

func (f *fakeFetcher) AuthenticatedLogin(context.Context) (string, error) {
	return f.login, nil
}

func (f *fakeFetcher) ListRepositories(context.Context, string) ([]*gh.Repository, error) {
	f.listCalls.Add(1)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.repos, nil
}

func (f *fakeFetcher) ListLanguages(_ context.Context, _, repo string) (map[string]int, error) {
	return f.languages[repo], nil
}

func (f *fakeFetcher) HasReadme(_ context.Context, _, repo string) (bool, error) {
	return f.readmes[repo], nil
}

func (f *fakeFetcher) PinnedRepositories(context.Context, string) ([]string, error) {
	return f.pinned, nil
}

func fakeRepo(id int64, fullName string) *gh.Repository {
	name := fullName[len("tester/"):]
	now := time.Now()
	return &gh.Repository{
		ID:        gh.Ptr(id),
		Name:      gh.Ptr(name),
		FullName:  gh.Ptr(fullName),
		UpdatedAt: &gh.Timestamp{Time: now},
		PushedAt:  &gh.Timestamp{Time: now},
		CreatedAt: &gh.Timestamp{Time: now.Add(-24 * time.Hour)},
	}
}

func setupTestDB(t *testing.T) *storage.Database {
	t.Helper()

	db, err := storage.NewDatabase(config.DatabaseConfig{Type: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func newTestWorker(t *testing.T, fetcher *fakeFetcher, db *storage.Database, ghCfg config.GitHubConfig) *SyncWorker {
	t.Helper()

	w, err := NewSyncWorker(SyncWorkerConfig{
		Fetcher: fetcher,
		Storage: db,
		GitHub:  ghCfg,
	})
	if err != nil {
		t.Fatalf("Failed to create worker: %v", err)
	}
	return w
}

func TestSyncOnce_StoresRepositories(t *testing.T) {
	db := setupTestDB(t)
	fetcher := &fakeFetcher{
		login:   "tester",
		repos:   []*gh.Repository{fakeRepo(1, "tester/alpha"), fakeRepo(2, "tester/beta")},
		readmes: map[string]bool{"alpha": true},
	}
	w := newTestWorker(t, fetcher, db, config.GitHubConfig{})

	if err := w.SyncOnce(context.Background()); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	count, err := db.CountRepositories(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	alpha, _ := db.GetRepository(context.Background(), "tester/alpha")
	if alpha == nil || !alpha.HasReadme {
		t.Error("alpha should have been stored with HasReadme")
	}
	beta, _ := db.GetRepository(context.Background(), "tester/beta")
	if beta == nil || beta.HasReadme {
		t.Error("beta should have been stored without HasReadme")
	}
}

func TestSyncOnce_PrunesRemovedRepositories(t *testing.T) {
	db := setupTestDB(t)
	fetcher := &fakeFetcher{
		login: "tester",
		repos: []*gh.Repository{fakeRepo(1, "tester/keep"), fakeRepo(2, "tester/drop")},
	}
	w := newTestWorker(t, fetcher, db, config.GitHubConfig{})

	if err := w.SyncOnce(context.Background()); err != nil {
		t.Fatalf("first sync failed: %v", err)
	}

	fetcher.repos = []*gh.Repository{fakeRepo(1, "tester/keep")}
	if err := w.SyncOnce(context.Background()); err != nil {
		t.Fatalf("second sync failed: %v", err)
	}

	if got, _ := db.GetRepository(context.Background(), "tester/drop"); got != nil {
		t.Error("removed repository survived the sync")
	}
	if got, _ := db.GetRepository(context.Background(), "tester/keep"); got == nil {
		t.Error("kept repository was pruned")
	}
}

func TestSyncOnce_LanguageEnrichmentOptIn(t *testing.T) {
	db := setupTestDB(t)
	fetcher := &fakeFetcher{
		login:     "tester",
		repos:     []*gh.Repository{fakeRepo(1, "tester/poly")},
		languages: map[string]map[string]int{"poly": {"Go": 100, "Rust": 50, "Shell": 5}},
	}

	// Disabled: no language count recorded.
	w := newTestWorker(t, fetcher, db, config.GitHubConfig{})
	if err := w.SyncOnce(context.Background()); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	got, _ := db.GetRepository(context.Background(), "tester/poly")
	if got.LanguageCount != 0 {
		t.Errorf("LanguageCount = %d, want 0 when disabled", got.LanguageCount)
	}

	// Enabled: breakdown fetched.
	w = newTestWorker(t, fetcher, db, config.GitHubConfig{FetchLanguages: true})
	if err := w.SyncOnce(context.Background()); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	got, _ = db.GetRepository(context.Background(), "tester/poly")
	if got.LanguageCount != 3 {
		t.Errorf("LanguageCount = %d, want 3", got.LanguageCount)
	}
}

func TestSyncOnce_MarksPinnedAsFeatured(t *testing.T) {
	db := setupTestDB(t)
	fetcher := &fakeFetcher{
		login:  "tester",
		repos:  []*gh.Repository{fakeRepo(1, "tester/star"), fakeRepo(2, "tester/other")},
		pinned: []string{"tester/star"},
	}
	w := newTestWorker(t, fetcher, db, config.GitHubConfig{})

	if err := w.SyncOnce(context.Background()); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	pref, err := db.GetPreference(context.Background(), "tester", 1)
	if err != nil {
		t.Fatalf("get preference failed: %v", err)
	}
	if pref == nil || !pref.Featured {
		t.Error("pinned repository was not marked featured")
	}
	if other, _ := db.GetPreference(context.Background(), "tester", 2); other != nil && other.Featured {
		t.Error("unpinned repository was marked featured")
	}
}

func TestSyncOnce_ListFailure(t *testing.T) {
	db := setupTestDB(t)
	fetcher := &fakeFetcher{login: "tester", listErr: errors.New("boom")}
	w := newTestWorker(t, fetcher, db, config.GitHubConfig{})

	if err := w.SyncOnce(context.Background()); err == nil {
		t.Fatal("expected error when listing fails")
	}
}

func TestStartStop(t *testing.T) {
	db := setupTestDB(t)
	fetcher := &fakeFetcher{login: "tester"}
	w := newTestWorker(t, fetcher, db, config.GitHubConfig{})

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Error("second start should fail")
	}

	// Wait for the immediate first sync to land.
	deadline := time.Now().Add(2 * time.Second)
	for fetcher.listCalls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if fetcher.listCalls.Load() == 0 {
		t.Error("initial sync never ran")
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if err := w.Stop(); err == nil {
		t.Error("second stop should fail")
	}
}
