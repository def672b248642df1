package storage

import (
	"context"
	"testing"
	"time"

	"github.com/tailorhq/github-tailor/internal/models"
)

func TestSavePreference_Upsert(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	notes := "lead project"
	pref := &models.RepositoryPreference{
		UserLogin:    "tester",
		RepositoryID: 1,
		Notes:        &notes,
	}
	if err := db.SavePreference(ctx, pref); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	updated := "second thoughts"
	pref.Notes = &updated
	pref.Featured = true
	if err := db.SavePreference(ctx, pref); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := db.GetPreference(ctx, "tester", 1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a preference")
	}
	if got.Notes == nil || *got.Notes != "second thoughts" {
		t.Errorf("Notes = %v, want second thoughts", got.Notes)
	}
	if !got.Featured {
		t.Error("Featured = false, want true")
	}

	prefs, err := db.ListPreferences(ctx, "tester")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(prefs) != 1 {
		t.Errorf("len = %d, want 1 (upsert must not duplicate)", len(prefs))
	}
}

func TestPreferences_ScopedByUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SetFeatured(ctx, "alice", 1, true); err != nil {
		t.Fatalf("set featured failed: %v", err)
	}
	if err := db.SetFeatured(ctx, "bob", 1, false); err != nil {
		t.Fatalf("set featured failed: %v", err)
	}

	alice, _ := db.GetPreference(ctx, "alice", 1)
	bob, _ := db.GetPreference(ctx, "bob", 1)
	if alice == nil || bob == nil {
		t.Fatal("expected a preference row per user")
	}
	if !alice.Featured || bob.Featured {
		t.Error("featured flags leaked across users")
	}
}

func TestSetPriorityOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// Repository 2 has an existing row; 1 and 3 get created on the fly.
	if err := db.SetFeatured(ctx, "tester", 2, true); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := db.SetPriorityOrder(ctx, "tester", []int64{3, 1, 2}); err != nil {
		t.Fatalf("set order failed: %v", err)
	}

	prefs, err := db.ListPreferences(ctx, "tester")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(prefs) != 3 {
		t.Fatalf("len = %d, want 3", len(prefs))
	}
	wantOrder := []int64{3, 1, 2}
	for i, pref := range prefs {
		if pref.RepositoryID != wantOrder[i] {
			t.Errorf("position %d = repo %d, want %d", i, pref.RepositoryID, wantOrder[i])
		}
		if pref.PriorityOrder != i+1 {
			t.Errorf("repo %d priority = %d, want %d", pref.RepositoryID, pref.PriorityOrder, i+1)
		}
	}

	// The seeded flag must survive reordering.
	two, _ := db.GetPreference(ctx, "tester", 2)
	if two == nil || !two.Featured {
		t.Error("reordering dropped the featured flag")
	}
}

func TestAnalysisCache(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	pushedAt := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := db.SaveAnalysis(ctx, "tester", 9, "solid project", pushedAt); err != nil {
		t.Fatalf("save analysis failed: %v", err)
	}

	// Same push timestamp: cache hit.
	analysis, ok, err := db.CachedAnalysis(ctx, "tester", 9, pushedAt)
	if err != nil {
		t.Fatalf("cached analysis failed: %v", err)
	}
	if !ok || analysis != "solid project" {
		t.Errorf("got (%q, %v), want cache hit", analysis, ok)
	}

	// A later push invalidates the cache.
	_, ok, err = db.CachedAnalysis(ctx, "tester", 9, pushedAt.Add(time.Hour))
	if err != nil {
		t.Fatalf("cached analysis failed: %v", err)
	}
	if ok {
		t.Error("cache hit for a repository pushed after analysis")
	}
}

func TestCachedAnalysis_NoRow(t *testing.T) {
	db := setupTestDB(t)

	_, ok, err := db.CachedAnalysis(context.Background(), "tester", 123, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("cache hit without any stored analysis")
	}
}
