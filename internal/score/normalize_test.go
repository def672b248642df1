package score

import (
	"reflect"
	"testing"
	"time"

	gh "github.com/google/go-github/v75/github"
	"github.com/stretchr/testify/assert"

	"github.com/tailorhq/github-tailor/internal/models"
)

func TestNormalize(t *testing.T) {
	created := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	pushed := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

	raw := &gh.Repository{
		ID:              gh.Ptr(int64(42)),
		Name:            gh.Ptr("tailor"),
		FullName:        gh.Ptr("octocat/tailor"),
		Description:     gh.Ptr("A portfolio tailoring service"),
		Language:        gh.Ptr("Go"),
		Topics:          []string{"cli", "portfolio"},
		Size:            gh.Ptr(1500),
		StargazersCount: gh.Ptr(12),
		ForksCount:      gh.Ptr(3),
		OpenIssuesCount: gh.Ptr(7),
		Private:         gh.Ptr(true),
		HasIssues:       gh.Ptr(true),
		HasWiki:         gh.Ptr(false),
		Archived:        gh.Ptr(false),
		Disabled:        gh.Ptr(false),
		CreatedAt:       &gh.Timestamp{Time: created},
		UpdatedAt:       &gh.Timestamp{Time: updated},
		PushedAt:        &gh.Timestamp{Time: pushed},
	}

	s := Normalize(raw)

	assert.Equal(t, int64(42), s.ID)
	assert.Equal(t, "tailor", s.Name)
	assert.Equal(t, "octocat/tailor", s.FullName)
	assert.Equal(t, "A portfolio tailoring service", *s.Description)
	assert.Equal(t, "Go", *s.Language)
	assert.Equal(t, []string{"cli", "portfolio"}, s.Topics)
	assert.Equal(t, int64(1500), s.SizeKB)
	assert.Equal(t, 12, s.StarCount)
	assert.Equal(t, 3, s.ForkCount)
	assert.Equal(t, 7, s.OpenIssueCount)
	assert.True(t, s.IsPrivate)
	assert.True(t, s.HasIssuesEnabled)
	assert.Equal(t, created, s.CreatedAt)
	assert.Equal(t, updated, s.UpdatedAt)
	assert.Equal(t, pushed, s.PushedAt)
}

func TestNormalize_MissingOptionals(t *testing.T) {
	raw := &gh.Repository{
		ID:       gh.Ptr(int64(7)),
		Name:     gh.Ptr("bare"),
		FullName: gh.Ptr("octocat/bare"),
	}

	s := Normalize(raw)

	assert.Nil(t, s.Description)
	assert.Nil(t, s.Language)
	assert.NotNil(t, s.Topics)
	assert.Empty(t, s.Topics)
	assert.Zero(t, s.SizeKB)
	assert.Zero(t, s.StarCount)
}

func TestNormalize_EmptyStringsTreatedAsMissing(t *testing.T) {
	raw := &gh.Repository{
		ID:          gh.Ptr(int64(7)),
		Description: gh.Ptr(""),
		Language:    gh.Ptr(""),
	}

	s := Normalize(raw)
	assert.Nil(t, s.Description)
	assert.Nil(t, s.Language)
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := &gh.Repository{
		ID:        gh.Ptr(int64(9)),
		Name:      gh.Ptr("repo"),
		FullName:  gh.Ptr("octocat/repo"),
		Language:  gh.Ptr("Rust"),
		Topics:    []string{"a", "b"},
		UpdatedAt: &gh.Timestamp{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	first := Normalize(raw)
	second := Normalize(raw)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Normalize is not deterministic: %+v != %+v", first, second)
	}
}

func TestSummaryFromRecord_RoundTrip(t *testing.T) {
	desc := "a description long enough to count"
	lang := "Go"
	s := models.RepositorySummary{
		ID:               1,
		Name:             "repo",
		FullName:         "octocat/repo",
		Description:      &desc,
		Language:         &lang,
		Topics:           []string{"go", "web"},
		SizeKB:           2048,
		StarCount:        5,
		ForkCount:        2,
		OpenIssueCount:   1,
		HasIssuesEnabled: true,
		CreatedAt:        time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		PushedAt:         time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	rec := RecordFromSummary(s, time.Now())
	got := SummaryFromRecord(&rec)

	if !reflect.DeepEqual(s, got) {
		t.Errorf("round trip changed the summary:\n got %+v\nwant %+v", got, s)
	}
}

func TestSplitTopics(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   []string
	}{
		{"empty", "", []string{}},
		{"single", "go", []string{"go"}},
		{"multiple", "go,web,api", []string{"go", "web", "api"}},
		{"stray spaces", " go , web ", []string{"go", "web"}},
		{"trailing comma", "go,", []string{"go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTopics(tt.stored))
		})
	}
}
