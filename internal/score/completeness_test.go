package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tailorhq/github-tailor/internal/models"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestScoreCompleteness_ZeroScenario(t *testing.T) {
	// No description, no README, no topics, 13 months stale, no social
	// proof, issues disabled: every predicate fails.
	s := models.RepositorySummary{
		UpdatedAt: testNow.AddDate(0, -13, 0),
	}

	got := ScoreCompleteness(s, models.CompletenessInputs{}, testNow)
	assert.Equal(t, 0, got)
}

func TestScoreCompleteness_FullScore(t *testing.T) {
	s := models.RepositorySummary{
		Description:      strPtr("a thorough description of the project"),
		Topics:           []string{"go"},
		UpdatedAt:        testNow.AddDate(0, -1, 0),
		StarCount:        3,
		HasIssuesEnabled: true,
	}

	got := ScoreCompleteness(s, models.CompletenessInputs{HasReadme: true}, testNow)
	assert.Equal(t, 100, got)
}

func TestScoreCompleteness_RecencyTiers(t *testing.T) {
	tests := []struct {
		name      string
		monthsAgo int
		want      int
	}{
		{"fresh", 1, 20},
		{"within a year", 8, 10},
		{"stale", 14, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := models.RepositorySummary{
				UpdatedAt: testNow.AddDate(0, -tt.monthsAgo, 0),
			}
			got := ScoreCompleteness(s, models.CompletenessInputs{}, testNow)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreCompleteness_StalenessMonotonicity(t *testing.T) {
	s := models.RepositorySummary{
		Description: strPtr("a thorough description of the project"),
		Topics:      []string{"go"},
		StarCount:   1,
	}

	prev := 101
	for months := 0; months <= 24; months++ {
		s.UpdatedAt = testNow.AddDate(0, -months, 0)
		got := ScoreCompleteness(s, models.CompletenessInputs{HasReadme: true}, testNow)
		if got > prev {
			t.Fatalf("completeness rose from %d to %d at %d months of staleness", prev, got, months)
		}
		prev = got
	}
}

func TestScoreCompleteness_Bounds(t *testing.T) {
	cases := []struct {
		s      models.RepositorySummary
		inputs models.CompletenessInputs
	}{
		{models.RepositorySummary{}, models.CompletenessInputs{}},
		{
			models.RepositorySummary{
				Description:      strPtr("a thorough description of the project"),
				Topics:           []string{"a", "b"},
				UpdatedAt:        testNow,
				StarCount:        100,
				ForkCount:        100,
				HasIssuesEnabled: true,
			},
			models.CompletenessInputs{HasReadme: true},
		},
	}

	for _, tc := range cases {
		got := ScoreCompleteness(tc.s, tc.inputs, testNow)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}

func TestScoreCompleteness_ShortDescriptionDoesNotCount(t *testing.T) {
	s := models.RepositorySummary{
		Description: strPtr("short"),
		UpdatedAt:   testNow.AddDate(-2, 0, 0),
	}
	got := ScoreCompleteness(s, models.CompletenessInputs{}, testNow)
	assert.Equal(t, 0, got)
}
