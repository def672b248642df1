package score

import (
	"time"

	"github.com/tailorhq/github-tailor/internal/models"
)

// Recency windows for the completeness bonus.
const (
	recentUpdateWindow = 6 * 30 * 24 * time.Hour  // ~6 months
	staleUpdateWindow  = 12 * 30 * 24 * time.Hour // ~12 months
)

// ScoreCompleteness derives the 0-100 "portfolio-ready" score. The clock is
// an explicit parameter so the function stays pure.
func ScoreCompleteness(s models.RepositorySummary, inputs models.CompletenessInputs, now time.Time) int {
	score := 0

	if s.HasDescription() {
		score += 20
	}
	if inputs.HasReadme {
		score += 25
	}
	if len(s.Topics) > 0 {
		score += 15
	}

	age := now.Sub(s.UpdatedAt)
	switch {
	case age < recentUpdateWindow:
		score += 20
	case age < staleUpdateWindow:
		score += 10
	}

	if s.HasIssuesEnabled {
		score += 10
	}
	if s.StarCount > 0 || s.ForkCount > 0 {
		score += 10
	}

	return clamp(score, 0, 100)
}
