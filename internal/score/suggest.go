package score

import (
	"time"

	"github.com/tailorhq/github-tailor/internal/models"
)

// maxSuggestions caps the improvement list.
const maxSuggestions = 5

// Suggest derives improvement suggestions from the same predicates as
// completeness scoring, in a fixed priority order, capped at 5 entries.
func Suggest(s models.RepositorySummary, inputs models.CompletenessInputs, now time.Time) []string {
	suggestions := make([]string, 0, maxSuggestions)

	add := func(msg string) bool {
		if len(suggestions) >= maxSuggestions {
			return false
		}
		suggestions = append(suggestions, msg)
		return true
	}

	if !s.HasDescription() {
		add("Add a clear description explaining what the project does")
	}
	if !inputs.HasReadme {
		add("Add a README with setup instructions and usage examples")
	}
	if len(s.Topics) == 0 {
		add("Add topics so the repository is easier to discover")
	}
	if now.Sub(s.UpdatedAt) > staleUpdateWindow {
		add("Push a recent update; the repository looks inactive")
	}
	if s.StarCount == 0 && s.ForkCount == 0 {
		add("Share the project to attract stars and forks")
	}
	if !s.HasIssuesEnabled {
		add("Enable issues so visitors can give feedback")
	}

	return suggestions
}
