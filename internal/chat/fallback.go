package chat

import (
	"regexp"
	"strings"

	"github.com/tailorhq/github-tailor/internal/models"
)

// Confidence assigned to each keyword branch of the fallback parser. The
// values are fixed per branch, not calibrated.
const (
	fallbackCreateRepoConfidence = 0.8
	fallbackCvConfidence         = 0.9
	fallbackSortConfidence       = 0.8
	fallbackGeneralConfidence    = 0.5
)

// defaultRepoName is used when a create request names no repository.
const defaultRepoName = "new-repository"

// repoNamePattern extracts a repository name from phrases like
// "named foo" or "called 'bar'".
var repoNamePattern = regexp.MustCompile(`(?i)(?:called|named)\s+["']?([^"'\s]+)["']?`)

// FallbackParse maps a message to an action with keyword matching. It is the
// path taken when the model is unavailable or returned something unusable,
// so it always produces a valid action.
func FallbackParse(message string) models.ChatAction {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "create") && strings.Contains(lower, "repo"):
		name := defaultRepoName
		if m := repoNamePattern.FindStringSubmatch(message); len(m) > 1 {
			name = m[1]
		}
		return models.ChatAction{
			Type:       models.ActionCreateRepo,
			Confidence: fallbackCreateRepoConfidence,
			Name:       name,
		}

	case strings.Contains(lower, "sort") && strings.Contains(lower, "cv"):
		return models.ChatAction{
			Type:       models.ActionCvRecommendations,
			Confidence: fallbackCvConfidence,
		}

	case strings.Contains(lower, "sort") && strings.Contains(lower, "complex"):
		return models.ChatAction{
			Type:       models.ActionSortRepos,
			Confidence: fallbackSortConfidence,
			Criterion:  string(models.SortByComplexity),
			Direction:  string(models.SortAsc),
		}

	default:
		return models.ChatAction{
			Type:       models.ActionGeneralResponse,
			Confidence: fallbackGeneralConfidence,
			Topic:      message,
		}
	}
}
