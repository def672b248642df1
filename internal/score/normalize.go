// Package score implements the repository scoring, sorting, and
// recommendation pipeline: normalized summaries in, heuristic assessments,
// suggestions, and CV orderings out. Everything here is pure arithmetic over
// in-memory data; collaborator calls happen upstream.
package score

import (
	"strings"
	"time"

	gh "github.com/google/go-github/v75/github"

	"github.com/tailorhq/github-tailor/internal/models"
)

// Normalize maps a raw GitHub repository record into the internal summary
// shape. Missing optional fields become nil/empty; unknown fields are
// ignored. Deterministic and side-effect free.
func Normalize(raw *gh.Repository) models.RepositorySummary {
	if raw == nil {
		return models.RepositorySummary{Topics: []string{}}
	}

	s := models.RepositorySummary{
		ID:             raw.GetID(),
		Name:           raw.GetName(),
		FullName:       raw.GetFullName(),
		SizeKB:         int64(raw.GetSize()),
		StarCount:      raw.GetStargazersCount(),
		ForkCount:      raw.GetForksCount(),
		OpenIssueCount: raw.GetOpenIssuesCount(),

		IsPrivate:        raw.GetPrivate(),
		HasIssuesEnabled: raw.GetHasIssues(),
		HasWiki:          raw.GetHasWiki(),
		IsArchived:       raw.GetArchived(),
		IsDisabled:       raw.GetDisabled(),

		CreatedAt: raw.GetCreatedAt().Time,
		UpdatedAt: raw.GetUpdatedAt().Time,
		PushedAt:  raw.GetPushedAt().Time,
	}

	if raw.Description != nil && *raw.Description != "" {
		desc := *raw.Description
		s.Description = &desc
	}
	if raw.Language != nil && *raw.Language != "" {
		lang := *raw.Language
		s.Language = &lang
	}

	s.Topics = make([]string, 0, len(raw.Topics))
	s.Topics = append(s.Topics, raw.Topics...)

	return s
}

// SummaryFromRecord re-derives the summary shape from a persisted row, so
// scoring behaves the same whether data came from the API or the store.
func SummaryFromRecord(rec *models.RepositoryRecord) models.RepositorySummary {
	s := models.RepositorySummary{
		ID:             rec.ID,
		Name:           rec.Name,
		FullName:       rec.FullName,
		SizeKB:         rec.SizeKB,
		StarCount:      rec.StarCount,
		ForkCount:      rec.ForkCount,
		OpenIssueCount: rec.OpenIssueCount,

		IsPrivate:        rec.IsPrivate,
		HasIssuesEnabled: rec.HasIssuesEnabled,
		HasWiki:          rec.HasWiki,
		IsArchived:       rec.IsArchived,
		IsDisabled:       rec.IsDisabled,

		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		PushedAt:  rec.PushedAt,
	}

	if rec.Description != nil && *rec.Description != "" {
		desc := *rec.Description
		s.Description = &desc
	}
	if rec.Language != nil && *rec.Language != "" {
		lang := *rec.Language
		s.Language = &lang
	}

	s.Topics = SplitTopics(rec.Topics)

	return s
}

// RecordFromSummary builds the persisted row for a freshly normalized
// summary. Enrichment fields (language count, README flag) are filled in by
// the sync path after its optional extra calls.
func RecordFromSummary(s models.RepositorySummary, syncedAt time.Time) models.RepositoryRecord {
	return models.RepositoryRecord{
		ID:             s.ID,
		Name:           s.Name,
		FullName:       s.FullName,
		Description:    s.Description,
		Language:       s.Language,
		Topics:         JoinTopics(s.Topics),
		SizeKB:         s.SizeKB,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		PushedAt:       s.PushedAt,
		StarCount:      s.StarCount,
		ForkCount:      s.ForkCount,
		OpenIssueCount: s.OpenIssueCount,

		IsPrivate:        s.IsPrivate,
		HasIssuesEnabled: s.HasIssuesEnabled,
		HasWiki:          s.HasWiki,
		IsArchived:       s.IsArchived,
		IsDisabled:       s.IsDisabled,

		SyncedAt: syncedAt,
	}
}

// JoinTopics flattens a topic set into the stored comma-separated form.
func JoinTopics(topics []string) string {
	return strings.Join(topics, ",")
}

// SplitTopics restores a topic set from its stored form.
func SplitTopics(stored string) []string {
	if stored == "" {
		return []string{}
	}
	parts := strings.Split(stored, ",")
	topics := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
