package api

import (
	"context"
	"sort"
	"time"

	"github.com/tailorhq/github-tailor/internal/models"
	"github.com/tailorhq/github-tailor/internal/score"
	"github.com/tailorhq/github-tailor/internal/storage"
)

// InsightService assembles the scored view of the synced portfolio: summary,
// complexity, completeness, suggestions, and the user's featured flags. It
// is the read model behind the list endpoints, the chat dispatcher, and the
// MCP tools.
type InsightService struct {
	db    *storage.Database
	owner string
}

// NewInsightService creates the insight read model for one account.
func NewInsightService(db *storage.Database, owner string) *InsightService {
	return &InsightService{db: db, owner: owner}
}

// Insights scores every synced repository. Manual priority ordering, when
// set, overrides the default most-recently-updated order.
func (svc *InsightService) Insights(ctx context.Context) ([]models.RepositoryInsight, error) {
	records, err := svc.db.ListRepositories(ctx)
	if err != nil {
		return nil, err
	}

	prefs, err := svc.db.ListPreferences(ctx, svc.owner)
	if err != nil {
		return nil, err
	}
	prefByRepo := make(map[int64]models.RepositoryPreference, len(prefs))
	for _, p := range prefs {
		prefByRepo[p.RepositoryID] = p
	}

	now := time.Now()
	items := make([]models.RepositoryInsight, 0, len(records))
	for i := range records {
		rec := &records[i]
		items = append(items, svc.insightFromRecord(rec, prefByRepo[rec.ID], now))
	}

	applyManualOrder(items, prefByRepo)
	return items, nil
}

// Insight scores a single stored repository, or returns nil when it is not
// synced.
func (svc *InsightService) Insight(ctx context.Context, fullName string) (*models.RepositoryInsight, error) {
	rec, err := svc.db.GetRepository(ctx, fullName)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	pref, err := svc.db.GetPreference(ctx, svc.owner, rec.ID)
	if err != nil {
		return nil, err
	}
	var p models.RepositoryPreference
	if pref != nil {
		p = *pref
	}

	insight := svc.insightFromRecord(rec, p, time.Now())
	return &insight, nil
}

func (svc *InsightService) insightFromRecord(rec *models.RepositoryRecord, pref models.RepositoryPreference, now time.Time) models.RepositoryInsight {
	summary := score.SummaryFromRecord(rec)
	inputs := models.CompletenessInputs{HasReadme: rec.HasReadme}

	return models.RepositoryInsight{
		Summary:      summary,
		Complexity:   score.ScoreComplexity(summary, rec.LanguageCount, nil),
		Completeness: score.ScoreCompleteness(summary, inputs, now),
		Suggestions:  score.Suggest(summary, inputs, now),
		HasReadme:    rec.HasReadme,
		Featured:     pref.Featured,
	}
}

// applyManualOrder moves repositories with a manual priority to the front,
// in priority order. Unprioritized items keep their relative order after
// them.
func applyManualOrder(items []models.RepositoryInsight, prefByRepo map[int64]models.RepositoryPreference) {
	priority := func(item models.RepositoryInsight) int {
		if p, ok := prefByRepo[item.Summary.ID]; ok && p.PriorityOrder > 0 {
			return p.PriorityOrder
		}
		return int(^uint(0) >> 1) // unprioritized sorts last
	}

	sort.SliceStable(items, func(i, j int) bool {
		return priority(items[i]) < priority(items[j])
	})
}
