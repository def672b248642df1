package score

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tailorhq/github-tailor/internal/models"
)

// maxRecommendations is the size of a CV recommendation set.
const maxRecommendations = 5

// maxImprovements caps the "missing README" follow-up list.
const maxImprovements = 3

// Sort orders a copy of items by the given criterion; the input slice is
// never mutated. All orderings are stable with respect to input order.
func Sort(items []models.RepositoryInsight, criterion models.SortCriterion, direction models.SortDirection) []models.RepositoryInsight {
	sorted := make([]models.RepositoryInsight, len(items))
	copy(sorted, items)

	asc := direction == models.SortAsc

	switch criterion {
	case models.SortByComplexity:
		sort.SliceStable(sorted, func(i, j int) bool {
			if asc {
				return sorted[i].Complexity.Score < sorted[j].Complexity.Score
			}
			return sorted[i].Complexity.Score > sorted[j].Complexity.Score
		})

	case models.SortByCV:
		// Fixed composite, not user-directed: complexity desc, then
		// documentation desc, then most recently updated first.
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i], sorted[j]
			if a.Complexity.Score != b.Complexity.Score {
				return a.Complexity.Score > b.Complexity.Score
			}
			if a.HasReadme != b.HasReadme {
				return a.HasReadme
			}
			return a.Summary.UpdatedAt.After(b.Summary.UpdatedAt)
		})

	case models.SortByDate:
		sort.SliceStable(sorted, func(i, j int) bool {
			if asc {
				return sorted[i].Summary.UpdatedAt.Before(sorted[j].Summary.UpdatedAt)
			}
			return sorted[i].Summary.UpdatedAt.After(sorted[j].Summary.UpdatedAt)
		})

	case models.SortByAlphabetical:
		c := collate.New(language.Und, collate.Loose)
		sort.SliceStable(sorted, func(i, j int) bool {
			cmp := c.CompareString(sorted[i].Summary.Name, sorted[j].Summary.Name)
			if asc {
				return cmp < 0
			}
			return cmp > 0
		})
	}

	return sorted
}

// Recommend produces the CV recommendation set: the top entries of the cv
// ordering with a reason each, plus improvement pointers for repositories
// held back by missing documentation.
func Recommend(items []models.RepositoryInsight, now time.Time) models.RecommendationSet {
	ordered := Sort(items, models.SortByCV, models.SortDesc)

	set := models.RecommendationSet{
		Recommendations: make([]models.Recommendation, 0, maxRecommendations),
		GeneratedAt:     now,
	}

	for i, item := range ordered {
		if i >= maxRecommendations {
			break
		}
		set.Recommendations = append(set.Recommendations, models.Recommendation{
			Rank:     i + 1,
			FullName: item.Summary.FullName,
			Score:    item.Complexity.Score,
			Level:    item.Complexity.Level,
			Reason:   recommendationReason(i, item),
			Summary:  item.Summary,
		})
	}

	for _, item := range ordered {
		if len(set.Improvements) >= maxImprovements {
			break
		}
		if !item.HasReadme {
			set.Improvements = append(set.Improvements,
				"Add a README to "+item.Summary.FullName+" to strengthen its presentation")
		}
	}

	return set
}

// recommendationReason applies the fixed rule table, first match wins.
func recommendationReason(position int, item models.RepositoryInsight) string {
	switch {
	case position == 0:
		return "Strongest project in the portfolio; lead with it"
	case item.Complexity.Level == models.ComplexityAdvanced || item.Complexity.Level == models.ComplexityComplex:
		return "Demonstrates advanced technical capabilities"
	case item.HasReadme:
		return "Well documented; shows professionalism"
	default:
		return "Recent activity keeps the portfolio looking current"
	}
}
