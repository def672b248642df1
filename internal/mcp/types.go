package mcp

import (
	"time"

	"github.com/tailorhq/github-tailor/internal/models"
)

// RepositoryOverview is the compact per-repository view the list tool
// returns. It flattens the insight down to what an agent needs for
// ranking and follow-up questions.
type RepositoryOverview struct {
	FullName        string    `json:"full_name"`
	Description     string    `json:"description,omitempty"`
	Language        string    `json:"language,omitempty"`
	ComplexityScore int       `json:"complexity_score"`
	ComplexityLevel string    `json:"complexity_level"`
	Completeness    int       `json:"completeness"`
	HasReadme       bool      `json:"has_readme"`
	Featured        bool      `json:"featured"`
	StarCount       int       `json:"star_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ListRepositoriesOutput is the result of the list_repositories tool
type ListRepositoriesOutput struct {
	Repositories []RepositoryOverview `json:"repositories"`
	TotalCount   int                  `json:"total_count"`
	Message      string               `json:"message"`
}

// GetInsightOutput is the result of the get_repository_insight tool
type GetInsightOutput struct {
	Repository string                   `json:"repository"`
	Insight    models.RepositoryInsight `json:"insight"`
	Message    string                   `json:"message"`
}

// SuggestImprovementsOutput is the result of the suggest_improvements tool
type SuggestImprovementsOutput struct {
	Repository  string   `json:"repository"`
	Suggestions []string `json:"suggestions"`
	Message     string   `json:"message"`
}

// CvRecommendationsOutput is the result of the cv_recommendations tool
type CvRecommendationsOutput struct {
	Recommendations []models.Recommendation `json:"recommendations"`
	Improvements    []string                `json:"improvements,omitempty"`
	GeneratedAt     time.Time               `json:"generated_at"`
	Message         string                  `json:"message"`
}
