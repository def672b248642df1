package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tailorhq/github-tailor/internal/models"
	"github.com/tailorhq/github-tailor/internal/score"
)

// insightToOverview flattens an insight to the compact tool output
func insightToOverview(insight models.RepositoryInsight) RepositoryOverview {
	overview := RepositoryOverview{
		FullName:        insight.Summary.FullName,
		Language:        insight.Summary.PrimaryLanguage(),
		ComplexityScore: insight.Complexity.Score,
		ComplexityLevel: string(insight.Complexity.Level),
		Completeness:    insight.Completeness,
		HasReadme:       insight.HasReadme,
		Featured:        insight.Featured,
		StarCount:       insight.Summary.StarCount,
		UpdatedAt:       insight.Summary.UpdatedAt,
	}
	if insight.Summary.Description != nil {
		overview.Description = *insight.Summary.Description
	}
	return overview
}

// handleListRepositories implements the list_repositories tool
func (s *Server) handleListRepositories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	if limit > 100 {
		limit = 100
	}

	items, err := s.insights.Insights(ctx)
	if err != nil {
		s.logger.Error("Failed to list repositories", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to load repositories: %v", err)), nil
	}

	if sortParam := req.GetString("sort", ""); sortParam != "" {
		criterion, err := models.ParseSortCriterion(sortParam)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		direction, err := models.ParseSortDirection(req.GetString("direction", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		items = score.Sort(items, criterion, direction)
	}

	if len(items) > limit {
		items = items[:limit]
	}

	overviews := make([]RepositoryOverview, 0, len(items))
	for _, item := range items {
		overviews = append(overviews, insightToOverview(item))
	}

	output := ListRepositoriesOutput{
		Repositories: overviews,
		TotalCount:   len(overviews),
		Message:      fmt.Sprintf("Found %d repositories", len(overviews)),
	}

	return s.jsonResult(output)
}

// handleGetInsight implements the get_repository_insight tool
func (s *Server) handleGetInsight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repoName, err := req.RequireString("repository")
	if err != nil {
		return mcp.NewToolResultError("repository parameter is required"), nil
	}

	insight, err := s.insights.Insight(ctx, repoName)
	if err != nil {
		s.logger.Error("Failed to load repository insight", "repo", repoName, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to load repository: %v", err)), nil
	}
	if insight == nil {
		return mcp.NewToolResultError(fmt.Sprintf("Repository not synced: %s", repoName)), nil
	}

	output := GetInsightOutput{
		Repository: repoName,
		Insight:    *insight,
		Message:    fmt.Sprintf("%s is %s with completeness %d/100", repoName, insight.Complexity.Level, insight.Completeness),
	}

	return s.jsonResult(output)
}

// handleSuggestImprovements implements the suggest_improvements tool
func (s *Server) handleSuggestImprovements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repoName, err := req.RequireString("repository")
	if err != nil {
		return mcp.NewToolResultError("repository parameter is required"), nil
	}

	insight, err := s.insights.Insight(ctx, repoName)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to load repository: %v", err)), nil
	}
	if insight == nil {
		return mcp.NewToolResultError(fmt.Sprintf("Repository not synced: %s", repoName)), nil
	}

	message := fmt.Sprintf("%d suggestions for %s", len(insight.Suggestions), repoName)
	if len(insight.Suggestions) == 0 {
		message = fmt.Sprintf("%s looks complete, nothing to suggest", repoName)
	}

	output := SuggestImprovementsOutput{
		Repository:  repoName,
		Suggestions: insight.Suggestions,
		Message:     message,
	}

	return s.jsonResult(output)
}

// handleCvRecommendations implements the cv_recommendations tool
func (s *Server) handleCvRecommendations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	maxCount := req.GetInt("max_count", 5)

	items, err := s.insights.Insights(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to load repositories: %v", err)), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultError("No repository data yet. Run a sync first."), nil
	}

	set := score.Recommend(items, time.Now())
	recommendations := set.Recommendations
	if len(recommendations) > maxCount {
		recommendations = recommendations[:maxCount]
	}

	output := CvRecommendationsOutput{
		Recommendations: recommendations,
		Improvements:    set.Improvements,
		GeneratedAt:     set.GeneratedAt,
		Message:         fmt.Sprintf("Ranked %d projects for a CV", len(recommendations)),
	}

	return s.jsonResult(output)
}

// jsonResult marshals data as indented JSON in a text result
func (s *Server) jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
