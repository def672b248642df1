package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tailorhq/github-tailor/internal/github"
	"github.com/tailorhq/github-tailor/internal/models"
	"github.com/tailorhq/github-tailor/internal/score"
)

// Mutator is the set of GitHub write operations the dispatcher can perform.
// *github.Client satisfies it.
type Mutator interface {
	CreateRepository(ctx context.Context, params github.CreateRepoParams) (string, error)
	CreateFile(ctx context.Context, owner, repo, path, content, message string) (string, error)
	DeleteRepository(ctx context.Context, owner, repo string) error
}

// InsightSource supplies the scored portfolio that read-only actions
// operate on.
type InsightSource interface {
	Insights(ctx context.Context) ([]models.RepositoryInsight, error)
}

// deleteConfirmationPrompt is the first step of the two-step delete flow.
const deleteConfirmationPrompt = "Deleting %s is permanent and cannot be undone. Say so explicitly if you want me to proceed."

// Dispatcher executes parsed actions. Every path produces a DispatchResult;
// failures become messages rather than errors so the assistant always has
// something to say.
type Dispatcher struct {
	mutator  Mutator
	insights InsightSource
	owner    string
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil mutator disables the write
// actions; they report that instead of failing silently.
func NewDispatcher(mutator Mutator, insights InsightSource, owner string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{mutator: mutator, insights: insights, owner: owner, logger: logger}
}

// Dispatch executes one action and reports the outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, action models.ChatAction) models.DispatchResult {
	d.logger.Info("dispatching action", "action", action.Type, "confidence", action.Confidence)

	switch action.Type {
	case models.ActionCreateRepo:
		return d.createRepo(ctx, action)
	case models.ActionCreateFile:
		return d.createFile(ctx, action)
	case models.ActionDeleteRepo:
		return d.deleteRepo(ctx, action)
	case models.ActionSortRepos:
		return d.sortRepos(ctx, action)
	case models.ActionAnalyzeComplexity:
		return d.analyzeComplexity(ctx, action)
	case models.ActionCvRecommendations:
		return d.cvRecommendations(ctx)
	default:
		// general_response is answered by the service, not dispatched.
		return models.DispatchResult{Success: true}
	}
}

func (d *Dispatcher) createRepo(ctx context.Context, action models.ChatAction) models.DispatchResult {
	if d.mutator == nil {
		return writesUnavailable()
	}

	name := action.Name
	if name == "" {
		name = defaultRepoName
	}

	url, err := d.mutator.CreateRepository(ctx, github.CreateRepoParams{
		Name:              name,
		Description:       action.Description,
		Private:           action.IsPrivate,
		GitignoreTemplate: action.GitignoreTemplate,
		LicenseTemplate:   action.LicenseTemplate,
	})
	if err != nil {
		d.logger.Error("create repository failed", "name", name, "error", err)
		return failure(err, fmt.Sprintf("I couldn't create %s", name))
	}

	return models.DispatchResult{
		Success: true,
		Message: fmt.Sprintf("Created repository %s.", name),
		URL:     url,
	}
}

func (d *Dispatcher) createFile(ctx context.Context, action models.ChatAction) models.DispatchResult {
	if d.mutator == nil {
		return writesUnavailable()
	}
	if action.Repo == "" {
		return clarify("Which repository should the file go in?")
	}
	if action.Path == "" {
		return clarify("What should the file be called? I need a path for it.")
	}

	owner, repo := d.splitRepo(action.Repo)
	url, err := d.mutator.CreateFile(ctx, owner, repo, action.Path, action.Content, action.CommitMessage)
	if err != nil {
		d.logger.Error("create file failed", "repo", action.Repo, "path", action.Path, "error", err)
		return failure(err, fmt.Sprintf("I couldn't add %s to %s", action.Path, action.Repo))
	}

	return models.DispatchResult{
		Success: true,
		Message: fmt.Sprintf("Added %s to %s.", action.Path, repo),
		URL:     url,
	}
}

// deleteRepo implements the two-step confirmation: the first request only
// warns, and nothing is deleted until a follow-up arrives with Confirmed
// set.
func (d *Dispatcher) deleteRepo(ctx context.Context, action models.ChatAction) models.DispatchResult {
	if d.mutator == nil {
		return writesUnavailable()
	}
	if action.Repo == "" {
		return clarify("Which repository do you want to delete?")
	}

	if !action.Confirmed {
		return models.DispatchResult{
			Success:           true,
			NeedsConfirmation: true,
			Message:           fmt.Sprintf(deleteConfirmationPrompt, action.Repo),
		}
	}

	owner, repo := d.splitRepo(action.Repo)
	if err := d.mutator.DeleteRepository(ctx, owner, repo); err != nil {
		d.logger.Error("delete repository failed", "repo", action.Repo, "error", err)
		return failure(err, fmt.Sprintf("I couldn't delete %s", action.Repo))
	}

	return models.DispatchResult{
		Success: true,
		Message: fmt.Sprintf("Deleted repository %s.", repo),
	}
}

func (d *Dispatcher) sortRepos(ctx context.Context, action models.ChatAction) models.DispatchResult {
	items, result := d.loadInsights(ctx)
	if items == nil {
		return result
	}

	criterion, err := models.ParseSortCriterion(action.Criterion)
	if err != nil {
		criterion = models.SortByComplexity
	}
	direction, err := models.ParseSortDirection(action.Direction)
	if err != nil {
		direction = models.SortDesc
	}

	sorted := score.Sort(items, criterion, direction)
	repos := make([]models.RepositorySummary, len(sorted))
	for i, item := range sorted {
		repos[i] = item.Summary
	}

	return models.DispatchResult{
		Success: true,
		Message: fmt.Sprintf("Sorted %d repositories by %s (%s).", len(repos), criterion, direction),
		Repos:   repos,
	}
}

func (d *Dispatcher) analyzeComplexity(ctx context.Context, action models.ChatAction) models.DispatchResult {
	items, result := d.loadInsights(ctx)
	if items == nil {
		return result
	}

	if !action.AnalyzeAll && action.Repo != "" {
		for _, item := range items {
			if matchesRepo(item.Summary, action.Repo) {
				return models.DispatchResult{
					Success: true,
					Message: fmt.Sprintf("%s scores %d/100 (%s).",
						item.Summary.FullName, item.Complexity.Score, item.Complexity.Level),
					Insights: []models.RepositoryInsight{item},
				}
			}
		}
		return models.DispatchResult{
			Success: false,
			Message: fmt.Sprintf("I don't have a repository matching %q. Try a full name like owner/repo.", action.Repo),
		}
	}

	return models.DispatchResult{
		Success:  true,
		Message:  fmt.Sprintf("Analyzed the complexity of %d repositories.", len(items)),
		Insights: items,
	}
}

func (d *Dispatcher) cvRecommendations(ctx context.Context) models.DispatchResult {
	items, result := d.loadInsights(ctx)
	if items == nil {
		return result
	}

	set := score.Recommend(items, time.Now())
	return models.DispatchResult{
		Success:         true,
		Message:         fmt.Sprintf("Here are the top %d repositories for your CV.", len(set.Recommendations)),
		Recommendations: &set,
	}
}

// loadInsights fetches the scored portfolio. A nil slice return means the
// accompanying result should be returned to the user as-is.
func (d *Dispatcher) loadInsights(ctx context.Context) ([]models.RepositoryInsight, models.DispatchResult) {
	if d.insights == nil {
		return nil, models.DispatchResult{
			Success: false,
			Message: "Repository data is not available right now.",
		}
	}

	items, err := d.insights.Insights(ctx)
	if err != nil {
		d.logger.Error("loading repository insights failed", "error", err)
		return nil, failure(err, "I couldn't load your repositories")
	}
	if len(items) == 0 {
		return nil, models.DispatchResult{
			Success: false,
			Message: "I don't have any repository data yet. Run a sync first.",
		}
	}
	return items, models.DispatchResult{}
}

// splitRepo resolves "owner/repo" or a bare repository name against the
// configured owner.
func (d *Dispatcher) splitRepo(full string) (owner, repo string) {
	if idx := strings.IndexByte(full, '/'); idx >= 0 {
		return full[:idx], full[idx+1:]
	}
	return d.owner, full
}

func matchesRepo(s models.RepositorySummary, name string) bool {
	return strings.EqualFold(s.FullName, name) || strings.EqualFold(s.Name, name)
}

func writesUnavailable() models.DispatchResult {
	return models.DispatchResult{
		Success: false,
		Message: "GitHub write access is not configured, so I can't make changes. Set a token with repo scope first.",
	}
}

func clarify(question string) models.DispatchResult {
	return models.DispatchResult{Success: false, Message: question}
}

func failure(err error, prefix string) models.DispatchResult {
	return models.DispatchResult{
		Success: false,
		Message: fmt.Sprintf("%s: %v", prefix, err),
	}
}
