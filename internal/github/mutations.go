package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v75/github"
)

// CreateRepoParams are the structured parameters for creating a repository.
type CreateRepoParams struct {
	Name              string
	Description       string
	Private           bool
	GitignoreTemplate string
	LicenseTemplate   string
}

// CreateRepository creates a repository for the authenticated user and
// returns its HTML URL. The repository is initialized so files can be
// committed to it immediately.
func (c *Client) CreateRepository(ctx context.Context, params CreateRepoParams) (string, error) {
	if params.Name == "" {
		return "", fmt.Errorf("repository name is required")
	}

	repo := &github.Repository{
		Name:     github.Ptr(params.Name),
		Private:  github.Ptr(params.Private),
		AutoInit: github.Ptr(true),
	}
	if params.Description != "" {
		repo.Description = github.Ptr(params.Description)
	}
	if params.GitignoreTemplate != "" {
		repo.GitignoreTemplate = github.Ptr(params.GitignoreTemplate)
	}
	if params.LicenseTemplate != "" {
		repo.LicenseTemplate = github.Ptr(params.LicenseTemplate)
	}

	created, err := DoWithRetry(ctx, c.retryer, "create repository",
		func(ctx context.Context) (*github.Repository, error) {
			r, _, err := c.rest.Repositories.Create(ctx, "", repo)
			return r, WrapError(err, "POST", "/user/repos")
		})
	if err != nil {
		return "", err
	}

	c.logger.Info("repository created", "name", created.GetFullName())
	return created.GetHTMLURL(), nil
}

// CreateFile commits a new file to the repository's default branch and
// returns the commit's HTML URL.
func (c *Client) CreateFile(ctx context.Context, owner, repo, path, content, message string) (string, error) {
	if repo == "" || path == "" {
		return "", fmt.Errorf("repository and file path are required")
	}
	if message == "" {
		message = "Add " + path
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		Content: []byte(content),
	}

	resp, err := DoWithRetry(ctx, c.retryer, "create file",
		func(ctx context.Context) (*github.RepositoryContentResponse, error) {
			r, _, err := c.rest.Repositories.CreateFile(ctx, owner, repo, path, opts)
			return r, WrapError(err, "PUT", fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path))
		})
	if err != nil {
		return "", err
	}

	c.logger.Info("file created", "repo", owner+"/"+repo, "path", path)
	return resp.Commit.GetHTMLURL(), nil
}

// DeleteRepository deletes a repository. The caller is responsible for
// confirmation; this call is irreversible. Deletes are never retried so a
// slow response cannot turn into a duplicate destructive call.
func (c *Client) DeleteRepository(ctx context.Context, owner, repo string) error {
	if repo == "" {
		return fmt.Errorf("repository name is required")
	}

	_, err := c.rest.Repositories.Delete(ctx, owner, repo)
	if err != nil {
		return WrapError(err, "DELETE", fmt.Sprintf("/repos/%s/%s", owner, repo))
	}

	c.logger.Warn("repository deleted", "repo", owner+"/"+repo)
	return nil
}
