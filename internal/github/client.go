// Package github wraps the GitHub REST and GraphQL APIs behind the
// operations this application needs: listing and enriching the account's
// repositories, and the mutations driven by chat actions.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// Client wraps GitHub REST and GraphQL clients with retry logic.
type Client struct {
	rest    *github.Client
	graphql *githubv4.Client
	baseURL string
	retryer *Retryer
	logger  *slog.Logger
}

// ClientConfig configures the GitHub client.
type ClientConfig struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	RetryConfig RetryConfig
	Logger      *slog.Logger
}

// GitHubAPIURL is the standard GitHub.com API URL.
const GitHubAPIURL = "https://api.github.com"

// NewClient creates a new GitHub client with retry logic.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryConfig.MaxAttempts == 0 {
		cfg.RetryConfig = DefaultRetryConfig()
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.Token},
	)
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = cfg.Timeout

	var restClient *github.Client
	if cfg.BaseURL == "" || cfg.BaseURL == GitHubAPIURL {
		restClient = github.NewClient(httpClient)
	} else {
		var err error
		restClient, err = github.NewClient(httpClient).WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, WrapError(err, "NewClient", cfg.BaseURL)
		}
	}

	graphqlClient := githubv4.NewClient(httpClient)
	if cfg.BaseURL != "" && cfg.BaseURL != GitHubAPIURL {
		graphqlClient = githubv4.NewEnterpriseClient(buildGraphQLURL(cfg.BaseURL), httpClient)
	}

	return &Client{
		rest:    restClient,
		graphql: graphqlClient,
		baseURL: cfg.BaseURL,
		retryer: NewRetryer(cfg.RetryConfig, cfg.Logger),
		logger:  cfg.Logger,
	}, nil
}

// buildGraphQLURL derives the GraphQL endpoint for enterprise instances.
// GHES serves GraphQL under /api/graphql, not /api/v3.
func buildGraphQLURL(baseURL string) string {
	url := strings.TrimSuffix(baseURL, "/")
	url = strings.TrimSuffix(url, "/api/v3")
	url = strings.TrimSuffix(url, "/api")
	return url + "/api/graphql"
}

// AuthenticatedLogin returns the login of the token's user.
func (c *Client) AuthenticatedLogin(ctx context.Context) (string, error) {
	user, err := DoWithRetry(ctx, c.retryer, "get authenticated user",
		func(ctx context.Context) (*github.User, error) {
			u, _, err := c.rest.Users.Get(ctx, "")
			return u, WrapError(err, "GET", "/user")
		})
	if err != nil {
		return "", err
	}
	return user.GetLogin(), nil
}

// ListRepositories lists all repositories of the given user, following
// pagination. An empty username means the authenticated user (which also
// includes private repositories).
func (c *Client) ListRepositories(ctx context.Context, username string) ([]*github.Repository, error) {
	var all []*github.Repository

	if username == "" {
		opts := &github.RepositoryListByAuthenticatedUserOptions{
			Sort:        "updated",
			ListOptions: github.ListOptions{PerPage: 100},
		}
		for {
			repos, resp, err := c.listAuthenticatedPage(ctx, opts)
			if err != nil {
				return nil, err
			}
			all = append(all, repos...)
			if resp == nil || resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return all, nil
	}

	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		var resp *github.Response
		repos, err := DoWithRetry(ctx, c.retryer, "list user repositories",
			func(ctx context.Context) ([]*github.Repository, error) {
				var err error
				var page []*github.Repository
				page, resp, err = c.rest.Repositories.ListByUser(ctx, username, opts)
				return page, WrapError(err, "GET", "/users/"+username+"/repos")
			})
		if err != nil {
			return nil, err
		}
		all = append(all, repos...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func (c *Client) listAuthenticatedPage(ctx context.Context, opts *github.RepositoryListByAuthenticatedUserOptions) ([]*github.Repository, *github.Response, error) {
	var resp *github.Response
	repos, err := DoWithRetry(ctx, c.retryer, "list repositories",
		func(ctx context.Context) ([]*github.Repository, error) {
			var err error
			var page []*github.Repository
			page, resp, err = c.rest.Repositories.ListByAuthenticatedUser(ctx, opts)
			return page, WrapError(err, "GET", "/user/repos")
		})
	return repos, resp, err
}

// GetRepository fetches one repository by owner and name.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error) {
	return DoWithRetry(ctx, c.retryer, "get repository",
		func(ctx context.Context) (*github.Repository, error) {
			r, _, err := c.rest.Repositories.Get(ctx, owner, repo)
			return r, WrapError(err, "GET", fmt.Sprintf("/repos/%s/%s", owner, repo))
		})
}

// ListLanguages fetches the per-language byte breakdown for a repository.
func (c *Client) ListLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	return DoWithRetry(ctx, c.retryer, "list languages",
		func(ctx context.Context) (map[string]int, error) {
			langs, _, err := c.rest.Repositories.ListLanguages(ctx, owner, repo)
			return langs, WrapError(err, "GET", fmt.Sprintf("/repos/%s/%s/languages", owner, repo))
		})
}

// HasReadme reports whether the repository has a README. A 404 is a normal
// answer, not an error.
func (c *Client) HasReadme(ctx context.Context, owner, repo string) (bool, error) {
	_, err := DoWithRetry(ctx, c.retryer, "get readme",
		func(ctx context.Context) (*github.RepositoryContent, error) {
			readme, _, err := c.rest.Repositories.GetReadme(ctx, owner, repo, nil)
			return readme, WrapError(err, "GET", fmt.Sprintf("/repos/%s/%s/readme", owner, repo))
		})
	if err != nil {
		if IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetReadmeContent fetches the decoded README text, or "" when absent.
func (c *Client) GetReadmeContent(ctx context.Context, owner, repo string) (string, error) {
	readme, err := DoWithRetry(ctx, c.retryer, "get readme",
		func(ctx context.Context) (*github.RepositoryContent, error) {
			r, _, err := c.rest.Repositories.GetReadme(ctx, owner, repo, nil)
			return r, WrapError(err, "GET", fmt.Sprintf("/repos/%s/%s/readme", owner, repo))
		})
	if err != nil {
		if IsNotFoundError(err) {
			return "", nil
		}
		return "", err
	}
	content, err := readme.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode readme content: %w", err)
	}
	return content, nil
}

// ListTopLevelContents lists the names of the repository's top-level files
// and directories, feeding the contents-based complexity variant.
func (c *Client) ListTopLevelContents(ctx context.Context, owner, repo string) ([]string, error) {
	entries, err := DoWithRetry(ctx, c.retryer, "list contents",
		func(ctx context.Context) ([]*github.RepositoryContent, error) {
			_, dir, _, err := c.rest.Repositories.GetContents(ctx, owner, repo, "", nil)
			return dir, WrapError(err, "GET", fmt.Sprintf("/repos/%s/%s/contents", owner, repo))
		})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.GetName())
	}
	return names, nil
}
