package github

import (
	"context"

	"github.com/shurcooL/githubv4"
)

// PinnedRepositories returns the full names of the user's pinned
// repositories. Pins only exist in the GraphQL API, and they seed the
// featured flag on first sync.
func (c *Client) PinnedRepositories(ctx context.Context, login string) ([]string, error) {
	var query struct {
		User struct {
			PinnedItems struct {
				Nodes []struct {
					Repository struct {
						NameWithOwner githubv4.String
					} `graphql:"... on Repository"`
				}
			} `graphql:"pinnedItems(first: 6, types: REPOSITORY)"`
		} `graphql:"user(login: $login)"`
	}

	variables := map[string]interface{}{
		"login": githubv4.String(login),
	}

	if err := c.graphql.Query(ctx, &query, variables); err != nil {
		return nil, WrapError(err, "POST", "/graphql")
	}

	pinned := make([]string, 0, len(query.User.PinnedItems.Nodes))
	for _, node := range query.User.PinnedItems.Nodes {
		if name := string(node.Repository.NameWithOwner); name != "" {
			pinned = append(pinned, name)
		}
	}
	return pinned, nil
}
