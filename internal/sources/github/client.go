package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// defaultTimeout is the HTTP request timeout for API calls.
const defaultTimeout = 30 * time.Second

// client wraps the go-github client with rate limiting and error
// translation.
type client struct {
	gh      *gh.Client
	limiter *rateLimiter
}

// newClient creates an API client. With an empty token requests are
// unauthenticated, which works for public repositories only.
func newClient(ctx context.Context, token string) *client {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = defaultTimeout

	return &client{
		gh:      gh.NewClient(httpClient),
		limiter: newRateLimiter(),
	}
}

// getRepository fetches repository metadata, including the default branch.
func (c *client) getRepository(ctx context.Context, owner, repo string) (*gh.Repository, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	repository, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, c.wrapError(err, "get repo")
	}
	c.updateLimits(resp)
	return repository, nil
}

// getTree fetches the entire tree for a ref recursively. One API call
// returns every file path in the repository.
func (c *client) getTree(ctx context.Context, owner, repo, ref string) (*gh.Tree, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	tree, resp, err := c.gh.Git.GetTree(ctx, owner, repo, ref, true)
	if err != nil {
		return nil, c.wrapError(err, "get tree")
	}
	c.updateLimits(resp)
	return tree, nil
}

// getBlob fetches a git blob by SHA.
func (c *client) getBlob(ctx context.Context, owner, repo, sha string) (*gh.Blob, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	blob, resp, err := c.gh.Git.GetBlob(ctx, owner, repo, sha)
	if err != nil {
		return nil, c.wrapError(err, "get blob")
	}
	c.updateLimits(resp)
	return blob, nil
}

func (c *client) updateLimits(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.limiter.update(resp.Response)
}

// wrapError converts go-github errors to this package's error types.
func (c *client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		remaining, limit, resetAt := c.limiter.state()
		return &RateLimitError{
			ResetAt:   resetAt,
			Remaining: remaining,
			Limit:     limit,
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}
