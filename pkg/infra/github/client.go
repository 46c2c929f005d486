package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/iocost-bot/pkg/domain/interfaces"
)

// Client implements the Reporter interface over the GitHub API. It posts the
// review artifacts of a published branch: the pull request and the ack
// comment on the triggering issue.
type Client struct {
	githubClient *github.Client
	owner        string
	repo         string
}

// Option is a functional option for the client
type Option func(*Client)

// WithBaseURL points the client at a different API endpoint, mainly for tests
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
		if err == nil {
			c.githubClient.BaseURL = u
		}
	}
}

// NewClient creates a GitHub client authenticated with a workflow or
// personal token
func NewClient(token, owner, repo string, opts ...Option) interfaces.Reporter {
	c := &Client{
		githubClient: github.NewClient(nil).WithAuthToken(token),
		owner:        owner,
		repo:         repo,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewAppClient creates a GitHub client authenticated as a GitHub App
// installation, used by serve mode
func NewAppClient(appID, installationID int64, privateKey []byte, owner, repo string, opts ...Option) (interfaces.Reporter, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "creating GitHub App transport")
	}

	c := &Client{
		githubClient: github.NewClient(&http.Client{Transport: itr}),
		owner:        owner,
		repo:         repo,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// UpsertPullRequest opens a pull request from the bot branch to the default
// branch. Repeated runs for the same issue converge onto one branch, so an
// already-open PR for the branch is reused as-is.
func (c *Client) UpsertPullRequest(ctx context.Context, branch, title, body string) (string, error) {
	prs, _, err := c.githubClient.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
		Head:  c.owner + ":" + branch,
		State: "open",
	})
	if err != nil {
		return "", goerr.Wrap(err, "listing pull requests for branch", goerr.V("branch", branch))
	}
	if len(prs) > 0 {
		return prs[0].GetHTMLURL(), nil
	}

	repo, _, err := c.githubClient.Repositories.Get(ctx, c.owner, c.repo)
	if err != nil {
		return "", goerr.Wrap(err, "resolving default branch")
	}

	pr, _, err := c.githubClient.PullRequests.Create(ctx, c.owner, c.repo, &github.NewPullRequest{
		Title: github.Ptr(title),
		Body:  github.Ptr(body),
		Head:  github.Ptr(branch),
		Base:  github.Ptr(repo.GetDefaultBranch()),
	})
	if err != nil {
		return "", goerr.Wrap(err, "creating pull request", goerr.V("branch", branch))
	}

	return pr.GetHTMLURL(), nil
}

// CreateComment posts a comment on the triggering issue
func (c *Client) CreateComment(ctx context.Context, issueNumber int, body string) error {
	_, _, err := c.githubClient.Issues.CreateComment(ctx, c.owner, c.repo, issueNumber, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return goerr.Wrap(err, "creating issue comment", goerr.V("issue", issueNumber))
	}

	return nil
}
