// Package git publishes the accumulated changes of a run by shelling out to
// the git CLI of the checkout: stage, commit, branch, push, in that order,
// with no retries.
package git

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/iocost-bot/pkg/domain/interfaces"
	"github.com/m-mizutani/iocost-bot/pkg/domain/model"
	"github.com/m-mizutani/iocost-bot/pkg/domain/types"
)

const (
	defaultRemote    = "origin"
	defaultUserName  = "iocost bot"
	defaultUserEmail = "iocost-bot@users.noreply.github.com"
	defaultPushUser  = "iocost-bot"
)

type publisher struct {
	repoDir   string
	token     string
	remote    string
	userName  string
	userEmail string
	pushUser  string
	pushURL   string
}

// Option is a functional option for the publisher
type Option func(*publisher)

// WithRemote overrides the remote the bot branch is pushed to
func WithRemote(remote string) Option {
	return func(p *publisher) {
		p.remote = remote
	}
}

// WithBotIdentity overrides the author/committer identity of bot commits
func WithBotIdentity(name, email string) Option {
	return func(p *publisher) {
		p.userName = name
		p.userEmail = email
	}
}

// WithPushURL pushes to the given URL directly instead of resolving the
// configured remote and embedding credentials. Used when the push target is
// not an HTTP remote, e.g. a local repository.
func WithPushURL(url string) Option {
	return func(p *publisher) {
		p.pushURL = url
	}
}

// New creates a Publisher operating on the git checkout at repoDir. The
// token is used as password-equivalent credentials on push and never reaches
// the on-disk git config.
func New(repoDir, token string, opts ...Option) interfaces.Publisher {
	p := &publisher{
		repoDir:   repoDir,
		token:     token,
		remote:    defaultRemote,
		userName:  defaultUserName,
		userEmail: defaultUserEmail,
		pushUser:  defaultPushUser,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Publish stages every path in the change set, commits with the bot
// identity, force-updates the bot branch of the issue and pushes it. Each
// step is fatal on failure. An empty change set is a no-op: an empty commit
// is not a valid outcome.
func (x *publisher) Publish(ctx context.Context, changes *model.ChangeSet, issueNumber int) error {
	if changes.Empty() {
		return nil
	}

	logger := ctxlog.From(ctx)

	stageArgs := append([]string{"add", "--"}, changes.Files()...)
	if _, err := x.git(ctx, stageArgs...); err != nil {
		return goerr.Wrap(err, "staging changed paths", goerr.V("operation", "stage"))
	}

	msg := CommitMessage(changes)
	if _, err := x.git(ctx,
		"-c", "user.name="+x.userName,
		"-c", "user.email="+x.userEmail,
		"commit", "-m", msg,
	); err != nil {
		return goerr.Wrap(err, "committing changes", goerr.V("operation", "commit"))
	}

	branch := fmt.Sprintf("%s/%d", types.BranchPrefix, issueNumber)
	if _, err := x.git(ctx, "branch", "-f", branch, "HEAD"); err != nil {
		return goerr.Wrap(err, "updating bot branch", goerr.V("operation", "branch"), goerr.V("branch", branch))
	}

	pushURL := x.pushURL
	if pushURL == "" {
		remoteURL, err := x.git(ctx, "remote", "get-url", x.remote)
		if err != nil {
			return goerr.Wrap(err, "resolving remote URL", goerr.V("operation", "push"), goerr.V("remote", x.remote))
		}

		pushURL, err = AuthURL(strings.TrimSpace(remoteURL), x.pushUser, x.token)
		if err != nil {
			return err
		}
	}

	if _, err := x.git(ctx, "push", "--force", pushURL, "refs/heads/"+branch); err != nil {
		return goerr.Wrap(err, "pushing bot branch", goerr.V("operation", "push"), goerr.V("branch", branch))
	}

	logger.Info("Published bot branch",
		"branch", branch,
		"remote", x.remote,
		"files", len(changes.Files()),
		"message", msg,
	)

	return nil
}

// git runs one git command in the checkout and returns its combined output.
// The token is scrubbed from failure output before it ends up in an error.
func (x *publisher) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = x.repoDir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return "", goerr.Wrap(types.ErrGit, "git command failed",
			goerr.V("args", scrub(args, x.token)),
			goerr.V("output", scrubString(out.String(), x.token)),
			goerr.V("cause", err.Error()),
		)
	}

	return out.String(), nil
}

// AuthURL embeds basic credentials into an HTTP remote URL for a single
// push, leaving the configured remote untouched
func AuthURL(remote, user, token string) (string, error) {
	u, err := url.Parse(remote)
	if err != nil || u.Scheme != "http" && u.Scheme != "https" {
		return "", goerr.Wrap(types.ErrGit, "remote is not an HTTP URL", goerr.V("remote", remote))
	}

	u.User = url.UserPassword(user, token)
	return u.String(), nil
}

// CommitMessage lists the touched model directories, comma-joined in
// first-touch order
func CommitMessage(changes *model.ChangeSet) string {
	names := make([]string, 0, len(changes.TouchedModels()))
	for _, name := range changes.TouchedModels() {
		names = append(names, string(name))
	}
	return fmt.Sprintf("Import benchmark results: %s", strings.Join(names, ", "))
}

func scrub(args []string, token string) []string {
	if token == "" {
		return args
	}
	scrubbed := make([]string, len(args))
	for i, a := range args {
		scrubbed[i] = scrubString(a, token)
	}
	return scrubbed
}

func scrubString(s, token string) string {
	if token == "" {
		return s
	}
	return strings.ReplaceAll(s, token, "***")
}
