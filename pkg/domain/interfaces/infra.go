package interfaces

import (
	"context"

	"github.com/m-mizutani/iocost-bot/pkg/domain/model"
)

// Fetcher downloads a result file from a trusted origin and stores it under
// its content-hash name
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*model.DownloadedResult, error)
}

// BenchTool is the narrow capability interface over the external benchmark
// tool. The process-backed implementation lives in pkg/infra/bench; tests
// use in-memory fakes.
type BenchTool interface {
	// Identify derives the normalized model name of a result file
	Identify(ctx context.Context, resultPath string) (model.ModelName, error)

	// Merge folds the given result files into a single artifact at mergedPath
	Merge(ctx context.Context, mergedPath string, resultPaths []string) error
}

// Publisher stages the accumulated changes, commits them and pushes the bot
// branch of the triggering issue
type Publisher interface {
	Publish(ctx context.Context, changes *model.ChangeSet, issueNumber int) error
}

// Reporter posts review artifacts after a successful push. Reporter failures
// are not fatal: the branch has already been published.
type Reporter interface {
	// UpsertPullRequest opens a pull request for the branch, or reuses the
	// open one if repeated runs already created it. Returns the PR URL.
	UpsertPullRequest(ctx context.Context, branch, title, body string) (string, error)

	// CreateComment posts a comment on the triggering issue
	CreateComment(ctx context.Context, issueNumber int, body string) error
}
