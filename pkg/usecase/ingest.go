package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/iocost-bot/pkg/domain/interfaces"
	"github.com/m-mizutani/iocost-bot/pkg/domain/model"
	"github.com/m-mizutani/iocost-bot/pkg/domain/types"
)

// DefaultAllowlist holds the trusted origins result files may be downloaded
// from. It is the default of WithAllowlist, not a hard-coded policy: tests
// and deployments inject their own prefixes.
var DefaultAllowlist = []string{
	"https://github.com/iocost-benchmark/iocost-benchmarks/files/",
	"https://iocost-submit.s3.eu-west-1.amazonaws.com/",
}

type ingestUseCase struct {
	fetcher   interfaces.Fetcher
	bench     interfaces.BenchTool
	publisher interfaces.Publisher
	reporter  interfaces.Reporter

	allowlist   []string
	repoDir     string
	databaseDir string

	// One run owns the checkout and the database tree exclusively. The
	// pipeline is not safe to run concurrently, so serve mode serializes
	// deliveries here.
	mu sync.Mutex
}

// IngestOption configures the ingest use case
type IngestOption func(*ingestUseCase)

// WithAllowlist overrides the trusted-origin prefixes
func WithAllowlist(prefixes []string) IngestOption {
	return func(uc *ingestUseCase) {
		uc.allowlist = prefixes
	}
}

// WithRepoDir sets the root of the git checkout. All change-set paths are
// kept relative to it.
func WithRepoDir(dir string) IngestOption {
	return func(uc *ingestUseCase) {
		uc.repoDir = dir
	}
}

// WithDatabaseDir sets the result database directory, relative to the
// checkout root
func WithDatabaseDir(dir string) IngestOption {
	return func(uc *ingestUseCase) {
		uc.databaseDir = dir
	}
}

// WithReporter enables post-publish follow-up (pull request and issue
// comment). Without it the pipeline stops after the push.
func WithReporter(reporter interfaces.Reporter) IngestOption {
	return func(uc *ingestUseCase) {
		uc.reporter = reporter
	}
}

// NewIngest creates the ingestion pipeline use case
func NewIngest(
	fetcher interfaces.Fetcher,
	bench interfaces.BenchTool,
	publisher interfaces.Publisher,
	opts ...IngestOption,
) interfaces.IngestUseCase {
	uc := &ingestUseCase{
		fetcher:     fetcher,
		bench:       bench,
		publisher:   publisher,
		allowlist:   DefaultAllowlist,
		repoDir:     ".",
		databaseDir: "database",
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Ingest runs the whole pipeline for one event. Any stage failure aborts the
// entire run: a partially processed batch must never be published, and the
// filesystem is intentionally left as-is for the next attempt.
func (uc *ingestUseCase) Ingest(ctx context.Context, ev *model.EventContext) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	logger := ctxlog.From(ctx)

	if ev.Skip() {
		logger.Info("Issue is locked or not open, nothing to do",
			"issue", ev.Issue.Number,
			"locked", ev.Issue.Locked,
			"state", ev.Issue.State,
		)
		return nil
	}

	body, err := ev.ResolveBody()
	if err != nil {
		return err
	}

	accepted, rejected := ExtractLinks(body, uc.allowlist)
	for _, link := range rejected {
		logger.Info("Ignoring URL outside the trusted origins", "url", link)
	}
	if len(accepted) == 0 {
		logger.Info("No trusted result links found", "issue", ev.Issue.Number)
		return nil
	}

	changes := model.NewChangeSet()

	for _, link := range accepted {
		result, err := uc.fetcher.Fetch(ctx, link)
		if err != nil {
			return err
		}

		name, err := uc.bench.Identify(ctx, result.Path)
		if err != nil {
			return err
		}

		dest, err := uc.place(result, name)
		if err != nil {
			return err
		}

		changes.AddFile(dest)
		changes.Touch(name, filepath.Dir(dest))

		logger.Info("Imported result file",
			"url", link,
			"model", string(name),
			"path", dest,
			"size_bytes", result.Size,
		)
	}

	for _, name := range changes.TouchedModels() {
		mergedPath, err := uc.mergeDir(ctx, changes.Dir(name))
		if err != nil {
			return err
		}
		changes.AddFile(mergedPath)

		logger.Info("Merged results", "model", string(name), "path", mergedPath)
	}

	if changes.Empty() {
		return nil
	}

	if err := uc.publisher.Publish(ctx, changes, ev.Issue.Number); err != nil {
		return err
	}

	uc.report(ctx, ev, accepted, changes)

	return nil
}

// place moves a downloaded result into its model directory, creating the
// directory if absent. Pre-existing directories and sibling files are left
// untouched. Returns the destination path relative to the checkout root.
func (uc *ingestUseCase) place(result *model.DownloadedResult, name model.ModelName) (string, error) {
	relDir := filepath.Join(uc.databaseDir, string(name))
	if err := os.MkdirAll(filepath.Join(uc.repoDir, relDir), 0755); err != nil {
		return "", goerr.Wrap(types.ErrMoveFailed, "creating model directory",
			goerr.V("dir", relDir), goerr.V("cause", err.Error()))
	}

	dest := filepath.Join(relDir, model.ResultFileName(result.Hash))
	if err := os.Rename(filepath.Join(uc.repoDir, result.Path), filepath.Join(uc.repoDir, dest)); err != nil {
		return "", goerr.Wrap(types.ErrMoveFailed, "moving result into model directory",
			goerr.V("src", result.Path), goerr.V("dest", dest), goerr.V("cause", err.Error()))
	}

	return dest, nil
}

// mergeDir folds every result file currently present in the model directory
// into the merge artifact, overwriting any previous one. Enumeration order
// is filesystem-dependent; the merge is commutative over its inputs.
func (uc *ingestUseCase) mergeDir(ctx context.Context, relDir string) (string, error) {
	results, err := ResultFilesInDir(uc.repoDir, relDir)
	if err != nil {
		return "", err
	}

	mergedPath := filepath.Join(relDir, model.MergedResultFile)
	if err := uc.bench.Merge(ctx, mergedPath, results); err != nil {
		return "", err
	}

	return mergedPath, nil
}

// ResultFilesInDir lists every individual result file in a model directory,
// as paths relative to the checkout root
func ResultFilesInDir(repoDir, relDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(repoDir, relDir, model.ResultFilePattern))
	if err != nil {
		return nil, goerr.Wrap(types.ErrMoveFailed, "listing result files", goerr.V("dir", relDir))
	}

	results := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(repoDir, m)
		if err != nil {
			return nil, goerr.Wrap(types.ErrMoveFailed, "resolving result path", goerr.V("path", m))
		}
		results = append(results, rel)
	}

	return results, nil
}

// report posts the pull request and issue comment for a published branch.
// The push already succeeded, so failures here only warn.
func (uc *ingestUseCase) report(ctx context.Context, ev *model.EventContext, urls []string, changes *model.ChangeSet) {
	if uc.reporter == nil {
		return
	}

	logger := ctxlog.From(ctx)

	models := make([]string, 0, len(changes.TouchedModels()))
	for _, name := range changes.TouchedModels() {
		models = append(models, string(name))
	}

	branch := fmt.Sprintf("%s/%d", types.BranchPrefix, ev.Issue.Number)
	title := fmt.Sprintf("Import benchmark results for %s", strings.Join(models, ", "))
	body := fmt.Sprintf("Imported %d result file(s) submitted in #%d.\n\nModels updated: %s\n",
		len(urls), ev.Issue.Number, strings.Join(models, ", "))

	prURL, err := uc.reporter.UpsertPullRequest(ctx, branch, title, body)
	if err != nil {
		logger.Warn("Failed to open pull request for bot branch", "branch", branch, "error", err)
		return
	}

	comment := fmt.Sprintf("Thanks! Imported %d result file(s): %s", len(urls), prURL)
	if err := uc.reporter.CreateComment(ctx, ev.Issue.Number, comment); err != nil {
		logger.Warn("Failed to comment on issue", "issue", ev.Issue.Number, "error", err)
	}
}
