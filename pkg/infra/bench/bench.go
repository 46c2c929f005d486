// Package bench runs the resctl-bench binary as a subprocess. It backs the
// BenchTool interface; tests use in-memory fakes instead.
package bench

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/iocost-bot/pkg/domain/interfaces"
	"github.com/m-mizutani/iocost-bot/pkg/domain/model"
	"github.com/m-mizutani/iocost-bot/pkg/domain/types"
)

type runner struct {
	binPath string
	workDir string
}

// New creates a process-backed BenchTool. Commands run with workDir as their
// working directory, so result paths may be relative to it.
func New(binPath, workDir string) interfaces.BenchTool {
	return &runner{
		binPath: binPath,
		workDir: workDir,
	}
}

// Identify asks resctl-bench for the info report of a result file and
// returns the normalized model name from its first line.
func (x *runner) Identify(ctx context.Context, resultPath string) (model.ModelName, error) {
	out, err := x.run(ctx, "--result", resultPath, "info")
	if err != nil {
		return "", err
	}

	// First line of the info report is "<label>: <model description>"
	line, _, _ := strings.Cut(out, "\n")
	_, description, ok := strings.Cut(line, ": ")
	if !ok || strings.TrimSpace(description) == "" {
		return "", goerr.Wrap(types.ErrParseFailed, "info report has no model line",
			goerr.V("result", resultPath), goerr.V("stdout", out))
	}

	return model.NormalizeModelName(description)
}

// Merge folds the given result files into mergedPath, overwriting any
// previous artifact there
func (x *runner) Merge(ctx context.Context, mergedPath string, resultPaths []string) error {
	args := append([]string{"--result", mergedPath, "merge"}, resultPaths...)
	_, err := x.run(ctx, args...)
	return err
}

// run executes resctl-bench and returns its stdout. Anything on stderr is
// fatal regardless of exit code: the tool reports warnings there that the
// pipeline must not silently swallow.
func (x *runner) run(ctx context.Context, args ...string) (string, error) {
	logger := ctxlog.From(ctx)
	logger.Debug("Running resctl-bench", "bin", x.binPath, "args", args)

	cmd := exec.CommandContext(ctx, x.binPath, args...)
	cmd.Dir = x.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if stderr.Len() > 0 {
		return "", goerr.Wrap(types.ErrExternalTool, "resctl-bench wrote to stderr",
			goerr.V("args", args), goerr.V("stderr", stderr.String()))
	}
	if runErr != nil {
		return "", goerr.Wrap(types.ErrExternalTool, "failed to run resctl-bench",
			goerr.V("args", args), goerr.V("cause", runErr.Error()))
	}

	return stdout.String(), nil
}
