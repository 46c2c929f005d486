package cli

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/iocost-bot/pkg/cli/config"
	"github.com/m-mizutani/iocost-bot/pkg/domain/interfaces"
	"github.com/m-mizutani/iocost-bot/pkg/domain/model"
	"github.com/m-mizutani/iocost-bot/pkg/infra/bench"
	"github.com/m-mizutani/iocost-bot/pkg/infra/fetch"
	gitinfra "github.com/m-mizutani/iocost-bot/pkg/infra/git"
	githubinfra "github.com/m-mizutani/iocost-bot/pkg/infra/github"
	"github.com/m-mizutani/iocost-bot/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdRun() *cli.Command {
	var (
		eventCfg  config.Event
		githubCfg config.GitHub
		benchCfg  config.Bench
		gitCfg    config.Git
	)

	flags := eventCfg.Flags()
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, benchCfg.Flags()...)
	flags = append(flags, gitCfg.Flags()...)

	return &cli.Command{
		Name:  "run",
		Usage: "Process one repository event to completion and exit",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx).With(slog.String("run_id", uuid.NewString()))
			ctx = ctxlog.With(ctx, logger)

			logger.Debug("Configuration loaded",
				"github", githubCfg,
				"bench", benchCfg,
				"git", gitCfg,
			)

			if githubCfg.Token == "" {
				return goerr.New("a github token is required to publish the bot branch")
			}

			ev, err := model.ParseEventContext([]byte(eventCfg.Payload))
			if err != nil {
				return err
			}

			uc := buildIngest(&githubCfg, &benchCfg, &gitCfg)
			return uc.Ingest(ctx, ev)
		},
	}
}

// buildIngest wires the pipeline from configuration. Shared between run and
// serve mode.
func buildIngest(githubCfg *config.GitHub, benchCfg *config.Bench, gitCfg *config.Git) interfaces.IngestUseCase {
	opts := []usecase.IngestOption{
		usecase.WithRepoDir(gitCfg.RepoDir),
		usecase.WithDatabaseDir(gitCfg.DatabaseDir),
	}

	if len(gitCfg.Allowlist) > 0 {
		opts = append(opts, usecase.WithAllowlist(gitCfg.Allowlist))
	}

	if reporter := buildReporter(githubCfg); reporter != nil {
		opts = append(opts, usecase.WithReporter(reporter))
	}

	publisher := gitinfra.New(gitCfg.RepoDir, githubCfg.Token,
		gitinfra.WithRemote(gitCfg.Remote),
		gitinfra.WithBotIdentity(gitCfg.BotName, gitCfg.BotEmail),
	)

	return usecase.NewIngest(
		fetch.New(gitCfg.RepoDir),
		bench.New(benchCfg.BinaryPath(), gitCfg.RepoDir),
		publisher,
		opts...,
	)
}

// buildReporter picks GitHub App auth when configured, then token auth.
// Without credentials the post-publish follow-up is disabled.
func buildReporter(githubCfg *config.GitHub) interfaces.Reporter {
	if githubCfg.HasAppCredentials() {
		reporter, err := githubinfra.NewAppClient(
			githubCfg.AppID,
			githubCfg.InstallationID,
			[]byte(githubCfg.PrivateKey),
			githubCfg.Owner,
			githubCfg.Repo,
		)
		if err == nil {
			return reporter
		}
		slog.Default().Warn("Failed to create GitHub App client, falling back to token auth", "error", err)
	}

	if githubCfg.Token != "" {
		return githubinfra.NewClient(githubCfg.Token, githubCfg.Owner, githubCfg.Repo)
	}

	return nil
}
