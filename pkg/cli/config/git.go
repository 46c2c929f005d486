package config

import "github.com/urfave/cli/v3"

// Git holds the checkout layout and publishing configuration
type Git struct {
	RepoDir     string
	DatabaseDir string
	Remote      string
	BotName     string
	BotEmail    string
	Allowlist   []string
}

// Flags returns CLI flags for git and ingestion configuration
func (c *Git) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repo-dir",
			Usage:       "Root of the benchmark repository checkout",
			Value:       ".",
			Destination: &c.RepoDir,
			Sources:     cli.EnvVars("IOCOST_BOT_REPO_DIR"),
		},
		&cli.StringFlag{
			Name:        "database-dir",
			Usage:       "Result database directory, relative to the checkout root",
			Value:       "database",
			Destination: &c.DatabaseDir,
			Sources:     cli.EnvVars("IOCOST_BOT_DATABASE_DIR"),
		},
		&cli.StringFlag{
			Name:        "remote",
			Usage:       "Git remote the bot branch is pushed to",
			Value:       "origin",
			Destination: &c.Remote,
			Sources:     cli.EnvVars("IOCOST_BOT_REMOTE"),
		},
		&cli.StringFlag{
			Name:        "bot-name",
			Usage:       "Commit author name of the bot",
			Value:       "iocost bot",
			Destination: &c.BotName,
			Sources:     cli.EnvVars("IOCOST_BOT_NAME"),
		},
		&cli.StringFlag{
			Name:        "bot-email",
			Usage:       "Commit author email of the bot",
			Value:       "iocost-bot@users.noreply.github.com",
			Destination: &c.BotEmail,
			Sources:     cli.EnvVars("IOCOST_BOT_EMAIL"),
		},
		&cli.StringSliceFlag{
			Name:        "trusted-prefix",
			Usage:       "Trusted origin prefix result links must start with (repeatable)",
			Destination: &c.Allowlist,
			Sources:     cli.EnvVars("IOCOST_BOT_TRUSTED_PREFIXES"),
		},
	}
}
