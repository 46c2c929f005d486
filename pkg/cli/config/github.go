package config

import "github.com/urfave/cli/v3"

// GitHub holds GitHub authentication and repository configuration
type GitHub struct {
	Token          string `masq:"secret"`
	Owner          string
	Repo           string
	WebhookSecret  string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "Token used for push authentication and API calls",
			Destination: &c.Token,
			Sources:     cli.EnvVars("IOCOST_BOT_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-owner",
			Usage:       "Owner of the benchmark repository",
			Value:       "iocost-benchmark",
			Destination: &c.Owner,
			Sources:     cli.EnvVars("IOCOST_BOT_GITHUB_OWNER"),
		},
		&cli.StringFlag{
			Name:        "github-repo",
			Usage:       "Name of the benchmark repository",
			Value:       "iocost-benchmarks",
			Destination: &c.Repo,
			Sources:     cli.EnvVars("IOCOST_BOT_GITHUB_REPO"),
		},
	}
}

// ServeFlags returns the additional flags of serve mode: webhook secret and
// GitHub App credentials
func (c *GitHub) ServeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret",
			Required:    true,
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("IOCOST_BOT_GITHUB_WEBHOOK_SECRET"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("IOCOST_BOT_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("IOCOST_BOT_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "GitHub App private key (PEM)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("IOCOST_BOT_GITHUB_PRIVATE_KEY"),
		},
	}
}

// HasAppCredentials reports whether GitHub App authentication is configured
func (c *GitHub) HasAppCredentials() bool {
	return c.AppID != 0 && c.InstallationID != 0 && c.PrivateKey != ""
}
