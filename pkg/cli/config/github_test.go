package config_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/iocost-bot/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func TestGitHub_ServeFlags(t *testing.T) {
	var cfg config.GitHub

	cmd := &cli.Command{
		Name:  "serve",
		Flags: append(cfg.Flags(), cfg.ServeFlags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			return nil
		},
	}

	err := cmd.Run(context.Background(), []string{
		"serve",
		"--github-webhook-secret", "hook-secret",
		"--github-app-id", "123456",
		"--github-installation-id", "7890123",
		"--github-private-key", "pem-content",
	})
	gt.NoError(t, err)

	gt.Equal(t, cfg.WebhookSecret, "hook-secret")
	gt.Equal(t, cfg.AppID, int64(123456))
	gt.Equal(t, cfg.InstallationID, int64(7890123))
	gt.Equal(t, cfg.PrivateKey, "pem-content")
	gt.True(t, cfg.HasAppCredentials())
}

func TestGitHub_HasAppCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.GitHub
		want bool
	}{
		{
			name: "all credentials present",
			cfg:  config.GitHub{AppID: 1, InstallationID: 2, PrivateKey: "k"},
			want: true,
		},
		{
			name: "missing app ID",
			cfg:  config.GitHub{InstallationID: 2, PrivateKey: "k"},
		},
		{
			name: "missing installation ID",
			cfg:  config.GitHub{AppID: 1, PrivateKey: "k"},
		},
		{
			name: "missing private key",
			cfg:  config.GitHub{AppID: 1, InstallationID: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Equal(t, tt.cfg.HasAppCredentials(), tt.want)
		})
	}
}
