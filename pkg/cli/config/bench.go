package config

import (
	"path/filepath"

	"github.com/urfave/cli/v3"
)

// Bench holds the location of the resctl-bench binary
type Bench struct {
	Workspace string
	Binary    string
}

// Flags returns CLI flags for benchmark tool configuration
func (c *Bench) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "workspace",
			Usage:       "Workspace root containing the resctl-demo build",
			Value:       ".",
			Destination: &c.Workspace,
			Sources:     cli.EnvVars("IOCOST_BOT_WORKSPACE", "GITHUB_WORKSPACE"),
		},
		&cli.StringFlag{
			Name:        "bench-binary",
			Usage:       "Path to the resctl-bench binary (overrides the workspace default)",
			Destination: &c.Binary,
			Sources:     cli.EnvVars("IOCOST_BOT_BENCH_BINARY"),
		},
	}
}

// BinaryPath resolves the resctl-bench executable path
func (c *Bench) BinaryPath() string {
	if c.Binary != "" {
		return c.Binary
	}
	return filepath.Join(c.Workspace, "resctl-demo", "target", "release", "resctl-bench")
}
