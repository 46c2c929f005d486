package config

import "github.com/urfave/cli/v3"

// Event holds the serialized event payload of a one-shot run. The workflow
// runner exposes it as the GITHUB_CONTEXT environment variable.
type Event struct {
	Payload string
}

// Flags returns CLI flags for the event payload
func (c *Event) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "event-payload",
			Usage:       "Serialized repository event payload (JSON)",
			Required:    true,
			Destination: &c.Payload,
			Sources:     cli.EnvVars("IOCOST_BOT_EVENT_PAYLOAD", "GITHUB_CONTEXT"),
		},
	}
}
