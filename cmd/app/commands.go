package main

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/licenses/internal/app"
	"github.com/allisson/licenses/internal/config"
)

func getCommands() []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands()...)
	cmds = append(cmds, getKeyCommands()...)
	cmds = append(cmds, getLicenseCommands()...)
	return cmds
}

// newContainer loads and validates the configuration and applies global flags.
func newContainer(cmd *cli.Command) (*app.Container, error) {
	cfg := config.Load()
	if path := cmd.String("metrics-textfile"); path != "" {
		cfg.MetricsTextfile = path
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return app.NewContainer(cfg), nil
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func inputFlag(usage string) cli.Flag {
	return &cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Value:   "-",
		Usage:   usage,
	}
}
