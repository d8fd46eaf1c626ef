// Package main provides the entry point for the licensing CLI.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "licenses",
		Usage:   "Create keys, sign and verify software licenses",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "metrics-textfile",
				Usage: "Write the metrics of this run to a node_exporter textfile (overrides METRICS_TEXTFILE)",
			},
		},
		Commands: getCommands(),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
