package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/allisson/licenses/cmd/app/commands"
	"github.com/allisson/licenses/internal/httputil"
)

func getLicenseCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "sign-license",
			Usage: "Sign a license described by a JSON document",
			Flags: []cli.Flag{
				inputFlag("JSON license attributes file, or '-' for standard input"),
				&cli.BoolFlag{
					Name:  "record",
					Usage: "Record the signed license in the issued-license ledger",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer(cmd)
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container)

				opts := commands.SignLicenseOptions{
					Input:  cmd.String("input"),
					Format: cmd.String("format"),
				}

				if cmd.Bool("record") {
					ledger, err := container.LedgerUseCase()
					if err != nil {
						return err
					}
					return commands.RunIssueLicense(ctx, ledger, container.Logger(), commands.DefaultIO(), opts)
				}

				issuer, err := container.Issuer()
				if err != nil {
					return err
				}
				return commands.RunSignLicense(ctx, issuer, container.Logger(), commands.DefaultIO(), opts)
			},
		},
		{
			Name:  "verify-license",
			Usage: "Verify a signed license and print its attributes",
			Flags: []cli.Flag{
				inputFlag("Signed license file, or '-' for standard input"),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer(cmd)
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container)

				verifier, err := container.Verifier()
				if err != nil {
					return err
				}

				return commands.RunVerifyLicense(
					ctx,
					verifier,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("input"),
					cmd.String("format"),
					time.Now(),
				)
			},
		},
		{
			Name:      "check-features",
			Usage:     "Check whether a signed license grants features",
			ArgsUsage: "FEATURE [FEATURE...]",
			Flags: []cli.Flag{
				inputFlag("Signed license file, or '-' for standard input"),
				&cli.StringFlag{
					Name:    "operand",
					Aliases: []string{"o"},
					Value:   "and",
					Usage:   "Combine features with 'and' (all required) or 'or' (any suffices)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer(cmd)
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container)

				manager, err := container.LicenseManager()
				if err != nil {
					return err
				}

				return commands.RunCheckFeatures(
					ctx,
					manager,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("input"),
					cmd.String("operand"),
					cmd.Args().Slice(),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "list-licenses",
			Usage: "List licenses recorded in the issued-license ledger",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "offset",
					Value: 0,
					Usage: "Number of records to skip",
				},
				&cli.IntFlag{
					Name:  "limit",
					Value: httputil.DefaultLimit,
					Usage: "Maximum number of records to print",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer(cmd)
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container)

				repo, err := container.IssuedLicenseRepository()
				if err != nil {
					return err
				}

				return commands.RunListLicenses(
					ctx,
					repo,
					container.Logger(),
					commands.DefaultIO(),
					int(cmd.Int("offset")),
					int(cmd.Int("limit")),
					cmd.String("format"),
				)
			},
		},
	}
}
