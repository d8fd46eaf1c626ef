package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/licenses/cmd/app/commands"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-key-pair",
			Usage: "Generate an RSA key pair and write the sealed private and public keys",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "private-key",
					Usage: "Private key output path (defaults to PRIVATE_KEY_SOURCE)",
				},
				&cli.StringFlag{
					Name:  "public-key",
					Usage: "Public key output path (defaults to PUBLIC_KEY_SOURCE)",
				},
				&cli.IntFlag{
					Name:  "bits",
					Usage: "RSA modulus size: 2048, 3072 or 4096 (defaults to RSA_KEY_BITS)",
				},
				&cli.BoolFlag{
					Name:  "force",
					Usage: "Overwrite existing key files",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer(cmd)
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container)

				cfg := container.Config()
				opts := commands.KeyPairOptions{
					PrivateKeyPath: cfg.PrivateKeySource,
					PublicKeyPath:  cfg.PublicKeySource,
					Bits:           cfg.RSAKeyBits,
					Force:          cmd.Bool("force"),
				}
				if v := cmd.String("private-key"); v != "" {
					opts.PrivateKeyPath = v
				}
				if v := cmd.String("public-key"); v != "" {
					opts.PublicKeyPath = v
				}
				if v := int(cmd.Int("bits")); v != 0 {
					opts.Bits = v
				}

				loader, err := container.KeyLoader()
				if err != nil {
					return err
				}
				passwordProvider, err := container.PasswordProvider()
				if err != nil {
					return err
				}

				return commands.RunCreateKeyPair(
					ctx,
					container.KeyGenerator(),
					loader,
					passwordProvider,
					container.Logger(),
					commands.DefaultIO().Writer,
					opts,
				)
			},
		},
		{
			Name:  "create-payload-key",
			Usage: "Generate a random payload key for PAYLOAD_KEY",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer(cmd)
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container)

				return commands.RunCreatePayloadKey(
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}
