package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/slovensko-digital/podanie-demo/cmd/app/commands"
	"github.com/slovensko-digital/podanie-demo/internal/app"
	"github.com/slovensko-digital/podanie-demo/internal/config"
)

func getCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "authorization-code",
			Usage: "Generate a partner authorization code",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				generator, err := container.AuthorizationCodeGenerator(ctx)
				if err != nil {
					return err
				}

				return commands.RunAuthorizationCode(
					generator,
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "mint-token",
			Usage: "Mint a delegated token for an OBO token",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "obo",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "The OBO token issued by the identity provider",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tokens, err := container.TokenService(ctx)
				if err != nil {
					return err
				}

				return commands.RunMintToken(
					tokens,
					commands.DefaultIO().Writer,
					cmd.String("obo"),
					cmd.String("format"),
				)
			},
		},
	}
}
