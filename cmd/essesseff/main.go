package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/essesseff/essesseff-cli/cmd/essesseff/commands"
	"github.com/essesseff/essesseff-cli/internal/config"
	"github.com/essesseff/essesseff-cli/internal/di"
)

func main() {
	logger := di.ProvideLogger()
	ctx := logger.WithContext(context.Background())

	app := &cli.App{
		Name:  "essesseff",
		Usage: "Onboard applications onto the essesseff platform",
		Description: `A CLI for scaffolding applications against the essesseff platform.

This tool provides commands for:
  - Browsing global and account-scoped app templates
  - Creating a new app from a template
  - Setting up per-environment Argo CD GitOps repositories`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "Path to the settings file",
				Value:   config.DefaultFile,
				EnvVars: []string{"ESSESSEFF_ENV_FILE"},
			},
			&cli.StringFlag{
				Name:  "workspace-dir",
				Usage: "Directory where per-environment GitOps checkouts are created",
				Value: ".",
			},
			&cli.IntFlag{
				Name:  "max-429-retries",
				Usage: "Bound the number of retries after rate-limited API responses (0 = unbounded)",
			},
		},
		Commands: []*cli.Command{
			commands.TemplatesCommand(&logger),
			commands.CreateAppCommand(&logger),
			commands.SetupArgoCDCommand(&logger),
			commands.OnboardCommand(&logger),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
