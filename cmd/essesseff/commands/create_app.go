package commands

import (
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/essesseff/essesseff-cli/internal/apps"
	"github.com/essesseff/essesseff-cli/internal/config"
)

// CreateAppCommand returns the create-app command for scaffolding a new app
// from a template.
func CreateAppCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "create-app",
		Usage: "Create a new app from the configured template",
		Description: `Create a new application on the essesseff platform.

The app name, template, and visibility are taken from the settings file.
The command validates the name, checks that the app does not already exist,
resolves the template descriptor, and submits the creation request.`,
		Action: createAppAction,
	}
}

func createAppAction(c *cli.Context) error {
	container, err := newContainer(c)
	if err != nil {
		return err
	}

	return container.Invoke(func(cfg *config.Config, provisioner *apps.Provisioner) error {
		logger := zerolog.Ctx(c.Context)

		if err := cfg.Validate(config.OpCreateApp); err != nil {
			return err
		}

		repos, err := provisioner.CreateApp(c.Context)
		if err != nil {
			return err
		}

		logger.Info().
			Str("app", cfg.AppName).
			Int("repos", len(repos)).
			Msg("App created")
		for kind, repo := range repos {
			logger.Info().
				Str("kind", kind).
				Str("repo", repo).
				Msg("Repository created")
		}
		return nil
	})
}
