package commands

import (
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/essesseff/essesseff-cli/internal/apps"
	"github.com/essesseff/essesseff-cli/internal/config"
	"github.com/essesseff/essesseff-cli/internal/environments"
)

// OnboardCommand returns the onboard command, which creates the app and then
// sets up its environments in one run.
func OnboardCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "onboard",
		Usage: "Create the app and set up its environments in one run",
		Description: `Run create-app followed by setup-argocd.

App creation must fully complete before any environment provisioning starts;
a creation failure aborts the run before any repository is touched.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "environments",
				Aliases:  []string{"e"},
				Usage:    "Comma-separated environments to set up (dev, qa, staging, prod)",
				Required: true,
			},
		},
		Action: onboardAction,
	}
}

func onboardAction(c *cli.Context) error {
	container, err := newContainer(c)
	if err != nil {
		return err
	}

	return container.Invoke(func(cfg *config.Config, provisioner *apps.Provisioner, orchestrator *environments.Orchestrator) error {
		logger := zerolog.Ctx(c.Context)

		// Both operations' settings must be present before anything runs.
		if err := cfg.Validate(config.OpCreateApp); err != nil {
			return err
		}
		if err := cfg.Validate(config.OpSetupArgoCD); err != nil {
			return err
		}

		repos, err := provisioner.CreateApp(c.Context)
		if err != nil {
			return err
		}
		logger.Info().
			Str("app", cfg.AppName).
			Int("repos", len(repos)).
			Msg("App created, continuing with environment setup")

		return runSetup(c, orchestrator, c.String("environments"))
	})
}
