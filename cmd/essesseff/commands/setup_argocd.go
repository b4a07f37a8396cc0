package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/essesseff/essesseff-cli/internal/config"
	"github.com/essesseff/essesseff-cli/internal/environments"
)

// SetupArgoCDCommand returns the setup-argocd command for provisioning
// per-environment GitOps repositories.
func SetupArgoCDCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "setup-argocd",
		Usage: "Set up the app's Argo CD GitOps repositories per environment",
		Description: `Provision the GitOps repository of each requested environment.

For every environment, the repository is cloned (or an existing checkout
reused), the environment file and notifications secret are written into it,
and its setup-argocd.sh entrypoint is executed. Failures are isolated per
environment; the command reports a final tally.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "environments",
				Aliases:  []string{"e"},
				Usage:    "Comma-separated environments to set up (dev, qa, staging, prod)",
				Required: true,
			},
		},
		Action: setupArgoCDAction,
	}
}

func setupArgoCDAction(c *cli.Context) error {
	container, err := newContainer(c)
	if err != nil {
		return err
	}

	return container.Invoke(func(cfg *config.Config, orchestrator *environments.Orchestrator) error {
		if err := cfg.Validate(config.OpSetupArgoCD); err != nil {
			return err
		}
		return runSetup(c, orchestrator, c.String("environments"))
	})
}

// runSetup drives the orchestrator and applies the exit contract to its
// outcomes.
func runSetup(c *cli.Context, orchestrator *environments.Orchestrator, csvList string) error {
	outcomes, err := orchestrator.SetupEnvironments(c.Context, csvList)
	if err != nil {
		return err
	}
	return setupResult(outcomes)
}

// setupResult converts the outcome tally into the process exit contract:
// partial success is still exit zero, but a run where every attempted
// environment failed is an error.
func setupResult(outcomes []environments.Outcome) error {
	done, failed := environments.Tally(outcomes)
	if failed > 0 && done == 0 {
		return fmt.Errorf("all %d environments failed", failed)
	}
	return nil
}
