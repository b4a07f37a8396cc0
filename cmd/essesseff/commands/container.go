package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/essesseff/essesseff-cli/internal/di"
)

// newContainer builds the dependency injection container from the global CLI
// flags. Commands resolve their collaborators through container.Invoke so
// that provider failures surface as ordinary errors.
func newContainer(c *cli.Context) (di.Container, error) {
	container, err := di.New(c.String("env-file"),
		di.WithWorkspaceDir(c.String("workspace-dir")),
		di.WithRetryCeiling(c.Int("max-429-retries")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build container: %w", err)
	}
	return container, nil
}
