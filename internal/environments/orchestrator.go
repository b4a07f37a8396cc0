// Package environments drives per-environment GitOps repository setup. The
// shared notifications secret is a precondition for every environment and is
// fetched once per run; after that, failures are isolated per environment and
// the run always produces a full per-environment tally.
package environments

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/essesseff/essesseff-cli/internal/api"
	"github.com/essesseff/essesseff-cli/internal/config"
	"github.com/essesseff/essesseff-cli/internal/errors"
	"github.com/essesseff/essesseff-cli/internal/executil"
	"github.com/essesseff/essesseff-cli/internal/gitops"
)

// Known is the fixed set of deployment environments.
var Known = map[string]bool{
	"dev":     true,
	"qa":      true,
	"staging": true,
	"prod":    true,
}

// Status is the terminal state of one environment's provisioning.
type Status string

const (
	StatusDone   Status = "done"
	StatusFailed Status = "failed"
)

// Outcome records how provisioning ended for one environment.
type Outcome struct {
	Env    string
	Status Status
	Err    error
}

// Orchestrator fetches shared material and provisions each requested
// environment in order.
type Orchestrator struct {
	client  *api.Client
	cloner  gitops.Cloner
	runner  executil.Runner
	cfg     *config.Config
	baseDir string
}

// New creates an Orchestrator. Workspaces are created under baseDir.
func New(client *api.Client, cloner gitops.Cloner, runner executil.Runner, cfg *config.Config, baseDir string) *Orchestrator {
	if baseDir == "" {
		baseDir = "."
	}
	return &Orchestrator{client: client, cloner: cloner, runner: runner, cfg: cfg, baseDir: baseDir}
}

// ParseList splits a comma-separated environment list into trimmed names,
// preserving order and duplicates. Empty entries are dropped.
func ParseList(csv string) []string {
	var envs []string
	for _, part := range strings.Split(csv, ",") {
		if name := strings.TrimSpace(part); name != "" {
			envs = append(envs, name)
		}
	}
	return envs
}

// SetupEnvironments provisions every environment in csvList. An environment
// name outside the known set is skipped with a warning; any other failure is
// recorded in that environment's outcome and the run continues. The returned
// error is non-nil only when the shared secret cannot be fetched, which
// aborts the run before any environment is attempted.
func (o *Orchestrator) SetupEnvironments(ctx context.Context, csvList string) ([]Outcome, error) {
	logger := zerolog.Ctx(ctx)

	secret, err := o.fetchNotificationsSecret(ctx)
	if err != nil {
		return nil, err
	}

	var outcomes []Outcome
	for _, env := range ParseList(csvList) {
		if !Known[env] {
			logger.Warn().
				Str("environment", env).
				Err(errors.ErrUnknownEnvironment).
				Msg("Skipping environment, expected one of dev, qa, staging, prod")
			continue
		}
		outcome := o.provision(ctx, env, secret)
		if outcome.Status == StatusFailed {
			logger.Error().
				Str("environment", env).
				Err(outcome.Err).
				Msg("Environment setup failed")
		} else {
			logger.Info().
				Str("environment", env).
				Msg("Environment setup complete")
		}
		outcomes = append(outcomes, outcome)
	}

	done, failed := Tally(outcomes)
	logger.Info().
		Int("succeeded", done).
		Int("failed", failed).
		Msg("Environment setup finished")
	return outcomes, nil
}

// Tally counts terminal states across outcomes.
func Tally(outcomes []Outcome) (done, failed int) {
	for _, outcome := range outcomes {
		if outcome.Status == StatusDone {
			done++
		} else {
			failed++
		}
	}
	return done, failed
}

// fetchNotificationsSecret retrieves the shared secret artifact. It is reused
// across every environment in the run, so any failure here aborts the whole
// operation.
func (o *Orchestrator) fetchNotificationsSecret(ctx context.Context) ([]byte, error) {
	path := fmt.Sprintf("/accounts/%s/organizations/%s/apps/%s/notifications-secret",
		o.cfg.Account, o.cfg.Org, o.cfg.AppName)
	secret, err := o.client.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrSecretUnavailable, err)
	}
	return secret, nil
}
