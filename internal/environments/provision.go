package environments

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/input-output-hk/catalyst-forge-libs/executor"
	"github.com/rs/zerolog"

	"github.com/essesseff/essesseff-cli/internal/errors"
	"github.com/essesseff/essesseff-cli/internal/gitops"
)

const (
	// SetupScript is the entrypoint every GitOps repository must ship.
	SetupScript = "setup-argocd.sh"

	// SecretFile is where the shared notifications secret is copied inside
	// each workspace.
	SecretFile = "argocd-notifications-secret.yaml"

	// EnvFile is the generated settings file consumed by the setup script.
	EnvFile = ".env"
)

// provision walks one environment through clone-or-reuse, workspace
// configuration, preflight, and execution. Every failure is terminal for this
// environment only.
func (o *Orchestrator) provision(ctx context.Context, env string, secret []byte) Outcome {
	logger := zerolog.Ctx(ctx)
	dir := filepath.Join(o.baseDir, gitops.WorkspaceName(o.cfg.AppName, env))

	// Clone-or-reuse: an existing checkout is kept as-is, it persists as a
	// GitOps-managed working copy across runs.
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		remote := gitops.RemoteURL(o.cfg.Org, o.cfg.AppName, env)
		logger.Info().
			Str("environment", env).
			Str("remote", remote).
			Msg("Cloning GitOps repository")
		if err := o.cloner.Clone(ctx, remote, dir); err != nil {
			return failed(env, fmt.Errorf("clone failed, the repository may not exist or access may be denied: %w", err))
		}
	} else if err != nil {
		return failed(env, fmt.Errorf("failed to inspect workspace %s: %w", dir, err))
	} else {
		logger.Info().
			Str("environment", env).
			Str("workspace", dir).
			Msg("Reusing existing workspace")
	}

	if err := o.configureWorkspace(dir, env, secret); err != nil {
		return failed(env, err)
	}
	if err := o.preflight(ctx, dir); err != nil {
		return failed(env, err)
	}

	result, err := o.runner.Run(ctx, "bash", []string{SetupScript},
		executor.WithWorkingDir(dir),
		executor.WithEnv(map[string]string{"ENVIRONMENT": env}),
	)
	if err != nil {
		return failed(env, fmt.Errorf("failed to invoke %s: %w", SetupScript, err))
	}
	if result.ExitCode != 0 {
		return failed(env, fmt.Errorf("%s exited with code %d: %s", SetupScript, result.ExitCode, result.Stderr))
	}
	return Outcome{Env: env, Status: StatusDone}
}

// configureWorkspace writes the generated environment file and copies the
// shared secret into the checkout. The environment file carries exactly the
// GitOps credential triad, the org and app identifiers, and the environment
// name; API credentials and app-creation settings are deliberately excluded.
func (o *Orchestrator) configureWorkspace(dir, env string, secret []byte) error {
	contents := fmt.Sprintf(
		"GIT_USERNAME=%s\nGIT_TOKEN=%s\nGIT_EMAIL=%s\nORG=%s\nAPP_NAME=%s\nENVIRONMENT=%s\n",
		o.cfg.GitUsername, o.cfg.GitToken, o.cfg.GitEmail, o.cfg.Org, o.cfg.AppName, env)
	if err := os.WriteFile(filepath.Join(dir, EnvFile), []byte(contents), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", EnvFile, err)
	}
	if err := os.WriteFile(filepath.Join(dir, SecretFile), secret, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", SecretFile, err)
	}
	return nil
}

// preflight verifies the workspace ships the setup entrypoint and that the
// target cluster is reachable. Per-environment cluster access is a
// precondition the operator must arrange; this tool does not configure it.
func (o *Orchestrator) preflight(ctx context.Context, dir string) error {
	if _, err := os.Stat(filepath.Join(dir, SetupScript)); err != nil {
		return fmt.Errorf("%w in %s", errors.ErrSetupScriptMissing, dir)
	}
	if _, err := o.runner.LookPath("kubectl"); err != nil {
		return fmt.Errorf("kubectl not found on PATH, install it and configure access to the target cluster: %w", err)
	}
	result, err := o.runner.Run(ctx, "kubectl", []string{"cluster-info"})
	if err != nil {
		return fmt.Errorf("failed to run kubectl: %w", err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%w, check your kubeconfig for this environment: %s", errors.ErrClusterUnreachable, result.Stderr)
	}
	return nil
}

func failed(env string, err error) Outcome {
	return Outcome{Env: env, Status: StatusFailed, Err: err}
}
