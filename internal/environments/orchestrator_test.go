package environments

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/executor"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/essesseff/essesseff-cli/internal/api"
	"github.com/essesseff/essesseff-cli/internal/config"
	"github.com/essesseff/essesseff-cli/internal/errors"
)

// fakeCloner materializes a workspace with a setup script instead of
// touching the network.
type fakeCloner struct {
	calls   []string
	failFor map[string]bool
}

func (f *fakeCloner) Clone(ctx context.Context, remoteURL, dir string) error {
	f.calls = append(f.calls, remoteURL)
	if f.failFor[remoteURL] {
		return fmt.Errorf("repository not found: %s", remoteURL)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, SetupScript), []byte("#!/bin/bash\n"), 0o755)
}

type recordedRun struct {
	program string
	args    []string
	opts    executor.Options
}

// fakeRunner scripts kubectl and setup-script behavior per test.
type fakeRunner struct {
	runs        []recordedRun
	lookPathErr error
	clusterExit int
	scriptExit  int
}

func (f *fakeRunner) Run(ctx context.Context, program string, args []string, opts ...executor.Option) (*executor.Result, error) {
	options := executor.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	f.runs = append(f.runs, recordedRun{program: program, args: args, opts: *options})

	if program == "kubectl" {
		return &executor.Result{ExitCode: f.clusterExit, Stderr: "connection refused"}, nil
	}
	return &executor.Result{ExitCode: f.scriptExit, Stderr: "script error"}, nil
}

func (f *fakeRunner) LookPath(program string) (string, error) {
	if f.lookPathErr != nil {
		return "", f.lookPathErr
	}
	return "/usr/local/bin/" + program, nil
}

type fixture struct {
	orchestrator *Orchestrator
	cloner       *fakeCloner
	runner       *fakeRunner
	baseDir      string
	secretCalls  *int
}

func newFixture(t *testing.T) *fixture {
	secretCalls := new(int)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*secretCalls++
		assert.Equal(t, "/accounts/acme/organizations/acme-org/apps/billing/notifications-secret", r.URL.Path)
		w.Write([]byte("secret-material"))
	}))
	t.Cleanup(server.Close)
	return newFixtureWithServer(t, server, secretCalls)
}

func newFixtureWithServer(t *testing.T, server *httptest.Server, secretCalls *int) *fixture {
	cfg := &config.Config{
		Account:     "acme",
		Org:         "acme-org",
		AppName:     "billing",
		GitUsername: "deploy-bot",
		GitToken:    "git-token",
		GitEmail:    "bot@acme.dev",
	}
	client := api.New(server.URL, "ssf_test", api.WithSleep(func(time.Duration) {}))
	cloner := &fakeCloner{failFor: map[string]bool{}}
	runner := &fakeRunner{}
	baseDir := t.TempDir()
	return &fixture{
		orchestrator: New(client, cloner, runner, cfg, baseDir),
		cloner:       cloner,
		runner:       runner,
		baseDir:      baseDir,
		secretCalls:  secretCalls,
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want []string
	}{
		{name: "simple", csv: "dev,qa", want: []string{"dev", "qa"}},
		{name: "trims whitespace", csv: " dev , qa ", want: []string{"dev", "qa"}},
		{name: "preserves order", csv: "prod,dev", want: []string{"prod", "dev"}},
		{name: "does not deduplicate", csv: "dev,dev", want: []string{"dev", "dev"}},
		{name: "drops empty entries", csv: "dev,,qa,", want: []string{"dev", "qa"}},
		{name: "empty input", csv: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseList(tt.csv))
		})
	}
}

func TestSetupEnvironments_SkipsUnknownNames(t *testing.T) {
	f := newFixture(t)

	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	ctx := logger.WithContext(context.Background())

	outcomes, err := f.orchestrator.SetupEnvironments(ctx, "dev,bogus,qa")
	require.NoError(t, err)

	require.Len(t, outcomes, 2, "bogus must be skipped with a warning, not reported")
	assert.Equal(t, "dev", outcomes[0].Env)
	assert.Equal(t, StatusDone, outcomes[0].Status)
	assert.Equal(t, "qa", outcomes[1].Env)
	assert.Equal(t, StatusDone, outcomes[1].Status)

	assert.Contains(t, logs.String(), `"environment":"bogus"`)
	assert.Contains(t, logs.String(), errors.ErrUnknownEnvironment.Error())
}

func TestSetupEnvironments_SecretFetchedOnce(t *testing.T) {
	f := newFixture(t)

	_, err := f.orchestrator.SetupEnvironments(context.Background(), "dev,qa,staging")
	require.NoError(t, err)
	assert.Equal(t, 1, *f.secretCalls, "shared secret must be fetched exactly once per run")
}

func TestSetupEnvironments_SecretFailureAbortsRun(t *testing.T) {
	secretCalls := new(int)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*secretCalls++
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("no access"))
	}))
	t.Cleanup(server.Close)
	f := newFixtureWithServer(t, server, secretCalls)

	outcomes, err := f.orchestrator.SetupEnvironments(context.Background(), "dev,qa")
	require.ErrorIs(t, err, errors.ErrSecretUnavailable)
	assert.Nil(t, outcomes)
	assert.Empty(t, f.cloner.calls, "no environment may be attempted without the secret")
}

func TestSetupEnvironments_WritesWorkspaceFiles(t *testing.T) {
	f := newFixture(t)

	outcomes, err := f.orchestrator.SetupEnvironments(context.Background(), "dev")
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.Equal(t, StatusDone, outcomes[0].Status)

	dir := filepath.Join(f.baseDir, "billing-argocd-dev")

	envFile, err := os.ReadFile(filepath.Join(dir, EnvFile))
	require.NoError(t, err)
	want := "GIT_USERNAME=deploy-bot\nGIT_TOKEN=git-token\nGIT_EMAIL=bot@acme.dev\nORG=acme-org\nAPP_NAME=billing\nENVIRONMENT=dev\n"
	assert.Equal(t, want, string(envFile), "env file carries exactly the triad, identifiers, and environment")

	secret, err := os.ReadFile(filepath.Join(dir, SecretFile))
	require.NoError(t, err)
	assert.Equal(t, "secret-material", string(secret))
}

func TestSetupEnvironments_ExecutesSetupScript(t *testing.T) {
	f := newFixture(t)

	_, err := f.orchestrator.SetupEnvironments(context.Background(), "dev")
	require.NoError(t, err)

	require.Len(t, f.runner.runs, 2)
	assert.Equal(t, "kubectl", f.runner.runs[0].program)
	assert.Equal(t, []string{"cluster-info"}, f.runner.runs[0].args)

	script := f.runner.runs[1]
	assert.Equal(t, "bash", script.program)
	assert.Equal(t, []string{SetupScript}, script.args)
	assert.Equal(t, filepath.Join(f.baseDir, "billing-argocd-dev"), script.opts.WorkingDir)
	assert.Equal(t, "dev", script.opts.Env["ENVIRONMENT"])
}

func TestSetupEnvironments_ReusesExistingWorkspace(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Join(f.baseDir, "billing-argocd-dev")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, SetupScript), []byte("#!/bin/bash\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFile), []byte("stale"), 0o600))

	outcomes, err := f.orchestrator.SetupEnvironments(context.Background(), "dev")
	require.NoError(t, err)
	require.Equal(t, StatusDone, outcomes[0].Status)

	assert.Empty(t, f.cloner.calls, "an existing workspace must not be re-cloned")

	envFile, err := os.ReadFile(filepath.Join(dir, EnvFile))
	require.NoError(t, err)
	assert.Contains(t, string(envFile), "ENVIRONMENT=dev", "env file is rewritten on reuse")
	assert.NotContains(t, string(envFile), "stale")
}

func TestSetupEnvironments_CloneFailureIsIsolated(t *testing.T) {
	f := newFixture(t)
	f.cloner.failFor["https://github.com/acme-org/billing-argocd-dev.git"] = true

	outcomes, err := f.orchestrator.SetupEnvironments(context.Background(), "dev,qa")
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, StatusFailed, outcomes[0].Status)
	assert.Contains(t, outcomes[0].Err.Error(), "clone failed")
	assert.Equal(t, StatusDone, outcomes[1].Status, "qa must proceed despite dev failing")
}

func TestSetupEnvironments_MissingSetupScript(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Join(f.baseDir, "billing-argocd-dev")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	outcomes, err := f.orchestrator.SetupEnvironments(context.Background(), "dev")
	require.NoError(t, err)
	require.Equal(t, StatusFailed, outcomes[0].Status)
	assert.ErrorIs(t, outcomes[0].Err, errors.ErrSetupScriptMissing)
	assert.Empty(t, f.runner.runs, "no command may run without the entrypoint script")
}

func TestSetupEnvironments_KubectlMissing(t *testing.T) {
	f := newFixture(t)
	f.runner.lookPathErr = fmt.Errorf("kubectl: executable file not found in $PATH")

	outcomes, err := f.orchestrator.SetupEnvironments(context.Background(), "dev")
	require.NoError(t, err)
	require.Equal(t, StatusFailed, outcomes[0].Status)
	assert.Contains(t, outcomes[0].Err.Error(), "kubectl not found")
}

func TestSetupEnvironments_ClusterUnreachable(t *testing.T) {
	f := newFixture(t)
	f.runner.clusterExit = 1

	outcomes, err := f.orchestrator.SetupEnvironments(context.Background(), "dev")
	require.NoError(t, err)
	require.Equal(t, StatusFailed, outcomes[0].Status)
	assert.ErrorIs(t, outcomes[0].Err, errors.ErrClusterUnreachable)
}

func TestSetupEnvironments_ScriptFailureIsIsolated(t *testing.T) {
	f := newFixture(t)
	f.runner.scriptExit = 2

	outcomes, err := f.orchestrator.SetupEnvironments(context.Background(), "dev,qa")
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, StatusFailed, outcomes[0].Status)
	assert.Contains(t, outcomes[0].Err.Error(), "exited with code 2")
	assert.Equal(t, StatusFailed, outcomes[1].Status)
}

func TestTally(t *testing.T) {
	outcomes := []Outcome{
		{Env: "dev", Status: StatusDone},
		{Env: "qa", Status: StatusFailed},
		{Env: "prod", Status: StatusDone},
	}
	done, failed := Tally(outcomes)
	assert.Equal(t, 2, done)
	assert.Equal(t, 1, failed)
}
