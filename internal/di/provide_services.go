package di

import (
	"github.com/essesseff/essesseff-cli/internal/api"
	"github.com/essesseff/essesseff-cli/internal/apps"
	"github.com/essesseff/essesseff-cli/internal/config"
	"github.com/essesseff/essesseff-cli/internal/environments"
	"github.com/essesseff/essesseff-cli/internal/executil"
	"github.com/essesseff/essesseff-cli/internal/gitops"
	"github.com/essesseff/essesseff-cli/internal/templates"
)

// ProvideAPIClient builds the rate-limited platform API client.
func ProvideAPIClient(cfg *config.Config, ceiling RetryCeiling) *api.Client {
	return api.New(cfg.APIURL, cfg.APIKey, api.WithMax429Retries(int(ceiling)))
}

// ProvideCatalog builds the template catalog reader.
func ProvideCatalog(client *api.Client, cfg *config.Config) *templates.Catalog {
	return templates.New(client, cfg.Account)
}

// ProvideProvisioner builds the app provisioner.
func ProvideProvisioner(client *api.Client, catalog *templates.Catalog, cfg *config.Config) *apps.Provisioner {
	return apps.New(client, catalog, cfg)
}

// ProvideRunner provides the local command runner used for kubectl and the
// per-repository setup script.
func ProvideRunner() executil.Runner {
	return executil.NewLocal()
}

// ProvideCloner provides the GitOps repository cloner, authenticated with the
// configured GitOps credentials.
func ProvideCloner(cfg *config.Config) gitops.Cloner {
	return gitops.NewGitCloner(cfg.GitUsername, cfg.GitToken)
}

// ProvideOrchestrator builds the environment setup orchestrator.
func ProvideOrchestrator(client *api.Client, cloner gitops.Cloner, runner executil.Runner, cfg *config.Config, dir WorkspaceDir) *environments.Orchestrator {
	return environments.New(client, cloner, runner, cfg, string(dir))
}
