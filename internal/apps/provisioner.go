// Package apps creates new applications from templates. Creation is a
// sequence of hard gates: name validation, existence check, template
// resolution, request construction, and submission. The first gate to fail
// aborts the whole operation.
package apps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/essesseff/essesseff-cli/internal/api"
	"github.com/essesseff/essesseff-cli/internal/config"
	"github.com/essesseff/essesseff-cli/internal/errors"
	"github.com/essesseff/essesseff-cli/internal/models"
	"github.com/essesseff/essesseff-cli/internal/templates"
)

var appNamePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Provisioner drives the app-creation workflow.
type Provisioner struct {
	client  *api.Client
	catalog *templates.Catalog
	cfg     *config.Config
}

// New creates a Provisioner.
func New(client *api.Client, catalog *templates.Catalog, cfg *config.Config) *Provisioner {
	return &Provisioner{client: client, catalog: catalog, cfg: cfg}
}

// ValidateAppName checks the naming rules: lowercase letters, digits, and
// hyphens only, with no leading or trailing hyphen. It makes no network call.
func ValidateAppName(name string) error {
	if !appNamePattern.MatchString(name) ||
		strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		return fmt.Errorf("%w: %q", errors.ErrInvalidAppName, name)
	}
	return nil
}

// CreateApp runs the full creation workflow and returns the identifiers of
// the repositories the platform created.
func (p *Provisioner) CreateApp(ctx context.Context) (map[string]string, error) {
	logger := zerolog.Ctx(ctx)
	name := p.cfg.AppName

	if err := ValidateAppName(name); err != nil {
		return nil, err
	}

	appPath := fmt.Sprintf("/accounts/%s/organizations/%s/apps/%s", p.cfg.Account, p.cfg.Org, name)
	exists, err := p.client.Exists(ctx, appPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check whether app %s exists: %w", name, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s/%s", errors.ErrAppAlreadyExists, p.cfg.Org, name)
	}

	descriptor, raw, err := p.catalog.FetchRaw(ctx, p.cfg.TemplateName, p.cfg.TemplateGlobal)
	if err != nil {
		return nil, err
	}
	request, err := buildRequest(descriptor, raw, p.cfg)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("app", name).
		Str("template", p.cfg.TemplateName).
		Bool("global", descriptor.IsGlobal).
		Msg("Submitting app creation request")

	createPath := fmt.Sprintf("/accounts/%s/organizations/%s/apps?app_name=%s",
		p.cfg.Account, p.cfg.Org, url.QueryEscape(name))
	body, err := p.client.Do(ctx, http.MethodPost, createPath, request)
	if err != nil {
		return nil, fmt.Errorf("app creation request failed: %w", err)
	}

	var response models.CreateAppResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("app creation returned an unexpected response: %s", body)
	}
	if !response.Success {
		return nil, fmt.Errorf("app creation was rejected by the platform: %s", body)
	}
	return response.Data.ResultantRepos, nil
}

// buildRequest derives the creation payload from the resolved descriptor.
// Global templates must not carry a replacement string (the server derives
// it); account templates must carry one or the template is unusable. The raw
// catalog response is echoed verbatim when the descriptor is incomplete.
func buildRequest(descriptor *models.TemplateDescriptor, raw []byte, cfg *config.Config) (*models.AppCreationRequest, error) {
	if descriptor.OrgLogin == "" || descriptor.SourceRepo == "" || descriptor.Language == "" {
		return nil, fmt.Errorf("template %s is incomplete: %s", cfg.TemplateName, raw)
	}

	request := &models.AppCreationRequest{
		TemplateOrg:  descriptor.OrgLogin,
		TemplateRepo: descriptor.SourceRepo,
		Language:     descriptor.Language,
		Visibility:   cfg.AppVisibility,
		Description:  cfg.AppDescription,
	}
	if !descriptor.IsGlobal {
		if descriptor.ReplacementString == "" {
			return nil, fmt.Errorf("%w: account template %s", errors.ErrReplacementMissing, cfg.TemplateName)
		}
		request.ReplacementString = descriptor.ReplacementString
	}
	return request, nil
}
