// Package templates reads the platform's template catalog. Descriptors are
// fetched fresh on every invocation and never cached.
package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/essesseff/essesseff-cli/internal/api"
	"github.com/essesseff/essesseff-cli/internal/models"
)

// Catalog lists and fetches template metadata, both platform-global and
// scoped to one account.
type Catalog struct {
	client  *api.Client
	account string
}

// New creates a Catalog for the given account slug.
func New(client *api.Client, account string) *Catalog {
	return &Catalog{client: client, account: account}
}

// List returns the global and account template listings. Both GETs must
// succeed; a failure of either fails the whole listing.
func (c *Catalog) List(ctx context.Context, language string) (global, account []models.TemplateSummary, err error) {
	global, err = c.list(ctx, "/global/templates", language)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list global templates: %w", err)
	}
	account, err = c.list(ctx, fmt.Sprintf("/accounts/%s/templates", c.account), language)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list account templates: %w", err)
	}
	return global, account, nil
}

func (c *Catalog) list(ctx context.Context, path, language string) ([]models.TemplateSummary, error) {
	if language != "" {
		path += "?language=" + url.QueryEscape(language)
	}
	body, err := c.client.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var summaries []models.TemplateSummary
	if err := json.Unmarshal(body, &summaries); err != nil {
		return nil, fmt.Errorf("unexpected template listing response: %s", body)
	}
	return summaries, nil
}

// Fetch retrieves a single template descriptor by name from the global or
// account-scoped catalog. A response that is not a valid descriptor is
// reported with the raw body so the upstream payload can be inspected.
func (c *Catalog) Fetch(ctx context.Context, name string, global bool) (*models.TemplateDescriptor, error) {
	descriptor, _, err := c.FetchRaw(ctx, name, global)
	return descriptor, err
}

// FetchRaw is Fetch plus the verbatim response body, for callers that need
// to surface the upstream payload in their own diagnostics.
func (c *Catalog) FetchRaw(ctx context.Context, name string, global bool) (*models.TemplateDescriptor, []byte, error) {
	path := fmt.Sprintf("/accounts/%s/templates/%s", c.account, name)
	if global {
		path = "/global/templates/" + name
	}
	body, err := c.client.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch template %s: %w", name, err)
	}
	var descriptor models.TemplateDescriptor
	if err := json.Unmarshal(body, &descriptor); err != nil {
		return nil, nil, fmt.Errorf("template %s returned an unexpected response: %s", name, body)
	}
	return &descriptor, body, nil
}
