// Package config loads and validates settings from the .essesseff file.
// Settings are passed around as an explicit *Config rather than read from
// process-wide state so each component declares what it needs.
package config

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultFile is the settings file loaded when no --env-file is given.
const DefaultFile = ".essesseff"

// DefaultAPIURL is the platform API endpoint used unless ESSESSEFF_API_URL overrides it.
const DefaultAPIURL = "https://api.essesseff.com"

// apiKeyPattern is the required credential shape: fixed prefix plus a
// 40-character base62 token.
var apiKeyPattern = regexp.MustCompile(`^ssf_[A-Za-z0-9]{40}$`)

// Operation identifies which command the configuration is being validated for.
// Each operation requires a different subset of keys.
type Operation int

const (
	OpTemplates Operation = iota
	OpCreateApp
	OpSetupArgoCD
)

// Config holds every setting the CLI understands. Fields are populated from
// the KEY=value settings file; zero values mean "not set".
type Config struct {
	APIURL  string // ESSESSEFF_API_URL
	APIKey  string // ESSESSEFF_API_KEY
	Account string // ESSESSEFF_ACCOUNT - account slug
	Org     string // ESSESSEFF_ORG - GitHub organization login

	AppName        string // APP_NAME
	AppDescription string // APP_DESCRIPTION
	AppVisibility  string // APP_VISIBILITY - public or private

	TemplateName   string // TEMPLATE_NAME
	TemplateGlobal bool   // TEMPLATE_GLOBAL - platform template vs account template

	// GitOps credential triad used for per-environment repository access.
	GitUsername string // GIT_USERNAME
	GitToken    string // GIT_TOKEN
	GitEmail    string // GIT_EMAIL
}

// Load reads the settings file at path and returns the parsed configuration.
// The file uses shell-sourceable KEY=value lines.
func Load(path string) (*Config, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	return FromMap(values), nil
}

// FromMap builds a Config from raw key-value pairs.
func FromMap(values map[string]string) *Config {
	cfg := &Config{
		APIURL:         values["ESSESSEFF_API_URL"],
		APIKey:         values["ESSESSEFF_API_KEY"],
		Account:        values["ESSESSEFF_ACCOUNT"],
		Org:            values["ESSESSEFF_ORG"],
		AppName:        values["APP_NAME"],
		AppDescription: values["APP_DESCRIPTION"],
		AppVisibility:  values["APP_VISIBILITY"],
		TemplateName:   values["TEMPLATE_NAME"],
		GitUsername:    values["GIT_USERNAME"],
		GitToken:       values["GIT_TOKEN"],
		GitEmail:       values["GIT_EMAIL"],
	}
	if v, err := strconv.ParseBool(values["TEMPLATE_GLOBAL"]); err == nil {
		cfg.TemplateGlobal = v
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	return cfg
}

// Validate checks that every key required by op is present and well formed.
// It runs before any network call so that a broken settings file fails fast.
func (c *Config) Validate(op Operation) error {
	missing := c.missingKeys(op)
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if !apiKeyPattern.MatchString(c.APIKey) {
		return fmt.Errorf("ESSESSEFF_API_KEY is malformed: expected ssf_ prefix followed by a 40-character token")
	}
	if op == OpCreateApp && c.AppVisibility != "public" && c.AppVisibility != "private" {
		return fmt.Errorf("APP_VISIBILITY must be public or private, got %q", c.AppVisibility)
	}
	return nil
}

func (c *Config) missingKeys(op Operation) []string {
	required := map[string]string{
		"ESSESSEFF_API_KEY": c.APIKey,
		"ESSESSEFF_ACCOUNT": c.Account,
		"ESSESSEFF_ORG":     c.Org,
	}
	switch op {
	case OpCreateApp:
		required["APP_NAME"] = c.AppName
		required["TEMPLATE_NAME"] = c.TemplateName
		required["APP_VISIBILITY"] = c.AppVisibility
	case OpSetupArgoCD:
		required["APP_NAME"] = c.AppName
		required["GIT_USERNAME"] = c.GitUsername
		required["GIT_TOKEN"] = c.GitToken
		required["GIT_EMAIL"] = c.GitEmail
	}

	var missing []string
	for key, value := range required {
		if value == "" {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
