package di

import (
	"fmt"

	"github.com/essesseff/essesseff-cli/internal/config"
)

// ProvideConfig loads the settings file registered with the container.
// Per-operation validation happens later, in each command's action.
func ProvideConfig(path SettingsPath) (*config.Config, error) {
	cfg, err := config.Load(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
