// Package di provides a lightweight wrapper around uber's dig dependency injection framework.
// It simplifies container setup and provides type-safe dependency retrieval with generics.
package di

import (
	"go.uber.org/dig"
)

// Container defines a dependency injection container based on uber's dig.
// This interface allows for easy testing and mocking of the DI container.
type Container interface {
	// Invoke executes a function, injecting its dependencies from the container.
	Invoke(function any, opts ...dig.InvokeOption) error

	// Provide registers a constructor function in the container.
	Provide(constructor any, opts ...dig.ProvideOption) error

	// Scope creates a scoped sub-container with its own set of values.
	Scope(name string, opts ...dig.ScopeOption) *dig.Scope
}

// MustGet returns an instance constructed via dependency injection or panics.
// This is a convenience function for retrieving a dependency from the container
// when you're certain it exists. If the dependency cannot be resolved, it will panic.
//
// Example:
//
//	client := MustGet[*api.Client](container)
func MustGet[T any](container Container) (want T) {
	callback := func(got T) {
		want = got
	}
	if err := container.Invoke(callback); err != nil {
		panic(err)
	}
	return want
}

// New creates a new dependency injection container for the given settings
// file path. The path is automatically registered as a SettingsPath
// dependency consumed by the configuration provider.
//
// Example:
//
//	container, err := New(".essesseff",
//	    WithProviders(
//	        func(cfg *config.Config) *Thing { return NewThing(cfg) },
//	    ),
//	)
func New(settingsPath string, opts ...Option) (Container, error) {
	// Build options
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create dig container
	container := dig.New()
	if err := container.Provide(func() SettingsPath { return SettingsPath(settingsPath) }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() WorkspaceDir { return o.workspaceDir }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() RetryCeiling { return RetryCeiling(o.retryCeiling) }); err != nil {
		return nil, err
	}

	// Register all provided constructors
	for _, provider := range core {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	// Register all provided constructors
	for _, provider := range o.providers {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	return container, nil
}

var core = []any{
	ProvideConfig,
	ProvideAPIClient,
	ProvideCatalog,
	ProvideProvisioner,
	ProvideRunner,
	ProvideCloner,
	ProvideOrchestrator,
}
