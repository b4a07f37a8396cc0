package di

// SettingsPath is the location of the .essesseff settings file.
type SettingsPath string

// WorkspaceDir is where per-environment GitOps checkouts are created.
type WorkspaceDir string

// RetryCeiling bounds 429 retries in the API client; zero means unbounded.
type RetryCeiling int

// Option is a function that configures the dependency injection container.
type Option func(*options)

// WithWorkspaceDir sets the base directory for per-environment workspaces.
func WithWorkspaceDir(dir string) Option {
	return func(opts *options) {
		opts.workspaceDir = WorkspaceDir(dir)
	}
}

// WithRetryCeiling bounds the API client's 429 retries.
func WithRetryCeiling(n int) Option {
	return func(opts *options) {
		opts.retryCeiling = n
	}
}

// WithProviders adds constructor functions to the dependency injection container.
// Each provider should be a constructor function that returns one or more values.
// Providers can declare dependencies as function parameters, which will be
// automatically resolved by the container.
//
// Example:
//
//	WithProviders(
//	    func() *Database { return &Database{} },
//	    func(db *Database) *Service { return &Service{DB: db} },
//	)
func WithProviders(providers ...any) Option {
	return func(opts *options) {
		opts.providers = append(opts.providers, providers...)
	}
}

type options struct {
	workspaceDir WorkspaceDir
	providers    []any
	retryCeiling int
}
