package errors

import "errors"

var (
	ErrAppAlreadyExists   = errors.New("app already exists")
	ErrInvalidAppName     = errors.New("app name must contain only lowercase letters, digits, and hyphens, and must not start or end with a hyphen")
	ErrUnknownEnvironment = errors.New("unknown environment")
	ErrSetupScriptMissing = errors.New("setup-argocd.sh not found in workspace")
	ErrClusterUnreachable = errors.New("cluster is not reachable via kubectl")
	ErrReplacementMissing = errors.New("template has no replacement string")
	ErrSecretUnavailable  = errors.New("notifications secret could not be fetched")
)
