// Package gitops handles the per-environment GitOps repository checkouts.
package gitops

import (
	"context"
	"fmt"

	git "github.com/go-git/go-git/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// WorkspaceName is the local directory name for one app's GitOps checkout in
// one environment.
func WorkspaceName(app, env string) string {
	return fmt.Sprintf("%s-argocd-%s", app, env)
}

// RemoteURL derives the clone URL of the GitOps repository for app in env.
func RemoteURL(org, app, env string) string {
	return fmt.Sprintf("https://github.com/%s/%s.git", org, WorkspaceName(app, env))
}

// Cloner clones a remote repository into a local directory.
type Cloner interface {
	Clone(ctx context.Context, remoteURL, dir string) error
}

// GitCloner clones over HTTPS with token auth.
type GitCloner struct {
	username string
	token    string
}

// NewGitCloner creates a Cloner authenticating as username with token.
func NewGitCloner(username, token string) *GitCloner {
	return &GitCloner{username: username, token: token}
}

func (c *GitCloner) Clone(ctx context.Context, remoteURL, dir string) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL: remoteURL,
		Auth: &githttp.BasicAuth{
			Username: c.username,
			Password: c.token,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to clone %s: %w", remoteURL, err)
	}
	return nil
}
