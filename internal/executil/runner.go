// Package executil abstracts external command execution behind a small
// capability interface so environment provisioning can be exercised with a
// fake in tests. Execution itself is delegated to the catalyst-forge
// executor library.
package executil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/input-output-hk/catalyst-forge-libs/executor"
)

// Runner executes external programs.
type Runner interface {
	// Run executes program with args and returns its captured output.
	// A non-zero exit is reported through Result.ExitCode, not the error.
	Run(ctx context.Context, program string, args []string, opts ...executor.Option) (*executor.Result, error)

	// LookPath reports whether program is resolvable on the execution path.
	LookPath(program string) (string, error)
}

// Local runs commands on the local host.
type Local struct{}

// NewLocal creates a Runner backed by the local host.
func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Run(ctx context.Context, program string, args []string, opts ...executor.Option) (*executor.Result, error) {
	result, err := executor.New(program, args...).Execute(ctx, opts...)
	if err != nil {
		// The executor reports a non-zero exit as an error; for us it is
		// an ordinary outcome the caller inspects via ExitCode.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to run %s: %w", program, err)
	}
	return result, nil
}

func (l *Local) LookPath(program string) (string, error) {
	return exec.LookPath(program)
}
