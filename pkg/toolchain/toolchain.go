package toolchain

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/pyrules/isort-aspect/pkg/action"
	"github.com/pyrules/isort-aspect/pkg/errors"
	"github.com/pyrules/isort-aspect/pkg/logger"
)

// Result is the outcome of one formatter run. ExitCode passes through
// from the tool uninterpreted; zero means compliant sources.
type Result struct {
	ExitCode int
	Output   string
}

// Formatter is the capability to run the external import formatter. The
// concrete implementation shells out to an isort binary; tests substitute
// a fake.
type Formatter interface {
	Run(ctx context.Context, inv action.Invocation) (Result, error)
}

// Executable runs a resolved isort binary as a subprocess.
type Executable struct {
	path      string
	workspace string
	log       *slog.Logger
}

// NewExecutable resolves the isort binary. An unresolvable binary is a
// configuration error and fails evaluation before any action runs.
func NewExecutable(binary, workspace string) (*Executable, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", errors.ErrMsgToolchainNotFound, binary, err)
	}
	return &Executable{
		path:      path,
		workspace: workspace,
		log:       logger.ForComponent("toolchain"),
	}, nil
}

// Run executes the invocation once. Check mode prepends the tool's
// check flags; the invocation's own argument list is never modified.
// The tool's exit code is returned as-is, with its output sanitized so
// workspace paths read as repository-relative labels.
func (e *Executable) Run(ctx context.Context, inv action.Invocation) (Result, error) {
	args := inv.Args
	if inv.Mode == action.CheckMode {
		args = append([]string{"--check-only", "--diff"}, args...)
	}

	e.log.Debug("running isort", "target", inv.Target, "mode", inv.Mode.String(), "args", len(args))

	cmd := exec.CommandContext(ctx, e.path, args...)
	out, err := cmd.CombinedOutput()
	output := e.sanitize(string(out))

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return Result{ExitCode: exitErr.ExitCode(), Output: output}, nil
		}
		return Result{}, fmt.Errorf("running %s for target %s: %w", e.path, inv.Target, err)
	}

	return Result{ExitCode: 0, Output: output}, nil
}

// sanitize rewrites absolute workspace paths in tool output so reports
// stay stable across machines.
func (e *Executable) sanitize(output string) string {
	if e.workspace == "" {
		return output
	}
	return strings.ReplaceAll(output, e.workspace+"/", "//")
}
