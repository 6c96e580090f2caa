package toolchain

import (
	"context"
	"sync"

	"github.com/pyrules/isort-aspect/pkg/action"
)

// Fake records invocations instead of spawning a process. Every run
// returns the configured exit code and output.
type Fake struct {
	ExitCode int
	Output   string
	Err      error

	mu          sync.Mutex
	invocations []action.Invocation
}

func (f *Fake) Run(_ context.Context, inv action.Invocation) (Result, error) {
	f.mu.Lock()
	f.invocations = append(f.invocations, inv)
	f.mu.Unlock()

	if f.Err != nil {
		return Result{}, f.Err
	}
	return Result{ExitCode: f.ExitCode, Output: f.Output}, nil
}

// Invocations returns a copy of everything recorded so far.
func (f *Fake) Invocations() []action.Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]action.Invocation, len(f.invocations))
	copy(out, f.invocations)
	return out
}
