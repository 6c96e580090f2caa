package action

import (
	"sort"

	"github.com/pyrules/isort-aspect/pkg/classify"
	"github.com/pyrules/isort-aspect/pkg/graph"
)

// Mode selects what the emitted invocation does at execution time.
type Mode int

const (
	// FormatMode rewrites source files in place.
	FormatMode Mode = iota
	// CheckMode reports violations through the tool's exit code and
	// mutates nothing.
	CheckMode
)

func (m Mode) String() string {
	if m == CheckMode {
		return "check"
	}
	return "format"
}

// Invocation is one deferred formatter run bound to a target. Args never
// include the binary itself or mode flags; the toolchain adds those at
// execution time so that identical inputs always produce byte-identical
// argument lists.
type Invocation struct {
	Target string
	Args   []string
	Mode   Mode
	Marker string
}

// Options carries the per-run configuration for Emit.
type Options struct {
	// SettingsPath is forwarded verbatim to the tool; when empty the
	// settings flag is omitted entirely.
	SettingsPath string
	// ExtraArgs are appended after the root flags, before the sources.
	ExtraArgs []string
	Mode      Mode
	// Marker is the file the check action writes on success.
	Marker string
}

// Emit constructs the single Invocation for a target. Argument order is
// fixed: settings flag, first-party root flags, third-party root flags,
// extra args, then the target's sources in declaration order. Root flags
// are emitted in lexicographic order so reordering the dependency list
// cannot change the action's cache key.
//
// Pure construction; emission itself cannot fail.
func Emit(target *graph.Target, res classify.Result, opts Options) Invocation {
	args := make([]string, 0, 2+2*len(res.FirstParty)+2*len(res.ThirdParty)+len(opts.ExtraArgs)+len(target.Srcs))

	if opts.SettingsPath != "" {
		args = append(args, "--settings-path", opts.SettingsPath)
	}

	for _, root := range sortedCopy(res.FirstParty) {
		args = append(args, "--src-path", root)
	}
	for _, root := range sortedCopy(res.ThirdParty) {
		args = append(args, "--thirdparty", root)
	}

	args = append(args, opts.ExtraArgs...)
	args = append(args, target.Srcs...)

	return Invocation{
		Target: target.Name,
		Args:   args,
		Mode:   opts.Mode,
		Marker: opts.Marker,
	}
}

func sortedCopy(roots []string) []string {
	if len(roots) == 0 {
		return nil
	}
	out := make([]string, len(roots))
	copy(out, roots)
	sort.Strings(out)
	return out
}
