package graph

import (
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pyrules/isort-aspect/pkg/errors"
	"github.com/pyrules/isort-aspect/pkg/utils"
)

const transitiveMemoSize = 256

// Graph is an immutable, validated target DAG.
//
// Targets hold only forward (dependency) references, never back-pointers
// to dependents, so the structure is acyclic by construction once
// validation passes. It is safe for concurrent read access.
type Graph struct {
	workspace     string
	targetsByName map[string]*Target
	targets       []*Target // sorted by name

	memo *lru.Cache[string, []*Target]
}

// New builds and validates a Graph rooted at the given workspace directory.
//
// Validation rejects:
//   - empty or duplicate target names
//   - deps referencing unknown targets
//   - self-loops
//   - any cycle (direct or indirect)
//   - a source file declared by more than one target
func New(workspace string, targets []Target) (*Graph, error) {
	targetsByName := make(map[string]*Target, len(targets))
	sorted := make([]*Target, 0, len(targets))

	for i := range targets {
		t := &targets[i]
		if t.Name == "" {
			return nil, fmt.Errorf("target name is required")
		}
		if _, exists := targetsByName[t.Name]; exists {
			return nil, fmt.Errorf("%s: %q", errors.ErrMsgDuplicateTarget, t.Name)
		}
		if t.Root == "" {
			t.Root = workspace
		}
		targetsByName[t.Name] = t
		sorted = append(sorted, t)
	}

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	for _, t := range sorted {
		for _, dep := range t.Deps {
			if dep == t.Name {
				return nil, fmt.Errorf("self-loop: %q -> %q", t.Name, dep)
			}
			if _, ok := targetsByName[dep]; !ok {
				return nil, fmt.Errorf("%s: %q -> %q", errors.ErrMsgUnknownDep, t.Name, dep)
			}
		}
	}

	if err := checkAcyclic(sorted, targetsByName); err != nil {
		return nil, err
	}
	if err := checkSourceOwnership(workspace, sorted); err != nil {
		return nil, err
	}

	memo, err := lru.New[string, []*Target](transitiveMemoSize)
	if err != nil {
		return nil, err
	}

	return &Graph{
		workspace:     workspace,
		targetsByName: targetsByName,
		targets:       sorted,
		memo:          memo,
	}, nil
}

func checkAcyclic(targets []*Target, byName map[string]*Target) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(targets))

	var visit func(t *Target) error
	visit = func(t *Target) error {
		color[t.Name] = gray
		for _, dep := range t.Deps {
			switch color[dep] {
			case gray:
				return fmt.Errorf("%s: %q -> %q", errors.ErrMsgDependencyCycle, t.Name, dep)
			case white:
				if err := visit(byName[dep]); err != nil {
					return err
				}
			}
		}
		color[t.Name] = black
		return nil
	}

	for _, t := range targets {
		if color[t.Name] == white {
			if err := visit(t); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkSourceOwnership(workspace string, targets []*Target) error {
	owner := make(map[string]string)
	for _, t := range targets {
		for _, src := range t.Srcs {
			key, _ := utils.WorkspaceRel(workspace, src)
			if prev, ok := owner[key]; ok && prev != t.Name {
				return fmt.Errorf("%s: %q owned by %q and %q", errors.ErrMsgDuplicateSource, key, prev, t.Name)
			}
			owner[key] = t.Name
		}
	}
	return nil
}

// Workspace returns the workspace root directory.
func (g *Graph) Workspace() string {
	return g.workspace
}

// Targets returns all targets sorted by name.
func (g *Graph) Targets() []*Target {
	return g.targets
}

// Lookup returns the target with the given name.
func (g *Graph) Lookup(name string) (*Target, bool) {
	t, ok := g.targetsByName[name]
	return t, ok
}

// Rel normalizes a source path against the workspace root and reports
// whether it stays inside the workspace tree.
func (g *Graph) Rel(path string) (string, bool) {
	return utils.WorkspaceRel(g.workspace, path)
}

// TransitiveDeps returns every target reachable through dependency edges
// from the named target, excluding the target itself, in deterministic
// declaration-then-depth order. Results are memoized; the memo is sound
// because the graph is immutable after construction.
func (g *Graph) TransitiveDeps(name string) ([]*Target, error) {
	t, ok := g.targetsByName[name]
	if !ok {
		return nil, fmt.Errorf("%s: %q", errors.ErrMsgUnknownTarget, name)
	}

	if deps, ok := g.memo.Get(name); ok {
		return deps, nil
	}

	var deps []*Target
	seen := map[string]bool{t.Name: true}

	var walk func(t *Target)
	walk = func(t *Target) {
		for _, depName := range t.Deps {
			if seen[depName] {
				continue
			}
			seen[depName] = true
			dep := g.targetsByName[depName]
			deps = append(deps, dep)
			walk(dep)
		}
	}
	walk(t)

	g.memo.Add(name, deps)
	return deps, nil
}
