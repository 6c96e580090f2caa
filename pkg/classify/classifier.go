package classify

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/pyrules/isort-aspect/pkg/graph"
)

// Result holds the two disjoint root sets computed for one target. Both
// slices are sorted; recomputing from the same inputs yields identical
// results.
type Result struct {
	FirstParty []string
	ThirdParty []string
}

// PathNormalizer maps a source path to its workspace-relative form and
// reports whether the path stays inside the workspace tree.
type PathNormalizer func(path string) (string, bool)

// Classify computes the first-party and third-party import roots for one
// target. The target's own declared import roots are first-party; roots
// contributed by dependency sources are first-party when the source is
// inside the workspace and third-party otherwise. On conflicting signals
// first-party wins, keeping the sets disjoint.
//
// Pure function over its inputs: no filesystem access, no error paths.
// Absent or empty inputs yield empty sets.
func Classify(target *graph.Target, deps []*graph.Target, rel PathNormalizer) Result {
	firstParty := make(map[string]bool)
	thirdParty := make(map[string]bool)

	if len(target.Imports) > 0 {
		for _, root := range target.Imports {
			normalized, _ := rel(root)
			firstParty[normalized] = true
		}
	}

	for _, dep := range deps {
		if dep.Name == target.Name {
			continue
		}
		for _, src := range dep.Srcs {
			root := packageRoot(dep, src)
			if root == "" {
				continue
			}
			if _, inside := rel(src); inside {
				firstParty[root] = true
			} else {
				thirdParty[root] = true
			}
		}
	}

	// First-party wins when the same root was signaled both ways.
	for root := range firstParty {
		delete(thirdParty, root)
	}

	return Result{
		FirstParty: sortedKeys(firstParty),
		ThirdParty: sortedKeys(thirdParty),
	}
}

// packageRoot derives the import root a source file contributes, relative
// to its target's resolution base. Without the legacy-init flag the first
// path segment is the root (implicit namespace packages); a base-level
// file contributes its module name. With legacy init a directory counts
// as a package root only if the target declares an __init__.py in it, so
// the root is the shallowest such ancestor directory.
func packageRoot(t *graph.Target, src string) string {
	rel, err := filepath.Rel(t.Root, src)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		rel = filepath.Clean(src)
	}
	rel = filepath.ToSlash(rel)

	dir, file := splitLast(rel)
	if dir == "" {
		return strings.TrimSuffix(file, ".py")
	}

	if !t.LegacyInit {
		segments := strings.SplitN(dir, "/", 2)
		return segments[0]
	}

	initDirs := legacyInitDirs(t)
	segments := strings.Split(dir, "/")
	prefix := ""
	for _, seg := range segments {
		if prefix == "" {
			prefix = seg
		} else {
			prefix = prefix + "/" + seg
		}
		if initDirs[prefix] {
			return prefix
		}
	}
	// No package marker anywhere above the file; fall back to the full
	// containing directory.
	return dir
}

func legacyInitDirs(t *graph.Target) map[string]bool {
	dirs := make(map[string]bool)
	for _, src := range t.Srcs {
		rel, err := filepath.Rel(t.Root, src)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = filepath.Clean(src)
		}
		rel = filepath.ToSlash(rel)
		dir, file := splitLast(rel)
		if file == "__init__.py" && dir != "" {
			dirs[dir] = true
		}
	}
	return dirs
}

func splitLast(path string) (dir, file string) {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
