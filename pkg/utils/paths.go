package utils

import (
	"path/filepath"
	"strings"
)

// WorkspaceRel normalizes path against the workspace root. The second
// return value reports whether the path stays inside the workspace tree;
// paths that escape it (externally fetched sources) are returned cleaned
// but unmodified otherwise.
func WorkspaceRel(workspace, path string) (string, bool) {
	if workspace == "" {
		return filepath.ToSlash(filepath.Clean(path)), !filepath.IsAbs(path)
	}

	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(workspace, abs)
	}

	rel, err := filepath.Rel(workspace, abs)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(path)), false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return rel, false
	}
	return rel, true
}
