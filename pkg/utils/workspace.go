package utils

import (
	"os"
	"path/filepath"
)

// DefaultManifestName is the manifest file looked up when no explicit
// --manifest flag is given.
const DefaultManifestName = "isort_targets.yaml"

// FindWorkspaceRoot walks up from the given directory looking for the
// workspace manifest. Returns the directory containing it, or empty string
// when no manifest is found.
func FindWorkspaceRoot(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	iterations := 0
	maxIterations := 20 // Prevent infinite loop

	for iterations < maxIterations {
		iterations++

		candidate := filepath.Join(abs, DefaultManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return abs
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			break
		}
		abs = parent
	}

	return ""
}
