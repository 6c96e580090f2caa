package graph

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/pyrules/isort-aspect/pkg/errors"
	"github.com/pyrules/isort-aspect/pkg/utils"
)

// Manifest is the YAML description of the workspace's Python targets.
type Manifest struct {
	Workspace string           `yaml:"workspace"`
	Settings  string           `yaml:"settings"`
	Targets   []ManifestTarget `yaml:"targets"`
}

// ManifestTarget is one target entry as written in the manifest. Srcs
// entries may be doublestar glob patterns.
type ManifestTarget struct {
	Name       string   `yaml:"name"`
	Srcs       []string `yaml:"srcs"`
	Imports    []string `yaml:"imports"`
	Deps       []string `yaml:"deps"`
	LegacyInit bool     `yaml:"legacy_init"`
	External   bool     `yaml:"external"`
	Store      string   `yaml:"store"`
}

// LoadManifest reads and parses a workspace manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", errors.ErrMsgFailedToReadManifest, path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s %s: %w", errors.ErrMsgFailedToParseManifest, path, err)
	}

	return &m, nil
}

// Resolve expands every manifest target's srcs against the workspace root
// (or the external store for external targets) and returns concrete
// Targets. Glob matches are sorted; literal entries keep declaration order.
func (m *Manifest) Resolve(workspace string) ([]Target, error) {
	targets := make([]Target, 0, len(m.Targets))
	for _, mt := range m.Targets {
		base := workspace
		if mt.External {
			base = mt.Store
			if base == "" {
				base = filepath.Join(workspace, "..", "external", mt.Name)
			} else if !filepath.IsAbs(base) {
				base = filepath.Join(workspace, base)
			}
		}

		srcs, err := expandSrcs(base, mt.Srcs)
		if err != nil {
			return nil, fmt.Errorf("%s of target %s: %w", errors.ErrMsgFailedToExpandSrcs, mt.Name, err)
		}

		targets = append(targets, Target{
			Name:       mt.Name,
			Srcs:       srcs,
			Imports:    mt.Imports,
			Deps:       mt.Deps,
			Root:       base,
			LegacyInit: mt.LegacyInit,
		})
	}
	return targets, nil
}

func expandSrcs(base string, patterns []string) ([]string, error) {
	var srcs []string
	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			path := filepath.Join(base, pattern)

			// A plain entry naming a directory pulls in every Python
			// file under it.
			if isDir, err := utils.IsDirectory(path); err == nil && isDir {
				found, err := utils.FindPythonFiles(path)
				if err != nil {
					return nil, err
				}
				sort.Strings(found)
				srcs = append(srcs, found...)
				continue
			}

			srcs = append(srcs, path)
			continue
		}

		matches, err := doublestar.FilepathGlob(filepath.Join(base, pattern))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		srcs = append(srcs, matches...)
	}
	return srcs, nil
}
