package classify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pyrules/isort-aspect/pkg/graph"
	"github.com/pyrules/isort-aspect/pkg/utils"
)

func wsRel(workspace string) PathNormalizer {
	return func(path string) (string, bool) {
		return utils.WorkspaceRel(workspace, path)
	}
}

func TestClassify_EmptyInputs(t *testing.T) {
	req := require.New(t)

	target := &graph.Target{Name: "empty", Root: "/ws"}
	res := Classify(target, nil, wsRel("/ws"))

	req.Empty(res.FirstParty)
	req.Empty(res.ThirdParty)
}

func TestClassify_NoDepsMeansNoThirdParty(t *testing.T) {
	req := require.New(t)

	target := &graph.Target{
		Name:    "app",
		Root:    "/ws",
		Srcs:    []string{"/ws/app/main.py"},
		Imports: []string{"app"},
	}
	res := Classify(target, nil, wsRel("/ws"))

	req.Equal([]string{"app"}, res.FirstParty)
	req.Empty(res.ThirdParty)
}

func TestClassify_SiblingImportRootIsFirstParty(t *testing.T) {
	req := require.New(t)

	// Target A declares import root "app"; target B depends on A and
	// imports foo as a sibling. "app" must land in B's first-party set.
	a := &graph.Target{
		Name:    "a",
		Root:    "/ws",
		Srcs:    []string{"/ws/app/foo.py"},
		Imports: []string{"app"},
	}
	b := &graph.Target{
		Name: "b",
		Root: "/ws",
		Srcs: []string{"/ws/app/bar.py"},
		Deps: []string{"a"},
	}

	res := Classify(b, []*graph.Target{a}, wsRel("/ws"))

	req.Equal([]string{"app"}, res.FirstParty)
	req.Empty(res.ThirdParty)
}

func TestClassify_ExternalDepIsThirdParty(t *testing.T) {
	req := require.New(t)

	requests := &graph.Target{
		Name: "requests",
		Root: "/ext/pypi__requests",
		Srcs: []string{
			"/ext/pypi__requests/requests/__init__.py",
			"/ext/pypi__requests/requests/api.py",
		},
	}
	c := &graph.Target{
		Name: "c",
		Root: "/ws",
		Srcs: []string{"/ws/client/main.py"},
		Deps: []string{"requests"},
	}

	res := Classify(c, []*graph.Target{requests}, wsRel("/ws"))

	req.Empty(res.FirstParty)
	req.Equal([]string{"requests"}, res.ThirdParty)
}

func TestClassify_FirstPartyWinsOnConflict(t *testing.T) {
	req := require.New(t)

	// The same root name arrives from an internal dependency and from an
	// externally fetched one. First-party must win and the sets must stay
	// disjoint.
	internal := &graph.Target{
		Name: "internal-utils",
		Root: "/ws",
		Srcs: []string{"/ws/utils/strings.py"},
	}
	external := &graph.Target{
		Name: "vendored-utils",
		Root: "/ext/pypi__utils",
		Srcs: []string{"/ext/pypi__utils/utils/strings.py"},
	}
	target := &graph.Target{
		Name: "app",
		Root: "/ws",
		Srcs: []string{"/ws/app/main.py"},
		Deps: []string{"internal-utils", "vendored-utils"},
	}

	res := Classify(target, []*graph.Target{internal, external}, wsRel("/ws"))

	req.Equal([]string{"utils"}, res.FirstParty)
	req.Empty(res.ThirdParty)

	for _, root := range res.FirstParty {
		req.NotContains(res.ThirdParty, root)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	req := require.New(t)

	lib := &graph.Target{
		Name: "lib",
		Root: "/ws",
		Srcs: []string{"/ws/lib/api.py", "/ws/lib/db.py"},
	}
	ext := &graph.Target{
		Name: "six",
		Root: "/ext/pypi__six",
		Srcs: []string{"/ext/pypi__six/six.py"},
	}
	target := &graph.Target{
		Name:    "app",
		Root:    "/ws",
		Srcs:    []string{"/ws/app/main.py"},
		Imports: []string{"app"},
		Deps:    []string{"lib", "six"},
	}

	first := Classify(target, []*graph.Target{lib, ext}, wsRel("/ws"))
	second := Classify(target, []*graph.Target{lib, ext}, wsRel("/ws"))
	reordered := Classify(target, []*graph.Target{ext, lib}, wsRel("/ws"))

	req.Equal(first, second)
	req.Equal(first, reordered)
	req.Equal([]string{"app", "lib"}, first.FirstParty)
	req.Equal([]string{"six"}, first.ThirdParty)
}

func TestClassify_SkipsSelfReference(t *testing.T) {
	req := require.New(t)

	target := &graph.Target{
		Name: "app",
		Root: "/ws",
		Srcs: []string{"/ws/app/main.py"},
	}

	// A dependency list that echoes the target back must not make the
	// target's own sources contribute roots.
	res := Classify(target, []*graph.Target{target}, wsRel("/ws"))

	req.Empty(res.FirstParty)
	req.Empty(res.ThirdParty)
}

func TestPackageRoot(t *testing.T) {
	tests := []struct {
		name   string
		target *graph.Target
		src    string
		want   string
	}{
		{
			name:   "nested file uses first segment",
			target: &graph.Target{Root: "/ws"},
			src:    "/ws/app/sub/mod.py",
			want:   "app",
		},
		{
			name:   "base-level module uses its stem",
			target: &graph.Target{Root: "/ws"},
			src:    "/ws/six.py",
			want:   "six",
		},
		{
			name: "legacy init picks shallowest package dir",
			target: &graph.Target{
				Root:       "/ws",
				LegacyInit: true,
				Srcs: []string{
					"/ws/src/mypkg/__init__.py",
					"/ws/src/mypkg/mod.py",
				},
			},
			src:  "/ws/src/mypkg/mod.py",
			want: "src/mypkg",
		},
		{
			name: "legacy init with package marker at first segment",
			target: &graph.Target{
				Root:       "/ws",
				LegacyInit: true,
				Srcs: []string{
					"/ws/app/__init__.py",
					"/ws/app/sub/__init__.py",
					"/ws/app/sub/mod.py",
				},
			},
			src:  "/ws/app/sub/mod.py",
			want: "app",
		},
		{
			name: "legacy init without any marker falls back to dir",
			target: &graph.Target{
				Root:       "/ws",
				LegacyInit: true,
				Srcs:       []string{"/ws/scripts/tool.py"},
			},
			src:  "/ws/scripts/tool.py",
			want: "scripts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := packageRoot(tt.target, tt.src)
			require.Equal(t, tt.want, result)
		})
	}
}
