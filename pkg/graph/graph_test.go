package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		targets []Target
		wantErr string
	}{
		{
			name:    "empty name rejected",
			targets: []Target{{Name: ""}},
			wantErr: "target name is required",
		},
		{
			name: "duplicate name rejected",
			targets: []Target{
				{Name: "app"},
				{Name: "app"},
			},
			wantErr: "duplicate target name",
		},
		{
			name: "unknown dep rejected",
			targets: []Target{
				{Name: "app", Deps: []string{"missing"}},
			},
			wantErr: "unknown target",
		},
		{
			name: "self-loop rejected",
			targets: []Target{
				{Name: "app", Deps: []string{"app"}},
			},
			wantErr: "self-loop",
		},
		{
			name: "cycle rejected",
			targets: []Target{
				{Name: "a", Deps: []string{"b"}},
				{Name: "b", Deps: []string{"c"}},
				{Name: "c", Deps: []string{"a"}},
			},
			wantErr: "cycle",
		},
		{
			name: "duplicate source ownership rejected",
			targets: []Target{
				{Name: "a", Srcs: []string{"/ws/app/main.py"}},
				{Name: "b", Srcs: []string{"/ws/app/main.py"}},
			},
			wantErr: "source file declared by multiple targets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("/ws", tt.targets)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNew_ValidGraph(t *testing.T) {
	req := require.New(t)

	g, err := New("/ws", []Target{
		{Name: "zlib", Srcs: []string{"/ws/zlib/z.py"}},
		{Name: "app", Srcs: []string{"/ws/app/main.py"}, Deps: []string{"zlib"}},
	})
	req.NoError(err)

	// Targets are exposed sorted by name.
	names := make([]string, 0)
	for _, t := range g.Targets() {
		names = append(names, t.Name)
	}
	req.Equal([]string{"app", "zlib"}, names)

	app, ok := g.Lookup("app")
	req.True(ok)
	req.Equal("/ws", app.Root)

	_, ok = g.Lookup("nope")
	req.False(ok)
}

func TestGraph_Rel(t *testing.T) {
	req := require.New(t)

	g, err := New("/ws", []Target{{Name: "app"}})
	req.NoError(err)

	rel, inside := g.Rel("/ws/app/main.py")
	req.True(inside)
	req.Equal("app/main.py", rel)

	rel, inside = g.Rel("/ext/pypi__six/six.py")
	req.False(inside)
	req.Equal("../ext/pypi__six/six.py", rel)
}

func TestGraph_TransitiveDeps(t *testing.T) {
	req := require.New(t)

	g, err := New("/ws", []Target{
		{Name: "app", Deps: []string{"web", "db"}},
		{Name: "web", Deps: []string{"core"}},
		{Name: "db", Deps: []string{"core"}},
		{Name: "core"},
	})
	req.NoError(err)

	deps, err := g.TransitiveDeps("app")
	req.NoError(err)

	names := make([]string, 0, len(deps))
	for _, d := range deps {
		names = append(names, d.Name)
	}
	// Declared order first, depth next, shared deps deduplicated.
	req.Equal([]string{"web", "core", "db"}, names)

	// Memoized result is identical.
	again, err := g.TransitiveDeps("app")
	req.NoError(err)
	req.Equal(deps, again)

	_, err = g.TransitiveDeps("missing")
	req.Error(err)
}

func TestGraph_TransitiveDepsExcludesSelf(t *testing.T) {
	req := require.New(t)

	g, err := New("/ws", []Target{
		{Name: "a", Deps: []string{"b"}},
		{Name: "b"},
	})
	req.NoError(err)

	deps, err := g.TransitiveDeps("a")
	req.NoError(err)
	for _, d := range deps {
		req.NotEqual("a", d.Name)
	}
}
