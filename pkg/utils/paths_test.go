package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkspaceRel(t *testing.T) {
	tests := []struct {
		name       string
		workspace  string
		path       string
		wantRel    string
		wantInside bool
	}{
		{
			name:       "absolute path inside workspace",
			workspace:  "/ws",
			path:       "/ws/app/main.py",
			wantRel:    "app/main.py",
			wantInside: true,
		},
		{
			name:       "relative path resolves against workspace",
			workspace:  "/ws",
			path:       "app/main.py",
			wantRel:    "app/main.py",
			wantInside: true,
		},
		{
			name:       "absolute path outside workspace",
			workspace:  "/ws",
			path:       "/ext/pypi__six/six.py",
			wantRel:    "../ext/pypi__six/six.py",
			wantInside: false,
		},
		{
			name:       "workspace root itself",
			workspace:  "/ws",
			path:       "/ws",
			wantRel:    ".",
			wantInside: true,
		},
		{
			name:       "parent escape",
			workspace:  "/ws/app",
			path:       "/ws",
			wantRel:    "..",
			wantInside: false,
		},
		{
			name:       "empty workspace keeps relative paths",
			workspace:  "",
			path:       "app/main.py",
			wantRel:    "app/main.py",
			wantInside: true,
		},
		{
			name:       "empty workspace treats absolute as outside",
			workspace:  "",
			path:       "/ext/six.py",
			wantRel:    "/ext/six.py",
			wantInside: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, inside := WorkspaceRel(tt.workspace, tt.path)
			require.Equal(t, tt.wantRel, rel)
			require.Equal(t, tt.wantInside, inside)
		})
	}
}
