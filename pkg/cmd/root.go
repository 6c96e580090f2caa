package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pyrules/isort-aspect/pkg/aspect"
	"github.com/pyrules/isort-aspect/pkg/graph"
	"github.com/pyrules/isort-aspect/pkg/logger"
	"github.com/pyrules/isort-aspect/pkg/toolchain"
	"github.com/pyrules/isort-aspect/pkg/utils"
	"github.com/pyrules/isort-aspect/pkg/version"
)

const (
	UseDescription   = "isort-aspect [command]"
	ShortDescription = "Build-graph isort integration for Python workspaces"
	LongDescription  = `isort-aspect wires the external isort formatter into a workspace of
Python build targets.

Targets are declared in a YAML manifest (isort_targets.yaml). For every
target the tool classifies import search roots into first-party (sources
inside the workspace) and third-party (externally fetched packages) and
runs isort exactly once per target with those roots:

  isort-aspect format [TARGET...]   rewrite imports in place
  isort-aspect check  [TARGET...]   fail when imports are misordered
  isort-aspect watch                re-run the check on source changes

The isort settings file is forwarded verbatim; isort-aspect never parses
it.`
)

var (
	manifestPath string
	workspaceDir string
	settingsPath string
	isortBinary  string
	isortArgs    []string
	logLevel     string
	logFormat    string
	showVersion  bool
)

var rootCmd = &cobra.Command{
	Use:          UseDescription,
	Short:        ShortDescription,
	Long:         LongDescription,
	RunE:         runRoot,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "", "Path to the workspace manifest (default: isort_targets.yaml found upward from the working directory)")
	rootCmd.PersistentFlags().StringVar(&workspaceDir, "workspace", "", "Workspace root directory (default: the manifest's directory)")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings-path", "", "Path to an isort settings file, forwarded verbatim to isort")
	rootCmd.PersistentFlags().StringVar(&isortBinary, "isort", "isort", "Name or path of the isort binary")
	rootCmd.PersistentFlags().StringSliceVar(&isortArgs, "isort-args", nil, "Extra arguments forwarded verbatim to every isort run (e.g. --isort-args=--profile,black)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")

	cobra.OnInitialize(func() {
		cfg := logger.DefaultConfig()
		cfg.Level = logger.ParseLevel(logLevel)
		cfg.Format = logFormat
		logger.Init(cfg)
	})
}

func runRoot(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Println(version.Get().String())
		return nil
	}
	return cmd.Help()
}

// loadGraph locates the manifest, resolves target srcs and builds the
// validated DAG. Returns the graph together with the parsed manifest so
// callers can pick up manifest-level settings.
func loadGraph() (*graph.Graph, *graph.Manifest, error) {
	manifest := manifestPath
	if manifest == "" {
		root := workspaceDir
		if root == "" {
			root = utils.FindWorkspaceRoot(".")
			if root == "" {
				return nil, nil, fmt.Errorf("no %s found; use --manifest", utils.DefaultManifestName)
			}
		}
		manifest = filepath.Join(root, utils.DefaultManifestName)
	}

	m, err := graph.LoadManifest(manifest)
	if err != nil {
		return nil, nil, err
	}

	// Flag beats manifest beats the manifest's own directory.
	workspace := workspaceDir
	if workspace == "" && m.Workspace != "" {
		workspace = m.Workspace
		if !filepath.IsAbs(workspace) {
			workspace = filepath.Join(filepath.Dir(manifest), workspace)
		}
	}
	if workspace == "" {
		workspace = filepath.Dir(manifest)
	}
	workspace, err = filepath.Abs(workspace)
	if err != nil {
		return nil, nil, err
	}

	targets, err := m.Resolve(workspace)
	if err != nil {
		return nil, nil, err
	}

	g, err := graph.New(workspace, targets)
	if err != nil {
		return nil, nil, err
	}
	return g, m, nil
}

// buildAspect wires the graph, the resolved isort toolchain and the
// settings file into an Aspect ready to run.
func buildAspect(markerDir string) (*aspect.Aspect, *graph.Graph, error) {
	g, m, err := loadGraph()
	if err != nil {
		return nil, nil, err
	}

	settings := settingsPath
	if settings == "" && m.Settings != "" {
		settings = m.Settings
		if !filepath.IsAbs(settings) {
			settings = filepath.Join(g.Workspace(), settings)
		}
	}

	tool, err := toolchain.NewExecutable(isortBinary, g.Workspace())
	if err != nil {
		return nil, nil, err
	}

	a, err := aspect.New(aspect.Config{
		Graph:        g,
		Tool:         tool,
		SettingsPath: settings,
		ExtraArgs:    isortArgs,
		MarkerDir:    markerDir,
	})
	if err != nil {
		return nil, nil, err
	}
	return a, g, nil
}

func Execute(buildVersion string) error {
	if buildVersion != "" && buildVersion != "(devel)" {
		version.Version = buildVersion
	}
	return rootCmd.Execute()
}
