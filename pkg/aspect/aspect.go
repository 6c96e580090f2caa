package aspect

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pyrules/isort-aspect/pkg/action"
	"github.com/pyrules/isort-aspect/pkg/classify"
	"github.com/pyrules/isort-aspect/pkg/errors"
	"github.com/pyrules/isort-aspect/pkg/graph"
	"github.com/pyrules/isort-aspect/pkg/logger"
	"github.com/pyrules/isort-aspect/pkg/toolchain"
)

// Config wires an Aspect. The formatter is injected so evaluation can be
// exercised without spawning processes.
type Config struct {
	Graph        *graph.Graph
	Tool         toolchain.Formatter
	SettingsPath string
	// ExtraArgs are forwarded verbatim to every isort run, after the
	// classified roots and before the sources.
	ExtraArgs []string
	// MarkerDir receives one empty marker file per passing check action.
	// Empty disables markers.
	MarkerDir string
}

// Aspect attaches the import check or format action to existing targets
// without modifying their definitions. Exactly one invocation is emitted
// per visited target.
type Aspect struct {
	graph        *graph.Graph
	tool         toolchain.Formatter
	settingsPath string
	extraArgs    []string
	markerDir    string
	log          *slog.Logger
}

// TargetResult is the outcome of one target's check action.
type TargetResult struct {
	Target   string
	ExitCode int
	Output   string
}

// Report aggregates check outcomes across targets.
type Report struct {
	Results []TargetResult
	Failed  int
}

// New validates the configuration. An unreadable settings path is a
// configuration error surfaced here, before any action runs.
func New(cfg Config) (*Aspect, error) {
	if cfg.SettingsPath != "" {
		if _, err := os.Stat(cfg.SettingsPath); err != nil {
			return nil, fmt.Errorf("%s %s: %w", errors.ErrMsgSettingsNotReadable, cfg.SettingsPath, err)
		}
	}
	return &Aspect{
		graph:        cfg.Graph,
		tool:         cfg.Tool,
		settingsPath: cfg.SettingsPath,
		extraArgs:    cfg.ExtraArgs,
		markerDir:    cfg.MarkerDir,
		log:          logger.ForComponent("aspect"),
	}, nil
}

// Check runs the check action over the named targets (all targets when
// names is empty) and reports per-target exit codes without interpreting
// them. Exit codes pass through from the tool unchanged.
func (a *Aspect) Check(ctx context.Context, names []string) (*Report, error) {
	targets, err := a.selectTargets(names)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, t := range targets {
		inv, ok, err := a.emit(t, action.CheckMode)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		res, err := a.tool.Run(ctx, inv)
		if err != nil {
			return nil, err
		}

		if res.ExitCode == 0 && inv.Marker != "" {
			if err := writeMarker(inv.Marker); err != nil {
				return nil, err
			}
		}
		if res.ExitCode != 0 {
			report.Failed++
		}
		report.Results = append(report.Results, TargetResult{
			Target:   t.Name,
			ExitCode: res.ExitCode,
			Output:   res.Output,
		})
	}
	return report, nil
}

// Format rewrites the named targets' sources in place (all targets when
// names is empty). The first failing tool run aborts the pass.
func (a *Aspect) Format(ctx context.Context, names []string) (int, error) {
	targets, err := a.selectTargets(names)
	if err != nil {
		return 0, err
	}

	formatted := 0
	for _, t := range targets {
		inv, ok, err := a.emit(t, action.FormatMode)
		if err != nil {
			return formatted, err
		}
		if !ok {
			continue
		}

		res, err := a.tool.Run(ctx, inv)
		if err != nil {
			return formatted, err
		}
		if res.ExitCode != 0 {
			return formatted, fmt.Errorf("formatting target %s failed (exit %d):\n%s", t.Name, res.ExitCode, res.Output)
		}
		formatted++
		a.log.Info("formatted target", "target", t.Name, "files", len(t.Srcs))
	}
	return formatted, nil
}

// emit classifies one target and builds its single invocation. Targets
// without Python sources produce nothing.
func (a *Aspect) emit(t *graph.Target, mode action.Mode) (action.Invocation, bool, error) {
	if len(t.Srcs) == 0 {
		a.log.Info(fmt.Sprintf(errors.InfoMsgNoPythonFilesFound, t.Name))
		return action.Invocation{}, false, nil
	}

	deps, err := a.graph.TransitiveDeps(t.Name)
	if err != nil {
		return action.Invocation{}, false, err
	}

	res := classify.Classify(t, deps, a.graph.Rel)

	marker := ""
	if mode == action.CheckMode && a.markerDir != "" {
		marker = filepath.Join(a.markerDir, t.Name+".isort.ok")
	}

	inv := action.Emit(t, res, action.Options{
		SettingsPath: a.settingsPath,
		ExtraArgs:    a.extraArgs,
		Mode:         mode,
		Marker:       marker,
	})
	return inv, true, nil
}

func (a *Aspect) selectTargets(names []string) ([]*graph.Target, error) {
	if len(names) == 0 {
		return a.graph.Targets(), nil
	}
	targets := make([]*graph.Target, 0, len(names))
	for _, name := range names {
		t, ok := a.graph.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%s: %q", errors.ErrMsgUnknownTarget, name)
		}
		targets = append(targets, t)
	}
	return targets, nil
}

func writeMarker(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, nil, 0o644)
}
