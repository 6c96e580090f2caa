package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pyrules/isort-aspect/pkg/logger"
	"github.com/pyrules/isort-aspect/pkg/utils"
)

const debounceWindow = 300 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the import check whenever Python sources change",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, g, err := buildAspect("")
	if err != nil {
		return err
	}

	log := logger.ForComponent("watch")

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsWatcher.Close()

	if err := addWorkspaceDirs(fsWatcher, g.Workspace()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCheckPass := func() {
		report, err := a.Check(ctx, nil)
		if err != nil {
			log.Error("check pass failed", "error", err)
			return
		}
		if report.Failed > 0 {
			log.Warn("import check failed", "targets", report.Failed)
			for _, res := range report.Results {
				if res.ExitCode != 0 {
					log.Warn("violations", "target", res.Target, "exit", res.ExitCode)
				}
			}
		} else {
			log.Info("import check passed", "targets", len(report.Results))
		}
	}

	log.Info("watching workspace", "root", g.Workspace())
	runCheckPass()

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addWorkspaceDirs(fsWatcher, event.Name)
				}
			}
			if !utils.IsPythonFile(event.Name) {
				continue
			}
			// Coalesce bursts of events into one check pass.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			runCheckPass()
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", "error", err)
		}
	}
}

func addWorkspaceDirs(w *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		name := filepath.Base(path)
		if path != root && (name == "__pycache__" || name == "venv" || strings.HasPrefix(name, ".")) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
