package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/abdul-hamid-achik/tickspec/packages/core/loader"
	"github.com/abdul-hamid-achik/tickspec/packages/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

func (a *app) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <path>",
		Short: "Re-run specifications whenever they change",
		Long: `Watch runs once, then runs again every time a specification file
under <path> is written, created or removed. Stop it with Ctrl+C.

Examples:
  tickspec watch ./specs/`,
		Args:    exactArgs(1),
		PreRunE: a.setup,
		RunE:    a.watchCommand,
	}
}

func (a *app) watchCommand(cmd *cobra.Command, args []string) error {
	root := filepath.Clean(args[0])
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", loader.ErrSpecificationNotFound, root, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatches(watcher, root, info); err != nil {
		return err
	}

	a.runOnce(ctx, out, root)
	return a.watchLoop(ctx, watcher, out, root, info.IsDir())
}

func addWatches(watcher *fsnotify.Watcher, root string, info fs.FileInfo) error {
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func (a *app) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, out io.Writer, root string, isDir bool) error {
	logger := logging.ForComponent("watch")
	fmt.Fprintf(out, "\nWatching for changes... (press Ctrl+C to stop)\n")

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isDir && event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := addWatches(watcher, event.Name, fi); err != nil {
						logger.Warn("cannot watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			if a.relevant(event, root, isDir) {
				logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
				pending = time.After(WatchDebounceDelay)
			}

		case <-pending:
			pending = nil
			fmt.Fprintf(out, "\nRe-running...\n\n")
			a.runOnce(ctx, out, root)
			fmt.Fprintf(out, "\nWatching for changes... (press Ctrl+C to stop)\n")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

func (a *app) relevant(event fsnotify.Event, root string, isDir bool) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if !isDir {
		return filepath.Clean(event.Name) == root
	}
	return loader.Matches(a.cfg.Pattern, event.Name)
}

// runOnce reports one run. Errors are printed, not returned, so that the
// watch keeps going after a malformed edit.
func (a *app) runOnce(ctx context.Context, out io.Writer, root string) {
	r := a.reporter(out)

	result, err := a.newRunner().Run(ctx, root)
	if err != nil {
		r.Error(err)
		return
	}
	r.Report(result.Groups)
	r.Summary(result.Summary, result.Duration)
}
