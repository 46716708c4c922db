// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/gogpu/ink/export"
)

// settle is how long a file must stay unchanged before it is rendered.
const settle = 50 * time.Millisecond

var (
	watchPattern string
	watchFormat  string
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-render recordings files whenever they change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		if _, err := export.New(watchFormat); err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		opts := renderOptions{Format: watchFormat, Size: export.DefaultSize, Page: -1}
		return watchDir(ctx, root, watchPattern, func(path string) error {
			written, err := renderFile(ctx, path, opts)
			for _, w := range written {
				fmt.Fprintln(cmd.OutOrStdout(), w)
			}
			return err
		})
	},
}

// watchDir calls handle for every file under root matching pattern, then
// again each time one is created or written, until ctx ends. Handler
// errors are logged; a file is often caught half written.
func watchDir(ctx context.Context, root, pattern string, handle func(path string) error) error {
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("watch: invalid pattern %q", pattern)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	if err := addTree(w, root); err != nil {
		return err
	}

	existing, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return fmt.Errorf("watch: glob %q: %w", pattern, err)
	}
	for _, m := range existing {
		run(handle, filepath.Join(root, filepath.FromSlash(m)))
	}
	slog.Info("watching", "root", root, "pattern", pattern, "files", len(existing))

	pending := make(map[string]time.Time)
	tick := time.NewTicker(settle / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(w, ev.Name); err != nil {
						slog.Warn("watch: directory not added", "path", ev.Name, "error", err)
					}
					continue
				}
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if matched(root, pattern, ev.Name) {
				pending[ev.Name] = time.Now()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch: watcher error", "error", err)
		case now := <-tick.C:
			for path, at := range pending {
				if now.Sub(at) >= settle {
					delete(pending, path)
					run(handle, path)
				}
			}
		}
	}
}

func run(handle func(string) error, path string) {
	if err := handle(path); err != nil {
		slog.Warn("watch: render failed", "path", path, "error", err)
	}
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				return fmt.Errorf("watch: add %s: %w", path, err)
			}
		}
		return nil
	})
}

func matched(root, pattern, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "**/*.ink.json", "Glob of recordings files to render")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "png", "Output format")
}
