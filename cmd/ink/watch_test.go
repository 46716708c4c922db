// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMatched(t *testing.T) {
	root := filepath.FromSlash("/diary")
	tests := []struct {
		path string
		want bool
	}{
		{"/diary/day.ink.json", true},
		{"/diary/2026/03/day.ink.json", true},
		{"/diary/day.json", false},
		{"/elsewhere/day.ink.json", false},
	}
	for _, tt := range tests {
		if got := matched(root, "**/*.ink.json", filepath.FromSlash(tt.path)); got != tt.want {
			t.Errorf("matched(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatchDir(t *testing.T) {
	root := t.TempDir()
	old := writeRecordings(t, root, "old.ink.json", 1)
	_ = os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600)

	seen := make(chan string, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchDir(ctx, root, "**/*.ink.json", func(path string) error {
			seen <- path
			return nil
		})
	}()

	wait := func(want string) {
		t.Helper()
		select {
		case got := <-seen:
			if got != want {
				t.Errorf("handled %q, want %q", got, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("%q was not handled", want)
		}
	}
	wait(old)

	sub := filepath.Join(root, "march")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	// Give the watcher time to add the new directory.
	time.Sleep(100 * time.Millisecond)
	wait(writeRecordings(t, sub, "new.ink.json", 1))

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watchDir() = %v", err)
	}
}

func TestWatchDirInvalidPattern(t *testing.T) {
	if err := watchDir(context.Background(), t.TempDir(), "[", func(string) error { return nil }); err == nil {
		t.Error("invalid pattern accepted")
	}
}
