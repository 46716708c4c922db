// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package storetest provides entry stores for tests.
package storetest

import (
	"testing"

	"github.com/gogpu/ink/store"
)

// Open opens an in-memory store and closes it when the test ends.
func Open(t testing.TB, opts ...store.Option) *store.Store {
	t.Helper()
	s, err := store.Open(store.Memory, opts...)
	if err != nil {
		t.Fatalf("storetest: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
