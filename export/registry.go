// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package export

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

var formats = struct {
	sync.RWMutex
	m map[string]Exporter
}{m: make(map[string]Exporter)}

// Register adds an exporter for the format name, usually from an init
// function in the file implementing it. Exporters are shared by every
// caller of New and must not keep per-export state.
//
// Register panics on a nil exporter or a format registered twice.
func Register(format string, e Exporter) {
	formats.Lock()
	defer formats.Unlock()
	if e == nil {
		panic("export: nil exporter for " + format)
	}
	if _, dup := formats.m[format]; dup {
		panic("export: format registered twice: " + format)
	}
	formats.m[format] = e
}

// New returns the exporter for format.
func New(format string) (Exporter, error) {
	formats.RLock()
	e, ok := formats.m[format]
	formats.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownFormat, format, Formats())
	}
	return e, nil
}

// Formats returns the registered format names in order.
func Formats() []string {
	formats.RLock()
	defer formats.RUnlock()
	return slices.Sorted(maps.Keys(formats.m))
}
