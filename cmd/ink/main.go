// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command ink serves the handwritten diary and renders recorded pages.
package main

func main() {
	Execute()
}
