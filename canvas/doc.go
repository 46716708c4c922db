// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package canvas provides a raster ink.Surface drawn with github.com/gogpu/gg.
//
// Strokes use round caps and joins. Smoothing makes each segment cover
// 1/(1+s) of the distance to the sampled point, and adaptive strokes thin
// out with segment length down to half the pen weight. Erase strokes
// remove coverage from the ink layer instead of painting a color.
package canvas
