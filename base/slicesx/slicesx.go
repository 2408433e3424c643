// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package slicesx provides additional slice functions
// beyond those in the standard [slices] package.
package slicesx

import "slices"

// SetLength sets the length of the given slice,
// re-using and preserving existing values to the extent possible.
func SetLength[E any](s []E, n int) []E {
	if len(s) == n {
		return s
	}
	if s == nil {
		return make([]E, n)
	}
	if cap(s) < n {
		s = slices.Grow(s, n-len(s))
	}
	return s[:n]
}

// Clip returns a copy of the first n elements of s, or nil if n is 0.
// It is used to hand out read-only views that cannot alias s.
func Clip[E any](s []E, n int) []E {
	if n == 0 {
		return nil
	}
	return slices.Clone(s[:n])
}
