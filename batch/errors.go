// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import "cogentcore.org/meshbatch/base/errors"

var (
	// ErrEmptyBuffer is returned when a submission has no vertices
	// or no triangles. Nothing is changed.
	ErrEmptyBuffer = errors.New("batch: empty vertex or index buffer")

	// ErrExceedsCapacity is returned when a submission has more vertices
	// or triangles than a single arena can ever hold. The data must be
	// split before it can be submitted.
	ErrExceedsCapacity = errors.New("batch: buffer exceeds arena capacity")

	// ErrArenaFull is returned by [Arena.Append] when the records do not
	// fit in the remaining capacity. The [Manager] handles it internally
	// by choosing or creating another pair.
	ErrArenaFull = errors.New("batch: arena is full")

	// ErrOutOfRange is returned by [Arena.Remove] when the range
	// extends past the live region, and by [Manager.Submit] when an
	// index record references a vertex past the submitted vertices.
	ErrOutOfRange = errors.New("batch: range is out of the live region")

	// ErrMirrorSync is returned when the live region of a pair could not
	// be written to its GPU mirror buffers. The pair stays marked for
	// upload until [Manager.Sync] succeeds.
	ErrMirrorSync = errors.New("batch: mirror buffer sync failed")

	// ErrBadConfig is returned by [Validate] and [OpenConfig] for invalid settings.
	ErrBadConfig = errors.New("batch: invalid config")
)
