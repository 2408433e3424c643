// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import "fmt"

// SegmentID is an opaque identifier for one submitted collection
// of vertex and index data.
type SegmentID uint64

// InvalidSegment is the sentinel [SegmentID] that never names a segment.
// Passing it to [Manager.Submit] requests a new segment.
const InvalidSegment SegmentID = 0

// BufferSegment records where one collection lives: the batch pair
// index, and the start offset and length of its data in both the
// vertex and the index arena of that pair. Vertex and index data
// of one segment always live in the same pair.
type BufferSegment struct {
	ID SegmentID

	// Batch is the index of the pair holding the data.
	Batch int

	// VertexStart is the offset of the first vertex in the vertex arena.
	VertexStart uint32

	// VertexCount is the number of vertices.
	VertexCount uint32

	// IndexStart is the offset of the first triangle in the index arena.
	IndexStart uint32

	// IndexCount is the number of triangles.
	IndexCount uint32
}

// IsValid returns whether the segment names real data: a non-sentinel
// id and at least one non-zero count.
func (bs BufferSegment) IsValid() bool {
	return bs.ID != InvalidSegment && (bs.VertexCount != 0 || bs.IndexCount != 0)
}

// VertexEnd returns the offset just past the last vertex.
func (bs BufferSegment) VertexEnd() uint32 { return bs.VertexStart + bs.VertexCount }

// IndexEnd returns the offset just past the last triangle.
func (bs BufferSegment) IndexEnd() uint32 { return bs.IndexStart + bs.IndexCount }

func (bs BufferSegment) String() string {
	return fmt.Sprintf("segment %d: batch %d vertex [%d, %d) index [%d, %d)", bs.ID, bs.Batch, bs.VertexStart, bs.VertexEnd(), bs.IndexStart, bs.IndexEnd())
}

// rebaseAfter shifts the segment to account for the removal of rm,
// if both live in the same pair. Vertex and index offsets are adjusted
// independently, matching the physical shift inside the arenas.
func (bs *BufferSegment) rebaseAfter(rm BufferSegment) {
	if bs.Batch != rm.Batch {
		return
	}
	if bs.VertexStart >= rm.VertexEnd() {
		bs.VertexStart -= rm.VertexCount
	}
	if bs.IndexStart >= rm.IndexEnd() {
		bs.IndexStart -= rm.IndexCount
	}
}
