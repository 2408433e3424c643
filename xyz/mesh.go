// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"cogentcore.org/meshbatch/batch"
	"cogentcore.org/meshbatch/math32"
	"cogentcore.org/meshbatch/shape"
)

// MeshName is a [Mesh] name, by which meshes are linked to
// the things that draw them.
type MeshName string

// Mesh records a named mesh in a [Library], and the segment
// holding its data in the batch pairs of the library's manager.
// Only indexed triangle meshes are supported.
type Mesh struct {
	// Name is the name of the mesh, unique in its library.
	Name string

	// Shape is the shape the mesh was made from,
	// or nil if it was set from data with [Library.SetMeshData].
	Shape shape.Shape

	// Segment is the id of the segment holding the mesh data.
	Segment batch.SegmentID

	// NumVertex is the number of vertices.
	NumVertex int

	// NumTriangle is the number of triangles.
	NumTriangle int

	// BBox is the bounding box of the mesh vertices.
	BBox math32.Box3
}

// Draw is the range of one mesh in its batch pair, in the units of an
// indexed draw call: FirstIndex and IndexCount count indexes (three per
// triangle) in the index buffer of the pair. Indexes are already
// rebased onto the vertex buffer of the pair, so the base vertex is 0.
type Draw struct {
	Name MeshName

	// Batch is the index of the pair holding the mesh.
	Batch int

	FirstIndex uint32
	IndexCount uint32
}

// drawOf returns the [Draw] for the given mesh at the given location.
func drawOf(name string, seg batch.BufferSegment) Draw {
	return Draw{
		Name:       MeshName(name),
		Batch:      seg.Batch,
		FirstIndex: 3 * seg.IndexStart,
		IndexCount: 3 * seg.IndexCount,
	}
}
