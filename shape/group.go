// Copyright 2022 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"cogentcore.org/meshbatch/batch"
)

// Group is a group of shapes, set one after the other into the
// same arrays, so that they can be submitted as a single mesh.
type Group struct {
	Base

	// list of shapes in group
	Shapes []Shape
}

// NewGroup returns a Group of the given shapes.
func NewGroup(shapes ...Shape) *Group {
	return &Group{Shapes: shapes}
}

// MeshSize returns number of vertices and triangles in this shape element.
func (sb *Group) MeshSize() (numVertex, numTriangle int) {
	for _, sh := range sb.Shapes {
		nv, nt := sh.MeshSize()
		numVertex += nv
		numTriangle += nt
	}
	return
}

// Set sets points in given allocated arrays, also updates offsets
func (sb *Group) Set(vertex []batch.Vertex, tris []batch.Triangle) {
	vo := sb.VertexOffset
	to := sb.TriangleOffset
	sb.CBBox.SetEmpty()
	for _, sh := range sb.Shapes {
		sh.SetOffsets(vo, to)
		sh.Set(vertex, tris)
		sb.CBBox.ExpandByBox(sh.BBox())
		nv, nt := sh.MeshSize()
		vo += nv
		to += nt
	}
}
