// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shape provides mesh generators that fill [batch.Vertex] and
// [batch.Triangle] arrays, for submission to a [batch.Manager].
// Triangle indexes are relative to the start of the arrays, so the
// result of [Arrays] can be submitted as is.
package shape

import (
	"cogentcore.org/meshbatch/base/slicesx"
	"cogentcore.org/meshbatch/batch"
	"cogentcore.org/meshbatch/math32"
)

// Shape is an interface for all shape-constructing elements.
type Shape interface {
	// MeshSize returns the number of vertices and triangles in this shape element.
	MeshSize() (numVertex, numTriangle int)

	// SetOffsets sets the starting offsets of the vertices and triangles
	// of this shape element in the full arrays.
	SetOffsets(vertexOffset, triangleOffset int)

	// Set sets the vertices and triangles of this shape element
	// in the given allocated arrays, at its offsets.
	Set(vertex []batch.Vertex, tris []batch.Triangle)

	// BBox returns the bounding box of the shape.
	// It is only valid after Set has been called.
	BBox() math32.Box3
}

// Base is the base shape element.
type Base struct {

	// VertexOffset is the offset of the first vertex in the full array.
	VertexOffset int

	// TriangleOffset is the offset of the first triangle in the full array.
	TriangleOffset int

	// CBBox is the bounding box in local coordinates.
	CBBox math32.Box3

	// Pos is the position offset of the shape, to enable composition.
	Pos math32.Vector3
}

// SetOffsets sets the starting offsets of the vertices and triangles.
func (sb *Base) SetOffsets(vertexOffset, triangleOffset int) {
	sb.VertexOffset, sb.TriangleOffset = vertexOffset, triangleOffset
}

// BBox returns the bounding box of the shape.
func (sb *Base) BBox() math32.Box3 {
	return sb.CBBox
}

// Arrays allocates the arrays for the given shape and sets them.
// The shape is placed at the start of the arrays.
func Arrays(sh Shape) ([]batch.Vertex, []batch.Triangle) {
	return SetArrays(sh, nil, nil)
}

// SetArrays sets the given shape into the given arrays, reusing
// their memory where possible, and returns the resized arrays.
func SetArrays(sh Shape, vertex []batch.Vertex, tris []batch.Triangle) ([]batch.Vertex, []batch.Triangle) {
	nv, nt := sh.MeshSize()
	vertex = slicesx.SetLength(vertex, nv)
	tris = slicesx.SetLength(tris, nt)
	sh.SetOffsets(0, 0)
	sh.Set(vertex, tris)
	return vertex, tris
}

// BBoxFromVertices returns the bounding box of the given range of vertices.
func BBoxFromVertices(vertex []batch.Vertex, vertexOffset, numVertex int) math32.Box3 {
	bb := math32.B3Empty()
	for _, vtx := range vertex[vertexOffset : vertexOffset+numVertex] {
		bb.ExpandByPoint(vtx.Position)
	}
	return bb
}
