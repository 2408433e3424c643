// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"cogentcore.org/meshbatch/batch"
	"cogentcore.org/meshbatch/math32"
)

// Box is a rectangular-shaped solid (cuboid), made of six planes
// with outward facing normals.
type Box struct {
	Base

	// Size is the size along each dimension.
	Size math32.Vector3

	// Segs is the number of segments to divide each plane into along
	// each dimension (enforced to be at least 1).
	// More segments can improve lighting quality.
	Segs [3]int
}

// NewBox returns a Box shape with the given size.
func NewBox(width, height, depth float32) *Box {
	bx := &Box{}
	bx.Defaults()
	bx.Size.Set(width, height, depth)
	return bx
}

func (bx *Box) Defaults() {
	bx.Size.Set(1, 1, 1)
	bx.Segs = [3]int{1, 1, 1}
}

// MeshSize returns the number of vertices and triangles in the box.
func (bx *Box) MeshSize() (numVertex, numTriangle int) {
	for _, axis := range []math32.Dims{math32.X, math32.Y, math32.Z} {
		nv, nt := bx.planeSize(axis)
		numVertex += 2 * nv
		numTriangle += 2 * nt
	}
	return
}

func (bx *Box) planeSize(normal math32.Dims) (numVertex, numTriangle int) {
	w, h := PlaneAxes(normal)
	return PlaneSize(bx.Segs[w], bx.Segs[h])
}

// Set sets the vertices and triangles of the box.
func (bx *Box) Set(vertex []batch.Vertex, tris []batch.Triangle) {
	hsz := bx.Size.MulScalar(0.5)
	voff, toff := bx.VertexOffset, bx.TriangleOffset
	bx.CBBox.SetEmpty()
	// start with negative faces, as typically back
	for _, neg := range []bool{true, false} {
		for _, axis := range []math32.Dims{math32.Z, math32.Y, math32.X} {
			w, h := PlaneAxes(axis)
			offset := hsz.Dim(axis)
			if neg {
				offset = -offset
			}
			bb := SetPlane(vertex, tris, voff, toff, axis, neg, bx.Size.Dim(w), bx.Size.Dim(h), offset, bx.Segs[w], bx.Segs[h], bx.Pos)
			bx.CBBox.ExpandByBox(bb)
			nv, nt := bx.planeSize(axis)
			voff += nv
			toff += nt
		}
	}
}
