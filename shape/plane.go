// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"cogentcore.org/meshbatch/batch"
	"cogentcore.org/meshbatch/math32"
)

// Plane is a flat rectangle facing along one axis, divided into
// a grid of segments.
type Plane struct {
	Base

	// NormalAxis is the axis the plane faces along.
	NormalAxis math32.Dims

	// NormalNeg faces the plane toward the negative NormalAxis.
	NormalNeg bool

	// Size is the 2D size of the plane.
	Size math32.Vector2

	// Segs is the number of segments to divide the plane into along
	// each of its two dimensions (enforced to be at least 1).
	Segs [2]int

	// Offset is the position of the plane along its NormalAxis.
	Offset float32
}

// NewPlane returns a Plane facing along the given axis with the given size.
func NewPlane(axis math32.Dims, width, height float32) *Plane {
	pl := &Plane{}
	pl.Defaults()
	pl.NormalAxis = axis
	pl.Size.Set(width, height)
	return pl
}

func (pl *Plane) Defaults() {
	pl.NormalAxis = math32.Y
	pl.NormalNeg = false
	pl.Size.Set(1, 1)
	pl.Segs = [2]int{1, 1}
	pl.Offset = 0
}

func (pl *Plane) MeshSize() (numVertex, numTriangle int) {
	return PlaneSize(pl.Segs[0], pl.Segs[1])
}

// Set sets the vertices and triangles of the plane.
func (pl *Plane) Set(vertex []batch.Vertex, tris []batch.Triangle) {
	pl.CBBox = SetPlane(vertex, tris, pl.VertexOffset, pl.TriangleOffset, pl.NormalAxis, pl.NormalNeg, pl.Size.X, pl.Size.Y, pl.Offset, pl.Segs[0], pl.Segs[1], pl.Pos)
}

// PlaneSize returns the number of vertices and triangles of a
// plane with the given numbers of segments.
func PlaneSize(wsegs, hsegs int) (numVertex, numTriangle int) {
	wsegs, hsegs = max(wsegs, 1), max(hsegs, 1)
	numVertex = (wsegs + 1) * (hsegs + 1)
	numTriangle = wsegs * hsegs * 2
	return
}

// PlaneAxes returns the width and height axes of a plane facing along
// the given axis, such that width cross height is the normal axis.
func PlaneAxes(normal math32.Dims) (width, height math32.Dims) {
	switch normal {
	case math32.X:
		return math32.Y, math32.Z
	case math32.Y:
		return math32.Z, math32.X
	}
	return math32.X, math32.Y
}

// SetPlane sets the vertices and triangles of a plane centered on
// pos, facing along the normal axis (negative if neg), at offset
// along that axis. Triangles are counter-clockwise when viewed from
// the side the plane faces, and the normal, tangent (the direction of
// increasing U) and binormal of every vertex are set. It returns the
// bounding box of the plane.
func SetPlane(vertex []batch.Vertex, tris []batch.Triangle, vertexOffset, triangleOffset int, normal math32.Dims, neg bool, width, height, offset float32, wsegs, hsegs int, pos math32.Vector3) math32.Box3 {
	waxis, haxis := PlaneAxes(normal)
	wsegs, hsegs = max(wsegs, 1), max(hsegs, 1)
	wdir := float32(1)
	if neg {
		// flipping the width axis flips the winding
		wdir = -1
	}
	segWidth := width / float32(wsegs)
	segHeight := height / float32(hsegs)

	var norm, tangent math32.Vector3
	norm.SetDim(normal, wdir)
	tangent.SetDim(waxis, wdir)
	binormal := norm.Cross(tangent)

	bb := math32.B3Empty()
	vi := vertexOffset
	for iy := 0; iy <= hsegs; iy++ {
		for ix := 0; ix <= wsegs; ix++ {
			vtx := &vertex[vi]
			var p math32.Vector3
			p.SetDim(waxis, wdir*(float32(ix)*segWidth-0.5*width))
			p.SetDim(haxis, float32(iy)*segHeight-0.5*height)
			p.SetDim(normal, offset)
			vtx.Position = p.Add(pos)
			vtx.Normal = norm
			vtx.TexCoord.Set(float32(ix)/float32(wsegs), 1-float32(iy)/float32(hsegs))
			vtx.Tangent = tangent
			vtx.Binormal = binormal
			bb.ExpandByPoint(vtx.Position)
			vi++
		}
	}

	wsegs1 := wsegs + 1
	ti := triangleOffset
	for iy := 0; iy < hsegs; iy++ {
		for ix := 0; ix < wsegs; ix++ {
			a := uint32(vertexOffset + ix + wsegs1*iy)
			b := a + 1
			c := b + uint32(wsegs1)
			d := a + uint32(wsegs1)
			tris[ti] = batch.Tri(a, b, c)
			tris[ti+1] = batch.Tri(a, c, d)
			ti += 2
		}
	}
	return bb
}
