// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"unsafe"

	"cogentcore.org/meshbatch/math32"
)

const (
	// MaxVertices is the maximum number of [Vertex] records
	// that one vertex arena can hold.
	MaxVertices = 200_000

	// MaxTriangles is the maximum number of [Triangle] records
	// that one index arena can hold.
	MaxTriangles = 200_000
)

// Element is a fixed-size record type that can be stored in an [Arena].
// MaxCapacity is called on the zero value, and returns the type-level
// maximum number of records one arena of this type can hold.
type Element interface {
	MaxCapacity() int
}

// Indexed is an [Element] whose components reference records in a
// co-located vertex arena by absolute position, so they must be
// rebased whenever the referenced vertex region moves.
type Indexed[T any] interface {
	Element

	// Rebase returns a copy of the record with delta added
	// to every component.
	Rebase(delta int) T

	// MaxIndex returns the largest component of the record.
	MaxIndex() int
}

// Vertex is one vertex record: the full set of per-vertex attributes
// needed for lit, normal-mapped rendering. The allocator never
// interprets these values; it only copies and shifts them.
type Vertex struct {
	Position math32.Vector3
	Normal   math32.Vector3
	TexCoord math32.Vector2
	Tangent  math32.Vector3
	Binormal math32.Vector3
}

func (Vertex) MaxCapacity() int { return MaxVertices }

// Triangle is one index record: three vertex indexes, each naming
// a [Vertex] by absolute position within its vertex arena.
type Triangle [3]uint32

func (Triangle) MaxCapacity() int { return MaxTriangles }

// Rebase returns the triangle with delta added to each index.
func (tr Triangle) Rebase(delta int) Triangle {
	for i := range tr {
		tr[i] = uint32(int(tr[i]) + delta)
	}
	return tr
}

// MaxIndex returns the largest of the three vertex indexes.
func (tr Triangle) MaxIndex() int {
	return int(max(tr[0], tr[1], tr[2]))
}

// Tri returns a new [Triangle] with the given vertex indexes.
func Tri(a, b, c uint32) Triangle {
	return Triangle{a, b, c}
}

// MaxCapacity returns the type-level maximum capacity for element type T.
func MaxCapacity[T Element]() int {
	var zv T
	return zv.MaxCapacity()
}

// ElementSize returns the size in bytes of one record of type T.
func ElementSize[T any]() int {
	var zv T
	return int(unsafe.Sizeof(zv))
}

// Bytes returns the given records as a byte slice that shares memory
// with them, for verbatim upload into a GPU buffer.
func Bytes[T any](recs []T) []byte {
	if len(recs) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&recs[0])), len(recs)*ElementSize[T]())
}
