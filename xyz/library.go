// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xyz manages libraries of named meshes, packed into the
// batch pairs of a [batch.MeshManager] for drawing.
package xyz

import (
	"cmp"
	"fmt"
	"slices"

	"cogentcore.org/meshbatch/base/ordmap"
	"cogentcore.org/meshbatch/batch"
	"cogentcore.org/meshbatch/shape"
)

// Library is a set of named meshes, stored in the batch pairs of a
// [batch.MeshManager]. Setting a mesh under an existing name replaces
// its data in place of adding a new copy. Several libraries can share
// one manager.
type Library struct {
	// Name is the name of the library, for messages.
	Name string

	// Meshes are the meshes, in the order they were first set.
	Meshes ordmap.Map[string, *Mesh]

	// Manager holds the mesh data.
	Manager *batch.MeshManager

	// scratch arrays for shape data, which is copied by Submit
	vertex []batch.Vertex
	tris   []batch.Triangle
}

// NewLibrary returns a new [Library] storing its meshes in the given manager.
func NewLibrary(name string, bm *batch.MeshManager) *Library {
	lb := &Library{Name: name, Manager: bm}
	lb.Meshes.Init()
	return lb
}

// SetMesh sets the mesh of the given name to the data of the given
// shape, replacing any existing mesh of the same name. If the data
// cannot be placed, an existing mesh keeps its previous data and the
// error is returned. A returned mesh with an error wrapping
// [batch.ErrMirrorSync] was placed, but the mirror is not up to date.
func (lb *Library) SetMesh(name string, sh shape.Shape) (*Mesh, error) {
	lb.vertex, lb.tris = shape.SetArrays(sh, lb.vertex, lb.tris)
	ms, err := lb.set(name, lb.vertex, lb.tris)
	if ms != nil {
		ms.Shape = sh
		ms.BBox = sh.BBox()
	}
	return ms, err
}

// SetMeshData sets the mesh of the given name to the given vertices
// and triangles, replacing any existing mesh of the same name.
// See [Library.SetMesh].
func (lb *Library) SetMeshData(name string, vertex []batch.Vertex, tris []batch.Triangle) (*Mesh, error) {
	ms, err := lb.set(name, vertex, tris)
	if ms != nil {
		ms.Shape = nil
		ms.BBox = shape.BBoxFromVertices(vertex, 0, len(vertex))
	}
	return ms, err
}

func (lb *Library) set(name string, vertex []batch.Vertex, tris []batch.Triangle) (*Mesh, error) {
	ms, has := lb.Meshes.ValueByKeyTry(name)
	if !has {
		ms = &Mesh{Name: name}
	}
	id, err := lb.Manager.Submit(vertex, tris, ms.Segment)
	if id == batch.InvalidSegment {
		return nil, fmt.Errorf("xyz.Library %s: setting mesh %q: %w", lb.Name, name, err)
	}
	ms.Segment = id
	ms.NumVertex = len(vertex)
	ms.NumTriangle = len(tris)
	lb.Meshes.Add(name, ms)
	return ms, err
}

// AddMeshUnique sets the given shape as a new mesh, ensuring that it
// has a unique name if one already exists. This is used e.g., in
// loading external files which may not obey this constraint.
func (lb *Library) AddMeshUnique(name string, sh shape.Shape) (*Mesh, error) {
	if _, has := lb.Meshes.ValueByKeyTry(name); !has {
		return lb.SetMesh(name, sh)
	}
	for i := lb.Meshes.Len(); ; i++ {
		nm := fmt.Sprintf("%s_%d", name, i)
		if _, has := lb.Meshes.ValueByKeyTry(nm); !has {
			return lb.SetMesh(nm, sh)
		}
	}
}

// MeshByName looks for mesh by name, returning nil if not found.
func (lb *Library) MeshByName(name string) *Mesh {
	return lb.Meshes.ValueByKey(name)
}

// MeshByNameTry looks for mesh by name, returning error if not found.
func (lb *Library) MeshByNameTry(name string) (*Mesh, error) {
	ms, ok := lb.Meshes.ValueByKeyTry(name)
	if ok {
		return ms, nil
	}
	return nil, fmt.Errorf("Mesh named: %v not found in Library: %v", name, lb.Name)
}

// MeshLocation returns the current location of the data of the
// named mesh, and false if there is no such mesh. Locations change
// when other meshes in the same pair are deleted or replaced.
func (lb *Library) MeshLocation(name string) (batch.BufferSegment, bool) {
	ms, ok := lb.Meshes.ValueByKeyTry(name)
	if !ok {
		return batch.BufferSegment{}, false
	}
	return lb.Manager.SegmentTry(ms.Segment)
}

// MeshList returns the names of the meshes, in order.
func (lb *Library) MeshList() []string {
	return lb.Meshes.Keys()
}

// DeleteMesh deletes the named mesh, releasing its space.
// It returns false if there is no such mesh.
func (lb *Library) DeleteMesh(name string) bool {
	ms, ok := lb.Meshes.ValueByKeyTry(name)
	if !ok {
		return false
	}
	lb.Manager.Remove(ms.Segment)
	lb.Meshes.DeleteKey(name)
	return true
}

// Reset deletes all meshes. Meshes of other libraries
// sharing the manager are not affected.
func (lb *Library) Reset() {
	for _, kv := range lb.Meshes.Order {
		lb.Manager.Remove(kv.Value.Segment)
	}
	lb.Meshes.Reset()
	lb.Meshes.Init()
}

// Draws returns the draw ranges of all meshes, ordered by pair and
// then by position, so that each pair is bound once.
func (lb *Library) Draws() []Draw {
	draws := make([]Draw, 0, lb.Meshes.Len())
	for _, kv := range lb.Meshes.Order {
		if seg, ok := lb.Manager.SegmentTry(kv.Value.Segment); ok {
			draws = append(draws, drawOf(kv.Key, seg))
		}
	}
	slices.SortFunc(draws, func(a, b Draw) int {
		return cmp.Or(cmp.Compare(a.Batch, b.Batch), cmp.Compare(a.FirstIndex, b.FirstIndex))
	})
	return draws
}
