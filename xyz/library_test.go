// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"testing"

	"cogentcore.org/meshbatch/base/errors"
	"cogentcore.org/meshbatch/batch"
	"cogentcore.org/meshbatch/math32"
	"cogentcore.org/meshbatch/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLibrary(t *testing.T) *Library {
	bm, err := batch.NewMeshManager(batch.Config{Label: "xyz", VertexCapacity: 64, IndexCapacity: 64}, nil)
	require.NoError(t, err)
	return NewLibrary("test", bm)
}

func TestSetMesh(t *testing.T) {
	lb := newTestLibrary(t)
	box, err := lb.SetMesh("box", shape.NewBox(1, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 24, box.NumVertex)
	assert.Equal(t, 12, box.NumTriangle)
	assert.Equal(t, math32.Vec3(0.5, 0.5, 0.5), box.BBox.Max)

	floor, err := lb.SetMesh("floor", shape.NewPlane(math32.Y, 10, 10))
	require.NoError(t, err)
	assert.Equal(t, []string{"box", "floor"}, lb.MeshList())
	assert.Equal(t, box, lb.MeshByName("box"))
	assert.Nil(t, lb.MeshByName("sphere"))
	_, err = lb.MeshByNameTry("sphere")
	assert.ErrorContains(t, err, "sphere")

	loc, ok := lb.MeshLocation("floor")
	require.True(t, ok)
	assert.Equal(t, floor.Segment, loc.ID)
	assert.Equal(t, uint32(24), loc.VertexStart)
	assert.Equal(t, uint32(12), loc.IndexStart)
	_, ok = lb.MeshLocation("sphere")
	assert.False(t, ok)
}

func TestSetMeshReplace(t *testing.T) {
	lb := newTestLibrary(t)
	_, err := lb.SetMesh("a", shape.NewBox(1, 1, 1))
	require.NoError(t, err)
	_, err = lb.SetMesh("b", shape.NewPlane(math32.Z, 1, 1))
	require.NoError(t, err)

	pl := shape.NewPlane(math32.X, 2, 2)
	pl.Segs = [2]int{2, 2}
	a, err := lb.SetMesh("a", pl)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lb.MeshList())
	assert.Equal(t, 9, a.NumVertex)
	assert.Equal(t, shape.Shape(pl), a.Shape)
	assert.Equal(t, 2, lb.Manager.Len())

	// b moved down over the old box, a went after it
	lb1, _ := lb.MeshLocation("b")
	la, _ := lb.MeshLocation("a")
	assert.Equal(t, uint32(0), lb1.VertexStart)
	assert.Equal(t, uint32(4), la.VertexStart)
	st := lb.Manager.Stats()
	assert.Equal(t, 13, st.Vertices)
}

func TestSetMeshTooLarge(t *testing.T) {
	lb := newTestLibrary(t)
	a, err := lb.SetMesh("a", shape.NewPlane(math32.Y, 1, 1))
	require.NoError(t, err)
	before, _ := lb.MeshLocation("a")

	big := shape.NewPlane(math32.Y, 1, 1)
	big.Segs = [2]int{10, 10}
	ms, err := lb.SetMesh("a", big)
	assert.Nil(t, ms)
	assert.True(t, errors.Is(err, batch.ErrExceedsCapacity))
	after, _ := lb.MeshLocation("a")
	assert.Equal(t, before, after)
	assert.Equal(t, 4, a.NumVertex)

	_, err = lb.SetMesh("b", big)
	assert.Error(t, err)
	assert.Equal(t, []string{"a"}, lb.MeshList())
}

func TestSetMeshData(t *testing.T) {
	lb := newTestLibrary(t)
	vs := make([]batch.Vertex, 3)
	vs[1].Position.Set(1, 0, 0)
	vs[2].Position.Set(0, 2, 0)
	tris := []batch.Triangle{batch.Tri(0, 1, 2)}
	ms, err := lb.SetMeshData("tri", vs, tris)
	require.NoError(t, err)
	assert.Nil(t, ms.Shape)
	assert.Equal(t, math32.Vec3(1, 2, 0), ms.BBox.Max)
	assert.Equal(t, tris, lb.Manager.Indexes(0))
}

func TestAddMeshUnique(t *testing.T) {
	lb := newTestLibrary(t)
	_, err := lb.AddMeshUnique("quad", shape.NewPlane(math32.Z, 1, 1))
	require.NoError(t, err)
	ms, err := lb.AddMeshUnique("quad", shape.NewPlane(math32.Z, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, "quad_1", ms.Name)
	assert.Equal(t, []string{"quad", "quad_1"}, lb.MeshList())
}

func TestAddMeshUniqueTaken(t *testing.T) {
	lb := newTestLibrary(t)
	a2, err := lb.SetMesh("a_2", shape.NewPlane(math32.Z, 1, 1))
	require.NoError(t, err)
	_, err = lb.SetMesh("a", shape.NewPlane(math32.Z, 1, 1))
	require.NoError(t, err)

	ms, err := lb.AddMeshUnique("a", shape.NewBox(1, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, "a_3", ms.Name)
	assert.Equal(t, []string{"a_2", "a", "a_3"}, lb.MeshList())
	assert.Equal(t, 3, lb.Manager.Len())
	assert.Equal(t, 4, a2.NumVertex)
	assert.NotEqual(t, a2.Segment, ms.Segment)
}

func TestDeleteMesh(t *testing.T) {
	lb := newTestLibrary(t)
	for _, name := range []string{"a", "b", "c"} {
		_, err := lb.SetMesh(name, shape.NewPlane(math32.Y, 1, 1))
		require.NoError(t, err)
	}
	assert.True(t, lb.DeleteMesh("a"))
	assert.False(t, lb.DeleteMesh("a"))
	assert.Equal(t, []string{"b", "c"}, lb.MeshList())
	lc, _ := lb.MeshLocation("c")
	assert.Equal(t, uint32(4), lc.VertexStart)
	assert.Equal(t, uint32(2), lc.IndexStart)
	assert.Equal(t, []batch.Triangle{batch.Tri(4, 5, 7), batch.Tri(4, 7, 6)}, lb.Manager.Indexes(0)[2:4])
}

func TestDraws(t *testing.T) {
	lb := newTestLibrary(t)
	for _, name := range []string{"a", "b", "c"} {
		_, err := lb.SetMesh(name, shape.NewBox(1, 1, 1))
		require.NoError(t, err)
	}
	// c did not fit in pair 0, but this does
	_, err := lb.SetMesh("d", shape.NewPlane(math32.Y, 1, 1))
	require.NoError(t, err)

	draws := lb.Draws()
	require.Len(t, draws, 4)
	assert.Equal(t, Draw{Name: "a", Batch: 0, FirstIndex: 0, IndexCount: 36}, draws[0])
	assert.Equal(t, Draw{Name: "b", Batch: 0, FirstIndex: 36, IndexCount: 36}, draws[1])
	assert.Equal(t, Draw{Name: "d", Batch: 0, FirstIndex: 72, IndexCount: 6}, draws[2])
	assert.Equal(t, Draw{Name: "c", Batch: 1, FirstIndex: 0, IndexCount: 36}, draws[3])
}

func TestLibraryReset(t *testing.T) {
	lb := newTestLibrary(t)
	other := NewLibrary("other", lb.Manager)
	_, err := lb.SetMesh("a", shape.NewPlane(math32.Y, 1, 1))
	require.NoError(t, err)
	_, err = other.SetMesh("a", shape.NewPlane(math32.Y, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, lb.Manager.Len())

	lb.Reset()
	assert.Empty(t, lb.MeshList())
	assert.Equal(t, 1, lb.Manager.Len())
	loc, ok := other.MeshLocation("a")
	require.True(t, ok)
	assert.Equal(t, uint32(0), loc.VertexStart)
	_, err = lb.SetMesh("a", shape.NewPlane(math32.Y, 1, 1))
	assert.NoError(t, err)
}
