// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"bytes"
	"math/rand"
	"testing"

	"cogentcore.org/meshbatch/base/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quad returns a 4 vertex, 2 triangle mesh tagged with the given value.
func quad(tag float32) ([]Vertex, []Triangle) {
	return taggedVertices(tag, 4), []Triangle{Tri(0, 1, 2), Tri(0, 2, 3)}
}

// fan returns a mesh of nv tagged vertices and nt triangles.
func fan(tag float32, nv, nt int) ([]Vertex, []Triangle) {
	tris := make([]Triangle, nt)
	for i := range tris {
		tris[i] = Tri(uint32(i%nv), uint32((i+1)%nv), uint32((i+2)%nv))
	}
	return taggedVertices(tag, nv), tris
}

// submit submits a fan mesh under the given id, requiring success.
func submit(t *testing.T, bm *MeshManager, id SegmentID, tag float32, nv, nt int) SegmentID {
	t.Helper()
	vs, ts := fan(tag, nv, nt)
	got, err := bm.Submit(vs, ts, id)
	require.NoError(t, err)
	return got
}

func newTestManager(t *testing.T, vcap, icap int) (*MeshManager, *MemoryDevice) {
	dev := NewMemoryDevice()
	bm, err := NewMeshManager(Config{Label: "test", VertexCapacity: vcap, IndexCapacity: icap}, dev)
	require.NoError(t, err)
	return bm, dev
}

// assertMirrored checks that every pair is synced and that its mirror
// buffers begin with exactly the live arena contents.
func assertMirrored(t *testing.T, bm *MeshManager) {
	t.Helper()
	for i := range bm.NumBatches() {
		bv, ok := bm.Batch(i)
		require.True(t, ok)
		assert.True(t, bv.Synced, "pair %d not synced", i)
		vb := bv.VertexBuffer.(*MemoryBuffer)
		ib := bv.IndexBuffer.(*MemoryBuffer)
		vwant := Bytes(bm.Vertices(i))
		iwant := Bytes(bm.Indexes(i))
		assert.True(t, bytes.Equal(vwant, vb.Data[:len(vwant)]), "pair %d vertex mirror differs", i)
		assert.True(t, bytes.Equal(iwant, ib.Data[:len(iwant)]), "pair %d index mirror differs", i)
	}
}

// segmentTriangles returns the triangles of the given segment, converted
// back to mesh-local indexes.
func segmentTriangles(bm *MeshManager, seg BufferSegment) []Triangle {
	tris := bm.Indexes(seg.Batch)[seg.IndexStart:seg.IndexEnd()]
	local := make([]Triangle, len(tris))
	for i, tr := range tris {
		local[i] = tr.Rebase(-int(seg.VertexStart))
	}
	return local
}

func TestSubmitRemoveScenario(t *testing.T) {
	bm, _ := newTestManager(t, 0, 0)
	av, at := quad(1)
	bv, bt := quad(2)
	a, err := bm.Submit(av, at, InvalidSegment)
	require.NoError(t, err)
	b, err := bm.Submit(bv, bt, InvalidSegment)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	as, bs := bm.Segment(a), bm.Segment(b)
	assert.Equal(t, 0, as.Batch)
	assert.Equal(t, 0, bs.Batch)
	assert.Equal(t, uint32(0), as.VertexStart)
	assert.Equal(t, uint32(4), bs.VertexStart)
	assert.Equal(t, uint32(2), bs.IndexStart)
	before := bm.Indexes(0)[bs.IndexStart:bs.IndexEnd()]
	for _, tr := range before {
		for _, ix := range tr {
			assert.GreaterOrEqual(t, ix, uint32(4))
		}
	}
	assertMirrored(t, bm)

	assert.True(t, bm.Remove(a))
	bs = bm.Segment(b)
	assert.Equal(t, uint32(0), bs.VertexStart)
	assert.Equal(t, uint32(0), bs.IndexStart)
	after := bm.Indexes(0)[bs.IndexStart:bs.IndexEnd()]
	for i := range after {
		assert.Equal(t, before[i].Rebase(-4), after[i])
	}
	assert.Equal(t, bv, bm.Vertices(0))
	assert.False(t, bm.Segment(a).IsValid())
	assertMirrored(t, bm)
}

func TestSubmitErrors(t *testing.T) {
	bm, dev := newTestManager(t, 0, 0)
	vs, ts := quad(1)

	_, err := bm.Submit(nil, ts, InvalidSegment)
	assert.True(t, errors.Is(err, ErrEmptyBuffer))
	_, err = bm.Submit(vs, nil, InvalidSegment)
	assert.True(t, errors.Is(err, ErrEmptyBuffer))

	big := make([]Vertex, MaxVertices+1)
	id, err := bm.Submit(big, ts, InvalidSegment)
	assert.True(t, errors.Is(err, ErrExceedsCapacity))
	assert.Equal(t, InvalidSegment, id)
	bigTris := make([]Triangle, MaxTriangles+1)
	_, err = bm.Submit(vs, bigTris, InvalidSegment)
	assert.True(t, errors.Is(err, ErrExceedsCapacity))

	assert.Equal(t, 0, bm.NumBatches())
	assert.Equal(t, 0, bm.Len())
	assert.Empty(t, dev.Buffers)
	assert.Equal(t, 0, dev.Writes())
}

func TestSubmitIndexOutOfRange(t *testing.T) {
	bm, dev := newTestManager(t, 16, 16)
	a := submit(t, bm, InvalidSegment, 1, 4, 2)

	vs, _ := quad(2)
	ts := []Triangle{Tri(0, 1, 2), Tri(0, 3, 4)}
	id, err := bm.Submit(vs, ts, InvalidSegment)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.Equal(t, InvalidSegment, id)

	// a failed resubmit leaves the old placement alone
	_, err = bm.Submit(vs, ts, a)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.Equal(t, BufferSegment{ID: a, VertexCount: 4, IndexCount: 2}, bm.Segment(a))
	assert.Equal(t, 1, bm.Len())
	assert.Equal(t, 2, dev.Writes())
	assertMirrored(t, bm)
}

func TestSubmitExceedsConfiguredCapacity(t *testing.T) {
	bm, dev := newTestManager(t, 8, 8)
	vs, ts := fan(1, 9, 2)
	_, err := bm.Submit(vs, ts, InvalidSegment)
	assert.True(t, errors.Is(err, ErrExceedsCapacity))
	assert.Equal(t, 0, bm.NumBatches())
	assert.Equal(t, 0, dev.Writes())
}

func TestFirstFit(t *testing.T) {
	bm, _ := newTestManager(t, 10, 10)
	a := submit(t, bm, InvalidSegment, 1, 6, 3)
	b := submit(t, bm, InvalidSegment, 2, 6, 3)
	c := submit(t, bm, InvalidSegment, 3, 4, 2)
	// index room alone would fit b into pair 0; its vertices do not
	assert.Equal(t, 0, bm.Segment(a).Batch)
	assert.Equal(t, 1, bm.Segment(b).Batch)
	assert.Equal(t, 0, bm.Segment(c).Batch)
	assert.Equal(t, uint32(6), bm.Segment(c).VertexStart)
	assert.Equal(t, 2, bm.NumBatches())

	// pair 0 is full of vertices, pair 1 has room
	d := submit(t, bm, InvalidSegment, 4, 3, 1)
	assert.Equal(t, 1, bm.Segment(d).Batch)

	// emptied pairs are kept and reused
	assert.True(t, bm.Remove(a))
	assert.True(t, bm.Remove(c))
	bv, _ := bm.Batch(0)
	assert.Equal(t, 0, bv.VertexCount)
	e := submit(t, bm, InvalidSegment, 5, 10, 10)
	assert.Equal(t, 0, bm.Segment(e).Batch)
	assert.Equal(t, 2, bm.NumBatches())
	assertMirrored(t, bm)
}

func TestResubmit(t *testing.T) {
	bm, _ := newTestManager(t, 0, 0)
	a := submit(t, bm, InvalidSegment, 1, 5, 4)
	b := submit(t, bm, InvalidSegment, 2, 3, 1)

	nv, nt := fan(3, 7, 6)
	id, err := bm.Submit(nv, nt, a)
	require.NoError(t, err)
	assert.Equal(t, a, id)
	assert.Equal(t, 2, bm.Len())

	as := bm.Segment(a)
	assert.Equal(t, 0, as.Batch)
	assert.Equal(t, uint32(7), as.VertexCount)
	assert.Equal(t, uint32(6), as.IndexCount)
	// b moved down over the old placement of a, and a went after it
	assert.Equal(t, uint32(0), bm.Segment(b).VertexStart)
	assert.Equal(t, uint32(3), as.VertexStart)
	assert.Equal(t, uint32(1), as.IndexStart)

	// no space leaked from the old placement
	bv, _ := bm.Batch(0)
	assert.Equal(t, 10, bv.VertexCount)
	assert.Equal(t, 7, bv.IndexCount)
	assert.Equal(t, nv, bm.Vertices(0)[as.VertexStart:as.VertexEnd()])
	assert.Equal(t, nt, segmentTriangles(bm, as))
	assertMirrored(t, bm)
}

func TestResubmitPrefersOwnPair(t *testing.T) {
	bm, _ := newTestManager(t, 10, 10)
	x := submit(t, bm, InvalidSegment, 1, 8, 2)
	a := submit(t, bm, InvalidSegment, 2, 5, 2)
	require.Equal(t, 1, bm.Segment(a).Batch)
	require.True(t, bm.Remove(x))

	// pair 0 is empty and first, but a stays in its own pair
	id := submit(t, bm, a, 3, 5, 3)
	assert.Equal(t, a, id)
	assert.Equal(t, 1, bm.Segment(a).Batch)
	assert.Equal(t, uint32(0), bm.Segment(a).VertexStart)

	// fits in pair 1 only after the old placement is freed
	submit(t, bm, InvalidSegment, 4, 3, 1)
	submit(t, bm, InvalidSegment, 5, 9, 1)
	id = submit(t, bm, a, 6, 7, 3)
	assert.Equal(t, a, id)
	assert.Equal(t, 1, bm.Segment(a).Batch)

	assert.Equal(t, 3, bm.NumBatches())
	assertMirrored(t, bm)
}

func TestResubmitMovesPair(t *testing.T) {
	bm, _ := newTestManager(t, 10, 10)
	a := submit(t, bm, InvalidSegment, 1, 6, 2)
	b := submit(t, bm, InvalidSegment, 2, 4, 2)

	// does not fit in pair 0 even after freeing
	id := submit(t, bm, a, 3, 7, 3)
	assert.Equal(t, a, id)
	assert.Equal(t, 1, bm.Segment(a).Batch)
	assert.Equal(t, uint32(0), bm.Segment(b).VertexStart)
	assert.Equal(t, uint32(0), bm.Segment(b).IndexStart)
	bv, _ := bm.Batch(0)
	assert.Equal(t, 4, bv.VertexCount)
	assert.Equal(t, 2, bv.IndexCount)
	assert.Equal(t, taggedVertices(2, 4), bm.Vertices(0))
	assertMirrored(t, bm)
}

func TestResubmitFailureKeepsOldPlacement(t *testing.T) {
	dev := NewMemoryDevice()
	bm, err := NewMeshManager(Config{VertexCapacity: 10, IndexCapacity: 10}, dev)
	require.NoError(t, err)
	a := submit(t, bm, InvalidSegment, 1, 8, 2)
	submit(t, bm, InvalidSegment, 2, 2, 2)
	before := bm.Segment(a)
	verts := bm.Vertices(0)

	_, err = bm.Submit(nil, nil, a)
	assert.True(t, errors.Is(err, ErrEmptyBuffer))
	assert.Equal(t, before, bm.Segment(a))

	// needs a new pair, which the device cannot make
	dev.FailNew = errors.New("out of device memory")
	vs, ts := fan(3, 10, 9)
	_, err = bm.Submit(vs, ts, a)
	assert.ErrorIs(t, err, dev.FailNew)
	assert.Equal(t, before, bm.Segment(a))
	assert.Equal(t, 1, bm.NumBatches())
	assert.Equal(t, verts, bm.Vertices(0))
	assert.Equal(t, 2, bm.Len())
}

func TestRemoveNoop(t *testing.T) {
	bm, dev := newTestManager(t, 0, 0)
	assert.False(t, bm.Remove(InvalidSegment))
	assert.False(t, bm.Remove(99))
	a := submit(t, bm, InvalidSegment, 1, 3, 1)
	writes := dev.Writes()
	assert.True(t, bm.Remove(a))
	assert.False(t, bm.Remove(a))
	// the emptied pair has nothing to upload
	assert.Equal(t, writes, dev.Writes())
}

func TestCallerChosenID(t *testing.T) {
	bm, _ := newTestManager(t, 0, 0)
	id := submit(t, bm, 1, 1, 3, 1)
	assert.Equal(t, SegmentID(1), id)
	gen := submit(t, bm, InvalidSegment, 2, 3, 1)
	assert.Equal(t, SegmentID(2), gen)
	id = submit(t, bm, 42, 3, 3, 1)
	assert.Equal(t, SegmentID(42), id)
	assert.Equal(t, 3, bm.Len())
}

func TestRoundTripAddRemove(t *testing.T) {
	bm, _ := newTestManager(t, 32, 32)
	rnd := rand.New(rand.NewSource(1))
	for i := range 12 {
		submit(t, bm, InvalidSegment, float32(i), 1+rnd.Intn(10), 1+rnd.Intn(10))
	}
	before := bm.Segments()
	x := submit(t, bm, InvalidSegment, 100, 7, 5)
	require.True(t, bm.Remove(x))
	assert.Equal(t, before, bm.Segments())
	assertMirrored(t, bm)
}

func TestCompactionContent(t *testing.T) {
	bm, _ := newTestManager(t, 0, 0)
	a := submit(t, bm, InvalidSegment, 1, 5, 3)
	b := submit(t, bm, InvalidSegment, 2, 6, 4)
	c := submit(t, bm, InvalidSegment, 3, 2, 1)

	old := bm.Segment(b)
	oldVerts := bm.Vertices(0)[old.VertexStart:old.VertexEnd()]
	oldTris := segmentTriangles(bm, old)
	require.True(t, bm.Remove(a))

	nb := bm.Segment(b)
	assert.Equal(t, old.VertexStart-5, nb.VertexStart)
	assert.Equal(t, old.IndexStart-3, nb.IndexStart)
	assert.Equal(t, oldVerts, bm.Vertices(0)[nb.VertexStart:nb.VertexEnd()])
	assert.Equal(t, oldTris, segmentTriangles(bm, nb))
	assert.Equal(t, uint32(6), bm.Segment(c).VertexStart)
	assertMirrored(t, bm)
}

// TestRandomOperations runs random submissions, resubmissions and
// removals, checking after each step that every segment's data can be
// recovered exactly and that all pair invariants hold.
func TestRandomOperations(t *testing.T) {
	bm, _ := newTestManager(t, 64, 48)
	rnd := rand.New(rand.NewSource(42))
	type mesh struct {
		vs []Vertex
		ts []Triangle
	}
	meshes := map[SegmentID]mesh{}
	var ids []SegmentID

	for step := range 400 {
		switch op := rnd.Intn(3); {
		case op == 0 && len(ids) > 0:
			i := rnd.Intn(len(ids))
			id := ids[i]
			require.True(t, bm.Remove(id))
			delete(meshes, id)
			ids = append(ids[:i], ids[i+1:]...)
		case op == 1 && len(ids) > 0:
			id := ids[rnd.Intn(len(ids))]
			vs, ts := fan(float32(step), 1+rnd.Intn(40), 1+rnd.Intn(30))
			got, err := bm.Submit(vs, ts, id)
			require.NoError(t, err)
			require.Equal(t, id, got)
			meshes[id] = mesh{vs, ts}
		default:
			vs, ts := fan(float32(step), 1+rnd.Intn(40), 1+rnd.Intn(30))
			id, err := bm.Submit(vs, ts, InvalidSegment)
			require.NoError(t, err)
			meshes[id] = mesh{vs, ts}
			ids = append(ids, id)
		}

		require.Equal(t, len(meshes), bm.Len())
		nv := make([]int, bm.NumBatches())
		ni := make([]int, bm.NumBatches())
		for id, m := range meshes {
			seg, ok := bm.SegmentTry(id)
			require.True(t, ok)
			assert.Equal(t, m.vs, bm.Vertices(seg.Batch)[seg.VertexStart:seg.VertexEnd()])
			assert.Equal(t, m.ts, segmentTriangles(bm, seg))
			nv[seg.Batch] += len(m.vs)
			ni[seg.Batch] += len(m.ts)
		}
		for i := range bm.NumBatches() {
			bv, _ := bm.Batch(i)
			assert.LessOrEqual(t, bv.VertexCount, bv.VertexCapacity)
			assert.LessOrEqual(t, bv.IndexCount, bv.IndexCapacity)
			// no gaps: the live regions are exactly the sum of the segments
			assert.Equal(t, nv[i], bv.VertexCount)
			assert.Equal(t, ni[i], bv.IndexCount)
		}
		if t.Failed() {
			t.Fatalf("failed at step %d", step)
		}
	}
	assertMirrored(t, bm)
}

func TestMirrorSyncFailure(t *testing.T) {
	bm, dev := newTestManager(t, 0, 0)
	submit(t, bm, InvalidSegment, 1, 4, 2)
	vb := dev.Buffers[0]
	assert.Equal(t, VertexRole, vb.Role)
	assert.Equal(t, "test_0_Vertex", vb.Label)

	vb.FailWrite = errors.New("device lost")
	vs, ts := fan(2, 4, 2)
	b, err := bm.Submit(vs, ts, InvalidSegment)
	assert.True(t, errors.Is(err, ErrMirrorSync))
	assert.NotEqual(t, InvalidSegment, b)
	assert.True(t, bm.Segment(b).IsValid())
	bv, _ := bm.Batch(0)
	assert.False(t, bv.Synced)

	vb.FailWrite = nil
	require.NoError(t, bm.Sync())
	assertMirrored(t, bm)
}

func TestMirrorBufferSizes(t *testing.T) {
	bm, dev := newTestManager(t, 100, 50)
	submit(t, bm, InvalidSegment, 1, 4, 2)
	require.Len(t, dev.Buffers, 2)
	assert.Len(t, dev.Buffers[0].Data, 100*ElementSize[Vertex]())
	assert.Len(t, dev.Buffers[1].Data, 50*ElementSize[Triangle]())
	assert.Equal(t, IndexRole, dev.Buffers[1].Role)

	bm.Release()
	assert.True(t, dev.Buffers[0].Released)
	assert.True(t, dev.Buffers[1].Released)
}

func TestResetAndStats(t *testing.T) {
	bm, _ := newTestManager(t, 10, 10)
	submit(t, bm, InvalidSegment, 1, 6, 3)
	submit(t, bm, InvalidSegment, 2, 6, 4)
	submit(t, bm, InvalidSegment, 3, 2, 1)

	st := bm.Stats()
	assert.Equal(t, 3, st.Segments)
	assert.Equal(t, 14, st.Vertices)
	assert.Equal(t, 8, st.Indexes)
	require.Len(t, st.Pairs, 2)
	assert.Equal(t, 2, st.Pairs[0].Segments)
	assert.InDelta(t, 0.8, st.Pairs[0].VertexUsage(), 1e-6)
	assert.InDelta(t, 0.4, st.Pairs[0].IndexUsage(), 1e-6)
	assert.Contains(t, st.String(), "pair 1: 1 segments")
	bm.PrintStats()

	bm.Reset()
	assert.Equal(t, 0, bm.Len())
	assert.Equal(t, 2, bm.NumBatches())
	assert.Empty(t, bm.Vertices(0))
	assert.Nil(t, bm.Vertices(5))
	_, ok := bm.Batch(5)
	assert.False(t, ok)
}

func TestSegmentsOrder(t *testing.T) {
	bm, _ := newTestManager(t, 10, 10)
	a := submit(t, bm, InvalidSegment, 1, 6, 1)
	b := submit(t, bm, InvalidSegment, 2, 6, 1)
	c := submit(t, bm, InvalidSegment, 3, 4, 1)
	segs := bm.Segments()
	require.Len(t, segs, 3)
	assert.Equal(t, []SegmentID{a, c, b}, []SegmentID{segs[0].ID, segs[1].ID, segs[2].ID})
	assert.Contains(t, segs[1].String(), "vertex [6, 10)")
}
