// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"cogentcore.org/meshbatch/base/errors"
	"cogentcore.org/meshbatch/base/slicesx"
)

// Manager packs many independently sized collections of vertex and
// index records into a small number of fixed-capacity batch pairs,
// and keeps a GPU mirror of each pair in sync with it.
//
// Each submitted collection is a segment, identified by a [SegmentID].
// Index records are stored rebased into the coordinate space of their
// pair's vertex arena. Removing a segment compacts both arenas of its
// pair and rebases every other segment of that pair that lived after it,
// so the arenas never fragment and all remaining segments stay valid.
//
// A Manager is owned by a single goroutine; it does no locking.
type Manager[V Element, I Indexed[I]] struct {
	config Config

	device Device

	vertexCapacity int
	indexCapacity  int

	// pairs in creation order. Pairs are never destroyed.
	pairs []*pair[V, I]

	// segments is the registry of all live segments.
	segments map[SegmentID]BufferSegment

	// lastID is the last generated id.
	lastID SegmentID
}

// MeshManager is a [Manager] for [Vertex] and [Triangle] records.
type MeshManager = Manager[Vertex, Triangle]

// NewManager returns a new [Manager] with the given config, making
// mirror buffers on the given device. A nil device uses a [MemoryDevice].
func NewManager[V Element, I Indexed[I]](cfg Config, dev Device) (*Manager[V, I], error) {
	if err := Validate[V, I](&cfg); err != nil {
		return nil, errors.Log(err)
	}
	if dev == nil {
		dev = NewMemoryDevice()
	}
	bm := &Manager[V, I]{
		config:   cfg,
		device:   dev,
		segments: make(map[SegmentID]BufferSegment),
	}
	bm.vertexCapacity, bm.indexCapacity = cfg.capacities(MaxCapacity[V](), MaxCapacity[I]())
	return bm, nil
}

// NewMeshManager returns a new [MeshManager]. See [NewManager].
func NewMeshManager(cfg Config, dev Device) (*MeshManager, error) {
	return NewManager[Vertex, Triangle](cfg, dev)
}

// Config returns the config the manager was made with.
func (bm *Manager[V, I]) Config() Config { return bm.config }

// VertexCapacity returns the capacity of each vertex arena.
func (bm *Manager[V, I]) VertexCapacity() int { return bm.vertexCapacity }

// IndexCapacity returns the capacity of each index arena.
func (bm *Manager[V, I]) IndexCapacity() int { return bm.indexCapacity }

// Submit places the given vertices and index records into a batch pair
// and returns the id of the segment recording the placement. Indexes
// are mesh-local: index 0 refers to vertices[0].
//
// If id names an existing segment, its old placement is released first
// and the new placement is recorded under the same id (replace, not
// append). If id is [InvalidSegment], a new id is generated; any other
// unregistered id creates a new segment under that id.
//
// Submit fails with [ErrEmptyBuffer] when either slice is empty, and
// with [ErrExceedsCapacity] when either is larger than one arena can
// ever hold, and with [ErrOutOfRange] when an index record references
// a vertex at or past len(vertices); nothing is changed in these cases.
// The target pair is
// chosen before anything is changed, so a submission is never
// partially applied. If the placement succeeds but the mirror upload
// fails, the id is returned along with an error wrapping [ErrMirrorSync],
// so callers that only care about placement check for it:
//
//	id, err := bm.Submit(vs, tris, id)
//	if err != nil && !errors.Is(err, batch.ErrMirrorSync) {
//		return err // nothing was placed
//	}
func (bm *Manager[V, I]) Submit(vertices []V, indexes []I, id SegmentID) (SegmentID, error) {
	nv, ni := len(vertices), len(indexes)
	if nv == 0 || ni == 0 {
		return InvalidSegment, errors.Log(fmt.Errorf("batch.Manager.Submit: %w: %d vertices, %d index records", ErrEmptyBuffer, nv, ni))
	}
	if nv > bm.vertexCapacity || ni > bm.indexCapacity {
		slog.Warn("batch.Manager.Submit: buffer exceeds arena capacity", "vertices", nv, "vertexCapacity", bm.vertexCapacity, "indexes", ni, "indexCapacity", bm.indexCapacity)
		return InvalidSegment, fmt.Errorf("batch.Manager.Submit: %w: %d vertices (max %d), %d index records (max %d)", ErrExceedsCapacity, nv, bm.vertexCapacity, ni, bm.indexCapacity)
	}
	for i, ix := range indexes {
		if mx := ix.MaxIndex(); mx >= nv {
			return InvalidSegment, errors.Log(fmt.Errorf("batch.Manager.Submit: %w: index record %d references vertex %d of %d", ErrOutOfRange, i, mx, nv))
		}
	}

	old, has := bm.segments[id]
	if !has || !old.IsValid() {
		old = BufferSegment{}
	}
	pr, err := bm.selectPair(nv, ni, old)
	if err != nil {
		return InvalidSegment, err
	}
	if old.IsValid() {
		bm.remove(old)
	}
	if id == InvalidSegment {
		id = bm.newID()
	}

	// selectPair guarantees room in both arenas
	vs := errors.Must1(pr.vertices.Append(vertices))
	is := errors.Must1(AppendRebased(pr.indexes, indexes, vs))
	pr.dirty = true
	bm.segments[id] = BufferSegment{
		ID:          id,
		Batch:       pr.index,
		VertexStart: uint32(vs),
		VertexCount: uint32(nv),
		IndexStart:  uint32(is),
		IndexCount:  uint32(ni),
	}
	return id, errors.Log(bm.Sync())
}

// selectPair returns the pair that will receive nv vertices and ni
// index records, making a new one if none has room. Preference order:
// the pair of the segment being replaced (old, if valid), then the
// first pair in creation order with room in both arenas.
func (bm *Manager[V, I]) selectPair(nv, ni int, old BufferSegment) (*pair[V, I], error) {
	if old.IsValid() {
		if pr := bm.pairs[old.Batch]; pr.hasRoom(nv, ni, old) {
			return pr, nil
		}
	}
	for _, pr := range bm.pairs {
		if pr.hasRoom(nv, ni, old) {
			return pr, nil
		}
	}
	return bm.addPair()
}

// addPair makes a new pair at the end of the list.
func (bm *Manager[V, I]) addPair() (*pair[V, I], error) {
	idx := len(bm.pairs)
	pr, err := newPair[V, I](idx, bm.config.Label, bm.vertexCapacity, bm.indexCapacity, bm.device)
	if err != nil {
		return nil, errors.Log(fmt.Errorf("batch.Manager: making pair %d: %w", idx, err))
	}
	bm.pairs = append(bm.pairs, pr)
	slog.Debug("batch.Manager: new pair", "label", bm.config.Label, "pair", idx, "vertexCapacity", bm.vertexCapacity, "indexCapacity", bm.indexCapacity)
	return pr, nil
}

func (bm *Manager[V, I]) newID() SegmentID {
	for {
		bm.lastID++
		if _, has := bm.segments[bm.lastID]; !has && bm.lastID != InvalidSegment {
			return bm.lastID
		}
	}
}

// Remove releases the space of the segment with the given id,
// compacting its pair and rebasing the other segments of the pair
// that lived after it. It returns false, changing nothing, if the id
// does not name a valid segment.
func (bm *Manager[V, I]) Remove(id SegmentID) bool {
	seg, ok := bm.segments[id]
	if !ok || !seg.IsValid() {
		return false
	}
	bm.remove(seg)
	errors.Log(bm.Sync())
	return true
}

// remove compacts the pair of the given segment, rebases all other
// segments that followed it in that pair, and drops it from the registry.
// The pair is left dirty.
func (bm *Manager[V, I]) remove(seg BufferSegment) {
	pr := bm.pairs[seg.Batch]
	// counts were validated at insertion, so failure here is a bug
	errors.Must(pr.vertices.Remove(int(seg.VertexStart), int(seg.VertexCount)))
	errors.Must(RemoveRebased(pr.indexes, int(seg.IndexStart), int(seg.IndexCount), int(seg.VertexCount)))
	pr.dirty = true
	delete(bm.segments, seg.ID)
	for id, other := range bm.segments {
		other.rebaseAfter(seg)
		bm.segments[id] = other
	}
}

// Reset removes all segments. The pairs are kept, empty, for reuse.
func (bm *Manager[V, I]) Reset() {
	clear(bm.segments)
	for _, pr := range bm.pairs {
		pr.vertices.Reset()
		pr.indexes.Reset()
		pr.dirty = true
	}
	errors.Log(bm.Sync())
}

// Sync uploads the live region of every pair changed since its last
// successful upload to its mirror buffers. It is called by every
// mutating method, and only needs to be called directly to retry
// after an [ErrMirrorSync] error.
func (bm *Manager[V, I]) Sync() error {
	var errs []error
	for _, pr := range bm.pairs {
		if !pr.dirty {
			continue
		}
		if err := pr.sync(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Segment returns the placement of the segment with the given id,
// or an invalid, zero segment if there is none.
func (bm *Manager[V, I]) Segment(id SegmentID) BufferSegment {
	return bm.segments[id]
}

// SegmentTry returns the placement of the segment with the given id,
// and false if there is none.
func (bm *Manager[V, I]) SegmentTry(id SegmentID) (BufferSegment, bool) {
	seg, ok := bm.segments[id]
	return seg, ok
}

// Segments returns all segments, ordered by pair and then by position.
func (bm *Manager[V, I]) Segments() []BufferSegment {
	segs := make([]BufferSegment, 0, len(bm.segments))
	for _, seg := range bm.segments {
		segs = append(segs, seg)
	}
	slices.SortFunc(segs, func(a, b BufferSegment) int {
		return cmp.Or(cmp.Compare(a.Batch, b.Batch), cmp.Compare(a.VertexStart, b.VertexStart))
	})
	return segs
}

// Len returns the number of segments.
func (bm *Manager[V, I]) Len() int { return len(bm.segments) }

// NumBatches returns the number of batch pairs.
func (bm *Manager[V, I]) NumBatches() int { return len(bm.pairs) }

// BatchView is a read-only view of one batch pair, for the renderer:
// the mirror buffers hold the current live data in their first
// VertexCount vertex and IndexCount index records.
type BatchView struct {
	Index int

	VertexCount    int
	IndexCount     int
	VertexCapacity int
	IndexCapacity  int

	VertexBuffer Buffer
	IndexBuffer  Buffer

	// Synced is whether the mirror buffers are up to date.
	Synced bool
}

// Batch returns the view of the pair with the given index,
// and false if there is no such pair.
func (bm *Manager[V, I]) Batch(idx int) (BatchView, bool) {
	if idx < 0 || idx >= len(bm.pairs) {
		return BatchView{}, false
	}
	pr := bm.pairs[idx]
	return BatchView{
		Index:          idx,
		VertexCount:    pr.vertices.Count(),
		IndexCount:     pr.indexes.Count(),
		VertexCapacity: pr.vertices.Capacity(),
		IndexCapacity:  pr.indexes.Capacity(),
		VertexBuffer:   pr.vertexBuffer,
		IndexBuffer:    pr.indexBuffer,
		Synced:         !pr.dirty,
	}, true
}

// Vertices returns a copy of the live vertex records of the given pair.
func (bm *Manager[V, I]) Vertices(idx int) []V {
	if idx < 0 || idx >= len(bm.pairs) {
		return nil
	}
	ar := bm.pairs[idx].vertices
	return slicesx.Clip(ar.Records(), ar.Count())
}

// Indexes returns a copy of the live index records of the given pair.
func (bm *Manager[V, I]) Indexes(idx int) []I {
	if idx < 0 || idx >= len(bm.pairs) {
		return nil
	}
	ar := bm.pairs[idx].indexes
	return slicesx.Clip(ar.Records(), ar.Count())
}

// Release releases all mirror buffers. The manager must not be
// used after this.
func (bm *Manager[V, I]) Release() {
	for _, pr := range bm.pairs {
		pr.release()
	}
}
