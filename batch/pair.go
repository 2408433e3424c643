// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"fmt"

	"cogentcore.org/meshbatch/base/errors"
)

// pair is one batch pair: a vertex arena and an index arena that
// are always selected and mutated together, plus the mirror buffers
// they are uploaded to. Its triangles reference vertices in its own
// vertex arena only.
type pair[V Element, I Indexed[I]] struct {
	index int

	vertices *Arena[V]
	indexes  *Arena[I]

	vertexBuffer Buffer
	indexBuffer  Buffer

	// dirty is set when the arenas have changed since the last
	// successful upload to the mirror buffers.
	dirty bool
}

// newPair makes the arenas and mirror buffers for a new pair.
// Nothing is kept if a buffer cannot be made.
func newPair[V Element, I Indexed[I]](index int, label string, vcap, icap int, dev Device) (*pair[V, I], error) {
	vb, err := dev.NewBuffer(fmt.Sprintf("%s_%d_%s", label, index, VertexRole), VertexRole, vcap*ElementSize[V]())
	if err != nil {
		return nil, err
	}
	ib, err := dev.NewBuffer(fmt.Sprintf("%s_%d_%s", label, index, IndexRole), IndexRole, icap*ElementSize[I]())
	if err != nil {
		vb.Release()
		return nil, err
	}
	pr := &pair[V, I]{
		index:        index,
		vertices:     NewArena[V](vcap),
		indexes:      NewArena[I](icap),
		vertexBuffer: vb,
		indexBuffer:  ib,
	}
	return pr, nil
}

// hasRoom returns whether nv vertices and ni triangles fit, counting
// freed as already released space (the old placement of a resubmitted
// segment living in this pair).
func (pr *pair[V, I]) hasRoom(nv, ni int, freed BufferSegment) bool {
	fv, fi := pr.vertices.Free(), pr.indexes.Free()
	if freed.IsValid() && freed.Batch == pr.index {
		fv += int(freed.VertexCount)
		fi += int(freed.IndexCount)
	}
	return nv <= fv && ni <= fi
}

// sync uploads the full live region of both arenas to the mirror
// buffers, clearing the dirty flag on success. Empty regions have
// nothing to upload.
func (pr *pair[V, I]) sync() error {
	var errs []error
	if vb := Bytes(pr.vertices.Records()); len(vb) > 0 {
		errs = append(errs, pr.vertexBuffer.Write(0, vb))
	}
	if ib := Bytes(pr.indexes.Records()); len(ib) > 0 {
		errs = append(errs, pr.indexBuffer.Write(0, ib))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: pair %d: %w", ErrMirrorSync, pr.index, err)
	}
	pr.dirty = false
	return nil
}

func (pr *pair[V, I]) release() {
	pr.vertexBuffer.Release()
	pr.indexBuffer.Release()
}
