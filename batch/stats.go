// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"fmt"
	"strings"

	"cogentcore.org/meshbatch/base/logx"
)

// PairStats has the usage of one batch pair.
type PairStats struct {
	Index          int
	Segments       int
	Vertices       int
	Indexes        int
	VertexCapacity int
	IndexCapacity  int
}

// VertexUsage returns the fraction of the vertex arena in use.
func (ps PairStats) VertexUsage() float32 {
	return float32(ps.Vertices) / float32(ps.VertexCapacity)
}

// IndexUsage returns the fraction of the index arena in use.
func (ps PairStats) IndexUsage() float32 {
	return float32(ps.Indexes) / float32(ps.IndexCapacity)
}

// Stats summarizes the usage of all pairs of a [Manager].
type Stats struct {
	Segments int
	Vertices int
	Indexes  int
	Pairs    []PairStats
}

// Stats returns the current usage of all pairs.
func (bm *Manager[V, I]) Stats() Stats {
	st := Stats{Segments: len(bm.segments), Pairs: make([]PairStats, len(bm.pairs))}
	for i, pr := range bm.pairs {
		st.Pairs[i] = PairStats{
			Index:          i,
			Vertices:       pr.vertices.Count(),
			Indexes:        pr.indexes.Count(),
			VertexCapacity: pr.vertices.Capacity(),
			IndexCapacity:  pr.indexes.Capacity(),
		}
		st.Vertices += pr.vertices.Count()
		st.Indexes += pr.indexes.Count()
	}
	for _, seg := range bm.segments {
		st.Pairs[seg.Batch].Segments++
	}
	return st
}

func (st Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d segments, %d vertices, %d index records in %d pairs", st.Segments, st.Vertices, st.Indexes, len(st.Pairs))
	for _, ps := range st.Pairs {
		fmt.Fprintf(&b, "\n  pair %d: %d segments, vertex %d/%d (%.1f%%), index %d/%d (%.1f%%)", ps.Index, ps.Segments, ps.Vertices, ps.VertexCapacity, 100*ps.VertexUsage(), ps.Indexes, ps.IndexCapacity, 100*ps.IndexUsage())
	}
	return b.String()
}

// PrintStats prints the [Stats] at the debug level.
func (bm *Manager[V, I]) PrintStats() {
	logx.PrintlnDebug(bm.config.Label + ": " + bm.Stats().String())
}
