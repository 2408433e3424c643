// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"fmt"
)

// Arena is a fixed-capacity, contiguous store of records of one
// [Element] type. Records are appended at the end of the live region
// and removed by compacting the tail down over the removed range, so
// the live region is always [0, Count). The backing storage is
// allocated once at construction and owned exclusively by the Arena.
type Arena[T Element] struct {
	// records has length equal to the capacity.
	records []T

	// count is the number of live records.
	count int
}

// NewArena returns a new Arena with the given capacity. A capacity
// that is <= 0 or above the type-level [Element.MaxCapacity] is
// replaced by the type-level maximum.
func NewArena[T Element](capacity int) *Arena[T] {
	mx := MaxCapacity[T]()
	if capacity <= 0 || capacity > mx {
		capacity = mx
	}
	return &Arena[T]{records: make([]T, capacity)}
}

// Capacity returns the fixed number of records the arena can hold.
func (ar *Arena[T]) Capacity() int { return len(ar.records) }

// Count returns the current number of live records.
func (ar *Arena[T]) Count() int { return ar.count }

// Free returns the number of records that can still be appended.
func (ar *Arena[T]) Free() int { return len(ar.records) - ar.count }

// Fits returns whether n more records can be appended.
func (ar *Arena[T]) Fits(n int) bool { return n >= 0 && ar.count+n <= len(ar.records) }

// Records returns the live region [0, Count). The returned slice
// shares memory with the arena and must not be modified.
func (ar *Arena[T]) Records() []T { return ar.records[:ar.count] }

// Reset removes all records.
func (ar *Arena[T]) Reset() {
	clear(ar.records[:ar.count])
	ar.count = 0
}

// Append copies the given records to the end of the live region and
// returns the offset at which they begin. A start of 0 is a valid
// result (the first append into an empty arena); failure is reported
// only through the error, which is [ErrArenaFull] if the records do
// not fit. Nothing is changed on failure.
func (ar *Arena[T]) Append(recs []T) (int, error) {
	n := len(recs)
	if !ar.Fits(n) {
		return 0, fmt.Errorf("%w: %d + %d > %d", ErrArenaFull, ar.count, n, len(ar.records))
	}
	start := ar.count
	copy(ar.records[start:], recs)
	ar.count += n
	return start, nil
}

// AppendRebased is [Arena.Append] for [Indexed] records, adding offset
// to every component of every record as it is copied. It is used to
// move triangle indexes from mesh-local vertex numbers into the global
// coordinate space of the vertex arena the triangles reference.
func AppendRebased[T Indexed[T]](ar *Arena[T], recs []T, offset int) (int, error) {
	n := len(recs)
	if !ar.Fits(n) {
		return 0, fmt.Errorf("%w: %d + %d > %d", ErrArenaFull, ar.count, n, len(ar.records))
	}
	start := ar.count
	for i, r := range recs {
		ar.records[start+i] = r.Rebase(offset)
	}
	ar.count += n
	return start, nil
}

// Remove removes the n records starting at start, shifting every
// record after the range down by n to close the gap. Records past
// the new live region are zeroed. It returns [ErrOutOfRange] if the
// range is not within the live region, changing nothing.
func (ar *Arena[T]) Remove(start, n int) error {
	if err := ar.checkRange(start, n); err != nil {
		return err
	}
	end := start + n
	copy(ar.records[start:], ar.records[end:ar.count])
	ar.shrink(n)
	return nil
}

// RemoveRebased is [Arena.Remove] for [Indexed] records, subtracting
// rebase from every component of every shifted record. When n vertices
// are removed from a vertex arena, the triangles that lived after the
// removed triangles reference vertices that moved down by n, so rebase
// is the removed vertex count.
func RemoveRebased[T Indexed[T]](ar *Arena[T], start, n, rebase int) error {
	if err := ar.checkRange(start, n); err != nil {
		return err
	}
	end := start + n
	for i := end; i < ar.count; i++ {
		ar.records[i-n] = ar.records[i].Rebase(-rebase)
	}
	ar.shrink(n)
	return nil
}

func (ar *Arena[T]) checkRange(start, n int) error {
	if start < 0 || n < 0 || start+n > ar.count {
		return fmt.Errorf("%w: [%d, %d) with count %d", ErrOutOfRange, start, start+n, ar.count)
	}
	return nil
}

// shrink zeroes the last n live records and reduces the count by n.
func (ar *Arena[T]) shrink(n int) {
	clear(ar.records[ar.count-n : ar.count])
	ar.count -= n
}
