// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"fmt"
)

// Roles are the roles of a mirror [Buffer] in a batch pair.
type Roles int32

const (
	// VertexRole is a buffer holding the vertex arena of a pair.
	VertexRole Roles = iota

	// IndexRole is a buffer holding the index arena of a pair.
	IndexRole
)

func (rl Roles) String() string {
	switch rl {
	case VertexRole:
		return "Vertex"
	case IndexRole:
		return "Index"
	}
	return fmt.Sprintf("Roles(%d)", int32(rl))
}

// Buffer is a GPU-side buffer that receives a verbatim copy of the
// live region of one arena after every mutation. It is only written,
// never read back.
type Buffer interface {
	// Write copies data into the buffer starting at the given byte offset.
	Write(offset int, data []byte) error

	// Release frees the buffer.
	Release()
}

// Device makes the mirror [Buffer]s for new batch pairs.
type Device interface {
	// NewBuffer returns a new buffer of the given size in bytes.
	NewBuffer(label string, role Roles, size int) (Buffer, error)
}

// MemoryDevice is a [Device] whose buffers live in host memory.
// It is used when no GPU is available and for verifying that
// the mirrors stay in sync with the arenas.
type MemoryDevice struct {
	// Buffers are all of the buffers made, in order.
	Buffers []*MemoryBuffer

	// FailNew, if set, is returned from NewBuffer instead of a buffer.
	FailNew error
}

// NewMemoryDevice returns a new [MemoryDevice].
func NewMemoryDevice() *MemoryDevice {
	return &MemoryDevice{}
}

func (md *MemoryDevice) NewBuffer(label string, role Roles, size int) (Buffer, error) {
	if md.FailNew != nil {
		return nil, md.FailNew
	}
	mb := &MemoryBuffer{Label: label, Role: role, Data: make([]byte, size)}
	md.Buffers = append(md.Buffers, mb)
	return mb, nil
}

// Writes returns the total number of writes across all buffers.
func (md *MemoryDevice) Writes() int {
	n := 0
	for _, mb := range md.Buffers {
		n += mb.Writes
	}
	return n
}

// MemoryBuffer is a [Buffer] in host memory.
type MemoryBuffer struct {
	Label string
	Role  Roles

	// Data is the buffer contents, with fixed length equal to the size.
	Data []byte

	// Writes is the number of Write calls.
	Writes int

	// FailWrite, if set, is returned from Write instead of writing.
	FailWrite error

	// Released is set by Release.
	Released bool
}

func (mb *MemoryBuffer) Write(offset int, data []byte) error {
	if mb.FailWrite != nil {
		return mb.FailWrite
	}
	if mb.Released {
		return fmt.Errorf("batch.MemoryBuffer %s: write after release", mb.Label)
	}
	if offset < 0 || offset+len(data) > len(mb.Data) {
		return fmt.Errorf("batch.MemoryBuffer %s: write [%d, %d) out of range of size %d", mb.Label, offset, offset+len(data), len(mb.Data))
	}
	copy(mb.Data[offset:], data)
	mb.Writes++
	return nil
}

func (mb *MemoryBuffer) Release() {
	mb.Released = true
}
