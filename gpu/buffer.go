// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"cogentcore.org/meshbatch/batch"
	"github.com/cogentcore/webgpu/wgpu"
)

// CopyAlignment is the alignment in bytes required of the offset
// and size of every buffer write. Vertex (56 bytes) and Triangle
// (12 bytes) records are multiples of it, so any whole run of them is
// aligned.
const CopyAlignment = 4

// Buffer is a mirror buffer on a [Device]. It implements [batch.Buffer].
// WriteBuffer is the only way data gets in, so there is no staging or
// mapping.
type Buffer struct {
	// Label is the debugging label of the buffer.
	Label string

	// Role is the role of the buffer in its pair.
	Role batch.Roles

	// Size is the allocated size in bytes.
	Size int

	device *Device
	buffer *wgpu.Buffer
}

// Write copies data into the buffer starting at the given byte offset,
// through the queue of the device.
func (bf *Buffer) Write(offset int, data []byte) error {
	if offset%CopyAlignment != 0 || len(data)%CopyAlignment != 0 {
		return fmt.Errorf("gpu.Buffer %s: write offset %d and size %d must be multiples of %d", bf.Label, offset, len(data), CopyAlignment)
	}
	if offset < 0 || offset+len(data) > bf.Size {
		return fmt.Errorf("gpu.Buffer %s: write [%d, %d) out of range of size %d", bf.Label, offset, offset+len(data), bf.Size)
	}
	if bf.buffer == nil {
		return fmt.Errorf("gpu.Buffer %s: write after release", bf.Label)
	}
	return bf.device.Queue.WriteBuffer(bf.buffer, uint64(offset), data)
}

// Release releases the buffer.
func (bf *Buffer) Release() {
	if bf.buffer == nil {
		return
	}
	bf.buffer.Release()
	bf.buffer = nil
}

// Handle returns the underlying buffer, for binding in a render pass.
// It is nil after [Buffer.Release].
func (bf *Buffer) Handle() *wgpu.Buffer {
	return bf.buffer
}

// Handle returns the underlying buffer of the given [batch.Buffer],
// which must have been made by a [Device], or nil otherwise.
func Handle(b batch.Buffer) *wgpu.Buffer {
	if bf, ok := b.(*Buffer); ok {
		return bf.buffer
	}
	return nil
}

// alignedSize rounds size up to [CopyAlignment].
func alignedSize(size int) int {
	return (size + CopyAlignment - 1) / CopyAlignment * CopyAlignment
}
