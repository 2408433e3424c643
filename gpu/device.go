// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu provides the WebGPU mirror of batch pairs: a [Device]
// that makes vertex and index [Buffer]s on a [wgpu.Device], and
// uploads the live arena contents to them through its queue.
package gpu

import (
	"fmt"
	"log/slog"

	"cogentcore.org/meshbatch/base/errors"
	"cogentcore.org/meshbatch/batch"
	"github.com/cogentcore/webgpu/wgpu"
)

// Device holds a WebGPU device and its queue. It implements
// [batch.Device], so it can be passed to [batch.NewManager].
type Device struct {
	// Device is the logical device.
	Device *wgpu.Device

	// Queue is the queue of the device, used for all buffer writes.
	Queue *wgpu.Queue

	// owned is whether the device was made by [NewDevice],
	// and so is released by [Device.Release].
	owned    bool
	adapter  *wgpu.Adapter
	instance *wgpu.Instance
}

// NewDevice returns a new [Device] on the default adapter, preferring
// a high performance one. No surface is needed.
func NewDevice() (*Device, error) {
	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if errors.Log(err) != nil {
		instance.Release()
		return nil, err
	}
	dev, err := adapter.RequestDevice(nil)
	if errors.Log(err) != nil {
		adapter.Release()
		instance.Release()
		return nil, err
	}
	dv := NewDeviceFrom(dev)
	dv.owned = true
	dv.adapter = adapter
	dv.instance = instance
	return dv, nil
}

// NewDeviceFrom returns a new [Device] for an existing device,
// for example the one a renderer already draws with.
func NewDeviceFrom(dev *wgpu.Device) *Device {
	return &Device{Device: dev, Queue: dev.GetQueue()}
}

// NewBuffer makes a new [Buffer] of the given size in bytes for the
// given role. It implements [batch.Device].
func (dv *Device) NewBuffer(label string, role batch.Roles, size int) (batch.Buffer, error) {
	usage, err := RoleUsages(role)
	if err != nil {
		return nil, errors.Log(err)
	}
	asz := alignedSize(size)
	buf, err := dv.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:             uint64(asz),
		Label:            label,
		Usage:            usage,
		MappedAtCreation: false,
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	slog.Debug("gpu.Device.NewBuffer", "label", label, "role", role, "size", asz)
	return &Buffer{Label: label, Role: role, Size: asz, device: dv, buffer: buf}, nil
}

// WaitDone waits until the device is done with all submitted work,
// including pending buffer writes.
func (dv *Device) WaitDone() {
	dv.Device.Poll(true, nil)
}

// Release releases the device, if it was made by [NewDevice].
func (dv *Device) Release() {
	if !dv.owned {
		return
	}
	if dv.Queue != nil {
		dv.Queue.Release()
		dv.Queue = nil
	}
	if dv.Device != nil {
		dv.Device.Release()
		dv.Device = nil
	}
	if dv.adapter != nil {
		dv.adapter.Release()
		dv.adapter = nil
	}
	if dv.instance != nil {
		dv.instance.Release()
		dv.instance = nil
	}
}

// RoleUsages returns the buffer usage flags for a mirror buffer
// of the given role. Mirror buffers are only written from the host.
func RoleUsages(role batch.Roles) (wgpu.BufferUsage, error) {
	switch role {
	case batch.VertexRole:
		return wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst, nil
	case batch.IndexRole:
		return wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst, nil
	}
	return 0, fmt.Errorf("gpu.RoleUsages: %w: %v", errors.ErrUnsupported, role)
}
