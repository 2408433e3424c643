// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"fmt"
	"path/filepath"
	"strings"

	"cogentcore.org/meshbatch/base/iox/tomlx"
	"cogentcore.org/meshbatch/base/iox/yamlx"
)

// Config has the settings for a [Manager].
type Config struct {

	// Label is the prefix for the labels of the mirror buffers,
	// which are named Label_pair_role.
	Label string

	// VertexCapacity is the number of vertices each vertex arena holds.
	// 0 means the type-level maximum of the vertex type.
	VertexCapacity int

	// IndexCapacity is the number of index records (triangles) each
	// index arena holds. 0 means the type-level maximum of the index type.
	IndexCapacity int
}

// Defaults sets the default values.
func (cf *Config) Defaults() {
	cf.Label = "batch"
	cf.VertexCapacity = 0
	cf.IndexCapacity = 0
}

// DefaultConfig returns a new [Config] with default values.
func DefaultConfig() Config {
	var cf Config
	cf.Defaults()
	return cf
}

// Validate returns an error wrapping [ErrBadConfig] if the capacities
// of the given config are negative or above the type-level maximums
// of V and I.
func Validate[V, I Element](cf *Config) error {
	return cf.validate(MaxCapacity[V](), MaxCapacity[I]())
}

func (cf *Config) validate(vmax, imax int) error {
	if cf.VertexCapacity < 0 || cf.VertexCapacity > vmax {
		return fmt.Errorf("%w: VertexCapacity %d is not in [0, %d]", ErrBadConfig, cf.VertexCapacity, vmax)
	}
	if cf.IndexCapacity < 0 || cf.IndexCapacity > imax {
		return fmt.Errorf("%w: IndexCapacity %d is not in [0, %d]", ErrBadConfig, cf.IndexCapacity, imax)
	}
	return nil
}

// capacities returns the effective arena capacities.
func (cf *Config) capacities(vmax, imax int) (vertex, index int) {
	vertex, index = cf.VertexCapacity, cf.IndexCapacity
	if vertex == 0 {
		vertex = vmax
	}
	if index == 0 {
		index = imax
	}
	return
}

// OpenConfig returns the [Config] in the given TOML (.toml) or
// YAML (.yaml, .yml) file, starting from the defaults so that the
// file only needs to list the settings it changes.
func OpenConfig(filename string) (Config, error) {
	cf := DefaultConfig()
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		err = tomlx.Open(&cf, filename)
	case ".yaml", ".yml":
		err = yamlx.Open(&cf, filename)
	default:
		err = fmt.Errorf("%w: unknown config file type %q", ErrBadConfig, filename)
	}
	return cf, err
}

// SaveConfig saves the given [Config] to the given TOML or YAML file.
func SaveConfig(cf *Config, filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return tomlx.Save(cf, filename)
	case ".yaml", ".yml":
		return yamlx.Save(cf, filename)
	}
	return fmt.Errorf("%w: unknown config file type %q", ErrBadConfig, filename)
}
