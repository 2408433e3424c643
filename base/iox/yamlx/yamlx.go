// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package yamlx provides functions for reading and writing
// values as YAML files, using [gopkg.in/yaml.v3].
package yamlx

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Open reads the given object from the given filename using YAML encoding.
func Open(v any, filename string) error {
	fp, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	return Read(v, fp)
}

// Read reads the given object from the given reader using YAML encoding.
func Read(v any, reader io.Reader) error {
	return yaml.NewDecoder(reader).Decode(v)
}

// ReadBytes reads the given object from the given bytes using YAML encoding.
func ReadBytes(v any, data []byte) error {
	return yaml.Unmarshal(data, v)
}

// Save writes the given object to the given filename using YAML encoding.
func Save(v any, filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	return Write(v, fp)
}

// Write writes the given object to the given writer using YAML encoding.
func Write(v any, writer io.Writer) error {
	enc := yaml.NewEncoder(writer)
	defer enc.Close()
	return enc.Encode(v)
}

// WriteBytes writes the given object, returning bytes of the encoding.
func WriteBytes(v any) ([]byte, error) {
	var b bytes.Buffer
	if err := Write(v, &b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
