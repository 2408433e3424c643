// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ordmap implements an ordered map that keeps items in the
// order they were added, with fast key lookup through an index map.
// Adding and lookup are fast; deleting renumbers the entries after
// the deleted one.
package ordmap

import (
	"fmt"
	"slices"
)

// KeyValue is one entry of a [Map].
type KeyValue[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is a generic ordered map. Order holds the entries in the order
// added, and Map holds the index of each key within Order.
type Map[K comparable, V any] struct {

	// Order is the list of entries in the order added.
	Order []KeyValue[K, V]

	// Map is the key to index mapping.
	Map map[K]int `display:"-"`
}

// New returns a new, empty ordered map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{Map: make(map[K]int)}
}

// Init initializes the map if it isn't already.
func (om *Map[K, V]) Init() {
	if om.Map == nil {
		om.Map = make(map[K]int)
	}
}

// Reset removes all entries.
func (om *Map[K, V]) Reset() {
	om.Map = nil
	om.Order = nil
}

// Add sets the value for given key. An existing key keeps its
// position and has its value replaced; a new key goes at the end.
func (om *Map[K, V]) Add(key K, val V) {
	om.Init()
	if idx, has := om.Map[key]; has {
		om.Order[idx].Value = val
		return
	}
	om.Map[key] = len(om.Order)
	om.Order = append(om.Order, KeyValue[K, V]{Key: key, Value: val})
}

// ValueByKey returns the value for given key, or the zero value if missing.
func (om *Map[K, V]) ValueByKey(key K) V {
	v, _ := om.ValueByKeyTry(key)
	return v
}

// ValueByKeyTry returns the value for given key, with false if missing.
func (om *Map[K, V]) ValueByKeyTry(key K) (V, bool) {
	if idx, ok := om.Map[key]; ok {
		return om.Order[idx].Value, true
	}
	var zv V
	return zv, false
}

// IndexByKeyTry returns the index of the given key, with false if missing.
func (om *Map[K, V]) IndexByKeyTry(key K) (int, bool) {
	idx, ok := om.Map[key]
	return idx, ok
}

// ValueByIndex returns the value at given index in Order.
func (om *Map[K, V]) ValueByIndex(idx int) V {
	return om.Order[idx].Value
}

// Len returns the number of entries.
func (om *Map[K, V]) Len() int {
	if om == nil {
		return 0
	}
	return len(om.Order)
}

// DeleteIndex deletes the entries within the index range [i:j].
func (om *Map[K, V]) DeleteIndex(i, j int) {
	ndel := j - i
	if ndel <= 0 {
		panic(fmt.Sprintf("ordmap.Map.DeleteIndex: index range %d:%d is empty", i, j))
	}
	for o := j; o < len(om.Order); o++ {
		om.Map[om.Order[o].Key] = o - ndel
	}
	for o := i; o < j; o++ {
		delete(om.Map, om.Order[o].Key)
	}
	om.Order = slices.Delete(om.Order, i, j)
}

// DeleteKey deletes the entry with the given key, returning false if missing.
func (om *Map[K, V]) DeleteKey(key K) bool {
	idx, ok := om.Map[key]
	if !ok {
		return false
	}
	om.DeleteIndex(idx, idx+1)
	return true
}

// Keys returns the keys in order.
func (om *Map[K, V]) Keys() []K {
	kl := make([]K, om.Len())
	for i, kv := range om.Order {
		kl[i] = kv.Key
	}
	return kl
}

// Values returns the values in order.
func (om *Map[K, V]) Values() []V {
	vl := make([]V, om.Len())
	for i, kv := range om.Order {
		vl[i] = kv.Value
	}
	return vl
}
