// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Table maps identifiers to values and iterates in
// ascending identifier order.
// The zero value is an empty table ready to use.
// A Table must not be copied after first use (use Clone),
// nor modified while being iterated over.
type Table[K ~uint64, V any] struct {
	keys *roaring64.Bitmap
	rows map[K]V
}

// Set stores v under k, replacing any previous value.
func (t *Table[K, V]) Set(k K, v V) {
	if t.rows == nil {
		t.keys = roaring64.New()
		t.rows = make(map[K]V)
	}
	t.keys.Add(uint64(k))
	t.rows[k] = v
}

// Get returns the value stored under k.
func (t *Table[K, V]) Get(k K) (v V, ok bool) {
	v, ok = t.rows[k]
	return
}

// Has reports whether t contains k.
func (t *Table[K, V]) Has(k K) bool {
	_, ok := t.rows[k]
	return ok
}

// Delete removes k from t.
// It returns false if k was not present.
func (t *Table[K, V]) Delete(k K) bool {
	if _, ok := t.rows[k]; !ok {
		return false
	}
	t.keys.Remove(uint64(k))
	delete(t.rows, k)
	return true
}

// Len returns the number of entries in t.
func (t *Table[K, V]) Len() int { return len(t.rows) }

// Max returns the largest key in t, or zero if t is empty.
func (t *Table[K, V]) Max() K {
	if len(t.rows) == 0 {
		return 0
	}
	return K(t.keys.Maximum())
}

// Keys iterates over the keys of t in ascending order.
func (t *Table[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		if len(t.rows) == 0 {
			return
		}
		it := t.keys.Iterator()
		for it.HasNext() {
			if !yield(K(it.Next())) {
				return
			}
		}
	}
}

// All iterates over the entries of t in ascending key order.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k := range t.Keys() {
			if !yield(k, t.rows[k]) {
				return
			}
		}
	}
}

// Clone returns a copy of t.
// Values are copied as if by assignment.
func (t *Table[K, V]) Clone() Table[K, V] {
	var c Table[K, V]
	if len(t.rows) == 0 {
		return c
	}
	c.keys = t.keys.Clone()
	c.rows = make(map[K]V, len(t.rows))
	for k, v := range t.rows {
		c.rows[k] = v
	}
	return c
}
