// Copyright 2024 The ReadySet Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package state

import "github.com/readysetio/flowcore/internal/value"

// Key1..Key6 are the fixed-arity key tuples a KeyedState can be indexed
// by. The original distinguishes six enum variants (one per supported
// key width) so the common single-column case avoids boxing a slice;
// here a single generic KeyedState plays all six roles, instantiated at
// the right width by newKeyedState, so the boxing tradeoff doesn't
// apply and one type suffices for all of them.
type Key1 struct{ C0 value.Value }
type Key2 struct{ C0, C1 value.Value }
type Key3 struct{ C0, C1, C2 value.Value }
type Key4 struct{ C0, C1, C2, C3 value.Value }
type Key5 struct{ C0, C1, C2, C3, C4 value.Value }
type Key6 struct{ C0, C1, C2, C3, C4, C5 value.Value }

// KeyedState is a hash index from a fixed-width key tuple to the set of
// row handles sharing that key. It is generic over the key tuple type
// so that a two-column index and a four-column index share the same
// implementation instead of six hand-written enum variants.
type KeyedState[K comparable] struct {
	m      map[K][]handle
	toKey  func(value.Row) K
	fromKey func(K) value.Row
}

func newGenericKeyedState[K comparable](toKey func(value.Row) K, fromKey func(K) value.Row) *KeyedState[K] {
	return &KeyedState[K]{
		m:       make(map[K][]handle),
		toKey:   toKey,
		fromKey: fromKey,
	}
}

// Lookup returns the handles stored under row's key and whether that
// key has an entry at all (a present-but-empty entry means "known
// hole-free empty bucket", distinct from "no entry == possible hole").
func (k *KeyedState[K]) Lookup(row value.Row) ([]handle, bool) {
	hs, ok := k.m[k.toKey(row)]
	return hs, ok
}

// Insert adds h to the bucket for row's key, creating the bucket if
// necessary, and reports whether the bucket existed before the call
// (false means this insert would have been rejected had the caller
// been enforcing partial-hole semantics — that decision is made by the
// caller, since only SingleState knows whether its index is partial).
func (k *KeyedState[K]) Insert(row value.Row, h handle) (existed bool) {
	key := k.toKey(row)
	hs, existed := k.m[key]
	k.m[key] = append(hs, h)
	return existed
}

// Remove deletes h from the bucket for row's key. It reports whether h
// was found. An emptied bucket is deleted outright, matching the
// original's swap-remove-then-drop-if-empty behavior.
func (k *KeyedState[K]) Remove(row value.Row, h handle) bool {
	key := k.toKey(row)
	hs, ok := k.m[key]
	if !ok {
		return false
	}
	for i, cand := range hs {
		if cand == h {
			hs[i] = hs[len(hs)-1]
			hs = hs[:len(hs)-1]
			if len(hs) == 0 {
				delete(k.m, key)
			} else {
				k.m[key] = hs
			}
			return true
		}
	}
	return false
}

// MarkFilled records that row's key is no longer a hole, by inserting
// an empty bucket. It panics if the key was already filled, mirroring
// the original's assertion that a fill is never requested twice.
func (k *KeyedState[K]) MarkFilled(row value.Row) {
	key := k.toKey(row)
	if _, present := k.m[key]; present {
		panic("state: mark_filled on a key that was already filled")
	}
	k.m[key] = []handle{}
}

// MarkHole removes a (filled, empty) bucket, turning the key back into
// a hole. It panics if the key had no entry, mirroring the original's
// assertion that a hole is only ever re-opened on a key that was filled.
func (k *KeyedState[K]) MarkHole(row value.Row) {
	key := k.toKey(row)
	if _, present := k.m[key]; !present {
		panic("state: mark_hole on a key with no entry")
	}
	delete(k.m, key)
}

// IsEmpty reports whether the index has no entries at all.
func (k *KeyedState[K]) IsEmpty() bool { return len(k.m) == 0 }

// Len reports the number of distinct keys in the index (not the number
// of rows, which may be larger for a non-unique index).
func (k *KeyedState[K]) Len() int { return len(k.m) }

// Clear drops every entry.
func (k *KeyedState[K]) Clear() { k.m = make(map[K][]handle) }

// ForEach calls fn once per (key row, handles) pair. Order is
// unspecified, matching Go map iteration.
func (k *KeyedState[K]) ForEach(fn func(key value.Row, hs []handle)) {
	for key, hs := range k.m {
		fn(k.fromKey(key), hs)
	}
}

// newKeyedState builds the right KeyedState instantiation for the given
// key-column count. Arity is fixed for the lifetime of the index, set
// once at index-creation time by SingleState.
func newKeyedState(arity int) keyedState {
	switch arity {
	case 1:
		return newGenericKeyedState(
			func(r value.Row) Key1 { return Key1{r[0]} },
			func(k Key1) value.Row { return value.Row{k.C0} },
		)
	case 2:
		return newGenericKeyedState(
			func(r value.Row) Key2 { return Key2{r[0], r[1]} },
			func(k Key2) value.Row { return value.Row{k.C0, k.C1} },
		)
	case 3:
		return newGenericKeyedState(
			func(r value.Row) Key3 { return Key3{r[0], r[1], r[2]} },
			func(k Key3) value.Row { return value.Row{k.C0, k.C1, k.C2} },
		)
	case 4:
		return newGenericKeyedState(
			func(r value.Row) Key4 { return Key4{r[0], r[1], r[2], r[3]} },
			func(k Key4) value.Row { return value.Row{k.C0, k.C1, k.C2, k.C3} },
		)
	case 5:
		return newGenericKeyedState(
			func(r value.Row) Key5 { return Key5{r[0], r[1], r[2], r[3], r[4]} },
			func(k Key5) value.Row { return value.Row{k.C0, k.C1, k.C2, k.C3, k.C4} },
		)
	case 6:
		return newGenericKeyedState(
			func(r value.Row) Key6 { return Key6{r[0], r[1], r[2], r[3], r[4], r[5]} },
			func(k Key6) value.Row { return value.Row{k.C0, k.C1, k.C2, k.C3, k.C4, k.C5} },
		)
	default:
		panic("state: unsupported key arity (max 6 columns)")
	}
}

// keyedState erases the K type parameter of KeyedState[K] so SingleState
// can hold an index of whatever arity addKey asked for.
type keyedState interface {
	Lookup(row value.Row) ([]handle, bool)
	Insert(row value.Row, h handle) (existed bool)
	Remove(row value.Row, h handle) bool
	MarkFilled(row value.Row)
	MarkHole(row value.Row)
	IsEmpty() bool
	Len() int
	Clear()
	ForEach(fn func(key value.Row, hs []handle))
}
