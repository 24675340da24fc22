// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dynparam declares the dynamic-parameter registration table
// the registry consults when synthesizing dynamic-parameter NodeTypes.
// The callbacks registered here are plumbed through and stored, never
// invoked: evaluating a dynamic parameter's value at runtime is the
// animation/gameplay systems' job, out of this compiler's scope.
package dynparam

import (
	"context"
	"fmt"

	"github.com/htrie/vin-sub006/ident"
	"github.com/htrie/vin-sub006/ir"
	"github.com/htrie/vin-sub006/param"
)

// Flags is a bitmask of dynamic-parameter registration options.
type Flags uint32

const (
	// CacheData marks a parameter whose evaluated value may be cached
	// across frames rather than recomputed on every gather.
	CacheData Flags = 1 << iota
	// UpdatedExternally marks a parameter whose value is pushed in by
	// some other system rather than pulled by Callback.
	UpdatedExternally
)

// GameContext is the minimal collaborator interface a Callback receives
// for whatever per-frame game state it needs. Its real implementation
// lives in the gameplay system this compiler never imports.
type GameContext interface{}

// AnimatedObject is the minimal collaborator interface identifying which
// object a dynamic parameter is being evaluated for. Its real
// implementation lives in the animation system this compiler never
// imports.
type AnimatedObject interface{}

// Callback computes a dynamic parameter's current value. The compiler
// stores Callback values but never calls one.
type Callback func(ctx context.Context, gameCtx GameContext, obj AnimatedObject, out *param.Value)

// Entry is one registered dynamic parameter.
type Entry struct {
	Name  string
	Type  ir.GraphType
	Flags Flags
	Fn    Callback
}

// Table holds every registered dynamic parameter, keyed by the content
// hash of its name (ident.HashName(name)) so the registry can look an
// entry up by the same TypeId it assigns the synthesized NodeType.
type Table struct {
	entries map[uint32]Entry
	order   []uint32
	frozen  bool
}

// NewTable returns an empty, mutable Table.
func NewTable() *Table {
	return &Table{entries: make(map[uint32]Entry)}
}

// Register adds a dynamic parameter under the content hash of name. It
// returns an error if called after Freeze, or if name is already
// registered.
func (t *Table) Register(name string, typ ir.GraphType, flags Flags, fn Callback) error {
	if t.frozen {
		return fmt.Errorf("dynparam: Register(%q) after Freeze", name)
	}
	key := uint32(ident.HashName(name))
	if _, ok := t.entries[key]; ok {
		return fmt.Errorf("dynparam: %q already registered", name)
	}
	t.entries[key] = Entry{Name: name, Type: typ, Flags: flags, Fn: fn}
	t.order = append(t.order, key)
	return nil
}

// Freeze makes t immutable; subsequent Register calls return an error.
func (t *Table) Freeze() { t.frozen = true }

// Lookup returns the entry registered under key, if any.
func (t *Table) Lookup(key uint32) (Entry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

// Len returns the number of registered entries.
func (t *Table) Len() int { return len(t.entries) }

// Keys returns every registered key in registration order.
func (t *Table) Keys() []uint32 {
	out := make([]uint32, len(t.order))
	copy(out, t.order)
	return out
}
