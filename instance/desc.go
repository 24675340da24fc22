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

// Package instance holds InstanceDesc: a reference to a loaded Graph
// plus per-instance parameter overrides.
package instance

import (
	"sync/atomic"

	"github.com/htrie/vin-sub006/ir"
	"github.com/htrie/vin-sub006/param"
)

var tweakCounter uint32

// Desc is a reference to a graph file plus whatever per-instance
// overrides the draw call applies on top of it (spec.md §3.5).
type Desc struct {
	GraphFilename string

	// TweakID is assigned from a process-wide monotonic counter at
	// construction. Two structurally-identical Descs built at
	// different call sites get different TweakIDs: this is
	// intentional (it feeds the per-uniform cache key of spec.md §3.6)
	// and deliberately does not affect the merged graph's TypeId.
	TweakID uint32

	AlphaRef *ir.Vec4

	// Params maps a custom_parameter content hash to the per-instance
	// override for that parameter.
	Params map[uint32]*param.Value
}

// NewDesc returns a Desc for graphFilename with a freshly assigned
// TweakID.
func NewDesc(graphFilename string) *Desc {
	return &Desc{
		GraphFilename: graphFilename,
		TweakID:       atomic.AddUint32(&tweakCounter, 1),
		Params:        make(map[uint32]*param.Value),
	}
}

// Component pairs a Desc with the requested group_index it contributes
// at (spec.md §4.5.2/§4.5.3: the per-component fan-out index used by
// texturing-window group-index collapsing, bounded by
// ir.MaxGroupIndex), the unit GraphMerger.Merge consumes (spec.md
// §4.6).
type Component struct {
	Group uint32
	Desc  *Desc
}
