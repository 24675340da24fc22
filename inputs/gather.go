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

// Package inputs holds InputsGatherer: it flattens a merged Graph plus
// the ordered InstanceDescs that produced it into the per-instance
// uniform and binding input lists a draw call consumes (spec.md §4.8).
package inputs

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/htrie/vin-sub006/graph"
	"github.com/htrie/vin-sub006/ident"
	"github.com/htrie/vin-sub006/instance"
	"github.com/htrie/vin-sub006/ir"
	"github.com/htrie/vin-sub006/param"
)

// alphaRefDataID identifies the synthetic uniform emitted for an
// overridden alpha_ref (spec.md §4.8 step 3); it is folded the same way
// as any authored parameter name so it can share the per-drawdata_id
// renumbering counter without colliding with a real parameter.
var alphaRefDataID = uint32(ident.HashName("alpha_ref__"))

// UniformInput is one flattened scalar/vector uniform slot: Hash is the
// per-uniform cache key of spec.md §3.6, Index is this slot's position
// within the running per-DataID counter (spec.md §4.8 step 5), and
// Value carries the actual type/contents.
type UniformInput struct {
	Hash  ir.TypeId
	Index int
	Value param.UniformInput
}

// BindingInput is one flattened sampler/texture slot, keyed and ordered
// the same way as UniformInput.
type BindingInput struct {
	Hash  ir.TypeId
	Index int
	Value param.BindingInput
}

// Result holds the two flattened lists Gather produces.
type Result struct {
	Uniforms []UniformInput
	Bindings []BindingInput
}

// Gather implements spec.md §4.8 in full: traverse every head's DAG
// collecting per-node per-port values (preferring an InstanceDesc's
// per-instance override over the node's authored default when
// node.CustomParameter names one), bucket by stage_number, emit the
// alpha_ref override uniform if any component sets one, then flatten in
// ascending stage order renumbering a running index per drawdata_id.
func Gather(g *graph.Graph, components []instance.Component) (Result, error) {
	visited := make(map[int]bool)
	buckets := make(map[ir.Stage][]int)

	var walk func(idx int)
	walk = func(idx int) {
		if visited[idx] {
			return
		}
		visited[idx] = true
		n := g.Node(idx)
		for _, l := range n.InputLinks {
			walk(l.Producer)
		}
		for _, l := range n.ChildLinks {
			walk(l.Producer)
		}
		for _, l := range n.StageLinks {
			walk(l.Producer)
		}
		buckets[n.Stage] = append(buckets[n.Stage], idx)
	}
	for _, head := range g.Heads() {
		walk(head)
	}

	stages := make([]ir.Stage, 0, len(buckets))
	for s := range buckets {
		stages = append(stages, s)
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i] < stages[j] })

	var rawUniforms []rawUniform
	var rawBindings []rawBinding

	for _, stage := range stages {
		for _, idx := range buckets[stage] {
			n := g.Node(idx)
			if n.GraphIndex < 0 || n.GraphIndex >= len(components) {
				return Result{}, errors.Errorf("inputs: node %d: graph_index %d out of range (%d components)", idx, n.GraphIndex, len(components))
			}
			comp := components[n.GraphIndex]
			graphFileHash := ident.HashName(comp.Desc.GraphFilename)

			for i := range n.Params {
				val := effectiveParam(&n.Params[i], n.CustomParameter, comp.Desc)
				if ui, ok := val.UniformInputInfo(); ok {
					rawUniforms = append(rawUniforms, rawUniform{
						hash:  uniformHash(graphFileHash, comp.Desc.TweakID, ui.DataID, n.Index),
						value: ui,
					})
				} else if bi, ok := val.BindingInputInfo(); ok {
					rawBindings = append(rawBindings, rawBinding{
						hash:  uniformHash(graphFileHash, comp.Desc.TweakID, bi.DataID, n.Index),
						value: bi,
					})
				}
			}
		}
	}

	// alpha_ref is a property of the merged graph and of each component's
	// InstanceDesc, not of any particular node, so it is emitted once per
	// component regardless of which stages that component's nodes land in
	// (spec.md §4.8 step 3).
	for _, comp := range components {
		graphFileHash := ident.HashName(comp.Desc.GraphFilename)
		switch {
		case comp.Desc.AlphaRef != nil:
			rawUniforms = append(rawUniforms, alphaRefUniform(graphFileHash, comp.Desc.TweakID, 0, *comp.Desc.AlphaRef))
		case g.AlphaRef.Set:
			rawUniforms = append(rawUniforms, alphaRefUniform(graphFileHash, comp.Desc.TweakID, 0, g.AlphaRef.Value))
		}
	}

	return Result{
		Uniforms: renumberUniforms(rawUniforms),
		Bindings: renumberBindings(rawBindings),
	}, nil
}

type rawUniform struct {
	hash  ir.TypeId
	value param.UniformInput
}

type rawBinding struct {
	hash  ir.TypeId
	value param.BindingInput
}

// effectiveParam implements spec.md §4.8 step 2: a non-zero
// CustomParameter that matches an entry in the InstanceDesc's override
// map wins over the node's own authored default.
func effectiveParam(authored *param.Value, customParameter uint32, desc *instance.Desc) *param.Value {
	if customParameter == 0 {
		return authored
	}
	if override, ok := desc.Params[customParameter]; ok {
		return override
	}
	return authored
}

// uniformHash reproduces spec.md §3.6/§4.8 step 1:
// hash = merge(merge(merge(merge(0, graph_file_hash), tweak_id), drawdata_id), node_index).
func uniformHash(graphFileHash ir.TypeId, tweakID, drawDataID uint32, nodeIndex int) ir.TypeId {
	return ident.Fold(0, graphFileHash, ir.TypeId(tweakID), ir.TypeId(drawDataID), ir.TypeId(nodeIndex))
}

// alphaRefUniform builds the synthetic uniform spec.md §4.8 step 3
// requires whenever alpha_ref is overridden at graph or instance level.
func alphaRefUniform(graphFileHash ir.TypeId, tweakID uint32, nodeIndex int, value ir.Vec4) rawUniform {
	return rawUniform{
		hash: uniformHash(graphFileHash, tweakID, alphaRefDataID, nodeIndex),
		value: param.UniformInput{
			DataID:  alphaRefDataID,
			Type:    ir.Float4,
			Current: value,
		},
	}
}

// renumberUniforms implements spec.md §4.8 step 5 for the uniform list:
// a running index per drawdata_id, assigned in flattened (already
// stage-ordered) order, so two semantically equal InstanceDesc lists
// always renumber identically.
func renumberUniforms(raw []rawUniform) []UniformInput {
	counters := make(map[uint32]int)
	out := make([]UniformInput, len(raw))
	for i, ru := range raw {
		idx := counters[ru.value.DataID]
		counters[ru.value.DataID] = idx + 1
		out[i] = UniformInput{Hash: ru.hash, Index: idx, Value: ru.value}
	}
	return out
}

// renumberBindings is renumberUniforms' counterpart for the binding list.
func renumberBindings(raw []rawBinding) []BindingInput {
	counters := make(map[uint32]int)
	out := make([]BindingInput, len(raw))
	for i, rb := range raw {
		idx := counters[rb.value.DataID]
		counters[rb.value.DataID] = idx + 1
		out[i] = BindingInput{Hash: rb.hash, Index: idx, Value: rb.value}
	}
	return out
}
