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

// Package merge holds GraphMerger: it folds an ordered list of
// (group_index, graph_filename) references into one merged DAG,
// following spec.md §4.5 (the hardest subsystem).
package merge

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/htrie/vin-sub006/graph"
	"github.com/htrie/vin-sub006/instance"
	"github.com/htrie/vin-sub006/ir"
	"github.com/htrie/vin-sub006/registry"
)

// Resolver loads the Graph a component references. Callers typically
// close one over a context and a cache.GraphCache.Get call.
type Resolver func(filename string) (*graph.Graph, error)

// Merge implements spec.md §4.5 in full: it resolves each component's
// graph, folds their setup state (§4.5.1), walks each component's heads
// in order relinking and deduplicating Read-halves against earlier
// components' outputs (§4.5.2-4.5.3), wires stage connectors across the
// whole merged graph (§4.5.4), renumbers node indices and HashIDs in
// final merged order (§4.5.5), and computes the merged content hash
// plus multi-stage flags (§4.5.6).
func Merge(resolve Resolver, components []instance.Component) (*graph.Graph, error) {
	merged := graph.New(mergedFilename(components))
	merged.ShaderGroups = nil

	m := &merger{merged: merged}
	shaderGroups := map[ir.ShaderGroup]bool{}

	for graphIndex, comp := range components {
		src, err := resolve(comp.Desc.GraphFilename)
		if err != nil {
			return nil, errors.Wrapf(err, "merge: component %d (%s)", graphIndex, comp.Desc.GraphFilename)
		}
		for _, sg := range src.ShaderGroups {
			shaderGroups[sg] = true
		}

		m.mergeComponent(src, comp.Group, graphIndex)

		merged.Flags |= src.Flags
		for k, v := range src.Macros {
			merged.Macros[k] = v
		}
		merged.LightingModel.Merge(src.LightingModel)
		merged.EffectOrder.Merge(src.EffectOrder)
		merged.AlphaRef.Merge(src.AlphaRef)
		merged.BlendMode.Merge(src.BlendMode)
		merged.StateOverrides.Rasterizer.Merge(src.StateOverrides.Rasterizer)
		merged.StateOverrides.DepthStencil.Merge(src.StateOverrides.DepthStencil)
		merged.StateOverrides.Blend.Merge(src.StateOverrides.Blend)
	}

	merged.ShaderGroups = sortedGroups(shaderGroups)
	if !merged.LightingModel.Set {
		merged.LightingModel = graph.Overridable[uint32]{Value: registry.PhongMaterialBit, Set: true}
	}

	connectStageInputs(merged)
	renumber(merged)
	markMultiStage(merged)
	merged.InvalidateTypeIdCache()

	return merged, nil
}

// mergedFilename joins the components' graph filenames with '+', in
// component order, into a single diagnostic string (the filename is not
// part of the content hash). The components' group_index values are not
// included.
func mergedFilename(components []instance.Component) string {
	var b strings.Builder
	for i, c := range components {
		if i > 0 {
			b.WriteByte('+')
		}
		b.WriteString(c.Desc.GraphFilename)
	}
	return b.String()
}

func sortedGroups(set map[ir.ShaderGroup]bool) []ir.ShaderGroup {
	out := make([]ir.ShaderGroup, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
