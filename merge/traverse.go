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

package merge

import (
	"github.com/htrie/vin-sub006/graph"
	"github.com/htrie/vin-sub006/ir"
	"github.com/htrie/vin-sub006/param"
	"github.com/htrie/vin-sub006/registry"
)

// merger holds the state threaded through one Merge call. The final
// (group, stage) bucketing the renumbering pass needs (spec.md §4.5.5's
// `sorted_nodes_by_output`) is derived from the merged graph's node
// order after the fact (see renumber.collectBuckets) rather than
// tracked here, since appending to Graph.Nodes in creation order already
// preserves per-bucket ordering once grouped by key.
type merger struct {
	merged *graph.Graph
}

type bucketKey struct {
	Group uint32
	Stage ir.Stage
}

// componentState holds the per-component working set: replacements maps
// a source node's HashID to its merged index (doubling as the
// processed_nodes set spec.md §4.5.2 describes separately), prevOutputs
// is the Write-half registry snapshot taken before this component began
// (spec.md's `prev_heads`), and groupNodes queues every encountered
// Group node for the child-link rewiring pass (step c).
type componentState struct {
	src          *graph.Graph
	group        uint32
	graphIndex   int
	replacements map[ir.TypeId]int
	prevOutputs  map[graph.OutputKey]int
	groupNodes   []groupPending
}

type groupPending struct {
	srcIdx    int
	mergedIdx int
}

// mergeComponent implements spec.md §4.5.2 for one (group_index, graph)
// pair.
func (m *merger) mergeComponent(src *graph.Graph, group uint32, graphIndex int) {
	cs := &componentState{
		src:          src,
		group:        group,
		graphIndex:   graphIndex,
		replacements: make(map[ir.TypeId]int),
		prevOutputs:  m.merged.OutputNodesSnapshot(),
	}

	for _, head := range src.Heads() {
		n := &src.Nodes[head]
		if hasNoEffect(src, head) {
			continue
		}
		if n.NodeType != nil && m.merged.LightingModel.Set &&
			n.NodeType.LightingModelMask != 0 && n.NodeType.LightingModelMask&m.merged.LightingModel.Value == 0 {
			continue
		}
		m.visit(cs, head, n.Stage)
	}

	for _, gp := range cs.groupNodes {
		m.mergeGroupChildren(cs, gp)
	}
}

// visit recursively resolves srcIdx to a merged node index, creating it
// (or relinking/deduplicating a Read-half) on first encounter and
// returning the cached replacement thereafter. headStage is the stage
// of the head currently being walked, used to determine non-input
// nodes' contributed group_index (spec.md §4.5.2 step 1).
func (m *merger) visit(cs *componentState, srcIdx int, headStage ir.Stage) int {
	n := &cs.src.Nodes[srcIdx]
	if existing, ok := cs.replacements[n.HashID]; ok {
		return existing
	}

	stageForGroup := headStage
	isReadHalf := n.NodeType != nil && n.NodeType.LinkRole == registry.LinkRoleInput
	if isReadHalf {
		stageForGroup = n.Stage
	}
	groupIndex := ir.GroupIndexForStage(cs.group, stageForGroup)

	relinkTarget := -1
	if isReadHalf {
		outTypeIdx := n.NodeType.OutputTypeIndex
		if prev, ok := cs.prevOutputs[graph.OutputKey{Group: groupIndex, StageOrd: int(n.Stage), OutputTypeIndex: outTypeIdx}]; ok {
			relinkTarget = prev
		} else if existing, ok := m.merged.InputNodeAt(groupIndex, int(n.Stage), outTypeIdx); ok {
			cs.replacements[n.HashID] = existing
			return existing
		}
	}

	mergedIdx := m.createNode(cs, n, groupIndex, graph.NoParent)
	newNode := m.merged.Node(mergedIdx)

	for _, l := range n.InputLinks {
		producerIdx := m.visit(cs, l.Producer, headStage)
		newNode.InputLinks = append(newNode.InputLinks, graph.Link{
			OutputPortIndex: l.OutputPortIndex,
			OutputSwizzle:   l.OutputSwizzle,
			InputPortIndex:  l.InputPortIndex,
			InputSwizzle:    l.InputSwizzle,
			Producer:        producerIdx,
		})
		m.merged.Node(producerIdx).OutputLinkCount++
	}
	if relinkTarget >= 0 {
		newNode.InputLinks = append(newNode.InputLinks, graph.Link{Producer: relinkTarget})
		m.merged.Node(relinkTarget).OutputLinkCount++
	}

	cs.replacements[n.HashID] = mergedIdx
	m.registerHead(n, groupIndex, mergedIdx)

	if n.NodeType != nil && n.NodeType.Group {
		cs.groupNodes = append(cs.groupNodes, groupPending{srcIdx: srcIdx, mergedIdx: mergedIdx})
	}

	return mergedIdx
}

// createNode builds the fresh NodeInstance copy spec.md §4.5.2 step 3
// describes: same NodeType, stage, and preferred shader, full parameter
// and custom-dynamic-name copy, parent mapped through replacements.
func (m *merger) createNode(cs *componentState, src *graph.NodeInstance, groupIndex uint32, parentOverride int) int {
	nn := graph.NodeInstance{
		NodeType:        src.NodeType,
		Stage:           src.Stage,
		PreferredShader: src.PreferredShader,
		GroupIndex:      groupIndex,
		GraphIndex:      cs.graphIndex,
		ParentID:        graph.NoParent,
		CustomParameter: src.CustomParameter,
	}
	if parentOverride != graph.NoParent {
		nn.ParentID = parentOverride
	} else if src.ParentID != graph.NoParent {
		if mappedParent, ok := cs.replacements[cs.src.Nodes[src.ParentID].HashID]; ok {
			nn.ParentID = mappedParent
		}
	}
	nn.Params = make([]param.Value, len(src.Params))
	for i := range src.Params {
		nn.Params[i].Copy(&src.Params[i])
	}
	nn.CustomDynamicNames = append([]string(nil), src.CustomDynamicNames...)
	nn.InputSlots = append([]graph.Slot(nil), src.InputSlots...)
	nn.OutputSlots = append([]graph.Slot(nil), src.OutputSlots...)

	return m.merged.AddNode(nn)
}

// registerHead records a freshly created merged node as a Read-half or
// Write-half head, if its NodeType makes it one.
func (m *merger) registerHead(src *graph.NodeInstance, groupIndex uint32, mergedIdx int) {
	if src.NodeType == nil {
		return
	}
	switch src.NodeType.LinkRole {
	case registry.LinkRoleInput:
		m.merged.RegisterInputNode(groupIndex, int(src.Stage), src.NodeType.OutputTypeIndex, mergedIdx)
	case registry.LinkRoleOutput:
		m.merged.RegisterOutputNode(groupIndex, int(src.Stage), src.NodeType.OutputTypeIndex, mergedIdx)
	default:
		if len(src.NodeType.OutputPorts) > 0 {
			m.merged.RegisterOutputOnly(mergedIdx)
		}
	}
}

// mergeGroupChildren walks a Group node's children (nodes whose
// ParentID points back at it in the source graph), the same way as any
// other subtree, then rewires the merged Group node's child-links
// through the resulting replacements (spec.md §4.5.2 step c).
func (m *merger) mergeGroupChildren(cs *componentState, gp groupPending) {
	groupNode := &cs.src.Nodes[gp.srcIdx]
	for idx := range cs.src.Nodes {
		if cs.src.Nodes[idx].ParentID != gp.srcIdx {
			continue
		}
		m.visitChild(cs, idx, groupNode.Stage, gp.mergedIdx)
	}

	merged := m.merged.Node(gp.mergedIdx)
	for _, cl := range groupNode.ChildLinks {
		producerIdx, ok := cs.replacements[cs.src.Nodes[cl.Producer].HashID]
		if !ok {
			continue
		}
		merged.ChildLinks = append(merged.ChildLinks, graph.Link{
			OutputPortIndex: cl.OutputPortIndex,
			OutputSwizzle:   cl.OutputSwizzle,
			InputPortIndex:  cl.InputPortIndex,
			InputSwizzle:    cl.InputSwizzle,
			Producer:        producerIdx,
		})
		m.merged.Node(producerIdx).OutputLinkCount++
	}
}

// visitChild is visit's counterpart for a Group's internal nodes: same
// post-order/replacement discipline, but its ParentID is always pinned
// to the group's merged index rather than inherited from the source.
func (m *merger) visitChild(cs *componentState, srcIdx int, headStage ir.Stage, mergedParent int) int {
	n := &cs.src.Nodes[srcIdx]
	if existing, ok := cs.replacements[n.HashID]; ok {
		return existing
	}
	groupIndex := ir.GroupIndexForStage(cs.group, headStage)

	mergedIdx := m.createNode(cs, n, groupIndex, mergedParent)
	newNode := m.merged.Node(mergedIdx)
	for _, l := range n.InputLinks {
		producerIdx := m.visitChild(cs, l.Producer, headStage, mergedParent)
		newNode.InputLinks = append(newNode.InputLinks, graph.Link{
			OutputPortIndex: l.OutputPortIndex,
			OutputSwizzle:   l.OutputSwizzle,
			InputPortIndex:  l.InputPortIndex,
			InputSwizzle:    l.InputSwizzle,
			Producer:        producerIdx,
		})
		m.merged.Node(producerIdx).OutputLinkCount++
	}

	cs.replacements[n.HashID] = mergedIdx
	return mergedIdx
}
