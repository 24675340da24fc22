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

// Package graph holds a single loaded authored graph: its nodes, links,
// flags, state overrides, and macros, plus the content hash that
// identifies it.
package graph

import (
	"github.com/htrie/vin-sub006/ident"
	"github.com/htrie/vin-sub006/ir"
	"github.com/htrie/vin-sub006/param"
	"github.com/htrie/vin-sub006/registry"
)

// Flags is a bitmask of per-graph boolean switches (spec.md §3.4).
type Flags uint32

const (
	DisableLighting Flags = 1 << iota
	Constant
	IgnoreConstant
	UseStartTime
	HasParameters
)

// EffectOrder controls where in the draw order a graph's effect renders,
// carried verbatim from Renderer::DrawCalls::EffectOrder::Value.
type EffectOrder int

const (
	EffectOrderGround EffectOrder = iota
	EffectOrderDecals
	EffectOrderWater
	EffectOrderPreEffect
	EffectOrderEffects
	EffectOrderDefault
	EffectOrderLast
)

// BlendMode is the graph's render-state blend setting.
type BlendMode int

const (
	Opaque BlendMode = iota
	AlphaBlend
	Additive
)

// Overridable carries a value plus whether it was explicitly set,
// matching the reference engine's Overwriteable<T> template: a later
// graph's explicit override always wins over an earlier implicit
// default (spec.md §4.5.1).
type Overridable[T any] struct {
	Value T
	Set   bool
}

// Merge folds other into o in place: if other.Set, its value replaces
// o's and o.Set becomes true; otherwise o is left untouched. This is
// the one operation every "last override wins" fold in the compiler
// reduces to.
func (o *Overridable[T]) Merge(other Overridable[T]) {
	if other.Set {
		o.Value = other.Value
		o.Set = true
	}
}

// RenderStateOverrides bundles the three independently-overridable
// render-state groups a graph may declare.
type RenderStateOverrides struct {
	Rasterizer  Overridable[RasterizerState]
	DepthStencil Overridable[DepthStencilState]
	Blend       Overridable[BlendState]
}

// RasterizerState, DepthStencilState and BlendState are opaque
// render-state blobs: the compiler folds and hashes them but never
// interprets their contents (that is the GPU device layer's job, out
// of scope per spec.md §1).
type (
	RasterizerState   struct{ Bits uint32 }
	DepthStencilState struct{ Bits uint32 }
	BlendState        struct{ Bits uint32 }
)

// Link connects one producer node's output port to a consumer node's
// input port.
type Link struct {
	OutputPortIndex int
	OutputSwizzle   string
	InputPortIndex  int
	InputSwizzle    string
	Producer        int // index into Graph.Nodes
}

// Slot is one dynamic input or output declared by a Group node
// (NodeType.Group): a named, typed connection point, optionally marked
// Loop to indicate it is fed once per loop iteration rather than once
// per instance (original engine's NodeConnector.loop).
type Slot struct {
	Name string
	Type ir.GraphType
	Loop bool
}

// NodeInstance is one node within a Graph (spec.md §3.3).
type NodeInstance struct {
	NodeType *registry.NodeType
	Index    int
	Stage    ir.Stage
	HashID   ir.TypeId

	InputLinks []Link
	StageLinks []Link
	ChildLinks []Link

	Params             []param.Value
	CustomDynamicNames []string

	// InputSlots/OutputSlots are a Group node's dynamic connection
	// points (spec.md §3.2's Group NodeType), copied across unchanged
	// during merge.
	InputSlots  []Slot
	OutputSlots []Slot

	// CustomParameter is the content hash of an artist-authored
	// override name; when non-zero, InputsGatherer prefers the matching
	// InstanceDesc.Params entry over this node's authored defaults
	// (spec.md §4.8 step 2).
	CustomParameter uint32

	GraphIndex  int
	GroupIndex  uint32
	ParentID    int // -1 if not inside a Group

	// TypeId is the content hash, computed lazily by TypeId().
	typeId       ir.TypeId
	typeIdCached bool

	MultiStage      bool
	OutputLinkCount int

	PreferredShader registry.Usage
}

const noParent = -1

// NoParent is the ParentID sentinel for a node that is not inside a
// Group (spec.md §3.3).
const NoParent = noParent

// nodeHashID reproduces spec.md §3.3:
// hash_id = merge(merge(merge(0, type_id), index), stage_ord).
func nodeHashID(typeId ir.TypeId, index int, stage ir.Stage) ir.TypeId {
	return ident.Fold(0, typeId, ir.TypeId(index), ir.TypeId(stage))
}

// TypeId computes (and caches) n's content hash following spec.md §4.6's
// CalculateTypeId: it folds in each input link's port/mask identity and
// its producer's TypeId (computed first, recursively), each sampler
// parameter's index, each non-empty custom-dynamic-name, the stage name
// for extension-point halves, and finally the NodeType's own TypeId.
func (n *NodeInstance) TypeId(nodes []NodeInstance) ir.TypeId {
	if n.typeIdCached {
		return n.typeId
	}
	var h ir.TypeId
	for _, l := range n.InputLinks {
		inHash := ident.Fold(ir.TypeId(l.InputPortIndex), ident.HashName(l.InputSwizzle))
		outHash := ident.Fold(ir.TypeId(l.OutputPortIndex), ident.HashName(l.OutputSwizzle))
		producer := &nodes[l.Producer]
		h = ident.Fold(h, inHash, outHash, producer.TypeId(nodes))
	}
	for _, p := range n.Params {
		if p.Type == ir.Sampler {
			h = ident.Merge(h, ir.TypeId(p.SamplerIndex))
		}
	}
	for _, name := range n.CustomDynamicNames {
		if name == "" {
			continue
		}
		h = ident.Merge(h, ident.HashName(name+"__"))
	}
	if n.NodeType != nil && n.NodeType.LinkRole != registry.LinkRoleNone {
		h = ident.Merge(h, ident.HashName(n.Stage.String()))
	}
	if n.NodeType != nil {
		h = ident.Merge(h, n.NodeType.TypeId)
	}
	n.typeId = h
	n.typeIdCached = true
	return h
}

// SignatureHash is the alternate hash path spec.md §4.6 describes for
// use during merge: it folds in n.HashID (the node's canonical-index
// signature) instead of n.NodeType.TypeId, so that otherwise-identical
// merged templates differentiate by their final position.
func (n *NodeInstance) SignatureHash(nodes []NodeInstance) ir.TypeId {
	var h ir.TypeId
	for _, l := range n.InputLinks {
		inHash := ident.Fold(ir.TypeId(l.InputPortIndex), ident.HashName(l.InputSwizzle))
		outHash := ident.Fold(ir.TypeId(l.OutputPortIndex), ident.HashName(l.OutputSwizzle))
		producer := &nodes[l.Producer]
		h = ident.Fold(h, inHash, outHash, producer.SignatureHash(nodes))
	}
	for _, p := range n.Params {
		if p.Type == ir.Sampler {
			h = ident.Merge(h, ir.TypeId(p.SamplerIndex))
		}
	}
	for _, name := range n.CustomDynamicNames {
		if name == "" {
			continue
		}
		h = ident.Merge(h, ident.HashName(name+"__"))
	}
	h = ident.Merge(h, n.HashID)
	return h
}

// OutputKey identifies a head's slot in Graph.inputNodes/outputNodes:
// group_index * (stage count * numOutputTypes) ... spec.md's
// (group_index, stage_ord*num_output_types+output_type_index) compound
// key, folded to a single comparable value.
type OutputKey struct {
	Group           uint32
	StageOrd        int
	OutputTypeIndex int
}

// Graph is a single loaded authored graph (spec.md §3.4).
type Graph struct {
	Filename string

	Nodes []NodeInstance

	inputNodes  map[OutputKey]int
	outputNodes map[OutputKey]int
	outputOnly  []int

	Flags Flags

	LightingModel   Overridable[uint32]
	BlendMode       Overridable[BlendMode]
	AlphaRef        Overridable[ir.Vec4]
	EffectOrder     Overridable[EffectOrder]
	Macros          map[string]string
	StateOverrides  RenderStateOverrides
	ShaderGroups    []ir.ShaderGroup

	typeId       ir.TypeId
	typeIdCached bool
}

// StageEnabled reports whether s falls inside at least one of g's
// authored ShaderGroups' stage windows (spec.md §4.4 steps 1-2: a node
// or link endpoint whose stage is disabled by the current ShaderGroups
// is silently dropped). A Graph with no authored ShaderGroups restricts
// nothing.
func (g *Graph) StageEnabled(s ir.Stage) bool {
	if len(g.ShaderGroups) == 0 {
		return true
	}
	for _, sg := range g.ShaderGroups {
		begin, end := ir.StagesForGroup(sg)
		if s >= begin && s < end {
			return true
		}
	}
	return false
}

func newGraph(filename string) *Graph {
	return &Graph{
		Filename:    filename,
		inputNodes:  make(map[OutputKey]int),
		outputNodes: make(map[OutputKey]int),
		Macros:      make(map[string]string),
	}
}

// New returns an empty Graph for filename, ready for a caller (the
// GraphMerger, most notably) to append nodes to directly.
func New(filename string) *Graph {
	return newGraph(filename)
}

// AddNode appends n to g and returns its index.
func (g *Graph) AddNode(n NodeInstance) int {
	g.Nodes = append(g.Nodes, n)
	g.typeIdCached = false
	return len(g.Nodes) - 1
}

// RegisterInputNode records idx as the Read-half head at key
// (group, stageOrd, outputTypeIndex).
func (g *Graph) RegisterInputNode(group uint32, stageOrd, outputTypeIndex, idx int) {
	g.inputNodes[OutputKey{group, stageOrd, outputTypeIndex}] = idx
}

// RegisterOutputNode records idx as the Write-half head at key
// (group, stageOrd, outputTypeIndex).
func (g *Graph) RegisterOutputNode(group uint32, stageOrd, outputTypeIndex, idx int) {
	g.outputNodes[OutputKey{group, stageOrd, outputTypeIndex}] = idx
}

// RegisterOutputOnly appends idx to the output-only head list.
func (g *Graph) RegisterOutputOnly(idx int) {
	g.outputOnly = append(g.outputOnly, idx)
}

// Node returns a pointer to the node at idx for in-place mutation
// (renumbering, multi-stage marking) during merge.
func (g *Graph) Node(idx int) *NodeInstance { return &g.Nodes[idx] }

// NodeCount returns len(g.Nodes).
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// InvalidateTypeIdCache forces the next TypeId() call to recompute,
// needed after merge mutates node content (renumbering) in place.
func (g *Graph) InvalidateTypeIdCache() {
	g.typeIdCached = false
	for i := range g.Nodes {
		g.Nodes[i].typeIdCached = false
	}
}

// InputNodeAt returns the Read-half node index registered at key, if
// any (spec.md §3.4 invariant: at most one per (group, stage_number)).
func (g *Graph) InputNodeAt(group uint32, stageOrd, outputTypeIndex int) (int, bool) {
	i, ok := g.inputNodes[OutputKey{group, stageOrd, outputTypeIndex}]
	return i, ok
}

// OutputNodeAt returns the Write-half node index registered at key, if
// any.
func (g *Graph) OutputNodeAt(group uint32, stageOrd, outputTypeIndex int) (int, bool) {
	i, ok := g.outputNodes[OutputKey{group, stageOrd, outputTypeIndex}]
	return i, ok
}

// OutputNodesSnapshot returns a copy of g's current (group, stage,
// output-type) -> node-index registry, used by the merger to remember
// which heads existed before a component started contributing (spec.md
// §4.5.2's `prev_heads`).
func (g *Graph) OutputNodesSnapshot() map[OutputKey]int {
	snap := make(map[OutputKey]int, len(g.outputNodes))
	for k, v := range g.outputNodes {
		snap[k] = v
	}
	return snap
}

// InputNodesSnapshot returns a copy of g's current Read-half registry.
func (g *Graph) InputNodesSnapshot() map[OutputKey]int {
	snap := make(map[OutputKey]int, len(g.inputNodes))
	for k, v := range g.inputNodes {
		snap[k] = v
	}
	return snap
}

// IsOutputOnly reports whether idx is registered as an output-only head.
func (g *Graph) IsOutputOnly(idx int) bool {
	for _, i := range g.outputOnly {
		if i == idx {
			return true
		}
	}
	return false
}

// NodeHashID computes the load-time node identity of spec.md §3.3:
// hash_id = merge(merge(merge(0, type_id), index), stage_ord). Exported
// so the merger can recompute a renumbered node's HashID after
// assigning it a final index (spec.md §4.5.5).
func NodeHashID(typeId ir.TypeId, index int, stage ir.Stage) ir.TypeId {
	return nodeHashID(typeId, index, stage)
}

type kv struct {
	k OutputKey
	i int
}

// Heads returns every head node index: the Write-half output nodes
// sorted by (group, stage, output-type index), followed by the
// output-only nodes in registration order.
func (g *Graph) Heads() []int {
	heads := make([]int, 0, len(g.outputNodes)+len(g.outputOnly))
	ordered := make([]kv, 0, len(g.outputNodes))
	for k, i := range g.outputNodes {
		ordered = append(ordered, kv{k, i})
	}
	sortKV(ordered)
	for _, e := range ordered {
		heads = append(heads, e.i)
	}
	heads = append(heads, g.outputOnly...)
	return heads
}

func sortKV(s []kv) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0; j-- {
			a, b := s[j-1].k, s[j].k
			if less(a, b) {
				break
			}
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func less(a, b OutputKey) bool {
	if a.Group != b.Group {
		return a.Group < b.Group
	}
	if a.StageOrd != b.StageOrd {
		return a.StageOrd < b.StageOrd
	}
	return a.OutputTypeIndex < b.OutputTypeIndex
}

// TypeId computes (and caches) the graph's content hash: lighting
// model, blend mode, flags, and state-override hash folded in first,
// then each head's TypeId in ascending (group, stage_number) order
// (spec.md §4.6). The fold always mixes in a non-zero sentinel so an
// empty graph still satisfies TypeId() != 0 (spec.md §3.4 invariant,
// scenario S1).
func (g *Graph) TypeId() ir.TypeId {
	if g.typeIdCached {
		return g.typeId
	}
	const emptyGraphSentinel = ir.TypeId(0x656d7074) // "empt"
	h := ident.Fold(
		emptyGraphSentinel,
		ir.TypeId(g.LightingModel.Value),
		ir.TypeId(g.BlendMode.Value),
		ir.TypeId(g.Flags),
		stateOverrideHash(g.StateOverrides),
	)
	for _, head := range g.Heads() {
		h = ident.Merge(h, g.Nodes[head].TypeId(g.Nodes))
	}
	g.typeId = h
	g.typeIdCached = true
	return h
}

func stateOverrideHash(s RenderStateOverrides) ir.TypeId {
	var h ir.TypeId
	if s.Rasterizer.Set {
		h = ident.Fold(h, 1, ir.TypeId(s.Rasterizer.Value.Bits))
	}
	if s.DepthStencil.Set {
		h = ident.Fold(h, 1, ir.TypeId(s.DepthStencil.Value.Bits))
	}
	if s.Blend.Set {
		h = ident.Fold(h, 1, ir.TypeId(s.Blend.Value.Bits))
	}
	return h
}
