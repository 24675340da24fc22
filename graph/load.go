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

package graph

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/htrie/vin-sub006/core/log"
	"github.com/htrie/vin-sub006/errkind"
	"github.com/htrie/vin-sub006/ir"
	"github.com/htrie/vin-sub006/param"
	"github.com/htrie/vin-sub006/registry"
)

type wireSlot struct {
	Name string       `json:"name"`
	Type ir.GraphType `json:"type"`
	Loop bool         `json:"loop"`
}

type wireNode struct {
	Name               string                `json:"name"`
	Type               string                `json:"type"`
	Stage              string                `json:"stage"`
	Index              int                   `json:"index"`
	Parameters         []json.RawMessage     `json:"parameters"`
	CustomParameter    uint32                `json:"custom_parameter"`
	CustomDynamicNames []string              `json:"custom_dynamic_names"`
	ParentID           int                   `json:"parent_id"`
	UIPosition         struct{ X, Y float64 } `json:"ui_position"`
	InputSlots         []wireSlot            `json:"input_slots"`
	OutputSlots        []wireSlot            `json:"output_slots"`
}

type wireEndpoint struct {
	Type     string `json:"type"`
	Index    int    `json:"index"`
	Stage    string `json:"stage"`
	Variable string `json:"variable"`
	Swizzle  string `json:"swizzle"`
}

type wireLink struct {
	Src       wireEndpoint `json:"src"`
	Dst       wireEndpoint `json:"dst"`
	ChildLink bool         `json:"child_link"`
}

type wireOverwrites struct {
	BlendMode     *string  `json:"blend_mode"`
	EffectOrder   *string  `json:"effect_order"`
	LightingModel *string  `json:"lighting_model"`
	AlphaRef      *float64 `json:"alpha_ref"`
	Flags         uint32   `json:"flags"`
}

type wireFile struct {
	Version      int             `json:"version"`
	Overwrites   wireOverwrites  `json:"overwrites"`
	ShaderGroups []string        `json:"shader_groups"`
	Nodes        []wireNode      `json:"nodes"`
	Links        []wireLink      `json:"links"`
	DefaultGraph string          `json:"default_graph"`
}

// vertexShaderYThreshold is the ui_position.y value above which a node
// with no usage-fixed shader is assumed to run in the vertex shader
// (spec.md §4.4 step 2).
const vertexShaderYThreshold = 0.0

// Load parses a .fxgraph file's JSON body and builds a Graph, following
// spec.md §4.4's node-then-link two-pass scheme.
func Load(ctx context.Context, reg *registry.TypeRegistry, filename string, data []byte) (*Graph, error) {
	var wf wireFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, errors.Wrapf(errkind.ParseError, "graph: %s: %v", filename, err)
	}

	g := newGraph(filename)
	g.Flags = Flags(wf.Overwrites.Flags)
	if wf.Overwrites.BlendMode != nil {
		if bm, ok := parseBlendMode(*wf.Overwrites.BlendMode); ok {
			g.BlendMode = Overridable[BlendMode]{Value: bm, Set: true}
		}
	}
	if wf.Overwrites.EffectOrder != nil {
		if eo, ok := parseEffectOrder(*wf.Overwrites.EffectOrder); ok {
			g.EffectOrder = Overridable[EffectOrder]{Value: eo, Set: true}
		}
	}
	if wf.Overwrites.AlphaRef != nil {
		g.AlphaRef = Overridable[ir.Vec4]{
			Value: ir.Vec4{1, float32(*wf.Overwrites.AlphaRef), 0.001, 1},
			Set:   true,
		}
	}
	for _, s := range wf.ShaderGroups {
		if sg, ok := parseShaderGroup(s); ok {
			g.ShaderGroups = append(g.ShaderGroups, sg)
		}
	}

	byHashID := make(map[ir.TypeId]int, len(wf.Nodes))

	for _, wn := range wf.Nodes {
		nt, ok := reg.ByName(wn.Type)
		if !ok {
			log.W(ctx, "graph: %s: node %q: unknown type %q, dropping node", filename, wn.Name, wn.Type)
			continue
		}

		stage, ok := resolveNodeStage(nt, wn.Stage)
		if !ok {
			log.W(ctx, "graph: %s: node %q: cannot resolve stage, dropping node", filename, wn.Name)
			continue
		}
		if !g.StageEnabled(stage) {
			log.I(ctx, "graph: %s: node %q: stage %s disabled by shader_groups, dropping node", filename, wn.Name, stage)
			continue
		}

		idx := len(g.Nodes)
		n := NodeInstance{
			NodeType:        nt,
			Index:           wn.Index,
			Stage:           stage,
			GraphIndex:      0,
			ParentID:        noParent,
			PreferredShader: preferredShader(nt, wn.UIPosition.Y),
		}
		if wn.ParentID >= 0 {
			n.ParentID = wn.ParentID
		}
		n.HashID = nodeHashID(nt.TypeId, n.Index, n.Stage)
		n.CustomDynamicNames = append([]string(nil), wn.CustomDynamicNames...)
		n.CustomParameter = wn.CustomParameter
		n.InputSlots = convertSlots(wn.InputSlots)
		n.OutputSlots = convertSlots(wn.OutputSlots)
		n.Params = make([]param.Value, len(wn.Parameters))
		for i, raw := range wn.Parameters {
			_ = n.Params[i].FillFromJSON(raw)
		}

		g.Nodes = append(g.Nodes, n)
		byHashID[n.HashID] = idx

		if nt.LinkRole == registry.LinkRoleInput {
			key := OutputKey{Group: 0, StageOrd: int(stage), OutputTypeIndex: nt.OutputTypeIndex}
			g.inputNodes[key] = idx
		}
		if nt.LinkRole == registry.LinkRoleOutput {
			key := OutputKey{Group: 0, StageOrd: int(stage), OutputTypeIndex: nt.OutputTypeIndex}
			g.outputNodes[key] = idx
		} else if len(nt.OutputPorts) > 0 && nt.LinkRole == registry.LinkRoleNone {
			g.outputOnly = append(g.outputOnly, idx)
		}
	}

	for _, wl := range wf.Links {
		srcHash := endpointHashID(reg, wl.Src)
		dstHash := endpointHashID(reg, wl.Dst)
		srcIdx, srcOk := byHashID[srcHash]
		dstIdx, dstOk := byHashID[dstHash]
		if !srcOk || !dstOk {
			log.W(ctx, "graph: %s: link with missing endpoint, dropping", filename)
			continue
		}

		srcPort, srcPortOk := portIndex(g.Nodes[srcIdx].NodeType, wl.Src.Variable, true)
		dstPort, dstPortOk := portIndex(g.Nodes[dstIdx].NodeType, wl.Dst.Variable, false)
		if !srcPortOk || !dstPortOk {
			log.W(ctx, "graph: %s: link references unknown port, dropping", filename)
			continue
		}

		link := Link{
			OutputPortIndex: srcPort,
			OutputSwizzle:   wl.Src.Swizzle,
			InputPortIndex:  dstPort,
			InputSwizzle:    wl.Dst.Swizzle,
			Producer:        srcIdx,
		}
		g.Nodes[srcIdx].OutputLinkCount++

		dst := &g.Nodes[dstIdx]
		switch {
		case wl.ChildLink:
			dst.ChildLinks = append(dst.ChildLinks, link)
		default:
			dst.InputLinks = append(dst.InputLinks, link)
		}
	}

	return g, nil
}

// LoadMaterial parses a .matgraph wrapper: it reads default_graph, loads
// the named .fxgraph via loadDefault, and applies the Opaque blend-mode
// override suppression documented in SPEC_FULL.md's Design Notes
// (preserved byte-for-byte from the reference engine's EffectGraph
// constructor): a .matgraph's default graph never inherits an Opaque
// blend-mode override from its overwrites block, so an engine graph
// layered on top can still set its own blend mode.
func LoadMaterial(ctx context.Context, reg *registry.TypeRegistry, filename string, data []byte, loadDefault func(name string) ([]byte, error)) (*Graph, error) {
	var wf wireFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, errors.Wrapf(errkind.ParseError, "graph: %s: %v", filename, err)
	}
	if wf.DefaultGraph == "" {
		return nil, errors.Wrapf(errkind.ParseError, "graph: %s: matgraph missing default_graph", filename)
	}
	defData, err := loadDefault(wf.DefaultGraph)
	if err != nil {
		return nil, errors.Wrapf(errkind.ParseError, "graph: %s: loading default_graph %q: %v", filename, wf.DefaultGraph, err)
	}
	g, err := Load(ctx, reg, wf.DefaultGraph, defData)
	if err != nil {
		return nil, err
	}
	if g.BlendMode.Set && g.BlendMode.Value == Opaque {
		g.BlendMode = Overridable[BlendMode]{}
		g.typeIdCached = false
	}
	return g, nil
}

func resolveNodeStage(nt *registry.NodeType, stageName string) (ir.Stage, bool) {
	if stageName != "" {
		return ir.StageFromString(stageName)
	}
	return nt.DefaultStage, true
}

func preferredShader(nt *registry.NodeType, uiY float64) registry.Usage {
	switch nt.Usage {
	case registry.UsageVertex, registry.UsagePixel, registry.UsageCompute:
		return nt.Usage
	default:
		if uiY > vertexShaderYThreshold {
			return registry.UsageVertex
		}
		return registry.UsagePixel
	}
}

func endpointHashID(reg *registry.TypeRegistry, e wireEndpoint) ir.TypeId {
	nt, ok := reg.ByName(e.Type)
	if !ok {
		return 0
	}
	stage, ok := ir.StageFromString(e.Stage)
	if !ok {
		stage = nt.DefaultStage
	}
	return nodeHashID(nt.TypeId, e.Index, stage)
}

func portIndex(nt *registry.NodeType, name string, output bool) (int, bool) {
	ports := nt.InputPorts
	if output {
		ports = nt.OutputPorts
	}
	for i, p := range ports {
		if p.Name == name {
			return i, true
		}
	}
	return 0, false
}

func parseBlendMode(s string) (BlendMode, bool) {
	switch s {
	case "Opaque":
		return Opaque, true
	case "AlphaBlend":
		return AlphaBlend, true
	case "Additive":
		return Additive, true
	default:
		return 0, false
	}
}

// convertSlots copies a Group node's wire-format slot declarations into
// graph.Slot values.
func convertSlots(ws []wireSlot) []Slot {
	if len(ws) == 0 {
		return nil
	}
	slots := make([]Slot, len(ws))
	for i, s := range ws {
		slots[i] = Slot{Name: s.Name, Type: s.Type, Loop: s.Loop}
	}
	return slots
}

func parseEffectOrder(s string) (EffectOrder, bool) {
	switch s {
	case "Ground":
		return EffectOrderGround, true
	case "Decals":
		return EffectOrderDecals, true
	case "Water":
		return EffectOrderWater, true
	case "PreEffect":
		return EffectOrderPreEffect, true
	case "Effects":
		return EffectOrderEffects, true
	case "Default":
		return EffectOrderDefault, true
	case "Last":
		return EffectOrderLast, true
	default:
		return 0, false
	}
}

func parseShaderGroup(s string) (ir.ShaderGroup, bool) {
	for g := ir.Material; g <= ir.Temporary; g++ {
		if g.String() == s {
			return g, true
		}
	}
	return 0, false
}
