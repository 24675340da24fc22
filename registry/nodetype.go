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

// Package registry holds the TypeRegistry and the .ffx fragment-file
// parser: every NodeType a compilation run knows about, looked up by
// its content-hashed name.
package registry

import "github.com/htrie/vin-sub006/ir"

// Usage restricts which shader stages a NodeType's fragment may run in.
type Usage int

const (
	UsageVertex Usage = iota
	UsagePixel
	UsageCompute
	UsageVertexPixel
	UsageAny
)

// Cost is an artist-facing hint for a fragment's relative expense.
type Cost int

const (
	CostLow Cost = iota
	CostMedium
	CostHigh
)

// LinkRole distinguishes the two synthesized halves of an extension
// point from an ordinary fragment's NodeType.
type LinkRole int

const (
	// LinkRoleNone marks a NodeType declared directly by a `fragment`
	// block, not synthesized from an extension point.
	LinkRoleNone LinkRole = iota
	// LinkRoleInput marks the Read half: it produces an output by
	// reading the matching Write half's input.
	LinkRoleInput
	// LinkRoleOutput marks the Write half: it consumes the "value"
	// input the graph author wires up.
	LinkRoleOutput
)

// Port is one typed input or output connection point on a NodeType.
type Port struct {
	Name string
	Type ir.GraphType
}

// StageConnector is a StageConnectors entry: a port that binds to
// whichever node currently "owns" the named extension point at or
// before stage Cap, resolved during merge (spec.md §4.5.4).
type StageConnector struct {
	PortName        string
	ExtensionPoint  string
	Cap             ir.Stage
}

// ParamSchema declares one of a NodeType's uniform parameters.
type ParamSchema struct {
	Name         string
	Type         ir.GraphType
	DataID       uint32
	Names        [4]string
	Mins         [4]float32
	Maxs         [4]float32
	Defaults     [4]float32
	CustomRange  bool
	MacroGuard   string
}

// NodeType is the static, once-per-fragment-or-extension-point
// description every NodeInstance of that kind shares.
type NodeType struct {
	Name   string
	TypeId ir.TypeId

	InputPorts      []Port
	OutputPorts     []Port
	StageConnectors []StageConnector
	Params          []ParamSchema

	Usage       Usage
	Cost        Cost
	EngineOnly  bool
	Commutative bool

	// Group marks a fragment declared with the `group` directive: a
	// container node whose dynamic input/output slots and child-links
	// describe a sub-graph, rewired as a unit during merge (spec.md
	// §4.5.2 step c).
	Group bool

	ShaderGroup       ir.ShaderGroup
	DefaultStage      ir.Stage
	LightingModelMask uint32

	LinkRole       LinkRole
	MatchingTypeId ir.TypeId

	// OutputTypeIndex is assigned by TypeRegistry.Freeze once every
	// fragment file has loaded (spec.md §4.2.4); it is the
	// dense index used in (group, stage_number) keying. Non-extension-
	// point NodeTypes leave this at -1.
	OutputTypeIndex int
}

// IsExtensionPointHalf reports whether t was synthesized from an
// extension point rather than declared directly.
func (t *NodeType) IsExtensionPointHalf() bool { return t.LinkRole != LinkRoleNone }
