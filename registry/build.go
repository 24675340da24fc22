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

package registry

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/htrie/vin-sub006/core/fault"
	"github.com/htrie/vin-sub006/errkind"
	"github.com/htrie/vin-sub006/ident"
	"github.com/htrie/vin-sub006/ir"
)

// Build turns a parsed .ffx file into NodeTypes and registers them into
// r: one NodeType per `fragment` block, and two per `extension_point`
// declaration (spec.md §4.2.2). A malformed declaration does not stop
// the rest of the file from being registered; every error encountered
// is collected and the first one is returned, so a single typo doesn't
// hide other errors in the same file on the next run.
func Build(r *TypeRegistry, filename string, parsed *ParsedFile) error {
	var errs fault.List

	for i := range parsed.Fragments {
		nt, err := fragmentNodeType(&parsed.Fragments[i])
		if err != nil {
			errs.Collect(errors.Wrapf(err, "registry: %s", filename))
			continue
		}
		if err := r.Add(nt); err != nil {
			errs.Collect(err)
		}
	}
	for i := range parsed.ExtensionPoints {
		write, read, err := extensionPointNodeTypes(&parsed.ExtensionPoints[i])
		if err != nil {
			errs.Collect(errors.Wrapf(err, "registry: %s", filename))
			continue
		}
		if err := r.Add(write); err != nil {
			errs.Collect(err)
		}
		if err := r.Add(read); err != nil {
			errs.Collect(err)
		}
		write.MatchingTypeId = read.TypeId
		read.MatchingTypeId = write.TypeId
	}
	return errs.First()
}

func fragmentNodeType(f *FragmentDecl) (*NodeType, error) {
	nt := &NodeType{
		Name:              f.Name,
		TypeId:            ident.HashName(f.Name),
		Usage:             f.Usage,
		Cost:              f.Cost,
		EngineOnly:        f.EngineOnly,
		Commutative:       f.Commutative,
		Group:             f.IsGroup,
		LightingModelMask: f.LightingModelMask,
	}

	for _, c := range f.Connectors {
		switch c.Direction {
		case "in", "dynamic", "custom":
			nt.InputPorts = append(nt.InputPorts, Port{Name: c.Name, Type: c.Type})
		case "out":
			nt.OutputPorts = append(nt.OutputPorts, Port{Name: c.Name, Type: c.Type})
		case "inout":
			nt.InputPorts = append(nt.InputPorts, Port{Name: c.Name, Type: c.Type})
			nt.OutputPorts = append(nt.OutputPorts, Port{Name: c.Name, Type: c.Type})
		case "stage":
			stage, ext, ok := splitSemantic(c.Semantic)
			if !ok {
				return nil, errors.Wrapf(errkind.ParseError, "fragment %q: malformed stage semantic %q", f.Name, c.Semantic)
			}
			nt.StageConnectors = append(nt.StageConnectors, StageConnector{
				PortName:       c.Name,
				ExtensionPoint: ext,
				Cap:            stage,
			})
		default:
			return nil, errors.Wrapf(errkind.ParseError, "fragment %q: unknown connector direction %q", f.Name, c.Direction)
		}
	}

	for _, u := range f.Uniforms {
		nt.Params = append(nt.Params, uniformToParamSchema(u))
	}

	return nt, nil
}

func uniformToParamSchema(u UniformDecl) ParamSchema {
	ps := ParamSchema{Type: u.Type, CustomRange: u.CustomRange, MacroGuard: u.MacroGuard}
	if len(u.Names) > 0 {
		// The declared name used for data_id is every element name
		// joined, so two uniforms sharing a first-component name (e.g.
		// two colors both starting with "R") still hash distinctly.
		ps.Name = strings.Join(u.Names, "_")
		ps.DataID = uint32(ident.HashName(ps.Name + "__"))
	}
	for i := range u.Names {
		if i >= 4 {
			break
		}
		ps.Names[i] = u.Names[i]
		if i < len(u.Mins) {
			ps.Mins[i] = float32(u.Mins[i])
		}
		if i < len(u.Maxs) {
			ps.Maxs[i] = float32(u.Maxs[i])
		}
		if i < len(u.Defaults) {
			ps.Defaults[i] = float32(u.Defaults[i])
		}
	}
	return ps
}

func splitSemantic(s string) (ir.Stage, string, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			stage, ok := ir.StageFromString(s[:i])
			if !ok {
				return 0, "", false
			}
			return stage, s[i+1:], true
		}
	}
	return 0, "", false
}

// extensionPointNodeTypes synthesizes the Write and Read halves of an
// extension point (spec.md §4.2.2): both carry the extension point's
// default stage and usage and a reserved "value" port of the extension
// point's type (Input on the write half, Output on the read half). The
// halves get no parameters, macros, lighting-model mask, shader group,
// cost or engine-only flag: an extension_point declaration carries none
// of these.
func extensionPointNodeTypes(ep *ExtensionPointDecl) (write, read *NodeType, err error) {
	stage, usage, err := resolveStageUsage(ep)
	if err != nil {
		return nil, nil, err
	}

	write = &NodeType{
		Name:         WritePrefix + ep.Name,
		TypeId:       ident.HashName(WritePrefix + ep.Name),
		InputPorts:   []Port{{Name: "value", Type: ep.Type}},
		LinkRole:     LinkRoleOutput,
		DefaultStage: stage,
		Usage:        usage,
	}
	read = &NodeType{
		Name:         ReadPrefix + ep.Name,
		TypeId:       ident.HashName(ReadPrefix + ep.Name),
		OutputPorts:  []Port{{Name: "value", Type: ep.Type}},
		LinkRole:     LinkRoleInput,
		DefaultStage: stage,
		Usage:        usage,
	}
	return write, read, nil
}

// resolveStageUsage implements the spec.md §4.2.2 cross-validation
// table: if both stage and usage are declared they must agree; if only
// one is declared the other is inferred.
func resolveStageUsage(ep *ExtensionPointDecl) (ir.Stage, Usage, error) {
	inferredStage := func(u Usage) (ir.Stage, error) {
		switch u {
		case UsageVertex:
			return ir.VertexOutput, nil
		case UsagePixel:
			return ir.PixelOutput, nil
		case UsageCompute:
			return ir.ComputeInit, nil
		default:
			return 0, errors.Wrapf(errkind.ParseError,
				"extension_point %q: usage must be explicit stage-compatible (Vertex/Pixel/Compute) to infer a stage", ep.Name)
		}
	}
	inferredUsage := func(s ir.Stage) Usage {
		switch {
		case ir.IsVertexStage(s):
			return UsageVertex
		case ir.IsPixelStage(s):
			return UsagePixel
		default:
			return UsageCompute
		}
	}

	switch {
	case ep.HasStage && ep.HasUsage:
		want := inferredUsage(ep.Stage)
		if ep.Usage != want && !(ep.Usage == UsageVertexPixel || ep.Usage == UsageAny) {
			return 0, 0, errors.Wrapf(errkind.ParseError,
				"extension_point %q: declared stage %v is inconsistent with declared usage", ep.Name, ep.Stage)
		}
		return ep.Stage, ep.Usage, nil
	case ep.HasStage:
		return ep.Stage, inferredUsage(ep.Stage), nil
	case ep.HasUsage:
		s, err := inferredStage(ep.Usage)
		if err != nil {
			return 0, 0, err
		}
		return s, ep.Usage, nil
	default:
		return 0, 0, errors.Wrapf(errkind.ParseError,
			"extension_point %q: must declare at least one of stage or usage", ep.Name)
	}
}
