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
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/htrie/vin-sub006/errkind"
	"github.com/htrie/vin-sub006/ir"
)

// FragmentDecl is one parsed `fragment { ... }` block, before it is
// turned into a NodeType (connector types are already resolved against
// ir.GraphType; a stage connector's "<stage>.<ext_point>" semantic is
// still a raw string, which Build resolves against ir.Stage).
type FragmentDecl struct {
	Name string

	Connectors []ConnectorDecl
	Uniforms   []UniformDecl
	Macros     []MacroDecl

	LightingModelMask uint32
	Commutative       bool
	Usage             Usage
	Cost              Cost
	EngineOnly        bool
	IsGroup           bool
}

// ConnectorDecl is one `connector` line inside a fragment block.
type ConnectorDecl struct {
	Direction string // in | out | inout | dynamic | custom | stage
	Name      string
	Type      ir.GraphType
	// Semantic carries the "<stage>.<ext_point>" suffix a `stage`
	// connector declares.
	Semantic string
}

// UniformDecl is one `uniform` line inside a fragment block.
type UniformDecl struct {
	Type        ir.GraphType
	Names       []string
	Mins        []float64
	Maxs        []float64
	Defaults    []float64
	CustomRange bool
	MacroGuard  string
}

// MacroDecl is one `macro` line inside a fragment block.
type MacroDecl struct {
	Name  string
	Value string
}

// ExtensionPointDecl is one top-level `extension_point` declaration.
type ExtensionPointDecl struct {
	Name         string
	Type         ir.GraphType
	Stage        ir.Stage
	HasStage     bool
	Usage        Usage
	HasUsage     bool
}

// ParsedFile is everything ParseFragmentFile extracted from one .ffx
// file's text.
type ParsedFile struct {
	Fragments      []FragmentDecl
	ExtensionPoints []ExtensionPointDecl
}

// ParseFragmentFile parses the line-oriented .ffx grammar (spec.md
// §6.1, grammar spelled out in full in the project's expanded
// specification): `fragment <Name> { ... }` blocks and top-level
// `extension_point` declarations.
func ParseFragmentFile(filename string, data []byte) (*ParsedFile, error) {
	p := &fragmentParser{filename: filename, sc: bufio.NewScanner(bytes.NewReader(data))}
	return p.parse()
}

type fragmentParser struct {
	filename string
	sc       *bufio.Scanner
	line     int
}

func (p *fragmentParser) errf(format string, args ...interface{}) error {
	msg := fmt.Sprintf("%s:%d: "+format, append([]interface{}{p.filename, p.line}, args...)...)
	return errors.Wrap(errkind.ParseError, msg)
}

func (p *fragmentParser) parse() (*ParsedFile, error) {
	out := &ParsedFile{}
	for p.sc.Scan() {
		p.line++
		fields := strings.Fields(stripComment(p.sc.Text()))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "fragment":
			frag, err := p.parseFragment(fields)
			if err != nil {
				return nil, err
			}
			out.Fragments = append(out.Fragments, *frag)
		case "extension_point":
			ep, err := p.parseExtensionPoint(fields)
			if err != nil {
				return nil, err
			}
			out.ExtensionPoints = append(out.ExtensionPoints, *ep)
		default:
			return nil, p.errf("unexpected top-level token %q", fields[0])
		}
	}
	if err := p.sc.Err(); err != nil {
		return nil, errors.Wrapf(errkind.ParseError, "%s: %v", p.filename, err)
	}
	return out, nil
}

func (p *fragmentParser) parseFragment(header []string) (*FragmentDecl, error) {
	if len(header) < 2 {
		return nil, p.errf("fragment declaration missing a name")
	}
	frag := &FragmentDecl{Name: header[1], LightingModelMask: 0xffffffff}
	lightingModelSet := false

	for p.sc.Scan() {
		p.line++
		line := strings.TrimSpace(stripComment(p.sc.Text()))
		if line == "" {
			continue
		}
		if line == "}" {
			return frag, nil
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "usage":
			u, err := parseUsage(fields[1])
			if err != nil {
				return nil, p.errf("%v", err)
			}
			frag.Usage = u
		case "cost":
			c, err := parseCost(fields[1])
			if err != nil {
				return nil, p.errf("%v", err)
			}
			frag.Cost = c
		case "engine_only":
			frag.EngineOnly = true
		case "commutative":
			frag.Commutative = true
		case "group":
			frag.IsGroup = true
		case "lighting_model":
			if !lightingModelSet {
				frag.LightingModelMask = 0
				lightingModelSet = true
			}
			for _, name := range fields[1:] {
				name = strings.TrimSuffix(name, ",")
				frag.LightingModelMask |= lightingModelBit(name)
			}
		case "connector":
			c, err := p.parseConnector(fields[1:])
			if err != nil {
				return nil, err
			}
			frag.Connectors = append(frag.Connectors, *c)
		case "uniform":
			u, err := p.parseUniform(fields[1:])
			if err != nil {
				return nil, err
			}
			frag.Uniforms = append(frag.Uniforms, *u)
		case "macro":
			m := MacroDecl{Name: fields[1]}
			if len(fields) > 2 {
				m.Value = strings.Join(fields[2:], " ")
			}
			frag.Macros = append(frag.Macros, m)
		default:
			return nil, p.errf("unexpected fragment field %q", fields[0])
		}
	}
	return nil, p.errf("fragment %q: unterminated block", frag.Name)
}

func (p *fragmentParser) parseConnector(fields []string) (*ConnectorDecl, error) {
	if len(fields) < 3 {
		return nil, p.errf("connector declaration needs direction, name, and type")
	}
	dir := fields[0]
	name := fields[1]
	gt, ok := ir.ParseGraphType(fields[2])
	if !ok {
		return nil, p.errf("connector %q: unknown type %q", name, fields[2])
	}
	c := &ConnectorDecl{Direction: dir, Name: name, Type: gt}
	if dir == "stage" {
		if len(fields) < 4 {
			return nil, p.errf("stage connector %q requires a <stage>.<ext_point> semantic", name)
		}
		c.Semantic = fields[3]
	}
	return c, nil
}

func (p *fragmentParser) parseUniform(fields []string) (*UniformDecl, error) {
	if len(fields) < 2 {
		return nil, p.errf("uniform declaration needs a type and a property string")
	}
	gt, ok := ir.ParseGraphType(fields[0])
	if !ok {
		return nil, p.errf("uniform: unknown type %q", fields[0])
	}
	u := &UniformDecl{Type: gt}

	rest := fields[1:]
	for i, f := range rest {
		if f == "macro" {
			if i+1 < len(rest) {
				u.MacroGuard = rest[i+1]
			}
			rest = rest[:i]
			break
		}
	}

	// The property string is four whitespace-separated lists, each
	// exactly as long as the GraphType's element count, optionally
	// followed by the literal token "custom_range".
	n := gt.MaxElements()
	if len(rest) > 0 && rest[len(rest)-1] == "custom_range" {
		u.CustomRange = true
		rest = rest[:len(rest)-1]
	}
	if gt.IsSamplerOrTexture() {
		if len(rest) != 0 {
			return nil, p.errf("uniform %q: sampler/texture types carry no names/ranges", gt)
		}
		return u, nil
	}
	if len(rest) != 4*n {
		return nil, p.errf("uniform %q: expected %d tokens (names mins maxs defaults), got %d", gt, 4*n, len(rest))
	}
	u.Names = append(u.Names, rest[0:n]...)
	mins, err := parseFloats(rest[n : 2*n])
	if err != nil {
		return nil, p.errf("uniform %q: %v", gt, err)
	}
	maxs, err := parseFloats(rest[2*n : 3*n])
	if err != nil {
		return nil, p.errf("uniform %q: %v", gt, err)
	}
	defaults, err := parseFloats(rest[3*n : 4*n])
	if err != nil {
		return nil, p.errf("uniform %q: %v", gt, err)
	}
	u.Mins, u.Maxs, u.Defaults = mins, maxs, defaults
	return u, nil
}

func (p *fragmentParser) parseExtensionPoint(fields []string) (*ExtensionPointDecl, error) {
	if len(fields) < 3 {
		return nil, p.errf("extension_point declaration needs a name and a type")
	}
	gt, ok := ir.ParseGraphType(fields[2])
	if !ok {
		return nil, p.errf("extension_point %q: unknown type %q", fields[1], fields[2])
	}
	ep := &ExtensionPointDecl{Name: fields[1], Type: gt}

	rest := fields[3:]
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "stage":
			if i+1 >= len(rest) {
				return nil, p.errf("extension_point %q: stage requires a value", ep.Name)
			}
			st, ok := ir.StageFromString(rest[i+1])
			if !ok {
				return nil, p.errf("extension_point %q: unknown stage %q", ep.Name, rest[i+1])
			}
			ep.Stage, ep.HasStage = st, true
			i++
		case "usage":
			if i+1 >= len(rest) {
				return nil, p.errf("extension_point %q: usage requires a value", ep.Name)
			}
			u, err := parseUsage(rest[i+1])
			if err != nil {
				return nil, p.errf("extension_point %q: %v", ep.Name, err)
			}
			ep.Usage, ep.HasUsage = u, true
			i++
		default:
			return nil, p.errf("extension_point %q: unexpected token %q", ep.Name, rest[i])
		}
	}
	return ep, nil
}

func stripComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		return line[:i]
	}
	return line
}

func parseFloats(tokens []string) ([]float64, error) {
	out := make([]float64, len(tokens))
	for i, t := range tokens {
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseUsage(s string) (Usage, error) {
	switch s {
	case "Vertex":
		return UsageVertex, nil
	case "Pixel":
		return UsagePixel, nil
	case "Compute":
		return UsageCompute, nil
	case "VertexPixel":
		return UsageVertexPixel, nil
	case "Any":
		return UsageAny, nil
	default:
		return 0, errors.Errorf("unknown usage %q", s)
	}
}

func parseCost(s string) (Cost, error) {
	switch s {
	case "Low":
		return CostLow, nil
	case "Medium":
		return CostMedium, nil
	case "High":
		return CostHigh, nil
	default:
		return 0, errors.Errorf("unknown cost %q", s)
	}
}

// lightingModelBit maps a lighting-model name to its visibility bit. The
// set of names is small and fixed; every unrecognized name maps to the
// same bit (1 << 31), so it still sets a bit in the mask instead of
// being silently dropped.
func lightingModelBit(name string) uint32 {
	switch name {
	case "PhongMaterial":
		return 1 << 0
	case "Unlit":
		return 1 << 1
	case "Subsurface":
		return 1 << 2
	case "ClearCoat":
		return 1 << 3
	default:
		return 1 << 31
	}
}
