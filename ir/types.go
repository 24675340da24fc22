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

// Package ir holds the primitive vocabulary shared by every component of
// the effect graph compiler: the content-hash type, the parameter type
// enum, the pipeline stage enum, and the shader-group enum. Nothing in
// this package depends on parsing, graphs, or merging — it is the
// vocabulary everything else is built from.
package ir

import (
	"encoding/json"
	"fmt"

	"github.com/htrie/vin-sub006/core/math/f32"
)

// TypeId is a content hash used as node-type identity, port-mask identity,
// parameter-name identity, and graph identity.
type TypeId uint32

// Vec2, Vec3, Vec4 and Mat4 are the vector/matrix value types used by
// ParameterModel. They are aliases onto the teacher's f32 package so that
// parameter values can be handed directly to f32's vector math without a
// conversion step.
type (
	Vec2 = f32.Vec2
	Vec3 = f32.Vec3
	Vec4 = f32.Vec4
	Mat4 = f32.Mat4
)

// GraphType is the tagged type of a NodeType port, parameter, or dynamic
// parameter.
type GraphType int

const (
	Bool GraphType = iota
	Int
	UInt
	Float
	Float2
	Float3
	Float4
	Float4x4
	Spline5
	SplineColour
	Sampler
	Texture
	Texture3D
	TextureCube

	numGraphType
)

var graphTypeNames = [numGraphType]string{
	Bool:         "bool",
	Int:          "int",
	UInt:         "uint",
	Float:        "float",
	Float2:       "float2",
	Float3:       "float3",
	Float4:       "float4",
	Float4x4:     "float4x4",
	Spline5:      "spline5",
	SplineColour: "splinecolour",
	Sampler:      "sampler",
	Texture:      "texture",
	Texture3D:    "texture3d",
	TextureCube:  "texturecube",
}

func (t GraphType) String() string {
	if t < 0 || int(t) >= len(graphTypeNames) {
		return "unknown"
	}
	return graphTypeNames[t]
}

// ParseGraphType returns the GraphType named s, or ok=false.
func ParseGraphType(s string) (GraphType, bool) {
	for i, n := range graphTypeNames {
		if n == s {
			return GraphType(i), true
		}
	}
	return 0, false
}

// MarshalJSON implements json.Marshaler.
func (t GraphType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *GraphType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	gt, ok := ParseGraphType(s)
	if !ok {
		return fmt.Errorf("ir: unknown GraphType %q", s)
	}
	*t = gt
	return nil
}

// IsSamplerOrTexture reports whether t carries an opaque resource handle
// rather than an inline value (spec §4.2.1: Sampler and texture-like types
// carry count=1 and no ranges).
func (t GraphType) IsSamplerOrTexture() bool {
	switch t {
	case Sampler, Texture, Texture3D, TextureCube:
		return true
	default:
		return false
	}
}

// MaxElements is the maximum number of scalar elements t's authored
// names/mins/maxs/defaults lists may carry (spec §4.2.1).
func (t GraphType) MaxElements() int {
	switch t {
	case Float2:
		return 2
	case Float3:
		return 3
	case Float4, Float4x4:
		return 4
	case Sampler, Texture, Texture3D, TextureCube:
		return 1
	default:
		return 1
	}
}
