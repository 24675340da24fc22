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

// Package param holds the authored parameter value model: a tagged
// union over the fourteen ir.GraphTypes plus the uniform/binding
// extraction views the inputs gatherer needs.
package param

import (
	"encoding/json"

	"github.com/htrie/vin-sub006/ir"
)

// TextureRef wraps the external texture-export system's opaque handle
// so this package never imports that system (spec.md §1 places texture
// metadata/export out of scope). The zero value means "no texture".
type TextureRef struct {
	Handle interface{}
}

// Value is a tagged union over every GraphType a parameter can carry.
// Names/Mins/Maxs/Defaults/Current are fixed-size so MarshalJSON emits
// them in declaration order every time, which is what makes round-trip
// serialization byte-identical (spec.md §8 property 8).
type Value struct {
	Type ir.GraphType
	// DataID identifies which authored node property this value fills
	// (the content hash of its declared name), used to match a
	// parameter override to its node-type slot.
	DataID uint32

	Names    [4]string
	Mins     [4]float32
	Maxs     [4]float32
	Defaults [4]float32
	Current  [4]float32

	// SamplerIndex is valid iff Type == ir.Sampler.
	SamplerIndex int
	// Texture is valid iff Type is one of the texture GraphTypes.
	Texture TextureRef
}

type wireValue struct {
	Type     ir.GraphType `json:"type"`
	DataID   uint32       `json:"data_id"`
	Names    [4]string    `json:"names"`
	Mins     [4]float32   `json:"mins"`
	Maxs     [4]float32   `json:"maxs"`
	Defaults [4]float32   `json:"defaults"`
	Current  [4]float32   `json:"current"`
	Sampler  int          `json:"sampler_index,omitempty"`
}

// FillFromJSON populates v from an authored JSON parameter block.
func (v *Value) FillFromJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v.Type = w.Type
	v.DataID = w.DataID
	v.Names = w.Names
	v.Mins = w.Mins
	v.Maxs = w.Maxs
	v.Defaults = w.Defaults
	v.Current = w.Current
	v.SamplerIndex = w.Sampler
	return nil
}

// MarshalJSON implements json.Marshaler, serializing elements in
// declaration order so two equal Values always produce identical bytes.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireValue{
		Type:     v.Type,
		DataID:   v.DataID,
		Names:    v.Names,
		Mins:     v.Mins,
		Maxs:     v.Maxs,
		Defaults: v.Defaults,
		Current:  v.Current,
		Sampler:  v.SamplerIndex,
	})
}

// Copy replaces v's contents with a deep copy of other. Texture.Handle
// is an opaque external reference and is copied by value, matching the
// reference engine's refcounted-pointer copy semantics closely enough
// for this compiler's purposes (it never dereferences the handle).
func (v *Value) Copy(other *Value) {
	*v = *other
}

// UniformInput is the view of a Value the inputs gatherer emits for a
// node's exposed scalar/vector parameters.
type UniformInput struct {
	DataID  uint32
	Type    ir.GraphType
	Current [4]float32
}

// UniformInputInfo returns the uniform view of v, if v carries an inline
// value rather than a sampler/texture handle.
func (v *Value) UniformInputInfo() (UniformInput, bool) {
	if v.Type.IsSamplerOrTexture() {
		return UniformInput{}, false
	}
	return UniformInput{DataID: v.DataID, Type: v.Type, Current: v.Current}, true
}

// BindingInput is the view of a Value the inputs gatherer emits for a
// node's exposed sampler/texture parameters.
type BindingInput struct {
	DataID       uint32
	Type         ir.GraphType
	SamplerIndex int
	Texture      TextureRef
}

// BindingInputInfo returns the binding view of v, if v carries a
// sampler/texture handle rather than an inline value.
func (v *Value) BindingInputInfo() (BindingInput, bool) {
	if !v.Type.IsSamplerOrTexture() {
		return BindingInput{}, false
	}
	return BindingInput{
		DataID:       v.DataID,
		Type:         v.Type,
		SamplerIndex: v.SamplerIndex,
		Texture:      v.Texture,
	}, true
}
