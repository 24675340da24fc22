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
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/htrie/vin-sub006/dynparam"
	"github.com/htrie/vin-sub006/errkind"
	"github.com/htrie/vin-sub006/ident"
	"github.com/htrie/vin-sub006/ir"
)

// WritePrefix and ReadPrefix name the two NodeTypes synthesized per
// extension point (spec.md §4.2.2).
const (
	WritePrefix = "write_"
	ReadPrefix  = "read_"
)

// PhongMaterialBit is the lighting-model visibility bit a merged graph
// defaults to when no component graph overrides the lighting model
// (spec.md §4.5.1).
const PhongMaterialBit uint32 = 1 << 0

// ExtensionPointName strips a Read/Write NodeType's synthesized prefix,
// returning the bare extension-point name stage connectors match
// against, and false for a NodeType that isn't an extension-point half.
func ExtensionPointName(nt *NodeType) (string, bool) {
	switch {
	case strings.HasPrefix(nt.Name, WritePrefix):
		return strings.TrimPrefix(nt.Name, WritePrefix), true
	case strings.HasPrefix(nt.Name, ReadPrefix):
		return strings.TrimPrefix(nt.Name, ReadPrefix), true
	default:
		return "", false
	}
}

// TypeRegistry holds every NodeType a compilation run knows about,
// looked up by the content hash of its name. Once Freeze is called the
// registry is immutable and safe for concurrent lookups.
type TypeRegistry struct {
	byID   map[ir.TypeId]*NodeType
	byName map[string]*NodeType
	order  []*NodeType
	frozen bool

	outputTypeCount int
}

// New returns an empty, mutable TypeRegistry.
func New() *TypeRegistry {
	return &TypeRegistry{
		byID:   make(map[ir.TypeId]*NodeType),
		byName: make(map[string]*NodeType),
	}
}

// Add registers nt under its Name/TypeId. It is an error to register the
// same name twice, or to call Add after Freeze.
func (r *TypeRegistry) Add(nt *NodeType) error {
	if r.frozen {
		return fmt.Errorf("registry: Add(%q) after Freeze", nt.Name)
	}
	if _, ok := r.byName[nt.Name]; ok {
		return errors.Wrapf(errkind.ParseError, "registry: NodeType %q already registered", nt.Name)
	}
	if nt.TypeId == 0 {
		nt.TypeId = ident.HashName(nt.Name)
	}
	nt.OutputTypeIndex = -1
	r.byID[nt.TypeId] = nt
	r.byName[nt.Name] = nt
	r.order = append(r.order, nt)
	return nil
}

// ByTypeId looks up a NodeType by its content hash.
func (r *TypeRegistry) ByTypeId(id ir.TypeId) (*NodeType, bool) {
	nt, ok := r.byID[id]
	return nt, ok
}

// ByName looks up a NodeType by its declared name.
func (r *TypeRegistry) ByName(name string) (*NodeType, bool) {
	nt, ok := r.byName[name]
	return nt, ok
}

// Len returns the number of registered NodeTypes.
func (r *TypeRegistry) Len() int { return len(r.order) }

// OutputTypeCount returns K, the number of distinct output-type indices
// assigned by Freeze (spec.md §2.4); valid only after Freeze.
func (r *TypeRegistry) OutputTypeCount() int { return r.outputTypeCount }

// SynthesizeDynamicNodeTypes implements spec.md §4.2.3: for each entry in
// table not already covered by a statically declared NodeType, register
// a single-output-port NodeType named after the dynamic parameter. For
// names that collide with a static NodeType, the static NodeType's sole
// output port type must match the table's type.
func (r *TypeRegistry) SynthesizeDynamicNodeTypes(table *dynparam.Table) error {
	if r.frozen {
		return fmt.Errorf("registry: SynthesizeDynamicNodeTypes after Freeze")
	}
	for _, key := range table.Keys() {
		entry, _ := table.Lookup(key)
		existing, ok := r.byName[entry.Name]
		if !ok {
			nt := &NodeType{
				Name:        entry.Name,
				OutputPorts: []Port{{Name: "output", Type: entry.Type}},
			}
			if err := r.Add(nt); err != nil {
				return err
			}
			continue
		}
		if len(existing.OutputPorts) != 1 || existing.OutputPorts[0].Type != entry.Type {
			return errors.Wrapf(errkind.RegistryMismatch,
				"registry: dynamic parameter %q declared as %v by fragment file, %v by DynamicParamTable",
				entry.Name, existing.OutputPorts, entry.Type)
		}
	}
	return nil
}

// Freeze assigns dense output-type indices to every Write-half NodeType
// in registration order (the matching Read half inherits the same
// index), then makes the registry immutable (spec.md §4.2.4).
func (r *TypeRegistry) Freeze() {
	if r.frozen {
		return
	}
	next := 0
	for _, nt := range r.order {
		if nt.LinkRole != LinkRoleOutput {
			continue
		}
		nt.OutputTypeIndex = next
		if match, ok := r.byID[nt.MatchingTypeId]; ok {
			match.OutputTypeIndex = next
		}
		next++
	}
	r.outputTypeCount = next
	r.frozen = true
}
