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

package registry_test

import (
	"strings"
	"testing"

	"github.com/htrie/vin-sub006/dynparam"
	"github.com/htrie/vin-sub006/ir"
	"github.com/htrie/vin-sub006/registry"
)

const sampleFfx = `
fragment AlbedoTint {
    usage Pixel
    cost Low
    commutative
    lighting_model PhongMaterial, Unlit
    connector in Color float4
    connector out Result float4
    uniform float4 TintR TintG TintB TintA / 0 0 0 0 / 1 1 1 1 / 0.5 0.5 0.5 1
}

extension_point AlbedoColor float4 stage Texturing
`

func mustParse(t *testing.T, src string) *registry.ParsedFile {
	t.Helper()
	pf, err := registry.ParseFragmentFile("test.ffx", []byte(strings.ReplaceAll(src, " / ", " ")))
	if err != nil {
		t.Fatalf("ParseFragmentFile: %v", err)
	}
	return pf
}

func TestParseFragmentFile(t *testing.T) {
	pf := mustParse(t, sampleFfx)
	if len(pf.Fragments) != 1 {
		t.Fatalf("got %d fragments, want 1", len(pf.Fragments))
	}
	f := pf.Fragments[0]
	if f.Name != "AlbedoTint" || f.Usage != registry.UsagePixel || f.Cost != registry.CostLow {
		t.Errorf("fragment header mismatch: %+v", f)
	}
	if !f.Commutative {
		t.Error("expected Commutative to be true")
	}
	if len(f.Connectors) != 2 {
		t.Fatalf("got %d connectors, want 2", len(f.Connectors))
	}
	if len(f.Uniforms) != 1 || len(f.Uniforms[0].Names) != 4 {
		t.Fatalf("uniform parse mismatch: %+v", f.Uniforms)
	}

	if len(pf.ExtensionPoints) != 1 {
		t.Fatalf("got %d extension points, want 1", len(pf.ExtensionPoints))
	}
	ep := pf.ExtensionPoints[0]
	if ep.Name != "AlbedoColor" || ep.Type != ir.Float4 || !ep.HasStage || ep.Stage != ir.Texturing {
		t.Errorf("extension point mismatch: %+v", ep)
	}
}

func TestBuildRegistersFragmentAndExtensionPointHalves(t *testing.T) {
	pf := mustParse(t, sampleFfx)
	r := registry.New()
	if err := registry.Build(r, "test.ffx", pf); err != nil {
		t.Fatal(err)
	}

	if _, ok := r.ByName("AlbedoTint"); !ok {
		t.Error("fragment NodeType not registered")
	}
	write, ok := r.ByName(registry.WritePrefix + "AlbedoColor")
	if !ok {
		t.Fatal("write half not registered")
	}
	read, ok := r.ByName(registry.ReadPrefix + "AlbedoColor")
	if !ok {
		t.Fatal("read half not registered")
	}
	if write.MatchingTypeId != read.TypeId || read.MatchingTypeId != write.TypeId {
		t.Error("write/read halves do not cross-reference each other's TypeId")
	}

	r.Freeze()
	if write.OutputTypeIndex != read.OutputTypeIndex {
		t.Errorf("write/read halves have different OutputTypeIndex: %d vs %d", write.OutputTypeIndex, read.OutputTypeIndex)
	}
	if r.OutputTypeCount() != 1 {
		t.Errorf("OutputTypeCount() = %d, want 1", r.OutputTypeCount())
	}
}

func TestSynthesizeDynamicNodeTypes(t *testing.T) {
	r := registry.New()
	table := dynparam.NewTable()
	if err := table.Register("time_of_day", ir.Float, 0, nil); err != nil {
		t.Fatal(err)
	}
	if err := r.SynthesizeDynamicNodeTypes(table); err != nil {
		t.Fatal(err)
	}
	nt, ok := r.ByName("time_of_day")
	if !ok {
		t.Fatal("dynamic NodeType not synthesized")
	}
	if len(nt.OutputPorts) != 1 || nt.OutputPorts[0].Type != ir.Float {
		t.Errorf("synthesized NodeType malformed: %+v", nt)
	}
}

func TestSynthesizeDynamicNodeTypesRejectsMismatch(t *testing.T) {
	pf := mustParse(t, sampleFfx)
	r := registry.New()
	if err := registry.Build(r, "test.ffx", pf); err != nil {
		t.Fatal(err)
	}
	table := dynparam.NewTable()
	if err := table.Register("AlbedoTint", ir.Float2, 0, nil); err != nil {
		t.Fatal(err)
	}
	if err := r.SynthesizeDynamicNodeTypes(table); err == nil {
		t.Error("expected a RegistryMismatch error")
	}
}
