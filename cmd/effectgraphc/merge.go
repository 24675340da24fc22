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

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/htrie/vin-sub006/cache"
	"github.com/htrie/vin-sub006/core/log"
	"github.com/htrie/vin-sub006/dynparam"
	"github.com/htrie/vin-sub006/graph"
	"github.com/htrie/vin-sub006/ident"
	"github.com/htrie/vin-sub006/inputs"
	"github.com/htrie/vin-sub006/instance"
	"github.com/htrie/vin-sub006/ir"
	"github.com/htrie/vin-sub006/merge"
	"github.com/htrie/vin-sub006/param"
	"github.com/htrie/vin-sub006/registry"
)

// manifestComponent is one entry of a merge manifest's "components"
// list: a reference to a component graph file plus the group_index it
// contributes at and whatever per-instance overrides it carries.
type manifestComponent struct {
	Graph     string                     `json:"graph"`
	Group     uint32                     `json:"group"`
	AlphaRef  *float64                   `json:"alpha_ref"`
	Overrides map[string]json.RawMessage `json:"overrides"`
}

// manifest is the merge subcommand's input: the fragment-definition
// files to load into a TypeRegistry, and the ordered component list
// GraphMerger.Merge consumes.
type manifest struct {
	Fragments  []string            `json:"fragments"`
	Components []manifestComponent `json:"components"`
}

func runMerge(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	manifestPath := fs.String("manifest", "", "path to a merge manifest JSON file")
	verbose := fs.Bool("v", false, "log warnings encountered while loading graphs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *manifestPath == "" {
		return errors.New("merge: -manifest is required")
	}

	if *verbose {
		ctx = log.PutHandler(ctx, log.HandlerFunc(func(m log.Message) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", m.Severity, m.Text)
		}))
	}

	data, err := os.ReadFile(*manifestPath)
	if err != nil {
		return errors.Wrap(err, "merge")
	}
	var mf manifest
	if err := json.Unmarshal(data, &mf); err != nil {
		return errors.Wrap(err, "merge: parsing manifest")
	}
	baseDir := filepath.Dir(*manifestPath)

	reg, err := buildRegistry(ctx, baseDir, mf.Fragments)
	if err != nil {
		return err
	}

	gc := cache.New()
	resolve := func(name string) (*graph.Graph, error) {
		return gc.Get(ctx, name, func(ctx context.Context) (*graph.Graph, error) {
			return loadComponentGraph(ctx, reg, baseDir, name)
		})
	}

	components := make([]instance.Component, len(mf.Components))
	for i, mc := range mf.Components {
		desc := instance.NewDesc(mc.Graph)
		if mc.AlphaRef != nil {
			desc.AlphaRef = &ir.Vec4{1, float32(*mc.AlphaRef), 0.001, 1}
		}
		for key, raw := range mc.Overrides {
			hash := uint32(ident.HashName(key))
			var val param.Value
			if err := val.FillFromJSON(raw); err != nil {
				return errors.Wrapf(err, "merge: component %d: override %q", i, key)
			}
			desc.Params[hash] = &val
		}
		components[i] = instance.Component{Group: mc.Group, Desc: desc}
	}

	merged, err := merge.Merge(resolve, components)
	if err != nil {
		return errors.Wrap(err, "merge")
	}
	result, err := inputs.Gather(merged, components)
	if err != nil {
		return errors.Wrap(err, "merge: gathering inputs")
	}

	return json.NewEncoder(os.Stdout).Encode(mergeOutput{
		TypeId:       uint32(merged.TypeId()),
		NodeCount:    merged.NodeCount(),
		ShaderGroups: shaderGroupNames(merged.ShaderGroups),
		Uniforms:     result.Uniforms,
		Bindings:     result.Bindings,
	})
}

type mergeOutput struct {
	TypeId       uint32                `json:"type_id"`
	NodeCount    int                   `json:"node_count"`
	ShaderGroups []string              `json:"shader_groups"`
	Uniforms     []inputs.UniformInput `json:"uniforms"`
	Bindings     []inputs.BindingInput `json:"bindings"`
}

func shaderGroupNames(groups []ir.ShaderGroup) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.String()
	}
	return names
}

func buildRegistry(ctx context.Context, baseDir string, fragments []string) (*registry.TypeRegistry, error) {
	reg := registry.New()
	for _, f := range fragments {
		path := filepath.Join(baseDir, f)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "merge: reading fragment file %s", f)
		}
		parsed, err := registry.ParseFragmentFile(f, data)
		if err != nil {
			return nil, errors.Wrapf(err, "merge: parsing fragment file %s", f)
		}
		if err := registry.Build(reg, f, parsed); err != nil {
			return nil, err
		}
	}

	table := dynparam.NewTable()
	table.Freeze()
	if err := reg.SynthesizeDynamicNodeTypes(table); err != nil {
		return nil, errors.Wrap(err, "merge")
	}
	reg.Freeze()
	return reg, nil
}

func loadComponentGraph(ctx context.Context, reg *registry.TypeRegistry, baseDir, name string) (*graph.Graph, error) {
	path := filepath.Join(baseDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "merge: reading graph file %s", name)
	}
	if filepath.Ext(name) == ".matgraph" {
		return graph.LoadMaterial(ctx, reg, name, data, func(defaultName string) ([]byte, error) {
			return os.ReadFile(filepath.Join(baseDir, defaultName))
		})
	}
	return graph.Load(ctx, reg, name, data)
}
