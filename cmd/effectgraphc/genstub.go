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
	"bytes"
	"context"
	"flag"
	"os"
	"text/template"

	"github.com/pkg/errors"
	"golang.org/x/tools/imports"

	"github.com/htrie/vin-sub006/registry"
)

// gen-stub is a dev-only subcommand: given a single .ffx fragment file,
// it emits a formatted Go source stub declaring a var of
// registry.FragmentDecl literals, one per parsed fragment, for engine-side codegen tooling
// that wants a starting point to hand-tune rather than drive off the
// parser directly.
func runGenStub(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("gen-stub", flag.ExitOnError)
	pkg := fs.String("pkg", "main", "package name for the generated stub")
	out := fs.String("out", "", "output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 1 {
		return errors.New("gen-stub: expected exactly one .ffx file argument")
	}

	data, err := os.ReadFile(rest[0])
	if err != nil {
		return errors.Wrap(err, "gen-stub")
	}
	parsed, err := registry.ParseFragmentFile(rest[0], data)
	if err != nil {
		return errors.Wrap(err, "gen-stub")
	}

	var buf bytes.Buffer
	if err := stubTemplate.Execute(&buf, stubData{
		Package:   *pkg,
		Source:    rest[0],
		Fragments: parsed.Fragments,
	}); err != nil {
		return errors.Wrap(err, "gen-stub: rendering template")
	}

	formatted, err := imports.Process(rest[0]+".go", buf.Bytes(), nil)
	if err != nil {
		// A malformed template render is a bug in this command, not in
		// the input file; fall back to the unformatted source so the
		// caller still gets something to look at.
		formatted = buf.Bytes()
	}

	if *out == "" {
		_, err = os.Stdout.Write(formatted)
		return err
	}
	return os.WriteFile(*out, formatted, 0644)
}

type stubData struct {
	Package   string
	Source    string
	Fragments []registry.FragmentDecl
}

var stubTemplate = template.Must(template.New("stub").Parse(`// Code generated by effectgraphc gen-stub from {{.Source}}. DO NOT EDIT.

package {{.Package}}

import "github.com/htrie/vin-sub006/registry"

var Fragments = []registry.FragmentDecl{
{{- range .Fragments}}
	{Name: {{printf "%q" .Name}}, Usage: registry.Usage({{.Usage}}), Cost: registry.Cost({{.Cost}}), EngineOnly: {{.EngineOnly}}, Commutative: {{.Commutative}}, IsGroup: {{.IsGroup}}},
{{- end}}
}
`))
