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

// The effectgraphc command drives the library end to end: given a
// manifest naming fragment-definition files and an ordered list of
// component graphs, it builds a TypeRegistry, merges the components,
// gathers their inputs, and prints the resulting type_id plus the
// flattened uniform/binding lists as JSON. It is a harness for
// exercising the library from the command line, not part of the
// runtime contract a game engine would embed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	var err error
	switch args[0] {
	case "merge":
		err = runMerge(ctx, args[1:])
	case "gen-stub":
		err = runGenStub(ctx, args[1:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "effectgraphc:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: effectgraphc <command> [flags]")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  merge     merge a manifest's components and print type_id + inputs as JSON")
	fmt.Fprintln(os.Stderr, "  gen-stub  emit a formatted Go FragmentDecl table stub from a .ffx file")
}
