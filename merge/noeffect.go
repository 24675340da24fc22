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

package merge

import (
	"github.com/htrie/vin-sub006/graph"
	"github.com/htrie/vin-sub006/registry"
)

// hasNoEffect implements spec.md §4.7: a head has no effect iff it is
// not an output-only node and every one of its input-links connects to
// the matching Read-half at the same stage_number. Such a head would
// only generate an identity passthrough, so merging skips it.
func hasNoEffect(g *graph.Graph, headIdx int) bool {
	if g.IsOutputOnly(headIdx) {
		return false
	}
	n := g.Node(headIdx)
	ext, ok := registry.ExtensionPointName(n.NodeType)
	if !ok {
		return false
	}
	for _, l := range n.InputLinks {
		producer := g.Node(l.Producer)
		if producer.NodeType == nil || producer.NodeType.LinkRole != registry.LinkRoleInput {
			return false
		}
		pext, ok := registry.ExtensionPointName(producer.NodeType)
		if !ok || pext != ext {
			return false
		}
		if producer.Stage != n.Stage {
			return false
		}
	}
	return true
}
