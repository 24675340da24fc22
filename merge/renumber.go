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
	"sort"

	"github.com/htrie/vin-sub006/graph"
	"github.com/htrie/vin-sub006/ir"
)

// renumber implements spec.md §4.5.5: walking merged nodes in ascending
// (group, stage_number) order, assign each a dense per-NodeType index,
// then recompute its HashID from that final index. This produces
// indices that depend only on final merged order, not authoring order —
// essential for stable hashing (the parameter-index half of §4.5.5 has
// no observable effect in this compiler, since per-parameter
// buffer-slot layout belongs to the shader generator, out of scope per
// spec.md §1; this pass renumbers node signatures only).
func renumber(g *graph.Graph) {
	keys := make([]bucketKey, 0)
	buckets := collectBuckets(g)
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Group != keys[j].Group {
			return keys[i].Group < keys[j].Group
		}
		return keys[i].Stage < keys[j].Stage
	})

	typeCounters := make(map[ir.TypeId]int)
	for _, k := range keys {
		for _, idx := range buckets[k] {
			n := g.Node(idx)
			if n.NodeType == nil {
				continue
			}
			n.Index = typeCounters[n.NodeType.TypeId]
			typeCounters[n.NodeType.TypeId]++
			n.HashID = graph.NodeHashID(n.NodeType.TypeId, n.Index, n.Stage)
		}
	}
}

// collectBuckets derives the (group, stage) ordering directly from the
// merged graph rather than merger.sortedByOutput, so renumber works
// uniformly whether or not it is invoked through Merge's own
// bookkeeping (e.g. from a test building a Graph by hand).
func collectBuckets(g *graph.Graph) map[bucketKey][]int {
	buckets := make(map[bucketKey][]int)
	for i := range g.Nodes {
		n := g.Node(i)
		k := bucketKey{Group: n.GroupIndex, Stage: n.Stage}
		buckets[k] = append(buckets[k], i)
	}
	return buckets
}

// markMultiStage implements spec.md §4.5.6's multi-stage detection:
// walking backward from each head along its input, child, and stage
// links, track which distinct head stages reach each node. A node
// reached from more than one head stage that also feeds more than one
// consumer link is marked MultiStage, telling the (out-of-scope) shader
// generator to hoist its expression into a shared variable.
func markMultiStage(g *graph.Graph) {
	reach := make(map[int]map[ir.Stage]bool)
	var walk func(idx int, headStage ir.Stage, visited map[int]bool)
	walk = func(idx int, headStage ir.Stage, visited map[int]bool) {
		if visited[idx] {
			return
		}
		visited[idx] = true
		if reach[idx] == nil {
			reach[idx] = make(map[ir.Stage]bool)
		}
		reach[idx][headStage] = true
		n := g.Node(idx)
		for _, l := range n.InputLinks {
			walk(l.Producer, headStage, visited)
		}
		for _, l := range n.ChildLinks {
			walk(l.Producer, headStage, visited)
		}
		for _, l := range n.StageLinks {
			walk(l.Producer, headStage, visited)
		}
	}

	for _, head := range g.Heads() {
		walk(head, g.Node(head).Stage, make(map[int]bool))
	}

	for i := range g.Nodes {
		n := g.Node(i)
		n.MultiStage = len(reach[i]) > 1 && n.OutputLinkCount > 1
	}
}
