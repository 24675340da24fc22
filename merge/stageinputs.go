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

// candidate is one admissible input_nodes/output_nodes entry for a
// stage connector (spec.md §4.5.4).
type candidate struct {
	key graph.OutputKey
	idx int
}

// connectStageInputs implements spec.md §4.5.4: once every component
// has merged, every node whose NodeType declares StageConnectors gets
// its connector ports wired to whichever extension-point head currently
// "owns" that extension point at or before the connector's stage cap.
func connectStageInputs(g *graph.Graph) {
	inputs := g.InputNodesSnapshot()
	outputs := g.OutputNodesSnapshot()

	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.NodeType == nil || len(n.NodeType.StageConnectors) == 0 {
			continue
		}
		for _, sc := range n.NodeType.StageConnectors {
			best, ok := selectCandidate(g, inputs, outputs, sc, n.GroupIndex, n.NodeType.Commutative)
			if !ok {
				continue
			}
			wireConnector(g, n, sc, best)
		}
	}
}

func selectCandidate(g *graph.Graph, inputs, outputs map[graph.OutputKey]int, sc registry.StageConnector, currentGroup uint32, commutative bool) (candidate, bool) {
	var best candidate
	found := false

	consider := func(key graph.OutputKey, idx int, role registry.LinkRole) {
		if key.StageOrd > int(sc.Cap) {
			return
		}
		nt := g.Node(idx).NodeType
		name, ok := registry.ExtensionPointName(nt)
		if !ok || name != sc.ExtensionPoint {
			return
		}
		if nt.LinkRole != role {
			return
		}
		c := candidate{key: key, idx: idx}
		if !found || betterCandidate(c, best, currentGroup, commutative) {
			best, found = c, true
		}
	}

	for key, idx := range inputs {
		consider(key, idx, registry.LinkRoleInput)
	}
	for key, idx := range outputs {
		consider(key, idx, registry.LinkRoleOutput)
	}
	return best, found
}

// betterCandidate orders candidates by higher stage_number first. A
// non-commutative consumer then prefers a candidate from its own
// group_index, since its input order depends on which group produced
// it; a commutative consumer skips that preference entirely (its result
// does not depend on which group its input came from) and falls
// straight through to the group_index/key tie-break, which both cases
// still need for a deterministic pick (spec.md §4.5.4).
func betterCandidate(a, b candidate, currentGroup uint32, commutative bool) bool {
	if a.key.StageOrd != b.key.StageOrd {
		return a.key.StageOrd > b.key.StageOrd
	}
	if !commutative {
		aMatch, bMatch := a.key.Group == currentGroup, b.key.Group == currentGroup
		if aMatch != bMatch {
			return aMatch
		}
	}
	if a.key.Group != b.key.Group {
		return a.key.Group < b.key.Group
	}
	return a.key.OutputTypeIndex < b.key.OutputTypeIndex
}

func wireConnector(g *graph.Graph, n *graph.NodeInstance, sc registry.StageConnector, c candidate) {
	chosen := g.Node(c.idx)
	portIdx, ok := portIndexByName(n.NodeType.InputPorts, sc.PortName)
	if !ok {
		return
	}

	if chosen.NodeType.LinkRole == registry.LinkRoleInput {
		n.StageLinks = append(n.StageLinks, graph.Link{
			InputPortIndex: portIdx,
			Producer:       c.idx,
		})
		chosen.OutputLinkCount++
		return
	}

	for _, l := range chosen.InputLinks {
		n.StageLinks = append(n.StageLinks, graph.Link{
			OutputPortIndex: l.OutputPortIndex,
			OutputSwizzle:   l.OutputSwizzle,
			InputPortIndex:  portIdx,
			InputSwizzle:    l.InputSwizzle,
			Producer:        l.Producer,
		})
		g.Node(l.Producer).OutputLinkCount++
	}
}

func portIndexByName(ports []registry.Port, name string) (int, bool) {
	for i, p := range ports {
		if p.Name == name {
			return i, true
		}
	}
	return 0, false
}
