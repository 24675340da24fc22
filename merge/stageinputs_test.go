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
	"testing"

	"github.com/htrie/vin-sub006/graph"
)

func TestBetterCandidatePrefersOwnGroupWhenNotCommutative(t *testing.T) {
	ownGroup := candidate{key: graph.OutputKey{StageOrd: 1, Group: 2, OutputTypeIndex: 5}}
	otherGroup := candidate{key: graph.OutputKey{StageOrd: 1, Group: 1, OutputTypeIndex: 1}}

	if !betterCandidate(ownGroup, otherGroup, 2, false) {
		t.Error("non-commutative candidate from the consumer's own group should win")
	}
	if betterCandidate(otherGroup, ownGroup, 2, false) {
		t.Error("non-commutative candidate from a different group should not win over the consumer's own group")
	}
}

func TestBetterCandidateIgnoresGroupWhenCommutative(t *testing.T) {
	ownGroup := candidate{key: graph.OutputKey{StageOrd: 1, Group: 2, OutputTypeIndex: 5}}
	otherGroup := candidate{key: graph.OutputKey{StageOrd: 1, Group: 1, OutputTypeIndex: 1}}

	// Commutative: the own-group preference is skipped, so the lower
	// group_index wins the tie-break regardless of currentGroup.
	if betterCandidate(ownGroup, otherGroup, 2, true) {
		t.Error("commutative tie-break should prefer the lower group_index, not the consumer's own group")
	}
	if !betterCandidate(otherGroup, ownGroup, 2, true) {
		t.Error("commutative tie-break should have picked the lower group_index candidate")
	}
}

func TestBetterCandidateHigherStageWinsRegardlessOfCommutative(t *testing.T) {
	higher := candidate{key: graph.OutputKey{StageOrd: 5, Group: 0}}
	lower := candidate{key: graph.OutputKey{StageOrd: 1, Group: 9}}

	if !betterCandidate(higher, lower, 9, false) {
		t.Error("higher stage_number should win regardless of group_index")
	}
	if !betterCandidate(higher, lower, 9, true) {
		t.Error("higher stage_number should win regardless of commutative")
	}
}
