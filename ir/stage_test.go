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

package ir_test

import (
	"testing"

	"github.com/htrie/vin-sub006/ir"
)

func TestStageWindowsPartitionTheTimeline(t *testing.T) {
	if ir.VertexStageEnd != ir.PixelStageBegin {
		t.Errorf("vertex/pixel windows are not contiguous: %v != %v", ir.VertexStageEnd, ir.PixelStageBegin)
	}
	if ir.PixelStageEnd != ir.ComputeStageBegin {
		t.Errorf("pixel/compute windows are not contiguous: %v != %v", ir.PixelStageEnd, ir.ComputeStageBegin)
	}
	if ir.ComputeStageEnd != ir.NumStage {
		t.Errorf("compute window does not reach NumStage: %v != %v", ir.ComputeStageEnd, ir.NumStage)
	}
}

func TestStageClassification(t *testing.T) {
	if !ir.IsVertexStage(ir.VertexInit) {
		t.Error("VertexInit should be a vertex stage")
	}
	if !ir.IsPixelStage(ir.Texturing) {
		t.Error("Texturing should be a pixel stage")
	}
	if !ir.IsComputeStage(ir.ParticlesUpdate) {
		t.Error("ParticlesUpdate should be a compute stage")
	}
	if ir.IsPixelStage(ir.VertexInit) {
		t.Error("VertexInit should not be a pixel stage")
	}
}

func TestStageStringRoundTrip(t *testing.T) {
	for s := ir.VertexInit; s < ir.NumStage; s++ {
		name := s.String()
		if name == "" {
			t.Fatalf("Stage %d has no name", s)
		}
		got, ok := ir.StageFromString(name)
		if !ok || got != s {
			t.Errorf("StageFromString(%q) = %v, %v, want %v, true", name, got, ok, s)
		}
	}
}

func TestGroupIndexForStageCollapsesOutsideTexturingWindow(t *testing.T) {
	if got := ir.GroupIndexForStage(3, ir.VertexInit); got != 0 {
		t.Errorf("GroupIndexForStage outside window = %d, want 0", got)
	}
	if got := ir.GroupIndexForStage(3, ir.Texturing); got != 0 {
		t.Errorf("GroupIndexForStage past TexturingInit = %d, want 0", got)
	}
	if got := ir.GroupIndexForStage(3, ir.UVSetupCalc); got != 3 {
		t.Errorf("GroupIndexForStage inside window = %d, want 3", got)
	}
	if got := ir.GroupIndexForStage(99, ir.TexturingInit); got != 99 {
		t.Errorf("GroupIndexForStage does not clamp, got %d, want 99", got)
	}
}
