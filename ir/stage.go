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

package ir

// Stage enumerates the fixed pipeline timeline a node can occupy, in
// declared order (Stage comparisons, per spec, are by this order). The
// list is carried verbatim from the reference engine's
// Renderer::DrawCalls::Stage enum.
type Stage int

const (
	VertexInit Stage = iota
	Animation
	LocalTransform
	LocalTransformCalc
	LocalTransformFinal
	WorldTransformInit
	WorldTransform
	WorldTransformCalc
	WorldTransformFinal
	ProjectionTransform
	ProjectionTransformCalc
	ProjectionTransformFinal
	VertexOutput
	VertexOutputCalc
	VertexOutputFinal
	VertexOutputPass

	VertexToPixel
	PixelInit
	UVSetup
	UVSetupCalc
	UVSetupFinal
	TexturingInit
	Texturing
	TexturingCalc
	TexturingFinal
	PreLighting
	PreLightingCalc
	PreLightingFinal
	AlphaClip
	Lighting
	LightingCalc
	LightingFinal
	CustomLighting
	CustomLightingCalc
	CustomLightingFinal
	LightingEnd
	LightingEndCalc
	LightingEndFinal
	PostLighting
	PostLightingCalc
	PostLightingFinal
	FogStage
	FogStageCalc
	FogStageFinal
	PixelOutput
	PixelOutputCalc
	PixelOutputFinal

	ComputeInit

	ParticlesSetup
	ParticlesLifetimeInit
	ParticlesLifetime
	ParticlesLifetimeCalc
	ParticlesEmitInit
	ParticlesEmit
	ParticlesEmitCalc
	ParticlesUpdateInit
	ParticlesUpdate
	ParticlesUpdateCalc
	ParticlesPhysicInit
	ParticlesPhysic
	ParticlesPhysicCalc
	ParticlesIntegrate
	ParticlesPostIntegrate
	ParticlesCollision
	ParticlesCollisionCalc
	ParticlesWrite
	ParticlesWriteFinal

	NumStage
)

// The stage windows used to decide which shader (VS/PS/CS) a node belongs
// to, and (VertexStageBegin..VertexStageEnd etc) which group-index
// collapsing rule (spec §4.5.3) and ShaderGroup table (below) apply.
const (
	VertexStageBegin  = VertexInit
	VertexStageEnd    = VertexToPixel
	PixelStageBegin   = VertexToPixel
	PixelStageEnd     = ComputeInit
	ComputeStageBegin = ComputeInit
	ComputeStageEnd   = NumStage

	// TexturingWindowBegin..TexturingWindowEnd bound the "texturing
	// pipeline window" referenced by spec §4.5.3: only stages in this
	// window preserve an authored group_index across merge; every other
	// stage collapses to group 0.
	TexturingWindowBegin = UVSetup
	TexturingWindowEnd   = TexturingInit

	// MaxGroupIndex bounds the valid group indices a graph reference may
	// request.
	MaxGroupIndex = 4
)

var stageNames = [...]string{
	"VertexInit", "Animation", "LocalTransform", "LocalTransform_Calc",
	"LocalTransform_Final", "WorldTransform_Init", "WorldTransform",
	"WorldTransform_Calc", "WorldTransform_Final", "ProjectionTransform",
	"ProjectionTransform_Calc", "ProjectionTransform_Final", "VertexOutput",
	"VertexOutput_Calc", "VertexOutput_Final", "VertexOutput_Pass",
	"VertexToPixel", "PixelInit", "UVSetup", "UVSetup_Calc", "UVSetup_Final",
	"Texturing_Init", "Texturing", "Texturing_Calc", "Texturing_Final",
	"PreLighting", "PreLighting_Calc", "PreLighting_Final", "AlphaClip",
	"Lighting", "Lighting_Calc", "Lighting_Final", "CustomLighting",
	"CustomLighting_Calc", "CustomLighting_Final", "LightingEnd",
	"LightingEnd_Calc", "LightingEnd_Final", "PostLighting",
	"PostLighting_Calc", "PostLighting_Final", "FogStage", "FogStage_Calc",
	"FogStage_Final", "PixelOutput", "PixelOutput_Calc", "PixelOutput_Final",
	"ComputeInit", "ParticlesSetup", "ParticlesLifetimeInit",
	"ParticlesLifetime", "ParticlesLifetimeCalc", "ParticlesEmitInit",
	"ParticlesEmit", "ParticlesEmitCalc", "ParticlesUpdateInit",
	"ParticlesUpdate", "ParticlesUpdateCalc", "ParticlesPhysicInit",
	"ParticlesPhysic", "ParticlesPhysicCalc", "ParticlesIntegrate",
	"ParticlesPostIntegrate", "ParticlesCollision", "ParticlesCollisionCalc",
	"ParticlesWrite", "ParticlesWriteFinal",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "NumStage"
	}
	return stageNames[s]
}

// StageFromString looks up a Stage by its canonical name, or ok=false.
func StageFromString(s string) (Stage, bool) {
	for i, n := range stageNames {
		if n == s {
			return Stage(i), true
		}
	}
	return 0, false
}

// IsVertexStage reports whether s belongs to the vertex-shader window.
func IsVertexStage(s Stage) bool { return s >= VertexStageBegin && s < VertexStageEnd }

// IsPixelStage reports whether s belongs to the pixel-shader window.
func IsPixelStage(s Stage) bool { return s >= PixelStageBegin && s < PixelStageEnd }

// IsComputeStage reports whether s belongs to the compute-shader window.
func IsComputeStage(s Stage) bool { return s >= ComputeStageBegin && s < ComputeStageEnd }

// IsTexturingWindow reports whether s is inside the group-index-preserving
// window used by the group-index collapsing rule (spec §4.5.3).
func IsTexturingWindow(s Stage) bool { return s >= TexturingWindowBegin && s <= TexturingWindowEnd }

// GroupIndexForStage implements spec §4.5.3: only stages within the
// texturing pipeline window preserve the authored group index; all other
// stages force group index 0. It does not clamp requested against
// MaxGroupIndex: the reference engine's GetGroupIndexByStage never does
// either, leaving out-of-range group indices to the caller that
// authored them.
func GroupIndexForStage(requested uint32, s Stage) uint32 {
	if !IsTexturingWindow(s) {
		return 0
	}
	return requested
}
