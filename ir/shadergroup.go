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

// ShaderGroup names one of the shader pipelines a graph takes part in
// (material, the particle passes, trail, temporary). A graph lists its
// groups in shader_groups, and each group's stage window
// (StagesForGroup) bounds which stages its nodes may use. It is distinct
// from a component's numeric group_index (instance.Component.Group).
type ShaderGroup int

const (
	Material ShaderGroup = iota
	ParticlesEmitter
	ParticlesUpdateGroup
	ParticlesPhysics
	Trail
	Temporary

	numShaderGroup
)

var shaderGroupNames = [numShaderGroup]string{
	Material:             "material",
	ParticlesEmitter:      "particles_emitter",
	ParticlesUpdateGroup:  "particles_update",
	ParticlesPhysics:      "particles_physics",
	Trail:                 "trail",
	Temporary:             "temporary",
}

func (g ShaderGroup) String() string {
	if g < 0 || int(g) >= len(shaderGroupNames) {
		return "unknown"
	}
	return shaderGroupNames[g]
}

// MainGroup lists the main shader groups: Material first (it owns vertex
// stages and the base pixel chain), then the particle groups. Merge does
// not consult this list; components merge in the order the caller
// passes them.
var MainGroup = []ShaderGroup{
	Material,
	ParticlesUpdateGroup,
	ParticlesEmitter,
	ParticlesPhysics,
}

// OptGroup lists the optional shader groups that CompatibleOptGroups
// pairs with a main group. Merge does not consult this list.
var OptGroup = []ShaderGroup{
	Trail,
	ParticlesPhysics,
	Temporary,
}

// CompatibleOptGroups reports which OptGroup entries may be merged
// alongside main. A Trail merge excludes the particle groups (a trail
// renders its own vertex stream, not the particle system's), matching the
// reference engine's EffectGraph::Merge group gating.
func CompatibleOptGroups(main ShaderGroup) []ShaderGroup {
	switch main {
	case Material:
		return []ShaderGroup{Trail, ParticlesPhysics, Temporary}
	case ParticlesUpdateGroup, ParticlesEmitter, ParticlesPhysics:
		return []ShaderGroup{Temporary}
	default:
		return nil
	}
}

// stagesForGroup restricts which Stage values a group's nodes may
// legitimately occupy; used to validate authored graphs (spec §4.4,
// "every node declares the stage it executes in").
var stagesForGroup = map[ShaderGroup][2]Stage{
	Material:             {VertexInit, PixelOutputFinal + 1},
	ParticlesEmitter:      {ParticlesSetup, ParticlesEmitCalc + 1},
	ParticlesUpdateGroup:  {ParticlesUpdateInit, ParticlesIntegrate + 1},
	ParticlesPhysics:      {ParticlesPhysicInit, ParticlesCollisionCalc + 1},
	Trail:                 {VertexInit, PixelOutputFinal + 1},
	Temporary:             {VertexInit, ComputeStageEnd},
}

// StagesForGroup returns g's valid [begin, end) stage window.
func StagesForGroup(g ShaderGroup) (begin, end Stage) {
	w, ok := stagesForGroup[g]
	if !ok {
		return VertexInit, NumStage
	}
	return w[0], w[1]
}
