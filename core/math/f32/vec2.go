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

package f32

// Vec2 is a two element vector of float32.
// The elements are in the order X, Y.
type Vec2 [2]float32

// SqrMagnitude returns the squared magnitude of the vector.
func (v Vec2) SqrMagnitude() float32 {
	return v[0]*v[0] + v[1]*v[1]
}

// Magnitude returns the magnitude of the vector.
func (v Vec2) Magnitude() float32 {
	return Sqrt(v.SqrMagnitude())
}

// Scale returns the element-wise scaling of v with s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

// Normalize returns the normalized vector of v.
func (v Vec2) Normalize() Vec2 {
	return v.Scale(1.0 / v.Magnitude())
}

// Z returns a Vec3 with the first two elements set to v and the third set
// to z.
func (v Vec2) Z(z float32) Vec3 {
	return Vec3{v[0], v[1], z}
}

// Add2D returns the element-wise addition of vector a and b.
func Add2D(a, b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

// Sub2D returns the element-wise subtraction of vector b from a.
func Sub2D(a, b Vec2) Vec2 {
	return Vec2{a[0] - b[0], a[1] - b[1]}
}
