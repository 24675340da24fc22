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

package f32_test

import (
	"testing"

	"github.com/htrie/vin-sub006/core/math/f32"
)

func TestIdentity4MulVec4(t *testing.T) {
	v := f32.Vec4{1, 2, 3, 4}
	if got := f32.Identity4().MulVec4(v); got != v {
		t.Errorf("Identity4().MulVec4(%v) = %v, want %v", v, got, v)
	}
}

func TestMul4Identity(t *testing.T) {
	m := f32.Mat4{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{13, 14, 15, 16},
	}
	if got := f32.Mul4(m, f32.Identity4()); got != m {
		t.Errorf("Mul4(m, Identity4()) = %v, want %v", got, m)
	}
}

func TestTranspose(t *testing.T) {
	m := f32.Mat4{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{13, 14, 15, 16},
	}
	want := f32.Mat4{
		{1, 5, 9, 13},
		{2, 6, 10, 14},
		{3, 7, 11, 15},
		{4, 8, 12, 16},
	}
	if got := m.Transpose(); got != want {
		t.Errorf("Transpose() = %v, want %v", got, want)
	}
}

func TestVec2Normalize(t *testing.T) {
	for _, test := range []struct {
		v f32.Vec2
		r f32.Vec2
	}{
		{f32.Vec2{3, 0}, f32.Vec2{1, 0}},
		{f32.Vec2{0, -2}, f32.Vec2{0, -1}},
	} {
		if got := test.v.Normalize(); got != test.r {
			t.Errorf("%v.Normalize() = %v, want %v", test.v, got, test.r)
		}
	}
}
