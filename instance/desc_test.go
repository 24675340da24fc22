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

package instance_test

import (
	"testing"

	"github.com/htrie/vin-sub006/instance"
)

func TestNewDescAssignsDistinctTweakIDs(t *testing.T) {
	a := instance.NewDesc("foo.fxgraph")
	b := instance.NewDesc("foo.fxgraph")
	if a.TweakID == b.TweakID {
		t.Error("two Descs for the same file got the same TweakID")
	}
}

func TestNewDescInitializesParamMap(t *testing.T) {
	d := instance.NewDesc("foo.fxgraph")
	if d.Params == nil {
		t.Error("Params map was not initialized")
	}
}
