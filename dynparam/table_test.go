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

package dynparam_test

import (
	"testing"

	"github.com/htrie/vin-sub006/dynparam"
	"github.com/htrie/vin-sub006/ident"
	"github.com/htrie/vin-sub006/ir"
)

func TestRegisterAndLookup(t *testing.T) {
	tbl := dynparam.NewTable()
	if err := tbl.Register("time_of_day", ir.Float, dynparam.CacheData, nil); err != nil {
		t.Fatal(err)
	}

	key := uint32(ident.HashName("time_of_day"))
	e, ok := tbl.Lookup(key)
	if !ok {
		t.Fatal("expected entry to be found")
	}
	if e.Name != "time_of_day" || e.Type != ir.Float || e.Flags != dynparam.CacheData {
		t.Errorf("got %+v, want name=time_of_day type=Float flags=CacheData", e)
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	tbl := dynparam.NewTable()
	if err := tbl.Register("foo", ir.Bool, 0, nil); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Register("foo", ir.Bool, 0, nil); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestFreezeRejectsFurtherRegistration(t *testing.T) {
	tbl := dynparam.NewTable()
	tbl.Freeze()
	if err := tbl.Register("foo", ir.Bool, 0, nil); err == nil {
		t.Error("expected Register after Freeze to fail")
	}
}

func TestKeysPreservesRegistrationOrder(t *testing.T) {
	tbl := dynparam.NewTable()
	names := []string{"a", "b", "c"}
	for _, n := range names {
		if err := tbl.Register(n, ir.Bool, 0, nil); err != nil {
			t.Fatal(err)
		}
	}
	keys := tbl.Keys()
	if len(keys) != 3 {
		t.Fatalf("got %d keys, want 3", len(keys))
	}
	for i, n := range names {
		if keys[i] != uint32(ident.HashName(n)) {
			t.Errorf("Keys()[%d] = %d, want hash of %q", i, keys[i], n)
		}
	}
}
