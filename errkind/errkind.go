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

// Package errkind holds the sentinel error values the compiler's
// components wrap and compare against, built on core/fault.Const.
package errkind

import (
	stderrors "errors"

	"github.com/pkg/errors"

	"github.com/htrie/vin-sub006/core/fault"
)

const (
	// ParseError wraps a malformed .ffx/.fxgraph/.matgraph file. It aborts
	// only the one file being parsed.
	ParseError = fault.Const("errkind: parse error")

	// RegistryMismatch means a name declared both by a fragment file and
	// by the DynamicParamTable carries a different type in each (see
	// TypeRegistry.SynthesizeDynamicNodeTypes). Fatal at startup.
	RegistryMismatch = fault.Const("errkind: registry mismatch")

	// InvariantViolation marks a condition the compiler's own algorithms
	// guarantee cannot happen (a producer missing from the merge's
	// replacement table during the post-order walk). It is raised by
	// panic, never returned directly; see AbortInvariant/Recover below.
	InvariantViolation = fault.Const("errkind: invariant violation")

	// MissingEndpoint means a graph reference named a group or node that
	// is absent from the loaded graph set. Logged, not escalated.
	MissingEndpoint = fault.Const("errkind: missing endpoint")

	// DisabledStage marks a node whose stage the caller's engine
	// configuration has turned off. Not an error: the node is dropped
	// from the merge silently.
	DisabledStage = fault.Const("errkind: disabled stage")
)

// AbortInvariant panics with an error wrapping InvariantViolation,
// annotated with msg. It is the only panic path in the module, reserved
// for conditions the merge algorithm's own invariants rule out
// (spec.md §7).
func AbortInvariant(msg string) {
	panic(errors.Wrap(InvariantViolation, msg))
}

// Recover turns an AbortInvariant panic in progress into a returned error
// assigned through errp, mirroring core/text/parse's AbortParse/recover
// pattern. It must be called directly from a deferred function:
//
//	func (m *merger) run() (err error) {
//	    defer errkind.Recover(&err)
//	    ...
//	}
//
// The recovered error satisfies errors.Is(err, InvariantViolation).
// Panics not raised by AbortInvariant are re-raised.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	if !ok || !stderrors.Is(err, InvariantViolation) {
		panic(r)
	}
	*errp = err
}
