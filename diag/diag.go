// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package diag is the thin facade the core uses to reach the outer
// diagnostics subsystem. Per spec.md §1, the textual source-position and
// diagnostic subsystems are external collaborators: the core only ever
// consumes a Sink through this interface, and never constructs one
// itself.
package diag

import "github.com/blackdragoon26/p4c-ir/ir"

// Kind identifies a warning class, gated independently by the enclosing
// source annotations (e.g. a `@noWarn("unused")` style annotation in the
// original), which is itself something WarningEnabled asks the Sink
// about rather than the core deciding on its own.
type Kind int

// Sink is implemented by whatever diagnostics collaborator the host
// program wires in; the core never does more than call these two
// methods.
type Sink interface {
	// WarningEnabled reports whether warnings of kind are enabled at
	// the source position associated with n (or globally, if the Sink
	// does not track positions for n's concrete type).
	WarningEnabled(kind Kind, n ir.Node) bool

	// Warnf records a formatted warning associated with n. The core
	// never aborts because of it; diagnostics never interrupt a
	// traversal (spec.md §7).
	Warnf(kind Kind, n ir.Node, format string, args ...interface{})
}

// Discard is a Sink that enables every warning kind and drops every
// message, useful as a default when a caller has not wired a real
// diagnostics collaborator and a traversal core holding a nil Sink
// would otherwise panic.
var Discard Sink = discard{}

type discard struct{}

func (discard) WarningEnabled(Kind, ir.Node) bool                    { return true }
func (discard) Warnf(Kind, ir.Node, string, ...interface{})          {}
