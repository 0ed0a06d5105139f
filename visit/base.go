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

// Package visit is the traversal engine: it implements Inspector,
// Modifier, and Transform over the abstract ir.Node protocol, with
// visit-once deduplication, change tracking, control-flow join merging,
// split-flow scheduling, and backtracking triggers.
package visit

import "github.com/blackdragoon26/p4c-ir/ir"

// Visitor is the common surface every Inspector, Modifier, and Transform
// exposes: naming (used for profiling and diagnostics) and the
// called-by chain used to relate a visitor spawned from inside another
// visit back to its caller, for diagnostics.
//
// core is unexported and satisfied only by embedding Base: it is how
// the engine reaches a pass's shared bookkeeping (the active context
// frame, split-flow link, visit-once policy) no matter which package
// defines the concrete pass. A type cannot implement Visitor without
// embedding Base.
type Visitor interface {
	Name() string
	SetName(name string)
	CalledBy() Visitor
	SetCalledBy(v Visitor)

	core() *Base
}

// Base is embedded by every concrete pass (directly, or indirectly via
// BaseInspector/BaseModifier/BaseTransform/BaseControlFlow) to supply
// the Visitor methods and the engine's internal bookkeeping.
type Base struct {
	name     string
	calledBy Visitor

	// ctxt is the context frame for the node currently being visited;
	// valid only while a preorder/postorder/VisitChildren call for that
	// node is on the stack, mirroring the original's private ctxt
	// field ("should be readonly to subclasses").
	ctxt *ir.Context

	// splitLink chains the active split-flow schedulers so a nested
	// compound node's scheduler can find (and pause/resume through) an
	// enclosing one; see splitflow.go.
	splitLink *splitFlowBase

	visitDagOnce  bool
	forceClone    bool
	forgetCurrent bool
}

// NewBase initializes a Base with the default visit-once policy. Every
// BaseInspector/BaseModifier/BaseTransform/BaseControlFlow constructor
// calls this; passes composing their own visitor from scratch should too.
func NewBase() Base {
	return Base{visitDagOnce: true}
}

func (b *Base) core() *Base { return b }

// Name returns the name set via SetName, or "Visitor" if none was set.
// Concrete passes conventionally call SetName in their constructor, the
// Go-idiomatic replacement for the original's typeid-based demangling,
// which has no equivalent without reflecting on the embedding struct.
func (b *Base) Name() string {
	if b.name == "" {
		return "Visitor"
	}
	return b.name
}

// SetName overrides the name reported by Name and used as the
// profiling record's label.
func (b *Base) SetName(name string) { b.name = name }

// CalledBy returns the visitor that spawned this one via InspectNested,
// ModifyNested or TransformNested, or nil for a top-level apply.
func (b *Base) CalledBy() Visitor { return b.calledBy }

// SetCalledBy records the spawning visitor; InspectNested, ModifyNested
// and TransformNested call this automatically.
func (b *Base) SetCalledBy(v Visitor) { b.calledBy = v }

// Context returns the context frame for the node currently being
// visited. It is only meaningful while called from within (or below)
// a preorder/postorder callback.
func (b *Base) Context() *ir.Context { return b.ctxt }

// VisitOnce cancels a prior VisitAgain call for the current node within
// this apply (the default policy already visits every node once).
func (b *Base) VisitOnce() { b.forgetCurrent = false }

// VisitAgain requests that the current node (the one whose
// preorder/postorder is on the stack) not be marked done: a later
// encounter of the same node in this apply will be treated as a fresh
// visit rather than a revisit. Valid only from within preorder or
// postorder.
func (b *Base) VisitAgain() { b.forgetCurrent = true }

// SetVisitDagOnce controls whether this visitor treats the IR as a DAG
// to be visited once per node (the default, true) or re-descends into
// every occurrence of a shared node. Modifier/Transform passes that
// disable this accept responsibility for the divergence spec.md §4.3
// warns about (a DAG node cloned twice).
func (b *Base) SetVisitDagOnce(once bool) { b.visitDagOnce = once }

func (b *Base) visitOnceEnabled() bool { return b.visitDagOnce }

// SetForceClone forces Modifier/Transform to clone every node on the
// path to a change, even when a child turns out unchanged; Inspector
// ignores this.
func (b *Base) SetForceClone(force bool) { b.forceClone = force }

func (b *Base) forceCloneEnabled() bool { return b.forceClone }
