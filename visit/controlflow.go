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

package visit

import (
	"context"

	"github.com/blackdragoon26/p4c-ir/ir"
)

// ControlFlowVisitor is an Inspector that additionally tracks a
// dataflow lattice value across control-flow joins and loops (join
// detection currently only works for inspectors, matching the
// original). Concrete passes must implement FlowClone, FlowMerge, and
// FlowCopy themselves: Go has no way for BaseControlFlow to copy-
// construct an embedding struct it knows nothing about, so this is the
// one piece of boilerplate every control-flow pass writes by hand,
// mirroring the original's pure-virtual clone()/flow_merge()/flow_copy().
type ControlFlowVisitor interface {
	Inspector
	FlowCloner
	FlowMerger
	// FlowCopy replaces this visitor's lattice state with other's,
	// called on the final arrival at a join point once other (the
	// accumulator) has absorbed every predecessor.
	FlowCopy(other ControlFlowVisitor)
	// FlowMergeClosure folds one loop-body pass's result into this
	// visitor's own state and reports whether the state is still
	// widening: true means another pass over the body is needed, false
	// means the fixpoint has been reached. The default (BaseControlFlow)
	// is fatal, since a pass must opt in explicitly to support loops.
	FlowMergeClosure(other Visitor) bool
	SetUnreachable()
	IsUnreachable() bool
}

// joinInfo is one join-point table entry: node-identity to
// {accumulator, remaining, done} per spec.md's data model.
type joinInfo struct {
	vclone  ControlFlowVisitor
	extra   int // incoming edges beyond the first, from SetupJoinPoints
	arrived int // arrivals seen so far this traversal, including the first
	done    bool
}

// BaseControlFlow supplies the join-point table, the globals map, and
// the unreachable flag; it embeds BaseInspector so a concrete pass gets
// both Inspector's hooks and this machinery from one embed. self must
// be set via InitControlFlow before the first apply (concrete pass
// constructors call it once after constructing their own zero value).
type BaseControlFlow struct {
	BaseInspector

	self ControlFlowVisitor

	unreachable bool

	joinFlowsOn     bool
	filterJoinPoint func(ir.Node) bool
	flowJoinPoints  map[ir.Node]*joinInfo

	globals map[string]ControlFlowVisitor
}

// NewBaseControlFlow returns a zero-value BaseControlFlow with its
// globals map allocated; flow-clones share this map by copying the
// reference, exactly as the original's shared_ptr<map> does.
func NewBaseControlFlow() BaseControlFlow {
	return BaseControlFlow{
		BaseInspector: NewBaseInspector(),
		globals:       map[string]ControlFlowVisitor{},
	}
}

// InitControlFlow records self, the concrete pass embedding this
// BaseControlFlow, so the join machinery can clone and merge it without
// needing Go to support dispatching back to a derived type from a base
// method. Call once, immediately after constructing the concrete pass.
func (b *BaseControlFlow) InitControlFlow(self ControlFlowVisitor) { b.self = self }

// SetJoinFlows turns on join-point detection for this visitor (off by
// default, matching the original's protected joinFlows field).
func (b *BaseControlFlow) SetJoinFlows(enabled bool) { b.joinFlowsOn = enabled }

func (b *BaseControlFlow) joinFlowsPolicy() bool { return b.joinFlowsOn }

// SetFilterJoinPoint overrides which nodes with multiple incoming edges
// are nonetheless not treated as join points (default: none filtered).
func (b *BaseControlFlow) SetFilterJoinPoint(f func(ir.Node) bool) { b.filterJoinPoint = f }

func (b *BaseControlFlow) filtersOut(n ir.Node) bool {
	return b.filterJoinPoint != nil && b.filterJoinPoint(n)
}

func (b *BaseControlFlow) SetUnreachable() { b.unreachable = true }
func (b *BaseControlFlow) IsUnreachable() bool { return b.unreachable }

// HasFlowJoins reports whether ensureJoinFlows has set up a join-point
// table for the traversal currently (or most recently) in progress.
func (b *BaseControlFlow) HasFlowJoins() bool { return b.flowJoinPoints != nil }

// setupJoinPoints is a throwaway Inspector that computes in-degree for
// every node reachable from root: preorder registers a fresh entry,
// revisit (fired by the engine's own visit-once dedup on a later
// encounter of a shared node) bumps its extra-incoming-edges count.
type setupJoinPoints struct {
	BaseInspector
	points map[ir.Node]*joinInfo
}

func newSetupJoinPoints(points map[ir.Node]*joinInfo) *setupJoinPoints {
	s := &setupJoinPoints{BaseInspector: NewBaseInspector(), points: points}
	s.SetName("setupJoinPoints")
	return s
}

func (s *setupJoinPoints) Preorder(ctx *ir.Context, n ir.Node) bool {
	if _, exists := s.points[n]; exists {
		bug(s.Name(), "node registered twice without going through revisit")
	}
	s.points[n] = &joinInfo{}
	return true
}

func (s *setupJoinPoints) Revisit(ctx *ir.Context, n ir.Node) {
	s.points[n].extra++
}

// ensureJoinFlows computes the join-point table for a traversal about to
// start at root. spec.md §4.5 runs this setup phase before every main
// traversal, not once per visitor lifetime: InspectApply calls it at
// the start of every apply, so it always recomputes the table fresh
// here, discarding whatever the previous apply left behind. A pass that
// calls InspectApply on the same receiver more than once (e.g. to
// iterate a loop body to fixpoint) would otherwise see the prior
// traversal's joinInfo entries — vclone, arrived, done — still sitting
// in the table, misclassifying a join point's first arrival in the new
// traversal as a later one. Flow clones created mid-traversal to absorb
// a join (see JoinFlows) never call InspectApply themselves, so they
// never trigger a recompute; they legitimately share the in-progress
// table by copying BaseControlFlow's map field.
func (b *BaseControlFlow) ensureJoinFlows(goCtx context.Context, root ir.Node) {
	points := map[ir.Node]*joinInfo{}
	InspectApply(goCtx, newSetupJoinPoints(points), nil, root)
	b.flowJoinPoints = points
}

// JoinFlows implements the arrival protocol of §4.5: it reports whether
// visiting n must be deferred until every predecessor has been folded
// into the stashed accumulator.
func (b *BaseControlFlow) JoinFlows(n ir.Node) bool {
	if b.flowJoinPoints == nil {
		return false
	}
	info, ok := b.flowJoinPoints[n]
	if !ok || info.extra == 0 || b.filtersOut(n) {
		return false
	}
	if info.vclone == nil {
		// First arrival: stash a clone, decrement remaining by starting
		// the arrival count at 1, and defer.
		info.vclone = flowClone(b.self).(ControlFlowVisitor)
		info.arrived = 1
		return true
	}
	info.arrived++
	if info.arrived <= info.extra {
		// Neither first nor last: fold this visitor into the stashed
		// accumulator and defer.
		info.vclone.FlowMerge(b.self)
		return true
	}
	// Last arrival: fold this visitor into the accumulator, then adopt
	// the accumulator's (now fully merged) state as our own and proceed.
	info.vclone.FlowMerge(b.self)
	b.self.FlowCopy(info.vclone)
	info.done = true
	return false
}

// PostJoinFlows releases bookkeeping for n once it has been visited
// after a completed join; the default has nothing to release.
func (b *BaseControlFlow) PostJoinFlows(n, orig ir.Node) {}

// FlowMergeClosure is the default loop-closure hook (spec.md §4.5): a
// pass that never overrides it does not analyze loops, so reaching it
// is always a bug, matching the original's fatal default.
func (b *BaseControlFlow) FlowMergeClosure(other Visitor) bool {
	bug(b.self.Name(), "flow_merge_closure not implemented for this pass")
	return false
}

// FlowLoopClosure drives the loop-closure protocol of spec.md §4.5 for
// a pass that has overridden FlowMergeClosure: it repeatedly applies a
// fresh flow-clone of v over body and folds each pass's result back
// into v via FlowMergeClosure, stopping as soon as that reports the
// state has stopped widening. maxIterations is a fatal backstop — a
// FlowMergeClosure that never returns false is a bug in the pass, not a
// traversal this helper should run forever.
func FlowLoopClosure(goCtx context.Context, v ControlFlowVisitor, parent *ir.Context, body ir.Node, maxIterations int) (iterations int, trig Trigger) {
	for i := 0; i < maxIterations; i++ {
		iterations++
		pass := flowClone(v).(ControlFlowVisitor)
		if t := InspectApply(goCtx, pass, parent, body); t != nil {
			return iterations, t
		}
		if !v.FlowMergeClosure(pass) {
			return iterations, nil
		}
	}
	bug(v.Name(), "flow_merge_closure did not reach a fixpoint within the iteration bound")
	return iterations, nil
}

// FlowMergeGlobalTo publishes the current visitor state into globals[key],
// merging with whatever was already published there.
func (b *BaseControlFlow) FlowMergeGlobalTo(key string) {
	if other, ok := b.globals[key]; ok {
		other.FlowMerge(b.self)
	} else {
		b.globals[key] = flowClone(b.self).(ControlFlowVisitor)
	}
}

// FlowMergeGlobalFrom folds globals[key] (if present) into the current
// visitor state.
func (b *BaseControlFlow) FlowMergeGlobalFrom(key string) {
	if other, ok := b.globals[key]; ok {
		b.self.FlowMerge(other)
	}
}

func (b *BaseControlFlow) EraseGlobal(key string) { delete(b.globals, key) }
func (b *BaseControlFlow) CheckGlobal(key string) bool {
	_, ok := b.globals[key]
	return ok
}
func (b *BaseControlFlow) ClearGlobals() { b.globals = map[string]ControlFlowVisitor{} }

// SavedGlobal is what SaveGlobal returns: the binding to restore.
type SavedGlobal struct {
	key string
	cfv ControlFlowVisitor
}

func (b *BaseControlFlow) saveGlobal(key string) SavedGlobal {
	cfv := b.globals[key]
	delete(b.globals, key)
	return SavedGlobal{key: key, cfv: cfv}
}

func (b *BaseControlFlow) restoreGlobal(s SavedGlobal) {
	delete(b.globals, s.key)
	if s.cfv != nil {
		b.globals[s.key] = s.cfv
	}
}

// SaveGlobals captures and removes the current bindings for keys, and
// returns a release function that restores them in reverse order — the
// Go value-type realization of the original's SaveGlobal RAII guard.
// Call the release function via defer immediately.
func (b *BaseControlFlow) SaveGlobals(keys ...string) func() {
	saved := make([]SavedGlobal, len(keys))
	for i, k := range keys {
		saved[i] = b.saveGlobal(k)
	}
	return func() {
		for i := len(saved) - 1; i >= 0; i-- {
			b.restoreGlobal(saved[i])
		}
	}
}

// GuardGlobal asserts key is not already in use and returns a release
// function that erases it — the Go value-type realization of the
// original's GuardGlobal RAII guard. Call the release function via
// defer immediately; the caller is responsible for publishing into key
// (typically via FlowMergeGlobalTo) during the guarded scope.
func (b *BaseControlFlow) GuardGlobal(key string) func() {
	if b.CheckGlobal(key) {
		bug(b.self.Name(), "control-flow global "+key+" already in use")
	}
	return func() { b.EraseGlobal(key) }
}
