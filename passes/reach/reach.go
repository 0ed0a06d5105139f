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

// Package reach is a demo ControlFlowVisitor: a reaching-constant-value
// analysis over sampleir, tracking for each assigned name whether every
// path so far has produced the same literal value (Known) or whether
// paths disagree (unknown, the lattice's top). It exists to exercise
// the visit package's join-merge protocol and loop-fixpoint iteration
// end to end, not as a generally useful analysis.
package reach

import (
	"context"
	"reflect"

	"github.com/blackdragoon26/p4c-ir/ir"
	"github.com/blackdragoon26/p4c-ir/sampleir"
	"github.com/blackdragoon26/p4c-ir/visit"
)

// Value is one lattice element: Known reports whether every path
// reaching this point agreed on a single literal; Val holds that
// literal (a bool or int64) when Known is true. The zero Value is top
// (no agreement, or no information yet).
type Value struct {
	Known bool
	Val   interface{}
}

func meet(a, b Value) Value {
	if !a.Known || !b.Known {
		return Value{}
	}
	if a.Val == b.Val {
		return a
	}
	return Value{}
}

// maxFixpointIterations bounds visit.FlowLoopClosure's iteration of a
// loop body below; sampleir has no structural cycles for the engine's
// own LoopRevisit to catch (a Loop's Body is an ordinary tree child,
// not a node shared with an ancestor), so Reach instead drives the
// loop-closure protocol of spec.md §4.5 itself, through FlowMergeClosure.
const maxFixpointIterations = 8

// Reach is the concrete ControlFlowVisitor.
type Reach struct {
	visit.BaseControlFlow

	State map[string]Value

	// Iterations records, per *sampleir.Loop node last analyzed, how
	// many fixpoint passes its body took to stabilize — exported for
	// tests; cmd/irtrace does not print it.
	Iterations map[ir.Node]int
}

// New returns a Reach ready to run, with join detection enabled.
func New() *Reach {
	r := &Reach{
		BaseControlFlow: visit.NewBaseControlFlow(),
		State:           map[string]Value{},
		Iterations:      map[ir.Node]int{},
	}
	r.InitControlFlow(r)
	r.SetJoinFlows(true)
	r.SetName("Reach")
	return r
}

func cloneState(m map[string]Value) map[string]Value {
	out := make(map[string]Value, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// FlowClone forks an independent copy of the lattice state; unlike
// BaseControlFlow's globals map and join-point table (shared by
// reference across clones, see controlflow.go), State must diverge per
// branch, so it is deep-copied here.
func (r *Reach) FlowClone() visit.Visitor {
	clone := &Reach{
		BaseControlFlow: r.BaseControlFlow,
		State:           cloneState(r.State),
		Iterations:      r.Iterations,
	}
	clone.InitControlFlow(clone)
	return clone
}

// FlowMerge folds other's lattice state into r's via the meet operator,
// the dataflow join spec.md §4.5 hands off to the pass itself.
func (r *Reach) FlowMerge(other visit.Visitor) {
	o := other.(*Reach)
	for k, v := range o.State {
		if cur, ok := r.State[k]; ok {
			r.State[k] = meet(cur, v)
		} else {
			r.State[k] = Value{} // seen on one path only: top
		}
	}
	for k := range r.State {
		if _, ok := o.State[k]; !ok {
			r.State[k] = Value{}
		}
	}
}

// FlowCopy replaces r's state with other's, called once a join point's
// final predecessor has arrived and every contribution is folded in.
func (r *Reach) FlowCopy(other visit.ControlFlowVisitor) {
	r.State = cloneState(other.(*Reach).State)
}

// FlowMergeClosure implements the loop-closure protocol of spec.md
// §4.5: other is the state produced by one pass over a loop's body;
// fold it into r's own state and report whether that changed anything.
// A key r has not seen before adopts other's value outright (the loop
// has not yet run long enough to say anything about it); a key both
// have seen is widened with meet, same as an ordinary branch join.
func (r *Reach) FlowMergeClosure(other visit.Visitor) bool {
	o := other.(*Reach)
	before := r.State
	next := make(map[string]Value, len(before)+len(o.State))
	for k, v := range o.State {
		if prev, ok := before[k]; ok {
			next[k] = meet(prev, v)
		} else {
			next[k] = v
		}
	}
	for k, v := range before {
		if _, ok := o.State[k]; !ok {
			next[k] = v
		}
	}
	r.State = next
	return !reflect.DeepEqual(before, r.State)
}

func (r *Reach) Preorder(ctx *ir.Context, n ir.Node) bool {
	loop, ok := ir.As[*sampleir.Loop](n)
	if !ok {
		return true
	}
	iterations, trig := visit.FlowLoopClosure(context.Background(), r, ctx, loop.Body, maxFixpointIterations)
	if trig != nil {
		visit.Raise(trig)
	}
	r.Iterations[loop] = iterations
	return false // body already analyzed above; skip the engine's own descent
}

func (r *Reach) Postorder(ctx *ir.Context, n ir.Node) {
	assign, ok := ir.As[*sampleir.Assign](n)
	if !ok {
		return
	}
	if lit, ok := ir.As[*sampleir.Lit](assign.Value); ok {
		r.State[assign.Target] = Value{Known: true, Val: lit.Value}
	} else {
		r.State[assign.Target] = Value{}
	}
}

// Run constructs a Reach, applies it to root, and returns it so callers
// can inspect the final State.
func Run(goCtx context.Context, root ir.Node) (*Reach, visit.Trigger) {
	r := New()
	trig := visit.InspectApply(goCtx, r, nil, root)
	return r, trig
}
