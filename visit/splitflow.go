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

import "github.com/blackdragoon26/p4c-ir/ir"

// FlowCloner is implemented by visitors that can fork into an
// independent flow instance (see ControlFlowVisitor). A SplitFlowVisit
// falls back to reusing the same visitor sequentially for every
// registered child when v does not implement it, matching the
// original's default flow_clone() returning *this.
type FlowCloner interface {
	FlowClone() Visitor
}

// FlowMerger is implemented by visitors that accumulate state across
// independently-visited flows (see ControlFlowVisitor). The default, for
// a visitor that does not implement it, is a no-op merge.
type FlowMerger interface {
	FlowMerge(other Visitor)
}

func flowClone(v Visitor) Visitor {
	if fc, ok := v.(FlowCloner); ok {
		return fc.FlowClone()
	}
	return v
}

func flowMerge(into, from Visitor) {
	if from == nil || from == into {
		return
	}
	if fm, ok := into.(FlowMerger); ok {
		fm.FlowMerge(from)
	}
}

// splitFlowBase is the coroutine-like scheduler behind SplitFlowVisit
// and SplitFlowVisitVector: a preorder or VisitChildren override
// instantiates one (stack-scoped, never heap-retained past Run) to
// record several children that need independent flow instances before
// being merged back, chaining through Base.splitLink so a nested
// compound node's own split-flow can find an enclosing one.
type splitFlowBase struct {
	v         Visitor
	prev      *splitFlowBase
	visitors  []Visitor
	visitNext int
	paused    bool
}

func pushSplitFlow(v Visitor) *splitFlowBase {
	b := v.core()
	sf := &splitFlowBase{v: v, prev: b.splitLink}
	b.splitLink = sf
	return sf
}

func (s *splitFlowBase) pop() { s.v.core().splitLink = s.prev }

func (s *splitFlowBase) finished() bool { return s.visitNext >= len(s.visitors) }

// Pause sets the scheduler's single paused flag and Unpause clears it;
// Ready reports whether there is a next flow to run and the flag is
// clear. Nothing in this package calls them, no exported API hands out
// the scheduler, and the Run methods below neither consult the flag nor
// reorder flows: they always run every registered flow in registration
// order.
func (s *splitFlowBase) Pause()      { s.paused = true }
func (s *splitFlowBase) Unpause()    { s.paused = false }
func (s *splitFlowBase) Ready() bool { return !s.finished() && !s.paused }

// SplitFlowVisit drives a set of independently flow-cloned children
// (e.g. the branches of a conditional reaching a common join point) and
// merges every clone's resulting flow state back into the original
// visitor once all of them have run. It is the Go realization of the
// original's SplitFlowVisit<N> template.
type SplitFlowVisit struct {
	sf       *splitFlowBase
	children []ir.Node
}

// NewSplitFlowVisit opens a split-flow scope for v.
func NewSplitFlowVisit(v Visitor) *SplitFlowVisit {
	return &SplitFlowVisit{sf: pushSplitFlow(v)}
}

// AddNode registers another child to be visited under its own flow
// clone. The first registered child reuses v itself (a single-child
// split-flow costs nothing extra); every later one gets flowClone(v).
// AddNode must not be called once Run has started.
func (s *SplitFlowVisit) AddNode(n ir.Node) {
	if s.sf.visitNext != 0 {
		bug(s.sf.v.Name(), "AddNode called on SplitFlowVisit after Run started")
	}
	visitor := s.sf.v
	if len(s.sf.visitors) > 0 {
		visitor = flowClone(s.sf.v)
	}
	s.sf.visitors = append(s.sf.visitors, visitor)
	s.children = append(s.children, n)
}

// Run visits every registered child with its dedicated flow clone via
// the caller-supplied visit function, merges every clone's flow state
// back into the original visitor, and releases the split-flow scope.
// visit is supplied by the caller (rather than fixed by this type)
// because each visitor flavor's apply entry point has a different
// signature; InspectApply/ModifyApply/TransformApply each close over
// themselves to satisfy it when descending into a registered child.
func (s *SplitFlowVisit) Run(visit func(v Visitor, n ir.Node) ir.Node) []ir.Node {
	defer s.sf.pop()
	results := make([]ir.Node, len(s.children))
	for !s.sf.finished() {
		idx := s.sf.visitNext
		s.sf.visitNext++
		results[idx] = visit(s.sf.visitors[idx], s.children[idx])
	}
	for _, cl := range s.sf.visitors {
		flowMerge(s.sf.v, cl)
	}
	return results
}

// SplitFlowVisitVector is SplitFlowVisit specialized for a whole vector
// child slot: one flow clone per element (the original's
// SplitFlowVisitVector<N>), with the same delete/splice-flatten
// splicing rule as an ordinary Transform vector slot.
type SplitFlowVisitVector struct {
	sf   *splitFlowBase
	orig []ir.Node
}

// NewSplitFlowVisitVector opens a split-flow scope over vec, one clone
// per element (the first element reuses v itself).
func NewSplitFlowVisitVector(v Visitor, vec []ir.Node) *SplitFlowVisitVector {
	sf := pushSplitFlow(v)
	if len(vec) > 0 {
		sf.visitors = append(sf.visitors, v)
	}
	for len(sf.visitors) < len(vec) {
		sf.visitors = append(sf.visitors, flowClone(v))
	}
	return &SplitFlowVisitVector{sf: sf, orig: vec}
}

// Run visits every element with its dedicated clone, merges flow state
// back into the original visitor, releases the scope, and returns the
// spliced replacement vector (see spliceVector).
func (s *SplitFlowVisitVector) Run(visit func(v Visitor, n ir.Node) ir.Node) []ir.Node {
	defer s.sf.pop()
	results := make([]ir.Node, len(s.orig))
	for !s.sf.finished() {
		idx := s.sf.visitNext
		s.sf.visitNext++
		results[idx] = visit(s.sf.visitors[idx], s.orig[idx])
	}
	for _, cl := range s.sf.visitors {
		flowMerge(s.sf.v, cl)
	}
	return spliceVector(s.orig, results)
}
