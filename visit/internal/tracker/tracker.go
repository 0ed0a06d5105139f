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

// Package tracker implements the per-apply deduplication and
// change-tracking state used by the three visitor flavors: Inspector
// (visit-once dedup only) and Modifier/Transform (dedup plus the
// original-to-rewritten substitution map).
package tracker

import "github.com/blackdragoon26/p4c-ir/ir"

// Inspect is the read-only tracker: it only needs to know whether a node
// is currently being descended into (busy, i.e. an ancestor — a cycle)
// or has already been fully visited (done).
type Inspect struct {
	state map[ir.Node]inspectState
}

type inspectState int

const (
	notSeen inspectState = iota
	busy
	done
)

// NewInspect returns an empty tracker.
func NewInspect() *Inspect { return &Inspect{state: map[ir.Node]inspectState{}} }

// Status reports whether n is busy (an ancestor, i.e. a cycle) or done
// (already fully visited) under visit-once policy.
func (t *Inspect) Status(n ir.Node) (isBusy, isDone bool) {
	s := t.state[n]
	return s == busy, s == done
}

// Enter marks n busy; call once before descending into n.
func (t *Inspect) Enter(n ir.Node) { t.state[n] = busy }

// Leave marks n done; call once after n's postorder returns.
func (t *Inspect) Leave(n ir.Node) { t.state[n] = done }

// Forget clears n's tracked state, used by VisitAgain() to opt a single
// node back into repeat visitation for the remainder of the apply.
func (t *Inspect) Forget(n ir.Node) { delete(t.state, n) }

// Count reports how many entries are currently done, mostly useful for
// tests asserting visit-once.
func (t *Inspect) Count() int {
	n := 0
	for _, s := range t.state {
		if s == done {
			n++
		}
	}
	return n
}

// Change is the rewriting tracker used by Modifier and Transform. It
// maps an original node's identity to its rewritten replacement, or
// records it as deleted (the ⊥ mapping) when postorder deleted it from
// a vector slot.
type Change struct {
	state map[ir.Node]changeEntry
}

type changeEntry struct {
	busy    bool
	done    bool
	deleted bool
	result  ir.Node
}

// NewChange returns an empty change tracker.
func NewChange() *Change { return &Change{state: map[ir.Node]changeEntry{}} }

// Status reports whether n is busy (a cycle) or done (already rewritten
// once under visit-once policy).
func (t *Change) Status(n ir.Node) (isBusy, isDone bool) {
	e := t.state[n]
	return e.busy, e.done
}

// Enter marks n busy.
func (t *Change) Enter(n ir.Node) { t.state[n] = changeEntry{busy: true} }

// Leave records n's rewritten result and marks it done. A nil result
// with deleted=true records the ⊥ (deleted) mapping.
func (t *Change) Leave(n ir.Node, result ir.Node, isDeleted bool) {
	t.state[n] = changeEntry{done: true, deleted: isDeleted, result: result}
}

// Result returns the previously recorded rewrite for n, and whether the
// mapping was ⊥ (n was deleted).
func (t *Change) Result(n ir.Node) (result ir.Node, isDeleted bool) {
	e := t.state[n]
	return e.result, e.deleted
}

// Forget clears n's tracked state (VisitAgain()).
func (t *Change) Forget(n ir.Node) { delete(t.state, n) }
