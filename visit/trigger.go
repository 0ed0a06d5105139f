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

// Trigger is a pass-defined control-flow signal raised to abandon a
// traversal. It embeds error so a Trigger can be logged, wrapped, and
// matched with the standard errors package like any other Go error, but
// its lifetime is meant to be scoped to a single apply: Raise aborts the
// current Apply call and the trigger comes back out as that call's
// return value (see InspectApply/ModifyApply/TransformApply), rather
// than continuing to propagate as a Go panic past the core's boundary.
// It is then up to whatever composed the passes (a pipeline, out of the
// core's scope — see spec.md §1) to offer the trigger to earlier
// passes' Backtrack method.
type Trigger interface {
	error
	// TriggerKind names the trigger's subtype for dispatch by catching
	// passes, analogous to the original's type-discriminated payload.
	TriggerKind() string
}

// TriggerBase is an embeddable helper for defining concrete trigger
// types; it supplies Error() and TriggerKind() from two fields so a
// pass only has to declare the payload it wants to carry.
type TriggerBase struct {
	Kind string
	Msg  string
}

func (t TriggerBase) Error() string       { return t.Msg }
func (t TriggerBase) TriggerKind() string { return t.Kind }

// Backtrack is implemented by passes that want a chance to catch a
// Trigger raised by a later pass in the same pipeline. A pass need not
// implement it; visitors that do not are simply skipped by whatever
// walks the pipeline looking for a catcher.
type Backtrack interface {
	Visitor
	// BacktrackCatch is offered the trigger; returning true stops its
	// propagation (the pipeline resumes after this pass), false
	// re-raises it to the next earlier pass.
	BacktrackCatch(t Trigger) bool
	// NeverBacktracks lets a pipeline statically skip passes that can
	// never catch anything, generally left at its default (false).
	NeverBacktracks() bool
}

// triggerPanic is the internal carrier used to unwind the Go call stack
// from Raise up to the enclosing Apply call; it never escapes the visit
// package.
type triggerPanic struct{ trigger Trigger }

// Raise aborts the current traversal, to be caught by the enclosing
// InspectApply/ModifyApply/TransformApply call and returned from it as a
// Trigger value. Call only from within a pass's preorder/postorder (or
// anything it calls).
func Raise(t Trigger) {
	panic(triggerPanic{trigger: t})
}

// recoverTrigger is deferred by each Apply entry point; ok reports
// whether a triggerPanic was recovered.
func recoverTrigger() (t Trigger, ok bool) {
	if r := recover(); r != nil {
		if tp, isTrig := r.(triggerPanic); isTrig {
			return tp.trigger, true
		}
		panic(r)
	}
	return nil, false
}
