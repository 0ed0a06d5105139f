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

import "golang.org/x/xerrors"

// BugError is the Go realization of the original's BUG()/BUG_CHECK()
// assertions: a programming error in a pass, never a user-input error.
// The core never recovers from a BugError itself; it panics with one
// and expects the caller (ultimately a human running the pipeline under
// a debugger, or a test) to see it.
type BugError struct {
	Visitor string
	Msg     string
	Wrapped error
}

func (e *BugError) Error() string {
	if e.Wrapped != nil {
		return e.Visitor + ": " + e.Msg + ": " + e.Wrapped.Error()
	}
	return e.Visitor + ": " + e.Msg
}

func (e *BugError) Unwrap() error { return e.Wrapped }

func bug(visitorName, msg string) {
	panic(&BugError{Visitor: visitorName, Msg: msg})
}

func bugf(visitorName, format string, args ...interface{}) {
	panic(&BugError{Visitor: visitorName, Msg: xerrors.Errorf(format, args...).Error()})
}

// ErrLoopDetected is wrapped by the BugError raised from the default
// loop_revisit implementation when a cycle is found in a pass that
// never declared it supports loops (the IR is a DAG by contract, per
// spec.md §4.3).
var ErrLoopDetected = xerrors.New("IR loop detected")

func loopDetected(visitorName string) {
	panic(&BugError{Visitor: visitorName, Msg: "IR loop detected", Wrapped: ErrLoopDetected})
}

// IsLoopDetected reports whether err is (or wraps) ErrLoopDetected,
// letting tests and callers use xerrors.Is/errors.Is uniformly.
func IsLoopDetected(err error) bool {
	return xerrors.Is(err, ErrLoopDetected)
}
