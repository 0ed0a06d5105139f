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

// Package tablehit is a demo client of the visit engine: it rewrites
// `target = table.hit` into `if (table.hit) { target = true } else
// { target = false }`, for back-ends that cannot test a table's hit bit
// directly in an expression context. It is a consumer of the core, not
// part of it, the same status the original DoTableHit had relative to
// the IR library it was built on.
package tablehit

import (
	"context"

	"github.com/blackdragoon26/p4c-ir/diag"
	"github.com/blackdragoon26/p4c-ir/ir"
	"github.com/blackdragoon26/p4c-ir/sampleir"
	"github.com/blackdragoon26/p4c-ir/visit"
)

// WarnEmptyTableName is raised through Sink when a TableHit names no
// table: the rewrite still proceeds (there is nothing structurally
// wrong with the tree), but the result almost certainly is not what
// whoever built the fixture intended.
const WarnEmptyTableName diag.Kind = 1

// DoTableHit performs the rewrite described above. It only ever touches
// an Assign whose Value is exactly a TableHit; everything else passes
// through unchanged, mirroring the original's dedicated overloads for
// BaseAssignmentStatement/OpAssignmentStatement/BAndAssign/BOrAssign/
// BXorAssign (collapsed here to the one assignment shape sampleir has).
type DoTableHit struct {
	visit.BaseTransform

	// Sink receives WarnEmptyTableName; defaults to diag.Discard so a
	// caller that never wires a real diagnostics collaborator still
	// gets a usable pass, per diag's package doc.
	Sink diag.Sink
}

// NewDoTableHit returns a DoTableHit ready to run, reporting nothing.
func NewDoTableHit() *DoTableHit {
	return NewDoTableHitWithSink(diag.Discard)
}

// NewDoTableHitWithSink returns a DoTableHit that reports through sink.
func NewDoTableHitWithSink(sink diag.Sink) *DoTableHit {
	p := &DoTableHit{BaseTransform: visit.NewBaseTransform(), Sink: sink}
	p.SetName("DoTableHit")
	return p
}

func (p *DoTableHit) Postorder(ctx *ir.Context, n ir.Node) ir.Node {
	assign, ok := ir.As[*sampleir.Assign](n)
	if !ok {
		return n
	}
	hit, ok := ir.As[*sampleir.TableHit](assign.Value)
	if !ok {
		return n
	}
	if hit.Table == "" && p.Sink.WarningEnabled(WarnEmptyTableName, n) {
		p.Sink.Warnf(WarnEmptyTableName, n, "table hit assigned to %q names no table", assign.Target)
	}
	return &sampleir.If{
		Cond: hit,
		Then: &sampleir.Assign{Target: assign.Target, Value: &sampleir.Lit{Value: true}},
		Else: &sampleir.Assign{Target: assign.Target, Value: &sampleir.Lit{Value: false}},
	}
}

// Run is the convenience entry point: construct a DoTableHit reporting
// to diag.Discard, apply it to root, and return the rewritten tree (the
// original's TableHit PassManager wraps this with a type-checking pass
// first; sampleir has no type checker to run, so this is the whole
// pipeline).
func Run(goCtx context.Context, root ir.Node) (ir.Node, visit.Trigger) {
	return visit.TransformApply(goCtx, NewDoTableHit(), nil, root)
}
