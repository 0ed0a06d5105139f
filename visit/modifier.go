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
	"github.com/blackdragoon26/p4c-ir/profile"
	"github.com/blackdragoon26/p4c-ir/visit/internal/tracker"
)

// Modifier writes in place on a cloned copy of the tree: unlike
// Transform it cannot delete a node or splice a vector, and Preorder's
// bool return is "continue descending", not a replacement value.
type Modifier interface {
	Visitor
	Preorder(ctx *ir.Context, n ir.Node) bool
	Postorder(ctx *ir.Context, n ir.Node)
	Revisit(ctx *ir.Context, orig, mapped ir.Node)
	LoopRevisit(ctx *ir.Context, n ir.Node)
}

// BaseModifier supplies Modifier's default hooks.
type BaseModifier struct {
	Base
}

// NewBaseModifier returns a zero-value BaseModifier ready to embed.
func NewBaseModifier() BaseModifier { return BaseModifier{Base: NewBase()} }

func (b *BaseModifier) Preorder(ctx *ir.Context, n ir.Node) bool      { return true }
func (b *BaseModifier) Postorder(ctx *ir.Context, n ir.Node)          {}
func (b *BaseModifier) Revisit(ctx *ir.Context, orig, mapped ir.Node) {}
func (b *BaseModifier) LoopRevisit(ctx *ir.Context, n ir.Node)        { loopDetected(b.Name()) }

// ModifyApply runs v over root, cloning every visited node before
// Preorder sees it (Modifier always clones; there is no identity-
// preserving collapse for an unchanged subtree, which spec.md's
// testable properties never require of Modifier specifically, only of
// Transform). It returns the new root and any Trigger raised.
func ModifyApply(goCtx context.Context, v Modifier, parent *ir.Context, root ir.Node) (result ir.Node, trig Trigger) {
	defer func() {
		if t, ok := recoverTrigger(); ok {
			trig = t
			result = nil
		}
	}()
	_, rec := profile.Start(goCtx, v.Name())
	defer rec.End()

	d := &modifyDescent{v: v, tr: tracker.NewChange()}
	frame := ir.NewRoot(parent, root)
	result = d.descend(frame, root)
	return result, nil
}

// ModifyNested runs a freshly-constructed nested Modifier from inside
// an ancestor visitor's preorder/postorder.
func ModifyNested(goCtx context.Context, parent Visitor, v Modifier, root ir.Node) (ir.Node, Trigger) {
	v.SetCalledBy(parent)
	return ModifyApply(goCtx, v, parent.core().ctxt, root)
}

type modifyDescent struct {
	v  Modifier
	tr *tracker.Change
}

func (d *modifyDescent) descend(frame *ir.Context, n ir.Node) ir.Node {
	if n == nil {
		return nil
	}
	core := d.v.core()
	prevCtxt := core.ctxt
	core.ctxt = frame
	defer func() { core.ctxt = prevCtxt }()

	if core.visitOnceEnabled() {
		if busy, done := d.tr.Status(n); done {
			result, _ := d.tr.Result(n)
			d.v.Revisit(frame, n, result)
			return result
		} else if busy {
			d.v.LoopRevisit(frame, n)
			return n
		}
		d.tr.Enter(n)
	}

	working := n.Clone()
	frame.SetNode(working)

	if d.v.Preorder(frame, working) {
		working.VisitChildren(&modifyChildVisitor{d: d, ctx: frame})
	}
	d.v.Postorder(frame, working)

	if core.visitOnceEnabled() {
		if core.forgetCurrent {
			d.tr.Forget(n)
			core.forgetCurrent = false
		} else {
			d.tr.Leave(n, working, false)
		}
	}
	return working
}

type modifyChildVisitor struct {
	d   *modifyDescent
	ctx *ir.Context
}

func (c *modifyChildVisitor) VisitChild(name string, index int, child ir.Node) ir.Node {
	if child == nil {
		return nil
	}
	c.ctx.SetChildPos(name, index)
	frame := ir.NewChild(c.ctx, name, index, child)
	return c.d.descend(frame, child)
}

func (c *modifyChildVisitor) VisitVector(name string, children []ir.Node) []ir.Node {
	out := make([]ir.Node, len(children))
	for i, child := range children {
		out[i] = c.VisitChild(name, i, child)
	}
	return out
}
