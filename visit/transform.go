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

// Transform rewrites a tree, returning a replacement (nil deletes,
// *ir.Many splices several elements) for every node it is given.
// Unlike Modifier, the engine does not clone before Preorder: Preorder
// and Postorder receive the original node and are free to return it
// unchanged or to call n.Clone() themselves before mutating and
// returning the copy. The engine writes children's results into a copy
// of the node and keeps that copy only when some child changed, so an
// identity transform returns the original tree by identity.
// SetForceClone(true) reverts to the original's eager-clone behavior
// for passes that find that easier to get right.
//
// transformCore is unexported and satisfied only by embedding
// BaseTransform, the same sealing trick as Visitor.core — it is how
// TransformChild reaches the active apply's shared change tracker.
type Transform interface {
	Visitor
	Preorder(ctx *ir.Context, n ir.Node) ir.Node
	Postorder(ctx *ir.Context, n ir.Node) ir.Node
	Revisit(ctx *ir.Context, orig, mapped ir.Node)
	LoopRevisit(ctx *ir.Context, n ir.Node)

	transformCore() *BaseTransform
}

// BaseTransform supplies Transform's default hooks and the prune flag
// and descent link TransformChild and Prune need.
type BaseTransform struct {
	Base

	pruneRequested bool
	descentLink    *transformDescent
}

// NewBaseTransform returns a zero-value BaseTransform ready to embed.
func NewBaseTransform() BaseTransform { return BaseTransform{Base: NewBase()} }

func (b *BaseTransform) transformCore() *BaseTransform { return b }

func (b *BaseTransform) Preorder(ctx *ir.Context, n ir.Node) ir.Node   { return n }
func (b *BaseTransform) Postorder(ctx *ir.Context, n ir.Node) ir.Node  { return n }
func (b *BaseTransform) Revisit(ctx *ir.Context, orig, mapped ir.Node) {}
func (b *BaseTransform) LoopRevisit(ctx *ir.Context, n ir.Node)        { loopDetected(b.Name()) }

// Prune, callable from Preorder, skips descent into the current node's
// children for this visit; Postorder still runs on whatever Preorder
// returned.
func (b *BaseTransform) Prune() { b.pruneRequested = true }

// TransformApply runs v over root and returns the (possibly identical)
// new root, plus any Trigger raised during the traversal.
func TransformApply(goCtx context.Context, v Transform, parent *ir.Context, root ir.Node) (result ir.Node, trig Trigger) {
	defer func() {
		if t, ok := recoverTrigger(); ok {
			trig = t
			result = nil
		}
	}()
	_, rec := profile.Start(goCtx, v.Name())
	defer rec.End()

	bt := v.transformCore()
	d := &transformDescent{v: v, tr: tracker.NewChange()}
	prev := bt.descentLink
	bt.descentLink = d
	defer func() { bt.descentLink = prev }()

	frame := ir.NewRoot(parent, root)
	result = d.descend(frame, root)
	return result, nil
}

// TransformNested runs a freshly-constructed nested Transform from
// inside an ancestor visitor's preorder/postorder.
func TransformNested(goCtx context.Context, parent Visitor, v Transform, root ir.Node) (ir.Node, Trigger) {
	v.SetCalledBy(parent)
	return TransformApply(goCtx, v, parent.core().ctxt, root)
}

// TransformChild runs a nested apply on child immediately, from within
// Preorder, sharing the enclosing apply's change tracker so dedup and
// identity stay consistent across the whole traversal, then implicitly
// prunes so the engine's ordinary VisitChildren pass is skipped for the
// rest of this node's children. Mirrors the original's transform_child.
func TransformChild(v Transform, child ir.Node) ir.Node {
	bt := v.transformCore()
	d := bt.descentLink
	if d == nil {
		bug(v.Name(), "TransformChild called outside an active TransformApply")
	}
	ctx := bt.ctxt
	ctx.SetChildPos("", -1)
	frame := ir.NewChild(ctx, "", -1, child)
	result := d.descend(frame, child)
	bt.Prune()
	return result
}

type transformDescent struct {
	v  Transform
	tr *tracker.Change
}

func (d *transformDescent) descend(frame *ir.Context, n ir.Node) ir.Node {
	if n == nil {
		return nil
	}
	bt := d.v.transformCore()
	prevCtxt := bt.ctxt
	bt.ctxt = frame
	defer func() { bt.ctxt = prevCtxt }()

	if bt.visitOnceEnabled() {
		if busy, done := d.tr.Status(n); done {
			result, deleted := d.tr.Result(n)
			d.v.Revisit(frame, n, result)
			if deleted {
				return nil
			}
			return result
		} else if busy {
			d.v.LoopRevisit(frame, n)
			return n
		}
		d.tr.Enter(n)
	}

	working := n
	if bt.forceCloneEnabled() {
		working = n.Clone()
	}
	frame.SetNode(working)

	bt.pruneRequested = false
	replaced := d.v.Preorder(frame, working)
	frame.SetNode(replaced)

	if !bt.pruneRequested && replaced != nil {
		// Children's results are written into a copy, never into a node
		// the input tree may still reach; the copy is kept only if some
		// child actually changed.
		target := replaced
		if !bt.forceCloneEnabled() || replaced != working {
			target = replaced.Clone()
		}
		cv := &transformChildVisitor{d: d, ctx: frame}
		target.VisitChildren(cv)
		if cv.changed || target == replaced {
			replaced = target
		}
	}
	bt.pruneRequested = false

	final := d.v.Postorder(frame, replaced)
	frame.SetNode(final)

	if bt.visitOnceEnabled() {
		if bt.forgetCurrent {
			d.tr.Forget(n)
			bt.forgetCurrent = false
		} else {
			d.tr.Leave(n, final, final == nil)
		}
	}
	return final
}

type transformChildVisitor struct {
	d       *transformDescent
	ctx     *ir.Context
	changed bool // some child's result differs from the child visited
}

func (c *transformChildVisitor) VisitChild(name string, index int, child ir.Node) ir.Node {
	if child == nil {
		return nil
	}
	c.ctx.SetChildPos(name, index)
	frame := ir.NewChild(c.ctx, name, index, child)
	result := c.d.descend(frame, child)
	if result != child {
		c.changed = true
	}
	return result
}

func (c *transformChildVisitor) VisitVector(name string, children []ir.Node) []ir.Node {
	results := make([]ir.Node, len(children))
	for i, child := range children {
		results[i] = c.VisitChild(name, i, child)
	}
	return spliceVector(children, results)
}
