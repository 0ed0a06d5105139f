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

// Inspector is a read-only visitor: it may accumulate its own state
// (e.g. a control-flow lattice value) but never rewrites the tree it
// walks. Preorder returning false prunes descent into n's children.
type Inspector interface {
	Visitor
	Preorder(ctx *ir.Context, n ir.Node) bool
	Postorder(ctx *ir.Context, n ir.Node)
	Revisit(ctx *ir.Context, n ir.Node)
	LoopRevisit(ctx *ir.Context, n ir.Node)
}

// BaseInspector supplies Inspector's default hooks: descend everywhere,
// do nothing on postorder or revisit, and fail fatally on a cycle. A
// concrete pass embeds BaseInspector and overrides only the hooks it
// cares about.
type BaseInspector struct {
	Base
}

// NewBaseInspector returns a zero-value BaseInspector ready to embed.
func NewBaseInspector() BaseInspector { return BaseInspector{Base: NewBase()} }

func (b *BaseInspector) Preorder(ctx *ir.Context, n ir.Node) bool { return true }
func (b *BaseInspector) Postorder(ctx *ir.Context, n ir.Node)     {}
func (b *BaseInspector) Revisit(ctx *ir.Context, n ir.Node)       {}
func (b *BaseInspector) LoopRevisit(ctx *ir.Context, n ir.Node)   { loopDetected(b.Name()) }

// joinAware is satisfied by ControlFlowVisitor; InspectApply type-asserts
// for it on every apply so an ordinary Inspector pays nothing extra.
type joinAware interface {
	joinFlowsPolicy() bool
	ensureJoinFlows(goCtx context.Context, root ir.Node)
	JoinFlows(n ir.Node) bool
	PostJoinFlows(n, orig ir.Node)
}

// InspectApply runs v read-only over root. parent is the calling
// visitor's current context frame for a nested apply spawned from
// inside another visit's pre/postorder (see InspectNested), or nil for
// a top-level apply. It returns any Trigger raised during the
// traversal via Raise.
func InspectApply(goCtx context.Context, v Inspector, parent *ir.Context, root ir.Node) (trig Trigger) {
	defer func() {
		if t, ok := recoverTrigger(); ok {
			trig = t
		}
	}()
	_, rec := profile.Start(goCtx, v.Name())
	defer rec.End()

	d := &inspectDescent{v: v, tr: tracker.NewInspect()}
	if ja, ok := interface{}(v).(joinAware); ok && ja.joinFlowsPolicy() {
		ja.ensureJoinFlows(goCtx, root)
		d.join = ja
	}
	frame := ir.NewRoot(parent, root)
	d.descend(frame, root)
	return nil
}

// InspectNested runs a freshly-constructed nested Inspector from inside
// an ancestor visitor's preorder/postorder: it records the calling
// relationship (CalledBy, for diagnostics) and continues the parent's
// context chain rather than starting a new one.
func InspectNested(goCtx context.Context, parent Visitor, v Inspector, root ir.Node) Trigger {
	v.SetCalledBy(parent)
	return InspectApply(goCtx, v, parent.core().ctxt, root)
}

type inspectDescent struct {
	v    Inspector
	tr   *tracker.Inspect
	join joinAware
}

// descend implements the engine's descent algorithm (§4.2 steps 2-9;
// step 1, pushing frame, is the caller's job) specialized for a
// read-only visitor: there is no cloning and the returned node is
// always n itself.
func (d *inspectDescent) descend(frame *ir.Context, n ir.Node) ir.Node {
	if n == nil {
		return nil
	}
	core := d.v.core()
	prevCtxt := core.ctxt
	core.ctxt = frame
	defer func() { core.ctxt = prevCtxt }()

	if core.visitOnceEnabled() {
		if busy, done := d.tr.Status(n); done {
			d.v.Revisit(frame, n)
			return n
		} else if busy {
			d.v.LoopRevisit(frame, n)
			return n
		}
		d.tr.Enter(n)
	}

	if d.join != nil {
		if d.join.JoinFlows(n) {
			if core.visitOnceEnabled() {
				d.tr.Forget(n)
			}
			return n
		}
	}

	cont := d.v.Preorder(frame, n)
	if cont {
		n.VisitChildren(&inspectChildVisitor{d: d, ctx: frame})
	}
	d.v.Postorder(frame, n)

	if d.join != nil {
		d.join.PostJoinFlows(n, frame.Original())
	}

	if core.visitOnceEnabled() {
		if core.forgetCurrent {
			d.tr.Forget(n)
			core.forgetCurrent = false
		} else {
			d.tr.Leave(n)
		}
	}
	return n
}

type inspectChildVisitor struct {
	d   *inspectDescent
	ctx *ir.Context
}

func (c *inspectChildVisitor) VisitChild(name string, index int, child ir.Node) ir.Node {
	if child == nil {
		return nil
	}
	c.ctx.SetChildPos(name, index)
	frame := ir.NewChild(c.ctx, name, index, child)
	return c.d.descend(frame, child)
}

func (c *inspectChildVisitor) VisitVector(name string, children []ir.Node) []ir.Node {
	out := make([]ir.Node, len(children))
	for i, child := range children {
		out[i] = c.VisitChild(name, i, child)
	}
	return out
}
