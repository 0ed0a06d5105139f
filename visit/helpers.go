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

// ForEach invokes fn in postorder for every node of type T in the
// subtree rooted at root, without requiring a hand-written Inspector;
// behavior matches an ordinary postorder-only inspection.
func ForEach[T ir.Node](goCtx context.Context, root ir.Node, fn func(T)) Trigger {
	nv := &forEachVisitor[T]{BaseInspector: NewBaseInspector(), fn: fn}
	nv.SetName("ForEach")
	return InspectApply(goCtx, nv, nil, root)
}

type forEachVisitor[T ir.Node] struct {
	BaseInspector
	fn func(T)
}

func (v *forEachVisitor[T]) Postorder(ctx *ir.Context, n ir.Node) {
	if t, ok := ir.As[T](n); ok {
		v.fn(t)
	}
}

// ModifyEach invokes fn in postorder for every node of type T in the
// subtree rooted at root, mutating a clone of each in place, and
// returns the new root downcast to R.
func ModifyEach[T ir.Node, R ir.Node](goCtx context.Context, root R, fn func(T)) (R, Trigger) {
	nv := &modifyEachVisitor[T]{BaseModifier: NewBaseModifier(), fn: fn}
	nv.SetName("ModifyEach")
	result, trig := ModifyApply(goCtx, nv, nil, root)
	r, _ := ir.As[R](result)
	return r, trig
}

type modifyEachVisitor[T ir.Node] struct {
	BaseModifier
	fn func(T)
}

func (v *modifyEachVisitor[T]) Postorder(ctx *ir.Context, n ir.Node) {
	if t, ok := ir.As[T](n); ok {
		v.fn(t)
	}
}

// TransformEach invokes fn in postorder for every node of type T in the
// subtree rooted at root, installing fn's return value in its place;
// every other node kind passes through unchanged.
func TransformEach[T ir.Node](goCtx context.Context, root ir.Node, fn func(T) ir.Node) (ir.Node, Trigger) {
	nv := &transformEachVisitor[T]{BaseTransform: NewBaseTransform(), fn: fn}
	nv.SetName("TransformEach")
	return TransformApply(goCtx, nv, nil, root)
}

type transformEachVisitor[T ir.Node] struct {
	BaseTransform
	fn func(T) ir.Node
}

func (v *transformEachVisitor[T]) Postorder(ctx *ir.Context, n ir.Node) ir.Node {
	if t, ok := ir.As[T](n); ok {
		return v.fn(t)
	}
	return n
}
