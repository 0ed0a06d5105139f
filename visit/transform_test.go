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

package visit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blackdragoon26/p4c-ir/ir"
	"github.com/blackdragoon26/p4c-ir/visit"
	"github.com/blackdragoon26/p4c-ir/visit/visittest"
)

func TestTransformIdentityReturnsOriginalByPointer(t *testing.T) {
	root := &visittest.Block{Items: []ir.Node{
		&visittest.Leaf{Val: 1},
		&visittest.Block{Items: []ir.Node{&visittest.Leaf{Val: 2}}},
	}}

	// A default BaseTransform's Preorder/Postorder both return n
	// unchanged, and the engine keeps a node's copy only when a child
	// changed: the identity transform must hand back the exact same root
	// pointer.
	v := &struct{ visit.BaseTransform }{BaseTransform: visit.NewBaseTransform()}
	result, trig := visit.TransformApply(context.Background(), v, nil, root)
	require.Nil(t, trig)
	require.Same(t, ir.Node(root), result)
}

func TestTransformEachDeletesOnNilAndSplicesOnMany(t *testing.T) {
	root := &visittest.Block{Items: []ir.Node{
		&visittest.Leaf{Val: 1},
		&visittest.Leaf{Val: 2},
		&visittest.Leaf{Val: 3},
	}}

	result, trig := visit.TransformEach(context.Background(), root, func(l *visittest.Leaf) ir.Node {
		switch l.Val {
		case 2:
			return nil // delete
		case 3:
			return &ir.Many{Nodes: []ir.Node{
				&visittest.Leaf{Val: 30},
				&visittest.Leaf{Val: 31},
			}}
		default:
			return l
		}
	})
	require.Nil(t, trig)

	out := result.(*visittest.Block)
	require.Len(t, out.Items, 3)
	require.Equal(t, 1, out.Items[0].(*visittest.Leaf).Val)
	require.Equal(t, 30, out.Items[1].(*visittest.Leaf).Val)
	require.Equal(t, 31, out.Items[2].(*visittest.Leaf).Val)
}

type pruningTransform struct {
	visit.BaseTransform
	target  ir.Node
	visited []int
}

func (p *pruningTransform) Preorder(ctx *ir.Context, n ir.Node) ir.Node {
	if n == p.target {
		p.Prune()
	}
	return n
}

func (p *pruningTransform) Postorder(ctx *ir.Context, n ir.Node) ir.Node {
	if l, ok := ir.As[*visittest.Leaf](n); ok {
		p.visited = append(p.visited, l.Val)
	}
	return n
}

func TestTransformPruneSkipsChildren(t *testing.T) {
	inner := &visittest.Block{Items: []ir.Node{&visittest.Leaf{Val: 99}}}
	root := &visittest.Block{Items: []ir.Node{inner, &visittest.Leaf{Val: 1}}}

	p := &pruningTransform{BaseTransform: visit.NewBaseTransform(), target: inner}
	p.SetName("pruningTransform")
	_, trig := visit.TransformApply(context.Background(), p, nil, root)
	require.Nil(t, trig)
	require.Equal(t, []int{1}, p.visited, "pruned subtree's leaf must never reach Postorder")
}

type forceCloningLeafDoubler struct {
	visit.BaseTransform
}

func (f *forceCloningLeafDoubler) Postorder(ctx *ir.Context, n ir.Node) ir.Node {
	if l, ok := ir.As[*visittest.Leaf](n); ok {
		clone := l.Clone().(*visittest.Leaf)
		clone.Val *= 2
		return clone
	}
	return n
}

func TestTransformMutateDoesNotTouchOriginal(t *testing.T) {
	leaf := &visittest.Leaf{Val: 5}
	root := &visittest.Block{Items: []ir.Node{leaf}}

	f := &forceCloningLeafDoubler{BaseTransform: visit.NewBaseTransform()}
	f.SetName("forceCloningLeafDoubler")
	result, trig := visit.TransformApply(context.Background(), f, nil, root)
	require.Nil(t, trig)

	require.Equal(t, 5, leaf.Val, "original node must be untouched since Postorder cloned before mutating")
	out := result.(*visittest.Block)
	require.Equal(t, 10, out.Items[0].(*visittest.Leaf).Val)
}
