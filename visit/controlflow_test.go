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

// sumOnJoin is a minimal ControlFlowVisitor: it accumulates the sum of
// every leaf it has postordered, forking that accumulator at a shared
// confluence node and folding the branches' contributions back together
// via FlowMerge/FlowCopy, exactly the join protocol spec.md §4.5
// describes.
type sumOnJoin struct {
	visit.BaseControlFlow
	sum int
}

func newSumOnJoin() *sumOnJoin {
	p := &sumOnJoin{BaseControlFlow: visit.NewBaseControlFlow()}
	p.InitControlFlow(p)
	p.SetJoinFlows(true)
	p.SetName("sumOnJoin")
	return p
}

func (p *sumOnJoin) Postorder(ctx *ir.Context, n ir.Node) {
	if l, ok := ir.As[*visittest.Leaf](n); ok {
		p.sum += l.Val
	}
}

func (p *sumOnJoin) FlowClone() visit.Visitor {
	clone := &sumOnJoin{BaseControlFlow: p.BaseControlFlow, sum: p.sum}
	clone.InitControlFlow(clone)
	return clone
}

func (p *sumOnJoin) FlowMerge(other visit.Visitor) {
	p.sum += other.(*sumOnJoin).sum
}

func (p *sumOnJoin) FlowCopy(other visit.ControlFlowVisitor) {
	p.sum = other.(*sumOnJoin).sum
}

func TestControlFlowJoinMergesBothBranchesBeforeJoinPoint(t *testing.T) {
	join := &visittest.Leaf{Val: 1}
	left := &visittest.Block{Items: []ir.Node{&visittest.Leaf{Val: 10}, join}}
	right := &visittest.Block{Items: []ir.Node{&visittest.Leaf{Val: 100}, join}}
	root := &visittest.Block{Items: []ir.Node{left, right}}

	p := newSumOnJoin()
	trig := visit.InspectApply(context.Background(), p, nil, root)
	require.Nil(t, trig)

	// 10 (left) + 100 (right) + 1 (join, visited once): if the merge
	// dropped the left branch's contribution, this would read 101
	// instead of 111.
	require.Equal(t, 111, p.sum)
}
