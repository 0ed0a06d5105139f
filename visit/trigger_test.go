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

type raisingInspector struct {
	visit.BaseInspector
	raiseOn int
	seen    []int
}

func (r *raisingInspector) Preorder(ctx *ir.Context, n ir.Node) bool {
	l, ok := ir.As[*visittest.Leaf](n)
	if !ok {
		return true
	}
	r.seen = append(r.seen, l.Val)
	if l.Val == r.raiseOn {
		visit.Raise(visit.TriggerBase{Kind: "stop", Msg: "hit target leaf"})
	}
	return true
}

func TestRaiseAbortsApplyAndReturnsTrigger(t *testing.T) {
	root := &visittest.Block{Items: []ir.Node{
		&visittest.Leaf{Val: 1},
		&visittest.Leaf{Val: 2},
		&visittest.Leaf{Val: 3},
	}}

	r := &raisingInspector{BaseInspector: visit.NewBaseInspector(), raiseOn: 2}
	r.SetName("raisingInspector")
	trig := visit.InspectApply(context.Background(), r, nil, root)

	require.NotNil(t, trig)
	require.Equal(t, "stop", trig.TriggerKind())
	require.Equal(t, []int{1, 2}, r.seen, "traversal must stop as soon as the trigger is raised")
}

type raisingTransform struct {
	visit.BaseTransform
}

func (r *raisingTransform) Preorder(ctx *ir.Context, n ir.Node) ir.Node {
	if l, ok := ir.As[*visittest.Leaf](n); ok && l.Val == 2 {
		visit.Raise(visit.TriggerBase{Kind: "stop", Msg: "hit target leaf"})
	}
	return n
}

func TestRaiseDuringTransformYieldsNilResult(t *testing.T) {
	root := &visittest.Block{Items: []ir.Node{
		&visittest.Leaf{Val: 1},
		&visittest.Leaf{Val: 2},
	}}
	tr := &raisingTransform{BaseTransform: visit.NewBaseTransform()}
	tr.SetName("raisingTransform")
	result, trig := visit.TransformApply(context.Background(), tr, nil, root)
	require.NotNil(t, trig)
	require.Nil(t, result)
}

// catchingInspector is a Backtrack-capable Inspector: whether it
// catches is fixed at construction, and every trigger offered to it is
// recorded so a test can assert who saw what.
type catchingInspector struct {
	visit.BaseInspector
	catches bool
	offered []string
}

func (c *catchingInspector) BacktrackCatch(t visit.Trigger) bool {
	c.offered = append(c.offered, t.TriggerKind())
	return c.catches
}

func (c *catchingInspector) NeverBacktracks() bool { return false }

var _ visit.Backtrack = (*catchingInspector)(nil)

// TestBacktrackCatchStopsPropagationAtNearestCatcher exercises spec.md
// §8 scenario 6: a pipeline [P1-catches, P2, P3-raises]. Pipeline
// composition is out of the core's scope (see the doc comment on
// Trigger), so this test plays the pipeline's part itself: P3 raises,
// the trigger is offered to P2 first (which declines and re-raises)
// and then to P1 (which catches it), and propagation stops there.
func TestBacktrackCatchStopsPropagationAtNearestCatcher(t *testing.T) {
	root := &visittest.Block{Items: []ir.Node{&visittest.Leaf{Val: 1}}}

	p3 := &raisingInspector{BaseInspector: visit.NewBaseInspector(), raiseOn: 1}
	p3.SetName("P3")
	trig := visit.InspectApply(context.Background(), p3, nil, root)
	require.NotNil(t, trig, "P3 must raise")

	p2 := &catchingInspector{BaseInspector: visit.NewBaseInspector(), catches: false}
	p2.SetName("P2")
	p1 := &catchingInspector{BaseInspector: visit.NewBaseInspector(), catches: true}
	p1.SetName("P1")

	caught := false
	for _, pass := range []visit.Backtrack{p2, p1} {
		if pass.BacktrackCatch(trig) {
			caught = true
			break
		}
	}

	require.True(t, caught, "P1 must catch the trigger so the pipeline can resume")
	require.Equal(t, []string{"stop"}, p2.offered, "P2 must see the trigger even though it declines it")
	require.Equal(t, []string{"stop"}, p1.offered, "P1 must see the trigger and catch it")
}

func TestBacktrackCatchPropagatesPastNonCatchingPass(t *testing.T) {
	root := &visittest.Block{Items: []ir.Node{&visittest.Leaf{Val: 1}}}
	p3 := &raisingInspector{BaseInspector: visit.NewBaseInspector(), raiseOn: 1}
	p3.SetName("P3")
	trig := visit.InspectApply(context.Background(), p3, nil, root)
	require.NotNil(t, trig)

	decliner := &catchingInspector{BaseInspector: visit.NewBaseInspector(), catches: false}
	decliner.SetName("decliner")
	require.False(t, decliner.BacktrackCatch(trig), "a pass that declines must re-raise, not swallow, the trigger")
}
