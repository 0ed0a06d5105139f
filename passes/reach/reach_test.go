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

package reach_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blackdragoon26/p4c-ir/ir"
	"github.com/blackdragoon26/p4c-ir/passes/reach"
	"github.com/blackdragoon26/p4c-ir/sampleir"
)

func TestReachDisagreeingBranchesMeetToUnknown(t *testing.T) {
	tail := &sampleir.Assign{Target: "z", Value: &sampleir.Lit{Value: int64(99)}}
	then := &sampleir.Block{Stmts: []ir.Node{
		&sampleir.Assign{Target: "x", Value: &sampleir.Lit{Value: int64(1)}},
		tail,
	}}
	els := &sampleir.Block{Stmts: []ir.Node{
		&sampleir.Assign{Target: "x", Value: &sampleir.Lit{Value: int64(2)}},
		tail,
	}}
	root := &sampleir.If{Cond: &sampleir.Ident{Name: "c"}, Then: then, Else: els}

	r, trig := reach.Run(context.Background(), root)
	require.Nil(t, trig)

	x := r.State["x"]
	require.False(t, x.Known, "branches assigned different literals to x, so the merge must be unknown")

	z := r.State["z"]
	require.True(t, z.Known)
	require.Equal(t, int64(99), z.Val)
}

func TestReachAgreeingBranchesStayKnown(t *testing.T) {
	tail := &sampleir.Assign{Target: "z", Value: &sampleir.Lit{Value: int64(0)}}
	then := &sampleir.Block{Stmts: []ir.Node{
		&sampleir.Assign{Target: "x", Value: &sampleir.Lit{Value: int64(5)}},
		tail,
	}}
	els := &sampleir.Block{Stmts: []ir.Node{
		&sampleir.Assign{Target: "x", Value: &sampleir.Lit{Value: int64(5)}},
		tail,
	}}
	root := &sampleir.If{Cond: &sampleir.Ident{Name: "c"}, Then: then, Else: els}

	r, trig := reach.Run(context.Background(), root)
	require.Nil(t, trig)

	x := r.State["x"]
	require.True(t, x.Known, "both branches agree on x, the merge should keep it known")
	require.Equal(t, int64(5), x.Val)
}

func TestReachLoopFixpointStabilizesOnUnknown(t *testing.T) {
	loop := &sampleir.Loop{
		Cond: &sampleir.Ident{Name: "c"},
		Body: &sampleir.Assign{Target: "i", Value: &sampleir.Ident{Name: "i"}},
	}

	r, trig := reach.Run(context.Background(), loop)
	require.Nil(t, trig)

	i := r.State["i"]
	require.False(t, i.Known)
	require.Equal(t, 2, r.Iterations[loop], "one pass to introduce i, one to confirm FlowMergeClosure stopped widening")
}

func TestReachLoopFixpointStabilizesOnKnownConstant(t *testing.T) {
	loop := &sampleir.Loop{
		Cond: &sampleir.Ident{Name: "c"},
		Body: &sampleir.Assign{Target: "k", Value: &sampleir.Lit{Value: int64(7)}},
	}

	r, trig := reach.Run(context.Background(), loop)
	require.Nil(t, trig)

	k := r.State["k"]
	require.True(t, k.Known)
	require.Equal(t, int64(7), k.Val)
	require.Equal(t, 2, r.Iterations[loop])
}

// TestReachLoopBodyWithNestedJoinStabilizesCorrectly guards against a
// join-point table reused across fixpoint iterations: loop.Body itself
// contains a branch join (the shared tail assign), so each of
// FlowLoopClosure's flow-cloned passes over the body must see a join
// table freshly scoped to that apply, not leftover joinInfo entries
// mutated by a previous iteration's pass over the same node identities.
func TestReachLoopBodyWithNestedJoinStabilizesCorrectly(t *testing.T) {
	tail := &sampleir.Assign{Target: "z", Value: &sampleir.Lit{Value: int64(42)}}
	then := &sampleir.Block{Stmts: []ir.Node{
		&sampleir.Assign{Target: "x", Value: &sampleir.Lit{Value: int64(1)}},
		tail,
	}}
	els := &sampleir.Block{Stmts: []ir.Node{
		&sampleir.Assign{Target: "x", Value: &sampleir.Lit{Value: int64(2)}},
		tail,
	}}
	loop := &sampleir.Loop{
		Cond: &sampleir.Ident{Name: "c"},
		Body: &sampleir.If{Cond: &sampleir.Ident{Name: "c"}, Then: then, Else: els},
	}

	r, trig := reach.Run(context.Background(), loop)
	require.Nil(t, trig)

	x := r.State["x"]
	require.False(t, x.Known, "the loop body's own branches disagree on x every iteration")

	z := r.State["z"]
	require.True(t, z.Known, "a stale join table would leave z unmerged or visited the wrong number of times")
	require.Equal(t, int64(42), z.Val)

	require.Equal(t, 2, r.Iterations[loop])
}
