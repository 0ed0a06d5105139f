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

// Package visittest holds a minimal concrete ir.Node hierarchy, shared by
// the visit package's tests, just large enough to exercise single-child
// slots, vector slots, and node sharing (DAG) across the three visitor
// flavors.
package visittest

import "github.com/blackdragoon26/p4c-ir/ir"

// Leaf is a childless node carrying an integer payload.
type Leaf struct {
	Val int
}

func (l *Leaf) Kind() string              { return "leaf" }
func (l *Leaf) VisitChildren(ir.ChildVisitor) {}
func (l *Leaf) Clone() ir.Node {
	c := *l
	return &c
}

// Block is a vector of children, visited in order under the slot name
// "items".
type Block struct {
	Items []ir.Node
}

func (b *Block) Kind() string { return "block" }

func (b *Block) VisitChildren(v ir.ChildVisitor) {
	b.Items = v.VisitVector("items", b.Items)
}

func (b *Block) Clone() ir.Node {
	c := *b
	c.Items = append([]ir.Node(nil), b.Items...)
	return &c
}

// Cond is a three-child fixed-shape node (test/then/else), exercising
// single-node (non-vector) child slots.
type Cond struct {
	Test, Then, Else ir.Node
}

func (c *Cond) Kind() string { return "cond" }

func (c *Cond) VisitChildren(v ir.ChildVisitor) {
	c.Test = v.VisitChild("test", -1, c.Test)
	c.Then = v.VisitChild("then", -1, c.Then)
	c.Else = v.VisitChild("else", -1, c.Else)
}

func (c *Cond) Clone() ir.Node {
	n := *c
	return &n
}
