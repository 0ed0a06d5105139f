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

// Package sampleir is a minimal concrete IR implementing ir.Node: just
// enough statement and expression shapes (blocks, assignment, if, loop,
// binary expressions, identifiers, literals, and a table-hit test
// expression) to exercise the visit package's engine end to end, in
// passes/tablehit, passes/reach, and cmd/irtrace. It has no type
// checker or resolver of its own; every field is already resolved by
// construction.
package sampleir

import "github.com/blackdragoon26/p4c-ir/ir"

// Block is an ordered sequence of statements.
type Block struct {
	Stmts []ir.Node
}

func (b *Block) Kind() string { return "block" }

func (b *Block) VisitChildren(v ir.ChildVisitor) {
	b.Stmts = v.VisitVector("stmts", b.Stmts)
}

func (b *Block) Clone() ir.Node {
	c := *b
	c.Stmts = append([]ir.Node(nil), b.Stmts...)
	return &c
}

// Assign is `Target = Value`.
type Assign struct {
	Target string
	Value  ir.Node
}

func (a *Assign) Kind() string { return "assign" }

func (a *Assign) VisitChildren(v ir.ChildVisitor) {
	a.Value = v.VisitChild("value", -1, a.Value)
}

func (a *Assign) Clone() ir.Node {
	c := *a
	return &c
}

// If is `if Cond { Then } else { Else }`; Else may be nil.
type If struct {
	Cond, Then, Else ir.Node
}

func (n *If) Kind() string { return "if" }

func (n *If) VisitChildren(v ir.ChildVisitor) {
	n.Cond = v.VisitChild("cond", -1, n.Cond)
	n.Then = v.VisitChild("then", -1, n.Then)
	n.Else = v.VisitChild("else", -1, n.Else)
}

func (n *If) Clone() ir.Node {
	c := *n
	return &c
}

// Loop is `while Cond { Body }`.
type Loop struct {
	Cond, Body ir.Node
}

func (l *Loop) Kind() string { return "loop" }

func (l *Loop) VisitChildren(v ir.ChildVisitor) {
	l.Cond = v.VisitChild("cond", -1, l.Cond)
	l.Body = v.VisitChild("body", -1, l.Body)
}

func (l *Loop) Clone() ir.Node {
	c := *l
	return &c
}

// BinExpr is a two-operand expression, e.g. `Left Op Right`.
type BinExpr struct {
	Op          string
	Left, Right ir.Node
}

func (b *BinExpr) Kind() string { return "binop" }

func (b *BinExpr) VisitChildren(v ir.ChildVisitor) {
	b.Left = v.VisitChild("left", -1, b.Left)
	b.Right = v.VisitChild("right", -1, b.Right)
}

func (b *BinExpr) Clone() ir.Node {
	c := *b
	return &c
}

// Ident is a bare variable reference, childless.
type Ident struct {
	Name string
}

func (i *Ident) Kind() string                  { return "ident" }
func (i *Ident) VisitChildren(ir.ChildVisitor) {}
func (i *Ident) Clone() ir.Node {
	c := *i
	return &c
}

// Lit is a literal value, either a bool or an int64, childless.
type Lit struct {
	Value interface{} // bool or int64
}

func (l *Lit) Kind() string                  { return "lit" }
func (l *Lit) VisitChildren(ir.ChildVisitor) {}
func (l *Lit) Clone() ir.Node {
	c := *l
	return &c
}

// TableHit is the expression `Table.hit`, the one P4-flavored construct
// passes/tablehit exists to rewrite away, childless.
type TableHit struct {
	Table string
}

func (t *TableHit) Kind() string                  { return "tablehit" }
func (t *TableHit) VisitChildren(ir.ChildVisitor) {}
func (t *TableHit) Clone() ir.Node {
	c := *t
	return &c
}
