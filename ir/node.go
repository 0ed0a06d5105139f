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

// Package ir defines the abstract node protocol that the traversal core
// operates on. It knows nothing about any particular IR's concrete node
// kinds; it only fixes the shape every node must present so that the
// traversal engine can walk, clone, and rewrite trees generically.
package ir

// Node is the contract every concrete IR node type must satisfy. Node
// values are always held as pointers to immutable records: a Node is
// never mutated after it becomes reachable from outside the traversal
// that produced it, and two references compare equal (via Go's ordinary
// == on the interface, which compares the underlying pointer) only if
// they denote the same logical node.
type Node interface {
	// Kind reports the node's dynamic type tag, drawn from whatever
	// closed hierarchy the concrete IR defines. It exists for
	// diagnostics and for passes that want a cheap type discriminator
	// without an *ir.As type assertion.
	Kind() string

	// VisitChildren invokes v on every child slot, in the node's
	// declared, stable order, passing each slot's name and index.
	// A node with no children returns without calling v.
	VisitChildren(v ChildVisitor)

	// Clone returns a shallow copy of the node: same child references,
	// new outer value. The traversal engine clones a node before a
	// rewriting pass mutates it, so the original remains valid for any
	// other part of the tree that still shares it.
	Clone() Node
}

// Many wraps a slice of nodes so a Transform pass can replace one vector
// element with several: returning a *Many from a vector-slot transform
// splices its Nodes in place of the single element it replaced,
// flattened exactly one level (a Many containing a Many is not
// recursively flattened). It satisfies Node only so it can flow through
// the same TransformChild return type as any other replacement; Kind,
// VisitChildren, and Clone are never meaningful calls on it and the
// engine strips it out of the tree before any pass would observe them.
type Many struct {
	Nodes []Node
}

func (m *Many) Kind() string               { return "<many>" }
func (m *Many) VisitChildren(ChildVisitor) {}
func (m *Many) Clone() Node                { return &Many{Nodes: append([]Node(nil), m.Nodes...)} }

// As attempts to downcast n to the concrete type T, the Go-idiomatic
// replacement for the original's to<T>()/checkedTo<T>() pair.
func As[T Node](n Node) (T, bool) {
	var zero T
	if n == nil {
		return zero, false
	}
	t, ok := n.(T)
	return t, ok
}

// ChildVisitor is what a Node's VisitChildren calls back into for each
// child slot. The traversal engine is the only implementer in normal
// use; it recurses into VisitChild/VisitVector and returns whatever the
// active visitor's pre/postorder hooks produced for that slot.
//
// For a single-node slot, the node calls VisitChild and, if the engine
// is driving a rewriting pass, assigns the result back into the slot
// (a nil result means "delete", which removes an element only inside a
// vector slot — see VisitVector).
//
// For a slot holding an ordered sequence of nodes, the node calls
// VisitVector once with the whole slice; VisitVector returns the
// (possibly spliced, possibly shorter or longer) replacement slice,
// which the node assigns back wholesale.
type ChildVisitor interface {
	// VisitChild visits a single-node child at the given slot name and
	// index (index is -1 for a slot that is not itself part of a
	// vector). It returns the node to install in that slot: for a
	// read-only pass this is always child unchanged; for a rewriting
	// pass it may be a replacement.
	VisitChild(name string, index int, child Node) Node

	// VisitVector visits an ordered vector child slot. The returned
	// slice replaces the input slice wholesale; elements a Transform
	// pass wants removed are simply absent, and an element a Transform
	// pass replaces with a nested vector is spliced in as consecutive
	// entries, flattened exactly one level.
	VisitVector(name string, children []Node) []Node
}
