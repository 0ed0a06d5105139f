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

package ir

// Context is a single stack frame of the traversal's parent chain. A new
// Context is pushed for every node entered and lives only for the
// duration of the descent into that node: it is never retained once
// postorder for that node returns, so it is safe (and intended) to be
// stack-allocated by the engine rather than heap-allocated and shared.
//
// Node is the current, possibly-rewritten node; Original is the node
// that occupied this position before any rewriting pass touched it.
// For a read-only pass the two are always the same value.
type Context struct {
	parent *Context
	node   Node
	orig   Node
	name   string
	index  int
	depth  int
}

// NewRoot creates the context frame for a traversal's root node. parent
// is nil for a top-level apply, or the caller's current context when a
// visitor is spawned from within another visit (see InspectNested,
// ModifyNested and TransformNested in package visit).
func NewRoot(parent *Context, n Node) *Context {
	depth := 1
	if parent != nil {
		depth = parent.depth + 1
	}
	return &Context{parent: parent, node: n, orig: n, name: "", index: -1, depth: depth}
}

// NewChild pushes a new frame for a child of c at the given slot, n being
// the pre-rewrite node occupying that slot (see SetNode for how a
// rewriting pass's clone is installed once it exists).
func NewChild(c *Context, name string, index int, n Node) *Context {
	return &Context{parent: c, node: n, orig: n, name: name, index: index, depth: c.depth + 1}
}

// Parent returns the context of the immediate parent, or nil at the root.
func (c *Context) Parent() *Context { return c.parent }

// Node returns the current (possibly rewritten) node for this frame.
func (c *Context) Node() Node { return c.node }

// Original returns the node that was passed to preorder for this frame,
// before any cloning or rewriting.
func (c *Context) Original() Node { return c.orig }

// SetNode installs n as this frame's current node: the traversal engine
// calls this once after cloning, before preorder runs, and again after
// postorder returns a replacement for a Transform pass. Pass authors
// should not call this directly; it is exported because the engine lives
// in a different package than Context.
func (c *Context) SetNode(n Node) { c.node = n }

// ChildName returns the name of the slot this frame was entered through.
// Once the engine descends into this frame's children, SetChildPos
// overwrites it with the slot of the child being visited, so after the
// children have run it holds the last child's slot name.
func (c *Context) ChildName() string { return c.name }

// ChildIndex returns the index of this frame within its slot's vector,
// or -1 if the slot is not a vector element. Like ChildName, it is
// overwritten by SetChildPos while this frame's children are visited.
func (c *Context) ChildIndex() int { return c.index }

// Depth returns the context's depth, 1 at the root and increasing by 1
// per frame.
func (c *Context) Depth() int { return c.depth }

// SetChildPos records the slot name/index of the child about to be
// descended into, observable by that child's pre/postorder via its own
// parent context (§4.2's "sibling awareness"). Exported for the
// traversal engine, which lives in a different package; pass authors
// should not call it.
func (c *Context) SetChildPos(name string, index int) {
	c.name = name
	c.index = index
}

// FindContext walks the chain of ancestors of c (c itself is never
// considered a match — callers always pass the current node's own
// frame, and this searches strictly above it) for the nearest frame
// whose current node downcasts to T.
func FindContext[T Node](c *Context) (T, bool) {
	for p := ancestorsOf(c); p != nil; p = p.parent {
		if t, ok := As[T](p.node); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// FindOrigContext is FindContext over each ancestor frame's Original
// node rather than its current node.
func FindOrigContext[T Node](c *Context) (T, bool) {
	for p := ancestorsOf(c); p != nil; p = p.parent {
		if t, ok := As[T](p.orig); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// IsInContext reports whether any strict ancestor frame's current node
// downcasts to T.
func IsInContext[T Node](c *Context) bool {
	_, ok := FindContext[T](c)
	return ok
}

// IsInContextNode reports whether n (compared by identity) occupies any
// frame in the chain rooted at c, including c itself, as either the
// current or the original node.
func IsInContextNode(c *Context, n Node) bool {
	for p := c; p != nil; p = p.parent {
		if p.node == n || p.orig == n {
			return true
		}
	}
	return false
}

func ancestorsOf(c *Context) *Context {
	if c == nil {
		return nil
	}
	return c.parent
}

// ParentOf returns the parent frame's node downcast to T, or the zero
// value and false if there is no parent frame or it does not downcast.
func ParentOf[T Node](c *Context) (T, bool) {
	var zero T
	if c == nil || c.parent == nil {
		return zero, false
	}
	return As[T](c.parent.node)
}
