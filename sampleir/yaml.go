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

package sampleir

import (
	"io"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/blackdragoon26/p4c-ir/ir"
)

// rawNode is the YAML-level shape every node kind decodes into; fields
// irrelevant to a given kind are simply left zero. This is a test
// fixture format, not a serialization feature of the core (see
// SPEC_FULL.md's Non-goals).
type rawNode struct {
	Kind string `yaml:"kind"`

	Target string   `yaml:"target,omitempty"`
	Value  *rawNode `yaml:"value,omitempty"`

	Cond *rawNode `yaml:"cond,omitempty"`
	Then *rawNode `yaml:"then,omitempty"`
	Else *rawNode `yaml:"else,omitempty"`
	Body *rawNode `yaml:"body,omitempty"`

	Stmts []*rawNode `yaml:"stmts,omitempty"`

	Op    string   `yaml:"op,omitempty"`
	Left  *rawNode `yaml:"left,omitempty"`
	Right *rawNode `yaml:"right,omitempty"`

	Name string `yaml:"name,omitempty"`

	Bool *bool  `yaml:"bool,omitempty"`
	Int  *int64 `yaml:"int,omitempty"`

	Table string `yaml:"table,omitempty"`
}

// Load decodes a single YAML document from r into a sampleir tree.
func Load(r io.Reader) (ir.Node, error) {
	var root rawNode
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, xerrors.Errorf("decoding sample ir fixture: %w", err)
	}
	return build(&root)
}

// LoadBytes is Load over an in-memory document, convenient for tests and
// for the CLI reading a fixture from standard input ("-").
func LoadBytes(data []byte) (ir.Node, error) {
	var root rawNode
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, xerrors.Errorf("decoding sample ir fixture: %w", err)
	}
	return build(&root)
}

func build(n *rawNode) (ir.Node, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Kind {
	case "block":
		stmts := make([]ir.Node, len(n.Stmts))
		for i, s := range n.Stmts {
			c, err := build(s)
			if err != nil {
				return nil, err
			}
			stmts[i] = c
		}
		return &Block{Stmts: stmts}, nil

	case "assign":
		v, err := build(n.Value)
		if err != nil {
			return nil, err
		}
		return &Assign{Target: n.Target, Value: v}, nil

	case "if":
		cond, err := build(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := build(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := build(n.Else)
		if err != nil {
			return nil, err
		}
		return &If{Cond: cond, Then: then, Else: els}, nil

	case "loop":
		cond, err := build(n.Cond)
		if err != nil {
			return nil, err
		}
		body, err := build(n.Body)
		if err != nil {
			return nil, err
		}
		return &Loop{Cond: cond, Body: body}, nil

	case "binop":
		left, err := build(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := build(n.Right)
		if err != nil {
			return nil, err
		}
		return &BinExpr{Op: n.Op, Left: left, Right: right}, nil

	case "ident":
		return &Ident{Name: n.Name}, nil

	case "lit":
		switch {
		case n.Bool != nil:
			return &Lit{Value: *n.Bool}, nil
		case n.Int != nil:
			return &Lit{Value: *n.Int}, nil
		default:
			return nil, xerrors.Errorf("lit node at top level must set bool or int")
		}

	case "tablehit":
		return &TableHit{Table: n.Table}, nil

	case "":
		return nil, nil

	default:
		return nil, xerrors.Errorf("unknown sample ir node kind %q", n.Kind)
	}
}
