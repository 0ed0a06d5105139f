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
	"fmt"
	"strings"

	"github.com/blackdragoon26/p4c-ir/ir"
)

// Dump renders n as an indented, deterministic text tree, for golden
// tests to diff with github.com/kylelemons/godebug/diff.Diff (node
// pointers themselves aren't meaningfully comparable across a rewrite,
// so tests compare this textual form instead).
func Dump(n ir.Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n ir.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n == nil {
		fmt.Fprintf(b, "%s<nil>\n", indent)
		return
	}
	switch v := n.(type) {
	case *Block:
		fmt.Fprintf(b, "%sblock\n", indent)
		for _, s := range v.Stmts {
			dump(b, s, depth+1)
		}
	case *Assign:
		fmt.Fprintf(b, "%sassign %s\n", indent, v.Target)
		dump(b, v.Value, depth+1)
	case *If:
		fmt.Fprintf(b, "%sif\n", indent)
		dump(b, v.Cond, depth+1)
		fmt.Fprintf(b, "%sthen\n", indent)
		dump(b, v.Then, depth+1)
		if v.Else != nil {
			fmt.Fprintf(b, "%selse\n", indent)
			dump(b, v.Else, depth+1)
		}
	case *Loop:
		fmt.Fprintf(b, "%sloop\n", indent)
		dump(b, v.Cond, depth+1)
		dump(b, v.Body, depth+1)
	case *BinExpr:
		fmt.Fprintf(b, "%sbinop %s\n", indent, v.Op)
		dump(b, v.Left, depth+1)
		dump(b, v.Right, depth+1)
	case *Ident:
		fmt.Fprintf(b, "%sident %s\n", indent, v.Name)
	case *Lit:
		fmt.Fprintf(b, "%slit %v\n", indent, v.Value)
	case *TableHit:
		fmt.Fprintf(b, "%stablehit %s\n", indent, v.Table)
	default:
		fmt.Fprintf(b, "%s%s\n", indent, n.Kind())
	}
}
