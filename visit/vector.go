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

package visit

import "github.com/blackdragoon26/p4c-ir/ir"

// spliceVector rebuilds a vector child slot from a Transform's
// per-element results: a nil result deletes that element, an *ir.Many
// splices its Nodes in its place (flattened exactly one level, not
// recursively), and anything else replaces the element in place. orig
// and results must be the same length.
func spliceVector(orig []ir.Node, results []ir.Node) []ir.Node {
	out := make([]ir.Node, 0, len(orig))
	for i, r := range results {
		_ = orig[i]
		if r == nil {
			continue
		}
		if many, ok := ir.As[*ir.Many](r); ok {
			out = append(out, many.Nodes...)
			continue
		}
		out = append(out, r)
	}
	return out
}
