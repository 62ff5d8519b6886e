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

package treeutil

import (
	"tidl.org/go/tidl/ast"
	"tidl.org/go/tidl/token"
)

// contains reports whether p falls within n's inclusive range [Pos(), End()].
func contains(n ast.Node, p token.Pos) bool {
	return n.Pos().Offset() <= p.Offset() && p.Offset() <= n.End().Offset()
}

// GetNodeAtPosition returns the deepest node in script whose inclusive range
// contains p, descending into children in preference to returning an
// ancestor. If filter is non-nil, the search stops descending past the
// first node for which filter returns true and returns that node instead.
func GetNodeAtPosition(script *ast.ScriptNode, p token.Pos, filter func(ast.Node) bool) ast.Node {
	var found ast.Node = script
	if !contains(script, p) {
		return nil
	}
	if filter != nil && filter(script) {
		return script
	}

	var descend func(n ast.Node)
	descend = func(n ast.Node) {
		VisitChildren(n, func(child ast.Node) {
			if !contains(child, p) {
				return
			}
			found = child
			if filter != nil && filter(child) {
				return
			}
			descend(child)
		})
	}
	descend(script)
	return found
}
