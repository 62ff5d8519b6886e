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

// Package astprint renders a parsed tree as an indented outline, one node
// per line. The output is meant for golden tests and the tidlfmt CLI's
// `ast` subcommand, not for reconstructing source text.
package astprint

import (
	"fmt"
	"io"
	"strings"

	"tidl.org/go/tidl/ast"
	"tidl.org/go/tidl/treeutil"
)

// Fprint writes the outline for the tree rooted at n to w.
func Fprint(w io.Writer, n ast.Node) {
	var walk func(n ast.Node, depth int)
	walk = func(n ast.Node, depth int) {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), label(n))
		treeutil.VisitChildren(n, func(child ast.Node) {
			walk(child, depth+1)
		})
	}
	walk(n, 0)
}

// Sprint returns the outline for the tree rooted at n as a string.
func Sprint(n ast.Node) string {
	var b strings.Builder
	Fprint(&b, n)
	return b.String()
}

// label renders one node as its kind name plus, for the handful of kinds
// whose identity matters in a dump, a short payload.
func label(n ast.Node) string {
	switch x := n.(type) {
	case *ast.IdentifierNode:
		return "Identifier " + x.Name
	case *ast.StringLiteralNode:
		return fmt.Sprintf("StringLiteral %q", x.Value)
	case *ast.NumericLiteralNode:
		return "NumericLiteral " + x.Value
	case *ast.BooleanLiteralNode:
		return fmt.Sprintf("BooleanLiteral %t", x.Value)
	case *ast.DocTextNode:
		return fmt.Sprintf("DocText %q", x.Text)
	case *ast.DocUnknownTagNode:
		return "DocUnknownTag " + x.TagName
	case *ast.ProjectionNode:
		return "Projection " + x.Direction
	case *ast.ProjectionSelectorNode:
		return "ProjectionSelector " + x.SelectorKind.String()
	}
	return n.Kind().String()
}
