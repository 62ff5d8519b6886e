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

package parser

import (
	"tidl.org/go/tidl/ast"
	"tidl.org/go/tidl/token"
)

// nodeBaseAt builds the embeddable bookkeeping header for a node spanning
// [from, to) of the given kind. Every concrete node construction in this
// package goes through here (or markNodeError/markNodeSynthetic below)
// rather than touching ast.NodeBase's unexported fields directly.
//
// This is also where a reported diagnostic attaches to the tree: the first
// node finished after an error carries ThisNodeHasError, mirroring the
// parser's same-named pending flag.
func (p *parser) nodeBaseAt(kind ast.NodeKind, from, to token.Pos) ast.NodeBase {
	b := ast.NewNodeBase(kind, from, to)
	if p.errorBeforeNextFinishedNode {
		p.errorBeforeNextFinishedNode = false
		b.MarkError()
	}
	return b
}

// markNodeError sets ThisNodeHasError on n and clears the script-wide
// printable bit. Call this at the node that owns the
// diagnostic, not at the call site of errorf, since only the caller knows
// which node the error belongs to.
func (p *parser) markNodeError(n ast.Node) {
	n.SetFlags(n.Flags() | ast.ThisNodeHasError)
	p.treePrintable = false
}

// markNodeSynthetic sets Synthetic on n.
func (p *parser) markNodeSynthetic(n ast.Node) {
	n.SetFlags(n.Flags() | ast.Synthetic)
}
