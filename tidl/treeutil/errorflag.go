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

import "tidl.org/go/tidl/ast"

// HasParseError reports whether n, or any of its descendants, was marked
// with ast.ThisNodeHasError during parsing. The descendant scan is memoized
// on the node itself via ast.DescendantErrorsExamined/ast.DescendantHasError,
// so repeated calls on the same node are O(1) after the first.
//
// Callers that run HasParseError concurrently across goroutines
// sharing one tree must guard this memoization themselves (e.g. materialize
// it eagerly at the end of parsing, or make the flag bits atomic); a single
// parse's own goroutine calling this repeatedly is always safe.
func HasParseError(n ast.Node) bool {
	flags := n.Flags()
	if flags.Has(ast.ThisNodeHasError) {
		return true
	}
	if flags.Has(ast.DescendantErrorsExamined) {
		return flags.Has(ast.DescendantHasError)
	}

	found := false
	VisitChildren(n, func(child ast.Node) {
		if HasParseError(child) {
			found = true
		}
	})

	flags |= ast.DescendantErrorsExamined
	if found {
		flags |= ast.DescendantHasError
	}
	n.SetFlags(flags)
	return found
}
