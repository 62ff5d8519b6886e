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

package parser_test

import (
	"testing"

	"tidl.org/go/tidl/parser"
)

func FuzzParse(f *testing.F) {
	f.Add("model M { x: string; y?: int32 = 3 }")
	f.Add("namespace A.B.C;")
	f.Add("interface I { op a(): void op b(): void }")
	f.Add("projection model#p { to { return self; } }")
	f.Add("@@doc(Target, \"text\");")
	f.Add("#suppress \"code\"\nmodel M {}")
	f.Add("/** docs @param x y */ op f(x: string): void;")
	f.Add("model M { ]")
	f.Fuzz(func(t *testing.T, src string) {
		// Whatever the input, parsing must terminate and return a tree.
		script, _ := parser.Parse("fuzz.tidl", []byte(src), parser.Options{Comments: true, Docs: true})
		if script == nil {
			t.Fatal("Parse returned a nil script")
		}
	})
}
