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

// Package parsertest runs golden parser tests stored as txtar archives. An
// archive holds the input source under "in.tidl" and the expected tree
// outline plus diagnostic codes under "out". Mismatches are reported as a
// unified diff.
package parsertest

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/tools/txtar"

	"tidl.org/go/internal/astprint"
	"tidl.org/go/tidl/errors"
	"tidl.org/go/tidl/parser"
)

// Run executes every *.txtar file under dir as a subtest.
func Run(t *testing.T, dir string) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) == 0 {
		t.Fatalf("no txtar files under %s", dir)
	}
	for _, path := range matches {
		path := path
		name := strings.TrimSuffix(filepath.Base(path), ".txtar")
		t.Run(name, func(t *testing.T) {
			runOne(t, path)
		})
	}
}

func runOne(t *testing.T, path string) {
	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var src []byte
	var want string
	haveIn, haveOut := false, false
	for _, f := range ar.Files {
		switch f.Name {
		case "in.tidl":
			src, haveIn = f.Data, true
		case "out":
			want, haveOut = string(f.Data), true
		}
	}
	if !haveIn || !haveOut {
		t.Fatalf("%s: archive must contain files %q and %q", path, "in.tidl", "out")
	}

	got := render(filepath.Base(path), src)
	if got == want {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Errorf("%s: output mismatch:\n%s", path, diff)
}

// render produces the golden form: the tree outline followed by one
// "diag: <severity> <code>" line per diagnostic, in position order (Parse
// sorts the list and drops duplicates before returning it).
func render(name string, src []byte) string {
	script, diags := parser.Parse(name, src, parser.Options{Docs: true})
	var b strings.Builder
	astprint.Fprint(&b, script)
	for _, d := range diags {
		sev := "error"
		if d.Severity() == errors.Warning {
			sev = "warning"
		}
		b.WriteString("diag: " + sev + " " + string(d.Code()) + "\n")
	}
	return b.String()
}
