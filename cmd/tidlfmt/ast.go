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

package main

import (
	"os"

	"github.com/spf13/cobra"

	"tidl.org/go/internal/astprint"
	"tidl.org/go/tidl/errors"
	"tidl.org/go/tidl/parser"
)

func newASTCmd() *cobra.Command {
	var docs bool
	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "parse a file and print its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			script, diags := parser.Parse(args[0], src, parser.Options{Docs: docs})
			astprint.Fprint(cmd.OutOrStdout(), script)
			errors.Print(cmd.ErrOrStderr(), diags, nil)
			return nil
		},
	}
	cmd.Flags().BoolVar(&docs, "docs", false, "parse doc comments into the tree")
	return cmd
}
