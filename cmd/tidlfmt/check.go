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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tidl.org/go/tidl/errors"
	"tidl.org/go/tidl/parser"
	"tidl.org/go/tidl/token"
)

type checkFlags struct {
	json bool
}

func newCheckCmd() *cobra.Command {
	flags := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "parse files and report diagnostics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, flags, args)
		},
	}
	addCheckFlags(cmd.Flags(), flags)
	return cmd
}

func addCheckFlags(f *pflag.FlagSet, flags *checkFlags) {
	f.BoolVar(&flags.json, "json", false, "emit diagnostics as JSON")
}

func runCheck(cmd *cobra.Command, flags *checkFlags, args []string) error {
	failed := false
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, diags := parser.Parse(path, src, parser.Options{})
		if diags.HasErrors() {
			failed = true
		}
		if flags.json {
			if err := printJSON(cmd, diags); err != nil {
				return err
			}
			continue
		}
		errors.Print(cmd.OutOrStdout(), diags, nil)
	}
	if failed {
		return fmt.Errorf("found syntax errors")
	}
	return nil
}

func printJSON(cmd *cobra.Command, diags errors.List) error {
	out := make([]token.PortableError, 0, diags.Len())
	for _, d := range diags {
		out = append(out, token.PortableError{
			PositionJSON: d.Position().ToPortable(),
			CodeJSON:     string(d.Code()),
			MsgJSON:      d.Error(),
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
