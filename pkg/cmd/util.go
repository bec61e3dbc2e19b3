// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-edaparse/pkg/reduce"
	"github.com/consensys/go-edaparse/pkg/util/source"
	"github.com/consensys/go-edaparse/pkg/util/termio"
	"github.com/consensys/go-edaparse/pkg/verilog"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// Read the given source files, or exit if any cannot be read.
func readSourceFiles(filenames ...string) []*source.File {
	files := make([]*source.File, len(filenames))
	//
	for i, filename := range filenames {
		bytes, err := os.ReadFile(filename)
		if err != nil {
			fmt.Println(pkgerrors.Wrapf(err, "reading %s", filename))
			os.Exit(2)
		}
		//
		files[i] = source.NewSourceFile(filename, bytes)
	}
	//
	return files
}

// Parse a set of source files concurrently.  Results are returned in the order
// of the given files, and the first error encountered (if any) is reported.
func parseFiles[T any](files []*source.File, parse func(*source.File) (T, error)) ([]T, error) {
	var (
		results = make([]T, len(files))
		group   errgroup.Group
	)
	//
	for i, file := range files {
		i, file := i, file
		group.Go(func() error {
			r, err := parse(file)
			if errors.Is(err, source.ErrEmptyInput) {
				return pkgerrors.Wrapf(err, "parsing %s", file.Filename())
			} else if err != nil {
				return err
			}
			//
			results[i] = r
			//
			return nil
		})
	}
	//
	return results, group.Wait()
}

// Report an error arising from parsing or flattening, and exit.
func reportError(err error) {
	var (
		serr *source.SyntaxError
		rerr *reduce.Error
		ferr *verilog.FlattenError
	)
	//
	switch {
	case errors.As(err, &serr):
		printSyntaxError(serr)
	case errors.As(err, &rerr):
		fmt.Printf("%s: %s\n", errorLabel(), rerr.Error())
	case errors.As(err, &ferr):
		fmt.Printf("%s: %s\n", errorLabel(), ferr.Error())
	default:
		fmt.Println(err)
	}
	//
	os.Exit(1)
}

// Print a syntax error along with the offending line, and a highlight beneath
// the span in question.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := max(0, span.Start()-line.Start())
	// Calculate length (ensures don't overflow line)
	length := max(1, min(line.Length()-lineOffset, span.Length()))
	highlight := strings.Repeat("^", length)
	//
	if termio.IsTerminal(os.Stdout) {
		highlight = termio.NewAnsiEscape().Bold().FgColour(termio.TERM_RED).Wrap(highlight)
	}
	// Print error + line number
	fmt.Printf("%s:%d:%d %s: %s\n", err.SourceFile().Filename(), line.Number(), 1+lineOffset,
		errorLabel(), err.Message())
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(highlight)
}

func errorLabel() string {
	if termio.IsTerminal(os.Stdout) {
		return termio.NewAnsiEscape().Bold().FgColour(termio.TERM_RED).Wrap("error")
	}
	//
	return "error"
}
