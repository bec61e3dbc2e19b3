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
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/consensys/go-edaparse/pkg/export"
	"github.com/consensys/go-edaparse/pkg/liberty"
	"github.com/consensys/go-edaparse/pkg/liberty/function"
	"github.com/consensys/go-edaparse/pkg/util"
	"github.com/consensys/go-edaparse/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var libertyCmd = &cobra.Command{
	Use:   "liberty [flags] file(s)",
	Short: "parse one or more Liberty library files.",
	Long: `Parse one or more Liberty library files, reporting any syntax
	errors found.  Parsed libraries can be printed back as Liberty,
	exported as JSON, or have their pin functions listed.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(2)
		}
		//
		json := GetFlag(cmd, "json")
		format := GetFlag(cmd, "format")
		functions := GetFlag(cmd, "functions")
		files := readSourceFiles(args...)
		//
		stats := util.NewPerfStats()
		libraries, err := parseFiles(files, liberty.Parse)
		//
		stats.Log("Parsing Liberty files")
		//
		if err != nil {
			reportError(err)
		}
		//
		for i, library := range libraries {
			switch {
			case json:
				bytes, err := export.LibraryJSON(library)
				if err != nil {
					reportError(err)
				}
				//
				fmt.Println(string(bytes))
			case format:
				if err := liberty.Format(os.Stdout, library); err != nil {
					reportError(err)
				}
			case !functions:
				cells := library.Groups("cell")
				fmt.Printf("%s: %s %s (%d cells)\n", files[i].Filename(), library.Kind, library.Name, len(cells))
			}
			//
			if functions {
				printFunctions(library)
			}
		}
	},
}

// Print the function of every pin in every cell of a library as a table.
func printFunctions(library *liberty.Group) {
	table := termio.NewTablePrinter("cell", "pin", "function", "ports")
	table.AnsiEscapes(termio.IsTerminal(os.Stdout))
	//
	for _, cell := range library.Groups("cell") {
		fns, err := function.PinFunctions(cell)
		if err != nil {
			reportError(err)
		}
		//
		pins := make([]string, 0, len(fns))
		for pin := range fns {
			pins = append(pins, pin)
		}
		//
		slices.Sort(pins)
		//
		for _, pin := range pins {
			expr := fns[pin]
			table.AddRow(cell.Name, pin, expr.String(), strings.Join(function.Ports(expr), " "))
		}
	}
	//
	log.Debugf("found %d pin functions", table.Height())
	//
	if err := table.Print(os.Stdout); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.AddCommand(libertyCmd)
	libertyCmd.Flags().Bool("json", false, "export parsed libraries as JSON")
	libertyCmd.Flags().Bool("format", false, "print parsed libraries as Liberty")
	libertyCmd.Flags().Bool("functions", false, "list the Boolean function of every cell pin")
}
