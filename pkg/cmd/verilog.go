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

	"github.com/consensys/go-edaparse/pkg/export"
	"github.com/consensys/go-edaparse/pkg/util"
	"github.com/consensys/go-edaparse/pkg/verilog"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verilogCmd = &cobra.Command{
	Use:   "verilog [flags] file(s)",
	Short: "parse one or more structural Verilog netlists.",
	Long: `Parse one or more gate-level Verilog netlists into a single design,
	reporting any syntax errors found.  The design can then be flattened
	into a given top module, printed back as Verilog or exported as JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(2)
		}
		//
		json := GetFlag(cmd, "json")
		format := GetFlag(cmd, "format")
		flatten := GetFlag(cmd, "flatten")
		top := GetString(cmd, "top")
		config := verilog.FlattenConfig{Separator: GetString(cmd, "separator")}
		//
		if flatten && top == "" {
			fmt.Println("flattening requires a top module (--top)")
			os.Exit(2)
		}
		//
		files := readSourceFiles(args...)
		stats := util.NewPerfStats()
		designs, err := parseFiles(files, verilog.Parse)
		//
		stats.Log("Parsing Verilog files")
		//
		if err != nil {
			reportError(err)
		}
		// Combine all modules into one design
		design, err := verilog.NewDesign()
		if err != nil {
			reportError(err)
		}
		//
		for _, d := range designs {
			for _, m := range d.Modules() {
				if err := design.Add(m); err != nil {
					reportError(err)
				}
			}
		}
		//
		if flatten {
			stats = util.NewPerfStats()
			//
			flat, err := verilog.FlattenWith(design, top, config)
			if err != nil {
				reportError(err)
			}
			// Only the flattened module is of interest now.
			if design, err = verilog.NewDesign(flat); err != nil {
				reportError(err)
			}
			//
			stats.Log(fmt.Sprintf("Flattening %s", top))
		} else if top != "" {
			m, ok := design.Module(top)
			if !ok {
				reportError(&verilog.FlattenError{Kind: verilog.UnknownModule, Module: top})
			}
			//
			if design, err = verilog.NewDesign(m); err != nil {
				reportError(err)
			}
		}
		//
		switch {
		case json:
			bytes, err := export.DesignJSON(design)
			if err != nil {
				reportError(err)
			}
			//
			fmt.Println(string(bytes))
		case format:
			if err := verilog.Format(os.Stdout, design); err != nil {
				reportError(err)
			}
		default:
			for _, m := range design.Modules() {
				fmt.Printf("module %s: %d ports, %d declarations, %d instances\n", m.Name, len(m.Ports),
					len(m.Declarations()), len(m.Instances()))
			}
		}
		//
		log.Debugf("processed %d module(s)", len(design.Modules()))
	},
}

func init() {
	rootCmd.AddCommand(verilogCmd)
	verilogCmd.Flags().Bool("json", false, "export the design as JSON")
	verilogCmd.Flags().Bool("format", false, "print the design as Verilog")
	verilogCmd.Flags().Bool("flatten", false, "flatten the design into its top module")
	verilogCmd.Flags().String("top", "", "restrict output to a given top module")
	verilogCmd.Flags().String("separator", "/", "separator used to build hierarchical names when flattening")
}
