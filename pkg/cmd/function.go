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
	"strings"

	"github.com/consensys/go-edaparse/pkg/liberty/function"
	"github.com/spf13/cobra"
)

var functionCmd = &cobra.Command{
	Use:   "function [flags] expr(s)",
	Short: "parse one or more Liberty pin functions.",
	Long: `Parse Boolean pin function expressions, such as "!(A1 A2) + B",
	and print them in fully parenthesised form.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(2)
		}
		//
		ports := GetFlag(cmd, "ports")
		//
		for _, arg := range args {
			expr, err := function.Parse(arg)
			if err != nil {
				reportError(err)
			}
			//
			if ports {
				fmt.Printf("%s\t[%s]\n", expr.String(), strings.Join(function.Ports(expr), ", "))
			} else {
				fmt.Println(expr.String())
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(functionCmd)
	functionCmd.Flags().Bool("ports", false, "list the ports referenced by each function")
}
