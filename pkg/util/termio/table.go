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
package termio

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// TablePrinter is useful for printing tables to the terminal.  Columns are
// left aligned and sized to fit their widest cell.
type TablePrinter struct {
	header        []string
	widths        []int
	rows          [][]string
	enableEscapes bool
}

// NewTablePrinter constructs a new table with the given column headings.
func NewTablePrinter(header ...string) *TablePrinter {
	widths := make([]int, len(header))
	//
	for i, h := range header {
		widths[i] = utf8.RuneCountInString(h)
	}
	//
	return &TablePrinter{header, widths, nil, false}
}

// AnsiEscapes enables or disables the use of ANSI escapes when printing the
// header row.
func (p *TablePrinter) AnsiEscapes(enable bool) {
	p.enableEscapes = enable
}

// AddRow appends a row to this table.
func (p *TablePrinter) AddRow(vals ...string) {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	// Update column widths
	for i, val := range vals {
		p.widths[i] = max(p.widths[i], utf8.RuneCountInString(val))
	}
	//
	p.rows = append(p.rows, vals)
}

// Height returns the number of rows in this table, excluding the header.
func (p *TablePrinter) Height() int {
	return len(p.rows)
}

// Print the table.
func (p *TablePrinter) Print(out io.Writer) error {
	header := p.format(p.header)
	//
	if p.enableEscapes {
		header = NewAnsiEscape().Bold().Wrap(header)
	}
	//
	if _, err := fmt.Fprintln(out, header); err != nil {
		return err
	}
	//
	for _, row := range p.rows {
		if _, err := fmt.Fprintln(out, p.format(row)); err != nil {
			return err
		}
	}
	//
	return nil
}

func (p *TablePrinter) format(row []string) string {
	cells := make([]string, len(row))
	//
	for i, cell := range row {
		cells[i] = cell + strings.Repeat(" ", p.widths[i]-utf8.RuneCountInString(cell))
	}
	//
	return strings.TrimRight(strings.Join(cells, " | "), " ")
}
