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
package ptree

import (
	"fmt"
	"strings"

	"github.com/consensys/go-edaparse/pkg/util/source"
)

// Rule identifies the grammar production which matched a given node.  Rules are
// only meaningful with respect to the grammar which produced them.
type Rule uint

// Grammar associates a name with each rule of a given grammar, and is used
// purely for reporting.
type Grammar struct {
	name  string
	rules []string
}

// NewGrammar constructs a grammar description from the names of its rules,
// where the ith name is that of rule i.
func NewGrammar(name string, rules ...string) *Grammar {
	return &Grammar{name, rules}
}

// Name returns the name of this grammar.
func (g *Grammar) Name() string {
	return g.name
}

// RuleName returns the name of a given rule in this grammar.
func (g *Grammar) RuleName(rule Rule) string {
	if int(rule) < len(g.rules) {
		return g.rules[rule]
	}
	//
	return fmt.Sprintf("rule#%d", rule)
}

// Node is a single node of a concrete parse tree, as produced by a grammar
// engine.  Nodes carry no semantic values: they merely record which rule
// matched, where it matched and what text was matched.  Children are ordered
// by their position in the source.
type Node struct {
	Rule Rule
	// Span of the matched text within the source file.
	Span source.Span
	// Line number (counting from 1) where the matched text starts.
	Line int
	// Matched text
	Text     string
	Children []*Node
}

// Size returns the number of nodes in the tree rooted at this node.
func (n *Node) Size() int {
	size := 1
	//
	for _, child := range n.Children {
		size += child.Size()
	}
	//
	return size
}

// Depth returns the length of the longest path from this node to a leaf.
func (n *Node) Depth() int {
	depth := 0
	//
	for _, child := range n.Children {
		depth = max(depth, child.Depth())
	}
	//
	return depth + 1
}

// Dump returns a textual outline of the tree rooted at this node, using the
// rule names of a given grammar.
func (n *Node) Dump(grammar *Grammar) string {
	var builder strings.Builder
	//
	n.dump(grammar, 0, &builder)
	//
	return builder.String()
}

func (n *Node) dump(grammar *Grammar, indent int, builder *strings.Builder) {
	builder.WriteString(strings.Repeat("  ", indent))
	builder.WriteString(grammar.RuleName(n.Rule))
	//
	if len(n.Children) == 0 {
		builder.WriteString(fmt.Sprintf(" %q", n.Text))
	}
	//
	builder.WriteString("\n")
	//
	for _, child := range n.Children {
		child.dump(grammar, indent+1, builder)
	}
}
