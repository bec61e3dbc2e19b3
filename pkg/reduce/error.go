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
package reduce

import (
	"fmt"

	"github.com/consensys/go-edaparse/pkg/ptree"
	"github.com/consensys/go-edaparse/pkg/util/source"
)

// ErrorKind classifies the errors which can arise during reduction.
type ErrorKind uint8

const (
	// UnknownRule indicates a parse tree node whose rule has no builder.
	UnknownRule ErrorKind = iota
	// TypeMismatch indicates a builder found an item of the wrong variant in its
	// buffer (or no item at all).
	TypeMismatch
	// MalformedNumber indicates numeric text which could not be converted.
	MalformedNumber
	// Unbalanced indicates a builder which left items in its buffer.
	Unbalanced
	// InvalidConstruct indicates a well-formed tree which nevertheless
	// describes something meaningless (e.g. duplicate names).
	InvalidConstruct
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownRule:
		return "unknown rule"
	case TypeMismatch:
		return "type mismatch"
	case MalformedNumber:
		return "malformed number"
	case Unbalanced:
		return "unbalanced reduction"
	case InvalidConstruct:
		return "invalid construct"
	}
	//
	return "unknown error"
}

// Error is raised by the reduction engine, or by the builders it invokes.  It
// identifies the offending node (by rule name, span and line) along with
// information specific to the kind of error.
type Error struct {
	Kind ErrorKind
	// Name of the rule being reduced.
	Rule string
	Span source.Span
	Line int
	// Expected and Found describe the variants involved in a type mismatch.
	Expected string
	Found    string
	// Context gives a free-form explanation.
	Context string
	// Text matched by the offending node.
	Text string
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownRule:
		return fmt.Sprintf("line %d: unknown rule %s", e.Line, e.Rule)
	case TypeMismatch:
		return fmt.Sprintf("line %d: type mismatch in %s (expected %s, found %s)", e.Line, e.Rule, e.Expected, e.Found)
	case MalformedNumber:
		return fmt.Sprintf("line %d: malformed number %q", e.Line, e.Text)
	}
	//
	return fmt.Sprintf("line %d: %s in %s (%s)", e.Line, e.Kind, e.Rule, e.Context)
}

func newError(kind ErrorKind, grammar *ptree.Grammar, node *ptree.Node) *Error {
	return &Error{Kind: kind, Rule: grammar.RuleName(node.Rule), Span: node.Span, Line: node.Line, Text: node.Text}
}
