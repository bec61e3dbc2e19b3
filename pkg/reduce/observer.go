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
	"github.com/consensys/go-edaparse/pkg/ptree"
	log "github.com/sirupsen/logrus"
)

// LogObserver reports every reduction step at trace level.
type LogObserver struct {
	// Grammar name included with every entry
	Grammar string
	depth   int
}

// NewLogObserver constructs an observer which traces reduction steps through
// the standard logger.  Returns nil when trace logging is disabled, so that
// reduction pays nothing for it.
func NewLogObserver(grammar string) Observer {
	if !log.IsLevelEnabled(log.TraceLevel) {
		return nil
	}
	//
	return &LogObserver{Grammar: grammar}
}

// Enter implementation for Observer interface.
func (p *LogObserver) Enter(rule string, node *ptree.Node) {
	p.depth++
	//
	log.WithFields(log.Fields{
		"grammar":  p.Grammar,
		"rule":     rule,
		"line":     node.Line,
		"depth":    p.depth,
		"children": len(node.Children),
	}).Trace("enter")
}

// Leave implementation for Observer interface.
func (p *LogObserver) Leave(rule string, node *ptree.Node, consumed int, err error) {
	entry := log.WithFields(log.Fields{
		"grammar":  p.Grammar,
		"rule":     rule,
		"line":     node.Line,
		"depth":    p.depth,
		"consumed": consumed,
	})
	//
	if err != nil {
		entry.WithError(err).Trace("failed")
	} else {
		entry.Trace("reduced")
	}
	//
	p.depth--
}
