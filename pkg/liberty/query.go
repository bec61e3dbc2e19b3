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
package liberty

// SimpleAttribute returns the first simple attribute with the given name which
// is an immediate child of this group.
func (p *Group) SimpleAttribute(name string) (*SimpleAttr, bool) {
	for _, child := range p.Children {
		if attr := child.AsSimpleAttr(); attr != nil && attr.Name == name {
			return attr, true
		}
	}
	//
	return nil, false
}

// ComplexAttribute returns the first complex attribute with the given name
// which is an immediate child of this group.
func (p *Group) ComplexAttribute(name string) (*ComplexAttr, bool) {
	for _, child := range p.Children {
		if attr := child.AsComplexAttr(); attr != nil && attr.Name == name {
			return attr, true
		}
	}
	//
	return nil, false
}

// Groups returns all immediate subgroups of a given kind (e.g. "cell").
func (p *Group) Groups(kind string) []*Group {
	var groups []*Group
	//
	for _, child := range p.Children {
		if group := child.AsGroup(); group != nil && group.Kind == kind {
			groups = append(groups, group)
		}
	}
	//
	return groups
}

// Find returns the immediate subgroup of a given kind and name.
func (p *Group) Find(kind string, name string) (*Group, bool) {
	for _, group := range p.Groups(kind) {
		if group.Name == name {
			return group, true
		}
	}
	//
	return nil, false
}

// Walk visits every statement contained within this group (including nested
// statements) in depth-first order, stopping early if the visitor returns
// false.
func (p *Group) Walk(visitor func(Statement) bool) bool {
	for _, child := range p.Children {
		if !visitor(child) {
			return false
		} else if group := child.AsGroup(); group != nil && !group.Walk(visitor) {
			return false
		}
	}
	//
	return true
}
