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
package export

import (
	_ "embed"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pkg/errors"
)

//go:embed schema.cue
var schemaSource []byte

// Definitions within the schema.
const (
	LIBRARY = "#Library"
	DESIGN  = "#Design"
)

// Validator checks JSON documents against the embedded schema.  Validators are
// safe for concurrent use.
type Validator struct {
	mutex  sync.Mutex
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource)
	//
	if schema.Err() != nil {
		return nil, errors.Wrap(schema.Err(), "compiling schema")
	}
	//
	return &Validator{ctx: ctx, schema: schema}, nil
}

// Validate a JSON document against a given definition of the schema (e.g.
// "#Library").
func (v *Validator) Validate(definition string, document []byte) error {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	//
	def := v.schema.LookupPath(cue.ParsePath(definition))
	if def.Err() != nil {
		return errors.Wrapf(def.Err(), "looking up %s", definition)
	}
	//
	data := v.ctx.CompileBytes(document)
	if data.Err() != nil {
		return errors.Wrap(data.Err(), "compiling document")
	}
	//
	if err := def.Unify(data).Validate(cue.Concrete(true)); err != nil {
		return errors.Wrapf(err, "document does not match %s", definition)
	}
	//
	return nil
}

var defaultValidator = sync.OnceValues(NewValidator)
