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
package boundary

import (
	"errors"
	"fmt"
	"testing"

	"github.com/consensys/go-edaparse/pkg/verilog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestTable_00(t *testing.T) {
	table := NewTable[string]("test")
	//
	h1 := table.Box("one")
	h2 := table.Box("two")
	assert.NotEqual(t, Handle(0), h1)
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 2, table.Len())
	//
	checkGet(t, table, h1, "one")
	checkGet(t, table, h2, "two")
}

func TestTable_01(t *testing.T) {
	// Double release and use after release
	table := NewTable[string]("test")
	h := table.Box("one")
	//
	require.NoError(t, table.Release(h))
	assert.ErrorIs(t, table.Release(h), ErrInvalidHandle)
	//
	_, err := table.Get(h)
	assert.ErrorIs(t, err, ErrInvalidHandle)
	assert.Equal(t, 0, table.Len())
	// Never issued
	assert.ErrorIs(t, table.Release(0), ErrInvalidHandle)
	assert.ErrorIs(t, table.Release(42), ErrInvalidHandle)
}

func TestTable_02(t *testing.T) {
	// Handles are unique under concurrent use
	var (
		table   = NewTable[int]("test")
		group   errgroup.Group
		handles = make([]Handle, 64)
	)
	//
	for i := range handles {
		i := i
		group.Go(func() error {
			handles[i] = table.Box(i)
			return nil
		})
	}
	//
	require.NoError(t, group.Wait())
	//
	seen := make(map[Handle]bool)
	//
	for i, h := range handles {
		assert.False(t, seen[h])
		seen[h] = true
		//
		checkGet(t, table, h, i)
	}
	//
	for _, h := range handles {
		h := h
		group.Go(func() error { return table.Release(h) })
	}
	//
	require.NoError(t, group.Wait())
	assert.Equal(t, 0, table.Len())
}

func TestTable_03(t *testing.T) {
	table := NewTable[string]("test")
	h := table.Box("one")
	//
	require.NoError(t, table.Update(h, func(s string) (string, error) { return s + "!", nil }))
	checkGet(t, table, h, "one!")
	// Failed updates leave the value unchanged
	failure := errors.New("failure")
	assert.ErrorIs(t, table.Update(h, func(string) (string, error) { return "two", failure }), failure)
	checkGet(t, table, h, "one!")
	//
	require.NoError(t, table.Release(h))
	assert.ErrorIs(t, table.Update(h, func(s string) (string, error) { return s, nil }), ErrInvalidHandle)
}

func TestBuffer_00(t *testing.T) {
	items := make([]int, 3, 8)
	buffer := BufferOf(items)
	//
	assert.Equal(t, 3, buffer.Len)
	assert.Equal(t, 8, buffer.Cap)
	// Data is shared
	items[1] = 7
	assert.Equal(t, 7, buffer.At(1))
}

func TestBoundary_00(t *testing.T) {
	h, err := ParseVerilog(`module leaf (a, y); input a; output y; INV u (.I(a), .ZN(y)); endmodule
module top (x, z); input x; output z; leaf l (.a(x), .y(z)); endmodule`)
	require.NoError(t, err)
	//
	top, err := DesignModule(h, "top")
	require.NoError(t, err)
	//
	ports := ModulePorts(top)
	assert.Equal(t, 2, ports.Len)
	assert.Equal(t, verilog.IN, ports.At(0).Direction)
	//
	stmts := ModuleStatements(top)
	require.Equal(t, 3, stmts.Len)
	require.True(t, stmts.At(2).IsModuleInstStmt())
	//
	conns := InstanceConnections(stmts.At(2).(*verilog.Instance))
	assert.Equal(t, 2, conns.Len)
	assert.True(t, conns.At(0).Port.IsId())
	//
	require.NoError(t, FlattenDesign(h, "top"))
	top, err = DesignModule(h, "top")
	require.NoError(t, err)
	assert.Equal(t, "l/u", top.Instances()[0].Name)
	//
	_, err = DesignModule(h, "missing")
	checkUnknownModule(t, err, "missing")
	//
	require.NoError(t, FreeDesign(h))
	assert.ErrorIs(t, FreeDesign(h), ErrInvalidHandle)
	//
	_, err = DesignModule(h, "top")
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestBoundary_01(t *testing.T) {
	h, err := ParseLiberty(`library (lib) { time_unit : "1ns"; cell (INV) { area : 1.0; } }`)
	require.NoError(t, err)
	//
	root, err := LibertyRoot(h)
	require.NoError(t, err)
	assert.Equal(t, "lib", root.Name)
	assert.Equal(t, 2, GroupStatements(root).Len)
	//
	require.NoError(t, FreeLiberty(h))
	assert.ErrorIs(t, FreeLiberty(h), ErrInvalidHandle)
}

func TestBoundary_02(t *testing.T) {
	// Parse failures issue no handle
	before := designs.Len()
	//
	_, err := ParseVerilog("module m (a); INV u (a); endmodule")
	assert.Error(t, err)
	assert.Equal(t, before, designs.Len())
	//
	_, err = ParseLiberty("library (x) {")
	assert.Error(t, err)
}

func TestBoundary_03(t *testing.T) {
	// Flattening races with readers of the same design
	var text string
	//
	for i := 0; i < 8; i++ {
		text += fmt.Sprintf("module top%d (x, z); input x; output z; leaf l (.a(x), .y(z)); endmodule\n", i)
	}
	//
	h, err := ParseVerilog(text + "module leaf (a, y); input a; output y; INV u (.I(a), .ZN(y)); endmodule")
	require.NoError(t, err)
	//
	leaf, err := DesignModule(h, "leaf")
	require.NoError(t, err)
	//
	var group errgroup.Group
	//
	for i := 0; i < 8; i++ {
		top := fmt.Sprintf("top%d", i)
		//
		group.Go(func() error { return FlattenDesign(h, top) })
		group.Go(func() error {
			for j := 0; j < 8; j++ {
				if _, err := DesignModule(h, fmt.Sprintf("top%d", j)); err != nil {
					return err
				}
			}
			//
			_, err := DesignModule(h, "leaf")
			//
			return err
		})
	}
	//
	require.NoError(t, group.Wait())
	// No flattening is lost, and other modules are untouched
	for i := 0; i < 8; i++ {
		top, err := DesignModule(h, fmt.Sprintf("top%d", i))
		require.NoError(t, err)
		require.Len(t, top.Instances(), 1)
		assert.Equal(t, "l/u", top.Instances()[0].Name)
	}
	//
	actual, err := DesignModule(h, "leaf")
	require.NoError(t, err)
	assert.Same(t, leaf, actual)
	//
	_, err = DesignModule(h, "missing")
	checkUnknownModule(t, err, "missing")
	assert.Error(t, FlattenDesign(h, "missing"))
	//
	require.NoError(t, FreeDesign(h))
}

// ============================================================================
// Framework
// ============================================================================

func checkUnknownModule(t *testing.T, err error, name string) {
	t.Helper()
	//
	var ferr *verilog.FlattenError
	//
	require.True(t, errors.As(err, &ferr), "expected flatten error, got %v", err)
	assert.Equal(t, verilog.UnknownModule, ferr.Kind)
	assert.Equal(t, name, ferr.Module)
}

func checkGet[T any](t *testing.T, table *Table[T], handle Handle, expected T) {
	t.Helper()
	//
	actual, err := table.Get(handle)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}
