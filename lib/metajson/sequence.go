// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package metajson

import (
	"fmt"

	"github.com/bureau-foundation/metajson/lib/typeprog"
	"github.com/bureau-foundation/metajson/lib/valuebuf"
)

// array writes a fixed-size array. The count is part of the array
// type; the element program and stride come from the element type.
func (w *walker) array(op *typeprog.Op, addr valuebuf.Address) error {
	schema, err := w.registry.Array(op.Type)
	if err != nil {
		return w.fail(UnknownSchema, op, err)
	}
	program, layout, err := w.element(schema.Element)
	if err != nil {
		return w.fail(UnknownSchema, op, err)
	}
	return w.sequence(op, program.Ops(), addr, int(schema.Count), layout.Size)
}

// vector writes a dynamic vector. A null handle is the literal null;
// a vector with no elements is [].
func (w *walker) vector(op *typeprog.Op, addr valuebuf.Address) error {
	handle, err := w.memory.Address(addr)
	if err != nil {
		return w.fail(BufferOverrun, op, err)
	}
	if handle == valuebuf.Null {
		w.out.AppendRaw("null")
		return nil
	}

	schema, err := w.registry.Vector(op.Type)
	if err != nil {
		return w.fail(UnknownSchema, op, err)
	}
	program, layout, err := w.element(schema.Element)
	if err != nil {
		return w.fail(UnknownSchema, op, err)
	}
	count, elements, err := w.memory.Vector(handle, layout.Size, layout.Alignment)
	if err != nil {
		return w.fail(BufferOverrun, op, err)
	}
	return w.sequence(op, program.Ops(), elements, count, layout.Size)
}

func (w *walker) element(id typeprog.SchemaID) (*typeprog.Program, typeprog.Layout, error) {
	program, err := w.registry.Program(id)
	if err != nil {
		return nil, typeprog.Layout{}, fmt.Errorf("element type: %w", err)
	}
	if program == nil || program.Len() == 0 {
		return nil, typeprog.Layout{}, fmt.Errorf("element type %d has an empty program", id)
	}
	layout, err := w.registry.Layout(id)
	if err != nil {
		return nil, typeprog.Layout{}, fmt.Errorf("element layout: %w", err)
	}
	return program, layout, nil
}

// sequence writes count elements as a JSON array, running ops once per
// element with the base advanced by stride each time. Each element is
// a separate walk, so the first op of ops is written unnamed.
func (w *walker) sequence(op *typeprog.Op, ops []typeprog.Op, base valuebuf.Address, count int, stride uint32) error {
	if err := w.enter(op); err != nil {
		return err
	}
	w.out.OpenArray()
	for k := 0; k < count; k++ {
		w.out.Next()
		w.pushIndex(k)
		element := base + valuebuf.Address(uint64(k)*uint64(stride))
		if err := w.run(ops, element); err != nil {
			return err
		}
		w.popTo(len(w.path) - 1)
	}
	w.out.CloseArray()
	w.leave()
	return nil
}
