// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package metajson

import (
	"fmt"

	"github.com/bureau-foundation/metajson/lib/typeprog"
	"github.com/bureau-foundation/metajson/lib/valuebuf"
)

// enum writes the name of the constant whose value is stored at addr.
func (w *walker) enum(op *typeprog.Op, addr valuebuf.Address) error {
	value, err := w.memory.Int32(addr)
	if err != nil {
		return w.fail(BufferOverrun, op, err)
	}
	schema, err := w.registry.Enum(op.Type)
	if err != nil {
		return w.fail(UnknownSchema, op, err)
	}
	name, ok := schema.Lookup(value)
	if !ok {
		return w.fail(UnknownEnumValue, op, fmt.Errorf("no constant has value %d", value))
	}
	w.out.AppendString(name)
	return nil
}

// flagSet writes the bitmask stored at addr. Zero is the bare literal
// 0. Otherwise constants are matched in declaration order: every
// constant whose bits are all still set is written and its bits are
// cleared, so with overlapping patterns the earlier declaration wins.
// Names are joined with "|" inside one JSON string. Bits that no
// constant claims fail the value.
func (w *walker) flagSet(op *typeprog.Op, addr valuebuf.Address) error {
	value, err := w.memory.Uint32(addr)
	if err != nil {
		return w.fail(BufferOverrun, op, err)
	}
	if value == 0 {
		w.out.AppendRaw("0")
		return nil
	}
	schema, err := w.registry.FlagSet(op.Type)
	if err != nil {
		return w.fail(UnknownSchema, op, err)
	}

	remaining := value
	w.out.Push(`"`, "|")
	for _, constant := range schema.Constants() {
		if remaining&constant.Value == constant.Value {
			w.out.Next()
			w.out.AppendUnquoted(constant.Name)
			remaining &^= constant.Value
		}
	}
	w.out.Pop(`"`)

	if remaining != 0 {
		return w.fail(UnmatchedFlagBits, op, fmt.Errorf("%#x has unmatched bits %#x", value, remaining))
	}
	return nil
}

// reference writes the entity handle stored at addr: 0 for no entity,
// otherwise the resolver's path as a string.
func (w *walker) reference(op *typeprog.Op, addr valuebuf.Address) error {
	handle, err := w.memory.Uint64(addr)
	if err != nil {
		return w.fail(BufferOverrun, op, err)
	}
	if handle == 0 {
		w.out.AppendRaw("0")
		return nil
	}
	if w.resolver == nil {
		return w.fail(UnresolvableReference, op, fmt.Errorf("handle %#x: no resolver configured", handle))
	}
	path, ok := w.resolver.Resolve(handle)
	if !ok {
		return w.fail(UnresolvableReference, op, fmt.Errorf("handle %#x has no path", handle))
	}
	w.out.AppendString(path)
	return nil
}
