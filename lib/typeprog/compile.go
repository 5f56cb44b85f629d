// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package typeprog

import (
	"errors"
	"fmt"
	"math"
)

// Compile registers the built-in types and the given declarations and
// compiles a program for every type.
//
// Declarations may reference each other in any order. Containment by
// value (struct members and array elements) must be acyclic; vectors
// hold their elements out of line and may refer back to an enclosing
// type.
//
// Layout follows C rules: members are placed at the next multiple of
// their alignment, and a struct's size is rounded up to its largest
// member alignment. Enums and bitmasks are 4 bytes; strings, vectors,
// and entity handles are 8.
func Compile(decls []TypeDecl) (*Table, error) {
	c := &compiler{
		table: &Table{byName: make(map[string]SchemaID)},
		decls: make(map[SchemaID]*TypeDecl),

		memberTypes:   make(map[SchemaID][]SchemaID),
		memberOffsets: make(map[SchemaID][]uint32),
		layoutState:   make(map[SchemaID]visitState),
	}
	c.registerBuiltins()

	var declared []SchemaID
	for i := range decls {
		decl := &decls[i]
		id, err := c.declare(decl)
		if err != nil {
			return nil, err
		}
		declared = append(declared, id)
	}

	for _, id := range declared {
		if err := c.buildSchema(id); err != nil {
			return nil, c.wrap(id, err)
		}
	}
	for _, id := range declared {
		if _, err := c.resolveLayout(id); err != nil {
			return nil, c.wrap(id, err)
		}
	}
	for _, id := range declared {
		if err := c.buildProgram(id); err != nil {
			return nil, c.wrap(id, err)
		}
	}

	return c.table, nil
}

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	visited
)

type compiler struct {
	table *Table
	decls map[SchemaID]*TypeDecl

	// Per struct: member type ids and offsets, filled by resolveLayout.
	memberTypes   map[SchemaID][]SchemaID
	memberOffsets map[SchemaID][]uint32
	layoutState   map[SchemaID]visitState
}

func (c *compiler) wrap(id SchemaID, err error) error {
	return fmt.Errorf("type %q: %w", c.table.entries[id-1].name, err)
}

func (c *compiler) add(e entry) SchemaID {
	c.table.entries = append(c.table.entries, e)
	id := SchemaID(len(c.table.entries))
	c.table.byName[e.name] = id
	return id
}

func (c *compiler) registerBuiltins() {
	for kind := Bool; kind <= String; kind++ {
		size := kind.Size()
		c.add(entry{
			name:    kind.String(),
			kind:    KindPrimitive,
			layout:  Layout{Size: size, Alignment: size},
			program: MustProgram(Op{Kind: OpPrimitive, Primitive: kind, OpCount: 1}),
		})
	}
	c.add(entry{
		name:    EntityTypeName,
		kind:    KindEntity,
		layout:  Layout{Size: HandleSize, Alignment: HandleSize},
		program: MustProgram(Op{Kind: OpReference, OpCount: 1}),
	})
}

func (c *compiler) declare(decl *TypeDecl) (SchemaID, error) {
	if decl.Name == "" {
		return 0, errors.New("type declaration without a name")
	}
	if existing, exists := c.table.byName[decl.Name]; exists {
		if c.table.entries[existing-1].kind == KindPrimitive || c.table.entries[existing-1].kind == KindEntity {
			return 0, fmt.Errorf("type %q: redefines a built-in type", decl.Name)
		}
		return 0, fmt.Errorf("type %q: declared more than once", decl.Name)
	}
	kind := decl.kind()
	if kind == 0 {
		return 0, fmt.Errorf("type %q: must declare exactly one of struct, enum, bitmask, array, vector", decl.Name)
	}
	id := c.add(entry{name: decl.Name, kind: kind})
	c.decls[id] = decl
	return id, nil
}

func (c *compiler) lookup(name string) (SchemaID, error) {
	if name == "" {
		return 0, errors.New("missing type name")
	}
	id, ok := c.table.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: type %q is not declared", ErrUnknownSchema, name)
	}
	return id, nil
}

// buildSchema fills the side schema of enum, bitmask, array, and
// vector declarations.
func (c *compiler) buildSchema(id SchemaID) error {
	decl := c.decls[id]
	e := &c.table.entries[id-1]

	switch e.kind {
	case KindEnum:
		constants := make([]EnumConstant, 0, len(decl.Enum))
		next := int64(0)
		for _, constant := range decl.Enum {
			value := next
			if constant.Value != nil {
				value = *constant.Value
			}
			if value < math.MinInt32 || value > math.MaxInt32 {
				return fmt.Errorf("enum constant %q: value %d does not fit in 32 bits", constant.Name, value)
			}
			constants = append(constants, EnumConstant{Name: constant.Name, Value: int32(value)})
			next = value + 1
		}
		schema, err := NewEnumSchema(constants)
		if err != nil {
			return err
		}
		e.enum = schema

	case KindBitmask:
		constants := make([]FlagConstant, 0, len(decl.Bitmask))
		for index, constant := range decl.Bitmask {
			var value int64
			if constant.Value != nil {
				value = *constant.Value
			} else {
				if index >= 32 {
					return fmt.Errorf("bitmask constant %q: no free bit for automatic value", constant.Name)
				}
				value = 1 << index
			}
			if value <= 0 || value > math.MaxUint32 {
				return fmt.Errorf("bitmask constant %q: value %d is not a non-zero 32-bit pattern", constant.Name, value)
			}
			constants = append(constants, FlagConstant{Name: constant.Name, Value: uint32(value)})
		}
		schema, err := NewFlagSetSchema(constants)
		if err != nil {
			return err
		}
		e.flagSet = schema

	case KindArray:
		element, err := c.lookup(decl.Array.Type)
		if err != nil {
			return fmt.Errorf("array element: %w", err)
		}
		if decl.Array.Count < 1 {
			return fmt.Errorf("array count must be positive, got %d", decl.Array.Count)
		}
		e.array = &ArraySchema{Element: element, Count: decl.Array.Count}

	case KindVector:
		element, err := c.lookup(decl.Vector.Type)
		if err != nil {
			return fmt.Errorf("vector element: %w", err)
		}
		e.vector = &VectorSchema{Element: element}
	}
	return nil
}

func (c *compiler) resolveLayout(id SchemaID) (Layout, error) {
	e := &c.table.entries[id-1]
	switch e.kind {
	case KindPrimitive, KindEntity:
		return e.layout, nil
	}

	switch c.layoutState[id] {
	case visited:
		return e.layout, nil
	case visiting:
		return Layout{}, fmt.Errorf("type %q contains itself by value", e.name)
	}
	c.layoutState[id] = visiting

	var layout Layout
	switch e.kind {
	case KindEnum, KindBitmask:
		layout = Layout{Size: 4, Alignment: 4}

	case KindVector:
		layout = Layout{Size: HandleSize, Alignment: HandleSize}

	case KindArray:
		element, err := c.resolveLayout(e.array.Element)
		if err != nil {
			return Layout{}, err
		}
		size := uint64(element.Size) * uint64(e.array.Count)
		if size > math.MaxUint32 {
			return Layout{}, fmt.Errorf("array of %d elements is too large", e.array.Count)
		}
		layout = Layout{Size: uint32(size), Alignment: element.Alignment}

	case KindStruct:
		var err error
		layout, err = c.structLayout(id)
		if err != nil {
			return Layout{}, err
		}
	}

	e.layout = layout
	c.layoutState[id] = visited
	return layout, nil
}

func (c *compiler) structLayout(id SchemaID) (Layout, error) {
	decl := c.decls[id]
	if len(decl.Struct) == 0 {
		return Layout{}, errors.New("struct has no members")
	}

	names := make(map[string]struct{}, len(decl.Struct))
	types := make([]SchemaID, 0, len(decl.Struct))
	offsets := make([]uint32, 0, len(decl.Struct))
	var cursor uint64
	alignment := uint32(1)

	for _, member := range decl.Struct {
		if member.Name == "" {
			return Layout{}, errors.New("struct member without a name")
		}
		if _, exists := names[member.Name]; exists {
			return Layout{}, fmt.Errorf("duplicate member %q", member.Name)
		}
		names[member.Name] = struct{}{}
		if member.Count < 0 {
			return Layout{}, fmt.Errorf("member %q: negative count %d", member.Name, member.Count)
		}

		memberID, err := c.lookup(member.Type)
		if err != nil {
			return Layout{}, fmt.Errorf("member %q: %w", member.Name, err)
		}
		memberLayout, err := c.resolveLayout(memberID)
		if err != nil {
			return Layout{}, fmt.Errorf("member %q: %w", member.Name, err)
		}

		count := uint64(max(member.Count, 1))
		offset := alignUp(cursor, uint64(memberLayout.Alignment))
		types = append(types, memberID)
		offsets = append(offsets, uint32(offset))
		cursor = offset + uint64(memberLayout.Size)*count
		if cursor > math.MaxUint32 {
			return Layout{}, fmt.Errorf("member %q: struct exceeds 4 GiB", member.Name)
		}
		alignment = max(alignment, memberLayout.Alignment)
	}

	c.memberTypes[id] = types
	c.memberOffsets[id] = offsets
	return Layout{Size: uint32(alignUp(cursor, uint64(alignment))), Alignment: alignment}, nil
}

func alignUp(value, alignment uint64) uint64 {
	if alignment <= 1 {
		return value
	}
	return (value + alignment - 1) / alignment * alignment
}

func (c *compiler) buildProgram(id SchemaID) error {
	e := &c.table.entries[id-1]

	var ops []Op
	if e.kind == KindStruct {
		ops = c.appendStruct(ops, id, "", 0)
	} else {
		ops = append(ops, c.valueOp(id))
	}

	program, err := NewProgram(ops)
	if err != nil {
		return err
	}
	e.program = program
	return nil
}

// valueOp returns the single operation describing a non-struct type
// at offset zero.
func (c *compiler) valueOp(id SchemaID) Op {
	e := &c.table.entries[id-1]
	op := Op{OpCount: 1}
	switch e.kind {
	case KindPrimitive:
		op.Kind = OpPrimitive
		op.Primitive = e.program.ops[0].Primitive
	case KindEntity:
		op.Kind = OpReference
	case KindEnum:
		op.Kind, op.Type = OpEnum, id
	case KindBitmask:
		op.Kind, op.Type = OpFlagSet, id
	case KindArray:
		op.Kind, op.Type = OpArray, id
	case KindVector:
		op.Kind, op.Type = OpVector, id
	}
	return op
}

// appendStruct appends the scope of struct id, with member offsets
// made absolute by adding base.
func (c *compiler) appendStruct(ops []Op, id SchemaID, name string, base uint32) []Op {
	start := len(ops)
	ops = append(ops, Op{Kind: OpScopeOpen, Name: name, Offset: base})
	for i, member := range c.decls[id].Struct {
		ops = c.appendMember(ops, member, c.memberTypes[id][i], base+c.memberOffsets[id][i])
	}
	ops = append(ops, Op{Kind: OpScopeClose, OpCount: 1})
	ops[start].OpCount = int32(len(ops) - start)
	return ops
}

func (c *compiler) appendMember(ops []Op, member MemberDecl, id SchemaID, offset uint32) []Op {
	start := len(ops)
	if c.table.entries[id-1].kind == KindStruct {
		ops = c.appendStruct(ops, id, member.Name, offset)
	} else {
		op := c.valueOp(id)
		op.Name = member.Name
		op.Offset = offset
		ops = append(ops, op)
	}
	if member.Count > 1 {
		ops[start].Count = member.Count
		ops[start].Size = c.table.entries[id-1].layout.Size
	}
	return ops
}
