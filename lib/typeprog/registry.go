// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package typeprog

import (
	"errors"
	"fmt"
)

// ErrUnknownSchema is wrapped when a lookup names an id that is not
// registered or is registered as a different kind of type.
var ErrUnknownSchema = errors.New("unknown schema")

// Registry is the read-only schema lookup surface consumed by the
// interpreter. Implementations must not change the data they return
// while any serialization is in flight.
type Registry interface {
	Program(id SchemaID) (*Program, error)
	Enum(id SchemaID) (*EnumSchema, error)
	FlagSet(id SchemaID) (*FlagSetSchema, error)
	Array(id SchemaID) (*ArraySchema, error)
	Vector(id SchemaID) (*VectorSchema, error)
	Layout(id SchemaID) (Layout, error)
}

// TypeKind classifies a registered type.
type TypeKind uint8

const (
	KindPrimitive TypeKind = iota + 1
	KindEntity
	KindStruct
	KindEnum
	KindBitmask
	KindArray
	KindVector
)

func (kind TypeKind) String() string {
	switch kind {
	case KindPrimitive:
		return "primitive"
	case KindEntity:
		return "entity"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindBitmask:
		return "bitmask"
	case KindArray:
		return "array"
	case KindVector:
		return "vector"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(kind))
	}
}

type entry struct {
	name    string
	kind    TypeKind
	layout  Layout
	program *Program
	enum    *EnumSchema
	flagSet *FlagSetSchema
	array   *ArraySchema
	vector  *VectorSchema
}

// Table is an immutable [Registry] produced by [Compile]. It is safe
// for concurrent use.
type Table struct {
	entries []entry
	byName  map[string]SchemaID
}

var _ Registry = (*Table)(nil)

func (table *Table) entry(id SchemaID) (*entry, error) {
	if id == 0 || int(id) > len(table.entries) {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownSchema, id)
	}
	return &table.entries[id-1], nil
}

func (table *Table) entryOfKind(id SchemaID, kind TypeKind) (*entry, error) {
	found, err := table.entry(id)
	if err != nil {
		return nil, err
	}
	if found.kind != kind {
		return nil, fmt.Errorf("%w: %s (id %d) is a %s, not a %s",
			ErrUnknownSchema, found.name, id, found.kind, kind)
	}
	return found, nil
}

// Program returns the compiled program of any registered type.
func (table *Table) Program(id SchemaID) (*Program, error) {
	found, err := table.entry(id)
	if err != nil {
		return nil, err
	}
	return found.program, nil
}

// Enum returns the schema of an enum type.
func (table *Table) Enum(id SchemaID) (*EnumSchema, error) {
	found, err := table.entryOfKind(id, KindEnum)
	if err != nil {
		return nil, err
	}
	return found.enum, nil
}

// FlagSet returns the schema of a bitmask type.
func (table *Table) FlagSet(id SchemaID) (*FlagSetSchema, error) {
	found, err := table.entryOfKind(id, KindBitmask)
	if err != nil {
		return nil, err
	}
	return found.flagSet, nil
}

// Array returns the schema of an array type.
func (table *Table) Array(id SchemaID) (*ArraySchema, error) {
	found, err := table.entryOfKind(id, KindArray)
	if err != nil {
		return nil, err
	}
	return found.array, nil
}

// Vector returns the schema of a vector type.
func (table *Table) Vector(id SchemaID) (*VectorSchema, error) {
	found, err := table.entryOfKind(id, KindVector)
	if err != nil {
		return nil, err
	}
	return found.vector, nil
}

// Layout returns the size and alignment of any registered type.
func (table *Table) Layout(id SchemaID) (Layout, error) {
	found, err := table.entry(id)
	if err != nil {
		return Layout{}, err
	}
	return found.layout, nil
}

// Lookup returns the id of the named type.
func (table *Table) Lookup(name string) (SchemaID, bool) {
	id, ok := table.byName[name]
	return id, ok
}

// Name returns the name of a registered type, or "" for unknown ids.
func (table *Table) Name(id SchemaID) string {
	found, err := table.entry(id)
	if err != nil {
		return ""
	}
	return found.name
}

// Kind returns the kind of a registered type, or 0 for unknown ids.
func (table *Table) Kind(id SchemaID) TypeKind {
	found, err := table.entry(id)
	if err != nil {
		return 0
	}
	return found.kind
}

// Len returns the number of registered types, built-ins included.
func (table *Table) Len() int {
	return len(table.entries)
}

// Declared returns the ids of the types that came from declarations,
// in declaration order (built-in types are omitted).
func (table *Table) Declared() []SchemaID {
	var ids []SchemaID
	for i := range table.entries {
		switch table.entries[i].kind {
		case KindPrimitive, KindEntity:
			continue
		}
		ids = append(ids, SchemaID(i+1))
	}
	return ids
}
