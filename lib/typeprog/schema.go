// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package typeprog

import "fmt"

// Layout is the storage size and alignment of a registered type.
type Layout struct {
	Size      uint32 `json:"size"`
	Alignment uint32 `json:"alignment"`
}

// EnumConstant is one named value of an enumeration.
type EnumConstant struct {
	Name  string `json:"name"`
	Value int32  `json:"value"`
}

// EnumSchema maps 32-bit values to constant names. Values are unique;
// lookup is exact-match only.
type EnumSchema struct {
	constants []EnumConstant
	index     map[int32]int
}

// NewEnumSchema builds an enum schema. Names and values must be unique.
func NewEnumSchema(constants []EnumConstant) (*EnumSchema, error) {
	schema := &EnumSchema{
		constants: make([]EnumConstant, len(constants)),
		index:     make(map[int32]int, len(constants)),
	}
	copy(schema.constants, constants)
	names := make(map[string]struct{}, len(constants))
	for i, constant := range schema.constants {
		if constant.Name == "" {
			return nil, fmt.Errorf("enum constant %d has no name", i)
		}
		if _, exists := names[constant.Name]; exists {
			return nil, fmt.Errorf("duplicate enum constant %q", constant.Name)
		}
		names[constant.Name] = struct{}{}
		if previous, exists := schema.index[constant.Value]; exists {
			return nil, fmt.Errorf("enum constants %q and %q share value %d",
				schema.constants[previous].Name, constant.Name, constant.Value)
		}
		schema.index[constant.Value] = i
	}
	return schema, nil
}

// Lookup returns the name of the constant with the given value.
func (schema *EnumSchema) Lookup(value int32) (string, bool) {
	i, ok := schema.index[value]
	if !ok {
		return "", false
	}
	return schema.constants[i].Name, true
}

// Constants returns the constants in declaration order. Callers must
// not modify the slice.
func (schema *EnumSchema) Constants() []EnumConstant {
	return schema.constants
}

// FlagConstant is one named bit pattern of a flag set. Patterns may be
// single bits or pre-combined groups.
type FlagConstant struct {
	Name  string `json:"name"`
	Value uint32 `json:"value"`
}

// FlagSetSchema is an ordered list of named bit patterns. The order is
// the declaration order and decides both the order names are emitted
// in and which constants claim overlapping bits first, so it is kept
// as a slice rather than a map.
type FlagSetSchema struct {
	constants []FlagConstant
}

// NewFlagSetSchema builds a flag-set schema. Names must be unique and
// patterns non-zero.
func NewFlagSetSchema(constants []FlagConstant) (*FlagSetSchema, error) {
	schema := &FlagSetSchema{constants: make([]FlagConstant, len(constants))}
	copy(schema.constants, constants)
	names := make(map[string]struct{}, len(constants))
	for i, constant := range schema.constants {
		if constant.Name == "" {
			return nil, fmt.Errorf("bitmask constant %d has no name", i)
		}
		if _, exists := names[constant.Name]; exists {
			return nil, fmt.Errorf("duplicate bitmask constant %q", constant.Name)
		}
		names[constant.Name] = struct{}{}
		if constant.Value == 0 {
			return nil, fmt.Errorf("bitmask constant %q has a zero pattern", constant.Name)
		}
	}
	return schema, nil
}

// Constants returns the constants in declaration order. Callers must
// not modify the slice.
func (schema *FlagSetSchema) Constants() []FlagConstant {
	return schema.constants
}

// ArraySchema describes a fixed-size array. The count is part of the
// type.
type ArraySchema struct {
	Element SchemaID `json:"element"`
	Count   int32    `json:"count"`
}

// VectorSchema describes a dynamic vector. The element count and
// storage are read from the value at serialization time.
type VectorSchema struct {
	Element SchemaID `json:"element"`
}
