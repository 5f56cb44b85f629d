// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package typeprog

import "fmt"

// OpKind is the operation tag. The set is closed: the interpreter
// switches over it exhaustively.
type OpKind uint8

const (
	// OpScopeOpen opens a JSON object.
	OpScopeOpen OpKind = iota + 1
	// OpScopeClose closes the innermost open object.
	OpScopeClose
	// OpPrimitive is a scalar handled by the scalar encoder.
	OpPrimitive
	// OpEnum is a 32-bit signed enumeration constant.
	OpEnum
	// OpFlagSet is a 32-bit unsigned bitmask of named flags.
	OpFlagSet
	// OpArray is a fixed-size array described by an [ArraySchema].
	OpArray
	// OpVector is a dynamic vector described by a [VectorSchema].
	OpVector
	// OpReference is an entity handle resolved to a path string.
	OpReference
)

var opKindNames = [...]string{
	OpScopeOpen:  "push",
	OpScopeClose: "pop",
	OpPrimitive:  "primitive",
	OpEnum:       "enum",
	OpFlagSet:    "bitmask",
	OpArray:      "array",
	OpVector:     "vector",
	OpReference:  "entity",
}

// String returns the lowercase operation name used in listings.
func (kind OpKind) String() string {
	if kind.Valid() {
		return opKindNames[kind]
	}
	return fmt.Sprintf("unknown(%d)", uint8(kind))
}

// Valid reports whether kind is one of the defined operation kinds.
func (kind OpKind) Valid() bool {
	return kind >= OpScopeOpen && kind <= OpReference
}

// PrimitiveKind identifies the storage format of an [OpPrimitive]
// operation.
type PrimitiveKind uint8

const (
	Bool PrimitiveKind = iota + 1
	Char
	Byte
	U8
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	F32
	F64
	UPtr
	IPtr
	// String is stored as the 8-byte address of a NUL-terminated byte
	// sequence. Address zero is a null string.
	String
)

type primitiveInfo struct {
	name string
	size uint32
}

var primitiveInfos = [...]primitiveInfo{
	Bool:   {"bool", 1},
	Char:   {"char", 1},
	Byte:   {"byte", 1},
	U8:     {"u8", 1},
	U16:    {"u16", 2},
	U32:    {"u32", 4},
	U64:    {"u64", 8},
	I8:     {"i8", 1},
	I16:    {"i16", 2},
	I32:    {"i32", 4},
	I64:    {"i64", 8},
	F32:    {"f32", 4},
	F64:    {"f64", 8},
	UPtr:   {"uptr", 8},
	IPtr:   {"iptr", 8},
	String: {"string", 8},
}

// Valid reports whether kind is a defined primitive kind.
func (kind PrimitiveKind) Valid() bool {
	return kind >= Bool && kind <= String
}

// String returns the type name of the primitive as written in schema
// declarations ("i32", "f64", "string", ...).
func (kind PrimitiveKind) String() string {
	if kind.Valid() {
		return primitiveInfos[kind].name
	}
	return fmt.Sprintf("unknown(%d)", uint8(kind))
}

// Size returns the storage size in bytes. Every primitive is naturally
// aligned, so Size is also its alignment. Returns 0 for invalid kinds.
func (kind PrimitiveKind) Size() uint32 {
	if kind.Valid() {
		return primitiveInfos[kind].size
	}
	return 0
}

// ParsePrimitiveKind looks up a primitive by its declaration name.
func ParsePrimitiveKind(name string) (PrimitiveKind, error) {
	for kind := Bool; kind <= String; kind++ {
		if primitiveInfos[kind].name == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown primitive type %q", name)
}

// EntityTypeName is the built-in type name for entity handles. Values
// of this type compile to [OpReference].
const EntityTypeName = "entity"

// HandleSize is the storage size of pointers, vector handles, and
// entity handles.
const HandleSize = 8
