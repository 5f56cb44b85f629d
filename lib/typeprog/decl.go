// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package typeprog

// TypeDecl declares one named type. Exactly one of Struct, Enum,
// Bitmask, Array, or Vector is set.
type TypeDecl struct {
	Name    string         `yaml:"name" json:"name"`
	Struct  []MemberDecl   `yaml:"struct,omitempty" json:"struct,omitempty"`
	Enum    []ConstantDecl `yaml:"enum,omitempty" json:"enum,omitempty"`
	Bitmask []ConstantDecl `yaml:"bitmask,omitempty" json:"bitmask,omitempty"`
	Array   *ArrayDecl     `yaml:"array,omitempty" json:"array,omitempty"`
	Vector  *VectorDecl    `yaml:"vector,omitempty" json:"vector,omitempty"`
}

// MemberDecl declares a struct member. Count greater than one makes
// the member an inline array of that many values.
type MemberDecl struct {
	Name  string `yaml:"name" json:"name"`
	Type  string `yaml:"type" json:"type"`
	Count int32  `yaml:"count,omitempty" json:"count,omitempty"`
}

// ConstantDecl declares an enum or bitmask constant. A nil Value is
// assigned automatically: enum values continue from the previous
// constant plus one (starting at zero), bitmask values are 1<<index.
type ConstantDecl struct {
	Name  string `yaml:"name" json:"name"`
	Value *int64 `yaml:"value,omitempty" json:"value,omitempty"`
}

// ArrayDecl declares a fixed-size array type.
type ArrayDecl struct {
	Type  string `yaml:"type" json:"type"`
	Count int32  `yaml:"count" json:"count"`
}

// VectorDecl declares a dynamic vector type.
type VectorDecl struct {
	Type string `yaml:"type" json:"type"`
}

// kind returns the declared kind, or 0 when the declaration sets none
// or more than one.
func (decl *TypeDecl) kind() TypeKind {
	var kind TypeKind
	set := 0
	if decl.Struct != nil {
		kind, set = KindStruct, set+1
	}
	if decl.Enum != nil {
		kind, set = KindEnum, set+1
	}
	if decl.Bitmask != nil {
		kind, set = KindBitmask, set+1
	}
	if decl.Array != nil {
		kind, set = KindArray, set+1
	}
	if decl.Vector != nil {
		kind, set = KindVector, set+1
	}
	if set != 1 {
		return 0
	}
	return kind
}
