// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package typeprog

import (
	"errors"
	"strings"
	"testing"
)

func value(v int64) *int64 { return &v }

func compileOrFail(t *testing.T, decls []TypeDecl) *Table {
	t.Helper()
	table, err := Compile(decls)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return table
}

func lookupOrFail(t *testing.T, table *Table, name string) SchemaID {
	t.Helper()
	id, ok := table.Lookup(name)
	if !ok {
		t.Fatalf("type %q not registered", name)
	}
	return id
}

func TestCompileStructLayout(t *testing.T) {
	table := compileOrFail(t, []TypeDecl{
		{Name: "Mixed", Struct: []MemberDecl{
			{Name: "a", Type: "u8"},
			{Name: "b", Type: "f64"},
			{Name: "c", Type: "u16"},
		}},
	})

	id := lookupOrFail(t, table, "Mixed")
	layout, err := table.Layout(id)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if layout != (Layout{Size: 24, Alignment: 8}) {
		t.Errorf("layout = %+v, want {24 8}", layout)
	}

	program, err := table.Program(id)
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	want := []Op{
		{Kind: OpScopeOpen, OpCount: 5},
		{Kind: OpPrimitive, Primitive: U8, Name: "a", Offset: 0, OpCount: 1},
		{Kind: OpPrimitive, Primitive: F64, Name: "b", Offset: 8, OpCount: 1},
		{Kind: OpPrimitive, Primitive: U16, Name: "c", Offset: 16, OpCount: 1},
		{Kind: OpScopeClose, OpCount: 1},
	}
	assertOps(t, program.Ops(), want)
}

func TestCompileNestedStructUsesAbsoluteOffsets(t *testing.T) {
	table := compileOrFail(t, []TypeDecl{
		// Line is declared before the types it uses.
		{Name: "Line", Struct: []MemberDecl{
			{Name: "start", Type: "Point"},
			{Name: "end", Type: "Point"},
			{Name: "color", Type: "Color"},
		}},
		{Name: "Point", Struct: []MemberDecl{
			{Name: "x", Type: "i32"},
			{Name: "y", Type: "i32"},
		}},
		{Name: "Color", Enum: []ConstantDecl{{Name: "Red"}, {Name: "Green"}}},
	})

	lineID := lookupOrFail(t, table, "Line")
	colorID := lookupOrFail(t, table, "Color")
	program, err := table.Program(lineID)
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	want := []Op{
		{Kind: OpScopeOpen, OpCount: 11},
		{Kind: OpScopeOpen, Name: "start", Offset: 0, OpCount: 4},
		{Kind: OpPrimitive, Primitive: I32, Name: "x", Offset: 0, OpCount: 1},
		{Kind: OpPrimitive, Primitive: I32, Name: "y", Offset: 4, OpCount: 1},
		{Kind: OpScopeClose, OpCount: 1},
		{Kind: OpScopeOpen, Name: "end", Offset: 8, OpCount: 4},
		{Kind: OpPrimitive, Primitive: I32, Name: "x", Offset: 8, OpCount: 1},
		{Kind: OpPrimitive, Primitive: I32, Name: "y", Offset: 12, OpCount: 1},
		{Kind: OpScopeClose, OpCount: 1},
		{Kind: OpEnum, Name: "color", Offset: 16, Type: colorID, OpCount: 1},
		{Kind: OpScopeClose, OpCount: 1},
	}
	assertOps(t, program.Ops(), want)

	layout, _ := table.Layout(lineID)
	if layout != (Layout{Size: 20, Alignment: 4}) {
		t.Errorf("layout = %+v, want {20 4}", layout)
	}
}

func TestCompileInlineArrayMember(t *testing.T) {
	table := compileOrFail(t, []TypeDecl{
		{Name: "Point", Struct: []MemberDecl{
			{Name: "x", Type: "i32"},
			{Name: "y", Type: "i32"},
		}},
		{Name: "Triangle", Struct: []MemberDecl{
			{Name: "id", Type: "u16"},
			{Name: "corners", Type: "Point", Count: 3},
			{Name: "weights", Type: "f32", Count: 3},
		}},
	})

	program, err := table.Program(lookupOrFail(t, table, "Triangle"))
	if err != nil {
		t.Fatalf("Program: %v", err)
	}
	want := []Op{
		{Kind: OpScopeOpen, OpCount: 8},
		{Kind: OpPrimitive, Primitive: U16, Name: "id", Offset: 0, OpCount: 1},
		{Kind: OpScopeOpen, Name: "corners", Offset: 4, Count: 3, Size: 8, OpCount: 4},
		{Kind: OpPrimitive, Primitive: I32, Name: "x", Offset: 4, OpCount: 1},
		{Kind: OpPrimitive, Primitive: I32, Name: "y", Offset: 8, OpCount: 1},
		{Kind: OpScopeClose, OpCount: 1},
		{Kind: OpPrimitive, Primitive: F32, Name: "weights", Offset: 28, Count: 3, Size: 4, OpCount: 1},
		{Kind: OpScopeClose, OpCount: 1},
	}
	assertOps(t, program.Ops(), want)

	layout, _ := table.Layout(lookupOrFail(t, table, "Triangle"))
	if layout != (Layout{Size: 40, Alignment: 4}) {
		t.Errorf("layout = %+v, want {40 4}", layout)
	}
}

func TestCompileSideSchemas(t *testing.T) {
	table := compileOrFail(t, []TypeDecl{
		{Name: "Level", Enum: []ConstantDecl{
			{Name: "Low"},
			{Name: "High", Value: value(10)},
			{Name: "Max"},
		}},
		{Name: "Mode", Bitmask: []ConstantDecl{
			{Name: "Read"},
			{Name: "Write"},
			{Name: "ReadWrite", Value: value(3)},
		}},
		{Name: "Triple", Array: &ArrayDecl{Type: "i32", Count: 3}},
		{Name: "Names", Vector: &VectorDecl{Type: "string"}},
	})

	enum, err := table.Enum(lookupOrFail(t, table, "Level"))
	if err != nil {
		t.Fatalf("Enum: %v", err)
	}
	for value, want := range map[int32]string{0: "Low", 10: "High", 11: "Max"} {
		if got, ok := enum.Lookup(value); !ok || got != want {
			t.Errorf("Lookup(%d) = %q, %v; want %q", value, got, ok, want)
		}
	}
	if _, ok := enum.Lookup(1); ok {
		t.Error("Lookup(1) found a constant")
	}

	flags, err := table.FlagSet(lookupOrFail(t, table, "Mode"))
	if err != nil {
		t.Fatalf("FlagSet: %v", err)
	}
	wantFlags := []FlagConstant{{"Read", 1}, {"Write", 2}, {"ReadWrite", 3}}
	if got := flags.Constants(); len(got) != len(wantFlags) {
		t.Fatalf("flag constants = %v", got)
	}
	for i, want := range wantFlags {
		if got := flags.Constants()[i]; got != want {
			t.Errorf("flag %d = %+v, want %+v", i, got, want)
		}
	}

	tripleID := lookupOrFail(t, table, "Triple")
	array, err := table.Array(tripleID)
	if err != nil {
		t.Fatalf("Array: %v", err)
	}
	if array.Count != 3 || table.Name(array.Element) != "i32" {
		t.Errorf("array = %+v (element %q)", array, table.Name(array.Element))
	}
	if layout, _ := table.Layout(tripleID); layout != (Layout{Size: 12, Alignment: 4}) {
		t.Errorf("array layout = %+v", layout)
	}
	program, _ := table.Program(tripleID)
	assertOps(t, program.Ops(), []Op{{Kind: OpArray, Type: tripleID, OpCount: 1}})

	vector, err := table.Vector(lookupOrFail(t, table, "Names"))
	if err != nil {
		t.Fatalf("Vector: %v", err)
	}
	if table.Name(vector.Element) != "string" {
		t.Errorf("vector element = %q", table.Name(vector.Element))
	}
}

func TestCompileVectorBreaksCycles(t *testing.T) {
	table := compileOrFail(t, []TypeDecl{
		{Name: "Tree", Struct: []MemberDecl{
			{Name: "label", Type: "string"},
			{Name: "children", Type: "Forest"},
		}},
		{Name: "Forest", Vector: &VectorDecl{Type: "Tree"}},
	})
	layout, _ := table.Layout(lookupOrFail(t, table, "Tree"))
	if layout != (Layout{Size: 16, Alignment: 8}) {
		t.Errorf("layout = %+v, want {16 8}", layout)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		decls   []TypeDecl
		message string
	}{
		{
			name:    "missing name",
			decls:   []TypeDecl{{Struct: []MemberDecl{{Name: "x", Type: "i32"}}}},
			message: "without a name",
		},
		{
			name: "duplicate type",
			decls: []TypeDecl{
				{Name: "A", Array: &ArrayDecl{Type: "i32", Count: 2}},
				{Name: "A", Array: &ArrayDecl{Type: "i32", Count: 2}},
			},
			message: "declared more than once",
		},
		{
			name:    "redefined builtin",
			decls:   []TypeDecl{{Name: "i32", Vector: &VectorDecl{Type: "u8"}}},
			message: "built-in",
		},
		{
			name:    "no kind",
			decls:   []TypeDecl{{Name: "Empty"}},
			message: "exactly one of",
		},
		{
			name:    "unknown member type",
			decls:   []TypeDecl{{Name: "A", Struct: []MemberDecl{{Name: "x", Type: "Missing"}}}},
			message: `type "Missing" is not declared`,
		},
		{
			name: "by-value cycle",
			decls: []TypeDecl{
				{Name: "A", Struct: []MemberDecl{{Name: "b", Type: "B"}}},
				{Name: "B", Struct: []MemberDecl{{Name: "a", Type: "A"}}},
			},
			message: "contains itself by value",
		},
		{
			name:    "duplicate member",
			decls:   []TypeDecl{{Name: "A", Struct: []MemberDecl{{Name: "x", Type: "i32"}, {Name: "x", Type: "i32"}}}},
			message: `duplicate member "x"`,
		},
		{
			name:    "duplicate enum value",
			decls:   []TypeDecl{{Name: "E", Enum: []ConstantDecl{{Name: "A", Value: value(1)}, {Name: "B", Value: value(1)}}}},
			message: "share value 1",
		},
		{
			name:    "zero bitmask pattern",
			decls:   []TypeDecl{{Name: "F", Bitmask: []ConstantDecl{{Name: "None", Value: value(0)}}}},
			message: "non-zero",
		},
		{
			name:    "array without count",
			decls:   []TypeDecl{{Name: "A", Array: &ArrayDecl{Type: "i32"}}},
			message: "count must be positive",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Compile(test.decls)
			if err == nil {
				t.Fatal("Compile succeeded")
			}
			if !strings.Contains(err.Error(), test.message) {
				t.Errorf("error %q does not mention %q", err, test.message)
			}
		})
	}
}

func TestTableKindMismatch(t *testing.T) {
	table := compileOrFail(t, []TypeDecl{
		{Name: "Color", Enum: []ConstantDecl{{Name: "Red"}}},
	})
	id := lookupOrFail(t, table, "Color")

	if _, err := table.FlagSet(id); !errors.Is(err, ErrUnknownSchema) {
		t.Errorf("FlagSet on an enum: %v, want ErrUnknownSchema", err)
	}
	if _, err := table.Program(SchemaID(table.Len() + 1)); !errors.Is(err, ErrUnknownSchema) {
		t.Errorf("Program on unknown id: %v, want ErrUnknownSchema", err)
	}
	if _, err := table.Layout(0); !errors.Is(err, ErrUnknownSchema) {
		t.Errorf("Layout(0): %v, want ErrUnknownSchema", err)
	}

	declared := table.Declared()
	if len(declared) != 1 || declared[0] != id {
		t.Errorf("Declared = %v, want [%d]", declared, id)
	}
	if table.Kind(id) != KindEnum {
		t.Errorf("Kind = %s, want enum", table.Kind(id))
	}
}

func assertOps(t *testing.T, got, want []Op) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("program has %d ops, want %d:\n got: %+v\nwant: %+v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("op %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
