// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schemadef

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/metajson/lib/testutil"
	"github.com/bureau-foundation/metajson/lib/typeprog"
)

const geometryYAML = `
types:
  - name: Point
    struct:
      - {name: x, type: f32}
      - {name: y, type: f32}
  - name: Color
    enum: [{name: Red}, {name: Green, value: 5}, {name: Blue}]
  - name: Path
    vector: {type: Point}
`

const styleJSONC = `{
  // Shapes reference types from geometry.yaml.
  "types": [
    {"name": "Style", "bitmask": [{"name": "Bold"}, {"name": "Italic"},]},
    {"name": "Shape", "struct": [
      {"name": "outline", "type": "Path"},
      {"name": "fill", "type": "Color"},
      {"name": "style", "type": "Style"},
      /* four corner samples */
      {"name": "corners", "type": "Point", "count": 4},
    ]},
  ],
}`

func TestParseYAML(t *testing.T) {
	file, err := Parse([]byte(geometryYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(file.Types) != 3 {
		t.Fatalf("got %d types, want 3", len(file.Types))
	}
	color := file.Types[1]
	if color.Name != "Color" || len(color.Enum) != 3 {
		t.Fatalf("Color = %+v", color)
	}
	if color.Enum[1].Value == nil || *color.Enum[1].Value != 5 {
		t.Errorf("Green value = %v, want 5", color.Enum[1].Value)
	}
	if color.Enum[2].Value != nil {
		t.Errorf("Blue value = %v, want unset", *color.Enum[2].Value)
	}
	if file.Types[2].Vector == nil || file.Types[2].Vector.Type != "Point" {
		t.Errorf("Path = %+v", file.Types[2])
	}
}

func TestParseJSONC(t *testing.T) {
	file, err := Parse([]byte(styleJSONC), FormatJSONC)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(file.Types) != 2 {
		t.Fatalf("got %d types, want 2", len(file.Types))
	}
	corners := file.Types[1].Struct[3]
	if corners.Name != "corners" || corners.Count != 4 {
		t.Errorf("corners = %+v", corners)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"yaml", "types:\n  - name: A\n    strcut: []\n", FormatYAML},
		{"jsonc", `{"types": [{"name": "A", "enum": [], "extra": 1}]}`, FormatJSONC},
		{"bad format", `{}`, Format(9)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := Parse([]byte(test.data), test.format); err == nil {
				t.Error("Parse succeeded, want error")
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.yaml":       FormatYAML,
		"dir/b.YML":    FormatYAML,
		"c.json":       FormatJSONC,
		"/abs/d.jsonc": FormatJSONC,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %v, %v; want %v", path, got, err, want)
		}
	}
	if _, err := FormatFromPath("schema.toml"); err == nil {
		t.Error("FormatFromPath accepted .toml")
	}
}

func TestLoadAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	geometry := testutil.WriteFile(t, dir, "geometry.yaml", []byte(geometryYAML))
	style := testutil.WriteFile(t, dir, "style.jsonc", []byte(styleJSONC))

	table, err := Load([]string{geometry, style}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	shape, ok := table.Lookup("Shape")
	if !ok {
		t.Fatal("Shape not registered")
	}
	// outline 8, fill 4, style 4, corners 4×8.
	layout, err := table.Layout(shape)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if layout != (typeprog.Layout{Size: 48, Alignment: 8}) {
		t.Errorf("Shape layout = %+v, want {48 8}", layout)
	}
	if table.Kind(shape) != typeprog.KindStruct {
		t.Errorf("Shape kind = %s", table.Kind(shape))
	}
}

func TestLoadDuplicateNamesBothFiles(t *testing.T) {
	dir := t.TempDir()
	first := testutil.WriteFile(t, dir, "first.yaml", []byte(geometryYAML))
	second := testutil.WriteFile(t, dir, "second.json", []byte(`{"types": [{"name": "Color", "enum": [{"name": "X"}]}]}`))

	_, err := Load([]string{first, second}, nil)
	if err == nil {
		t.Fatal("Load succeeded with a duplicate type")
	}
	for _, want := range []string{`"Color"`, first, second} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	broken := testutil.WriteFile(t, dir, "broken.yaml", []byte("types:\n  - name: A\n    struct:\n      - {name: x, type: Missing}\n"))

	if _, err := Load(nil, nil); err == nil {
		t.Error("Load(nil) succeeded")
	}
	if _, err := Load([]string{filepath.Join(dir, "absent.yaml")}, nil); err == nil {
		t.Error("Load of a missing file succeeded")
	}
	_, err := Load([]string{broken}, nil)
	if err == nil || !strings.Contains(err.Error(), "Missing") {
		t.Errorf("unresolved member type: got %v", err)
	}
}

func TestExpandPatterns(t *testing.T) {
	dir := t.TempDir()
	b := testutil.WriteFile(t, dir, "b.yaml", []byte("types: []\n"))
	a := testutil.WriteFile(t, dir, "a.yaml", []byte("types: []\n"))
	c := testutil.WriteFile(t, dir, "c.jsonc", []byte(`{"types": []}`))

	paths, err := ExpandPatterns([]string{filepath.Join(dir, "*.yaml"), c, a})
	if err != nil {
		t.Fatalf("ExpandPatterns: %v", err)
	}
	want := []string{a, b, c}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("paths = %v, want %v", paths, want)
	}

	if _, err := ExpandPatterns([]string{filepath.Join(dir, "*.toml")}); err == nil {
		t.Error("pattern with no matches succeeded")
	}
}
