// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scalar

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/bureau-foundation/metajson/lib/typeprog"
	"github.com/bureau-foundation/metajson/lib/valuebuf"
)

func le16(v uint16) []byte { return binary.LittleEndian.AppendUint16(nil, v) }
func le32(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }
func le64(v uint64) []byte { return binary.LittleEndian.AppendUint64(nil, v) }

func TestDefaultEncoder(t *testing.T) {
	tests := []struct {
		name string
		kind typeprog.PrimitiveKind
		raw  []byte
		want string
	}{
		{"true", typeprog.Bool, []byte{1}, "true"},
		{"false", typeprog.Bool, []byte{0}, "false"},
		{"char", typeprog.Char, []byte{'a'}, `"a"`},
		{"quote char", typeprog.Char, []byte{'"'}, `"\""`},
		{"zero char", typeprog.Char, []byte{0}, `""`},
		{"control char", typeprog.Char, []byte{'\n'}, `"\n"`},
		{"highest ASCII char", typeprog.Char, []byte{0x7f}, "\"\x7f\""},
		{"byte", typeprog.Byte, []byte{0xff}, "255"},
		{"u8", typeprog.U8, []byte{200}, "200"},
		{"u16", typeprog.U16, le16(65535), "65535"},
		{"u32", typeprog.U32, le32(4000000000), "4000000000"},
		{"u64", typeprog.U64, le64(math.MaxUint64), "18446744073709551615"},
		{"i8", typeprog.I8, []byte{0x80}, "-128"},
		{"i16", typeprog.I16, le16(0xfffe), "-2"},
		{"i32", typeprog.I32, le32(0xffffffff), "-1"},
		{"i64", typeprog.I64, le64(uint64(1) << 63), "-9223372036854775808"},
		{"uptr", typeprog.UPtr, le64(4096), "4096"},
		{"iptr", typeprog.IPtr, le64(math.MaxUint64), "-1"},
		{"f32", typeprog.F32, le32(math.Float32bits(1.5)), "1.5"},
		{"f32 shortest", typeprog.F32, le32(math.Float32bits(0.1)), "0.1"},
		{"f64", typeprog.F64, le64(math.Float64bits(-2.25)), "-2.25"},
		{"f64 integral", typeprog.F64, le64(math.Float64bits(3)), "3"},
		{"f64 small", typeprog.F64, le64(math.Float64bits(1e-7)), "1e-7"},
		{"f64 large", typeprog.F64, le64(math.Float64bits(1e21)), "1e+21"},
		{"f64 zero", typeprog.F64, le64(0), "0"},
		{"null string", typeprog.String, le64(0), "null"},
		{"extra bytes ignored", typeprog.U8, []byte{7, 9, 9}, "7"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Default.AppendPrimitive(nil, test.kind, test.raw, nil)
			if err != nil {
				t.Fatalf("AppendPrimitive: %v", err)
			}
			if string(got) != test.want {
				t.Errorf("got %s, want %s", got, test.want)
			}
			if !json.Valid(got) {
				t.Errorf("%s is not valid JSON", got)
			}
		})
	}
}

func TestDefaultEncoderAppends(t *testing.T) {
	got, err := Default.AppendPrimitive([]byte(`{"x": `), typeprog.I32, le32(5), nil)
	if err != nil {
		t.Fatalf("AppendPrimitive: %v", err)
	}
	if string(got) != `{"x": 5` {
		t.Errorf("got %s", got)
	}
}

func TestDefaultEncoderString(t *testing.T) {
	builder := valuebuf.NewBuilder()
	addr := builder.String("tab\there \"quoted\"")
	memory := builder.Memory()

	got, err := Default.AppendPrimitive(nil, typeprog.String, le64(uint64(addr)), memory)
	if err != nil {
		t.Fatalf("AppendPrimitive: %v", err)
	}
	if want := `"tab\there \"quoted\""`; string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}

	_, err = Default.AppendPrimitive(nil, typeprog.String, le64(uint64(memory.Len())+16), memory)
	if !errors.Is(err, valuebuf.ErrOutOfBounds) {
		t.Errorf("dangling string address: got %v, want ErrOutOfBounds", err)
	}
}

func TestDefaultEncoderErrors(t *testing.T) {
	tests := []struct {
		name string
		kind typeprog.PrimitiveKind
		raw  []byte
		want error
	}{
		{"NaN", typeprog.F64, le64(math.Float64bits(math.NaN())), ErrNonFinite},
		{"+Inf", typeprog.F32, le32(math.Float32bits(float32(math.Inf(1)))), ErrNonFinite},
		{"-Inf", typeprog.F64, le64(math.Float64bits(math.Inf(-1))), ErrNonFinite},
		{"short", typeprog.I64, []byte{1, 2, 3}, ErrShortValue},
		{"high char", typeprog.Char, []byte{0x80}, ErrNonASCIIChar},
		{"latin-1 char", typeprog.Char, []byte{0xe9}, ErrNonASCIIChar},
		{"invalid kind", typeprog.PrimitiveKind(0), []byte{0}, ErrUnsupportedKind},
		{"string without memory", typeprog.String, le64(64), ErrUnsupportedKind},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Default.AppendPrimitive(nil, test.kind, test.raw, nil)
			if !errors.Is(err, test.want) {
				t.Errorf("got %v, want %v", err, test.want)
			}
		})
	}
}
