// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scalar

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/bureau-foundation/metajson/lib/jsonwrite"
	"github.com/bureau-foundation/metajson/lib/typeprog"
	"github.com/bureau-foundation/metajson/lib/valuebuf"
)

var (
	// ErrUnsupportedKind is wrapped when the encoder has no format for
	// the requested primitive kind.
	ErrUnsupportedKind = errors.New("unsupported primitive kind")

	// ErrNonFinite is wrapped when a float is NaN or infinite, which
	// JSON cannot represent.
	ErrNonFinite = errors.New("non-finite float")

	// ErrShortValue is wrapped when fewer raw bytes are supplied than
	// the primitive's storage size.
	ErrShortValue = errors.New("raw value shorter than primitive size")

	// ErrNonASCIIChar is wrapped when a char holds a byte above 0x7f.
	// A lone high byte has no defined character without knowing the
	// host's code page.
	ErrNonASCIIChar = errors.New("char is not ASCII")
)

// StringReader dereferences string addresses. [valuebuf.Memory]
// implements it.
type StringReader interface {
	CString(addr valuebuf.Address) (string, error)
}

// Encoder appends the JSON form of one primitive value to dst. raw
// holds at least kind.Size() bytes in little-endian order. strings is
// used only for [typeprog.String] values. Implementations must be safe
// for concurrent use.
type Encoder interface {
	AppendPrimitive(dst []byte, kind typeprog.PrimitiveKind, raw []byte, strings StringReader) ([]byte, error)
}

// Default is the standard encoder:
//   - bool as true or false
//   - char as a one-character string ("" for the zero char)
//   - integer kinds, byte, uptr and iptr in decimal
//   - floats in the shortest text that round-trips, switching to
//     exponent form outside [1e-6, 1e21)
//   - string as a quoted, escaped string, or null for address zero
var Default Encoder = defaultEncoder{}

type defaultEncoder struct{}

func (defaultEncoder) AppendPrimitive(dst []byte, kind typeprog.PrimitiveKind, raw []byte, strings StringReader) ([]byte, error) {
	size := int(kind.Size())
	if size == 0 {
		return dst, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
	if len(raw) < size {
		return dst, fmt.Errorf("%w: %s needs %d bytes, have %d", ErrShortValue, kind, size, len(raw))
	}

	switch kind {
	case typeprog.Bool:
		return strconv.AppendBool(dst, raw[0] != 0), nil
	case typeprog.Char:
		if raw[0] == 0 {
			return append(dst, `""`...), nil
		}
		if raw[0] >= utf8.RuneSelf {
			return dst, fmt.Errorf("%w: %#x", ErrNonASCIIChar, raw[0])
		}
		return jsonwrite.AppendQuoted(dst, string(raw[:1])), nil
	case typeprog.Byte, typeprog.U8:
		return strconv.AppendUint(dst, uint64(raw[0]), 10), nil
	case typeprog.U16:
		return strconv.AppendUint(dst, uint64(binary.LittleEndian.Uint16(raw)), 10), nil
	case typeprog.U32:
		return strconv.AppendUint(dst, uint64(binary.LittleEndian.Uint32(raw)), 10), nil
	case typeprog.U64, typeprog.UPtr:
		return strconv.AppendUint(dst, binary.LittleEndian.Uint64(raw), 10), nil
	case typeprog.I8:
		return strconv.AppendInt(dst, int64(int8(raw[0])), 10), nil
	case typeprog.I16:
		return strconv.AppendInt(dst, int64(int16(binary.LittleEndian.Uint16(raw))), 10), nil
	case typeprog.I32:
		return strconv.AppendInt(dst, int64(int32(binary.LittleEndian.Uint32(raw))), 10), nil
	case typeprog.I64, typeprog.IPtr:
		return strconv.AppendInt(dst, int64(binary.LittleEndian.Uint64(raw)), 10), nil
	case typeprog.F32:
		return appendFloat(dst, float64(math.Float32frombits(binary.LittleEndian.Uint32(raw))), 32)
	case typeprog.F64:
		return appendFloat(dst, math.Float64frombits(binary.LittleEndian.Uint64(raw)), 64)
	case typeprog.String:
		addr := valuebuf.Address(binary.LittleEndian.Uint64(raw))
		if addr == valuebuf.Null {
			return append(dst, "null"...), nil
		}
		if strings == nil {
			return dst, fmt.Errorf("%w: string value without a memory to read it from", ErrUnsupportedKind)
		}
		text, err := strings.CString(addr)
		if err != nil {
			return dst, fmt.Errorf("reading string: %w", err)
		}
		return jsonwrite.AppendQuoted(dst, text), nil
	}
	return dst, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
}

// appendFloat formats the way encoding/json does so output matches
// what Go's own JSON encoder would produce for the same number.
func appendFloat(dst []byte, value float64, bits int) ([]byte, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return dst, fmt.Errorf("%w: %v", ErrNonFinite, value)
	}

	format := byte('f')
	if abs := math.Abs(value); abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	dst = strconv.AppendFloat(dst, value, format, -1, bits)
	if format == 'e' {
		// 1e-07 -> 1e-7
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst, nil
}
