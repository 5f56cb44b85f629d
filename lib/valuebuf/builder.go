// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package valuebuf

import (
	"encoding/binary"
	"math"
)

// Builder assembles a [Memory]. Allocations are zero-filled and never
// move, so addresses returned by Alloc stay valid. Put methods panic
// when given an address outside the allocated space: that is a bug in
// the caller, not a data error.
type Builder struct {
	data []byte
}

// NewBuilder returns a builder whose memory holds only the reserved
// null prefix.
func NewBuilder() *Builder {
	return &Builder{data: make([]byte, ReservedBytes)}
}

// Alloc reserves size zeroed bytes at the next multiple of alignment.
func (builder *Builder) Alloc(size, alignment uint32) Address {
	start := alignUp(uint64(len(builder.data)), uint64(max(alignment, 1)))
	end := start + uint64(size)
	builder.data = append(builder.data, make([]byte, end-uint64(len(builder.data)))...)
	return Address(start)
}

// Memory returns the assembled memory. Later Put calls on the builder
// do not affect memories already returned.
func (builder *Builder) Memory() Memory {
	return NewMemory(builder.Bytes())
}

// Bytes returns a copy of the assembled bytes.
func (builder *Builder) Bytes() []byte {
	copied := make([]byte, len(builder.data))
	copy(copied, builder.data)
	return copied
}

func (builder *Builder) slot(addr Address, n int) []byte {
	return builder.data[addr : uint64(addr)+uint64(n)]
}

// PutBool stores a one-byte boolean.
func (builder *Builder) PutBool(addr Address, value bool) {
	var b byte
	if value {
		b = 1
	}
	builder.slot(addr, 1)[0] = b
}

// PutU8 stores an unsigned byte.
func (builder *Builder) PutU8(addr Address, value uint8) {
	builder.slot(addr, 1)[0] = value
}

// PutI8 stores a signed byte.
func (builder *Builder) PutI8(addr Address, value int8) {
	builder.slot(addr, 1)[0] = byte(value)
}

// PutU16 stores a little-endian uint16.
func (builder *Builder) PutU16(addr Address, value uint16) {
	binary.LittleEndian.PutUint16(builder.slot(addr, 2), value)
}

// PutI16 stores a little-endian int16.
func (builder *Builder) PutI16(addr Address, value int16) {
	builder.PutU16(addr, uint16(value))
}

// PutU32 stores a little-endian uint32.
func (builder *Builder) PutU32(addr Address, value uint32) {
	binary.LittleEndian.PutUint32(builder.slot(addr, 4), value)
}

// PutI32 stores a little-endian int32.
func (builder *Builder) PutI32(addr Address, value int32) {
	builder.PutU32(addr, uint32(value))
}

// PutU64 stores a little-endian uint64.
func (builder *Builder) PutU64(addr Address, value uint64) {
	binary.LittleEndian.PutUint64(builder.slot(addr, 8), value)
}

// PutI64 stores a little-endian int64.
func (builder *Builder) PutI64(addr Address, value int64) {
	builder.PutU64(addr, uint64(value))
}

// PutF32 stores an IEEE 754 single.
func (builder *Builder) PutF32(addr Address, value float32) {
	builder.PutU32(addr, math.Float32bits(value))
}

// PutF64 stores an IEEE 754 double.
func (builder *Builder) PutF64(addr Address, value float64) {
	builder.PutU64(addr, math.Float64bits(value))
}

// PutAddress stores a pointer.
func (builder *Builder) PutAddress(addr Address, value Address) {
	builder.PutU64(addr, uint64(value))
}

// String allocates a NUL-terminated copy of value and returns its
// address.
func (builder *Builder) String(value string) Address {
	addr := builder.Alloc(uint32(len(value)+1), 1)
	copy(builder.slot(addr, len(value)), value)
	return addr
}

// Vector allocates a vector header and storage for count elements of
// the given size and alignment. It returns the handle to store in the
// owning field and the address of the first element.
func (builder *Builder) Vector(count int, elementSize, alignment uint32) (handle, elements Address) {
	handle = builder.Alloc(vectorHeaderSize, max(alignment, 4))
	elements = VectorElements(handle, alignment)
	end := uint64(elements) + uint64(count)*uint64(elementSize)
	if end > uint64(len(builder.data)) {
		builder.data = append(builder.data, make([]byte, end-uint64(len(builder.data)))...)
	}
	builder.PutU32(handle, uint32(count))
	builder.PutU32(handle+4, uint32(count))
	return handle, elements
}
