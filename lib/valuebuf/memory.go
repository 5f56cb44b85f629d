// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package valuebuf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Address is a byte address inside a [Memory].
type Address uint64

// Null is the absent address.
const Null Address = 0

// ReservedBytes is the size of the never-allocated prefix that backs
// the null address.
const ReservedBytes = 8

// ErrOutOfBounds is wrapped when a read falls outside the memory.
var ErrOutOfBounds = errors.New("read outside value memory")

// ErrNullAddress is wrapped when a read dereferences address zero.
var ErrNullAddress = errors.New("null address")

// Memory is a read-only address space. The zero value is empty. A
// Memory is a view over a byte slice and is cheap to copy; it is safe
// for concurrent reads as long as nobody writes the underlying slice.
type Memory struct {
	data []byte
}

// NewMemory wraps data without copying.
func NewMemory(data []byte) Memory {
	return Memory{data: data}
}

// Len returns the size of the address space in bytes.
func (memory Memory) Len() int {
	return len(memory.data)
}

// Bytes returns the underlying bytes. Callers must not modify them.
func (memory Memory) Bytes() []byte {
	return memory.data
}

// Read returns the n bytes at addr.
func (memory Memory) Read(addr Address, n int) ([]byte, error) {
	if addr == Null {
		return nil, fmt.Errorf("%w: reading %d bytes", ErrNullAddress, n)
	}
	end := uint64(addr) + uint64(n)
	if n < 0 || end < uint64(addr) || end > uint64(len(memory.data)) {
		return nil, fmt.Errorf("%w: %d bytes at %#x, memory is %d bytes",
			ErrOutOfBounds, n, uint64(addr), len(memory.data))
	}
	return memory.data[addr:end], nil
}

// Uint32 reads a little-endian uint32.
func (memory Memory) Uint32(addr Address) (uint32, error) {
	raw, err := memory.Read(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(raw), nil
}

// Int32 reads a little-endian int32.
func (memory Memory) Int32(addr Address) (int32, error) {
	value, err := memory.Uint32(addr)
	return int32(value), err
}

// Uint64 reads a little-endian uint64.
func (memory Memory) Uint64(addr Address) (uint64, error) {
	raw, err := memory.Read(addr, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(raw), nil
}

// Address reads a stored pointer.
func (memory Memory) Address(addr Address) (Address, error) {
	value, err := memory.Uint64(addr)
	return Address(value), err
}

// CString reads the NUL-terminated string starting at addr.
func (memory Memory) CString(addr Address) (string, error) {
	if addr == Null {
		return "", fmt.Errorf("%w: reading string", ErrNullAddress)
	}
	if uint64(addr) >= uint64(len(memory.data)) {
		return "", fmt.Errorf("%w: string at %#x, memory is %d bytes",
			ErrOutOfBounds, uint64(addr), len(memory.data))
	}
	tail := memory.data[addr:]
	end := bytes.IndexByte(tail, 0)
	if end < 0 {
		return "", fmt.Errorf("%w: string at %#x is not terminated", ErrOutOfBounds, uint64(addr))
	}
	return string(tail[:end]), nil
}

// vectorHeaderSize is the count and capacity words in front of the
// element storage.
const vectorHeaderSize = 8

// Vector decodes the vector whose header is at handle. The element
// storage starts at the first multiple of alignment after the header.
// The whole storage range is bounds-checked against elementSize.
func (memory Memory) Vector(handle Address, elementSize, alignment uint32) (count int, elements Address, err error) {
	rawCount, err := memory.Uint32(handle)
	if err != nil {
		return 0, Null, fmt.Errorf("vector header: %w", err)
	}
	elements = VectorElements(handle, alignment)
	if rawCount > 0 {
		if _, err := memory.Read(elements, int(rawCount)*int(elementSize)); err != nil {
			return 0, Null, fmt.Errorf("vector storage: %w", err)
		}
	}
	return int(rawCount), elements, nil
}

// VectorElements returns the address of the first element of the
// vector whose header is at handle.
func VectorElements(handle Address, alignment uint32) Address {
	return Address(alignUp(uint64(handle)+vectorHeaderSize, uint64(alignment)))
}

func alignUp(value, alignment uint64) uint64 {
	if alignment <= 1 {
		return value
	}
	return (value + alignment - 1) / alignment * alignment
}
