// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package valuebuf

import (
	"errors"
	"testing"
)

func TestBuilderAllocAlignment(t *testing.T) {
	builder := NewBuilder()

	first := builder.Alloc(1, 1)
	if first != ReservedBytes {
		t.Errorf("first allocation at %d, want %d", first, ReservedBytes)
	}
	second := builder.Alloc(8, 8)
	if second != 16 {
		t.Errorf("8-aligned allocation at %d, want 16", second)
	}
	third := builder.Alloc(2, 2)
	if third != 24 {
		t.Errorf("2-aligned allocation at %d, want 24", third)
	}
	if got := builder.Memory().Len(); got != 26 {
		t.Errorf("memory length %d, want 26", got)
	}
}

func TestMemoryTypedReads(t *testing.T) {
	builder := NewBuilder()
	addr := builder.Alloc(24, 8)
	builder.PutI32(addr, -7)
	builder.PutU32(addr+4, 0xdeadbeef)
	builder.PutU64(addr+8, 1<<40)
	target := builder.Alloc(4, 4)
	builder.PutAddress(addr+16, target)
	memory := builder.Memory()

	if value, err := memory.Int32(addr); err != nil || value != -7 {
		t.Errorf("Int32 = %d, %v; want -7", value, err)
	}
	if value, err := memory.Uint32(addr + 4); err != nil || value != 0xdeadbeef {
		t.Errorf("Uint32 = %#x, %v", value, err)
	}
	if value, err := memory.Uint64(addr + 8); err != nil || value != 1<<40 {
		t.Errorf("Uint64 = %d, %v", value, err)
	}
	if value, err := memory.Address(addr + 16); err != nil || value != target {
		t.Errorf("Address = %d, %v; want %d", value, err, target)
	}
}

func TestMemoryReadErrors(t *testing.T) {
	builder := NewBuilder()
	addr := builder.Alloc(4, 4)
	memory := builder.Memory()

	if _, err := memory.Read(Null, 4); !errors.Is(err, ErrNullAddress) {
		t.Errorf("Read(Null): %v, want ErrNullAddress", err)
	}
	if _, err := memory.Read(addr+2, 4); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Read past end: %v, want ErrOutOfBounds", err)
	}
	if _, err := memory.Read(Address(^uint64(0)), 4); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Read with overflowing address: %v, want ErrOutOfBounds", err)
	}
}

func TestCString(t *testing.T) {
	builder := NewBuilder()
	addr := builder.String("hello")
	empty := builder.String("")
	memory := builder.Memory()

	if value, err := memory.CString(addr); err != nil || value != "hello" {
		t.Errorf("CString = %q, %v; want hello", value, err)
	}
	if value, err := memory.CString(empty); err != nil || value != "" {
		t.Errorf("CString(empty) = %q, %v", value, err)
	}

	unterminated := NewMemory([]byte{0, 0, 0, 0, 0, 0, 0, 0, 'a', 'b'})
	if _, err := unterminated.CString(8); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("unterminated string: %v, want ErrOutOfBounds", err)
	}
}

func TestVectorLayout(t *testing.T) {
	builder := NewBuilder()
	builder.Alloc(1, 1) // push the next allocation off an 8-byte boundary
	handle, elements := builder.Vector(3, 8, 8)
	for i := range 3 {
		builder.PutU64(elements+Address(i*8), uint64(i+10))
	}
	memory := builder.Memory()

	if uint64(elements)%8 != 0 {
		t.Errorf("elements at %d are not 8-aligned", elements)
	}
	count, decoded, err := memory.Vector(handle, 8, 8)
	if err != nil {
		t.Fatalf("Vector: %v", err)
	}
	if count != 3 || decoded != elements {
		t.Errorf("Vector = (%d, %d), want (3, %d)", count, decoded, elements)
	}
	if value, _ := memory.Uint64(decoded + 16); value != 12 {
		t.Errorf("third element = %d, want 12", value)
	}
}

func TestVectorStorageBoundsChecked(t *testing.T) {
	builder := NewBuilder()
	handle, _ := builder.Vector(2, 4, 4)
	// Claim more elements than were allocated.
	builder.PutU32(handle, 1000)

	if _, _, err := builder.Memory().Vector(handle, 4, 4); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("oversized vector: %v, want ErrOutOfBounds", err)
	}
}

func TestEmptyVector(t *testing.T) {
	builder := NewBuilder()
	handle, _ := builder.Vector(0, 4, 4)

	count, _, err := builder.Memory().Vector(handle, 4, 4)
	if err != nil {
		t.Fatalf("Vector: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}
