// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package valuebuf models the raw memory a type program is replayed
// against.
//
// A [Memory] is a flat, read-only address space. Addresses are byte
// indexes into it; address zero is null and the first eight bytes are
// never allocated, so a zero pointer field can never alias real data.
// Pointers stored inside the memory (strings, vector handles) are
// 8-byte little-endian addresses into the same space.
//
// A vector handle points at a header of two little-endian uint32s,
// count then capacity, followed by the element storage aligned up to
// the element alignment. [Memory.Vector] decodes a handle given that
// alignment; [Builder.Vector] lays one out.
//
// [Builder] assembles a Memory for tests and host applications.
// [Image] bundles a Memory with its root address, schema name, and
// reference path table; image files are CBOR (lib/codec) behind a
// small header naming the payload compression (none, lz4, zstd).
// [ReadImageFile] memory-maps the file on unix hosts.
package valuebuf
