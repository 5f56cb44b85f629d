// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package scalar converts primitive values stored in a value buffer
// into JSON fragments.
//
// The [Encoder] interface is the boundary between the type-program
// interpreter and primitive formatting: the interpreter hands over a
// primitive kind and the raw little-endian bytes at the value's offset,
// and gets back JSON text appended to its buffer. [Default] is the
// standard implementation. Hosts with their own number or string
// formatting rules supply a different Encoder to the serializer.
package scalar
