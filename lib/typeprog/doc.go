// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package typeprog defines type programs: the flat, ordered operation
// sequences that describe how a value is laid out in memory.
//
// A [Program] is compiled once per described type and replayed by the
// metajson interpreter against any number of value buffers. Instead of
// a pointer-linked tree, nesting is expressed by paired
// [OpScopeOpen]/[OpScopeClose] operations and by skip counts
// ([Op.OpCount]) on the first operation of an inline array element.
// Keeping the program a contiguous slice makes it trivially shareable
// across goroutines: nothing in this package mutates a program after
// [NewProgram] returns.
//
// Enumerations, bit-flag sets, fixed arrays, and dynamic vectors are
// described by side schemas ([EnumSchema], [FlagSetSchema],
// [ArraySchema], [VectorSchema]) that operations reference by
// [SchemaID]. The [Registry] interface is the read-only lookup surface
// the interpreter uses; [Table] is the immutable implementation built
// by [Compile] from declarations.
//
// Key exports:
//
//   - [Op], [OpKind], [PrimitiveKind] -- the instruction set
//   - [NewProgram] -- validated, immutable programs
//   - [Compile] -- declarations to a [Table] with computed layout
//   - [Fingerprint] -- BLAKE3 digest of a program's canonical encoding
package typeprog
