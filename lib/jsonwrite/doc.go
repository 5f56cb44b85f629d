// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package jsonwrite provides an append-only JSON text buffer with list
// scoping.
//
// A list scope is opened with an opening token and a separator
// ([Buffer.Push]), and every item in it starts with [Buffer.Next],
// which writes the separator before all but the first item. Objects
// and arrays are list scopes with ", " separators; the flag-set
// encoder uses a scope opened and closed by a double quote with "|"
// between names. Callers never write punctuation themselves, so
// bracket and comma placement is correct by construction.
//
//	var buffer jsonwrite.Buffer
//	buffer.OpenObject()
//	buffer.Key("x")
//	buffer.AppendRaw("1")
//	buffer.CloseObject()
//	buffer.String() // {"x": 1}
package jsonwrite
