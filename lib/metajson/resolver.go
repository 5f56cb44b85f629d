// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package metajson

// Resolver maps a non-zero entity handle to the path string written in
// its place. Implementations must be safe for concurrent use when the
// serializer is shared across goroutines.
type Resolver interface {
	Resolve(handle uint64) (path string, ok bool)
}

// ResolverFunc adapts a function to the [Resolver] interface.
type ResolverFunc func(handle uint64) (string, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve(handle uint64) (string, bool) { return f(handle) }

// PathTable is a fixed handle-to-path mapping, the form in which value
// images carry their references. A PathTable must not be modified
// while a serialization that uses it is running.
type PathTable map[uint64]string

// Resolve looks up handle.
func (table PathTable) Resolve(handle uint64) (string, bool) {
	path, ok := table[handle]
	return path, ok
}
