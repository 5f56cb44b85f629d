// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package metajson

import (
	"errors"
	"strconv"
	"strings"

	"github.com/bureau-foundation/metajson/lib/typeprog"
)

// Kind classifies serialization failures so callers can react without
// parsing messages. Each Kind is itself an error, so
// errors.Is(err, metajson.UnknownEnumValue) works on any error returned
// by a [Serializer].
type Kind string

const (
	// UnknownEnumValue: the stored integer matches no enum constant.
	UnknownEnumValue Kind = "unknown enum value"

	// UnmatchedFlagBits: bits remain set in a bitmask after every
	// matching named flag was subtracted.
	UnmatchedFlagBits Kind = "unmatched flag bits"

	// UnresolvableReference: a non-zero entity handle has no path.
	UnresolvableReference Kind = "unresolvable reference"

	// ScalarEncodingFailed: the scalar encoder rejected a primitive.
	ScalarEncodingFailed Kind = "scalar encoding failed"

	// MalformedProgram: the type program violates its structural
	// rules. This is a compiler bug, not bad data.
	MalformedProgram Kind = "malformed program"

	// UnknownSchema: a schema id named by the caller or by an
	// operation is not registered with the expected kind.
	UnknownSchema Kind = "unknown schema"

	// BufferOverrun: a read fell outside the value memory or
	// dereferenced a null address.
	BufferOverrun Kind = "buffer overrun"

	// DepthExceeded: objects and sequences nest deeper than the
	// serializer's limit.
	DepthExceeded Kind = "depth exceeded"
)

func (kind Kind) Error() string { return string(kind) }

// Error is the failure returned by every [Serializer] method.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Path is the JSON path of the value being written when the walk
	// failed, such as ".points[2].x". Empty for the root value.
	Path string

	// Op is the kind of the failing operation, or zero when the
	// failure happened before any operation ran.
	Op typeprog.OpKind

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var message strings.Builder
	message.WriteString("metajson: ")
	message.WriteString(string(e.Kind))
	if e.Path != "" {
		message.WriteString(" at ")
		message.WriteString(e.Path)
	}
	if e.Err != nil {
		message.WriteString(": ")
		message.WriteString(e.Err.Error())
	}
	return message.String()
}

// Unwrap exposes both the Kind and the underlying cause to errors.Is
// and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the Kind of a serialization failure, or "" if err did
// not come from a [Serializer].
func KindOf(err error) Kind {
	var serializeError *Error
	if errors.As(err, &serializeError) {
		return serializeError.Kind
	}
	return ""
}

// segment is one step of a JSON path: a member name, or an element
// index when name is empty.
type segment struct {
	name  string
	index int
}

func formatPath(path []segment) string {
	var builder strings.Builder
	for _, step := range path {
		if step.name != "" {
			builder.WriteByte('.')
			builder.WriteString(step.name)
			continue
		}
		builder.WriteByte('[')
		builder.WriteString(strconv.Itoa(step.index))
		builder.WriteByte(']')
	}
	return builder.String()
}
