// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package metajson

import (
	"errors"
	"io"
	"log/slog"

	"github.com/bureau-foundation/metajson/lib/jsonwrite"
	"github.com/bureau-foundation/metajson/lib/scalar"
	"github.com/bureau-foundation/metajson/lib/typeprog"
	"github.com/bureau-foundation/metajson/lib/valuebuf"
)

// DefaultMaxDepth bounds how deeply objects and sequences may nest
// before serialization fails with [DepthExceeded].
const DefaultMaxDepth = 64

// Serializer turns values into JSON using the type programs of a
// registry. Create one with [New]; it is immutable afterwards.
type Serializer struct {
	registry typeprog.Registry
	resolver Resolver
	scalars  scalar.Encoder
	maxDepth int
	logger   *slog.Logger
}

// Option configures a [Serializer].
type Option func(*Serializer)

// WithResolver sets the resolver for entity handles. Without one, any
// non-zero handle fails with [UnresolvableReference].
func WithResolver(resolver Resolver) Option {
	return func(serializer *Serializer) { serializer.resolver = resolver }
}

// WithScalarEncoder replaces [scalar.Default].
func WithScalarEncoder(encoder scalar.Encoder) Option {
	return func(serializer *Serializer) { serializer.scalars = encoder }
}

// WithMaxDepth sets the nesting limit. Values below 1 select
// [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(serializer *Serializer) { serializer.maxDepth = depth }
}

// WithLogger sets the logger that receives a debug record for every
// failed serialization.
func WithLogger(logger *slog.Logger) Option {
	return func(serializer *Serializer) { serializer.logger = logger }
}

// New returns a Serializer reading schemas from registry.
func New(registry typeprog.Registry, options ...Option) *Serializer {
	serializer := &Serializer{
		registry: registry,
		scalars:  scalar.Default,
		maxDepth: DefaultMaxDepth,
	}
	for _, option := range options {
		option(serializer)
	}
	if serializer.scalars == nil {
		serializer.scalars = scalar.Default
	}
	if serializer.maxDepth < 1 {
		serializer.maxDepth = DefaultMaxDepth
	}
	if serializer.logger == nil {
		serializer.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return serializer
}

// SerializeValue returns the JSON text of the value at address value,
// whose type is the registered schema id. On failure it returns "" and
// an [*Error].
func (serializer *Serializer) SerializeValue(id typeprog.SchemaID, memory valuebuf.Memory, value valuebuf.Address) (string, error) {
	var buffer jsonwrite.Buffer
	if err := serializer.SerializeValueInto(id, memory, value, &buffer); err != nil {
		return "", err
	}
	return buffer.String(), nil
}

// SerializeValueInto appends the JSON text of the value to buffer, for
// embedding one value inside a larger document. On failure buffer is
// restored to its state at entry.
func (serializer *Serializer) SerializeValueInto(id typeprog.SchemaID, memory valuebuf.Memory, value valuebuf.Address, buffer *jsonwrite.Buffer) error {
	program, err := serializer.registry.Program(id)
	if err != nil {
		err = &Error{Kind: UnknownSchema, Err: err}
		serializer.logFailure(id, err)
		return err
	}
	if err := serializer.SerializeProgram(program, memory, value, buffer); err != nil {
		serializer.logFailure(id, err)
		return err
	}
	return nil
}

// SerializeProgram runs program directly against the value at address
// value, appending to buffer. Enum, bitmask, array, and vector
// operations in program are still resolved through the registry. On
// failure buffer is restored to its state at entry.
func (serializer *Serializer) SerializeProgram(program *typeprog.Program, memory valuebuf.Memory, value valuebuf.Address, buffer *jsonwrite.Buffer) error {
	if program == nil || program.Len() == 0 {
		return &Error{Kind: MalformedProgram, Err: errors.New("empty program")}
	}

	mark := buffer.Mark()
	walk := walker{
		Serializer: serializer,
		memory:     memory,
		out:        buffer,
	}
	if err := walk.run(program.Ops(), value); err != nil {
		buffer.Rewind(mark)
		return err
	}
	return nil
}

func (serializer *Serializer) logFailure(id typeprog.SchemaID, err error) {
	var serializeError *Error
	if !errors.As(err, &serializeError) {
		serializer.logger.Debug("serialization failed", "schema", id, "error", err)
		return
	}
	serializer.logger.Debug("serialization failed",
		"schema", id,
		"kind", string(serializeError.Kind),
		"path", serializeError.Path,
		"op", serializeError.Op.String(),
		"error", err,
	)
}
