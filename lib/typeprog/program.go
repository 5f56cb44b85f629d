// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package typeprog

import (
	"errors"
	"fmt"
)

// SchemaID identifies a registered type. Zero is never a valid id.
type SchemaID uint32

// Op is one instruction of a type program.
type Op struct {
	// Kind selects how the interpreter handles this operation.
	Kind OpKind `json:"kind"`

	// Primitive is the scalar format when Kind is OpPrimitive.
	Primitive PrimitiveKind `json:"primitive,omitempty"`

	// Name is the member name inside the enclosing object. Empty for
	// a program's root operation and for anonymous array elements.
	Name string `json:"name,omitempty"`

	// Offset is the byte offset of the value from the current base.
	Offset uint32 `json:"offset"`

	// Count greater than one marks this operation as the head of an
	// inline array of Count elements. Zero and one both mean a single
	// value.
	Count int32 `json:"count,omitempty"`

	// OpCount is the number of operations, starting at this one, that
	// describe one element. For OpScopeOpen it spans through the
	// matching OpScopeClose.
	OpCount int32 `json:"op_count,omitempty"`

	// Size is the byte stride between consecutive inline array
	// elements.
	Size uint32 `json:"size,omitempty"`

	// Type references the enum, bitmask, array, or vector schema this
	// operation depends on.
	Type SchemaID `json:"type,omitempty"`
}

// InlineArray reports whether the operation heads an inline array.
func (op *Op) InlineArray() bool {
	return op.Count > 1
}

// ErrMalformedProgram is wrapped by every well-formedness violation.
// A malformed program is a bug in whatever produced it, not a property
// of the data being serialized.
var ErrMalformedProgram = errors.New("malformed type program")

// Program is an immutable, validated operation sequence.
type Program struct {
	ops []Op
}

// NewProgram copies ops and checks that they form a well-formed
// program:
//
//   - every kind (and primitive kind) is defined;
//   - scope open/close operations nest as a stack and balance;
//   - an OpScopeOpen with a non-zero OpCount spans exactly to its
//     matching close;
//   - an inline array head has a positive stride and an OpCount whose
//     operations fit in the program and are scope-balanced on their
//     own, so each element can be walked in isolation;
//   - references to side schemas are non-zero.
//
// Whether referenced schemas exist is checked by the registry that
// owns the program, not here.
func NewProgram(ops []Op) (*Program, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: empty program", ErrMalformedProgram)
	}
	copied := make([]Op, len(ops))
	copy(copied, ops)
	if err := validate(copied); err != nil {
		return nil, err
	}
	return &Program{ops: copied}, nil
}

// MustProgram is NewProgram for statically known operation lists.
// Panics on a malformed program.
func MustProgram(ops ...Op) *Program {
	program, err := NewProgram(ops)
	if err != nil {
		panic(err)
	}
	return program
}

// Len returns the number of operations.
func (program *Program) Len() int {
	return len(program.ops)
}

// At returns the operation at index i.
func (program *Program) At(i int) Op {
	return program.ops[i]
}

// Ops returns the operation slice. Callers must not modify it.
func (program *Program) Ops() []Op {
	return program.ops
}

func validate(ops []Op) error {
	var open []int
	for i := range ops {
		op := &ops[i]
		if !op.Kind.Valid() {
			return fmt.Errorf("%w: op %d: invalid kind %d", ErrMalformedProgram, i, op.Kind)
		}
		if op.Count < 0 || op.OpCount < 0 {
			return fmt.Errorf("%w: op %d: negative count", ErrMalformedProgram, i)
		}

		switch op.Kind {
		case OpScopeOpen:
			open = append(open, i)
		case OpScopeClose:
			if len(open) == 0 {
				return fmt.Errorf("%w: op %d: scope close without open", ErrMalformedProgram, i)
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			if span := ops[start].OpCount; span != 0 && int(span) != i-start+1 {
				return fmt.Errorf("%w: op %d: scope spans %d ops, op_count says %d",
					ErrMalformedProgram, start, i-start+1, span)
			}
		case OpPrimitive:
			if !op.Primitive.Valid() {
				return fmt.Errorf("%w: op %d: invalid primitive kind %d", ErrMalformedProgram, i, op.Primitive)
			}
		case OpEnum, OpFlagSet, OpArray, OpVector:
			if op.Type == 0 {
				return fmt.Errorf("%w: op %d: %s without schema reference", ErrMalformedProgram, i, op.Kind)
			}
		}

		if op.InlineArray() {
			if err := validateInlineArray(ops, i); err != nil {
				return err
			}
		}
	}
	if len(open) != 0 {
		return fmt.Errorf("%w: op %d: scope open without close", ErrMalformedProgram, open[len(open)-1])
	}
	return nil
}

func validateInlineArray(ops []Op, i int) error {
	op := &ops[i]
	if op.Kind == OpScopeClose {
		return fmt.Errorf("%w: op %d: inline array cannot start with a scope close", ErrMalformedProgram, i)
	}
	if op.OpCount < 1 || i+int(op.OpCount) > len(ops) {
		return fmt.Errorf("%w: op %d: inline array element spans %d ops, program has %d left",
			ErrMalformedProgram, i, op.OpCount, len(ops)-i)
	}
	if op.Size == 0 {
		return fmt.Errorf("%w: op %d: inline array without element stride", ErrMalformedProgram, i)
	}
	depth := 0
	for _, element := range ops[i : i+int(op.OpCount)] {
		switch element.Kind {
		case OpScopeOpen:
			depth++
		case OpScopeClose:
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: op %d: inline array element closes an outer scope", ErrMalformedProgram, i)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: op %d: inline array element leaves %d scopes open", ErrMalformedProgram, i, depth)
	}
	return nil
}
