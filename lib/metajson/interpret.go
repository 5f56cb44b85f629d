// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package metajson

import (
	"fmt"

	"github.com/bureau-foundation/metajson/lib/jsonwrite"
	"github.com/bureau-foundation/metajson/lib/typeprog"
	"github.com/bureau-foundation/metajson/lib/valuebuf"
)

// walker holds the state of one serialization call. It is created per
// call and never shared.
type walker struct {
	*Serializer
	memory valuebuf.Memory
	out    *jsonwrite.Buffer

	// depth counts open objects and sequences across nested walks.
	depth int

	// path is the JSON path of the value currently being written.
	path []segment

	// scratch is reused by the scalar encoder between primitives.
	scratch []byte
}

// run interprets ops against the value at base. The op at position 0
// is the root of this walk: it never writes a member name and is never
// treated as the head of an inline array, even when it carries a name
// or a count. Element programs of arrays and vectors are walks of their
// own, so their first op is unnamed too.
func (w *walker) run(ops []typeprog.Op, base valuebuf.Address) error {
	// scopes records len(w.path) at every ScopeOpen still open in
	// this walk.
	var scopes []int

	for i := 0; i < len(ops); i++ {
		op := &ops[i]

		if i > 0 {
			if op.Name != "" {
				w.out.Key(op.Name)
			}
			if op.Count > 1 {
				span := int(op.OpCount)
				if span < 1 || i+span > len(ops) {
					return w.fail(MalformedProgram, op, fmt.Errorf(
						"inline array at op %d spans %d ops, program has %d", i, span, len(ops)))
				}
				mark := len(w.path)
				w.pushName(op.Name)
				// The element program starts at the head op itself: in
				// the nested walk it sits at position 0 and is
				// dispatched as an ordinary single element.
				if err := w.sequence(op, ops[i:i+span], base, int(op.Count), op.Size); err != nil {
					return err
				}
				w.popTo(mark)
				i += span - 1
				continue
			}
		}

		switch op.Kind {
		case typeprog.OpScopeOpen:
			scopes = append(scopes, len(w.path))
			if i > 0 {
				w.pushName(op.Name)
			}
			if err := w.enter(op); err != nil {
				return err
			}
			w.out.OpenObject()

		case typeprog.OpScopeClose:
			if len(scopes) == 0 {
				return w.fail(MalformedProgram, op, fmt.Errorf("scope close at op %d has no matching open", i))
			}
			w.popTo(scopes[len(scopes)-1])
			scopes = scopes[:len(scopes)-1]
			w.out.CloseObject()
			w.leave()

		default:
			if err := w.value(op, i > 0, base); err != nil {
				return err
			}
		}
	}

	if len(scopes) != 0 {
		return w.fail(MalformedProgram, nil, fmt.Errorf("%d scopes left open at end of program", len(scopes)))
	}
	return nil
}

// value writes the JSON form of a single non-scope operation. named
// reports whether op's name is part of the current path.
func (w *walker) value(op *typeprog.Op, named bool, base valuebuf.Address) error {
	if named {
		defer w.popTo(len(w.path))
		w.pushName(op.Name)
	}

	addr := base + valuebuf.Address(op.Offset)
	switch op.Kind {
	case typeprog.OpScopeOpen, typeprog.OpScopeClose:
		return w.fail(MalformedProgram, op, fmt.Errorf("%s dispatched as a single value", op.Kind))
	case typeprog.OpPrimitive:
		return w.primitive(op, addr)
	case typeprog.OpEnum:
		return w.enum(op, addr)
	case typeprog.OpFlagSet:
		return w.flagSet(op, addr)
	case typeprog.OpArray:
		return w.array(op, addr)
	case typeprog.OpVector:
		return w.vector(op, addr)
	case typeprog.OpReference:
		return w.reference(op, addr)
	}
	return w.fail(MalformedProgram, op, fmt.Errorf("unknown operation kind %d", uint8(op.Kind)))
}

func (w *walker) primitive(op *typeprog.Op, addr valuebuf.Address) error {
	raw, err := w.memory.Read(addr, int(op.Primitive.Size()))
	if err != nil {
		return w.fail(BufferOverrun, op, err)
	}
	w.scratch, err = w.scalars.AppendPrimitive(w.scratch[:0], op.Primitive, raw, w.memory)
	if err != nil {
		return w.fail(ScalarEncodingFailed, op, err)
	}
	w.out.AppendBytes(w.scratch)
	return nil
}

// enter accounts for one more level of objects or sequences.
func (w *walker) enter(op *typeprog.Op) error {
	if w.depth >= w.maxDepth {
		return w.fail(DepthExceeded, op, fmt.Errorf("limit is %d", w.maxDepth))
	}
	w.depth++
	return nil
}

func (w *walker) leave() { w.depth-- }

// pushName appends a member step. Unnamed ops add nothing.
func (w *walker) pushName(name string) {
	if name != "" {
		w.path = append(w.path, segment{name: name})
	}
}

func (w *walker) pushIndex(index int) {
	w.path = append(w.path, segment{index: index})
}

func (w *walker) popTo(length int) {
	w.path = w.path[:length]
}

// fail builds the error for the current path. op may be nil.
func (w *walker) fail(kind Kind, op *typeprog.Op, err error) error {
	failure := &Error{Kind: kind, Path: formatPath(w.path), Err: err}
	if op != nil {
		failure.Op = op.Kind
	}
	return failure
}
