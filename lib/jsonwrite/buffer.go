// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jsonwrite

import (
	"io"

	"github.com/mailru/easyjson/jwriter"
)

// Buffer accumulates JSON text. The zero value is an empty buffer
// ready for use. A Buffer is not safe for concurrent use.
type Buffer struct {
	data  []byte
	lists []list

	// escaper quotes strings; it is drained after every use.
	escaper jwriter.Writer
}

type list struct {
	separator string
	count     int
}

// Push writes open and starts a list scope whose items are separated
// by separator.
func (buffer *Buffer) Push(open, separator string) {
	buffer.data = append(buffer.data, open...)
	buffer.lists = append(buffer.lists, list{separator: separator})
}

// Next starts a new item in the innermost list scope, writing the
// separator unless this is the scope's first item. Outside any scope
// it does nothing.
func (buffer *Buffer) Next() {
	if len(buffer.lists) == 0 {
		return
	}
	top := &buffer.lists[len(buffer.lists)-1]
	if top.count > 0 {
		buffer.data = append(buffer.data, top.separator...)
	}
	top.count++
}

// Pop ends the innermost list scope and writes close. Popping with no
// open scope is a programming error and panics.
func (buffer *Buffer) Pop(close string) {
	if len(buffer.lists) == 0 {
		panic("jsonwrite: Pop without an open list scope")
	}
	buffer.lists = buffer.lists[:len(buffer.lists)-1]
	buffer.data = append(buffer.data, close...)
}

// OpenObject writes "{" and starts a member scope.
func (buffer *Buffer) OpenObject() { buffer.Push("{", ", ") }

// CloseObject ends the member scope and writes "}".
func (buffer *Buffer) CloseObject() { buffer.Pop("}") }

// OpenArray writes "[" and starts an element scope.
func (buffer *Buffer) OpenArray() { buffer.Push("[", ", ") }

// CloseArray ends the element scope and writes "]".
func (buffer *Buffer) CloseArray() { buffer.Pop("]") }

// Key starts an object member: separator, quoted name, and ": ".
func (buffer *Buffer) Key(name string) {
	buffer.Next()
	buffer.AppendString(name)
	buffer.data = append(buffer.data, ": "...)
}

// AppendRaw writes text verbatim.
func (buffer *Buffer) AppendRaw(text string) {
	buffer.data = append(buffer.data, text...)
}

// AppendBytes writes raw bytes verbatim.
func (buffer *Buffer) AppendBytes(text []byte) {
	buffer.data = append(buffer.data, text...)
}

// AppendString writes text as a quoted JSON string.
func (buffer *Buffer) AppendString(text string) {
	buffer.data = appendQuotedWith(&buffer.escaper, buffer.data, text)
}

// AppendUnquoted writes text escaped for use inside a JSON string,
// without the surrounding quotes. The flag-set encoder uses it for
// names written inside a quote-delimited list scope.
func (buffer *Buffer) AppendUnquoted(text string) {
	quoted := appendQuotedWith(&buffer.escaper, nil, text)
	buffer.data = append(buffer.data, quoted[1:len(quoted)-1]...)
}

// Depth returns the number of open list scopes.
func (buffer *Buffer) Depth() int {
	return len(buffer.lists)
}

// Len returns the number of bytes written.
func (buffer *Buffer) Len() int {
	return len(buffer.data)
}

// Bytes returns the written text. The slice aliases the buffer and is
// valid until the next write.
func (buffer *Buffer) Bytes() []byte {
	return buffer.data
}

// String returns a copy of the written text.
func (buffer *Buffer) String() string {
	return string(buffer.data)
}

// Reset empties the buffer and drops every open scope, keeping the
// allocated storage.
func (buffer *Buffer) Reset() {
	buffer.data = buffer.data[:0]
	buffer.lists = buffer.lists[:0]
}

// WriteTo writes the buffered text to w.
func (buffer *Buffer) WriteTo(w io.Writer) (int64, error) {
	written, err := w.Write(buffer.data)
	return int64(written), err
}

// Mark records the buffer state so a failed write sequence can be
// undone with [Buffer.Rewind].
type Mark struct {
	length int
	depth  int
	count  int
}

// Mark returns the current state.
func (buffer *Buffer) Mark() Mark {
	mark := Mark{length: len(buffer.data), depth: len(buffer.lists)}
	if mark.depth > 0 {
		mark.count = buffer.lists[mark.depth-1].count
	}
	return mark
}

// Rewind restores the state recorded by mark: text written since is
// dropped, scopes opened since are discarded, and the item count of
// the scope that was innermost at mark time is restored. Rewinding to
// a mark whose scope has since been popped panics.
func (buffer *Buffer) Rewind(mark Mark) {
	if mark.depth > len(buffer.lists) || mark.length > len(buffer.data) {
		panic("jsonwrite: Rewind to a mark from a closed scope")
	}
	buffer.data = buffer.data[:mark.length]
	buffer.lists = buffer.lists[:mark.depth]
	if mark.depth > 0 {
		buffer.lists[mark.depth-1].count = mark.count
	}
}

// AppendQuoted appends text to dst as a quoted JSON string. Quotes,
// backslashes, and control characters are escaped; invalid UTF-8 is
// replaced by U+FFFD. HTML characters are left alone. U+2028 and
// U+2029 are escaped so the output is also valid JavaScript.
func AppendQuoted(dst []byte, text string) []byte {
	var escaper jwriter.Writer
	return appendQuotedWith(&escaper, dst, text)
}

func appendQuotedWith(escaper *jwriter.Writer, dst []byte, text string) []byte {
	escaper.NoEscapeHTML = true
	escaper.String(text)
	// Writing a string cannot fail, so BuildBytes only flattens the
	// writer's chunks and leaves it empty for the next call.
	quoted, _ := escaper.BuildBytes()
	return append(dst, quoted...)
}
