// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"
)

// recorder captures Fatalf calls instead of stopping the test.
type recorder struct {
	failed  bool
	message string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...any) {
	r.failed = true
	r.message = fmt.Sprintf(format, args...)
	panic(r)
}

func capture(fn func(r *recorder)) (r *recorder) {
	r = &recorder{}
	defer func() {
		if recovered := recover(); recovered != nil && recovered != r {
			panic(recovered)
		}
	}()
	fn(r)
	return r
}

func TestRequireReceive(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 42
	if got := RequireReceive(t, ch, time.Second, "value"); got != 42 {
		t.Errorf("got %d, want 42", got)
	}

	closed := make(chan int)
	close(closed)
	r := capture(func(r *recorder) { RequireReceive(r, closed, time.Second, "closed %s", "chan") })
	if !r.failed {
		t.Error("closed channel did not fail")
	}
	if want := "channel closed before a value arrived: closed chan"; r.message != want {
		t.Errorf("message = %q, want %q", r.message, want)
	}

	r = capture(func(r *recorder) { RequireReceive(r, make(chan int), time.Millisecond) })
	if !r.failed {
		t.Error("empty channel did not time out")
	}
}

func TestRequireJSON(t *testing.T) {
	RequireJSON(t, `{"x": 1}`, `{"x": 1}`)

	if r := capture(func(r *recorder) { RequireJSON(r, `{"x": 1`, `{"x": 1`) }); !r.failed {
		t.Error("invalid JSON accepted")
	}
	if r := capture(func(r *recorder) { RequireJSON(r, `[1, 2]`, `[1,2]`) }); !r.failed {
		t.Error("byte mismatch accepted")
	}
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, t.TempDir(), "nested/schema.yaml", []byte("types: []\n"))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "types: []\n" {
		t.Errorf("content = %q", data)
	}
}
