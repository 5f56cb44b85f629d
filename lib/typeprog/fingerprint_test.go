// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package typeprog

import "testing"

func TestFingerprintStable(t *testing.T) {
	ops := []Op{
		{Kind: OpScopeOpen, OpCount: 4},
		{Kind: OpPrimitive, Primitive: I32, Name: "x", OpCount: 1},
		{Kind: OpPrimitive, Primitive: I32, Name: "y", Offset: 4, OpCount: 1},
		{Kind: OpScopeClose, OpCount: 1},
	}

	first, err := Fingerprint(MustProgram(ops...))
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	second, err := Fingerprint(MustProgram(ops...))
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if first != second {
		t.Errorf("identical programs fingerprint differently: %s vs %s", first, second)
	}
	if len(first.String()) != 64 || len(first.Short()) != 12 {
		t.Errorf("hash formatting: %q / %q", first.String(), first.Short())
	}

	ops[2].Name = "z"
	changed, err := Fingerprint(MustProgram(ops...))
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if changed == first {
		t.Error("renaming a member did not change the fingerprint")
	}
}
