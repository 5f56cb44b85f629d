// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package typeprog

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/metajson/lib/codec"
)

// Hash is a 32-byte BLAKE3 digest.
type Hash [32]byte

// String returns the hex encoding of the hash.
func (hash Hash) String() string {
	return hex.EncodeToString(hash[:])
}

// Short returns the first 12 hex characters, enough to tell program
// revisions apart in listings.
func (hash Hash) Short() string {
	return hex.EncodeToString(hash[:6])
}

// programDomainKey separates program fingerprints from any other
// BLAKE3 use of the same bytes. ASCII, zero-padded to 32 bytes.
var programDomainKey = [32]byte{
	'm', 'e', 't', 'a', 'j', 's', 'o', 'n', '.', 't', 'y', 'p', 'e', 'p', 'r', 'o',
	'g', '.', 'p', 'r', 'o', 'g', 'r', 'a', 'm', 0, 0, 0, 0, 0, 0, 0,
}

// Fingerprint returns the keyed BLAKE3 hash of the program's
// deterministic CBOR encoding. Two programs have the same fingerprint
// exactly when they contain the same operations. Schema ids are part
// of the encoding, so the fingerprint is only comparable between
// tables compiled from the same declaration order.
func Fingerprint(program *Program) (Hash, error) {
	encoded, err := codec.Marshal(program.ops)
	if err != nil {
		return Hash{}, fmt.Errorf("encoding program: %w", err)
	}

	hasher, err := blake3.NewKeyed(programDomainKey[:])
	if err != nil {
		panic("typeprog: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(encoded)
	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash, nil
}
