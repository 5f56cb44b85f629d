// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the shared CBOR encoding configuration.
//
// metajson stores two kinds of binary data as CBOR:
//
//   - value images (package valuebuf): a memory dump of a described
//     value, its root address, the schema name, and the reference
//     path table.
//   - the canonical operation encoding hashed by
//     typeprog.Fingerprint.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Same logical data always produces identical bytes, which the
// fingerprint relies on.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// # Struct Tag Rules
//
// Types that only ever travel as CBOR use `cbor` tags, usually with
// keyasint for compactness. Types that are also shown as JSON by the
// CLI use `json` tags; fxamacker/cbor falls back to them when no
// `cbor` tag is present. Never put both on one field.
package codec
