// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package valuebuf

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/metajson/lib/codec"
)

func sampleImage() *Image {
	builder := NewBuilder()
	root := builder.Alloc(4096, 8)
	builder.PutI32(root, 1)
	builder.PutI32(root+4, 2)
	builder.PutU64(root+8, 500)
	return &Image{
		Schema: "Position",
		Root:   root,
		Memory: builder.Bytes(),
		Paths:  map[uint64]string{500: "Foo.Bar"},
	}
}

func TestImageRoundtrip(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(compression.String(), func(t *testing.T) {
			original := sampleImage()
			data, err := EncodeImage(original, compression)
			if err != nil {
				t.Fatalf("EncodeImage: %v", err)
			}

			header, err := ParseImageHeader(data)
			if err != nil {
				t.Fatalf("ParseImageHeader: %v", err)
			}
			if header.Compression != compression {
				t.Errorf("header compression = %s, want %s", header.Compression, compression)
			}

			decoded, err := DecodeImage(data)
			if err != nil {
				t.Fatalf("DecodeImage: %v", err)
			}
			if decoded.Schema != original.Schema || decoded.Root != original.Root {
				t.Errorf("decoded %s@%d, want %s@%d", decoded.Schema, decoded.Root, original.Schema, original.Root)
			}
			if !bytes.Equal(decoded.Memory, original.Memory) {
				t.Error("memory differs after roundtrip")
			}
			if decoded.Paths[500] != "Foo.Bar" {
				t.Errorf("paths = %v", decoded.Paths)
			}
		})
	}
}

func TestImageIncompressibleFallsBack(t *testing.T) {
	image := &Image{Schema: "Tiny", Root: 8, Memory: []byte{0, 0, 0, 0, 0, 0, 0, 0, 1, 2, 3, 4}}

	data, err := EncodeImage(image, CompressionZstd)
	if err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	header, err := ParseImageHeader(data)
	if err != nil {
		t.Fatalf("ParseImageHeader: %v", err)
	}
	if header.Compression != CompressionNone {
		t.Errorf("tiny payload stored with %s, want none", header.Compression)
	}
	if _, err := DecodeImage(data); err != nil {
		t.Errorf("DecodeImage: %v", err)
	}
}

func TestImageFileRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "value.mjimg")
	if err := WriteImageFile(path, sampleImage(), CompressionZstd); err != nil {
		t.Fatalf("WriteImageFile: %v", err)
	}

	image, err := ReadImageFile(path)
	if err != nil {
		t.Fatalf("ReadImageFile: %v", err)
	}
	value, err := image.View().Int32(image.Root + 4)
	if err != nil || value != 2 {
		t.Errorf("root field = %d, %v; want 2", value, err)
	}
}

func TestDecodeImageRejects(t *testing.T) {
	if _, err := DecodeImage([]byte("definitely not an image")); !errors.Is(err, ErrNotImage) {
		t.Errorf("garbage: %v, want ErrNotImage", err)
	}

	data, err := EncodeImage(sampleImage(), CompressionNone)
	if err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	data[6] = 99
	if _, err := DecodeImage(data); err == nil {
		t.Error("accepted unknown version")
	}
}

func TestDecodePayload(t *testing.T) {
	data, err := EncodeImage(sampleImage(), CompressionLZ4)
	if err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	header, payload, err := DecodePayload(data)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if header.Version != ImageVersion || uint64(len(payload)) != header.PayloadSize {
		t.Errorf("header = %+v, payload %d bytes", header, len(payload))
	}

	var image Image
	if err := codec.Unmarshal(payload, &image); err != nil {
		t.Fatalf("payload is not an image envelope: %v", err)
	}
	if image.Schema != "Position" || image.Paths[500] != "Foo.Bar" {
		t.Errorf("decoded payload = %+v", image)
	}
}

func TestImageValidate(t *testing.T) {
	tests := []struct {
		name  string
		image Image
	}{
		{"no schema", Image{Root: 8, Memory: make([]byte, 16)}},
		{"null root", Image{Schema: "A", Memory: make([]byte, 16)}},
		{"root past end", Image{Schema: "A", Root: 16, Memory: make([]byte, 16)}},
		{"null path", Image{Schema: "A", Root: 8, Memory: make([]byte, 16), Paths: map[uint64]string{0: "x"}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := test.image.Validate(); err == nil {
				t.Error("Validate accepted an invalid image")
			}
		})
	}
}

func TestParseCompression(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		parsed, err := ParseCompression(compression.String())
		if err != nil || parsed != compression {
			t.Errorf("ParseCompression(%q) = %s, %v", compression, parsed, err)
		}
	}
	if _, err := ParseCompression("gzip"); err == nil {
		t.Error("ParseCompression accepted gzip")
	}
}
