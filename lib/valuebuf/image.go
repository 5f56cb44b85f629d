// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package valuebuf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/bureau-foundation/metajson/lib/codec"
)

// Image is a self-contained serialized value: the memory it lives in,
// the address of the root value, the name of its type, and the path
// strings of every entity handle the value may reference.
type Image struct {
	Schema string            `cbor:"1,keyasint"`
	Root   Address           `cbor:"2,keyasint"`
	Memory []byte            `cbor:"3,keyasint"`
	Paths  map[uint64]string `cbor:"4,keyasint,omitempty"`
}

// View returns the image memory as a [Memory].
func (image *Image) View() Memory {
	return NewMemory(image.Memory)
}

// Validate checks that the image names a schema and that its root
// address lies inside its memory.
func (image *Image) Validate() error {
	if image.Schema == "" {
		return errors.New("image does not name a schema")
	}
	if len(image.Memory) < ReservedBytes {
		return fmt.Errorf("image memory is %d bytes, smaller than the %d-byte null prefix",
			len(image.Memory), ReservedBytes)
	}
	if image.Root == Null || uint64(image.Root) >= uint64(len(image.Memory)) {
		return fmt.Errorf("image root %#x is outside its %d-byte memory", uint64(image.Root), len(image.Memory))
	}
	if _, exists := image.Paths[0]; exists {
		return errors.New("image path table maps the null handle")
	}
	return nil
}

// Image file header: magic, format version, compression tag, and the
// uncompressed payload length.
//
//	0      6        7            8                  16
//	+------+--------+------------+------------------+
//	|MJIMG0|version |compression |payload length LE |
//	+------+--------+------------+------------------+
const imageHeaderSize = 16

// ImageVersion is the image file format version this package writes
// and accepts.
const ImageVersion = 1

var imageMagic = []byte{'M', 'J', 'I', 'M', 'G', 0}

// ErrNotImage is returned when data does not start with the image
// magic.
var ErrNotImage = errors.New("not a value image")

// EncodeImage serializes image with the requested compression. When
// compression would not shrink the payload it is stored uncompressed;
// the header records what was actually used.
func EncodeImage(image *Image, compression Compression) ([]byte, error) {
	if err := image.Validate(); err != nil {
		return nil, err
	}
	payload, err := codec.Marshal(image)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	compressed, err := compress(payload, compression)
	if errors.Is(err, errIncompressible) {
		compressed, compression = payload, CompressionNone
	} else if err != nil {
		return nil, err
	}

	output := make([]byte, imageHeaderSize, imageHeaderSize+len(compressed))
	copy(output, imageMagic)
	output[6] = ImageVersion
	output[7] = byte(compression)
	binary.LittleEndian.PutUint64(output[8:], uint64(len(payload)))
	return append(output, compressed...), nil
}

// DecodeImage parses an image produced by [EncodeImage]. The returned
// image does not alias data.
func DecodeImage(data []byte) (*Image, error) {
	_, payload, err := DecodePayload(data)
	if err != nil {
		return nil, err
	}

	var image Image
	if err := codec.Unmarshal(payload, &image); err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if err := image.Validate(); err != nil {
		return nil, err
	}
	return &image, nil
}

// DecodePayload parses the header of an encoded image and returns it
// with the decompressed CBOR payload, without decoding the payload. An
// uncompressed payload aliases data.
func DecodePayload(data []byte) (ImageHeader, []byte, error) {
	header, err := ParseImageHeader(data)
	if err != nil {
		return ImageHeader{}, nil, err
	}
	payload, err := decompress(data[imageHeaderSize:], header.Compression, int(header.PayloadSize))
	if err != nil {
		return ImageHeader{}, nil, fmt.Errorf("decompressing image: %w", err)
	}
	return header, payload, nil
}

// ImageHeader is the decoded fixed-size prefix of an image file.
type ImageHeader struct {
	Version     uint8
	Compression Compression
	PayloadSize uint64
}

// ParseImageHeader decodes the header at the start of data.
func ParseImageHeader(data []byte) (ImageHeader, error) {
	if len(data) < imageHeaderSize || !bytes.Equal(data[:len(imageMagic)], imageMagic) {
		return ImageHeader{}, ErrNotImage
	}
	header := ImageHeader{
		Version:     data[6],
		Compression: Compression(data[7]),
		PayloadSize: binary.LittleEndian.Uint64(data[8:16]),
	}
	if header.Version != ImageVersion {
		return ImageHeader{}, fmt.Errorf("unsupported image version %d", header.Version)
	}
	if header.PayloadSize > 1<<40 {
		return ImageHeader{}, fmt.Errorf("image payload size %d is implausible", header.PayloadSize)
	}
	return header, nil
}

// WriteImageFile encodes image and writes it to path.
func WriteImageFile(path string, image *Image, compression Compression) error {
	data, err := EncodeImage(image, compression)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing image %s: %w", path, err)
	}
	return nil
}

// ReadImageFile reads and decodes the image at path. On unix hosts the
// file is memory-mapped for the duration of decoding.
func ReadImageFile(path string) (image *Image, err error) {
	data, release, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	defer release()

	// A file truncated underneath the mapping faults on access. Turn
	// that into an error instead of a crash.
	old := debug.SetPanicOnFault(true)
	defer func() {
		debug.SetPanicOnFault(old)
		if r := recover(); r != nil {
			image, err = nil, fmt.Errorf("page fault reading image %s: %v", path, r)
		}
	}()

	image, err = DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return image, nil
}
