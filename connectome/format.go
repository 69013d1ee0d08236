// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package connectome

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
)

// Binary container layout, all integers little-endian:
//
//	bytes 0-4    magic "FEAGI"
//	bytes 5-8    format version (uint32)
//	byte  9      flags (bit 0 = gzip-compressed payload)
//	bytes 10-17  uncompressed payload size (uint64)
//	bytes 18-25  FNV-1a checksum of the uncompressed payload (uint64)
//	bytes 26-    payload
const (
	Magic = "FEAGI"

	// Version is the current container format version.
	Version uint32 = 1

	// FlagCompressed marks a gzip-compressed payload.
	FlagCompressed uint8 = 1 << 0

	// HeaderSize is the fixed byte length of the container header.
	HeaderSize = 26
)

// Container load errors, checked in this order before any payload decode.
var (
	ErrInvalidMagic     = errors.New("connectome: invalid magic tag")
	ErrVersionMismatch  = errors.New("connectome: unsupported format version")
	ErrChecksumMismatch = errors.New("connectome: payload checksum mismatch")
)

// Header is the decoded fixed-size container header.
type Header struct {
	Version  uint32 `desc:"container format version"`
	Flags    uint8  `desc:"payload flags"`
	Size     uint64 `desc:"uncompressed payload size in bytes"`
	Checksum uint64 `desc:"FNV-1a checksum of the uncompressed payload"`
}

// Compressed reports whether the payload is gzip-compressed.
func (hd *Header) Compressed() bool {
	return hd.Flags&FlagCompressed != 0
}

// WriteHeader writes the fixed-size header for a payload.
func WriteHeader(w io.Writer, hd *Header) error {
	buf := make([]byte, HeaderSize)
	copy(buf[0:5], Magic)
	binary.LittleEndian.PutUint32(buf[5:9], hd.Version)
	buf[9] = hd.Flags
	binary.LittleEndian.PutUint64(buf[10:18], hd.Size)
	binary.LittleEndian.PutUint64(buf[18:26], hd.Checksum)
	_, err := w.Write(buf)
	return err
}

// ReadHeader reads and validates the fixed-size header: a wrong magic tag
// fails with ErrInvalidMagic and an unsupported version with
// ErrVersionMismatch, before any payload byte is read.
func ReadHeader(r io.Reader) (*Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("connectome: reading header: %w", err)
	}
	if string(buf[0:5]) != Magic {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, buf[0:5])
	}
	hd := &Header{}
	hd.Version = binary.LittleEndian.Uint32(buf[5:9])
	if hd.Version > Version {
		return nil, fmt.Errorf("%w: file version %d, supported up to %d", ErrVersionMismatch, hd.Version, Version)
	}
	hd.Flags = buf[9]
	hd.Size = binary.LittleEndian.Uint64(buf[10:18])
	hd.Checksum = binary.LittleEndian.Uint64(buf[18:26])
	return hd, nil
}

// Checksum returns the FNV-1a checksum over the uncompressed payload.
func Checksum(payload []byte) uint64 {
	h := fnv.New64a()
	h.Write(payload)
	return h.Sum64()
}
