// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda

import (
	"math"

	"code.hybscloud.com/coda/stream"
)

// Built-in scalars are plain Go numeric types (uint8, int32, float64,
// bool, ...), which can't carry methods of their own. Rather than
// wrap each one in a named type to satisfy Encodable, this package
// exposes them as a matched pair of free functions per type — the
// same shape encoding/binary itself uses for its fixed-width helpers
// — and lets List/Map/Option bind them through a Coder.

// FormatU8 is u8's wire Format.
func FormatU8() Format { return BlobFormat(1) }

// EncodeU8 writes v as a single byte.
func EncodeU8(w stream.Writer, v uint8) error {
	return w.WriteAll([]byte{v})
}

// DecodeU8 reads a single byte.
func DecodeU8(r *LimitedReader) (uint8, error) {
	var buf [1]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// FormatU16 is u16's wire Format.
func FormatU16() Format { return BlobFormat(2) }

// EncodeU16 writes v as 2 little-endian bytes.
func EncodeU16(w stream.Writer, v uint16) error {
	return w.WriteAll([]byte{byte(v), byte(v >> 8)})
}

// DecodeU16 reads 2 little-endian bytes.
func DecodeU16(r *LimitedReader) (uint16, error) {
	var buf [2]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	return uint16(buf[0]) | uint16(buf[1])<<8, nil
}

// FormatU32 is u32's wire Format.
func FormatU32() Format { return BlobFormat(4) }

// EncodeU32 writes v as 4 little-endian bytes.
func EncodeU32(w stream.Writer, v uint32) error {
	return w.WriteAll([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

// DecodeU32 reads 4 little-endian bytes.
func DecodeU32(r *LimitedReader) (uint32, error) {
	var buf [4]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24, nil
}

// FormatU64 is u64's wire Format.
func FormatU64() Format { return BlobFormat(8) }

// EncodeU64 writes v as 8 little-endian bytes.
func EncodeU64(w stream.Writer, v uint64) error {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(v >> (8 * i))
	}
	return w.WriteAll(buf[:])
}

// DecodeU64 reads 8 little-endian bytes.
func DecodeU64(r *LimitedReader) (uint64, error) {
	var buf [8]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	var v uint64
	for i, b := range buf {
		v |= uint64(b) << (8 * i)
	}
	return v, nil
}

// FormatI8 is i8's wire Format.
func FormatI8() Format { return BlobFormat(1) }

// EncodeI8 writes v as a single byte.
func EncodeI8(w stream.Writer, v int8) error { return EncodeU8(w, uint8(v)) }

// DecodeI8 reads a single byte.
func DecodeI8(r *LimitedReader) (int8, error) {
	v, err := DecodeU8(r)
	return int8(v), err
}

// FormatI16 is i16's wire Format.
func FormatI16() Format { return BlobFormat(2) }

// EncodeI16 writes v as 2 little-endian bytes.
func EncodeI16(w stream.Writer, v int16) error { return EncodeU16(w, uint16(v)) }

// DecodeI16 reads 2 little-endian bytes.
func DecodeI16(r *LimitedReader) (int16, error) {
	v, err := DecodeU16(r)
	return int16(v), err
}

// FormatI32 is i32's wire Format.
func FormatI32() Format { return BlobFormat(4) }

// EncodeI32 writes v as 4 little-endian bytes.
func EncodeI32(w stream.Writer, v int32) error { return EncodeU32(w, uint32(v)) }

// DecodeI32 reads 4 little-endian bytes.
func DecodeI32(r *LimitedReader) (int32, error) {
	v, err := DecodeU32(r)
	return int32(v), err
}

// FormatI64 is i64's wire Format.
func FormatI64() Format { return BlobFormat(8) }

// EncodeI64 writes v as 8 little-endian bytes.
func EncodeI64(w stream.Writer, v int64) error { return EncodeU64(w, uint64(v)) }

// DecodeI64 reads 8 little-endian bytes.
func DecodeI64(r *LimitedReader) (int64, error) {
	v, err := DecodeU64(r)
	return int64(v), err
}

// FormatF32 is f32's wire Format.
func FormatF32() Format { return BlobFormat(4) }

// EncodeF32 writes v as 4 little-endian bytes (IEEE 754 binary32).
func EncodeF32(w stream.Writer, v float32) error {
	return EncodeU32(w, math.Float32bits(v))
}

// DecodeF32 reads 4 little-endian bytes (IEEE 754 binary32).
func DecodeF32(r *LimitedReader) (float32, error) {
	bits, err := DecodeU32(r)
	return math.Float32frombits(bits), err
}

// FormatF64 is f64's wire Format.
func FormatF64() Format { return BlobFormat(8) }

// EncodeF64 writes v as 8 little-endian bytes (IEEE 754 binary64).
func EncodeF64(w stream.Writer, v float64) error {
	return EncodeU64(w, math.Float64bits(v))
}

// DecodeF64 reads 8 little-endian bytes (IEEE 754 binary64).
func DecodeF64(r *LimitedReader) (float64, error) {
	bits, err := DecodeU64(r)
	return math.Float64frombits(bits), err
}

// FormatBool is bool's wire Format.
func FormatBool() Format { return BlobFormat(1) }

// EncodeBool writes v as a single byte, 0 or 1.
func EncodeBool(w stream.Writer, v bool) error {
	if v {
		return EncodeU8(w, 1)
	}
	return EncodeU8(w, 0)
}

// DecodeBool reads a single byte, treating any nonzero value as true.
func DecodeBool(r *LimitedReader) (bool, error) {
	v, err := DecodeU8(r)
	return v != 0, err
}
