// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda

import "code.hybscloud.com/coda/stream"

// Encodable is implemented by any value with a well-defined wire
// Format: the built-in scalars' wrapper types, Text, the schema
// descriptors, Unspecified, and generated record types.
type Encodable interface {
	// Format returns this value's wire Format.
	Format() Format

	// Encode writes this value's payload — its blob fields in order,
	// then each data field preceded by its own header.
	Encode(w stream.Writer) error

	// EncodeHeader writes the DataHeader that must precede this
	// value's payload, or nothing if Format() is a Blob.
	EncodeHeader(w stream.Writer) error
}

// WriteData writes v's header (if any) followed by its payload —
// the single-value case of the sequence encoding every DataHeader
// describes.
func WriteData(w stream.Writer, v Encodable) error {
	if err := v.EncodeHeader(w); err != nil {
		return err
	}
	return v.Encode(w)
}
