// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda

import (
	"math"

	"code.hybscloud.com/coda/stream"
)

// bytesOrdinal is the canonical ordinal for a raw byte sequence: a
// Data field whose blob_size is 1 (one byte per element), same shape
// as any List[uint8].
const bytesOrdinal uint8 = 0

// FormatBytes is []byte's wire Format: a sequence of one-byte blobs.
func FormatBytes() Format {
	return NamedDataFormat(bytesOrdinal).With(BlobFormat(1))
}

// EncodeBytes writes a DataHeader for v followed by v's raw bytes —
// a fast path equivalent to WriteList(w, U8Coder, v) that avoids the
// per-byte call overhead, grounded on the original codec's
// `impl Encodable for [u8]` writing the whole slice with one write_all.
func EncodeBytes(w stream.Writer, v []byte) error {
	count, err := tryCount(len(v))
	if err != nil {
		return err
	}
	header := DataHeader{Count: count, Format: DataFormat{BlobSize: 1, Ordinal: bytesOrdinal}}
	if err := header.Encode(w); err != nil {
		return err
	}
	return w.WriteAll(v)
}

// DecodeBytes reads a []byte previously written by EncodeBytes.
func DecodeBytes(r *LimitedReader) ([]byte, error) {
	header, err := ReadData[DataHeader](r)
	if err != nil {
		return nil, err
	}
	if header.Format.Ordinal != bytesOrdinal {
		return nil, &UnsupportedDataFormatError{Ordinal: header.Format.Ordinal}
	}

	leave, err := r.EnterScope()
	if err != nil {
		return nil, err
	}
	defer leave()

	return r.readBlob(header.Count)
}

// tryCount converts a slice/map length to a u32 count, failing with
// ErrCountOverflow if it exceeds math.MaxUint32.
func tryCount(length int) (uint32, error) {
	if length > math.MaxUint32 {
		return 0, ErrCountOverflow
	}
	return uint32(length), nil
}
