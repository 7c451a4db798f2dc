// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda

import (
	"errors"
	"fmt"
)

var (
	// ErrCountOverflow reports that a sequence's length exceeds the
	// maximum representable count (math.MaxUint32).
	ErrCountOverflow = errors.New("coda: sequence length exceeds maximum count")

	// ErrUnexpectedEOF reports that the stream ended before the
	// expected number of bytes were read.
	ErrUnexpectedEOF = errors.New("coda: unexpected end of stream")

	// ErrByteLimitExceeded reports that a LimitedReader's byte budget
	// was exhausted during decoding.
	ErrByteLimitExceeded = errors.New("coda: byte limit exceeded during decoding")

	// ErrDepthLimitExceeded reports that a LimitedReader's nesting
	// depth budget was exhausted during decoding.
	ErrDepthLimitExceeded = errors.New("coda: nesting depth limit exceeded during decoding")
)

// UnstructuredFormatError reports that an encoder was asked to encode
// a blob as structured data.
type UnstructuredFormatError struct {
	Format Format
}

func (e *UnstructuredFormatError) Error() string {
	return fmt.Sprintf("coda: can't encode data with format %v as structured data", e.Format)
}

// UnexpectedDataFormatError reports that a header for the wrong data
// format was given to a decoder.
type UnexpectedDataFormatError struct {
	Expected Format
	Actual   *DataHeader
}

func (e *UnexpectedDataFormatError) Error() string {
	return fmt.Sprintf("coda: expected to decode %v, but found %v", e.Expected, e.Actual)
}

// UnsupportedDataFormatError reports that a decoder was given a
// header with an ordinal it does not recognize.
type UnsupportedDataFormatError struct {
	Ordinal uint8
}

func (e *UnsupportedDataFormatError) Error() string {
	return fmt.Sprintf("coda: unsupported data format (ordinal %d)", e.Ordinal)
}

// MissingBlobLengthError reports that a decoder expected to decode
// more blob field bytes than the header's blob_size accounted for.
type MissingBlobLengthError struct {
	Length uint16
}

func (e *MissingBlobLengthError) Error() string {
	return fmt.Sprintf("coda: expected to decode %d more bytes of blob field data", e.Length)
}

// MissingDataFieldsError reports that a decoder expected to decode
// more data fields than the header's data_fields accounted for.
type MissingDataFieldsError struct {
	Count uint8
}

func (e *MissingDataFieldsError) Error() string {
	return fmt.Sprintf("coda: expected to decode %d more fields of data", e.Count)
}

// UnsupportedUnspecifiedMapKeyError reports that a map key decoded
// while reading an Unspecified value was not Text.
type UnsupportedUnspecifiedMapKeyError struct {
	Ordinal uint8
}

func (e *UnsupportedUnspecifiedMapKeyError) Error() string {
	return fmt.Sprintf("coda: an unspecified map's keys must be Text, but found ordinal %d", e.Ordinal)
}

// UnspecifiedMapLengthMismatchError reports that a decoded map's keys
// and values sequences had different lengths, for an Unspecified map
// or a Map read by ReadMap.
type UnspecifiedMapLengthMismatchError struct {
	Keys, Values int
}

func (e *UnspecifiedMapLengthMismatchError) Error() string {
	return fmt.Sprintf("coda: an unspecified map has %d keys but %d values", e.Keys, e.Values)
}

// StreamError wraps a failure from the underlying stream.Reader or
// stream.Writer, preserving it for errors.Is/errors.As.
type StreamError struct {
	Source error
}

func (e *StreamError) Error() string { return fmt.Sprintf("coda: stream error: %v", e.Source) }

func (e *StreamError) Unwrap() error { return e.Source }
