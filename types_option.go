// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda

import "code.hybscloud.com/coda/stream"

// Option wraps a possibly-absent T behind an explicit header, rather
// than a Go nil/pointer, specifically so that Option[Option[T]] can
// distinguish None from Some(None) from Some(Some(v)): each layer of
// Option gets its own DataHeader with count 0 (absent) or 1 (present),
// so the nesting is visible on the wire instead of collapsing into a
// single null check.
type Option[T any] struct {
	Valid bool
	Value T
}

// Some returns a present Option wrapping v.
func Some[T any](v T) Option[T] { return Option[T]{Valid: true, Value: v} }

// None returns an absent Option.
func None[T any]() Option[T] { return Option[T]{} }

// optionOrdinal is the canonical ordinal for an Option: a Data format
// with a count of 0 (None) or 1 (Some) wrapping the element format
// appended by With (a blob element's size, or one data field).
const optionOrdinal uint8 = 0

// OptionFormat returns the wire Format of an Option whose element uses coder.
func OptionFormat[T any](coder Coder[T]) Format {
	return NamedDataFormat(optionOrdinal).With(coder.Format)
}

// OptionCoder adapts coder into a Coder for Option[T], letting Option
// values nest (Option[Option[T]]) or appear as List/Map elements.
func OptionCoder[T any](coder Coder[T]) Coder[Option[T]] {
	return Coder[Option[T]]{
		Format: OptionFormat(coder),
		Write:  func(w stream.Writer, v Option[T]) error { return WriteOption(w, coder, v) },
		Read:   func(r *LimitedReader) (Option[T], error) { return ReadOption(r, coder) },
	}
}

// WriteOption writes v's header — count 0 for None, count 1 for Some
// followed by the wrapped value.
func WriteOption[T any](w stream.Writer, coder Coder[T], v Option[T]) error {
	format := OptionFormat(coder).AsDataFormat()
	if !v.Valid {
		return (&DataHeader{Format: format}).Encode(w)
	}

	header := DataHeader{Count: 1, Format: format}
	if err := header.Encode(w); err != nil {
		return err
	}
	return coder.Write(w, v.Value)
}

// ReadOption reads an Option previously written by WriteOption. A
// header count greater than 1 skips all but the last encoded value.
func ReadOption[T any](r *LimitedReader, coder Coder[T]) (Option[T], error) {
	header, err := ReadData[DataHeader](r)
	if err != nil {
		return Option[T]{}, err
	}
	if header.Format.Ordinal != optionOrdinal {
		return Option[T]{}, &UnsupportedDataFormatError{Ordinal: header.Format.Ordinal}
	}
	if header.Count == 0 {
		return Option[T]{}, nil
	}

	leave, err := r.EnterScope()
	if err != nil {
		return Option[T]{}, err
	}
	defer leave()

	for i := uint32(1); i < header.Count; i++ {
		if _, err := r.SkipDataWithFormat(header.Format); err != nil {
			return Option[T]{}, err
		}
	}

	v, err := coder.Read(r)
	if err != nil {
		return Option[T]{}, err
	}
	return Some(v), nil
}
