// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda

import "code.hybscloud.com/coda/stream"

// Coder binds an element type to its wire Format and a single-value
// read/write pair (header included, when the element's Format is
// structured). It exists because Go's built-in scalar types — unlike
// the original codec's primitives — can't carry methods of their own,
// so List, Map, and Option can't simply require T: Encodable+Decodable
// the way the original generic Vec<T>/Option<T> do. Passing a Coder
// explicitly plays the same role a type class or associated const
// would in a language that has one.
type Coder[T any] struct {
	Format Format
	Write  func(w stream.Writer, v T) error
	Read   func(r *LimitedReader) (T, error)
}

// StructCoder adapts any type whose pointer implements Decodable
// (generated record types, Text, schema descriptors, Unspecified)
// into a Coder, so it can be used as a List/Map/Option element
// alongside the built-in scalar coders.
func StructCoder[T any, PT decodablePtr[T]]() Coder[T] {
	var probe T
	return Coder[T]{
		Format: PT(&probe).Format(),
		Write:  func(w stream.Writer, v T) error { return WriteData(w, PT(&v)) },
		Read:   func(r *LimitedReader) (T, error) { return ReadData[T, PT](r) },
	}
}

var (
	U8Coder  = Coder[uint8]{Format: FormatU8(), Write: EncodeU8, Read: DecodeU8}
	U16Coder = Coder[uint16]{Format: FormatU16(), Write: EncodeU16, Read: DecodeU16}
	U32Coder = Coder[uint32]{Format: FormatU32(), Write: EncodeU32, Read: DecodeU32}
	U64Coder = Coder[uint64]{Format: FormatU64(), Write: EncodeU64, Read: DecodeU64}
	I8Coder  = Coder[int8]{Format: FormatI8(), Write: EncodeI8, Read: DecodeI8}
	I16Coder = Coder[int16]{Format: FormatI16(), Write: EncodeI16, Read: DecodeI16}
	I32Coder = Coder[int32]{Format: FormatI32(), Write: EncodeI32, Read: DecodeI32}
	I64Coder = Coder[int64]{Format: FormatI64(), Write: EncodeI64, Read: DecodeI64}
	F32Coder = Coder[float32]{Format: FormatF32(), Write: EncodeF32, Read: DecodeF32}
	F64Coder = Coder[float64]{Format: FormatF64(), Write: EncodeF64, Read: DecodeF64}
	BoolCoder = Coder[bool]{Format: FormatBool(), Write: EncodeBool, Read: DecodeBool}
)

// listOrdinal is the canonical ordinal for a homogeneous list: a Data
// format with the element format appended by With (a blob element adds
// its size to blob_size, a structured element adds one data field),
// mirroring the original codec's `Format::data(0).with(T::FORMAT)`.
const listOrdinal uint8 = 0

// ListFormat returns the wire Format of a list whose elements use coder.
func ListFormat[T any](coder Coder[T]) Format {
	return NamedDataFormat(listOrdinal).With(coder.Format)
}

// WriteList writes items as a sequence of coder-encoded values,
// preceded by a DataHeader whose count is len(items). A List[uint8]
// has the identical encoding as []byte (EncodeBytes).
func WriteList[T any](w stream.Writer, coder Coder[T], items []T) error {
	count, err := tryCount(len(items))
	if err != nil {
		return err
	}

	header := DataHeader{Count: count, Format: ListFormat(coder).AsDataFormat()}
	if err := header.Encode(w); err != nil {
		return err
	}

	for _, item := range items {
		if err := coder.Write(w, item); err != nil {
			return err
		}
	}
	return nil
}

// ReadList reads a list previously written by WriteList.
func ReadList[T any](r *LimitedReader, coder Coder[T]) ([]T, error) {
	header, err := ReadData[DataHeader](r)
	if err != nil {
		return nil, err
	}
	if header.Format.Ordinal != listOrdinal {
		return nil, &UnsupportedDataFormatError{Ordinal: header.Format.Ordinal}
	}

	leave, err := r.EnterScope()
	if err != nil {
		return nil, err
	}
	defer leave()

	items := make([]T, 0, initialCapacity(header.Count))
	for i := uint32(0); i < header.Count; i++ {
		item, err := coder.Read(r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
