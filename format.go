// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda

import (
	"fmt"

	"code.hybscloud.com/coda/stream"
)

// FormatKind tags which variant of Format a value holds.
type FormatKind uint8

const (
	// KindBlob is an unstructured, fixed-size sequence of bytes.
	KindBlob FormatKind = iota
	// KindData is a structured sequence of blob and/or data fields.
	KindData
	// KindFluid is a Data format with an unspecified shape.
	KindFluid
)

// Format is the low-level encoding format of some data: an
// unstructured Blob of BlobSize bytes, a structured Data, or Fluid
// (Data with a shape resolved only at encode time).
//
// The zero value is Blob(0), since KindBlob is the zero FormatKind.
type Format struct {
	Kind FormatKind
	Blob uint16
	Data DataFormat
}

// BlobFormat returns a Format describing an unstructured blob of size bytes.
func BlobFormat(size uint16) Format {
	return Format{Kind: KindBlob, Blob: size}
}

// DataFormatFormat returns a Format wrapping df.
func DataFormatFormat(df DataFormat) Format {
	return Format{Kind: KindData, Data: df}
}

// FluidFormat returns the Fluid format.
func FluidFormat() Format {
	return Format{Kind: KindFluid}
}

// NamedDataFormat returns an empty Data format with the given ordinal,
// the Go equivalent of the original codec's Format::data(ordinal).
func NamedDataFormat(ordinal uint8) Format {
	return DataFormatFormat(DataFormat{Ordinal: ordinal})
}

// IsStructured reports whether f is Data or Fluid.
func (f Format) IsStructured() bool {
	return f.Kind == KindData || f.Kind == KindFluid
}

// With returns a new Format containing additional data with other's
// format, appended after self. This operation is not commutative:
// f.With(other) and other.With(f) may differ.
func (f Format) With(other Format) Format {
	switch f.Kind {
	case KindBlob:
		switch other.Kind {
		case KindBlob:
			return BlobFormat(f.Blob + other.Blob)
		default: // KindData, KindFluid
			return DataFormatFormat(DataFormat{BlobSize: f.Blob, DataFields: 1})
		}

	case KindData:
		switch other.Kind {
		case KindBlob:
			df := f.Data
			df.BlobSize += other.Blob
			return DataFormatFormat(df)
		default: // KindData, KindFluid
			df := f.Data
			df.DataFields++
			return DataFormatFormat(df)
		}

	default: // KindFluid
		return FluidFormat()
	}
}

// AsDataFormat returns a DataFormat equivalent to f: blobs become an
// unspecified data containing the blob, Fluid becomes an unspecified
// data with a single unspecified data field.
func (f Format) AsDataFormat() DataFormat {
	switch f.Kind {
	case KindBlob:
		return DataFormat{BlobSize: f.Blob}
	case KindData:
		return f.Data
	default: // KindFluid
		return DataFormat{DataFields: 1}
	}
}

// EncodeDefaultValue writes f's default value (all-zero blob bytes;
// nothing for structured formats, since a structured default is
// expressed entirely by its header's zero count).
func (f Format) EncodeDefaultValue(w stream.Writer) error {
	if f.Kind != KindBlob {
		return nil
	}
	if f.Blob == 0 {
		return nil
	}
	return w.WriteAll(make([]byte, f.Blob))
}

// EncodeDefaultHeader writes the header for f's default (empty, zero
// count) value. Blobs have no header.
func (f Format) EncodeDefaultHeader(w stream.Writer) error {
	switch f.Kind {
	case KindBlob:
		return nil
	case KindData:
		return (&DataHeader{Format: f.Data}).Encode(w)
	default: // KindFluid
		return (&DataHeader{}).Encode(w)
	}
}

// formatOrdinalBlob, formatOrdinalData and formatOrdinalFluid identify
// which Format variant a self-describing Format value encodes as.
const (
	formatOrdinalBlob uint8 = 1
	formatOrdinalData uint8 = 2
	formatOrdinalFluid uint8 = 3
)

// Format implements Encodable/Decodable so Format values can appear
// self-describing inside schema descriptors (spec.md §4.2.5). A
// Format's own wire format is Fluid: which of Blob/Data/Fluid it
// encodes as is only known once its header's ordinal is read.
func (f *Format) Format() Format { return FluidFormat() }

func (f *Format) Encode(w stream.Writer) error {
	switch f.Kind {
	case KindBlob:
		return EncodeU16(w, f.Blob)
	case KindData:
		if err := EncodeU16(w, f.Data.BlobSize); err != nil {
			return err
		}
		if err := EncodeU8(w, f.Data.DataFields); err != nil {
			return err
		}
		return EncodeU8(w, f.Data.Ordinal)
	default: // KindFluid
		return nil
	}
}

func (f *Format) EncodeHeader(w stream.Writer) error {
	var header DataHeader
	switch f.Kind {
	case KindBlob:
		header = DataHeader{Count: 1, Format: DataFormat{BlobSize: 2, Ordinal: formatOrdinalBlob}}
	case KindData:
		header = DataHeader{Count: 1, Format: DataFormat{BlobSize: 4, Ordinal: formatOrdinalData}}
	default: // KindFluid
		header = DataHeader{Count: 1, Format: DataFormat{Ordinal: formatOrdinalFluid}}
	}
	return header.Encode(w)
}

func (f *Format) Decode(r *LimitedReader, header *DataHeader) error {
	h, err := ensureHeader(header, FluidFormat(), formatOrdinalBlob, formatOrdinalData, formatOrdinalFluid)
	if err != nil {
		return err
	}

	switch h.Format.Ordinal {
	case formatOrdinalBlob:
		size, err := DecodeU16(r)
		if err != nil {
			return err
		}
		*f = BlobFormat(size)

	case formatOrdinalData:
		blobSize, err := DecodeU16(r)
		if err != nil {
			return err
		}
		dataFields, err := DecodeU8(r)
		if err != nil {
			return err
		}
		ordinal, err := DecodeU8(r)
		if err != nil {
			return err
		}
		*f = DataFormatFormat(DataFormat{BlobSize: blobSize, DataFields: dataFields, Ordinal: ordinal})

	case formatOrdinalFluid:
		*f = FluidFormat()

	default:
		return &UnsupportedDataFormatError{Ordinal: h.Format.Ordinal}
	}

	return nil
}

func (f Format) String() string {
	switch f.Kind {
	case KindBlob:
		return fmt.Sprintf("Blob(%d)", f.Blob)
	case KindData:
		return fmt.Sprintf("Data(%+v)", f.Data)
	default:
		return "Fluid"
	}
}

// DataFormat describes the contents of a Format.Data: how many bytes
// of blob fields precede it, how many data fields follow, and which
// documented type it is an instance of.
//
// Fields are ordered to match wire layout.
type DataFormat struct {
	// BlobSize is the total size in bytes of the Blob fields.
	BlobSize uint16
	// DataFields is the total number of Data fields (max 255).
	DataFields uint8
	// Ordinal identifies the data's type in its documentation, or 0
	// if unspecified. Built-in types count down from 255; user-defined
	// types count up from 1.
	Ordinal uint8
}

// AsFormat returns the Format wrapping df.
func (df DataFormat) AsFormat() Format { return DataFormatFormat(df) }

// DataHeader precedes a sequence of zero or more data values sharing
// the same DataFormat. Because the header always carries a count, the
// same wire shape serves an empty sequence, a single value, and a
// list of values.
type DataHeader struct {
	Count  uint32
	Format DataFormat
}

// headerWireSize is the exact, fixed wire size of a DataHeader: 8
// bytes (count:4, blob_size:2, data_fields:1, ordinal:1).
const headerWireSize = 8

// Format reports DataHeader's own wire format: an 8-byte blob.
func (h *DataHeader) Format() Format { return BlobFormat(headerWireSize) }

// Encode writes h as count(u32 LE) | blob_size(u16 LE) | data_fields(u8) | ordinal(u8).
func (h *DataHeader) Encode(w stream.Writer) error {
	var buf [headerWireSize]byte
	buf[0] = byte(h.Count)
	buf[1] = byte(h.Count >> 8)
	buf[2] = byte(h.Count >> 16)
	buf[3] = byte(h.Count >> 24)
	buf[4] = byte(h.Format.BlobSize)
	buf[5] = byte(h.Format.BlobSize >> 8)
	buf[6] = h.Format.DataFields
	buf[7] = h.Format.Ordinal
	return w.WriteAll(buf[:])
}

// EncodeHeader is a no-op: a DataHeader is itself a header.
func (h *DataHeader) EncodeHeader(stream.Writer) error { return nil }

// Decode reads h from r. header must be nil; DataHeader never carries
// a header of its own.
func (h *DataHeader) Decode(r *LimitedReader, header *DataHeader) error {
	if err := ensureNoHeader(header, h.Format()); err != nil {
		return err
	}

	var buf [headerWireSize]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return err
	}
	h.Count = uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	h.Format.BlobSize = uint16(buf[4]) | uint16(buf[5])<<8
	h.Format.DataFields = buf[6]
	h.Format.Ordinal = buf[7]
	return nil
}

func (h DataHeader) String() string {
	return fmt.Sprintf("DataHeader{Count:%d, Format:%+v}", h.Count, h.Format)
}
