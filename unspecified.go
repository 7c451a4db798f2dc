// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda

import "code.hybscloud.com/coda/stream"

// UnspecifiedKind tags which variant of Unspecified a value holds.
type UnspecifiedKind uint8

const (
	UnspecifiedDefault UnspecifiedKind = iota
	UnspecifiedU8
	UnspecifiedU16
	UnspecifiedU32
	UnspecifiedU64
	UnspecifiedI8
	UnspecifiedI16
	UnspecifiedI32
	UnspecifiedI64
	UnspecifiedF32
	UnspecifiedF64
	UnspecifiedBool
	UnspecifiedText
	UnspecifiedList
	UnspecifiedMap
	UnspecifiedData
)

// UnspecifiedCapture preserves an unrecognized record byte-exactly: its
// original header and the raw bytes of its blob and nested data
// fields, verbatim, so re-encoding it reproduces the original bytes.
type UnspecifiedCapture struct {
	Header DataHeader
	Raw    []byte
}

// UnspecifiedMapEntry is one key/value pair of an Unspecified map. Keys
// are always Text; entries preserve the order they were decoded in.
type UnspecifiedMapEntry struct {
	Key   Text
	Value Unspecified
}

// UnspecifiedEntries is an ordered Unspecified map. It is a slice of
// entries rather than the package's Map[K, V] because a dynamic map
// must preserve the key order it was decoded with, not re-sort it.
type UnspecifiedEntries []UnspecifiedMapEntry

// Unspecified is the dynamic value model: a schema-less value that
// encodes and decodes against the exact same wire format as a
// statically typed record, dispatching on the header's ordinal instead
// of a compile-time type. Unrecognized record ordinals are preserved
// as opaque, byte-exact captures rather than rejected.
//
// Only the field matching Kind is meaningful.
type Unspecified struct {
	Kind UnspecifiedKind
	U8   uint8
	U16  uint16
	U32  uint32
	U64  uint64
	I8   int8
	I16  int16
	I32  int32
	I64  int64
	F32  float32
	F64  float64
	Bool bool
	Text Text
	List []Unspecified
	Map  UnspecifiedEntries
	Data UnspecifiedCapture
}

func UnspecifiedFromText(v Text) Unspecified   { return Unspecified{Kind: UnspecifiedText, Text: v} }
func UnspecifiedFromU8(v uint8) Unspecified    { return Unspecified{Kind: UnspecifiedU8, U8: v} }
func UnspecifiedFromU16(v uint16) Unspecified  { return Unspecified{Kind: UnspecifiedU16, U16: v} }
func UnspecifiedFromU32(v uint32) Unspecified  { return Unspecified{Kind: UnspecifiedU32, U32: v} }
func UnspecifiedFromU64(v uint64) Unspecified  { return Unspecified{Kind: UnspecifiedU64, U64: v} }
func UnspecifiedFromI8(v int8) Unspecified     { return Unspecified{Kind: UnspecifiedI8, I8: v} }
func UnspecifiedFromI16(v int16) Unspecified   { return Unspecified{Kind: UnspecifiedI16, I16: v} }
func UnspecifiedFromI32(v int32) Unspecified   { return Unspecified{Kind: UnspecifiedI32, I32: v} }
func UnspecifiedFromI64(v int64) Unspecified   { return Unspecified{Kind: UnspecifiedI64, I64: v} }
func UnspecifiedFromF32(v float32) Unspecified { return Unspecified{Kind: UnspecifiedF32, F32: v} }
func UnspecifiedFromF64(v float64) Unspecified { return Unspecified{Kind: UnspecifiedF64, F64: v} }
func UnspecifiedFromBool(v bool) Unspecified   { return Unspecified{Kind: UnspecifiedBool, Bool: v} }
func UnspecifiedFromList(items []Unspecified) Unspecified {
	return Unspecified{Kind: UnspecifiedList, List: items}
}
func UnspecifiedFromMap(entries UnspecifiedEntries) Unspecified {
	return Unspecified{Kind: UnspecifiedMap, Map: entries}
}

// scalarOrdinals maps each scalar ordinal to its fixed wire size.
// Deliberately excludes Text: although Text has a canonical ordinal,
// its length varies, so it never takes the fixed-size-blob path a
// homogeneous scalar list does.
var scalarOrdinals = map[uint8]uint16{
	OrdinalU8: 1, OrdinalU16: 2, OrdinalU32: 4, OrdinalU64: 8,
	OrdinalI8: 1, OrdinalI16: 2, OrdinalI32: 4, OrdinalI64: 8,
	OrdinalF32: 4, OrdinalF64: 8,
	OrdinalBool: 1,
}

func isScalarOrdinal(ordinal uint8) bool {
	_, ok := scalarOrdinals[ordinal]
	return ok
}

// typeOrdinal reports the canonical ordinal identifying u's variant,
// used both to pick a header ordinal when encoding and to test whether
// a slice of Unspecified values is homogeneous.
func (u Unspecified) typeOrdinal() uint8 {
	switch u.Kind {
	case UnspecifiedU8:
		return OrdinalU8
	case UnspecifiedU16:
		return OrdinalU16
	case UnspecifiedU32:
		return OrdinalU32
	case UnspecifiedU64:
		return OrdinalU64
	case UnspecifiedI8:
		return OrdinalI8
	case UnspecifiedI16:
		return OrdinalI16
	case UnspecifiedI32:
		return OrdinalI32
	case UnspecifiedI64:
		return OrdinalI64
	case UnspecifiedF32:
		return OrdinalF32
	case UnspecifiedF64:
		return OrdinalF64
	case UnspecifiedBool:
		return OrdinalBool
	case UnspecifiedText:
		return OrdinalText
	case UnspecifiedList:
		return OrdinalList
	case UnspecifiedMap:
		return OrdinalMap
	case UnspecifiedData:
		return u.Data.Header.Format.Ordinal
	default: // UnspecifiedDefault
		return OrdinalUnspecified
	}
}

// Format reports Unspecified's own wire format: Fluid, since which
// variant it holds is only known once its header's ordinal is read.
func (*Unspecified) Format() Format { return FluidFormat() }

// header builds the DataHeader preceding u's payload, per the
// variant-to-wire mapping table.
func (u Unspecified) header() (DataHeader, error) {
	switch u.Kind {
	case UnspecifiedDefault:
		return DataHeader{}, nil
	case UnspecifiedText:
		count, err := tryCount(len(u.Text))
		if err != nil {
			return DataHeader{}, err
		}
		return DataHeader{Count: count, Format: DataFormat{BlobSize: 1, Ordinal: OrdinalText}}, nil
	case UnspecifiedList:
		return DataHeader{Count: 1, Format: DataFormat{DataFields: 1, Ordinal: OrdinalList}}, nil
	case UnspecifiedMap:
		return DataHeader{Count: 1, Format: DataFormat{DataFields: 2, Ordinal: OrdinalMap}}, nil
	case UnspecifiedData:
		return u.Data.Header, nil
	default: // scalar
		ordinal := u.typeOrdinal()
		size, ok := scalarOrdinals[ordinal]
		if !ok {
			return DataHeader{}, &UnsupportedDataFormatError{Ordinal: ordinal}
		}
		return DataHeader{Count: 1, Format: DataFormat{BlobSize: size, Ordinal: ordinal}}, nil
	}
}

func (u *Unspecified) EncodeHeader(w stream.Writer) error {
	header, err := u.header()
	if err != nil {
		return err
	}
	return header.Encode(w)
}

func (u *Unspecified) Encode(w stream.Writer) error {
	switch u.Kind {
	case UnspecifiedDefault:
		return nil
	case UnspecifiedU8:
		return EncodeU8(w, u.U8)
	case UnspecifiedU16:
		return EncodeU16(w, u.U16)
	case UnspecifiedU32:
		return EncodeU32(w, u.U32)
	case UnspecifiedU64:
		return EncodeU64(w, u.U64)
	case UnspecifiedI8:
		return EncodeI8(w, u.I8)
	case UnspecifiedI16:
		return EncodeI16(w, u.I16)
	case UnspecifiedI32:
		return EncodeI32(w, u.I32)
	case UnspecifiedI64:
		return EncodeI64(w, u.I64)
	case UnspecifiedF32:
		return EncodeF32(w, u.F32)
	case UnspecifiedF64:
		return EncodeF64(w, u.F64)
	case UnspecifiedBool:
		return EncodeBool(w, u.Bool)
	case UnspecifiedText:
		return w.WriteAll([]byte(u.Text))
	case UnspecifiedList:
		return encodeUnspecifiedList(w, u.List)
	case UnspecifiedMap:
		return encodeUnspecifiedMap(w, u.Map)
	case UnspecifiedData:
		return w.WriteAll(u.Data.Raw)
	}
	return nil
}

// Decode implements Decodable for embedding Unspecified as an ordinary
// record field. For the repeated top-level list/map traversal used
// during decoding, prefer DecodeUnspecified, which reads its own
// header and so sees the real count rather than one already collapsed
// by ReadDataInto's keep-last handling.
func (u *Unspecified) Decode(r *LimitedReader, header *DataHeader) error {
	if header == nil {
		return &UnexpectedDataFormatError{Expected: u.Format(), Actual: nil}
	}
	return u.decodeHeader(r, *header)
}

// DecodeUnspecified reads one dynamic value from r. Unlike a normal
// Decodable field, a repeated header (count > 1) is not an anomaly to
// tolerate via keep-last: for scalars it means a homogeneous list, so
// DecodeUnspecified reads the header itself instead of going through
// ReadDataInto.
func DecodeUnspecified(r *LimitedReader) (Unspecified, error) {
	header, err := ReadData[DataHeader](r)
	if err != nil {
		return Unspecified{}, err
	}
	var u Unspecified
	err = u.decodeHeader(r, header)
	return u, err
}

func (u *Unspecified) decodeHeader(r *LimitedReader, header DataHeader) error {
	ordinal := header.Format.Ordinal
	switch {
	case ordinal == OrdinalUnspecified:
		*u = Unspecified{}
		return nil
	case isScalarOrdinal(ordinal):
		items, err := decodeScalarBlobs(r, ordinal, header.Count)
		if err != nil {
			return err
		}
		switch len(items) {
		case 0:
			*u = Unspecified{}
		case 1:
			*u = items[0]
		default:
			*u = Unspecified{Kind: UnspecifiedList, List: items}
		}
		return nil
	case ordinal == OrdinalText:
		return u.decodeText(r, header)
	case ordinal == OrdinalList:
		return u.decodeList(r, header)
	case ordinal == OrdinalMap:
		return u.decodeMap(r, header)
	default:
		return u.captureOpaque(r, header)
	}
}

func (u *Unspecified) decodeText(r *LimitedReader, header DataHeader) error {
	normalized := header
	normalized.Format.Ordinal = bytesOrdinal

	var t Text
	if err := t.Decode(r, &normalized); err != nil {
		return err
	}
	*u = Unspecified{Kind: UnspecifiedText, Text: t}
	return nil
}

func (u *Unspecified) decodeList(r *LimitedReader, header DataHeader) error {
	leave, err := r.EnterScope()
	if err != nil {
		return err
	}
	defer leave()

	for i := uint32(1); i < header.Count; i++ {
		if _, err := r.SkipDataWithFormat(header.Format); err != nil {
			return err
		}
	}

	inner, err := ReadData[DataHeader](r)
	if err != nil {
		return err
	}
	items, err := decodeListBody(r, inner)
	if err != nil {
		return err
	}
	*u = Unspecified{Kind: UnspecifiedList, List: items}
	return nil
}

func (u *Unspecified) decodeMap(r *LimitedReader, header DataHeader) error {
	leave, err := r.EnterScope()
	if err != nil {
		return err
	}
	defer leave()

	for i := uint32(1); i < header.Count; i++ {
		if _, err := r.SkipDataWithFormat(header.Format); err != nil {
			return err
		}
	}

	keysHeader, err := ReadData[DataHeader](r)
	if err != nil {
		return err
	}
	keyItems, err := decodeListBody(r, keysHeader)
	if err != nil {
		return err
	}

	valuesHeader, err := ReadData[DataHeader](r)
	if err != nil {
		return err
	}
	valueItems, err := decodeListBody(r, valuesHeader)
	if err != nil {
		return err
	}

	if len(keyItems) != len(valueItems) {
		return &UnspecifiedMapLengthMismatchError{Keys: len(keyItems), Values: len(valueItems)}
	}

	entries := make(UnspecifiedEntries, len(keyItems))
	for i, k := range keyItems {
		if k.Kind != UnspecifiedText {
			return &UnsupportedUnspecifiedMapKeyError{Ordinal: k.typeOrdinal()}
		}
		entries[i] = UnspecifiedMapEntry{Key: k.Text, Value: valueItems[i]}
	}
	*u = Unspecified{Kind: UnspecifiedMap, Map: entries}
	return nil
}

// decodeListBody reads an inner list of N = inner.Count elements per
// §4.3.2's encoding strategy: a homogeneous fixed-size scalar run
// decodes as concatenated raw blobs with no per-element header;
// anything else decodes as N self-describing elements.
func decodeListBody(r *LimitedReader, inner DataHeader) ([]Unspecified, error) {
	if isScalarOrdinal(inner.Format.Ordinal) && inner.Format.DataFields == 0 {
		return decodeScalarBlobs(r, inner.Format.Ordinal, inner.Count)
	}

	leave, err := r.EnterScope()
	if err != nil {
		return nil, err
	}
	defer leave()

	items := make([]Unspecified, 0, initialCapacity(inner.Count))
	for i := uint32(0); i < inner.Count; i++ {
		v, err := DecodeUnspecified(r)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func decodeScalarBlobs(r *LimitedReader, ordinal uint8, count uint32) ([]Unspecified, error) {
	items := make([]Unspecified, 0, initialCapacity(count))
	for i := uint32(0); i < count; i++ {
		v, err := decodeScalarValue(r, ordinal)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func decodeScalarValue(r *LimitedReader, ordinal uint8) (Unspecified, error) {
	switch ordinal {
	case OrdinalU8:
		v, err := DecodeU8(r)
		return Unspecified{Kind: UnspecifiedU8, U8: v}, err
	case OrdinalU16:
		v, err := DecodeU16(r)
		return Unspecified{Kind: UnspecifiedU16, U16: v}, err
	case OrdinalU32:
		v, err := DecodeU32(r)
		return Unspecified{Kind: UnspecifiedU32, U32: v}, err
	case OrdinalU64:
		v, err := DecodeU64(r)
		return Unspecified{Kind: UnspecifiedU64, U64: v}, err
	case OrdinalI8:
		v, err := DecodeI8(r)
		return Unspecified{Kind: UnspecifiedI8, I8: v}, err
	case OrdinalI16:
		v, err := DecodeI16(r)
		return Unspecified{Kind: UnspecifiedI16, I16: v}, err
	case OrdinalI32:
		v, err := DecodeI32(r)
		return Unspecified{Kind: UnspecifiedI32, I32: v}, err
	case OrdinalI64:
		v, err := DecodeI64(r)
		return Unspecified{Kind: UnspecifiedI64, I64: v}, err
	case OrdinalF32:
		v, err := DecodeF32(r)
		return Unspecified{Kind: UnspecifiedF32, F32: v}, err
	case OrdinalF64:
		v, err := DecodeF64(r)
		return Unspecified{Kind: UnspecifiedF64, F64: v}, err
	case OrdinalBool:
		v, err := DecodeBool(r)
		return Unspecified{Kind: UnspecifiedBool, Bool: v}, err
	}
	return Unspecified{}, &UnsupportedDataFormatError{Ordinal: ordinal}
}

// sharedOrdinal reports the single ordinal shared by every item, and
// whether items is non-empty and homogeneous.
func sharedOrdinal(items []Unspecified) (uint8, bool) {
	if len(items) == 0 {
		return 0, false
	}
	ordinal := items[0].typeOrdinal()
	for _, item := range items[1:] {
		if item.typeOrdinal() != ordinal {
			return 0, false
		}
	}
	return ordinal, true
}

// encodeUnspecifiedList writes items per §4.3.2: homogeneous fixed-size
// scalars as a single inner header plus concatenated raw blobs,
// anything else (homogeneous structured/variable-sized, heterogeneous,
// or empty) as an inner header plus N self-describing elements.
func encodeUnspecifiedList(w stream.Writer, items []Unspecified) error {
	count, err := tryCount(len(items))
	if err != nil {
		return err
	}

	ordinal, homogeneous := sharedOrdinal(items)

	if homogeneous && isScalarOrdinal(ordinal) {
		inner := DataHeader{Count: count, Format: DataFormat{BlobSize: scalarOrdinals[ordinal], Ordinal: ordinal}}
		if err := inner.Encode(w); err != nil {
			return err
		}
		for i := range items {
			if err := items[i].Encode(w); err != nil {
				return err
			}
		}
		return nil
	}

	sharedTag := uint8(OrdinalUnspecified)
	if homogeneous {
		sharedTag = ordinal
	}
	inner := DataHeader{Count: count, Format: DataFormat{DataFields: 1, Ordinal: sharedTag}}
	if err := inner.Encode(w); err != nil {
		return err
	}
	for i := range items {
		if err := WriteData(w, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func encodeUnspecifiedMap(w stream.Writer, entries UnspecifiedEntries) error {
	keys := make([]Unspecified, len(entries))
	values := make([]Unspecified, len(entries))
	for i, e := range entries {
		keys[i] = UnspecifiedFromText(e.Key)
		values[i] = e.Value
	}
	if err := encodeUnspecifiedList(w, keys); err != nil {
		return err
	}
	return encodeUnspecifiedList(w, values)
}

// captureOpaque preserves a record under an unrecognized ordinal
// byte-exactly: header.Count repetitions of header.Format's blob and
// nested data fields, copied verbatim instead of decoded.
func (u *Unspecified) captureOpaque(r *LimitedReader, header DataHeader) error {
	var raw []byte
	w := stream.NewByteBuffer(&raw)

	for i := uint32(0); i < header.Count; i++ {
		if err := captureDataWithFormat(r, header.Format, w); err != nil {
			return err
		}
	}

	*u = Unspecified{Kind: UnspecifiedData, Data: UnspecifiedCapture{Header: header, Raw: raw}}
	return nil
}

// captureData reads one header-prefixed sequence of data, copying its
// header and every byte of its payload into w. It is the capturing
// counterpart of LimitedReader.SkipData.
func captureData(r *LimitedReader, w stream.Writer) error {
	header, err := ReadData[DataHeader](r)
	if err != nil {
		return err
	}
	if err := header.Encode(w); err != nil {
		return err
	}
	for i := uint32(0); i < header.Count; i++ {
		if err := captureDataWithFormat(r, header.Format, w); err != nil {
			return err
		}
	}
	return nil
}

// captureDataWithFormat is the capturing counterpart of
// LimitedReader.SkipDataWithFormat.
func captureDataWithFormat(r *LimitedReader, format DataFormat, w stream.Writer) error {
	if format.BlobSize > 0 {
		buf := make([]byte, format.BlobSize)
		if err := r.ReadFull(buf); err != nil {
			return err
		}
		if err := w.WriteAll(buf); err != nil {
			return err
		}
	}

	if format.DataFields == 0 {
		return nil
	}

	leave, err := r.EnterScope()
	if err != nil {
		return err
	}
	defer leave()

	for i := uint8(0); i < format.DataFields; i++ {
		if err := captureData(r, w); err != nil {
			return err
		}
	}
	return nil
}
