// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda

import "code.hybscloud.com/coda/stream"

// TypeKind tags which variant of Type a value holds.
type TypeKind uint8

const (
	KindUnspecified TypeKind = iota
	KindU8
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindBool
	KindText
	KindData
	KindList
	KindMap
)

// typeOrdinals maps each TypeKind to its canonical wire ordinal, per
// the built-in ordinal table: scalars count down from 255, List/Map/
// the Data-descriptor tag occupy the remaining reserved slots, and
// Unspecified is 0.
var typeOrdinals = [...]uint8{
	KindUnspecified: OrdinalUnspecified,
	KindU8:          OrdinalU8,
	KindU16:         OrdinalU16,
	KindU32:         OrdinalU32,
	KindU64:         OrdinalU64,
	KindI8:          OrdinalI8,
	KindI16:         OrdinalI16,
	KindI32:         OrdinalI32,
	KindI64:         OrdinalI64,
	KindF32:         OrdinalF32,
	KindF64:         OrdinalF64,
	KindBool:        OrdinalBool,
	KindText:        OrdinalText,
	KindData:        OrdinalDataDescriptor,
	KindList:        OrdinalList,
	KindMap:         OrdinalMap,
}

func kindFromOrdinal(ordinal uint8) (TypeKind, bool) {
	for k, o := range typeOrdinals {
		if o == ordinal {
			return TypeKind(k), true
		}
	}
	return 0, false
}

// skipTrailingBlob consumes any blob bytes a header declares beyond
// the amount a Decode method actually reads, so a record grown by a
// newer schema version can still be skipped past by an older decoder.
// declared < consumed means the header promised fewer bytes than the
// type requires — a short header, not a forward-compatible one.
func skipTrailingBlob(r *LimitedReader, declared, consumed uint16) error {
	if declared < consumed {
		return &MissingBlobLengthError{Length: consumed - declared}
	}
	if declared == consumed {
		return nil
	}
	return r.skipBlob(int(declared - consumed))
}

// skipTrailingFields consumes any data-field records a header
// declares beyond the fixed count a Decode method already read, per
// the decoder's forward-compatibility contract: a record carrying
// extra trailing fields from a newer schema version is still read
// correctly by an older decoder instead of desyncing the stream.
func skipTrailingFields(r *LimitedReader, declared, consumed uint8) error {
	if declared < consumed {
		return &MissingDataFieldsError{Count: consumed - declared}
	}
	for i := consumed; i < declared; i++ {
		if _, err := r.SkipData(); err != nil {
			return err
		}
	}
	return nil
}

// Type is a schema's closed sum of field types: the scalars, Text, a
// nested user-defined Data type, or a List/Map of other Types.
//
// Only the fields relevant to Kind are populated: Data for KindData,
// List for KindList, MapKey/MapValue for KindMap.
type Type struct {
	Kind     TypeKind
	Data     *DataType
	List     *Type
	MapKey   *Type
	MapValue *Type
}

// Format reports Type's own wire format. Like Format itself, a Type
// value is Fluid: which variant it holds is only known once its
// header's ordinal is read.
func (*Type) Format() Format { return FluidFormat() }

func (t *Type) Encode(w stream.Writer) error {
	switch t.Kind {
	case KindData:
		return WriteData(w, t.Data)
	case KindList:
		return WriteData(w, t.List)
	case KindMap:
		if err := WriteData(w, t.MapKey); err != nil {
			return err
		}
		return WriteData(w, t.MapValue)
	default:
		return nil
	}
}

func (t *Type) EncodeHeader(w stream.Writer) error {
	format := DataFormat{Ordinal: typeOrdinals[t.Kind]}
	switch t.Kind {
	case KindData, KindList:
		format.DataFields = 1
	case KindMap:
		format.DataFields = 2
	}
	return (&DataHeader{Count: 1, Format: format}).Encode(w)
}

func (t *Type) Decode(r *LimitedReader, header *DataHeader) error {
	if header == nil {
		return &UnexpectedDataFormatError{Expected: t.Format(), Actual: nil}
	}

	kind, ok := kindFromOrdinal(header.Format.Ordinal)
	if !ok {
		return &UnsupportedDataFormatError{Ordinal: header.Format.Ordinal}
	}
	t.Kind = kind

	var required uint8
	switch kind {
	case KindData, KindList:
		required = 1
	case KindMap:
		required = 2
	}

	if err := skipTrailingBlob(r, header.Format.BlobSize, 0); err != nil {
		return err
	}
	if header.Format.DataFields < required {
		return &MissingDataFieldsError{Count: required - header.Format.DataFields}
	}

	switch kind {
	case KindData:
		dt, err := ReadData[DataType, *DataType](r)
		if err != nil {
			return err
		}
		t.Data = &dt

	case KindList:
		elem, err := ReadData[Type, *Type](r)
		if err != nil {
			return err
		}
		t.List = &elem

	case KindMap:
		key, err := ReadData[Type, *Type](r)
		if err != nil {
			return err
		}
		value, err := ReadData[Type, *Type](r)
		if err != nil {
			return err
		}
		t.MapKey, t.MapValue = &key, &value
	}

	return skipTrailingFields(r, header.Format.DataFields, required)
}

// DataField describes one field of a user-declared DataType: its
// name, documentation, declared Type, and whether it's optional or
// flattened into its parent.
type DataField struct {
	Name      Text
	Docs      Text
	Typing    Type
	Optional  bool
	Flattened bool
}

func (*DataField) Format() Format { return DataFormatFormat(DataFormat{DataFields: 5}) }

func (f *DataField) Encode(w stream.Writer) error {
	if err := WriteData(w, f.Name); err != nil {
		return err
	}
	if err := WriteData(w, f.Docs); err != nil {
		return err
	}
	if err := WriteData(w, &f.Typing); err != nil {
		return err
	}
	if err := WriteData(w, boolValue(f.Optional)); err != nil {
		return err
	}
	return WriteData(w, boolValue(f.Flattened))
}

func (f *DataField) EncodeHeader(w stream.Writer) error {
	return (&DataHeader{Count: 1, Format: f.Format().AsDataFormat()}).Encode(w)
}

func (f *DataField) Decode(r *LimitedReader, header *DataHeader) error {
	h, err := ensureHeader(header, f.Format(), 0)
	if err != nil {
		return err
	}

	const requiredFields = 5
	if err := skipTrailingBlob(r, h.Format.BlobSize, 0); err != nil {
		return err
	}
	if h.Format.DataFields < requiredFields {
		return &MissingDataFieldsError{Count: requiredFields - h.Format.DataFields}
	}

	if f.Name, err = ReadData[Text, *Text](r); err != nil {
		return err
	}
	if f.Docs, err = ReadData[Text, *Text](r); err != nil {
		return err
	}
	if err = ReadDataInto[Type, *Type](r, &f.Typing); err != nil {
		return err
	}
	optional, err := ReadData[boolValue, *boolValue](r)
	if err != nil {
		return err
	}
	f.Optional = bool(optional)
	flattened, err := ReadData[boolValue, *boolValue](r)
	if err != nil {
		return err
	}
	f.Flattened = bool(flattened)

	return skipTrailingFields(r, h.Format.DataFields, requiredFields)
}

// boolValue adapts the free-function bool codec to the Decodable
// interface so it can be written/read through WriteData/ReadData
// alongside structured fields like DataField's Typing.
type boolValue bool

func (boolValue) Format() Format                 { return FormatBool() }
func (v boolValue) Encode(w stream.Writer) error { return EncodeBool(w, bool(v)) }
func (boolValue) EncodeHeader(stream.Writer) error { return nil }
func (v *boolValue) Decode(r *LimitedReader, header *DataHeader) error {
	if err := ensureNoHeader(header, boolValue(false).Format()); err != nil {
		return err
	}
	b, err := DecodeBool(r)
	*v = boolValue(b)
	return err
}

// DataType is a user-declared record type: its name, documentation,
// field lists (split into fixed-size blob fields and nested data
// fields, matching wire layout order), and its precomputed Format —
// produced by the external schema parser and treated as immutable
// input by this package.
type DataType struct {
	Name       Text
	Docs       Text
	BlobFields []DataField
	DataFields []DataField
	Format     DataFormat
}

func (*DataType) Format() Format { return DataFormatFormat(DataFormat{DataFields: 5}) }

func (dt *DataType) Encode(w stream.Writer) error {
	if err := WriteData(w, dt.Name); err != nil {
		return err
	}
	if err := WriteData(w, dt.Docs); err != nil {
		return err
	}
	if err := WriteList(w, StructCoder[DataField, *DataField](), dt.BlobFields); err != nil {
		return err
	}
	if err := WriteList(w, StructCoder[DataField, *DataField](), dt.DataFields); err != nil {
		return err
	}
	return WriteData(w, &dt.Format)
}

func (dt *DataType) EncodeHeader(w stream.Writer) error {
	return (&DataHeader{Count: 1, Format: DataFormat{DataFields: 5}}).Encode(w)
}

func (dt *DataType) Decode(r *LimitedReader, header *DataHeader) error {
	h, err := ensureHeader(header, dt.Format(), 0)
	if err != nil {
		return err
	}

	const requiredFields = 5
	if err := skipTrailingBlob(r, h.Format.BlobSize, 0); err != nil {
		return err
	}
	if h.Format.DataFields < requiredFields {
		return &MissingDataFieldsError{Count: requiredFields - h.Format.DataFields}
	}

	if dt.Name, err = ReadData[Text, *Text](r); err != nil {
		return err
	}
	if dt.Docs, err = ReadData[Text, *Text](r); err != nil {
		return err
	}
	if dt.BlobFields, err = ReadList(r, StructCoder[DataField, *DataField]()); err != nil {
		return err
	}
	if dt.DataFields, err = ReadList(r, StructCoder[DataField, *DataField]()); err != nil {
		return err
	}
	if err = ReadDataInto[DataFormat, *DataFormat](r, &dt.Format); err != nil {
		return err
	}

	return skipTrailingFields(r, h.Format.DataFields, requiredFields)
}

// DataFormat is itself Encodable/Decodable so it can appear as a
// DataType's own precomputed Format, and inside Format's self
// description.
func (*DataFormat) Format() Format { return NamedDataFormat(0).With(BlobFormat(4)) }

func (df *DataFormat) Encode(w stream.Writer) error {
	if err := EncodeU16(w, df.BlobSize); err != nil {
		return err
	}
	if err := EncodeU8(w, df.DataFields); err != nil {
		return err
	}
	return EncodeU8(w, df.Ordinal)
}

func (df *DataFormat) EncodeHeader(w stream.Writer) error {
	return (&DataHeader{Count: 1, Format: df.Format().AsDataFormat()}).Encode(w)
}

func (df *DataFormat) Decode(r *LimitedReader, header *DataHeader) error {
	h, err := ensureHeader(header, df.Format(), 0)
	if err != nil {
		return err
	}

	const requiredBlob = 4
	if h.Format.BlobSize < requiredBlob {
		return &MissingBlobLengthError{Length: requiredBlob - h.Format.BlobSize}
	}

	if df.BlobSize, err = DecodeU16(r); err != nil {
		return err
	}
	if df.DataFields, err = DecodeU8(r); err != nil {
		return err
	}
	if df.Ordinal, err = DecodeU8(r); err != nil {
		return err
	}

	if err := skipTrailingBlob(r, h.Format.BlobSize, requiredBlob); err != nil {
		return err
	}
	return skipTrailingFields(r, h.Format.DataFields, 0)
}

// Coda is a parsed schema: a named, documented collection of declared
// DataTypes. Produced by the external Markdown schema parser and
// treated as immutable input by this package; included here so a
// schema itself can be sent across a Flow or written to the wire for
// introspection tools.
type Coda struct {
	GlobalName Text
	LocalName  Text
	Docs       Text
	Data       []DataType
}

func (*Coda) Format() Format { return DataFormatFormat(DataFormat{DataFields: 4}) }

func (c *Coda) Encode(w stream.Writer) error {
	if err := WriteData(w, c.GlobalName); err != nil {
		return err
	}
	if err := WriteData(w, c.LocalName); err != nil {
		return err
	}
	if err := WriteData(w, c.Docs); err != nil {
		return err
	}
	return WriteList(w, StructCoder[DataType, *DataType](), c.Data)
}

func (c *Coda) EncodeHeader(w stream.Writer) error {
	return (&DataHeader{Count: 1, Format: DataFormat{DataFields: 4}}).Encode(w)
}

func (c *Coda) Decode(r *LimitedReader, header *DataHeader) error {
	h, err := ensureHeader(header, c.Format(), 0)
	if err != nil {
		return err
	}

	const requiredFields = 4
	if err := skipTrailingBlob(r, h.Format.BlobSize, 0); err != nil {
		return err
	}
	if h.Format.DataFields < requiredFields {
		return &MissingDataFieldsError{Count: requiredFields - h.Format.DataFields}
	}

	if c.GlobalName, err = ReadData[Text, *Text](r); err != nil {
		return err
	}
	if c.LocalName, err = ReadData[Text, *Text](r); err != nil {
		return err
	}
	if c.Docs, err = ReadData[Text, *Text](r); err != nil {
		return err
	}
	if c.Data, err = ReadList(r, StructCoder[DataType, *DataType]()); err != nil {
		return err
	}

	return skipTrailingFields(r, h.Format.DataFields, requiredFields)
}
