// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda

// Decodable is implemented by any Encodable value that can also
// decode itself back out of a stream.
type Decodable interface {
	Encodable
	// Decode reads this value's payload from r. header is the
	// preceding DataHeader when Format().IsStructured(), or nil
	// otherwise. Implementations must validate header via
	// ensureHeader/ensureNoHeader before trusting its contents.
	Decode(r *LimitedReader, header *DataHeader) error
}

// ensureHeader validates that header is present and its ordinal is
// one of supportedOrdinals, returning the dereferenced header.
func ensureHeader(header *DataHeader, expected Format, supportedOrdinals ...uint8) (DataHeader, error) {
	if header == nil {
		return DataHeader{}, &UnexpectedDataFormatError{Expected: expected, Actual: nil}
	}
	for _, ordinal := range supportedOrdinals {
		if header.Format.Ordinal == ordinal {
			return *header, nil
		}
	}
	return DataHeader{}, &UnsupportedDataFormatError{Ordinal: header.Format.Ordinal}
}

// ensureNoHeader validates that header is absent, as required for
// decoding a value whose Format is a Blob.
func ensureNoHeader(header *DataHeader, expected Format) error {
	if header != nil {
		return &UnexpectedDataFormatError{Expected: expected, Actual: header}
	}
	return nil
}

// decodablePtr is satisfied by *T for any T whose pointer implements
// Decodable — the pointer-receiver generic constraint trick that lets
// ReadData construct a new T without reflection.
type decodablePtr[T any] interface {
	*T
	Decodable
}

// ReadData reads and decodes a sequence of data into a new, default
// instance of T.
func ReadData[T any, PT decodablePtr[T]](r *LimitedReader) (T, error) {
	var v T
	err := ReadDataInto[T, PT](r, &v)
	return v, err
}

// ReadDataInto reads and decodes a sequence of data into v. A
// DataHeader is read first iff v's Format is structured.
//
// When the header's count exceeds 1 — meaning the stream actually
// holds a group of values where a single value was expected — all but
// the last are skipped and discarded; v ends up holding the last one.
// A count of 0 leaves v at its zero value.
//
// Text is the exception: its header count is its length in bytes, not
// a repetition count, so a Text's header reaches Decode unchanged.
func ReadDataInto[T any, PT decodablePtr[T]](r *LimitedReader, v *T) error {
	pv := PT(v)
	if !pv.Format().IsStructured() {
		return pv.Decode(r, nil)
	}

	header, err := ReadData[DataHeader](r)
	if err != nil {
		return err
	}

	leave, err := r.EnterScope()
	if err != nil {
		return err
	}
	defer leave()

	if _, isText := any(pv).(*Text); isText {
		return pv.Decode(r, &header)
	}

	if header.Count == 0 {
		var zero T
		*v = zero
		return nil
	}

	for i := uint32(1); i < header.Count; i++ {
		if _, err := r.SkipDataWithFormat(header.Format); err != nil {
			return err
		}
	}

	single := header
	single.Count = 1
	return pv.Decode(r, &single)
}

// SkipData skips to the end of the next encoded sequence of data,
// returning the total number of bytes skipped.
func (r *LimitedReader) SkipData() (int, error) {
	header, err := ReadData[DataHeader](r)
	if err != nil {
		return 0, err
	}

	read := headerWireSize
	for i := uint32(0); i < header.Count; i++ {
		n, err := r.SkipDataWithFormat(header.Format)
		read += n
		if err != nil {
			return read, err
		}
	}
	return read, nil
}

// SkipDataWithFormat skips to the end of the next encoded instance of
// data with format, returning the total number of bytes skipped.
func (r *LimitedReader) SkipDataWithFormat(format DataFormat) (int, error) {
	if err := r.skipBlob(int(format.BlobSize)); err != nil {
		return 0, err
	}
	read := int(format.BlobSize)

	if format.DataFields == 0 {
		return read, nil
	}

	leave, err := r.EnterScope()
	if err != nil {
		return read, err
	}
	defer leave()

	for i := uint8(0); i < format.DataFields; i++ {
		n, err := r.SkipData()
		read += n
		if err != nil {
			return read, err
		}
	}
	return read, nil
}
