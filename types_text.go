// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda

import (
	"unicode/utf8"

	"code.hybscloud.com/coda/stream"
)

// Text is UTF-8 encoded text data. It is a named string type rather
// than a bare string so it can carry the Format/Encode/Decode methods
// a bare string type cannot.
//
// Text has the identical wire encoding as []byte: a sequence of
// one-byte blobs.
type Text string

// Format returns Text's wire Format, identical to []byte's.
func (Text) Format() Format { return FormatBytes() }

// Encode writes t's raw UTF-8 bytes.
func (t Text) Encode(w stream.Writer) error {
	return w.WriteAll([]byte(t))
}

// EncodeHeader writes the DataHeader preceding t's bytes.
func (t Text) EncodeHeader(w stream.Writer) error {
	count, err := tryCount(len(t))
	if err != nil {
		return err
	}
	header := DataHeader{Count: count, Format: DataFormat{BlobSize: 1, Ordinal: bytesOrdinal}}
	return header.Encode(w)
}

// Decode reads t's bytes. A sequence of bytes that is not valid UTF-8
// decodes to the empty string rather than failing — this codec has no
// dedicated malformed-text error, trading data loss for leniency.
func (t *Text) Decode(r *LimitedReader, header *DataHeader) error {
	h, err := ensureHeader(header, FormatBytes(), bytesOrdinal)
	if err != nil {
		return err
	}

	buf, err := r.readBlob(h.Count)
	if err != nil {
		return err
	}

	if !utf8.Valid(buf) {
		*t = ""
		return nil
	}
	*t = Text(buf)
	return nil
}

// TextCoder adapts Text for use as a List/Map/Option element.
var TextCoder = Coder[Text]{
	Format: FormatBytes(),
	Write:  func(w stream.Writer, v Text) error { return WriteData(w, v) },
	Read:   func(r *LimitedReader) (Text, error) { return ReadData[Text, *Text](r) },
}
