// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package inspect walks an encoded coda stream and writes a
// human-readable trace of its header structure, for diagnosing
// wire-format issues without a matching schema.
package inspect

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	coda "code.hybscloud.com/coda"
	"code.hybscloud.com/coda/internal/bo"
)

// Walk reads one encoded sequence of data from r — a DataHeader
// followed by header.Count instances of its format — and writes a
// trace of every header and blob it passes through to w. It recurses
// into nested data fields exactly as LimitedReader.SkipData does,
// which makes this the same traversal with the bytes printed instead
// of discarded.
func Walk(r *coda.LimitedReader, w io.Writer) error {
	_, err := walkData(r, w, 0)
	return err
}

func walkData(r *coda.LimitedReader, w io.Writer, depth int) (int, error) {
	header, err := coda.ReadData[coda.DataHeader, *coda.DataHeader](r)
	if err != nil {
		return 0, err
	}

	indent := strings.Repeat("  ", depth)
	if _, err := fmt.Fprintf(w, "%sheader count=%d blob_size=%d data_fields=%d ordinal=%d\n",
		indent, header.Count, header.Format.BlobSize, header.Format.DataFields, header.Format.Ordinal); err != nil {
		return 0, err
	}

	read := 8 // DataHeader's own fixed wire size.
	for i := uint32(0); i < header.Count; i++ {
		n, err := walkDataWithFormat(r, w, header.Format, depth)
		read += n
		if err != nil {
			return read, err
		}
	}
	return read, nil
}

func walkDataWithFormat(r *coda.LimitedReader, w io.Writer, format coda.DataFormat, depth int) (int, error) {
	indent := strings.Repeat("  ", depth)

	blob := make([]byte, format.BlobSize)
	if len(blob) > 0 {
		if err := r.ReadFull(blob); err != nil {
			return 0, err
		}
		if _, err := fmt.Fprintf(w, "%s  blob %s%s\n", indent, hex.EncodeToString(blob), annotateBlob(blob)); err != nil {
			return int(format.BlobSize), err
		}
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
		n, err := walkData(r, w, depth+1)
		read += n
		if err != nil {
			return read, err
		}
	}
	return read, nil
}

// annotateBlob decodes common fixed-width blob sizes as little-endian
// integers (the wire's fixed byte order) and flags when that differs
// from the host's own native order, since a naive reinterpret-cast of
// the raw bytes on a big-endian host would silently read the wrong
// value.
func annotateBlob(blob []byte) string {
	var v uint64
	switch len(blob) {
	case 2:
		v = uint64(binary.LittleEndian.Uint16(blob))
	case 4:
		v = uint64(binary.LittleEndian.Uint32(blob))
	case 8:
		v = binary.LittleEndian.Uint64(blob)
	default:
		return ""
	}
	note := ""
	if bo.Native() != binary.ByteOrder(binary.LittleEndian) {
		note = "; native byte order is big-endian, wire is always little-endian"
	}
	return fmt.Sprintf(" (le=%d%s)", v, note)
}
