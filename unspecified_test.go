// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda_test

import (
	"errors"
	"testing"

	coda "code.hybscloud.com/coda"
	"code.hybscloud.com/coda/stream"
)

func roundTripUnspecified(t *testing.T, u coda.Unspecified) coda.Unspecified {
	t.Helper()
	buf := encodeBuf(t, func(w stream.Writer) error { return coda.WriteData(w, &u) })
	r := coda.NewLimitedReader(stream.NewBytes(buf))
	got, err := coda.DecodeUnspecified(r)
	if err != nil {
		t.Fatalf("DecodeUnspecified: %v", err)
	}
	return got
}

func TestUnspecifiedDefaultRoundTrip(t *testing.T) {
	got := roundTripUnspecified(t, coda.Unspecified{})
	if got.Kind != coda.UnspecifiedDefault {
		t.Fatalf("got %+v, want Default", got)
	}
}

func TestUnspecifiedScalarRoundTrip(t *testing.T) {
	got := roundTripUnspecified(t, coda.UnspecifiedFromI32(-123))
	if got.Kind != coda.UnspecifiedI32 || got.I32 != -123 {
		t.Fatalf("got %+v, want I32(-123)", got)
	}
}

func TestUnspecifiedTextRoundTrip(t *testing.T) {
	got := roundTripUnspecified(t, coda.UnspecifiedFromText("dynamic value"))
	if got.Kind != coda.UnspecifiedText || got.Text != "dynamic value" {
		t.Fatalf("got %+v", got)
	}
}

// TestUnspecifiedHomogeneousScalarListIsCompact checks the §4.3.2
// compactness invariant: a homogeneous scalar list of N elements of
// size B encodes in exactly 16 + N*B bytes (outer header + inner
// header + concatenated raw blobs, no per-element header).
func TestUnspecifiedHomogeneousScalarListIsCompact(t *testing.T) {
	items := make([]coda.Unspecified, 5)
	for i := range items {
		items[i] = coda.UnspecifiedFromU8(uint8(i))
	}
	list := coda.UnspecifiedFromList(items)

	buf := encodeBuf(t, func(w stream.Writer) error { return coda.WriteData(w, &list) })
	want := 16 + len(items)*1
	if len(buf) != want {
		t.Fatalf("got %d bytes, want %d", len(buf), want)
	}

	got := roundTripUnspecified(t, list)
	if got.Kind != coda.UnspecifiedList || len(got.List) != len(items) {
		t.Fatalf("got %+v", got)
	}
	for i, item := range got.List {
		if item.Kind != coda.UnspecifiedU8 || item.U8 != uint8(i) {
			t.Fatalf("item %d: got %+v", i, item)
		}
	}
}

func TestUnspecifiedHeterogeneousListRoundTrip(t *testing.T) {
	items := []coda.Unspecified{
		coda.UnspecifiedFromU8(1),
		coda.UnspecifiedFromText("two"),
		coda.UnspecifiedFromBool(true),
	}
	got := roundTripUnspecified(t, coda.UnspecifiedFromList(items))
	if got.Kind != coda.UnspecifiedList || len(got.List) != 3 {
		t.Fatalf("got %+v", got)
	}
	if got.List[0].U8 != 1 || got.List[1].Text != "two" || got.List[2].Bool != true {
		t.Fatalf("got %+v", got.List)
	}
}

func TestUnspecifiedEmptyListRoundTrip(t *testing.T) {
	got := roundTripUnspecified(t, coda.UnspecifiedFromList(nil))
	if got.Kind != coda.UnspecifiedList || len(got.List) != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestUnspecifiedMapRoundTripPreservesOrder(t *testing.T) {
	entries := coda.UnspecifiedEntries{
		{Key: "z", Value: coda.UnspecifiedFromU8(1)},
		{Key: "a", Value: coda.UnspecifiedFromU8(2)},
		{Key: "m", Value: coda.UnspecifiedFromU8(3)},
	}
	got := roundTripUnspecified(t, coda.UnspecifiedFromMap(entries))
	if got.Kind != coda.UnspecifiedMap || len(got.Map) != 3 {
		t.Fatalf("got %+v", got)
	}
	for i, e := range entries {
		if got.Map[i].Key != e.Key || got.Map[i].Value.U8 != e.Value.U8 {
			t.Fatalf("position %d: got %+v, want %+v", i, got.Map[i], e)
		}
	}
}

func TestUnspecifiedNestedListRoundTrip(t *testing.T) {
	inner := coda.UnspecifiedFromList([]coda.Unspecified{coda.UnspecifiedFromU8(1), coda.UnspecifiedFromU8(2)})
	outer := coda.UnspecifiedFromList([]coda.Unspecified{inner, inner})

	got := roundTripUnspecified(t, outer)
	if got.Kind != coda.UnspecifiedList || len(got.List) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got.List[0].Kind != coda.UnspecifiedList || len(got.List[0].List) != 2 {
		t.Fatalf("got %+v", got.List[0])
	}
}

// TestUnspecifiedScalarHeaderCountAsImplicitList checks §4.3.3's
// decode dispatch: a scalar ordinal whose header count is greater
// than 1 decodes as a List, not a repeated-and-collapsed single value.
func TestUnspecifiedScalarHeaderCountAsImplicitList(t *testing.T) {
	var buf []byte
	w := stream.NewByteBuffer(&buf)
	header := coda.DataHeader{Count: 3, Format: coda.DataFormat{BlobSize: 1, Ordinal: coda.OrdinalU8}}
	if err := header.Encode(w); err != nil {
		t.Fatalf("Encode header: %v", err)
	}
	for _, v := range []byte{4, 5, 6} {
		if err := coda.EncodeU8(w, v); err != nil {
			t.Fatalf("EncodeU8: %v", err)
		}
	}

	r := coda.NewLimitedReader(stream.NewBytes(buf))
	got, err := coda.DecodeUnspecified(r)
	if err != nil {
		t.Fatalf("DecodeUnspecified: %v", err)
	}
	if got.Kind != coda.UnspecifiedList || len(got.List) != 3 {
		t.Fatalf("got %+v, want a 3-element implicit list", got)
	}
	for i, want := range []uint8{4, 5, 6} {
		if got.List[i].U8 != want {
			t.Fatalf("item %d: got %d, want %d", i, got.List[i].U8, want)
		}
	}
}

func TestUnspecifiedOpaqueCaptureRoundTripsByteExactly(t *testing.T) {
	var original []byte
	w := stream.NewByteBuffer(&original)
	header := coda.DataHeader{Count: 1, Format: coda.DataFormat{BlobSize: 2, Ordinal: 77}}
	if err := header.Encode(w); err != nil {
		t.Fatalf("Encode header: %v", err)
	}
	if err := w.WriteAll([]byte{0xaa, 0xbb}); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	r := coda.NewLimitedReader(stream.NewBytes(original))
	captured, err := coda.DecodeUnspecified(r)
	if err != nil {
		t.Fatalf("DecodeUnspecified: %v", err)
	}
	if captured.Kind != coda.UnspecifiedData {
		t.Fatalf("got kind %v, want UnspecifiedData", captured.Kind)
	}

	reencoded := encodeBuf(t, func(w stream.Writer) error { return coda.WriteData(w, &captured) })
	if string(reencoded) != string(original) {
		t.Fatalf("got %v, want byte-identical %v", reencoded, original)
	}
}

func TestUnspecifiedMapLengthMismatchError(t *testing.T) {
	var buf []byte
	w := stream.NewByteBuffer(&buf)

	outer := coda.DataHeader{Count: 1, Format: coda.DataFormat{DataFields: 2, Ordinal: coda.OrdinalMap}}
	if err := outer.Encode(w); err != nil {
		t.Fatalf("Encode outer: %v", err)
	}

	keys := coda.UnspecifiedFromList([]coda.Unspecified{coda.UnspecifiedFromText("a"), coda.UnspecifiedFromText("b")})
	if err := keys.Encode(w); err != nil {
		t.Fatalf("Encode keys: %v", err)
	}
	values := coda.UnspecifiedFromList([]coda.Unspecified{coda.UnspecifiedFromU8(1)})
	if err := values.Encode(w); err != nil {
		t.Fatalf("Encode values: %v", err)
	}

	r := coda.NewLimitedReader(stream.NewBytes(buf))
	var mismatch *coda.UnspecifiedMapLengthMismatchError
	if _, err := coda.DecodeUnspecified(r); !errors.As(err, &mismatch) {
		t.Fatalf("expected UnspecifiedMapLengthMismatchError, got %v", err)
	}
}

func TestUnsupportedUnspecifiedMapKeyError(t *testing.T) {
	var buf []byte
	w := stream.NewByteBuffer(&buf)

	outer := coda.DataHeader{Count: 1, Format: coda.DataFormat{DataFields: 2, Ordinal: coda.OrdinalMap}}
	if err := outer.Encode(w); err != nil {
		t.Fatalf("Encode outer: %v", err)
	}

	keys := coda.UnspecifiedFromList([]coda.Unspecified{coda.UnspecifiedFromU8(1)})
	if err := keys.Encode(w); err != nil {
		t.Fatalf("Encode keys: %v", err)
	}
	values := coda.UnspecifiedFromList([]coda.Unspecified{coda.UnspecifiedFromU8(2)})
	if err := values.Encode(w); err != nil {
		t.Fatalf("Encode values: %v", err)
	}

	r := coda.NewLimitedReader(stream.NewBytes(buf))
	var badKey *coda.UnsupportedUnspecifiedMapKeyError
	if _, err := coda.DecodeUnspecified(r); !errors.As(err, &badKey) {
		t.Fatalf("expected UnsupportedUnspecifiedMapKeyError, got %v", err)
	}
}
