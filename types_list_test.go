// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda_test

import (
	"testing"

	coda "code.hybscloud.com/coda"
	"code.hybscloud.com/coda/stream"
)

func TestWriteListReadListRoundTrip(t *testing.T) {
	items := []uint32{10, 20, 30}
	buf := encodeBuf(t, func(w stream.Writer) error { return coda.WriteList(w, coda.U32Coder, items) })

	r := coda.NewLimitedReader(stream.NewBytes(buf))
	got, err := coda.ReadList(r, coda.U32Coder)
	if err != nil {
		t.Fatalf("ReadList: %v", err)
	}
	if len(got) != len(items) {
		t.Fatalf("got %v, want %v", got, items)
	}
	for i := range items {
		if got[i] != items[i] {
			t.Fatalf("got %v, want %v", got, items)
		}
	}
}

func TestWriteListOfStructsRoundTrip(t *testing.T) {
	fields := []coda.DataField{
		{Name: "a", Typing: coda.Type{Kind: coda.KindU8}},
		{Name: "b", Typing: coda.Type{Kind: coda.KindText}, Optional: true},
	}
	coder := coda.StructCoder[coda.DataField, *coda.DataField]()
	buf := encodeBuf(t, func(w stream.Writer) error { return coda.WriteList(w, coder, fields) })

	r := coda.NewLimitedReader(stream.NewBytes(buf))
	got, err := coda.ReadList(r, coder)
	if err != nil {
		t.Fatalf("ReadList: %v", err)
	}
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "b" || !got[1].Optional {
		t.Fatalf("got %+v", got)
	}
}

func TestWriteMapReadMapRoundTrip(t *testing.T) {
	m := coda.Map[string, uint32]{"z": 26, "a": 1, "m": 13}
	buf := encodeBuf(t, func(w stream.Writer) error { return coda.WriteMap(w, coda.TextCoder, coda.U32Coder, remapKeys(m)) })

	r := coda.NewLimitedReader(stream.NewBytes(buf))
	got, err := coda.ReadMap(r, coda.TextCoder, coda.U32Coder)
	if err != nil {
		t.Fatalf("ReadMap: %v", err)
	}
	if len(got) != len(m) {
		t.Fatalf("got %d entries, want %d", len(got), len(m))
	}
	for k, v := range m {
		if got[coda.Text(k)] != v {
			t.Fatalf("key %q: got %d, want %d", k, got[coda.Text(k)], v)
		}
	}
}

// remapKeys converts a string-keyed map to a coda.Text-keyed one so it
// can be passed through WriteMap's Coder[coda.Text] key coder.
func remapKeys(m coda.Map[string, uint32]) coda.Map[coda.Text, uint32] {
	out := make(coda.Map[coda.Text, uint32], len(m))
	for k, v := range m {
		out[coda.Text(k)] = v
	}
	return out
}

func TestOptionRoundTrip(t *testing.T) {
	some := coda.Some[uint16](99)
	buf := encodeBuf(t, func(w stream.Writer) error { return coda.WriteOption(w, coda.U16Coder, some) })
	r := coda.NewLimitedReader(stream.NewBytes(buf))
	got, err := coda.ReadOption(r, coda.U16Coder)
	if err != nil {
		t.Fatalf("ReadOption: %v", err)
	}
	if !got.Valid || got.Value != 99 {
		t.Fatalf("got %+v, want Some(99)", got)
	}
}

func TestOptionNoneRoundTrip(t *testing.T) {
	none := coda.None[uint16]()
	buf := encodeBuf(t, func(w stream.Writer) error { return coda.WriteOption(w, coda.U16Coder, none) })
	r := coda.NewLimitedReader(stream.NewBytes(buf))
	got, err := coda.ReadOption(r, coda.U16Coder)
	if err != nil {
		t.Fatalf("ReadOption: %v", err)
	}
	if got.Valid {
		t.Fatalf("got %+v, want None", got)
	}
}

func TestNestedOptionDistinguishesNoneFromSomeNone(t *testing.T) {
	inner := coda.OptionCoder(coda.U8Coder)

	someNone := coda.Some(coda.None[uint8]())
	bufSomeNone := encodeBuf(t, func(w stream.Writer) error { return coda.WriteOption(w, inner, someNone) })

	none := coda.None[coda.Option[uint8]]()
	bufNone := encodeBuf(t, func(w stream.Writer) error { return coda.WriteOption(w, inner, none) })

	if string(bufSomeNone) == string(bufNone) {
		t.Fatalf("Some(None) and None encoded identically: %v", bufSomeNone)
	}

	r := coda.NewLimitedReader(stream.NewBytes(bufSomeNone))
	got, err := coda.ReadOption(r, inner)
	if err != nil {
		t.Fatalf("ReadOption: %v", err)
	}
	if !got.Valid || got.Value.Valid {
		t.Fatalf("got %+v, want Some(None)", got)
	}
}
