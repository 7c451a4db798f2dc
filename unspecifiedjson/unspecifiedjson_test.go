// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unspecifiedjson_test

import (
	"encoding/json"
	"testing"

	coda "code.hybscloud.com/coda"
	"code.hybscloud.com/coda/unspecifiedjson"
)

func TestMarshalScalarsAndText(t *testing.T) {
	cases := []struct {
		name string
		in   coda.Unspecified
		want string
	}{
		{"default", coda.Unspecified{}, "null"},
		{"bool", coda.UnspecifiedFromBool(true), "true"},
		{"text", coda.UnspecifiedFromText("hi"), `"hi"`},
		{"u8", coda.UnspecifiedFromU8(7), "7"},
		{"i64", coda.UnspecifiedFromI64(-9), "-9"},
		{"f64", coda.UnspecifiedFromF64(1.5), "1.5"},
		{"data", coda.Unspecified{Kind: coda.UnspecifiedData, Data: coda.UnspecifiedCapture{Raw: []byte{1, 2}}}, "null"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := unspecifiedjson.Marshal(c.in)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(got) != c.want {
				t.Fatalf("got %s, want %s", got, c.want)
			}
		})
	}
}

func TestMarshalListAndMap(t *testing.T) {
	list := coda.UnspecifiedFromList([]coda.Unspecified{
		coda.UnspecifiedFromU8(1),
		coda.UnspecifiedFromU8(2),
	})
	got, err := unspecifiedjson.Marshal(list)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(got) != "[1,2]" {
		t.Fatalf("got %s, want [1,2]", got)
	}

	m := coda.UnspecifiedFromMap(coda.UnspecifiedEntries{
		{Key: "a", Value: coda.UnspecifiedFromBool(true)},
	})
	got, err = unspecifiedjson.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(got) != `{"a":true}` {
		t.Fatalf("got %s, want {\"a\":true}", got)
	}
}

func TestUnmarshalIntegerNormalizesToI64(t *testing.T) {
	var u coda.Unspecified
	if err := unspecifiedjson.Unmarshal([]byte("42"), &u); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if u.Kind != coda.UnspecifiedI64 || u.I64 != 42 {
		t.Fatalf("got %+v, want I64(42)", u)
	}
}

func TestUnmarshalFloatStaysF64(t *testing.T) {
	var u coda.Unspecified
	if err := unspecifiedjson.Unmarshal([]byte("1.25"), &u); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if u.Kind != coda.UnspecifiedF64 || u.F64 != 1.25 {
		t.Fatalf("got %+v, want F64(1.25)", u)
	}
}

func TestUnmarshalRoundTripsThroughMarshal(t *testing.T) {
	original := coda.UnspecifiedFromMap(coda.UnspecifiedEntries{
		{Key: "n", Value: coda.UnspecifiedFromI64(7)},
		{Key: "s", Value: coda.UnspecifiedFromText("ok")},
		{Key: "l", Value: coda.UnspecifiedFromList([]coda.Unspecified{coda.UnspecifiedFromBool(false)})},
	})

	encoded, err := unspecifiedjson.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded coda.Unspecified
	if err := unspecifiedjson.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Kind != coda.UnspecifiedMap || len(decoded.Map) != 3 {
		t.Fatalf("got %+v", decoded)
	}
}

func TestUnmarshalNull(t *testing.T) {
	var u coda.Unspecified
	u.Kind = coda.UnspecifiedBool // pre-seed to confirm it's overwritten to Default
	if err := unspecifiedjson.Unmarshal([]byte("null"), &u); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if u.Kind != coda.UnspecifiedDefault {
		t.Fatalf("got kind %v, want Default", u.Kind)
	}
}

// TestValueEmbedsCleanlyInAStruct confirms Value round-trips through
// encoding/json when embedded in an ordinary JSON-tagged struct,
// rather than only working via the top-level Marshal/Unmarshal
// functions.
func TestValueEmbedsCleanlyInAStruct(t *testing.T) {
	type Envelope struct {
		Name    string                `json:"name"`
		Payload unspecifiedjson.Value `json:"payload"`
	}

	in := Envelope{
		Name:    "ping",
		Payload: unspecifiedjson.Value{Unspecified: coda.UnspecifiedFromI64(9)},
	}

	encoded, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}

	var out Envelope
	if err := json.Unmarshal(encoded, &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if out.Payload.Kind != coda.UnspecifiedI64 || out.Payload.I64 != 9 {
		t.Fatalf("got %+v", out.Payload)
	}
}
