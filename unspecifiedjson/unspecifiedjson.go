// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package unspecifiedjson maps coda.Unspecified to and from JSON, for
// tooling that wants a text view of dynamic values. The mapping is
// informational and lossy in one direction: Data captures have no
// meaningful textual form and always marshal to null.
package unspecifiedjson

import (
	"bytes"
	"encoding/json"
	"fmt"

	coda "code.hybscloud.com/coda"
)

// Value wraps coda.Unspecified so it can be embedded in a
// JSON-tagged struct and marshal/unmarshal automatically through
// encoding/json, rather than only at the top level via Marshal and
// Unmarshal.
type Value struct {
	coda.Unspecified
}

// MarshalJSON implements json.Marshaler per the mapping:
//
//	Default         -> null
//	scalars, Text   -> native number/string
//	List            -> array
//	Map             -> object (keys are always Text)
//	Data{...}       -> null, one-way lossy
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(toJSON(v.Unspecified))
}

// UnmarshalJSON implements json.Unmarshaler. A JSON integer that fits
// in a signed 64-bit integer decodes as UnspecifiedI64, so plain JSON
// integers round-trip through UnmarshalJSON/MarshalJSON unchanged; the
// other integer variants come back as UnspecifiedI64 after a
// MarshalJSON/UnmarshalJSON round trip. A non-integral or out-of-range
// number decodes as UnspecifiedF64.
func (v *Value) UnmarshalJSON(data []byte) error {
	return Unmarshal(data, &v.Unspecified)
}

// Marshal renders u as JSON; see Value.MarshalJSON for the mapping.
func Marshal(u coda.Unspecified) ([]byte, error) {
	return json.Marshal(toJSON(u))
}

func toJSON(u coda.Unspecified) any {
	switch u.Kind {
	case coda.UnspecifiedDefault, coda.UnspecifiedData:
		return nil
	case coda.UnspecifiedU8:
		return u.U8
	case coda.UnspecifiedU16:
		return u.U16
	case coda.UnspecifiedU32:
		return u.U32
	case coda.UnspecifiedU64:
		return u.U64
	case coda.UnspecifiedI8:
		return u.I8
	case coda.UnspecifiedI16:
		return u.I16
	case coda.UnspecifiedI32:
		return u.I32
	case coda.UnspecifiedI64:
		return u.I64
	case coda.UnspecifiedF32:
		return u.F32
	case coda.UnspecifiedF64:
		return u.F64
	case coda.UnspecifiedBool:
		return u.Bool
	case coda.UnspecifiedText:
		return string(u.Text)
	case coda.UnspecifiedList:
		items := make([]any, len(u.List))
		for i, item := range u.List {
			items[i] = toJSON(item)
		}
		return items
	case coda.UnspecifiedMap:
		obj := make(map[string]any, len(u.Map))
		for _, entry := range u.Map {
			obj[string(entry.Key)] = toJSON(entry.Value)
		}
		return obj
	default:
		return nil
	}
}

// Unmarshal parses JSON data into an Unspecified value; see
// Value.UnmarshalJSON for the mapping.
func Unmarshal(data []byte, u *coda.Unspecified) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	parsed, err := fromJSON(v)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

func fromJSON(v any) (coda.Unspecified, error) {
	switch x := v.(type) {
	case nil:
		return coda.Unspecified{}, nil
	case bool:
		return coda.UnspecifiedFromBool(x), nil
	case string:
		return coda.UnspecifiedFromText(coda.Text(x)), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return coda.UnspecifiedFromI64(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return coda.Unspecified{}, fmt.Errorf("unspecifiedjson: invalid number %q: %w", x, err)
		}
		return coda.UnspecifiedFromF64(f), nil
	case []any:
		items := make([]coda.Unspecified, len(x))
		for i, elem := range x {
			parsed, err := fromJSON(elem)
			if err != nil {
				return coda.Unspecified{}, err
			}
			items[i] = parsed
		}
		return coda.UnspecifiedFromList(items), nil
	case map[string]any:
		entries := make(coda.UnspecifiedEntries, 0, len(x))
		for key, val := range x {
			parsed, err := fromJSON(val)
			if err != nil {
				return coda.Unspecified{}, err
			}
			entries = append(entries, coda.UnspecifiedMapEntry{Key: coda.Text(key), Value: parsed})
		}
		return coda.UnspecifiedFromMap(entries), nil
	default:
		return coda.Unspecified{}, fmt.Errorf("unspecifiedjson: unsupported JSON value %T", v)
	}
}
