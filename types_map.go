// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda

import (
	"cmp"
	"slices"

	"code.hybscloud.com/coda/stream"
)

// Map is an association from K to V, encoded as a sorted list of keys
// followed by the list of their values in the same key order — grounded on
// the original codec's BTreeMap<K, V> codec, adapted since Go's
// built-in map has no deterministic iteration order.
type Map[K cmp.Ordered, V any] map[K]V

// mapOrdinal is the canonical ordinal for a map: a Data field
// containing exactly two List fields (keys, then values).
const mapOrdinal uint8 = 0

// MapFormat returns the wire Format of a map using keyCoder/valCoder.
func MapFormat[K cmp.Ordered, V any](keyCoder Coder[K], valCoder Coder[V]) Format {
	return NamedDataFormat(mapOrdinal).With(ListFormat(keyCoder)).With(ListFormat(valCoder))
}

// WriteMap writes m as a DataHeader followed by its sorted keys list
// and its values list in the same key order.
func WriteMap[K cmp.Ordered, V any](w stream.Writer, keyCoder Coder[K], valCoder Coder[V], m Map[K, V]) error {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	values := make([]V, len(keys))
	for i, k := range keys {
		values[i] = m[k]
	}

	header := DataHeader{Count: 1, Format: MapFormat(keyCoder, valCoder).AsDataFormat()}
	if err := header.Encode(w); err != nil {
		return err
	}
	if err := WriteList(w, keyCoder, keys); err != nil {
		return err
	}
	return WriteList(w, valCoder, values)
}

// ReadMap reads a map previously written by WriteMap. As with
// ReadDataInto, a header count greater than 1 skips all but the last
// encoded map.
func ReadMap[K cmp.Ordered, V any](r *LimitedReader, keyCoder Coder[K], valCoder Coder[V]) (Map[K, V], error) {
	header, err := ReadData[DataHeader](r)
	if err != nil {
		return nil, err
	}
	if header.Format.Ordinal != mapOrdinal {
		return nil, &UnsupportedDataFormatError{Ordinal: header.Format.Ordinal}
	}
	if header.Count == 0 {
		return Map[K, V]{}, nil
	}

	leave, err := r.EnterScope()
	if err != nil {
		return nil, err
	}
	defer leave()

	for i := uint32(1); i < header.Count; i++ {
		if _, err := r.SkipDataWithFormat(header.Format); err != nil {
			return nil, err
		}
	}

	keys, err := ReadList(r, keyCoder)
	if err != nil {
		return nil, err
	}
	values, err := ReadList(r, valCoder)
	if err != nil {
		return nil, err
	}
	if len(keys) != len(values) {
		return nil, &UnspecifiedMapLengthMismatchError{Keys: len(keys), Values: len(values)}
	}

	m := make(Map[K, V], len(keys))
	for i, k := range keys {
		m[k] = values[i]
	}
	return m, nil
}
