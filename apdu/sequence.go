// SPDX-License-Identifier: MIT
// Copyright (c) 2025 dnp3 contributors.

package apdu

import "encoding/binary"

// Lazy sequences over the object payload. A sequence aliases the buffer
// given to the parser and is only valid until the handler returns; Collect
// copies the elements out for retention, except that OctetString data still
// aliases the buffer. The parser verifies payload
// length and structure before a sequence reaches a handler, so iteration
// cannot fail.

// Sequence is the type-erased view passed to handler callbacks. Handlers
// recover the element type with a type switch on the concrete
// *IndexedSeq[T] or *FlatSeq[T], as selected by HeaderRecord.GV.
type Sequence interface {
	// Len returns the number of elements.
	Len() uint32
}

// IndexedSeq is a lazy sequence of point-indexed values, produced by
// range and index-prefixed headers.
type IndexedSeq[T any] struct {
	count uint32
	at    func(i uint32) IndexedValue[T]
}

// Len returns the number of elements.
func (sf *IndexedSeq[T]) Len() uint32 { return sf.count }

// Do applies fn to each element in wire order.
func (sf *IndexedSeq[T]) Do(fn func(IndexedValue[T])) {
	for i := uint32(0); i < sf.count; i++ {
		fn(sf.at(i))
	}
}

// Collect copies all elements into a slice.
func (sf *IndexedSeq[T]) Collect() []IndexedValue[T] {
	vs := make([]IndexedValue[T], 0, sf.count)
	for i := uint32(0); i < sf.count; i++ {
		vs = append(vs, sf.at(i))
	}
	return vs
}

// FlatSeq is a lazy sequence of values without point indices, produced by
// count headers.
type FlatSeq[T any] struct {
	count uint32
	at    func(i uint32) T
}

// Len returns the number of elements.
func (sf *FlatSeq[T]) Len() uint32 { return sf.count }

// Do applies fn to each element in wire order.
func (sf *FlatSeq[T]) Do(fn func(T)) {
	for i := uint32(0); i < sf.count; i++ {
		fn(sf.at(i))
	}
}

// Collect copies all elements into a slice.
func (sf *FlatSeq[T]) Collect() []T {
	vs := make([]T, 0, sf.count)
	for i := uint32(0); i < sf.count; i++ {
		vs = append(vs, sf.at(i))
	}
	return vs
}

// rangeSeq decodes count records of size bytes each, indices start..start+count-1.
func rangeSeq[T any](payload []byte, start uint16, count, size uint32, decode func(*cursor) T) *IndexedSeq[T] {
	return &IndexedSeq[T]{count: count, at: func(i uint32) IndexedValue[T] {
		c := cursor{payload[i*size:]}
		return IndexedValue[T]{Index: start + uint16(i), Value: decode(&c)}
	}}
}

// prefixSeq decodes count records each preceded by a little-endian index
// of width bytes. Indices widen to uint16 regardless of the wire width.
func prefixSeq[T any](payload []byte, count, width, size uint32, decode func(*cursor) T) *IndexedSeq[T] {
	return &IndexedSeq[T]{count: count, at: func(i uint32) IndexedValue[T] {
		c := cursor{payload[i*(width+size):]}
		var idx uint16
		if width == 1 {
			idx = uint16(c.decodeByte())
		} else {
			idx = c.decodeUint16()
		}
		return IndexedValue[T]{Index: idx, Value: decode(&c)}
	}}
}

// flatSeq decodes count records of size bytes each without indices.
func flatSeq[T any](payload []byte, count, size uint32, decode func(*cursor) T) *FlatSeq[T] {
	return &FlatSeq[T]{count: count, at: func(i uint32) T {
		c := cursor{payload[i*size:]}
		return decode(&c)
	}}
}

// bitSeq reads packed single bits, LSB-first within each byte, mapped to
// the group's value type.
func bitSeq[T any](payload []byte, start uint16, count uint32, mapValue func(bool) T) *IndexedSeq[T] {
	return &IndexedSeq[T]{count: count, at: func(i uint32) IndexedValue[T] {
		bit := payload[i/8]>>(i%8)&0x01 == 0x01
		return IndexedValue[T]{Index: start + uint16(i), Value: mapValue(bit)}
	}}
}

// doubleBitSeq reads packed bit pairs, four points per byte, low pair first.
func doubleBitSeq(payload []byte, start uint16, count uint32) *IndexedSeq[DoubleBitBinary] {
	return &IndexedSeq[DoubleBitBinary]{count: count, at: func(i uint32) IndexedValue[DoubleBitBinary] {
		db := DoubleBit(payload[i/4] >> ((i % 4) * 2) & 0x03)
		return IndexedValue[DoubleBitBinary]{
			Index: start + uint16(i),
			Value: DoubleBitBinary{Value: db, Flags: FlagOnline},
		}
	}}
}

// octetSeq reads count opaque strings of size bytes, indices from start.
func octetSeq(payload []byte, start uint16, count, size uint32) *IndexedSeq[OctetString] {
	return &IndexedSeq[OctetString]{count: count, at: func(i uint32) IndexedValue[OctetString] {
		return IndexedValue[OctetString]{
			Index: start + uint16(i),
			Value: OctetString{Data: payload[i*size : (i+1)*size]},
		}
	}}
}

// octetPrefixSeq reads count opaque strings each preceded by an index of
// width bytes.
func octetPrefixSeq(payload []byte, count, width, size uint32) *IndexedSeq[OctetString] {
	return &IndexedSeq[OctetString]{count: count, at: func(i uint32) IndexedValue[OctetString] {
		rec := payload[i*(width+size):]
		var idx uint16
		if width == 1 {
			idx = uint16(rec[0])
		} else {
			idx = binary.LittleEndian.Uint16(rec)
		}
		return IndexedValue[OctetString]{
			Index: idx,
			Value: OctetString{Data: rec[width : width+size]},
		}
	}}
}
