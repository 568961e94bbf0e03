// SPDX-License-Identifier: MIT
// Copyright (c) 2025 dnp3 contributors.

package apdu

import (
	"encoding/binary"
	"math"
)

// cursor is a forward-only little-endian reader over an object payload.
// Lengths are validated before decoding starts, so the accessors index
// without further checks.
type cursor struct {
	b []byte
}

func (sf *cursor) decodeByte() byte {
	v := sf.b[0]
	sf.b = sf.b[1:]
	return v
}

func (sf *cursor) decodeUint16() uint16 {
	v := binary.LittleEndian.Uint16(sf.b)
	sf.b = sf.b[2:]
	return v
}

func (sf *cursor) decodeUint32() uint32 {
	v := binary.LittleEndian.Uint32(sf.b)
	sf.b = sf.b[4:]
	return v
}

func (sf *cursor) decodeInt16() int16 {
	return int16(sf.decodeUint16())
}

func (sf *cursor) decodeInt32() int32 {
	return int32(sf.decodeUint32())
}

func (sf *cursor) decodeFloat32() float32 {
	return math.Float32frombits(sf.decodeUint32())
}

func (sf *cursor) decodeFloat64() float64 {
	v := math.Float64frombits(binary.LittleEndian.Uint64(sf.b))
	sf.b = sf.b[8:]
	return v
}

func (sf *cursor) decodeDNP3Time() DNP3Time {
	v := ParseDNP3Time(sf.b)
	sf.b = sf.b[DNP3TimeSize:]
	return v
}
