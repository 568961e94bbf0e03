// SPDX-License-Identifier: MIT
// Copyright (c) 2025 dnp3 contributors.

package apdu

// The catalogue maps every known GroupVariation to a descriptor carrying
// the record size, the payload shape and the qualifier shapes the object
// may legally be addressed with. Decoding is table-driven: one descriptor,
// one dispatch site in parse.go.

// legality is the set of qualifier shapes permitted for an object.
type legality byte

const (
	legalRange legality = 1 << iota
	legalCount
	legalPrefix
)

// shape selects the payload layout of a header.
type shape int

const (
	shapeFixed shape = iota
	shapeBitField
	shapeDoubleBitField
	shapeOctetString
)

type descriptor struct {
	size  uint32
	shape shape
	legal legality

	// Sequence factories for the fixed-size shape. Only the factories
	// matching the legality set are populated.
	rangeSeq  func(payload []byte, start uint16, count uint32) Sequence
	countSeq  func(payload []byte, count uint32) Sequence
	prefixSeq func(payload []byte, count, width uint32) Sequence
}

// fixed builds a descriptor for a fixed-size record encoding.
func fixed[T any](size uint32, legal legality, decode func(*cursor) T) descriptor {
	d := descriptor{size: size, shape: shapeFixed, legal: legal}
	if legal&legalRange != 0 {
		d.rangeSeq = func(payload []byte, start uint16, count uint32) Sequence {
			return rangeSeq(payload, start, count, size, decode)
		}
	}
	if legal&legalCount != 0 {
		d.countSeq = func(payload []byte, count uint32) Sequence {
			return flatSeq(payload, count, size, decode)
		}
	}
	if legal&legalPrefix != 0 {
		d.prefixSeq = func(payload []byte, count, width uint32) Sequence {
			return prefixSeq(payload, count, width, size, decode)
		}
	}
	return d
}

// Record decoders. Variations without a flag octet report FlagOnline,
// matching the behaviour of the original implementation.

func decodeBinary(c *cursor) Binary {
	f := Flags(c.decodeByte())
	return Binary{Value: f&FlagState != 0, Flags: f}
}

func decodeBinaryAbsTime(c *cursor) Binary {
	v := decodeBinary(c)
	v.Time = c.decodeDNP3Time()
	return v
}

func decodeBinaryRelTime(c *cursor) Binary {
	v := decodeBinary(c)
	v.Time = DNP3Time(c.decodeUint16())
	return v
}

func decodeDoubleBitBinary(c *cursor) DoubleBitBinary {
	f := c.decodeByte()
	return DoubleBitBinary{Value: DoubleBit(f >> 6 & 0x03), Flags: Flags(f & 0x3F)}
}

func decodeDoubleBitAbsTime(c *cursor) DoubleBitBinary {
	v := decodeDoubleBitBinary(c)
	v.Time = c.decodeDNP3Time()
	return v
}

func decodeDoubleBitRelTime(c *cursor) DoubleBitBinary {
	v := decodeDoubleBitBinary(c)
	v.Time = DNP3Time(c.decodeUint16())
	return v
}

func decodeBinaryOutputStatus(c *cursor) BinaryOutputStatus {
	f := Flags(c.decodeByte())
	return BinaryOutputStatus{Value: f&FlagState != 0, Flags: f}
}

func decodeBinaryOutputStatusTime(c *cursor) BinaryOutputStatus {
	v := decodeBinaryOutputStatus(c)
	v.Time = c.decodeDNP3Time()
	return v
}

func decodeCROB(c *cursor) ControlRelayOutputBlock {
	return ControlRelayOutputBlock{
		Code:    ControlCode(c.decodeByte()),
		Count:   c.decodeByte(),
		OnTime:  c.decodeUint32(),
		OffTime: c.decodeUint32(),
		Status:  CommandStatus(c.decodeByte()),
	}
}

func decodeCounter32(c *cursor) Counter {
	f := Flags(c.decodeByte())
	return Counter{Value: c.decodeUint32(), Flags: f}
}

func decodeCounter16(c *cursor) Counter {
	f := Flags(c.decodeByte())
	return Counter{Value: uint32(c.decodeUint16()), Flags: f}
}

func decodeCounter32NoFlag(c *cursor) Counter {
	return Counter{Value: c.decodeUint32(), Flags: FlagOnline}
}

func decodeCounter16NoFlag(c *cursor) Counter {
	return Counter{Value: uint32(c.decodeUint16()), Flags: FlagOnline}
}

func decodeCounter32Time(c *cursor) Counter {
	v := decodeCounter32(c)
	v.Time = c.decodeDNP3Time()
	return v
}

func decodeCounter16Time(c *cursor) Counter {
	v := decodeCounter16(c)
	v.Time = c.decodeDNP3Time()
	return v
}

func decodeFrozenCounter32(c *cursor) FrozenCounter {
	f := Flags(c.decodeByte())
	return FrozenCounter{Value: c.decodeUint32(), Flags: f}
}

func decodeFrozenCounter16(c *cursor) FrozenCounter {
	f := Flags(c.decodeByte())
	return FrozenCounter{Value: uint32(c.decodeUint16()), Flags: f}
}

func decodeFrozenCounter32Time(c *cursor) FrozenCounter {
	v := decodeFrozenCounter32(c)
	v.Time = c.decodeDNP3Time()
	return v
}

func decodeFrozenCounter16Time(c *cursor) FrozenCounter {
	v := decodeFrozenCounter16(c)
	v.Time = c.decodeDNP3Time()
	return v
}

func decodeFrozenCounter32NoFlag(c *cursor) FrozenCounter {
	return FrozenCounter{Value: c.decodeUint32(), Flags: FlagOnline}
}

func decodeFrozenCounter16NoFlag(c *cursor) FrozenCounter {
	return FrozenCounter{Value: uint32(c.decodeUint16()), Flags: FlagOnline}
}

func decodeAnalogInt32(c *cursor) Analog {
	f := Flags(c.decodeByte())
	return Analog{Value: float64(c.decodeInt32()), Flags: f}
}

func decodeAnalogInt16(c *cursor) Analog {
	f := Flags(c.decodeByte())
	return Analog{Value: float64(c.decodeInt16()), Flags: f}
}

func decodeAnalogInt32NoFlag(c *cursor) Analog {
	return Analog{Value: float64(c.decodeInt32()), Flags: FlagOnline}
}

func decodeAnalogInt16NoFlag(c *cursor) Analog {
	return Analog{Value: float64(c.decodeInt16()), Flags: FlagOnline}
}

func decodeAnalogFloat32(c *cursor) Analog {
	f := Flags(c.decodeByte())
	return Analog{Value: float64(c.decodeFloat32()), Flags: f}
}

func decodeAnalogFloat64(c *cursor) Analog {
	f := Flags(c.decodeByte())
	return Analog{Value: c.decodeFloat64(), Flags: f}
}

func decodeAnalogInt32Time(c *cursor) Analog {
	v := decodeAnalogInt32(c)
	v.Time = c.decodeDNP3Time()
	return v
}

func decodeAnalogInt16Time(c *cursor) Analog {
	v := decodeAnalogInt16(c)
	v.Time = c.decodeDNP3Time()
	return v
}

func decodeAnalogFloat32Time(c *cursor) Analog {
	v := decodeAnalogFloat32(c)
	v.Time = c.decodeDNP3Time()
	return v
}

func decodeAnalogFloat64Time(c *cursor) Analog {
	v := decodeAnalogFloat64(c)
	v.Time = c.decodeDNP3Time()
	return v
}

func decodeAnalogOutputStatusInt32(c *cursor) AnalogOutputStatus {
	f := Flags(c.decodeByte())
	return AnalogOutputStatus{Value: float64(c.decodeInt32()), Flags: f}
}

func decodeAnalogOutputStatusInt16(c *cursor) AnalogOutputStatus {
	f := Flags(c.decodeByte())
	return AnalogOutputStatus{Value: float64(c.decodeInt16()), Flags: f}
}

func decodeAnalogOutputStatusFloat32(c *cursor) AnalogOutputStatus {
	f := Flags(c.decodeByte())
	return AnalogOutputStatus{Value: float64(c.decodeFloat32()), Flags: f}
}

func decodeAnalogOutputStatusFloat64(c *cursor) AnalogOutputStatus {
	f := Flags(c.decodeByte())
	return AnalogOutputStatus{Value: c.decodeFloat64(), Flags: f}
}

func decodeAnalogCommandInt32(c *cursor) AnalogCommand {
	v := float64(c.decodeInt32())
	return AnalogCommand{Value: v, Status: CommandStatus(c.decodeByte())}
}

func decodeAnalogCommandInt16(c *cursor) AnalogCommand {
	v := float64(c.decodeInt16())
	return AnalogCommand{Value: v, Status: CommandStatus(c.decodeByte())}
}

func decodeAnalogCommandFloat32(c *cursor) AnalogCommand {
	v := float64(c.decodeFloat32())
	return AnalogCommand{Value: v, Status: CommandStatus(c.decodeByte())}
}

func decodeAnalogCommandFloat64(c *cursor) AnalogCommand {
	v := c.decodeFloat64()
	return AnalogCommand{Value: v, Status: CommandStatus(c.decodeByte())}
}

func decodeTime(c *cursor) DNP3Time {
	return c.decodeDNP3Time()
}

func decodeTimeAndInterval(c *cursor) TimeAndInterval {
	return TimeAndInterval{
		Time:     c.decodeDNP3Time(),
		Interval: c.decodeUint32(),
		Units:    c.decodeByte(),
	}
}

func decodeDelayFine(c *cursor) uint16 {
	return c.decodeUint16()
}

// catalogueDefs enumerates every known variation. Event and command
// objects are index-prefixed, static measurement objects and g50v4 are
// range-addressed, and g50v1, g51 and g52v2 are count-addressed, per
// IEEE 1815-2012 table 4-4. g52v1 takes no range, count or prefix.
var catalogueDefs = []struct {
	gv   GroupVariation
	id   GroupVariationID
	name string
	desc descriptor
}{
	{Group1Var1, GroupVariationID{1, 1}, "Group1Var1", descriptor{shape: shapeBitField, legal: legalRange}},
	{Group1Var2, GroupVariationID{1, 2}, "Group1Var2", fixed(1, legalRange, decodeBinary)},
	{Group2Var1, GroupVariationID{2, 1}, "Group2Var1", fixed(1, legalPrefix, decodeBinary)},
	{Group2Var2, GroupVariationID{2, 2}, "Group2Var2", fixed(7, legalPrefix, decodeBinaryAbsTime)},
	{Group2Var3, GroupVariationID{2, 3}, "Group2Var3", fixed(3, legalPrefix, decodeBinaryRelTime)},
	{Group3Var1, GroupVariationID{3, 1}, "Group3Var1", descriptor{shape: shapeDoubleBitField, legal: legalRange}},
	{Group3Var2, GroupVariationID{3, 2}, "Group3Var2", fixed(1, legalRange, decodeDoubleBitBinary)},
	{Group4Var1, GroupVariationID{4, 1}, "Group4Var1", fixed(1, legalPrefix, decodeDoubleBitBinary)},
	{Group4Var2, GroupVariationID{4, 2}, "Group4Var2", fixed(7, legalPrefix, decodeDoubleBitAbsTime)},
	{Group4Var3, GroupVariationID{4, 3}, "Group4Var3", fixed(3, legalPrefix, decodeDoubleBitRelTime)},
	{Group10Var1, GroupVariationID{10, 1}, "Group10Var1", descriptor{shape: shapeBitField, legal: legalRange}},
	{Group10Var2, GroupVariationID{10, 2}, "Group10Var2", fixed(1, legalRange, decodeBinaryOutputStatus)},
	{Group11Var1, GroupVariationID{11, 1}, "Group11Var1", fixed(1, legalPrefix, decodeBinaryOutputStatus)},
	{Group11Var2, GroupVariationID{11, 2}, "Group11Var2", fixed(7, legalPrefix, decodeBinaryOutputStatusTime)},
	{Group12Var1, GroupVariationID{12, 1}, "Group12Var1", fixed(11, legalPrefix, decodeCROB)},
	{Group20Var1, GroupVariationID{20, 1}, "Group20Var1", fixed(5, legalRange, decodeCounter32)},
	{Group20Var2, GroupVariationID{20, 2}, "Group20Var2", fixed(3, legalRange, decodeCounter16)},
	{Group20Var5, GroupVariationID{20, 5}, "Group20Var5", fixed(4, legalRange, decodeCounter32NoFlag)},
	{Group20Var6, GroupVariationID{20, 6}, "Group20Var6", fixed(2, legalRange, decodeCounter16NoFlag)},
	{Group21Var1, GroupVariationID{21, 1}, "Group21Var1", fixed(5, legalRange, decodeFrozenCounter32)},
	{Group21Var2, GroupVariationID{21, 2}, "Group21Var2", fixed(3, legalRange, decodeFrozenCounter16)},
	{Group21Var5, GroupVariationID{21, 5}, "Group21Var5", fixed(11, legalRange, decodeFrozenCounter32Time)},
	{Group21Var6, GroupVariationID{21, 6}, "Group21Var6", fixed(9, legalRange, decodeFrozenCounter16Time)},
	{Group21Var9, GroupVariationID{21, 9}, "Group21Var9", fixed(4, legalRange, decodeFrozenCounter32NoFlag)},
	{Group21Var10, GroupVariationID{21, 10}, "Group21Var10", fixed(2, legalRange, decodeFrozenCounter16NoFlag)},
	{Group22Var1, GroupVariationID{22, 1}, "Group22Var1", fixed(5, legalPrefix, decodeCounter32)},
	{Group22Var2, GroupVariationID{22, 2}, "Group22Var2", fixed(3, legalPrefix, decodeCounter16)},
	{Group22Var5, GroupVariationID{22, 5}, "Group22Var5", fixed(11, legalPrefix, decodeCounter32Time)},
	{Group22Var6, GroupVariationID{22, 6}, "Group22Var6", fixed(9, legalPrefix, decodeCounter16Time)},
	{Group23Var1, GroupVariationID{23, 1}, "Group23Var1", fixed(5, legalPrefix, decodeFrozenCounter32)},
	{Group23Var2, GroupVariationID{23, 2}, "Group23Var2", fixed(3, legalPrefix, decodeFrozenCounter16)},
	{Group23Var5, GroupVariationID{23, 5}, "Group23Var5", fixed(11, legalPrefix, decodeFrozenCounter32Time)},
	{Group23Var6, GroupVariationID{23, 6}, "Group23Var6", fixed(9, legalPrefix, decodeFrozenCounter16Time)},
	{Group30Var1, GroupVariationID{30, 1}, "Group30Var1", fixed(5, legalRange, decodeAnalogInt32)},
	{Group30Var2, GroupVariationID{30, 2}, "Group30Var2", fixed(3, legalRange, decodeAnalogInt16)},
	{Group30Var3, GroupVariationID{30, 3}, "Group30Var3", fixed(4, legalRange, decodeAnalogInt32NoFlag)},
	{Group30Var4, GroupVariationID{30, 4}, "Group30Var4", fixed(2, legalRange, decodeAnalogInt16NoFlag)},
	{Group30Var5, GroupVariationID{30, 5}, "Group30Var5", fixed(5, legalRange, decodeAnalogFloat32)},
	{Group30Var6, GroupVariationID{30, 6}, "Group30Var6", fixed(9, legalRange, decodeAnalogFloat64)},
	{Group32Var1, GroupVariationID{32, 1}, "Group32Var1", fixed(5, legalPrefix, decodeAnalogInt32)},
	{Group32Var2, GroupVariationID{32, 2}, "Group32Var2", fixed(3, legalPrefix, decodeAnalogInt16)},
	{Group32Var3, GroupVariationID{32, 3}, "Group32Var3", fixed(11, legalPrefix, decodeAnalogInt32Time)},
	{Group32Var4, GroupVariationID{32, 4}, "Group32Var4", fixed(9, legalPrefix, decodeAnalogInt16Time)},
	{Group32Var5, GroupVariationID{32, 5}, "Group32Var5", fixed(5, legalPrefix, decodeAnalogFloat32)},
	{Group32Var6, GroupVariationID{32, 6}, "Group32Var6", fixed(9, legalPrefix, decodeAnalogFloat64)},
	{Group32Var7, GroupVariationID{32, 7}, "Group32Var7", fixed(11, legalPrefix, decodeAnalogFloat32Time)},
	{Group32Var8, GroupVariationID{32, 8}, "Group32Var8", fixed(15, legalPrefix, decodeAnalogFloat64Time)},
	{Group40Var1, GroupVariationID{40, 1}, "Group40Var1", fixed(5, legalRange, decodeAnalogOutputStatusInt32)},
	{Group40Var2, GroupVariationID{40, 2}, "Group40Var2", fixed(3, legalRange, decodeAnalogOutputStatusInt16)},
	{Group40Var3, GroupVariationID{40, 3}, "Group40Var3", fixed(5, legalRange, decodeAnalogOutputStatusFloat32)},
	{Group40Var4, GroupVariationID{40, 4}, "Group40Var4", fixed(9, legalRange, decodeAnalogOutputStatusFloat64)},
	{Group41Var1, GroupVariationID{41, 1}, "Group41Var1", fixed(5, legalPrefix, decodeAnalogCommandInt32)},
	{Group41Var2, GroupVariationID{41, 2}, "Group41Var2", fixed(3, legalPrefix, decodeAnalogCommandInt16)},
	{Group41Var3, GroupVariationID{41, 3}, "Group41Var3", fixed(5, legalPrefix, decodeAnalogCommandFloat32)},
	{Group41Var4, GroupVariationID{41, 4}, "Group41Var4", fixed(9, legalPrefix, decodeAnalogCommandFloat64)},
	{Group42Var1, GroupVariationID{42, 1}, "Group42Var1", fixed(5, legalPrefix, decodeAnalogInt32)},
	{Group42Var2, GroupVariationID{42, 2}, "Group42Var2", fixed(3, legalPrefix, decodeAnalogInt16)},
	{Group42Var3, GroupVariationID{42, 3}, "Group42Var3", fixed(11, legalPrefix, decodeAnalogInt32Time)},
	{Group42Var4, GroupVariationID{42, 4}, "Group42Var4", fixed(9, legalPrefix, decodeAnalogInt16Time)},
	{Group42Var5, GroupVariationID{42, 5}, "Group42Var5", fixed(5, legalPrefix, decodeAnalogFloat32)},
	{Group42Var6, GroupVariationID{42, 6}, "Group42Var6", fixed(9, legalPrefix, decodeAnalogFloat64)},
	{Group42Var7, GroupVariationID{42, 7}, "Group42Var7", fixed(11, legalPrefix, decodeAnalogFloat32Time)},
	{Group42Var8, GroupVariationID{42, 8}, "Group42Var8", fixed(15, legalPrefix, decodeAnalogFloat64Time)},
	{Group50Var1, GroupVariationID{50, 1}, "Group50Var1", fixed(6, legalCount, decodeTime)},
	{Group50Var4, GroupVariationID{50, 4}, "Group50Var4", fixed(11, legalRange, decodeTimeAndInterval)},
	{Group51Var1, GroupVariationID{51, 1}, "Group51Var1", fixed(6, legalCount, decodeTime)},
	{Group51Var2, GroupVariationID{51, 2}, "Group51Var2", fixed(6, legalCount, decodeTime)},
	{Group52Var1, GroupVariationID{52, 1}, "Group52Var1", fixed(2, 0, decodeDelayFine)},
	{Group52Var2, GroupVariationID{52, 2}, "Group52Var2", fixed(2, legalCount, decodeDelayFine)},
	{Group60Var1, GroupVariationID{60, 1}, "Group60Var1", descriptor{}},
	{Group60Var2, GroupVariationID{60, 2}, "Group60Var2", descriptor{}},
	{Group60Var3, GroupVariationID{60, 3}, "Group60Var3", descriptor{}},
	{Group60Var4, GroupVariationID{60, 4}, "Group60Var4", descriptor{}},
	{Group80Var1, GroupVariationID{80, 1}, "Group80Var1", descriptor{shape: shapeBitField, legal: legalRange}},
	{Group110AnyVar, GroupVariationID{110, 0}, "Group110AnyVar", descriptor{shape: shapeOctetString, legal: legalRange}},
	{Group111AnyVar, GroupVariationID{111, 0}, "Group111AnyVar", descriptor{shape: shapeOctetString, legal: legalPrefix}},
}

var (
	gvIndex       map[GroupVariationID]GroupVariation
	gvNames       map[GroupVariation]string
	gvDescriptors map[GroupVariation]descriptor
)

func init() {
	gvIndex = make(map[GroupVariationID]GroupVariation, len(catalogueDefs))
	gvNames = make(map[GroupVariation]string, len(catalogueDefs))
	gvDescriptors = make(map[GroupVariation]descriptor, len(catalogueDefs))
	for _, def := range catalogueDefs {
		gvIndex[def.id] = def.gv
		gvNames[def.gv] = def.name
		gvDescriptors[def.gv] = def.desc
	}
}
