// SPDX-License-Identifier: MIT
// Copyright (c) 2025 dnp3 contributors.

package apdu

// GroupVariation enumerates the object encodings the codec understands.
// The set is closed by IEEE 1815; unknown pairs resolve to
// UnknownGroupVariation and fail the parse.
type GroupVariation int

// GroupVariation defined.
const (
	UnknownGroupVariation GroupVariation = iota

	// Binary inputs
	Group1Var1 // packed format
	Group1Var2 // with flags
	// Binary input events
	Group2Var1 // without time
	Group2Var2 // with absolute time
	Group2Var3 // with relative time
	// Double-bit binary inputs
	Group3Var1 // packed format
	Group3Var2 // with flags
	// Double-bit binary input events
	Group4Var1 // without time
	Group4Var2 // with absolute time
	Group4Var3 // with relative time
	// Binary outputs
	Group10Var1 // packed format
	Group10Var2 // output status with flags
	// Binary output events
	Group11Var1 // status without time
	Group11Var2 // status with time
	// Binary output commands
	Group12Var1 // control relay output block
	// Counters
	Group20Var1 // 32-bit with flag
	Group20Var2 // 16-bit with flag
	Group20Var5 // 32-bit without flag
	Group20Var6 // 16-bit without flag
	// Frozen counters
	Group21Var1  // 32-bit with flag
	Group21Var2  // 16-bit with flag
	Group21Var5  // 32-bit with flag and time
	Group21Var6  // 16-bit with flag and time
	Group21Var9  // 32-bit without flag
	Group21Var10 // 16-bit without flag
	// Counter events
	Group22Var1 // 32-bit with flag
	Group22Var2 // 16-bit with flag
	Group22Var5 // 32-bit with flag and time
	Group22Var6 // 16-bit with flag and time
	// Frozen counter events
	Group23Var1 // 32-bit with flag
	Group23Var2 // 16-bit with flag
	Group23Var5 // 32-bit with flag and time
	Group23Var6 // 16-bit with flag and time
	// Analog inputs
	Group30Var1 // 32-bit with flag
	Group30Var2 // 16-bit with flag
	Group30Var3 // 32-bit without flag
	Group30Var4 // 16-bit without flag
	Group30Var5 // single-precision with flag
	Group30Var6 // double-precision with flag
	// Analog input events
	Group32Var1 // 32-bit without time
	Group32Var2 // 16-bit without time
	Group32Var3 // 32-bit with time
	Group32Var4 // 16-bit with time
	Group32Var5 // single-precision without time
	Group32Var6 // double-precision without time
	Group32Var7 // single-precision with time
	Group32Var8 // double-precision with time
	// Analog output status
	Group40Var1 // 32-bit with flag
	Group40Var2 // 16-bit with flag
	Group40Var3 // single-precision with flag
	Group40Var4 // double-precision with flag
	// Analog output commands
	Group41Var1 // 32-bit
	Group41Var2 // 16-bit
	Group41Var3 // single-precision
	Group41Var4 // double-precision
	// Analog output events
	Group42Var1 // 32-bit without time
	Group42Var2 // 16-bit without time
	Group42Var3 // 32-bit with time
	Group42Var4 // 16-bit with time
	Group42Var5 // single-precision without time
	Group42Var6 // double-precision without time
	Group42Var7 // single-precision with time
	Group42Var8 // double-precision with time
	// Time objects
	Group50Var1 // absolute time
	Group50Var4 // indexed absolute time and interval
	// Common time of occurrence
	Group51Var1 // synchronized CTO
	Group51Var2 // unsynchronized CTO
	// Time delays
	Group52Var1 // coarse
	Group52Var2 // fine
	// Class data
	Group60Var1 // class 0
	Group60Var2 // class 1
	Group60Var3 // class 2
	Group60Var4 // class 3
	// Internal indications
	Group80Var1 // packed format
	// Octet strings, the size is carried by the variation byte
	Group110AnyVar // static
	Group111AnyVar // event
)

// String returns the conventional GroupNVarM name.
func (sf GroupVariation) String() string {
	if name, ok := gvNames[sf]; ok {
		return name
	}
	return "UnknownGroupVariation"
}

// Lookup resolves a raw group/variation pair against the catalogue.
// Groups 110 and 111 match any variation; the variation byte is their
// object size.
func Lookup(group, variation byte) GroupVariation {
	switch group {
	case 110:
		return Group110AnyVar
	case 111:
		return Group111AnyVar
	}
	return gvIndex[GroupVariationID{Group: group, Variation: variation}]
}

// Size returns the fixed on-wire size of one record in bytes, or zero for
// the packed and octet-string encodings whose size depends on the header.
func (sf GroupVariation) Size() uint32 {
	return gvDescriptors[sf].size
}
