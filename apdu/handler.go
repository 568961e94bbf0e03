// SPDX-License-Identifier: MIT
// Copyright (c) 2025 dnp3 contributors.

package apdu

// Handler receives the objects of one APDU, one callback per header.
// The sequences alias the parsed buffer and must not be retained past the
// call; Collect copies values out. Returning a non-nil error stops the
// parse immediately and the error is propagated to the caller of
// ParseAndEmit or ParseTwoPass. Callbacks already issued are not undone.
//
// The element type behind a Sequence follows HeaderRecord.GV:
//
//	Group1Var1/Var2               *IndexedSeq[Binary]
//	Group2Var1..Var3              *IndexedSeq[Binary]
//	Group3Var1/Var2, Group4       *IndexedSeq[DoubleBitBinary]
//	Group10, Group11              *IndexedSeq[BinaryOutputStatus]
//	Group12Var1                   *IndexedSeq[ControlRelayOutputBlock]
//	Group20, Group22              *IndexedSeq[Counter]
//	Group21, Group23              *IndexedSeq[FrozenCounter]
//	Group30, Group32, Group42     *IndexedSeq[Analog]
//	Group40                       *IndexedSeq[AnalogOutputStatus]
//	Group41                       *IndexedSeq[AnalogCommand]
//	Group50Var4                   *IndexedSeq[TimeAndInterval]
//	Group50Var1, Group51          *FlatSeq[DNP3Time]
//	Group52Var2                   *FlatSeq[uint16]
//	Group110AnyVar, Group111AnyVar *IndexedSeq[OctetString]
type Handler interface {
	// AllObjects handles a header with the all-objects qualifier.
	AllObjects(rec HeaderRecord) error
	// OnRange handles a start/stop addressed header.
	OnRange(rec HeaderRecord, seq Sequence) error
	// OnCount handles a count addressed header.
	OnCount(rec HeaderRecord, seq Sequence) error
	// OnIndexPrefix handles an index-prefixed header.
	OnIndexPrefix(rec HeaderRecord, seq Sequence) error
	// OnIIN handles the g80v1 internal indication bits.
	OnIIN(rec HeaderRecord, iin *IndexedSeq[bool]) error
}

// BaseHandler accepts every callback and does nothing. Embed it to
// implement only the methods of interest.
type BaseHandler struct{}

var _ Handler = BaseHandler{}

// AllObjects implements Handler.
func (BaseHandler) AllObjects(HeaderRecord) error { return nil }

// OnRange implements Handler.
func (BaseHandler) OnRange(HeaderRecord, Sequence) error { return nil }

// OnCount implements Handler.
func (BaseHandler) OnCount(HeaderRecord, Sequence) error { return nil }

// OnIndexPrefix implements Handler.
func (BaseHandler) OnIndexPrefix(HeaderRecord, Sequence) error { return nil }

// OnIIN implements Handler.
func (BaseHandler) OnIIN(HeaderRecord, *IndexedSeq[bool]) error { return nil }
