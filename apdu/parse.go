// SPDX-License-Identifier: MIT
// Copyright (c) 2025 dnp3 contributors.

package apdu

import (
	"github.com/lucassm/dnp3/dlog"
)

// The APDU parser walks the object headers of one application fragment.
// It is stateless between calls and holds no reference to the buffer
// after returning. A nil handler turns a pass into pure validation.

// ParseValidate checks that every header of the fragment is well formed
// without invoking any callback.
func ParseValidate(buffer []byte, logger *dlog.Logger) error {
	return parseSinglePass(buffer, nil, logger)
}

// ParseAndEmit parses the fragment in a single pass, invoking handler as
// each header is decoded. On a malformed fragment the headers preceding
// the failure have already been delivered.
func ParseAndEmit(buffer []byte, handler Handler, logger *dlog.Logger) error {
	return parseSinglePass(buffer, handler, logger)
}

// ParseTwoPass validates the whole fragment first and only then emits the
// callbacks, so a malformed fragment produces no callback at all. The
// second pass runs over the identical buffer and cannot fail structurally;
// only a handler error can stop it.
func ParseTwoPass(buffer []byte, handler Handler, logger *dlog.Logger) error {
	if handler == nil {
		return parseSinglePass(buffer, nil, logger)
	}
	if err := parseSinglePass(buffer, nil, logger); err != nil {
		return err
	}
	return parseSinglePass(buffer, handler, logger)
}

func parseSinglePass(buffer []byte, handler Handler, logger *dlog.Logger) error {
	p := parser{full: buffer, buf: buffer, handler: handler, logger: logger}
	for p.remaining() > 0 {
		if err := p.parseHeader(); err != nil {
			return err
		}
	}
	return nil
}

type parser struct {
	full    []byte
	buf     []byte
	handler Handler
	logger  *dlog.Logger

	// header being parsed, for error context
	start     int
	group     byte
	variation byte
	qualifier byte
}

func (sf *parser) remaining() int { return len(sf.buf) }

func (sf *parser) offset() int { return len(sf.full) - len(sf.buf) }

// take consumes n bytes known to be available.
func (sf *parser) take(n int) []byte {
	v := sf.buf[:n]
	sf.buf = sf.buf[n:]
	return v
}

// fail wraps err with the position and identity of the current header.
func (sf *parser) fail(err error) error {
	return &ParseError{
		Offset:    sf.start,
		Group:     sf.group,
		Variation: sf.variation,
		Qualifier: sf.qualifier,
		Err:       err,
	}
}

func (sf *parser) parseHeader() error {
	sf.start = sf.offset()
	sf.group, sf.variation, sf.qualifier = 0, 0, 0
	if sf.remaining() < ObjectHeaderSize {
		return sf.fail(ErrNotEnoughData)
	}
	hdr := sf.take(ObjectHeaderSize)
	sf.group, sf.variation, sf.qualifier = hdr[0], hdr[1], hdr[2]

	gv := Lookup(sf.group, sf.variation)
	if gv == UnknownGroupVariation {
		sf.logger.Warn("unknown object g%dv%d", sf.group, sf.variation)
		return sf.fail(ErrUnknownObject)
	}

	rec := HeaderRecord{
		GV:        gv,
		ID:        GroupVariationID{Group: sf.group, Variation: sf.variation},
		Qualifier: QualifierCode(sf.qualifier),
	}
	desc := gvDescriptors[gv]
	sf.logger.Debug("header %v", rec)

	switch rec.Qualifier {
	case QualifierAllObjects:
		if sf.handler != nil {
			if err := sf.handler.AllObjects(rec); err != nil {
				return sf.fail(err)
			}
		}
		return nil

	case QualifierUint8StartStop:
		rng, err := sf.readRange(1)
		if err != nil {
			return err
		}
		return sf.parseRangeOfObjects(rec, desc, rng)

	case QualifierUint16StartStop:
		rng, err := sf.readRange(2)
		if err != nil {
			return err
		}
		return sf.parseRangeOfObjects(rec, desc, rng)

	case QualifierUint8Count:
		count, err := sf.readCount(1)
		if err != nil {
			return err
		}
		return sf.parseCountOfObjects(rec, desc, count)

	case QualifierUint16Count:
		count, err := sf.readCount(2)
		if err != nil {
			return err
		}
		return sf.parseCountOfObjects(rec, desc, count)

	case QualifierUint8CountUint8Index:
		count, err := sf.readCount(1)
		if err != nil {
			return err
		}
		return sf.parseIndexPrefixedObjects(rec, desc, count, 1)

	case QualifierUint16CountUint16Index:
		count, err := sf.readCount(2)
		if err != nil {
			return err
		}
		return sf.parseIndexPrefixedObjects(rec, desc, count, 2)

	default:
		sf.logger.Warn("unknown qualifier 0x%02x", sf.qualifier)
		return sf.fail(ErrUnknownQualifier)
	}
}

// readRange consumes a start/stop pair of the given byte width.
func (sf *parser) readRange(width int) (Range, error) {
	if sf.remaining() < 2*width {
		return Range{}, sf.fail(ErrNotEnoughData)
	}
	c := cursor{sf.take(2 * width)}
	var start, stop uint16
	if width == 1 {
		start, stop = uint16(c.decodeByte()), uint16(c.decodeByte())
	} else {
		start, stop = c.decodeUint16(), c.decodeUint16()
	}
	if start > stop {
		sf.logger.Warn("bad start/stop %d > %d", start, stop)
		return Range{}, sf.fail(ErrBadStartStop)
	}
	return Range{Start: start, Stop: stop}, nil
}

// readCount consumes an object count of the given byte width.
func (sf *parser) readCount(width int) (uint32, error) {
	if sf.remaining() < width {
		return 0, sf.fail(ErrNotEnoughData)
	}
	c := cursor{sf.take(width)}
	if width == 1 {
		return uint32(c.decodeByte()), nil
	}
	return uint32(c.decodeUint16()), nil
}

// objects consumes a payload of size bytes, or fails the header.
func (sf *parser) objects(size uint32) ([]byte, error) {
	if uint32(sf.remaining()) < size {
		sf.logger.Warn("header claims %d payload bytes, %d remain", size, sf.remaining())
		return nil, sf.fail(ErrNotEnoughDataForObjects)
	}
	return sf.take(int(size)), nil
}

func (sf *parser) parseRangeOfObjects(rec HeaderRecord, desc descriptor, rng Range) error {
	count := rng.Count()
	switch desc.shape {
	case shapeBitField:
		payload, err := sf.objects((count + 7) / 8)
		if err != nil {
			return err
		}
		if sf.handler == nil {
			return nil
		}
		switch rec.GV {
		case Group80Var1:
			seq := bitSeq(payload, rng.Start, count, func(b bool) bool { return b })
			if err := sf.handler.OnIIN(rec, seq); err != nil {
				return sf.fail(err)
			}
		case Group10Var1:
			seq := bitSeq(payload, rng.Start, count, func(b bool) BinaryOutputStatus {
				return BinaryOutputStatus{Value: b, Flags: FlagOnline}
			})
			if err := sf.handler.OnRange(rec, seq); err != nil {
				return sf.fail(err)
			}
		default: // Group1Var1
			seq := bitSeq(payload, rng.Start, count, func(b bool) Binary {
				return Binary{Value: b, Flags: FlagOnline}
			})
			if err := sf.handler.OnRange(rec, seq); err != nil {
				return sf.fail(err)
			}
		}
		return nil

	case shapeDoubleBitField:
		payload, err := sf.objects((count + 3) / 4)
		if err != nil {
			return err
		}
		if sf.handler == nil {
			return nil
		}
		if err := sf.handler.OnRange(rec, doubleBitSeq(payload, rng.Start, count)); err != nil {
			return sf.fail(err)
		}
		return nil

	case shapeOctetString:
		if desc.legal&legalRange == 0 {
			return sf.fail(ErrInvalidObjectQualifier)
		}
		// Variation zero carries no size and is only meaningful in requests.
		if rec.ID.Variation == 0 {
			sf.logger.Warn("octet string variation 0 in data context")
			return sf.fail(ErrInvalidObject)
		}
		size := uint32(rec.ID.Variation)
		payload, err := sf.objects(size * count)
		if err != nil {
			return err
		}
		if sf.handler == nil {
			return nil
		}
		if err := sf.handler.OnRange(rec, octetSeq(payload, rng.Start, count, size)); err != nil {
			return sf.fail(err)
		}
		return nil

	default: // shapeFixed
		if desc.rangeSeq == nil {
			sf.logger.Warn("object %v not range addressable", rec.GV)
			return sf.fail(ErrInvalidObjectQualifier)
		}
		payload, err := sf.objects(desc.size * count)
		if err != nil {
			return err
		}
		if sf.handler == nil {
			return nil
		}
		if err := sf.handler.OnRange(rec, desc.rangeSeq(payload, rng.Start, count)); err != nil {
			return sf.fail(err)
		}
		return nil
	}
}

func (sf *parser) parseCountOfObjects(rec HeaderRecord, desc descriptor, count uint32) error {
	if desc.countSeq == nil {
		sf.logger.Warn("object %v not count addressable", rec.GV)
		return sf.fail(ErrInvalidObjectQualifier)
	}
	payload, err := sf.objects(desc.size * count)
	if err != nil {
		return err
	}
	if sf.handler == nil {
		return nil
	}
	if err := sf.handler.OnCount(rec, desc.countSeq(payload, count)); err != nil {
		return sf.fail(err)
	}
	return nil
}

func (sf *parser) parseIndexPrefixedObjects(rec HeaderRecord, desc descriptor, count, width uint32) error {
	if desc.shape == shapeOctetString {
		if desc.legal&legalPrefix == 0 {
			return sf.fail(ErrInvalidObjectQualifier)
		}
		if rec.ID.Variation == 0 {
			sf.logger.Warn("octet string variation 0 in data context")
			return sf.fail(ErrInvalidObject)
		}
		size := uint32(rec.ID.Variation)
		payload, err := sf.objects((width + size) * count)
		if err != nil {
			return err
		}
		if sf.handler == nil {
			return nil
		}
		if err := sf.handler.OnIndexPrefix(rec, octetPrefixSeq(payload, count, width, size)); err != nil {
			return sf.fail(err)
		}
		return nil
	}

	if desc.prefixSeq == nil {
		sf.logger.Warn("object %v not index-prefix addressable", rec.GV)
		return sf.fail(ErrInvalidObjectQualifier)
	}
	payload, err := sf.objects((width + desc.size) * count)
	if err != nil {
		return err
	}
	if sf.handler == nil {
		return nil
	}
	if err := sf.handler.OnIndexPrefix(rec, desc.prefixSeq(payload, count, width)); err != nil {
		return sf.fail(err)
	}
	return nil
}
