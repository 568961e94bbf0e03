// SPDX-License-Identifier: MIT
// Copyright (c) 2025 dnp3 contributors.

package apdu

import (
	"bytes"
	"errors"
	"testing"
)

// roundTripHandler records the addressing of each parsed header so a
// serialized Header can be compared against what comes back.
type roundTripHandler struct {
	BaseHandler
	recs   []HeaderRecord
	counts []uint32
}

func (sf *roundTripHandler) AllObjects(rec HeaderRecord) error {
	sf.recs = append(sf.recs, rec)
	return nil
}

func (sf *roundTripHandler) OnRange(rec HeaderRecord, seq Sequence) error {
	sf.recs = append(sf.recs, rec)
	sf.counts = append(sf.counts, seq.Len())
	return nil
}

func (sf *roundTripHandler) OnCount(rec HeaderRecord, seq Sequence) error {
	sf.recs = append(sf.recs, rec)
	sf.counts = append(sf.counts, seq.Len())
	return nil
}

func TestHeaderRoundTrip(t *testing.T) {
	t.Run("AllObjects", func(t *testing.T) {
		raw, err := AllObjectsHeader(60, 2).MarshalBinary()
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if !bytes.Equal(raw, []byte{0x3C, 0x02, 0x06}) {
			t.Fatalf("unexpected encoding: % 02X", raw)
		}
		h := &roundTripHandler{}
		if err := ParseTwoPass(raw, h, nil); err != nil {
			t.Fatalf("reparse failed: %v", err)
		}
		if len(h.recs) != 1 || h.recs[0].GV != Group60Var2 || h.recs[0].Qualifier != QualifierAllObjects {
			t.Fatalf("unexpected reparse: %+v", h.recs)
		}
	})

	t.Run("Range8", func(t *testing.T) {
		hdr := Range8Header(1, 2, 3, 4)
		raw, err := hdr.MarshalBinary()
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		// two records follow the built header in a data fragment
		frame := append(raw, 0x01, 0x81)
		h := &roundTripHandler{}
		if err := ParseTwoPass(frame, h, nil); err != nil {
			t.Fatalf("reparse failed: %v", err)
		}
		if h.recs[0].Qualifier != QualifierUint8StartStop || h.counts[0] != 2 {
			t.Fatalf("unexpected reparse: %+v counts=%v", h.recs, h.counts)
		}
	})

	t.Run("Range16", func(t *testing.T) {
		raw, err := Range16Header(30, 3, 0x0100, 0x0100).MarshalBinary()
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if !bytes.Equal(raw, []byte{0x1E, 0x03, 0x01, 0x00, 0x01, 0x00, 0x01}) {
			t.Fatalf("unexpected encoding: % 02X", raw)
		}
		frame := append(raw, 0x2A, 0x00, 0x00, 0x00) // one g30v3 record
		h := &roundTripHandler{}
		if err := ParseTwoPass(frame, h, nil); err != nil {
			t.Fatalf("reparse failed: %v", err)
		}
		if h.recs[0].GV != Group30Var3 || h.counts[0] != 1 {
			t.Fatalf("unexpected reparse: %+v counts=%v", h.recs, h.counts)
		}
	})

	t.Run("Count8", func(t *testing.T) {
		raw, err := Count8Header(50, 1, 1).MarshalBinary()
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		frame := append(raw, 0, 0, 0, 0, 0, 0)
		h := &roundTripHandler{}
		if err := ParseTwoPass(frame, h, nil); err != nil {
			t.Fatalf("reparse failed: %v", err)
		}
		if h.recs[0].Qualifier != QualifierUint8Count || h.counts[0] != 1 {
			t.Fatalf("unexpected reparse: %+v counts=%v", h.recs, h.counts)
		}
	})

	t.Run("Count16", func(t *testing.T) {
		raw, err := Count16Header(52, 2, 2).MarshalBinary()
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if !bytes.Equal(raw, []byte{0x34, 0x02, 0x08, 0x02, 0x00}) {
			t.Fatalf("unexpected encoding: % 02X", raw)
		}
		frame := append(raw, 0x10, 0x00, 0x20, 0x00)
		h := &roundTripHandler{}
		if err := ParseTwoPass(frame, h, nil); err != nil {
			t.Fatalf("reparse failed: %v", err)
		}
		if h.recs[0].GV != Group52Var2 || h.counts[0] != 2 {
			t.Fatalf("unexpected reparse: %+v counts=%v", h.recs, h.counts)
		}
	})

	t.Run("OctetVariationZeroRequest", func(t *testing.T) {
		// size-zero marker is fine when building a read request
		if _, err := AllObjectsHeader(110, 0).MarshalBinary(); err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
	})
}

func TestHeaderValid(t *testing.T) {
	cases := []struct {
		name string
		hdr  Header
		want error
	}{
		{"BackwardRange8", Header{Type: HeaderRange8, Start: 4, Stop: 2}, ErrBadStartStop},
		{"BackwardRange16", Header{Type: HeaderRange16, Start: 0x200, Stop: 0x100}, ErrBadStartStop},
		{"WideRange8", Header{Type: HeaderRange8, Start: 0, Stop: 0x100}, ErrParamOutOfRange},
		{"ZeroCount8", Header{Type: HeaderCount8, Count: 0}, ErrCountZero},
		{"ZeroCount16", Header{Type: HeaderCount16, Count: 0}, ErrCountZero},
		{"WideCount8", Header{Type: HeaderCount8, Count: 0x100}, ErrParamOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.hdr.Valid(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			if _, err := tc.hdr.MarshalBinary(); !errors.Is(err, tc.want) {
				t.Fatalf("marshal got %v, want %v", err, tc.want)
			}
		})
	}
}
