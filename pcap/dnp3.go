// SPDX-License-Identifier: MIT
// Copyright (c) 2025 dnp3 contributors.

// Package pcap provides a gopacket decoding layer for captured DNP3
// frames. It unwraps the link envelope and transport octet so the
// application fragment can be inspected with the apdu codec. Multi
// fragment transport sequences are not reassembled.
package pcap

import (
	"encoding/binary"
	"errors"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/lucassm/dnp3/apdu"
	"github.com/lucassm/dnp3/dlog"
)

// LayerTypeDNP3 is registered once at package load.
var LayerTypeDNP3 = gopacket.RegisterLayerType(1815,
	gopacket.LayerTypeMetadata{Name: "DNP3", Decoder: gopacket.DecodeFunc(decodeDNP3)})

// error defined
var (
	ErrFrameTooShort = errors.New("dnp3: frame too short")
	ErrBadStartField = errors.New("dnp3: bad start field")
	ErrFrameTruncated = errors.New("dnp3: user data truncated")
)

// Link frame geometry. User data follows the ten-octet header in blocks
// of up to sixteen octets, each closed by a two-octet CRC.
const (
	linkStartField = 0x0564
	linkHeaderSize = 10
	linkBlockSize  = 16
	linkCRCSize    = 2
)

// Application function codes seen in captures.
const (
	FuncConfirm             = 0x00
	FuncRead                = 0x01
	FuncWrite               = 0x02
	FuncSelect              = 0x03
	FuncOperate             = 0x04
	FuncDirectOperate       = 0x05
	FuncDirectOperateNoAck  = 0x06
	FuncResponse            = 0x81
	FuncUnsolicitedResponse = 0x82
)

// LinkHeader is the fixed part of the frame envelope. The CRC octets are
// consumed but not verified; capture integrity is the capturer's concern.
type LinkHeader struct {
	Length      byte
	Control     byte
	Destination uint16
	Source      uint16
}

// Dir reports the direction bit: set for frames sent by the master.
func (sf LinkHeader) Dir() bool { return sf.Control&0x80 != 0 }

// Primary reports the PRM bit: set for primary station frames.
func (sf LinkHeader) Primary() bool { return sf.Control&0x40 != 0 }

// Function returns the link function code in the low nibble.
func (sf LinkHeader) Function() byte { return sf.Control & 0x0F }

// TransportHeader is the single transport octet of the user data.
type TransportHeader struct {
	Fin bool
	Fir bool
	Seq byte
}

// SingleFragment reports whether the fragment is complete in this frame.
func (sf TransportHeader) SingleFragment() bool { return sf.Fir && sf.Fin }

// AppControl is the application control octet.
type AppControl struct {
	Fir bool
	Fin bool
	Con bool
	Uns bool
	Seq byte
}

// DNP3 is one captured frame, decoded down to the application fragment.
type DNP3 struct {
	layers.BaseLayer

	Link      LinkHeader
	Transport TransportHeader
	App       AppControl
	Function  byte
	IIN       uint16 // responses only

	// Objects is the application object payload, reassembled from the
	// CRC-delimited blocks of the frame.
	Objects []byte
}

// LayerType implements gopacket.Layer.
func (sf *DNP3) LayerType() gopacket.LayerType { return LayerTypeDNP3 }

// CanDecode implements gopacket.DecodingLayer.
func (sf *DNP3) CanDecode() gopacket.LayerClass { return LayerTypeDNP3 }

// NextLayerType implements gopacket.DecodingLayer.
func (sf *DNP3) NextLayerType() gopacket.LayerType { return gopacket.LayerTypeZero }

// DecodeFromBytes implements gopacket.DecodingLayer.
func (sf *DNP3) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < linkHeaderSize {
		df.SetTruncated()
		return ErrFrameTooShort
	}
	if binary.BigEndian.Uint16(data) != linkStartField {
		return ErrBadStartField
	}

	sf.Link = LinkHeader{
		Length:      data[2],
		Control:     data[3],
		Destination: binary.LittleEndian.Uint16(data[4:]),
		Source:      binary.LittleEndian.Uint16(data[6:]),
	}
	sf.BaseLayer = layers.BaseLayer{Contents: data}

	// The length octet counts the control and address octets plus the
	// user data, but not the CRCs.
	if sf.Link.Length < 5 {
		return nil // link-only frame, nothing to unwrap
	}
	user, err := stripCRCs(data[linkHeaderSize:], int(sf.Link.Length)-5)
	if err != nil {
		df.SetTruncated()
		return err
	}
	if len(user) == 0 {
		return nil
	}

	tr := user[0]
	sf.Transport = TransportHeader{
		Fin: tr&0x80 != 0,
		Fir: tr&0x40 != 0,
		Seq: tr & 0x3F,
	}
	user = user[1:]
	if len(user) < 2 {
		df.SetTruncated()
		return ErrFrameTruncated
	}

	ac := user[0]
	sf.App = AppControl{
		Fir: ac&0x80 != 0,
		Fin: ac&0x40 != 0,
		Con: ac&0x20 != 0,
		Uns: ac&0x10 != 0,
		Seq: ac & 0x0F,
	}
	sf.Function = user[1]
	user = user[2:]

	if sf.Function >= FuncResponse {
		if len(user) < 2 {
			df.SetTruncated()
			return ErrFrameTruncated
		}
		sf.IIN = binary.LittleEndian.Uint16(user)
		user = user[2:]
	}
	sf.Objects = user
	return nil
}

// ValidateObjects runs the object payload through the application layer
// validator. Only meaningful for single-fragment user data.
func (sf *DNP3) ValidateObjects(logger *dlog.Logger) error {
	return apdu.ParseValidate(sf.Objects, logger)
}

// stripCRCs removes the per-block CRC octets and returns want octets of
// user data.
func stripCRCs(blocks []byte, want int) ([]byte, error) {
	user := make([]byte, 0, want)
	for len(user) < want {
		n := want - len(user)
		if n > linkBlockSize {
			n = linkBlockSize
		}
		if len(blocks) < n+linkCRCSize {
			return nil, ErrFrameTruncated
		}
		user = append(user, blocks[:n]...)
		blocks = blocks[n+linkCRCSize:]
	}
	return user, nil
}

func decodeDNP3(data []byte, p gopacket.PacketBuilder) error {
	d := &DNP3{}
	if err := d.DecodeFromBytes(data, p); err != nil {
		return err
	}
	p.AddLayer(d)
	return nil
}

// FunctionName returns the conventional name of an application function
// code, or its hex form when unassigned.
func FunctionName(code byte) string {
	switch code {
	case FuncConfirm:
		return "Confirm"
	case FuncRead:
		return "Read"
	case FuncWrite:
		return "Write"
	case FuncSelect:
		return "Select"
	case FuncOperate:
		return "Operate"
	case FuncDirectOperate:
		return "Direct Operate"
	case FuncDirectOperateNoAck:
		return "Direct Operate No ACK"
	case FuncResponse:
		return "Response"
	case FuncUnsolicitedResponse:
		return "Unsolicited Response"
	default:
		return "Function 0x" + hexByte(code)
	}
}

func hexByte(b byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0x0F]})
}
