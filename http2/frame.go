package http2

import (
	"encoding/binary"

	"github.com/indigo-web/wire/http/status"
)

// FrameHeaderLen is the fixed length of an RFC 7540 frame header: 24-bit
// payload length, 8-bit type, 8-bit flags and a 31-bit stream identifier.
const FrameHeaderLen = 9

type FrameType uint8

const (
	FrameData         FrameType = 0x0
	FrameHeaders      FrameType = 0x1
	FramePriority     FrameType = 0x2
	FrameRSTStream    FrameType = 0x3
	FrameSettings     FrameType = 0x4
	FramePushPromise  FrameType = 0x5
	FramePing         FrameType = 0x6
	FrameGoAway       FrameType = 0x7
	FrameWindowUpdate FrameType = 0x8
	FrameContinuation FrameType = 0x9
)

func (t FrameType) String() string {
	lut := [...]string{
		FrameData:         "DATA",
		FrameHeaders:      "HEADERS",
		FramePriority:     "PRIORITY",
		FrameRSTStream:    "RST_STREAM",
		FrameSettings:     "SETTINGS",
		FramePushPromise:  "PUSH_PROMISE",
		FramePing:         "PING",
		FrameGoAway:       "GOAWAY",
		FrameWindowUpdate: "WINDOW_UPDATE",
		FrameContinuation: "CONTINUATION",
	}
	if int(t) >= len(lut) {
		return "UNKNOWN"
	}

	return lut[t]
}

type Flags uint8

const (
	FlagEndStream  Flags = 0x1
	FlagAck        Flags = 0x1
	FlagEndHeaders Flags = 0x4
	FlagPadded     Flags = 0x8
	FlagPriority   Flags = 0x20
)

func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// FrameHeader is the fixed 9-byte preamble of every HTTP/2 frame. Length
// counts the payload only.
type FrameHeader struct {
	Length   uint32
	StreamID uint32
	Type     FrameType
	Flags    Flags
}

// ParseFrameHeader decodes a frame header off the front of b. Returns n == 0
// when fewer than 9 bytes arrived so far. The payload length is validated
// against maxFrameSize before the caller commits to reading the payload. The
// reserved high bit of the stream identifier is ignored on read.
func ParseFrameHeader(b []byte, maxFrameSize uint32) (h FrameHeader, n int, err error) {
	if len(b) < FrameHeaderLen {
		return h, 0, nil
	}

	h.Length = uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	if h.Length > maxFrameSize {
		return FrameHeader{}, 0, status.ErrFrameTooLarge
	}

	h.Type = FrameType(b[3])
	h.Flags = Flags(b[4])
	h.StreamID = binary.BigEndian.Uint32(b[5:9]) & 0x7fffffff

	return h, FrameHeaderLen, nil
}

// AppendTo encodes the header. The reserved bit of the stream identifier is
// forced to zero on the wire.
func (h FrameHeader) AppendTo(dst []byte) []byte {
	dst = append(dst,
		byte(h.Length>>16), byte(h.Length>>8), byte(h.Length),
		byte(h.Type), byte(h.Flags),
	)

	var id [4]byte
	binary.BigEndian.PutUint32(id[:], h.StreamID&0x7fffffff)

	return append(dst, id[:]...)
}
