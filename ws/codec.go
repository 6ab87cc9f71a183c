package ws

import (
	"encoding/binary"

	"github.com/indigo-web/wire/http/status"
)

// maxControlPayload is the RFC 6455 §5.5 limit for any control frame payload.
const maxControlPayload = 125

const (
	finBit     = 0x80
	rsvBits    = 0x70
	opcodeMask = 0x0f
	maskBit    = 0x80
	lengthMask = 0x7f

	length16 = 126
	length64 = 127
)

// Append serializes the frame. Frames are written unmasked: masking is the
// client transport's concern and never applies to anything a server emits.
func (f *Frame) Append(dst []byte) ([]byte, error) {
	payload := f.Payload()

	if f.opcode.IsControl() && len(payload) > maxControlPayload {
		return dst, status.ErrBadFrame
	}

	b0 := byte(f.opcode)
	if f.fin {
		b0 |= finBit
	}

	dst = append(dst, b0)

	switch length := len(payload); {
	case length <= 125:
		dst = append(dst, byte(length))
	case length <= 0xffff:
		dst = append(dst, length16, byte(length>>8), byte(length))
	default:
		var ext [8]byte
		binary.BigEndian.PutUint64(ext[:], uint64(length))
		dst = append(dst, length64)
		dst = append(dst, ext[:]...)
	}

	return append(dst, payload...), nil
}

// ParseFrame decodes one frame off the front of b. Returns n == 0 while the
// frame hasn't fully arrived. The payload is copied, never aliasing b; a
// masked frame is unmasked on the way in, so the returned frame always holds
// plain payload bytes.
//
// Grammar violations are terminal: an unrecognized opcode, a fragmented
// control frame, reserved bits without a negotiated extension, or a 64-bit
// length with the sign bit set.
func ParseFrame(b []byte) (*Frame, int, error) {
	if len(b) < 2 {
		return nil, 0, nil
	}

	if b[0]&rsvBits != 0 {
		// no extensions are modeled, so any RSV bit is a violation
		return nil, 0, status.ErrBadFrame
	}

	fin := b[0]&finBit != 0
	opcode := Opcode(b[0] & opcodeMask)

	switch opcode {
	case OpcodeContinuation, OpcodeText, OpcodeBinary:
	case OpcodeClose, OpcodePing, OpcodePong:
		if !fin {
			return nil, 0, status.ErrBadFrame
		}
	default:
		return nil, 0, status.ErrBadFrame
	}

	masked := b[1]&maskBit != 0
	length := uint64(b[1] & lengthMask)
	offset := 2

	switch length {
	case length16:
		if len(b) < offset+2 {
			return nil, 0, nil
		}

		length = uint64(binary.BigEndian.Uint16(b[offset:]))
		offset += 2
	case length64:
		if len(b) < offset+8 {
			return nil, 0, nil
		}

		length = binary.BigEndian.Uint64(b[offset:])
		if length&(1<<63) != 0 {
			return nil, 0, status.ErrBadFrame
		}

		offset += 8
	}

	if opcode.IsControl() && length > maxControlPayload {
		return nil, 0, status.ErrBadFrame
	}

	var maskKey [4]byte
	if masked {
		if len(b) < offset+4 {
			return nil, 0, nil
		}

		copy(maskKey[:], b[offset:])
		offset += 4
	}

	if uint64(len(b)-offset) < length {
		return nil, 0, nil
	}

	payload := make([]byte, length)
	copy(payload, b[offset:offset+int(length)])
	if masked {
		for i := range payload {
			payload[i] ^= maskKey[i%4]
		}
	}

	return &Frame{
		opcode:     opcode,
		payload:    payload,
		hasPayload: true,
		fin:        fin,
	}, offset + int(length), nil
}
