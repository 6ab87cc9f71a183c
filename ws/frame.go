package ws

import (
	"bytes"
	"encoding/binary"
	"hash/fnv"

	"github.com/indigo-web/wire/http/status"
)

// Opcode is the 4-bit frame type of RFC 6455 §5.2.
type Opcode uint8

const (
	OpcodeContinuation Opcode = 0x0
	OpcodeText         Opcode = 0x1
	OpcodeBinary       Opcode = 0x2
	OpcodeClose        Opcode = 0x8
	OpcodePing         Opcode = 0x9
	OpcodePong         Opcode = 0xA
)

// IsControl reports whether the opcode denotes a control frame. Control
// frames can never be fragmented.
func (o Opcode) IsControl() bool {
	return o >= OpcodeClose
}

func (o Opcode) String() string {
	switch o {
	case OpcodeContinuation:
		return "continuation"
	case OpcodeText:
		return "text"
	case OpcodeBinary:
		return "binary"
	case OpcodeClose:
		return "close"
	case OpcodePing:
		return "ping"
	case OpcodePong:
		return "pong"
	default:
		return "unknown"
	}
}

// NoStatusReceived is the RFC 6455 §7.4.1 sentinel reported by CloseCode
// when a Close frame carries no status code at all.
const NoStatusReceived uint16 = 1005

// maxReasonLength bounds the close reason: the 125 bytes a control payload
// may occupy minus the 2-byte status code.
const maxReasonLength = 125 - 2

// Frame is an immutable WebSocket frame. Identity is defined by the opcode,
// the raw payload bytes and the final-fragment flag alone; the decoded text
// view of a Text frame is a cached derivative and never participates in
// equality or hashing.
type Frame struct {
	payload []byte
	text    string
	opcode  Opcode
	fin     bool

	hasPayload bool
	hasText    bool
}

// NewText builds a Text frame from an already decoded string. The byte view
// is computed on first access.
func NewText(text string, fin bool) *Frame {
	return &Frame{opcode: OpcodeText, text: text, hasText: true, fin: fin}
}

// NewTextBytes builds a Text frame from raw UTF-8 bytes. The string view is
// computed on first access.
func NewTextBytes(payload []byte, fin bool) *Frame {
	return &Frame{opcode: OpcodeText, payload: payload, hasPayload: true, fin: fin}
}

func NewBinary(payload []byte, fin bool) *Frame {
	return &Frame{opcode: OpcodeBinary, payload: payload, hasPayload: true, fin: fin}
}

func NewContinuation(payload []byte, fin bool) *Frame {
	return &Frame{opcode: OpcodeContinuation, payload: payload, hasPayload: true, fin: fin}
}

// Control frames are final by construction: the fin flag isn't even exposed.

func NewPing(payload []byte) *Frame {
	return &Frame{opcode: OpcodePing, payload: payload, hasPayload: true, fin: true}
}

func NewPong(payload []byte) *Frame {
	return &Frame{opcode: OpcodePong, payload: payload, hasPayload: true, fin: true}
}

// NewCloseEmpty builds a Close frame without a status code; its CloseCode
// reads as NoStatusReceived.
func NewCloseEmpty() *Frame {
	return &Frame{opcode: OpcodeClose, hasPayload: true, fin: true}
}

// NewClose builds a Close frame carrying the status code. Codes outside
// [1000, 4999] are rejected: everything below is unassigned and everything
// above doesn't fit the registered/application ranges.
func NewClose(code uint16) (*Frame, error) {
	if code < 1000 || code > 4999 {
		return nil, status.ErrInvalidCloseCode
	}

	payload := make([]byte, 2)
	binary.BigEndian.PutUint16(payload, code)

	return &Frame{opcode: OpcodeClose, payload: payload, hasPayload: true, fin: true}, nil
}

// NewCloseReason builds a Close frame with a code and a UTF-8 reason text.
// The code is validated first; the reason is only examined afterwards and
// must encode into at most 123 bytes.
func NewCloseReason(code uint16, reason string) (*Frame, error) {
	if code < 1000 || code > 4999 {
		return nil, status.ErrInvalidCloseCode
	}

	if len(reason) > maxReasonLength {
		return nil, status.ErrReasonTooLong
	}

	payload := make([]byte, 2, 2+len(reason))
	binary.BigEndian.PutUint16(payload, code)
	payload = append(payload, reason...)

	return &Frame{opcode: OpcodeClose, payload: payload, hasPayload: true, fin: true}, nil
}

func (f *Frame) Opcode() Opcode {
	return f.opcode
}

// Fin reports whether the frame is a final fragment. Always true for
// control frames.
func (f *Frame) Fin() bool {
	return f.fin
}

// Payload returns the raw unmasked payload bytes. For a Text frame built
// from a string, the byte view is materialized on first call and cached.
// The returned slice must not be mutated.
func (f *Frame) Payload() []byte {
	if !f.hasPayload {
		f.payload = []byte(f.text)
		f.hasPayload = true
	}

	return f.payload
}

// Text returns the payload decoded as a string, computed on first call and
// cached. Meaningful for Text frames, but defined for any frame.
func (f *Frame) Text() string {
	if !f.hasText {
		f.text = string(f.Payload())
		f.hasText = true
	}

	return f.text
}

// CloseCode extracts the status code of a Close frame: the first two payload
// bytes big-endian, or NoStatusReceived when the payload carries none.
func (f *Frame) CloseCode() uint16 {
	payload := f.Payload()
	if len(payload) < 2 {
		return NoStatusReceived
	}

	return binary.BigEndian.Uint16(payload)
}

// CloseReason returns the UTF-8 reason text following the status code, if any.
func (f *Frame) CloseReason() string {
	payload := f.Payload()
	if len(payload) <= 2 {
		return ""
	}

	return string(payload[2:])
}

// Equal compares frames by opcode, raw payload bytes and the final-fragment
// flag — the canonical stored fields, nothing else.
func (f *Frame) Equal(other *Frame) bool {
	return f.opcode == other.opcode &&
		f.fin == other.fin &&
		bytes.Equal(f.Payload(), other.Payload())
}

// Hash digests exactly the fields Equal compares, so equal frames hash equal.
func (f *Frame) Hash() uint64 {
	h := fnv.New64a()

	fin := byte(0)
	if f.fin {
		fin = 1
	}

	_, _ = h.Write([]byte{byte(f.opcode), fin})
	_, _ = h.Write(f.Payload())

	return h.Sum64()
}
