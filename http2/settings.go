package http2

import (
	"encoding/binary"

	"github.com/indigo-web/wire/http/status"
)

// SettingID identifies a SETTINGS parameter per RFC 7540 §6.5.2.
type SettingID uint16

const (
	SettingHeaderTableSize      SettingID = 0x1
	SettingEnablePush           SettingID = 0x2
	SettingMaxConcurrentStreams SettingID = 0x3
	SettingInitialWindowSize    SettingID = 0x4
	SettingMaxFrameSize         SettingID = 0x5
	SettingMaxHeaderListSize    SettingID = 0x6
)

// Setting is a single identifier-value pair of a SETTINGS frame payload.
// Each pair occupies exactly 6 octets on the wire.
type Setting struct {
	Value uint32
	ID    SettingID
}

const settingLen = 6

// ParseSettings decodes a complete SETTINGS frame payload. A payload whose
// length is not a multiple of 6 is malformed. Unknown identifiers are kept:
// ignoring them is the caller's call, not the codec's.
func ParseSettings(payload []byte) ([]Setting, error) {
	if len(payload)%settingLen != 0 {
		return nil, status.ErrBadFrame
	}

	settings := make([]Setting, 0, len(payload)/settingLen)
	for len(payload) > 0 {
		settings = append(settings, Setting{
			ID:    SettingID(binary.BigEndian.Uint16(payload[0:2])),
			Value: binary.BigEndian.Uint32(payload[2:6]),
		})
		payload = payload[settingLen:]
	}

	return settings, nil
}

// AppendSettings encodes the pairs back into a SETTINGS frame payload.
func AppendSettings(dst []byte, settings []Setting) []byte {
	for _, s := range settings {
		var pair [settingLen]byte
		binary.BigEndian.PutUint16(pair[0:2], uint16(s.ID))
		binary.BigEndian.PutUint32(pair[2:6], s.Value)
		dst = append(dst, pair[:]...)
	}

	return dst
}
