package http2

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/indigo-web/wire/config"
	"github.com/indigo-web/wire/http/status"
)

func TestFrameHeader(t *testing.T) {
	maxFrameSize := config.Default().HTTP2.MaxFrameSize

	t.Run("round trip", func(t *testing.T) {
		want := FrameHeader{
			Length:   1234,
			Type:     FrameHeaders,
			Flags:    FlagEndHeaders | FlagEndStream,
			StreamID: 0x7fffffff,
		}

		raw := want.AppendTo(nil)
		require.Len(t, raw, FrameHeaderLen)

		h, n, err := ParseFrameHeader(raw, maxFrameSize)
		require.NoError(t, err)
		require.Equal(t, FrameHeaderLen, n)
		require.Equal(t, want, h)
	})

	t.Run("known wire form", func(t *testing.T) {
		// DATA, END_STREAM, stream 1, 5-byte payload
		raw := []byte{0x00, 0x00, 0x05, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01}
		h, n, err := ParseFrameHeader(raw, maxFrameSize)
		require.NoError(t, err)
		require.Equal(t, FrameHeaderLen, n)
		require.Equal(t, FrameHeader{Length: 5, Type: FrameData, Flags: FlagEndStream, StreamID: 1}, h)
		require.True(t, h.Flags.Has(FlagEndStream))
		require.False(t, h.Flags.Has(FlagEndHeaders))
	})

	t.Run("incomplete header is pending", func(t *testing.T) {
		raw := FrameHeader{Type: FramePing, Length: 8}.AppendTo(nil)

		for i := 0; i < FrameHeaderLen; i++ {
			_, n, err := ParseFrameHeader(raw[:i], maxFrameSize)
			require.NoError(t, err, i)
			require.Zero(t, n, i)
		}
	})

	t.Run("reserved bit is ignored on read", func(t *testing.T) {
		raw := FrameHeader{Type: FrameSettings}.AppendTo(nil)
		raw[5] |= 0x80

		h, _, err := ParseFrameHeader(raw, maxFrameSize)
		require.NoError(t, err)
		require.Zero(t, h.StreamID)
	})

	t.Run("reserved bit is never written", func(t *testing.T) {
		raw := FrameHeader{StreamID: 0xffffffff}.AppendTo(nil)
		require.Zero(t, raw[5]&0x80)

		h, _, err := ParseFrameHeader(raw, maxFrameSize)
		require.NoError(t, err)
		require.Equal(t, uint32(0x7fffffff), h.StreamID)
	})

	t.Run("oversized length", func(t *testing.T) {
		raw := FrameHeader{Length: maxFrameSize + 1, Type: FrameData, StreamID: 1}.AppendTo(nil)
		_, _, err := ParseFrameHeader(raw, maxFrameSize)
		require.ErrorIs(t, err, status.ErrFrameTooLarge)
	})

	t.Run("type names", func(t *testing.T) {
		require.Equal(t, "DATA", FrameData.String())
		require.Equal(t, "CONTINUATION", FrameContinuation.String())
		require.Equal(t, "UNKNOWN", FrameType(0xa).String())
	})
}

func TestPreface(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		n, err := CheckPreface([]byte(Preface + "extra"))
		require.NoError(t, err)
		require.Equal(t, len(Preface), n)
	})

	t.Run("partial prefix is pending", func(t *testing.T) {
		for i := 0; i < len(Preface); i++ {
			n, err := CheckPreface([]byte(Preface[:i]))
			require.NoError(t, err, i)
			require.Zero(t, n, i)
		}
	})

	t.Run("mismatch fails early", func(t *testing.T) {
		_, err := CheckPreface([]byte("GET / HTTP/1.1\r\n"))
		require.ErrorIs(t, err, status.ErrBadFrame)

		// even before a full preface worth of bytes arrived
		_, err = CheckPreface([]byte("PRI * HTTP/1.1"))
		require.ErrorIs(t, err, status.ErrBadFrame)
	})
}

func TestSettings(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		want := []Setting{
			{ID: SettingHeaderTableSize, Value: 4096},
			{ID: SettingEnablePush, Value: 0},
			{ID: SettingMaxFrameSize, Value: 1 << 14},
			{ID: SettingID(0xff), Value: 42},
		}

		raw := AppendSettings(nil, want)
		require.Len(t, raw, len(want)*6)

		settings, err := ParseSettings(raw)
		require.NoError(t, err)
		require.Equal(t, want, settings)
	})

	t.Run("empty payload", func(t *testing.T) {
		settings, err := ParseSettings(nil)
		require.NoError(t, err)
		require.Empty(t, settings)
	})

	t.Run("truncated payload", func(t *testing.T) {
		_, err := ParseSettings(make([]byte, 7))
		require.ErrorIs(t, err, status.ErrBadFrame)
	})
}
