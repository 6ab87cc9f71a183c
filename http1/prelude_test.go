package http1

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/stretchr/testify/require"
	"github.com/indigo-web/wire/config"
	"github.com/indigo-web/wire/http/headers"
	"github.com/indigo-web/wire/http/proto"
	"github.com/indigo-web/wire/http/status"
)

func splitIntoParts(raw []byte, n int) (parts [][]byte) {
	for i := 0; i < len(raw); i += n {
		end := i + n
		if end > len(raw) {
			end = len(raw)
		}

		parts = append(parts, raw[i:end])
	}

	return parts
}

// feedPartially accumulates the parts one by one, re-invoking the parser on
// the same growing buffer, the way a connection loop would.
func feedPartially(t *testing.T, cfg *config.Config, raw []byte, n int) (RequestPrelude, int) {
	var buf []byte

	parts := splitIntoParts(raw, n)
	for i, part := range parts {
		buf = append(buf, part...)

		p, consumed, err := ParseRequest(cfg, buf, false)
		require.NoError(t, err)

		if i < len(parts)-1 {
			require.Zero(t, consumed, "must keep pending until the terminator arrives")
			continue
		}

		return p, consumed
	}

	t.Fatal("no complete prelude in the whole input")
	return RequestPrelude{}, 0
}

func requireFields(t *testing.T, hdrs *headers.Headers, wanted ...headers.Field) {
	require.Equal(t, wanted, append([]headers.Field(nil), hdrs.Unwrap()...))
}

func TestParseRequest(t *testing.T) {
	cfg := config.Default()

	t.Run("simple GET", func(t *testing.T) {
		raw := []byte("GET / HTTP/1.1\r\n\r\n")
		p, consumed, err := ParseRequest(cfg, raw, false)
		require.NoError(t, err)
		require.Equal(t, len(raw), consumed)
		require.Equal(t, "GET", p.Method)
		require.Equal(t, "/", p.Target)
		require.Equal(t, proto.HTTP11, p.Proto)
		require.Zero(t, p.Headers.Len())
	})

	t.Run("arrival in three slices", func(t *testing.T) {
		raw := []byte("GET /a HTTP/1.1\r\nHost: x\r\n\r\n")

		var buf []byte
		for _, part := range [][]byte{raw[:4], raw[4:17], raw[17 : len(raw)-1]} {
			buf = append(buf, part...)
			_, consumed, err := ParseRequest(cfg, buf, false)
			require.NoError(t, err)
			require.Zero(t, consumed)
		}

		buf = append(buf, raw[len(raw)-1:]...)
		p, consumed, err := ParseRequest(cfg, buf, false)
		require.NoError(t, err)
		require.Equal(t, len(raw), consumed)
		require.Equal(t, "GET", p.Method)
		require.Equal(t, "/a", p.Target)
		require.Equal(t, proto.HTTP11, p.Proto)
		requireFields(t, p.Headers, headers.Field{Name: "Host", Value: "x"})
	})

	t.Run("chunking invariance", func(t *testing.T) {
		raw := []byte("POST /where?q=now HTTP/1.1\r\nContent-Type: text/plain\r\nAccept: one,two\r\nAccept: three\r\n\r\n")

		whole, consumed, err := ParseRequest(cfg, raw, false)
		require.NoError(t, err)
		require.Equal(t, len(raw), consumed)

		for i := 1; i < len(raw); i++ {
			p, n := feedPartially(t, cfg, raw, i)
			require.Equal(t, consumed, n, i)
			require.Equal(t, whole.Method, p.Method, i)
			require.Equal(t, whole.Target, p.Target, i)
			require.Equal(t, whole.Proto, p.Proto, i)
			require.Equal(t, whole.Headers.Unwrap(), p.Headers.Unwrap(), i)
		}
	})

	t.Run("repeated invocation is side effect free", func(t *testing.T) {
		raw := []byte("GET / HTTP/1.1\r\nHost: x\r\n\r\n")

		for i := 0; i < 5; i++ {
			p, consumed, err := ParseRequest(cfg, raw, false)
			require.NoError(t, err)
			require.Equal(t, len(raw), consumed)
			require.Equal(t, "GET", p.Method)
		}
	})

	t.Run("duplicates keep order", func(t *testing.T) {
		raw := []byte("GET / HTTP/1.1\r\nAccept: one\r\nHost: x\r\nAccept: two\r\n\r\n")
		p, _, err := ParseRequest(cfg, raw, false)
		require.NoError(t, err)
		requireFields(t, p.Headers,
			headers.Field{Name: "Accept", Value: "one"},
			headers.Field{Name: "Host", Value: "x"},
			headers.Field{Name: "Accept", Value: "two"},
		)
		require.Equal(t, []string{"one", "two"}, p.Headers.Values("accept"))
	})

	t.Run("value whitespace is trimmed", func(t *testing.T) {
		raw := []byte("GET / HTTP/1.1\r\nHost: \t spaced out \t\r\n\r\n")
		p, _, err := ParseRequest(cfg, raw, false)
		require.NoError(t, err)
		require.Equal(t, "spaced out", p.Headers.Value("Host"))
	})

	t.Run("bare LF is tolerated", func(t *testing.T) {
		raw := []byte("GET / HTTP/1.1\nHost: x\n\n")
		p, consumed, err := ParseRequest(cfg, raw, false)
		require.NoError(t, err)
		require.Equal(t, len(raw), consumed)
		require.Equal(t, "x", p.Headers.Value("Host"))
	})

	t.Run("extra bytes are left unconsumed", func(t *testing.T) {
		head := "POST /upload HTTP/1.1\r\nContent-Length: 5\r\n\r\n"
		raw := []byte(head + "hello")
		_, consumed, err := ParseRequest(cfg, raw, false)
		require.NoError(t, err)
		require.Equal(t, len(head), consumed)
	})

	t.Run("prelude does not alias the buffer", func(t *testing.T) {
		raw := []byte("GET /a HTTP/1.1\r\nHost: x\r\n\r\n")
		p, _, err := ParseRequest(cfg, raw, false)
		require.NoError(t, err)

		for i := range raw {
			raw[i] = '#'
		}

		require.Equal(t, "GET", p.Method)
		require.Equal(t, "/a", p.Target)
		require.Equal(t, "x", p.Headers.Value("Host"))
	})

	t.Run("malformed inputs", func(t *testing.T) {
		for i, tc := range []struct {
			raw  string
			want error
		}{
			{"GET / HTTP/1.2\r\n\r\n", status.ErrUnsupportedProtocol},
			{"GET/HTTP/1.1\r\n\r\n", status.ErrBadRequestLine},
			{"GET  HTTP/1.1\r\n\r\n", status.ErrBadRequestLine},
			{"G@T / HTTP/1.1\r\n\r\n", status.ErrBadRequestLine},
			{"GET /a\tb HTTP/1.1\r\n\r\n", status.ErrBadRequestLine},
			{"GET / HTTP/1.1\r\nHost x\r\n\r\n", status.ErrBadHeaderLine},
			{"GET / HTTP/1.1\r\n: x\r\n\r\n", status.ErrBadHeaderLine},
			{"GET / HTTP/1.1\r\nHo st: x\r\n\r\n", status.ErrBadHeaderLine},
			{"GET / HTTP/1.1\r\nHost: a\r\n folded\r\n\r\n", status.ErrBadHeaderLine},
		} {
			_, consumed, err := ParseRequest(cfg, []byte(tc.raw), false)
			require.Zero(t, consumed, i)
			require.ErrorIs(t, err, tc.want, i)
		}
	})

	t.Run("line limit", func(t *testing.T) {
		tight := config.Default()
		tight.Headers.MaxLineLength = 16

		raw := []byte("GET /pretty-long-target-over-the-line HTTP/1.1\r\n\r\n")
		_, _, err := ParseRequest(tight, raw, false)
		require.Equal(t, status.KindTooLong, status.KindOf(err))

		// the bound must trip even before any terminator arrives
		_, _, err = ParseRequest(tight, []byte(strings.Repeat("a", 64)), false)
		require.Equal(t, status.KindTooLong, status.KindOf(err))
	})

	t.Run("header space limit", func(t *testing.T) {
		tight := config.Default()
		tight.Headers.MaxSpace = 32

		raw := []byte("GET / HTTP/1.1\r\nA: 1\r\nB: 2\r\nC: 3\r\nD: 4\r\nE: 5\r\nF: 6\r\n\r\n")
		_, _, err := ParseRequest(tight, raw, false)
		require.ErrorIs(t, err, status.ErrHeaderFieldsTooLarge)
	})

	t.Run("eof handling", func(t *testing.T) {
		_, _, err := ParseRequest(cfg, nil, true)
		require.ErrorIs(t, err, status.ErrEmptyStream)

		_, _, err = ParseRequest(cfg, []byte("GET / HT"), true)
		require.ErrorIs(t, err, status.ErrEndOfStream)

		_, _, err = ParseRequest(cfg, []byte("GET / HTTP/1.1\r\nHost: x\r\n"), true)
		require.ErrorIs(t, err, status.ErrEndOfStream)

		_, consumed, err := ParseRequest(cfg, nil, false)
		require.NoError(t, err)
		require.Zero(t, consumed)
	})

	t.Run("many generated headers", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("GET / HTTP/1.1\r\n")

		const n = 40
		for i := 0; i < n; i++ {
			b.WriteString(fmt.Sprintf("X-Header-%d: %s\r\n", i, uniuri.NewLen(32)))
		}
		b.WriteString("\r\n")

		p, consumed, err := ParseRequest(cfg, []byte(b.String()), false)
		require.NoError(t, err)
		require.Equal(t, b.Len(), consumed)
		require.Equal(t, n, p.Headers.Len())
	})
}

func TestParseResponse(t *testing.T) {
	cfg := config.Default()

	t.Run("simple response", func(t *testing.T) {
		raw := []byte("HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n")
		p, consumed, err := ParseResponse(cfg, raw, false)
		require.NoError(t, err)
		require.Equal(t, len(raw), consumed)
		require.Equal(t, proto.HTTP11, p.Proto)
		require.Equal(t, status.OK, p.Code)
		require.Equal(t, "OK", p.Reason)
		require.Equal(t, "0", p.Headers.Value("Content-Length"))
	})

	t.Run("reason phrase is opaque", func(t *testing.T) {
		raw := []byte("HTTP/1.0 404 Not Found Anywhere At All\r\n\r\n")
		p, _, err := ParseResponse(cfg, raw, false)
		require.NoError(t, err)
		require.Equal(t, proto.HTTP10, p.Proto)
		require.Equal(t, status.NotFound, p.Code)
		require.Equal(t, "Not Found Anywhere At All", p.Reason)
	})

	t.Run("empty reason", func(t *testing.T) {
		for _, raw := range []string{"HTTP/1.1 204\r\n\r\n", "HTTP/1.1 204 \r\n\r\n"} {
			p, _, err := ParseResponse(cfg, []byte(raw), false)
			require.NoError(t, err, raw)
			require.Equal(t, status.NoContent, p.Code, raw)
			require.Empty(t, p.Reason, raw)
		}
	})

	t.Run("malformed status lines", func(t *testing.T) {
		for i, raw := range []string{
			"HTTP/1.1 20 OK\r\n\r\n",
			"HTTP/1.1 2x0 OK\r\n\r\n",
			"HTTP/1.1 200OK\r\n\r\n",
			"HTTP/1.1\r\n\r\n",
		} {
			_, _, err := ParseResponse(cfg, []byte(raw), false)
			require.Equal(t, status.KindParse, status.KindOf(err), i)
		}
	})

	t.Run("chunking invariance", func(t *testing.T) {
		raw := []byte("HTTP/1.1 301 Moved Permanently\r\nLocation: /new\r\nServer: wire\r\n\r\n")

		whole, consumed, err := ParseResponse(cfg, raw, false)
		require.NoError(t, err)
		require.Equal(t, len(raw), consumed)

		for i := 1; i < len(raw); i++ {
			var buf []byte
			parts := splitIntoParts(raw, i)

			for _, part := range parts[:len(parts)-1] {
				buf = append(buf, part...)
				_, n, err := ParseResponse(cfg, buf, false)
				require.NoError(t, err, i)
				require.Zero(t, n, i)
			}

			buf = append(buf, parts[len(parts)-1]...)
			p, n, err := ParseResponse(cfg, buf, false)
			require.NoError(t, err, i)
			require.Equal(t, consumed, n, i)
			require.Equal(t, whole, p, i)
		}
	})
}

func TestSerializer(t *testing.T) {
	cfg := config.Default()

	t.Run("request round trip", func(t *testing.T) {
		p := RequestPrelude{
			Method: "PUT",
			Target: "/things/42?force=1",
			Proto:  proto.HTTP11,
			Headers: headers.New().
				Add("Host", "example.com").
				Add("Accept", "one").
				Add("Accept", "two"),
		}

		raw := AppendRequest(nil, p)
		parsed, consumed, err := ParseRequest(cfg, raw, false)
		require.NoError(t, err)
		require.Equal(t, len(raw), consumed)
		require.Equal(t, p.Method, parsed.Method)
		require.Equal(t, p.Target, parsed.Target)
		require.Equal(t, p.Proto, parsed.Proto)
		require.Equal(t, p.Headers.Unwrap(), parsed.Headers.Unwrap())
	})

	t.Run("response round trip", func(t *testing.T) {
		p := ResponsePrelude{
			Proto:   proto.HTTP11,
			Code:    status.OK,
			Reason:  "OK",
			Headers: headers.New().Add("Content-Length", "2"),
		}

		raw := AppendResponse(nil, p)
		parsed, consumed, err := ParseResponse(cfg, raw, false)
		require.NoError(t, err)
		require.Equal(t, len(raw), consumed)
		require.Equal(t, p, parsed)
	})

	t.Run("reason fallback", func(t *testing.T) {
		raw := AppendResponse(nil, ResponsePrelude{
			Proto:   proto.HTTP11,
			Code:    status.NotFound,
			Headers: headers.New(),
		})
		require.Contains(t, string(raw), "404 Not Found\r\n")
	})
}
