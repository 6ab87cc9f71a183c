package http2

import (
	"github.com/indigo-web/utils/uf"
	"github.com/indigo-web/wire/http/status"
)

// Preface is the client connection preface every h2 connection starts with.
const Preface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

// CheckPreface consumes the connection preface off the front of b. Returns
// n == 0 while the buffer is still shorter than the preface; a mismatch is
// terminal.
func CheckPreface(b []byte) (n int, err error) {
	if len(b) < len(Preface) {
		if uf.B2S(b) != Preface[:len(b)] {
			return 0, status.ErrBadFrame
		}

		return 0, nil
	}

	if uf.B2S(b[:len(Preface)]) != Preface {
		return 0, status.ErrBadFrame
	}

	return len(Preface), nil
}
