package http1

import (
	"bytes"

	"github.com/indigo-web/wire/http/headers"
	"github.com/indigo-web/wire/http/status"
)

// tokenChars marks the RFC 7230 tchar set: the characters allowed in header
// names, methods and other tokens. Everything else, control characters and
// separators included, is prohibited.
var tokenChars = func() (lut [256]bool) {
	for char := byte('0'); char <= '9'; char++ {
		lut[char] = true
	}
	for char := byte('a'); char <= 'z'; char++ {
		lut[char] = true
	}
	for char := byte('A'); char <= 'Z'; char++ {
		lut[char] = true
	}
	for _, char := range []byte("!#$%&'*+-.^_`|~") {
		lut[char] = true
	}

	return lut
}()

// IsToken tells whether the string is a valid non-empty RFC 7230 token.
func IsToken(s string) bool {
	if len(s) == 0 {
		return false
	}

	for i := 0; i < len(s); i++ {
		if !tokenChars[s[i]] {
			return false
		}
	}

	return true
}

// ParseField parses a single field-line with the terminator already stripped.
// The name must be a non-empty token immediately followed by the colon; the
// value is the remainder with surrounding optional whitespace trimmed. Its
// bytes are kept opaque. A line starting with whitespace is obsolete folding
// and is rejected: folding is not supported.
//
// The returned field does not alias the input.
func ParseField(line []byte) (headers.Field, error) {
	if len(line) == 0 {
		return headers.Field{}, status.ErrBadHeaderLine
	}

	if line[0] == ' ' || line[0] == '\t' {
		// obs-fold
		return headers.Field{}, status.ErrBadHeaderLine
	}

	colon := bytes.IndexByte(line, ':')
	if colon < 1 {
		return headers.Field{}, status.ErrBadHeaderLine
	}

	name := line[:colon]
	for _, char := range name {
		if !tokenChars[char] {
			return headers.Field{}, status.ErrBadHeaderLine
		}
	}

	return headers.Field{
		Name:  string(name),
		Value: string(trimOWS(line[colon+1:])),
	}, nil
}

func trimOWS(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}

	return b
}
