package http1

import (
	"bytes"

	"github.com/indigo-web/utils/uf"
	"github.com/indigo-web/wire/config"
	"github.com/indigo-web/wire/http/headers"
	"github.com/indigo-web/wire/http/proto"
	"github.com/indigo-web/wire/http/status"
)

// RequestPrelude is the request-line plus header block of an HTTP/1.x
// message. It is computed once per message and never mutated afterwards;
// none of its fields alias the buffer they were parsed from.
type RequestPrelude struct {
	Method  string
	Target  string
	Proto   proto.Proto
	Headers *headers.Headers
}

// ResponsePrelude is the status-line plus header block of an HTTP/1.x
// response.
type ResponsePrelude struct {
	Proto   proto.Proto
	Code    status.Code
	Reason  string
	Headers *headers.Headers
}

// ParseRequest parses a request prelude out of the accumulation buffer. The
// function is a pure function of the buffer contents: the caller appends
// newly arrived bytes and re-invokes it with the same (extended) buffer, any
// number of times, with no cleanup on abandonment.
//
// Returns consumed > 0 when a complete prelude was parsed; the caller must
// discard that many bytes, anything past them belongs to the body or the
// next message. Returns (zero, 0, nil) when the terminator hasn't arrived
// yet. The eof flag tells that no more bytes will ever arrive: with an empty
// buffer that's status.ErrEmptyStream, with a partial message
// status.ErrEndOfStream.
//
// All errors are terminal for the connection, as the parser position cannot
// be trusted to delimit message boundaries anymore.
func ParseRequest(cfg *config.Config, buf []byte, eof bool) (p RequestPrelude, consumed int, err error) {
	if len(buf) == 0 {
		if eof {
			return p, 0, status.ErrEmptyStream
		}

		return p, 0, nil
	}

	line, next, err := cutLine(buf, 0, cfg.Headers.MaxLineLength)
	switch {
	case err != nil:
		return p, 0, err
	case next == pending:
		return p, 0, moreOrEOF(eof)
	}

	sp := bytes.IndexByte(line, ' ')
	if sp == -1 {
		return p, 0, status.ErrBadRequestLine
	}

	method := line[:sp]
	if !IsToken(uf.B2S(method)) {
		return p, 0, status.ErrBadRequestLine
	}

	rest := line[sp+1:]
	lastSp := bytes.LastIndexByte(rest, ' ')
	if lastSp < 1 {
		// either no version at all or an empty request-target
		return p, 0, status.ErrBadRequestLine
	}

	target := rest[:lastSp]
	for _, char := range target {
		if isProhibitedChar(char) {
			return p, 0, status.ErrBadRequestLine
		}
	}

	protocol := proto.FromBytes(rest[lastSp+1:])
	if protocol == proto.Unknown {
		return p, 0, status.ErrUnsupportedProtocol
	}

	hdrs, consumed, err := parseHeaderBlock(cfg, buf, next, eof)
	if err != nil || consumed == 0 {
		return p, 0, err
	}

	return RequestPrelude{
		Method:  string(method),
		Target:  string(target),
		Proto:   protocol,
		Headers: hdrs,
	}, consumed, nil
}

// ParseResponse is the status-line counterpart of ParseRequest and follows
// the same contract.
func ParseResponse(cfg *config.Config, buf []byte, eof bool) (p ResponsePrelude, consumed int, err error) {
	if len(buf) == 0 {
		if eof {
			return p, 0, status.ErrEmptyStream
		}

		return p, 0, nil
	}

	line, next, err := cutLine(buf, 0, cfg.Headers.MaxLineLength)
	switch {
	case err != nil:
		return p, 0, err
	case next == pending:
		return p, 0, moreOrEOF(eof)
	}

	sp := bytes.IndexByte(line, ' ')
	if sp == -1 {
		return p, 0, status.ErrBadStatusLine
	}

	protocol := proto.FromBytes(line[:sp])
	if protocol == proto.Unknown {
		return p, 0, status.ErrUnsupportedProtocol
	}

	rest := line[sp+1:]
	if len(rest) < 3 {
		return p, 0, status.ErrBadStatusLine
	}

	var code status.Code
	for _, char := range rest[:3] {
		if char < '0' || char > '9' {
			return p, 0, status.ErrBadStatusLine
		}

		code = code*10 + status.Code(char-'0')
	}

	var reason []byte
	switch {
	case len(rest) == 3:
		// empty reason phrase with the separating space omitted
	case rest[3] != ' ':
		return p, 0, status.ErrBadStatusLine
	default:
		reason = rest[4:]
	}

	hdrs, consumed, err := parseHeaderBlock(cfg, buf, next, eof)
	if err != nil || consumed == 0 {
		return p, 0, err
	}

	return ResponsePrelude{
		Proto:   protocol,
		Code:    code,
		Reason:  string(reason),
		Headers: hdrs,
	}, consumed, nil
}

// parseHeaderBlock reads field lines until the empty line. Returns the total
// number of bytes consumed from the beginning of buf, or 0 when the block is
// not terminated yet.
func parseHeaderBlock(cfg *config.Config, buf []byte, offset int, eof bool) (*headers.Headers, int, error) {
	hdrs := headers.NewPreAlloc(cfg.Headers.PreAlloc)
	space := 0

	for {
		// the header block may legally occupy less than a line limit past
		// MaxSpace, so bound the not-yet-terminated remainder too
		if len(buf)-offset > cfg.Headers.MaxSpace+cfg.Headers.MaxLineLength {
			return nil, 0, status.ErrHeaderFieldsTooLarge
		}

		line, next, err := cutLine(buf, offset, cfg.Headers.MaxLineLength)
		switch {
		case err != nil:
			return nil, 0, err
		case next == pending:
			return nil, 0, moreOrEOF(eof)
		}

		if len(line) == 0 {
			return hdrs, next, nil
		}

		if space += next - offset; space > cfg.Headers.MaxSpace {
			return nil, 0, status.ErrHeaderFieldsTooLarge
		}

		field, err := ParseField(line)
		if err != nil {
			return nil, 0, err
		}

		hdrs.Add(field.Name, field.Value)
		offset = next
	}
}

const pending = -1

// cutLine extracts the line starting at offset, stripping the terminator.
// CR before LF is optional: bare-LF endings are tolerated per the RFC 7230
// recipient leniency. next is the offset right past the terminator, or the
// pending sentinel when no terminator arrived yet.
func cutLine(buf []byte, offset, maxLine int) (line []byte, next int, err error) {
	lf := bytes.IndexByte(buf[offset:], '\n')
	if lf == -1 {
		if len(buf)-offset > maxLine {
			return nil, 0, status.ErrTooLongLine
		}

		return nil, pending, nil
	}

	line = buf[offset : offset+lf]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}

	if len(line) > maxLine {
		return nil, 0, status.ErrTooLongLine
	}

	return line, offset + lf + 1, nil
}

func moreOrEOF(eof bool) error {
	if eof {
		return status.ErrEndOfStream
	}

	return nil
}

func isProhibitedChar(c byte) bool {
	return c < 0x21 || c == 0x7f
}
