package http1

import (
	"strings"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/wire/http/headers"
	"github.com/indigo-web/wire/http/status"
)

// FramingKind tags the strategy deciding where the message body ends.
// Exactly one strategy applies per message.
type FramingKind uint8

const (
	// FramingNone: the message carries no body.
	FramingNone FramingKind = iota + 1
	// FramingFixed: exactly Length bytes follow the header section.
	FramingFixed
	// FramingChunked: the body is chunk-encoded, read it with ChunkedReader.
	FramingChunked
	// FramingUntilClose: the body extends to the connection close.
	FramingUntilClose
)

type BodyFraming struct {
	// Length is meaningful for FramingFixed only.
	Length uint64
	Kind   FramingKind
}

// ResolveRequestFraming deterministically maps request headers to a body
// framing. Any conflicting signals are rejected outright, as a proxy and an
// endpoint disagreeing on where the body ends is a request smuggling vector.
func ResolveRequestFraming(hdrs *headers.Headers) (BodyFraming, error) {
	lastCoding, tePresent, err := lastTransferCoding(hdrs)
	if err != nil {
		return BodyFraming{}, err
	}

	length, clPresent, err := contentLength(hdrs)
	if err != nil {
		return BodyFraming{}, err
	}

	switch {
	case tePresent && clPresent:
		// reject unconditionally, even if the values would agree
		return BodyFraming{}, status.ErrAmbiguousFraming
	case tePresent:
		if !strcomp.EqualFold(lastCoding, "chunked") {
			// a request body without a final chunked coding has no
			// determinable length
			return BodyFraming{}, status.ErrBadEncoding
		}

		return BodyFraming{Kind: FramingChunked}, nil
	case clPresent:
		return BodyFraming{Kind: FramingFixed, Length: length}, nil
	default:
		return BodyFraming{Kind: FramingNone}, nil
	}
}

// ResolveResponseFraming is the response-side counterpart. requestMethod is
// the method of the request this message responds to; connClosing must be
// true iff the caller has independently determined the connection closes
// after this message (HTTP/1.0 default or explicit Connection: close), as
// reading until close is only safe then.
func ResolveResponseFraming(
	requestMethod string, code status.Code, hdrs *headers.Headers, connClosing bool,
) (BodyFraming, error) {
	if requestMethod == "HEAD" || code/100 == 1 || code == status.NoContent || code == status.NotModified {
		return BodyFraming{Kind: FramingNone}, nil
	}

	lastCoding, tePresent, err := lastTransferCoding(hdrs)
	if err != nil {
		return BodyFraming{}, err
	}

	length, clPresent, err := contentLength(hdrs)
	if err != nil {
		return BodyFraming{}, err
	}

	switch {
	case tePresent && clPresent:
		return BodyFraming{}, status.ErrAmbiguousFraming
	case tePresent:
		if strcomp.EqualFold(lastCoding, "chunked") {
			return BodyFraming{Kind: FramingChunked}, nil
		}

		// non-chunked transfer coding leaves the body delimited by close only
		return untilClose(connClosing)
	case clPresent:
		return BodyFraming{Kind: FramingFixed, Length: length}, nil
	default:
		return untilClose(connClosing)
	}
}

func untilClose(connClosing bool) (BodyFraming, error) {
	if !connClosing {
		return BodyFraming{}, status.ErrAmbiguousFraming
	}

	return BodyFraming{Kind: FramingUntilClose}, nil
}

// lastTransferCoding returns the final coding of the Transfer-Encoding
// chain, combining multiple header occurrences in order of appearance.
func lastTransferCoding(hdrs *headers.Headers) (coding string, present bool, err error) {
	for _, value := range hdrs.Values("Transfer-Encoding") {
		present = true

		for len(value) > 0 {
			var token string
			comma := strings.IndexByte(value, ',')
			if comma == -1 {
				token, value = value, ""
			} else {
				token, value = value[:comma], value[comma+1:]
			}

			token = strings.TrimSpace(token)
			if len(token) == 0 {
				return "", false, status.ErrBadEncoding
			}

			coding = token
		}
	}

	return coding, present, nil
}

// contentLength parses every Content-Length occurrence. All of them must be
// the same plain decimal value; a comma (list form), a sign, or any other
// non-digit is rejected rather than reconciled.
func contentLength(hdrs *headers.Headers) (length uint64, present bool, err error) {
	for _, value := range hdrs.Values("Content-Length") {
		n, err := parseDecimal(value)
		if err != nil {
			return 0, false, err
		}

		if present && n != length {
			return 0, false, status.ErrAmbiguousFraming
		}

		length, present = n, true
	}

	return length, present, nil
}

func parseDecimal(value string) (uint64, error) {
	if len(value) == 0 || len(value) > 19 {
		return 0, status.ErrBadContentLength
	}

	var n uint64
	for i := 0; i < len(value); i++ {
		char := value[i]
		if char < '0' || char > '9' {
			return 0, status.ErrBadContentLength
		}

		n = n*10 + uint64(char-'0')
	}

	return n, nil
}
