package http1

import (
	"strconv"

	"github.com/indigo-web/wire/http/headers"
)

var lastChunk = []byte("0\r\n")

// AppendChunk encodes a single body chunk as `size CRLF data CRLF`. A zero
// length chunk is skipped entirely, as on the wire it would terminate the
// body; finish the stream with AppendFinal instead.
func AppendChunk(dst, chunk []byte) []byte {
	if len(chunk) == 0 {
		return dst
	}

	dst = strconv.AppendUint(dst, uint64(len(chunk)), 16)
	dst = append(dst, '\r', '\n')
	dst = append(dst, chunk...)

	return append(dst, '\r', '\n')
}

// AppendFinal terminates a chunked body: the zero-size chunk, optional
// trailer fields, and the final empty line. Pass nil when there are no
// trailers.
func AppendFinal(dst []byte, trailers *headers.Headers) []byte {
	dst = append(dst, lastChunk...)

	if trailers != nil {
		for _, field := range trailers.Unwrap() {
			dst = appendField(dst, field)
		}
	}

	return append(dst, '\r', '\n')
}

func appendField(dst []byte, field headers.Field) []byte {
	dst = append(dst, field.Name...)
	dst = append(dst, ':', ' ')
	dst = append(dst, field.Value...)

	return append(dst, '\r', '\n')
}
