package http1

import (
	"strconv"

	"github.com/indigo-web/wire/http/status"
)

// AppendRequest serializes a request prelude, the exact inverse of
// ParseRequest: request-line, header fields in their stored order, and the
// terminating empty line.
func AppendRequest(dst []byte, p RequestPrelude) []byte {
	dst = append(dst, p.Method...)
	dst = append(dst, ' ')
	dst = append(dst, p.Target...)
	dst = append(dst, ' ')
	dst = append(dst, p.Proto.String()...)
	dst = append(dst, '\r', '\n')

	for _, field := range p.Headers.Unwrap() {
		dst = appendField(dst, field)
	}

	return append(dst, '\r', '\n')
}

// AppendResponse serializes a response prelude. An empty reason phrase falls
// back to the canonical text of the code.
func AppendResponse(dst []byte, p ResponsePrelude) []byte {
	dst = append(dst, p.Proto.String()...)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(p.Code), 10)
	dst = append(dst, ' ')

	reason := p.Reason
	if len(reason) == 0 {
		reason = status.Text(p.Code)
	}

	dst = append(dst, reason...)
	dst = append(dst, '\r', '\n')

	for _, field := range p.Headers.Unwrap() {
		dst = appendField(dst, field)
	}

	return append(dst, '\r', '\n')
}
