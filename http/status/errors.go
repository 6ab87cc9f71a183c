package status

// Kind classifies codec failures. Every error produced by this module wraps
// exactly one Kind, so callers can dispatch on the class of failure without
// matching sentinel values one by one.
type Kind uint8

const (
	// KindEmptyStream: the stream ended before a single byte of a new message arrived.
	KindEmptyStream Kind = iota + 1
	// KindEndOfStream: the stream ended in the middle of a message.
	KindEndOfStream
	// KindTooLong: a configured length or size bound was exceeded.
	KindTooLong
	// KindParse: the input violates the protocol grammar.
	KindParse
	// KindAmbiguousFraming: conflicting body-length signals (smuggling defense).
	KindAmbiguousFraming
	// KindInvalidCloseCode: a WebSocket close code outside [1000, 4999].
	KindInvalidCloseCode
	// KindReasonTooLong: a WebSocket close reason above 123 bytes of UTF-8.
	KindReasonTooLong
)

type Error struct {
	Message string
	Kind    Kind
}

func NewError(kind Kind, message string) error {
	return Error{
		Kind:    kind,
		Message: message,
	}
}

func (e Error) Error() string {
	return e.Message
}

// KindOf reports the Kind of an error produced by this module, or 0 for
// foreign errors.
func KindOf(err error) Kind {
	if e, ok := err.(Error); ok {
		return e.Kind
	}

	return 0
}

var (
	ErrEmptyStream = NewError(KindEmptyStream, "stream closed before a message started")
	ErrEndOfStream = NewError(KindEndOfStream, "stream closed in the middle of a message")

	ErrTooLongLine          = NewError(KindTooLong, "line exceeds the limit")
	ErrHeaderFieldsTooLarge = NewError(KindTooLong, "too large headers section")
	ErrChunkTooLarge        = NewError(KindTooLong, "chunk size exceeds the limit")
	ErrFrameTooLarge        = NewError(KindTooLong, "frame length exceeds the limit")

	ErrBadRequestLine      = NewError(KindParse, "malformed request line")
	ErrBadStatusLine       = NewError(KindParse, "malformed status line")
	ErrBadHeaderLine       = NewError(KindParse, "malformed header line")
	ErrUnsupportedProtocol = NewError(KindParse, "protocol is not supported")
	ErrBadChunk            = NewError(KindParse, "malformed chunk-encoded data")
	ErrBadContentLength    = NewError(KindParse, "malformed content-length value")
	ErrBadEncoding         = NewError(KindParse, "bad message encoding")
	ErrBadFrame            = NewError(KindParse, "malformed frame")
	ErrBadHeaderBlock      = NewError(KindParse, "malformed header block")

	ErrAmbiguousFraming = NewError(KindAmbiguousFraming, "conflicting body length signals")

	ErrInvalidCloseCode = NewError(KindInvalidCloseCode, "close code out of the [1000, 4999] range")
	ErrReasonTooLong    = NewError(KindReasonTooLong, "close reason exceeds 123 bytes")
)
