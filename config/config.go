package config

type (
	Headers struct {
		// MaxLineLength limits a single start-line or field-line, in bytes,
		// excluding the line terminator.
		MaxLineLength int
		// MaxSpace limits the cumulative size of a header section (or chunked
		// trailer section), in bytes. Exceeding it is not recoverable: the
		// parser position cannot be trusted anymore, so the connection must
		// be closed.
		MaxSpace int
		// PreAlloc is the number of fields the headers storage is sized for
		// upfront.
		PreAlloc int
	}

	Body struct {
		// MaxChunkSize limits the declared size of a single chunk in chunked
		// transfer encoding.
		MaxChunkSize int64
	}

	HTTP2 struct {
		// MaxFrameSize limits the 24-bit payload length of a single frame.
		// Defaults to the RFC 7540 initial value of 16384; anything between
		// 16384 and 16777215 is legal.
		MaxFrameSize uint32
		// HeaderTableSize bounds the HPACK dynamic table, in bytes, entry
		// overhead included. Advertised to the peer via SETTINGS.
		HeaderTableSize uint32
	}
)

// Config holds plain numeric limits consumed by the codecs. The codecs never
// read anything else from the environment.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to
// initialize the config manually, as zero limits reject everything.
type Config struct {
	Headers Headers
	Body    Body
	HTTP2   HTTP2
}

// Default returns a well-balanced default config. The maximal values are
// fairly permitting.
func Default() *Config {
	return &Config{
		Headers: Headers{
			MaxLineLength: 8 * 1024,
			// there might be extremely long cookies, but 64kb of headers is
			// already a hostile message
			MaxSpace: 64 * 1024,
			PreAlloc: 10,
		},
		Body: Body{
			MaxChunkSize: 16 * 1024 * 1024,
		},
		HTTP2: HTTP2{
			MaxFrameSize:    16384,
			HeaderTableSize: 4096,
		},
	}
}
