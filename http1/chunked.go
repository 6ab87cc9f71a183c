package http1

import (
	"io"

	"github.com/indigo-web/utils/buffer"
	"github.com/indigo-web/wire/config"
	"github.com/indigo-web/wire/http/headers"
	"github.com/indigo-web/wire/http/status"
)

type chunkedState uint8

const (
	eChunkSizeFirst chunkedState = iota + 1
	eChunkSize
	eChunkExt
	eChunkSizeLF
	eChunkData
	eChunkDataEnd
	eChunkDataLF
	eTrailerLine
)

// ChunkedReader is a streaming decoder for chunked transfer coding. It is
// owned exclusively by one message's read side and holds no I/O resources:
// the caller feeds whatever bytes arrived and suspension happens entirely
// outside of it.
type ChunkedReader struct {
	trailers    *headers.Headers
	trailerBuff *buffer.Buffer[byte]

	maxChunkSize int64
	maxLine      int

	chunkLength int64
	lineLength  int
	state       chunkedState
	done        bool
}

func NewChunkedReader(cfg *config.Config) *ChunkedReader {
	return &ChunkedReader{
		trailers:     headers.New(),
		trailerBuff:  buffer.NewBuffer[byte](0, cfg.Headers.MaxSpace),
		maxChunkSize: cfg.Body.MaxChunkSize,
		maxLine:      cfg.Headers.MaxLineLength,
		state:        eChunkSizeFirst,
	}
}

// Parse decodes the next portion of a chunked body. chunk carries decoded
// body bytes when any are ready, extra holds input that wasn't consumed and
// must be fed again. io.EOF signals the terminal chunk and trailers have
// been fully read; extra then belongs to the next message. The reader resets
// automatically afterwards, Trailers() stays valid until the next Parse.
//
// Any other error is terminal: chunk boundaries cannot be trusted anymore.
func (c *ChunkedReader) Parse(data []byte) (chunk, extra []byte, err error) {
	if c.done {
		c.reset()
	}

	for i := 0; i < len(data); i++ {
		switch c.state {
		case eChunkSizeFirst:
			if !isHex(data[i]) {
				return nil, nil, status.ErrBadChunk
			}

			c.chunkLength = int64(unHex(data[i]))
			c.lineLength = 1
			c.state = eChunkSize
		case eChunkSize:
			switch data[i] {
			case '\r':
				c.state = eChunkSizeLF
			case '\n':
				c.afterSizeLine()
			case ';':
				c.state = eChunkExt
			default:
				if !isHex(data[i]) {
					return nil, nil, status.ErrBadChunk
				}

				c.chunkLength = (c.chunkLength << 4) | int64(unHex(data[i]))
				if c.chunkLength > c.maxChunkSize {
					return nil, nil, status.ErrChunkTooLarge
				}

				if c.lineLength++; c.lineLength > c.maxLine {
					return nil, nil, status.ErrTooLongLine
				}
			}
		case eChunkExt:
			// extensions are parsed but carry no meaning for the framing
			switch data[i] {
			case '\r':
				c.state = eChunkSizeLF
			case '\n':
				c.afterSizeLine()
			default:
				if c.lineLength++; c.lineLength > c.maxLine {
					return nil, nil, status.ErrTooLongLine
				}
			}
		case eChunkSizeLF:
			if data[i] != '\n' {
				return nil, nil, status.ErrBadChunk
			}

			c.afterSizeLine()
		case eChunkData:
			available := int64(len(data) - i)
			if available < c.chunkLength {
				c.chunkLength -= available
				return data[i:], nil, nil
			}

			c.state = eChunkDataEnd
			edge := i + int(c.chunkLength)
			c.chunkLength = 0

			return data[i:edge], data[edge:], nil
		case eChunkDataEnd:
			switch data[i] {
			case '\r':
				c.state = eChunkDataLF
			case '\n':
				c.state = eChunkSizeFirst
			default:
				return nil, nil, status.ErrBadChunk
			}
		case eChunkDataLF:
			if data[i] != '\n' {
				return nil, nil, status.ErrBadChunk
			}

			c.state = eChunkSizeFirst
		case eTrailerLine:
			if data[i] != '\n' {
				if c.trailerBuff.SegmentLength() >= c.maxLine {
					return nil, nil, status.ErrTooLongLine
				}
				if !c.trailerBuff.Append(data[i : i+1]) {
					return nil, nil, status.ErrHeaderFieldsTooLarge
				}

				continue
			}

			line := c.trailerBuff.Finish()
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}

			if len(line) == 0 {
				c.done = true
				return nil, data[i+1:], io.EOF
			}

			field, err := ParseField(line)
			if err != nil {
				return nil, nil, err
			}

			c.trailers.Add(field.Name, field.Value)
		default:
			panic("BUG: http1/chunked: unexpected state")
		}
	}

	return nil, nil, nil
}

// Trailers returns the fields of the trailer section of the last fully
// decoded body. Empty unless Parse has reported io.EOF.
func (c *ChunkedReader) Trailers() *headers.Headers {
	return c.trailers
}

func (c *ChunkedReader) afterSizeLine() {
	if c.chunkLength == 0 {
		c.state = eTrailerLine
	} else {
		c.state = eChunkData
	}
}

func (c *ChunkedReader) reset() {
	c.trailers.Clear()
	c.trailerBuff.Clear()
	c.chunkLength = 0
	c.lineLength = 0
	c.state = eChunkSizeFirst
	c.done = false
}
