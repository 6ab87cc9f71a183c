package hpack

import (
	xhpack "golang.org/x/net/http2/hpack"

	"github.com/indigo-web/wire/config"
	"github.com/indigo-web/wire/http/headers"
	"github.com/indigo-web/wire/http/status"
)

// Decoder decompresses header blocks of one connection direction. Request
// and response tables are independent: never share a Decoder between them.
type Decoder struct {
	table DynamicTable
	// sizeCap is our advertised SETTINGS_HEADER_TABLE_SIZE: the peer may
	// resize the table anywhere below it, never above.
	sizeCap uint32
	// maxList bounds the cumulative size of a decoded header list.
	maxList int
}

func NewDecoder(cfg *config.Config) *Decoder {
	return &Decoder{
		table:   DynamicTable{maxSize: cfg.HTTP2.HeaderTableSize},
		sizeCap: cfg.HTTP2.HeaderTableSize,
		maxList: cfg.Headers.MaxSpace,
	}
}

// Decode decompresses one complete header block (HEADERS plus any
// CONTINUATION payloads, reassembled by the caller). All errors are terminal
// for the connection, as required for stateful compression: a desynchronized
// table cannot be resynchronized.
func (d *Decoder) Decode(block []byte) (*headers.Headers, error) {
	hdrs := headers.New()
	listSize := 0
	blockStart := true

	for len(block) > 0 {
		var (
			field   headers.Field
			n       int
			err     error
			emitted = true
		)

		switch b0 := block[0]; {
		case b0&0x80 != 0:
			// indexed field
			var idx uint32
			idx, n, err = readVarint(block, 7)
			if err == nil {
				field, err = d.lookup(idx)
			}
		case b0&0xc0 == 0x40:
			// literal with incremental indexing
			field, n, err = d.readLiteral(block, 6)
			if err == nil {
				d.table.Add(field)
			}
		case b0&0xe0 == 0x20:
			// dynamic table size update, legal only before the first field
			// representation of a block (RFC 7541 §4.2)
			if !blockStart {
				return nil, status.ErrBadHeaderBlock
			}

			var size uint32
			size, n, err = readVarint(block, 5)
			if err == nil {
				if size > d.sizeCap {
					return nil, status.ErrBadHeaderBlock
				}

				d.table.SetMaxSize(size)
			}

			emitted = false
		default:
			// literal without indexing (0000) or never indexed (0001)
			field, n, err = d.readLiteral(block, 4)
		}

		if err != nil {
			return nil, err
		}

		block = block[n:]
		if !emitted {
			continue
		}

		blockStart = false

		if listSize += int(entrySize(field)); listSize > d.maxList {
			return nil, status.ErrHeaderFieldsTooLarge
		}

		hdrs.Add(field.Name, field.Value)
	}

	return hdrs, nil
}

// lookup resolves a wire index in the combined static+dynamic space. Index 0
// and anything past the current dynamic entry count is a protocol error.
func (d *Decoder) lookup(idx uint32) (headers.Field, error) {
	if idx == 0 {
		return headers.Field{}, status.ErrBadHeaderBlock
	}

	if idx <= uint32(staticTableLen) {
		return staticTable[idx], nil
	}

	field, ok := d.table.Get(int(idx) - staticTableLen - 1)
	if !ok {
		return headers.Field{}, status.ErrBadHeaderBlock
	}

	return field, nil
}

func (d *Decoder) readLiteral(block []byte, nbits uint8) (field headers.Field, n int, err error) {
	idx, n, err := readVarint(block, nbits)
	if err != nil {
		return field, 0, err
	}

	if idx == 0 {
		var name string
		name, m, err := readString(block[n:])
		if err != nil {
			return field, 0, err
		}

		field.Name = name
		n += m
	} else {
		ref, err := d.lookup(idx)
		if err != nil {
			return field, 0, err
		}

		field.Name = ref.Name
	}

	value, m, err := readString(block[n:])
	if err != nil {
		return field, 0, err
	}

	field.Value = value

	return field, n + m, nil
}

// readString decodes a §5.2 string literal. The H bit selects Huffman
// coding, handled by the x/net tables.
func readString(b []byte) (s string, n int, err error) {
	if len(b) == 0 {
		return "", 0, status.ErrBadHeaderBlock
	}

	huffman := b[0]&0x80 != 0
	length, n, err := readVarint(b, 7)
	if err != nil {
		return "", 0, err
	}

	if uint32(len(b)-n) < length {
		return "", 0, status.ErrBadHeaderBlock
	}

	raw := b[n : n+int(length)]
	n += int(length)

	if huffman {
		s, err = xhpack.HuffmanDecodeToString(raw)
		if err != nil {
			return "", 0, status.ErrBadHeaderBlock
		}

		return s, n, nil
	}

	return string(raw), n, nil
}
