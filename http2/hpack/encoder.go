package hpack

import (
	xhpack "golang.org/x/net/http2/hpack"

	"github.com/indigo-web/wire/config"
	"github.com/indigo-web/wire/http/headers"
)

// Encoder compresses header blocks of one connection direction, mirroring
// the table the peer's decoder maintains.
type Encoder struct {
	table DynamicTable
	// pendingMax, when scheduled, is emitted as a dynamic table size update
	// at the start of the next header block, as RFC 7541 §4.2 requires.
	pendingMax uint32
	hasPending bool
}

func NewEncoder(cfg *config.Config) *Encoder {
	return &Encoder{
		table: DynamicTable{maxSize: cfg.HTTP2.HeaderTableSize},
	}
}

// SetMaxTableSize applies the peer-advertised SETTINGS_HEADER_TABLE_SIZE.
// The resize instruction reaches the wire with the next encoded block;
// shrinking below the current occupancy evicts oldest-first right there.
func (e *Encoder) SetMaxTableSize(n uint32) {
	e.pendingMax = n
	e.hasPending = true
}

// Encode appends the compressed representation of the fields to dst. Fields
// present in the table are emitted as indexed references; everything else
// goes out as a literal with incremental indexing and joins the table.
func (e *Encoder) Encode(dst []byte, hdrs *headers.Headers) []byte {
	if e.hasPending {
		dst = appendVarint(dst, 0x20, 5, e.pendingMax)
		e.table.SetMaxSize(e.pendingMax)
		e.hasPending = false
	}

	for _, field := range hdrs.Unwrap() {
		fullIdx, nameIdx := e.table.lookup(field)
		if fullIdx != 0 {
			dst = appendVarint(dst, 0x80, 7, fullIdx)
			continue
		}

		dst = appendVarint(dst, 0x40, 6, nameIdx)
		if nameIdx == 0 {
			dst = appendString(dst, field.Name)
		}

		dst = appendString(dst, field.Value)
		e.table.Add(field)
	}

	return dst
}

// appendString emits a §5.2 string literal, Huffman-coded when that actually
// saves bytes.
func appendString(dst []byte, s string) []byte {
	if huffLen := xhpack.HuffmanEncodeLength(s); huffLen < uint64(len(s)) {
		dst = appendVarint(dst, 0x80, 7, uint32(huffLen))
		return xhpack.AppendHuffmanString(dst, s)
	}

	dst = appendVarint(dst, 0, 7, uint32(len(s)))

	return append(dst, s...)
}
