package hpack

import "github.com/indigo-web/wire/http/headers"

// entryOverhead is the RFC 7541 §4.1 per-entry accounting overhead: an
// entry occupies len(name)+len(value)+32 bytes of the table bound.
const entryOverhead = 32

// staticTable holds the 61 predefined fields of RFC 7541 Appendix A.
// Index 0 is never addressable on the wire.
var staticTable = [...]headers.Field{
	1:  {Name: ":authority"},
	2:  {Name: ":method", Value: "GET"},
	3:  {Name: ":method", Value: "POST"},
	4:  {Name: ":path", Value: "/"},
	5:  {Name: ":path", Value: "/index.html"},
	6:  {Name: ":scheme", Value: "http"},
	7:  {Name: ":scheme", Value: "https"},
	8:  {Name: ":status", Value: "200"},
	9:  {Name: ":status", Value: "204"},
	10: {Name: ":status", Value: "206"},
	11: {Name: ":status", Value: "304"},
	12: {Name: ":status", Value: "400"},
	13: {Name: ":status", Value: "404"},
	14: {Name: ":status", Value: "500"},
	15: {Name: "accept-charset"},
	16: {Name: "accept-encoding", Value: "gzip, deflate"},
	17: {Name: "accept-language"},
	18: {Name: "accept-ranges"},
	19: {Name: "accept"},
	20: {Name: "access-control-allow-origin"},
	21: {Name: "age"},
	22: {Name: "allow"},
	23: {Name: "authorization"},
	24: {Name: "cache-control"},
	25: {Name: "content-disposition"},
	26: {Name: "content-encoding"},
	27: {Name: "content-language"},
	28: {Name: "content-length"},
	29: {Name: "content-location"},
	30: {Name: "content-range"},
	31: {Name: "content-type"},
	32: {Name: "cookie"},
	33: {Name: "date"},
	34: {Name: "etag"},
	35: {Name: "expect"},
	36: {Name: "expires"},
	37: {Name: "from"},
	38: {Name: "host"},
	39: {Name: "if-match"},
	40: {Name: "if-modified-since"},
	41: {Name: "if-none-match"},
	42: {Name: "if-range"},
	43: {Name: "if-unmodified-since"},
	44: {Name: "last-modified"},
	45: {Name: "link"},
	46: {Name: "location"},
	47: {Name: "max-forwards"},
	48: {Name: "proxy-authenticate"},
	49: {Name: "proxy-authorization"},
	50: {Name: "range"},
	51: {Name: "referer"},
	52: {Name: "refresh"},
	53: {Name: "retry-after"},
	54: {Name: "server"},
	55: {Name: "set-cookie"},
	56: {Name: "strict-transport-security"},
	57: {Name: "transfer-encoding"},
	58: {Name: "user-agent"},
	59: {Name: "vary"},
	60: {Name: "via"},
	61: {Name: "www-authenticate"},
}

// staticTableLen is the count of addressable static entries. Dynamic entries
// follow them in the combined index space, newest first.
const staticTableLen = len(staticTable) - 1

// DynamicTable is the mutable half of the HPACK index space. It lives for
// the duration of one connection direction and is owned by exactly one
// decoder or encoder; no synchronization is needed by construction.
type DynamicTable struct {
	// entries holds the oldest field first; the wire index counts from the
	// newest, which is the last element.
	entries []headers.Field
	size    uint32
	maxSize uint32
}

func entrySize(f headers.Field) uint32 {
	return uint32(len(f.Name)+len(f.Value)) + entryOverhead
}

// Len is the number of live entries.
func (t *DynamicTable) Len() int {
	return len(t.entries)
}

// Size is the occupied size in bound bytes, overhead included.
func (t *DynamicTable) Size() uint32 {
	return t.size
}

// Get addresses an entry by its 0-based distance from the newest one.
func (t *DynamicTable) Get(i int) (headers.Field, bool) {
	if i < 0 || i >= len(t.entries) {
		return headers.Field{}, false
	}

	return t.entries[len(t.entries)-1-i], true
}

// Add inserts a field, evicting oldest entries until it fits. An entry
// larger than the whole bound empties the table and is itself not stored;
// per RFC 7541 §4.4 that is a valid outcome, not an error. Reports whether
// the entry was actually stored.
func (t *DynamicTable) Add(f headers.Field) bool {
	want := entrySize(f)
	if want > t.maxSize {
		t.entries = t.entries[:0]
		t.size = 0

		return false
	}

	for t.size+want > t.maxSize {
		t.evictOldest()
	}

	t.entries = append(t.entries, f)
	t.size += want

	return true
}

// SetMaxSize changes the table bound. Shrinking below the current occupancy
// evicts from the oldest entry forward until it fits.
func (t *DynamicTable) SetMaxSize(n uint32) {
	t.maxSize = n

	for t.size > t.maxSize {
		t.evictOldest()
	}
}

// lookup finds a full match in the combined index space, returning the wire
// index, or the index of a name-only match, or zeroes.
func (t *DynamicTable) lookup(f headers.Field) (fullIdx, nameIdx uint32) {
	for i := 1; i <= staticTableLen; i++ {
		if staticTable[i].Name != f.Name {
			continue
		}

		if nameIdx == 0 {
			nameIdx = uint32(i)
		}
		if staticTable[i].Value == f.Value {
			return uint32(i), nameIdx
		}
	}

	for i := 0; i < len(t.entries); i++ {
		entry := t.entries[len(t.entries)-1-i]
		if entry.Name != f.Name {
			continue
		}

		idx := uint32(staticTableLen + 1 + i)
		if nameIdx == 0 {
			nameIdx = idx
		}
		if entry.Value == f.Value {
			return idx, nameIdx
		}
	}

	return 0, nameIdx
}

func (t *DynamicTable) evictOldest() {
	if len(t.entries) == 0 {
		panic("BUG: hpack: no entries to evict")
	}

	t.size -= entrySize(t.entries[0])
	copy(t.entries, t.entries[1:])
	t.entries = t.entries[:len(t.entries)-1]
}
