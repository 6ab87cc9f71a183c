package headers

import (
	"github.com/indigo-web/iter"
	"github.com/indigo-web/utils/strcomp"
)

// Field is a single header field. Name keeps the casing it arrived with,
// lookups are case-insensitive. Value bytes are opaque: trimmed of optional
// whitespace, never UTF-8 validated.
type Field struct {
	Name, Value string
}

// Headers is an ordered collection of header fields. Insertion order is
// preserved and duplicate names are allowed, as both carry meaning on the
// wire (e.g. the last transfer-coding decides the framing).
type Headers struct {
	fields     []Field
	uniqueBuff []string
	valuesBuff []string
}

// NewPreAlloc returns an instance of Headers with pre-allocated underlying storage.
func NewPreAlloc(n int) *Headers {
	return &Headers{
		fields: make([]Field, 0, n),
	}
}

func New() *Headers {
	return NewPreAlloc(0)
}

// NewFromMap returns a new instance with already inserted values from given map.
// Note: as maps are unordered, the resulting order of fields is unspecified.
func NewFromMap(m map[string][]string) *Headers {
	h := NewPreAlloc(len(m))

	for name, values := range m {
		for _, value := range values {
			h.Add(name, value)
		}
	}

	return h
}

// Add adds a new field, preserving the order of insertion.
func (h *Headers) Add(name, value string) *Headers {
	h.fields = append(h.fields, Field{
		Name:  name,
		Value: value,
	})
	return h
}

// Value returns the first value corresponding to the name, or an empty string.
func (h *Headers) Value(name string) string {
	value, _ := h.Get(name)
	return value
}

// Get returns the first value corresponding to the name and a bool, indicating
// whether the name is present at all.
func (h *Headers) Get(name string) (string, bool) {
	for _, field := range h.fields {
		if strcomp.EqualFold(name, field.Name) {
			return field.Value, true
		}
	}

	return "", false
}

// Values returns all values by the name in their order of appearance. Returns
// nil if the name isn't present.
//
// WARNING: calling it twice will override values, returned by the first call.
// Consider copying the returned slice for safe use.
func (h *Headers) Values(name string) []string {
	h.valuesBuff = h.valuesBuff[:0]

	for _, field := range h.fields {
		if strcomp.EqualFold(field.Name, name) {
			h.valuesBuff = append(h.valuesBuff, field.Value)
		}
	}

	if len(h.valuesBuff) == 0 {
		return nil
	}

	return h.valuesBuff
}

// Keys returns all unique presented names.
//
// WARNING: calling it twice will override values, returned by the first call.
// Consider copying the returned slice for safe use.
func (h *Headers) Keys() []string {
	h.uniqueBuff = h.uniqueBuff[:0]

	for _, field := range h.fields {
		if contains(h.uniqueBuff, field.Name) {
			continue
		}

		h.uniqueBuff = append(h.uniqueBuff, field.Name)
	}

	return h.uniqueBuff
}

// Has indicates whether there's an entry of the name.
func (h *Headers) Has(name string) bool {
	_, found := h.Get(name)
	return found
}

// Len returns the number of stored fields, duplicates included.
func (h *Headers) Len() int {
	return len(h.fields)
}

// Iter returns an iterator over the fields.
func (h *Headers) Iter() iter.Iterator[Field] {
	return iter.Slice(h.fields)
}

// Unwrap reveals the underlying fields slice. Try to avoid the method if
// possible, as changing the signature may not affect a major version.
func (h *Headers) Unwrap() []Field {
	return h.fields
}

// Clear removes all the entries, keeping the allocated space.
func (h *Headers) Clear() {
	h.fields = h.fields[:0]
}

func contains(collection []string, name string) bool {
	for _, element := range collection {
		if strcomp.EqualFold(element, name) {
			return true
		}
	}

	return false
}
