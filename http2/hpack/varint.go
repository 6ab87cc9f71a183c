package hpack

import "github.com/indigo-web/wire/http/status"

// varintMax caps decoded integers. RFC 7541 puts no bound of its own, but
// anything above what a frame can reference is hostile input.
const varintMax = 1<<28 - 1

// readVarint decodes an RFC 7541 §5.1 integer whose prefix occupies the low
// nbits of the first byte.
func readVarint(b []byte, nbits uint8) (value uint32, n int, err error) {
	if len(b) == 0 {
		return 0, 0, status.ErrBadHeaderBlock
	}

	k := uint32(1)<<nbits - 1
	value = uint32(b[0]) & k
	if value < k {
		return value, 1, nil
	}

	// accumulate in 64 bits so that a hostile continuation sequence cannot
	// wrap the shift around and sneak back under the cap
	wide := uint64(value)

	n = 1
	for m := 0; n < len(b); m += 7 {
		if m > 28 {
			break
		}

		octet := b[n]
		n++

		wide += uint64(octet&0x7f) << m
		if wide > varintMax {
			break
		}
		if octet < 0x80 {
			return uint32(wide), n, nil
		}
	}

	return 0, 0, status.ErrBadHeaderBlock
}

// appendVarint encodes value with the given prefix width, merging the
// representation pattern bits into the first octet.
func appendVarint(dst []byte, pattern byte, nbits uint8, value uint32) []byte {
	k := uint32(1)<<nbits - 1
	if value < k {
		return append(dst, pattern|byte(value))
	}

	dst = append(dst, pattern|byte(k))
	for value -= k; value >= 0x80; value /= 0x80 {
		dst = append(dst, byte(value)|0x80)
	}

	return append(dst, byte(value))
}
