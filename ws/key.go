package ws

import (
	"crypto/sha1"
	"encoding/base64"

	"github.com/dchest/uniuri"
)

// keyGUID is the fixed GUID of RFC 6455 §4.2.2 appended to the client key
// before digesting.
const keyGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// keyAlphabet spans all 256 byte values, so every generated key position is
// a uniformly random byte rather than an alphanumeric character.
var keyAlphabet = func() []byte {
	chars := make([]byte, 256)
	for i := range chars {
		chars[i] = byte(i)
	}

	return chars
}()

// SecKey generates a Sec-WebSocket-Key value: 16 random bytes, base64.
func SecKey() string {
	return base64.StdEncoding.EncodeToString([]byte(uniuri.NewLenChars(16, keyAlphabet)))
}

// AcceptKey computes the Sec-WebSocket-Accept value of the handshake
// response for the client-supplied key.
func AcceptKey(secKey string) string {
	digest := sha1.Sum([]byte(secKey + keyGUID))

	return base64.StdEncoding.EncodeToString(digest[:])
}
