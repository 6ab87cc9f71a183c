package proto

import "strings"

// Upgrade is a protocol the client asked to switch to via the Upgrade header.
type Upgrade uint8

const (
	NoUpgrade Upgrade = iota
	UpgradeH2C
	UpgradeWebSocket
)

// ChooseUpgrade picks the first supported upgrade-token of the comma-separated
// list, as tokens are placed in an order of preference.
func ChooseUpgrade(line string) Upgrade {
	for len(line) > 0 {
		var token string
		token, line = cutbyte(line, ',')

		if u := parseUpgradeToken(strings.TrimSpace(token)); u != NoUpgrade {
			return u
		}
	}

	return NoUpgrade
}

func parseUpgradeToken(token string) Upgrade {
	switch token {
	case "websocket", "WebSocket", "Websocket":
		return UpgradeWebSocket
	case "h2c", "H2C":
		return UpgradeH2C
	}

	return NoUpgrade
}

func cutbyte(str string, sep byte) (prefix, postfix string) {
	for i := 0; i < len(str); i++ {
		if str[i] == sep {
			return str[:i], str[i+1:]
		}
	}

	return str, ""
}
