package http1

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/indigo-web/wire/http/headers"
	"github.com/indigo-web/wire/http/status"
)

func TestIsToken(t *testing.T) {
	for _, token := range []string{"GET", "content-length", "X-Custom-1", "!#$%&'*+-.^_`|~"} {
		require.True(t, IsToken(token), token)
	}

	for _, notToken := range []string{"", "sp ace", "quo\"te", "semi;colon", "br{ace}", "Ctrl\x00", "ю"} {
		require.False(t, IsToken(notToken), notToken)
	}
}

func TestParseField(t *testing.T) {
	t.Run("well-formed lines", func(t *testing.T) {
		for i, tc := range []struct {
			line string
			want headers.Field
		}{
			{"Host: example.com", headers.Field{Name: "Host", Value: "example.com"}},
			{"Host:example.com", headers.Field{Name: "Host", Value: "example.com"}},
			{"Host:  \t example.com \t ", headers.Field{Name: "Host", Value: "example.com"}},
			{"Empty:", headers.Field{Name: "Empty"}},
			{"Referer: http://a/b?c=d", headers.Field{Name: "Referer", Value: "http://a/b?c=d"}},
			{"Cookie: a=1; b=2", headers.Field{Name: "Cookie", Value: "a=1; b=2"}},
		} {
			field, err := ParseField([]byte(tc.line))
			require.NoError(t, err, i)
			require.Equal(t, tc.want, field, i)
		}
	})

	t.Run("malformed lines", func(t *testing.T) {
		for i, line := range []string{
			"",
			"no-colon",
			": no-name",
			" Folded: value",
			"\tFolded: value",
			"Sp ace: value",
			"Name\x7f: value",
		} {
			_, err := ParseField([]byte(line))
			require.ErrorIs(t, err, status.ErrBadHeaderLine, i)
		}
	})

	t.Run("no aliasing", func(t *testing.T) {
		line := []byte("Host: example.com")
		field, err := ParseField(line)
		require.NoError(t, err)

		for i := range line {
			line[i] = '#'
		}

		require.Equal(t, headers.Field{Name: "Host", Value: "example.com"}, field)
	})
}
