package base64url_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hseal/pkg/base64url"
)

func TestEncode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"empty", []byte{}, ""},
		{"one byte", []byte("f"), "Zg"},
		{"two bytes", []byte("fo"), "Zm8"},
		{"three bytes", []byte("foo"), "Zm9v"},
		{"url-safe alphabet", []byte{0xfb, 0xff, 0xbf}, "-_-_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, base64url.Encode(tt.in))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	for n := range 64 {
		buf := make([]byte, n)
		_, err := rand.Read(buf)
		require.NoError(t, err)

		out, err := base64url.Decode(base64url.Encode(buf))
		require.NoError(t, err)
		assert.True(t, bytes.Equal(buf, out), "length %d", n)
	}
}

func TestDecode_Strict(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
	}{
		{"plus sign", "Zm+v"},
		{"slash", "Zm/v"},
		{"padding", "Zg=="},
		{"single padding", "Zm8="},
		{"whitespace", "Zm9 v"},
		{"newline", "Zm9v\n"},
		{"impossible length", "Z"},
		{"impossible length 5", "Zm9vY"},
		{"non-zero trailing bits", "Zh"},
		{"non-ascii", "Zm9vé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := base64url.Decode(tt.in)
			require.ErrorIs(t, err, base64url.ErrDecode)
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	t.Parallel()
	out, err := base64url.Decode("")
	require.NoError(t, err)
	assert.Empty(t, out)
}
