package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeHex(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"nul byte", "\u0000", "00"},
		{"single rune", "\u1f3d", "e1bcbd"},
		{"two runes", "\u1f3d\u1f5b", "e1bcbde1bd9b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, EncodeHex([]byte(tt.in)))
		})
	}
}

func TestConstantTimeEqual(t *testing.T) {
	require.True(t, ConstantTimeEqual("abc", "abc"))
	require.False(t, ConstantTimeEqual("abc", "abd"))
	require.False(t, ConstantTimeEqual("abc", "abcd"))
	require.True(t, ConstantTimeEqual("", ""))
}
