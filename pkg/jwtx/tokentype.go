package jwtx

import "fmt"

// TokenType distinguishes access tokens from refresh tokens. The zero value
// is not a valid type.
type TokenType uint8

const (
	Access TokenType = iota + 1
	Refresh
)

// String returns the wire form carried in the "tokenType" claim.
func (t TokenType) String() string {
	switch t {
	case Access:
		return "ACCESS"
	case Refresh:
		return "REFRESH"
	default:
		return fmt.Sprintf("TokenType(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the declared token types.
func (t TokenType) Valid() bool {
	switch t {
	case Access, Refresh:
		return true
	default:
		return false
	}
}

func (t TokenType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTokenType, uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *TokenType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "ACCESS":
		*t = Access
	case "REFRESH":
		*t = Refresh
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTokenType, b)
	}
	return nil
}
