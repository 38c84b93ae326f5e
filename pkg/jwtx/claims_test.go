package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/crumb/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "crumb"},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("crumb"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		require.ErrorIs(t, c.ValidateIssuer("someone-else"), jwtx.ErrIssuer)
	})
}

func TestValidateExpiry(t *testing.T) {
	exp := time.Unix(1_700_000_000, 0).UTC()
	claims := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	}

	t.Run("before exp", func(t *testing.T) {
		require.NoError(t, claims.ValidateExpiry(exp.Add(-time.Minute)))
	})

	t.Run("exactly at exp", func(t *testing.T) {
		require.NoError(t, claims.ValidateExpiry(exp))
	})

	t.Run("sub-second past exp is still the exp second", func(t *testing.T) {
		require.NoError(t, claims.ValidateExpiry(exp.Add(999*time.Millisecond)))
	})

	t.Run("one second past exp", func(t *testing.T) {
		require.ErrorIs(t, claims.ValidateExpiry(exp.Add(time.Second)), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(exp),
				NotBefore: jwt.NewNumericDate(exp.Add(-time.Second)),
			},
		}
		require.ErrorIs(t, c.ValidateExpiry(exp.Add(-time.Minute)), jwtx.ErrNotYetValid)
	})

	t.Run("missing exp", func(t *testing.T) {
		require.ErrorIs(t, (&jwtx.Claims{}).ValidateExpiry(exp), jwtx.ErrInvalidClaim)
	})
}

func TestValidateType(t *testing.T) {
	require.NoError(t, (&jwtx.Claims{TokenType: jwtx.Access}).ValidateType())
	require.NoError(t, (&jwtx.Claims{TokenType: jwtx.Refresh}).ValidateType())
	require.ErrorIs(t, (&jwtx.Claims{}).ValidateType(), jwtx.ErrInvalidClaim)
}

func TestTokenTypeText(t *testing.T) {
	for _, typ := range []jwtx.TokenType{jwtx.Access, jwtx.Refresh} {
		b, err := typ.MarshalText()
		require.NoError(t, err)

		var back jwtx.TokenType
		require.NoError(t, back.UnmarshalText(b))
		require.Equal(t, typ, back)
	}

	require.Equal(t, "ACCESS", jwtx.Access.String())
	require.Equal(t, "REFRESH", jwtx.Refresh.String())

	var typ jwtx.TokenType
	require.ErrorIs(t, typ.UnmarshalText([]byte("access")), jwtx.ErrUnknownTokenType)

	_, err := jwtx.TokenType(0).MarshalText()
	require.ErrorIs(t, err, jwtx.ErrUnknownTokenType)
}
