package cryptox_test

import (
	"regexp"
	"testing"

	"github.com/aussiebroadwan/crumb/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]+$`)

func TestFingerprinter_Enabled(t *testing.T) {
	t.Parallel()
	f := cryptox.Fingerprinter{Enabled: true}

	t.Run("generate yields 100 hex chars", func(t *testing.T) {
		fp, err := f.Generate()
		require.NoError(t, err)
		require.Len(t, fp, 100)
		require.Regexp(t, hexPattern, fp)
	})

	t.Run("generate is unique", func(t *testing.T) {
		seen := make(map[string]struct{}, 50)
		for range 50 {
			fp, err := f.Generate()
			require.NoError(t, err)
			require.NotContains(t, seen, fp)
			seen[fp] = struct{}{}
		}
	})

	t.Run("hash yields 64 hex chars and is deterministic", func(t *testing.T) {
		fp, err := f.Generate()
		require.NoError(t, err)

		h1, err := f.Hash(fp)
		require.NoError(t, err)
		h2, err := f.Hash(fp)
		require.NoError(t, err)

		require.Len(t, h1, 64)
		require.Regexp(t, hexPattern, h1)
		require.Equal(t, h1, h2)
	})

	t.Run("different inputs hash differently", func(t *testing.T) {
		a, err := f.Hash("fingerprint-a")
		require.NoError(t, err)
		b, err := f.Hash("fingerprint-b")
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("known SHA3-256 vector", func(t *testing.T) {
		h, err := f.Hash("abc")
		require.NoError(t, err)
		require.Equal(t, "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532", h)
	})

	t.Run("blank input is an invalid argument", func(t *testing.T) {
		for _, in := range []string{"", " ", "\t\n"} {
			h, err := f.Hash(in)
			require.ErrorIs(t, err, cryptox.ErrBlankFingerprint)
			require.Empty(t, h)
		}
	})
}

func TestFingerprinter_Disabled(t *testing.T) {
	t.Parallel()
	f := cryptox.Fingerprinter{}

	fp, err := f.Generate()
	require.NoError(t, err)
	require.Empty(t, fp)

	h, err := f.Hash("anything")
	require.NoError(t, err)
	require.Empty(t, h)

	// Disabled binding never reports the blank-input precondition.
	h, err = f.Hash("")
	require.NoError(t, err)
	require.Empty(t, h)
}
