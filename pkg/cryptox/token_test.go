package cryptox_test

import (
	"testing"

	"github.com/dramatize/streamgate/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("tokens are unique", func(t *testing.T) {
		a, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)
		b, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := cryptox.GenerateToken(0)
		require.Error(t, err)
		_, err = cryptox.GenerateToken(-1)
		require.Error(t, err)
	})
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	fp := cryptox.FingerprintToken("some.jwt.token")

	require.Equal(t, fp, cryptox.FingerprintToken("some.jwt.token"))
	require.NotEqual(t, fp, cryptox.FingerprintToken("some.jwt.other"))
	require.Len(t, fp, 43)
	require.NotContains(t, fp, "some")
}
