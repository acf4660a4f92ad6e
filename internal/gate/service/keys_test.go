package service_test

import (
	"crypto/sha256"
	"testing"

	"github.com/dramatize/streamgate/internal/gate/service"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	t.Parallel()

	svc := &service.KeyService{Secret: "enc-secret"}

	key := svc.DeriveKey("ep1")
	require.Len(t, key, 16)

	// Deterministic: same inputs, same key, across calls and instances.
	require.Equal(t, key, svc.DeriveKey("ep1"))
	require.Equal(t, key, (&service.KeyService{Secret: "enc-secret"}).DeriveKey("ep1"))

	// Different video, different key.
	require.NotEqual(t, key, svc.DeriveKey("ep2"))

	// Pinned derivation formula.
	want := sha256.Sum256([]byte("enc-secret:ep1"))
	require.Equal(t, want[:16], key)
}
