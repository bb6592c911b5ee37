package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/cmp-zk/pkg/paillier"
)

func TestGenerateVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.cbor")

	err := newApp().Run([]string{"rpgen", "generate", "--mode", "normal", "--workers", "2", "-o", path})
	require.NoError(t, err)

	require.NoError(t, newApp().Run([]string{"rpgen", "verify", path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var b bundle
	require.NoError(t, cbor.Unmarshal(data, &b))
	assert.Equal(t, paillier.NormalPrimes.String(), b.Mode)

	fp, err := b.fingerprint()
	require.NoError(t, err)
	assert.Len(t, fp, 16)

	// swapping the two prm proofs must fail
	b.Prm[0], b.Prm[1] = b.Prm[1], b.Prm[0]
	assert.False(t, b.verify(nil))

	tampered, err := cbor.Marshal(b)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, tampered, 0o600))
	assert.ErrorIs(t, verify(path), errInvalidBundle)
}

func TestVerifyMissingFile(t *testing.T) {
	assert.Error(t, verify(filepath.Join(t.TempDir(), "missing")))
}

func TestBundleWithoutParams(t *testing.T) {
	assert.False(t, (&bundle{}).verify(nil))
}
