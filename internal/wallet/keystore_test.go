package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// ---------------------------------------------------------------------------
// normaliseHexKey
// ---------------------------------------------------------------------------

func TestNormaliseHexKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0xabc123", "abc123"},
		{"0Xabc123", "abc123"},
		{"abc123", "abc123"},
		{"  0xabc  ", "abc"},
		{"0x", ""},
		{"", ""},
		{"0x" + testKey, testKey},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normaliseHexKey(tt.in), tt.in)
	}
}

// ---------------------------------------------------------------------------
// Keystore
// ---------------------------------------------------------------------------

func TestKeystoreRetrieveEnvVarOverride(t *testing.T) {
	t.Setenv(KeyEnvVar, "0x"+testKey)

	ks := &Keystore{}
	got, err := ks.Retrieve("mintgate.any-ref")
	require.NoError(t, err)
	assert.Equal(t, testKey, got)
}

func TestKeystoreNilRing(t *testing.T) {
	t.Setenv(KeyEnvVar, "")
	ks := &Keystore{}

	_, err := ks.Retrieve("mintgate.ghost")
	assert.Error(t, err)
	_, err = ks.Store("ghost", testKey)
	assert.Error(t, err)
	assert.NoError(t, ks.Delete("mintgate.ghost"))
}

func TestFileKeystoreRoundTrip(t *testing.T) {
	t.Setenv(KeyEnvVar, "")
	dir := t.TempDir()

	ks, err := NewFileKeystore(dir, "hunter2")
	require.NoError(t, err)

	ref, err := ks.Store("deployer", "0x"+testKey)
	require.NoError(t, err)
	assert.Equal(t, "mintgate.deployer", ref)

	// A second handle on the same directory sees the key.
	reopened, err := NewFileKeystore(dir, "hunter2")
	require.NoError(t, err)
	got, err := reopened.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, testKey, got)

	require.NoError(t, ks.Delete(ref))
	_, err = ks.Retrieve(ref)
	assert.Error(t, err)

	assert.NoError(t, ks.Delete(ref), "deleting a missing key is not an error")
}

func TestFileKeystoreWrongPassword(t *testing.T) {
	t.Setenv(KeyEnvVar, "")
	dir := t.TempDir()

	ks, err := NewFileKeystore(dir, "right")
	require.NoError(t, err)
	ref, err := ks.Store("deployer", testKey)
	require.NoError(t, err)

	wrong, err := NewFileKeystore(dir, "wrong")
	require.NoError(t, err)
	_, err = wrong.Retrieve(ref)
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// InMemoryKeystore
// ---------------------------------------------------------------------------

func TestInMemoryKeystore(t *testing.T) {
	ks := NewInMemoryKeystore()

	ref, err := ks.Store("w", "0x"+testKey)
	require.NoError(t, err)

	got, err := ks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, testKey, got)

	require.NoError(t, ks.Delete(ref))
	_, err = ks.Retrieve(ref)
	assert.Error(t, err)
}
