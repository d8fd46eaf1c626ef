package service

import (
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	testRSAKeyOnce sync.Once
	testRSAKey     *rsa.PrivateKey
	testRSAKeyErr  error
)

// sharedRSAKey returns a 2048-bit key generated once per test binary.
// Tests must not destroy it; use freshRSAKey for that.
func sharedRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	testRSAKeyOnce.Do(func() {
		testRSAKey, testRSAKeyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	require.NoError(t, testRSAKeyErr)
	return testRSAKey
}

func freshRSAKey(t *testing.T, bits int) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, bits)
	require.NoError(t, err)
	return key
}
