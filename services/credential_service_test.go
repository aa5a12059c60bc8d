package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialHashAndVerify(t *testing.T) {
	assert := assert.New(t)

	svc := NewCredentialService()

	digest, err := svc.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.True(strings.HasPrefix(digest, "$2"))

	assert.True(svc.Verify("correct horse battery staple", digest))
	assert.False(svc.Verify("wrong password", digest))
}

func TestCredentialLegacySha256(t *testing.T) {
	svc := NewCredentialService()

	// Pre-migration rows store the bare sha256 hex digest.
	legacy := sha256Hex([]byte("password123"))
	assert.True(t, svc.Verify("password123", legacy))
	assert.False(t, svc.Verify("password124", legacy))
}

func TestCredentialLegacyDoubleHash(t *testing.T) {
	svc := NewCredentialService()

	// Rows touched by the first migration were hashed a second time:
	// sha256 of the hex digest. They must still verify against the
	// original plaintext.
	double := sha256Hex([]byte(sha256Hex([]byte("password123"))))
	assert.True(t, svc.Verify("password123", double))
	assert.False(t, svc.Verify("password124", double))
}

func TestCredentialGarbageDigest(t *testing.T) {
	svc := NewCredentialService()

	assert.False(t, svc.Verify("password123", ""))
	assert.False(t, svc.Verify("password123", "not-a-digest"))
}
