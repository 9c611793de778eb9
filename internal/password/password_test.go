package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := Hash("secret123")
	assert.NoError(t, err)
	assert.NotEmpty(t, digest)
	assert.NotEqual(t, "secret123", digest)

	assert.True(t, Verify("secret123", digest))
	assert.False(t, Verify("wrongpass", digest))
}

func TestHash_Salted(t *testing.T) {
	d1, err := Hash("secret123")
	assert.NoError(t, err)
	d2, err := Hash("secret123")
	assert.NoError(t, err)

	// Salted hashing yields distinct digests that both verify
	assert.NotEqual(t, d1, d2)
	assert.True(t, Verify("secret123", d1))
	assert.True(t, Verify("secret123", d2))
}

func TestVerify_MalformedDigest(t *testing.T) {
	assert.False(t, Verify("secret123", "not-a-bcrypt-digest"))
	assert.False(t, Verify("secret123", ""))
}
