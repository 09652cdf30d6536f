package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminCode_HashAndVerify(t *testing.T) {
	t.Parallel()
	hash, err := HashAdminCode("s3cret")
	require.NoError(t, err)

	assert.True(t, VerifyAdminCode(hash, "s3cret"))
	assert.False(t, VerifyAdminCode(hash, "wrong"))
	assert.False(t, VerifyAdminCode(hash, ""))
}

func TestAdminCode_MalformedHash(t *testing.T) {
	t.Parallel()
	assert.False(t, VerifyAdminCode("not-an-argon2id-hash", "s3cret"))
	assert.False(t, VerifyAdminCode("", "s3cret"))
}
