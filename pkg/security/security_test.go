package security

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.NoError(t, h.Compare(hash, "correct horse"))
	assert.Error(t, h.Compare(hash, "wrong horse"))

	_, err = h.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestNewResetToken(t *testing.T) {
	a, b := NewResetToken(), NewResetToken()

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}

func TestEncryptor_RoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)
	enc, err := NewEncryptor(key)
	require.NoError(t, err)

	sealed, err := enc.EncryptString("ya29.refresh-token")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "refresh-token")

	plain, err := enc.DecryptString(sealed)
	require.NoError(t, err)
	assert.Equal(t, "ya29.refresh-token", plain)

	other, err := NewEncryptor(bytes.Repeat([]byte{8}, 32))
	require.NoError(t, err)
	_, err = other.DecryptString(sealed)
	assert.ErrorIs(t, err, ErrDecryption)
}

func TestEncryptor_BadKey(t *testing.T) {
	_, err := NewEncryptor([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKeySize)

	_, err = NewEncryptorFromHex("zz")
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}
