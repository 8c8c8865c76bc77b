package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestAESGCMEncryptionDecryption(t *testing.T) {
	key := testKey()
	ciphertext, err := Encrypt(key, "123-45-6789")
	require.NoError(t, err)
	assert.NotContains(t, ciphertext, "123-45-6789")

	decrypted, err := Decrypt(key, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "123-45-6789", decrypted)
}

func TestAESGCMNonceIsRandom(t *testing.T) {
	key := testKey()
	a, err := Encrypt(key, "same")
	require.NoError(t, err)
	b, err := Encrypt(key, "same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestAESGCMInvalidKey(t *testing.T) {
	_, err := Encrypt([]byte("not-32-bytes"), "some text")
	assert.Error(t, err)

	_, err = Decrypt([]byte("not-32-bytes"), "some ciphertext")
	assert.Error(t, err)
}

func TestAESGCMTamperedCiphertext(t *testing.T) {
	key := testKey()
	ciphertext, err := Encrypt(key, "secret")
	require.NoError(t, err)

	raw := []byte(ciphertext)
	// flip a character well inside the payload
	if raw[20] == 'A' {
		raw[20] = 'B'
	} else {
		raw[20] = 'A'
	}
	_, err = Decrypt(key, string(raw))
	assert.Error(t, err)
}

func TestOptionalHelpers(t *testing.T) {
	key := testKey()

	out, err := EncryptOptional(key, nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	enc, err := EncryptOptional(key, StrPtr("DL-998877"))
	require.NoError(t, err)
	require.NotNil(t, enc)
	assert.Equal(t, "DL-998877", *DecryptOptional(key, enc))

	// plaintext that was never encrypted is passed through
	assert.Equal(t, "legacy", *DecryptOptional(key, StrPtr("legacy")))
}

func TestMask(t *testing.T) {
	assert.Nil(t, Mask(nil))
	assert.Equal(t, "****", *Mask(StrPtr("123")))
	assert.Equal(t, "****6789", *Mask(StrPtr("123456789")))
}
