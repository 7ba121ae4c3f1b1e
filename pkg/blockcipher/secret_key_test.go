package blockcipher_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/sectorc/pkg/blockcipher"
)

func TestSecretKeyCopiesInput(t *testing.T) {
	t.Parallel()

	raw := []byte("0123456789abcdef")
	key := blockcipher.NewSecretKey(raw)

	raw[0] = 'X'

	block, err := blockcipher.NewKeyed(blockcipher.AES, key)
	require.NoError(t, err)

	want, err := blockcipher.NewKeyed(blockcipher.AES, blockcipher.NewSecretKey([]byte("0123456789abcdef")))
	require.NoError(t, err)

	a := make([]byte, blockcipher.BlockSize)
	b := make([]byte, blockcipher.BlockSize)

	block.EncryptBlock(a, a)
	want.EncryptBlock(b, b)
	assert.Equal(t, b, a, "mutating the caller's slice must not change the key")
}

func TestSecretKeyFromParts(t *testing.T) {
	t.Parallel()

	fromWords := blockcipher.SecretKeyFromWords(0x00010203, 0x04050607, 0x08090a0b, 0x0c0d0e0f)
	fromLongs := blockcipher.SecretKeyFromUint64s(0x0001020304050607, 0x08090a0b0c0d0e0f)
	fromBytes := blockcipher.NewSecretKey([]byte{
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	})

	assert.Equal(t, 16, fromWords.Len())
	assert.Equal(t, 16, fromLongs.Len())

	out := func(key *blockcipher.SecretKey) []byte {
		block, err := blockcipher.NewKeyed(blockcipher.AES, key)
		require.NoError(t, err)

		buf := make([]byte, blockcipher.BlockSize)
		block.EncryptBlock(buf, buf)

		return buf
	}

	want := out(fromBytes)
	assert.Equal(t, want, out(fromWords))
	assert.Equal(t, want, out(fromLongs))
}

func TestSecretKeyNeverPrinted(t *testing.T) {
	t.Parallel()

	key := blockcipher.NewSecretKey([]byte("super-secret-key"))

	for _, verb := range []string{"%v", "%+v", "%#v", "%s", "%x", "%q"} {
		printed := fmt.Sprintf(verb, key)
		assert.NotContains(t, printed, "super-secret-key", verb)
		assert.NotContains(t, printed, "73757065722d", verb)
	}

	_, err := json.Marshal(struct{ Key *blockcipher.SecretKey }{key})
	require.ErrorIs(t, err, blockcipher.ErrKeyNotSerializable)

	_, err = key.MarshalText()
	require.ErrorIs(t, err, blockcipher.ErrKeyNotSerializable)
}

func TestSecretKeyReset(t *testing.T) {
	t.Parallel()

	key := blockcipher.NewSecretKey([]byte("0123456789abcdef"))
	require.False(t, key.IsReset())

	key.Reset()

	assert.True(t, key.IsReset())
	assert.Equal(t, 16, key.Len())

	_, err := blockcipher.NewKeyed(blockcipher.AES, key)
	require.ErrorIs(t, err, blockcipher.ErrKeyReset)

	var nilKey *blockcipher.SecretKey
	assert.NotPanics(t, nilKey.Reset)
}
