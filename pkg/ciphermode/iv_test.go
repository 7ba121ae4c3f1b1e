package ciphermode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/sectorc/pkg/blockcipher"
	"github.com/idelchi/sectorc/pkg/ciphermode"
)

func TestDeriveIVDeterministic(t *testing.T) {
	t.Parallel()

	key := randomBytes(t, 32)
	iv := randomIV(t)

	first, err := blockcipher.NewKeyed(blockcipher.Twofish, blockcipher.NewSecretKey(key))
	require.NoError(t, err)

	second, err := blockcipher.NewKeyed(blockcipher.Twofish, blockcipher.NewSecretKey(key))
	require.NoError(t, err)

	a := ciphermode.DeriveIV(iv, 42, first)
	b := ciphermode.DeriveIV(iv, 42, second)
	assert.Equal(t, a, b)

	next := ciphermode.DeriveIV(iv, 43, first)
	assert.NotEqual(t, a, next)

	// No simple XOR relation survives the tweak cipher.
	var diff int

	for i := range a {
		if a[i] != next[i] {
			diff++
		}
	}

	assert.Greater(t, diff, 4)
}

func TestDeriveIVWordsMatchesBytes(t *testing.T) {
	t.Parallel()

	tweak := keyed(t, blockcipher.AES, 16)
	iv := randomIV(t)

	words := ciphermode.DeriveIVWords(iv, 1<<33|5, tweak)
	raw := ciphermode.DeriveIV(iv, 1<<33|5, tweak)

	packed := make([]byte, blockcipher.BlockSize)
	blockcipher.PutWords(packed, words[:])
	assert.Equal(t, raw[:], packed)
}

func TestDeriveIVUsesUnitNumberHalves(t *testing.T) {
	t.Parallel()

	tweak := keyed(t, blockcipher.AES, 16)

	// Unit 1<<32 with IV word 2 cleared equals unit 0 with IV word 2 set to 1.
	a := ciphermode.DeriveIV(ciphermode.BlockIV{7, 8, 0, 9}, 1<<32, tweak)
	b := ciphermode.DeriveIV(ciphermode.BlockIV{7, 8, 1, 9}, 0, tweak)
	assert.Equal(t, a, b)
}

func TestBlockIVConstructors(t *testing.T) {
	t.Parallel()

	iv, err := ciphermode.BlockIVFromWords([]uint32{1, 2, 3, 4})
	require.NoError(t, err)

	raw := iv.Bytes()
	assert.Equal(t, []byte{0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 4}, raw[:])

	back, err := ciphermode.BlockIVFromBytes(raw[:])
	require.NoError(t, err)
	assert.Equal(t, iv, back)

	_, err = ciphermode.BlockIVFromWords([]uint32{1, 2, 3})
	require.ErrorIs(t, err, ciphermode.ErrIVLength)

	_, err = ciphermode.BlockIVFromBytes(make([]byte, 17))
	require.ErrorIs(t, err, ciphermode.ErrIVLength)
}

func TestStreamTweakConstructors(t *testing.T) {
	t.Parallel()

	tweak, err := ciphermode.StreamTweakFromWords([]uint32{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)

	raw := tweak.Bytes()
	back, err := ciphermode.StreamTweakFromBytes(raw[:])
	require.NoError(t, err)
	assert.Equal(t, tweak, back)

	_, err = ciphermode.StreamTweakFromWords(make([]uint32, 4))
	require.ErrorIs(t, err, ciphermode.ErrTweakLength)

	_, err = ciphermode.StreamTweakFromBytes(make([]byte, 16))
	require.ErrorIs(t, err, ciphermode.ErrTweakLength)
}
