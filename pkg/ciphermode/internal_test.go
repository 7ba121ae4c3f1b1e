package ciphermode

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMul2(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   [16]byte
		want [16]byte
	}{
		{
			name: "shift",
			in:   [16]byte{0x01},
			want: [16]byte{0x02},
		},
		{
			name: "carry between halves",
			in:   [16]byte{7: 0x80},
			want: [16]byte{8: 0x01},
		},
		{
			name: "reduction",
			in:   [16]byte{15: 0x80},
			want: [16]byte{0: 135},
		},
		{
			name: "reduction with shift",
			in:   [16]byte{0: 0x01, 15: 0x80},
			want: [16]byte{0: 0x02 ^ 135},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := tc.in
			mul2(&got)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDiffuserInverts(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2)) //nolint:gosec // deterministic test data

	for _, w := range []int{4, 12, 32, 1024} {
		words := make([]uint32, w)
		for i := range words {
			words[i] = rng.Uint32()
		}

		original := append([]uint32(nil), words...)

		diffuseForward(words)
		assert.NotEqual(t, original, words)

		diffuseInverse(words)
		assert.Equal(t, original, words, "width %d", w)
	}
}

func TestSaltIsInvolution(t *testing.T) {
	t.Parallel()

	tweak := [8]uint32{1, 2, 3, 4, 5, 6, 7, 8}
	words := make([]uint32, 32)

	salt(words, 8, &tweak)
	assert.Equal(t, uint32(1), words[0])
	assert.Equal(t, uint32(8^7), words[7])
	assert.Zero(t, words[8], "only the first n words are salted")

	salt(words, 8, &tweak)
	assert.Equal(t, make([]uint32, 32), words)
}

func TestWrap(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, wrap(-2, 4))
	assert.Equal(t, 3, wrap(-5, 4))
	assert.Equal(t, 0, wrap(12, 12))
	assert.Equal(t, 7, wrap(-5, 12))
}
