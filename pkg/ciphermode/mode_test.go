package ciphermode_test

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/sectorc/pkg/blockcipher"
	"github.com/idelchi/sectorc/pkg/ciphermode"
)

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()

	raw := make([]byte, n)

	_, err := rand.Read(raw)
	require.NoError(t, err)

	return raw
}

func keyed(t *testing.T, alg blockcipher.Algorithm, size int) blockcipher.Block {
	t.Helper()

	block, err := blockcipher.NewKeyed(alg, blockcipher.NewSecretKey(randomBytes(t, size)))
	require.NoError(t, err)

	return block
}

func randomIV(t *testing.T) ciphermode.BlockIV {
	t.Helper()

	iv, err := ciphermode.BlockIVFromBytes(randomBytes(t, 16))
	require.NoError(t, err)

	return iv
}

func randomTweak(t *testing.T) ciphermode.StreamTweak {
	t.Helper()

	tweak, err := ciphermode.StreamTweakFromBytes(randomBytes(t, 32))
	require.NoError(t, err)

	return tweak
}

func newMode(t *testing.T, kind ciphermode.Kind) ciphermode.Mode {
	t.Helper()

	mode, err := ciphermode.New(kind, randomTweak(t))
	require.NoError(t, err)
	require.Equal(t, kind, mode.Kind())

	return mode
}

// aesParams returns params with fresh AES-256 ciphers and a random IV.
func aesParams(t *testing.T, unitSize int, start uint64) ciphermode.Params {
	t.Helper()

	return ciphermode.Params{
		Cipher:    keyed(t, blockcipher.AES, 32),
		Tweak:     keyed(t, blockcipher.AES, 32),
		StartUnit: start,
		UnitSize:  unitSize,
		IV:        randomIV(t),
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, kind := range ciphermode.Kinds() {
		for _, alg := range blockcipher.Algorithms() {
			for _, size := range alg.KeySizes() {
				for _, unitSize := range []int{16, 48, 512, 4096} {
					name := fmt.Sprintf("%s/%s-%d/unit-%d", kind, alg, size, unitSize)

					t.Run(name, func(t *testing.T) {
						t.Parallel()

						mode := newMode(t, kind)
						p := ciphermode.Params{
							Cipher:    keyed(t, alg, size),
							Tweak:     keyed(t, alg, size),
							StartUnit: 1 << 40,
							UnitSize:  unitSize,
							IV:        randomIV(t),
						}

						plain := randomBytes(t, 3*unitSize)
						buf := bytes.Clone(plain)

						mode.Encrypt(buf, p)
						assert.NotEqual(t, plain, buf)

						mode.Decrypt(buf, p)
						assert.Equal(t, plain, buf)
					})
				}
			}
		}
	}
}

func TestChunkIndependence(t *testing.T) {
	t.Parallel()

	const (
		unitSize = 4096
		total    = 1 << 20
	)

	for _, kind := range ciphermode.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()

			mode := newMode(t, kind)
			p := aesParams(t, unitSize, 7)
			plain := randomBytes(t, total)

			whole := bytes.Clone(plain)
			mode.Encrypt(whole, p)

			chunked := bytes.Clone(plain)
			for _, r := range [][2]int{{0, 256 << 10}, {256 << 10, 768 << 10}, {768 << 10, total}} {
				sub := p
				sub.StartUnit = p.StartUnit + uint64(r[0]/unitSize)
				mode.Encrypt(chunked[r[0]:r[1]], sub)
			}

			require.Equal(t, whole, chunked)

			for _, r := range [][2]int{{0, 128 << 10}, {128 << 10, total}} {
				sub := p
				sub.StartUnit = p.StartUnit + uint64(r[0]/unitSize)
				mode.Decrypt(chunked[r[0]:r[1]], sub)
			}

			assert.Equal(t, plain, chunked)
		})
	}
}

// flipAndDecrypt encrypts three zero units, flips one bit in the ciphertext and decrypts.
func flipAndDecrypt(t *testing.T, kind ciphermode.Kind, unitSize, bit int) []byte {
	t.Helper()

	mode := newMode(t, kind)
	p := aesParams(t, unitSize, 0)

	buf := make([]byte, 3*unitSize)
	mode.Encrypt(buf, p)

	buf[bit/8] ^= 1 << (bit % 8)
	mode.Decrypt(buf, p)

	return buf
}

// changedBlocks lists the indices of 16-byte blocks that are not all zero.
func changedBlocks(data []byte) []int {
	var changed []int

	zero := make([]byte, blockcipher.BlockSize)

	for i := 0; i < len(data); i += blockcipher.BlockSize {
		if !bytes.Equal(data[i:i+blockcipher.BlockSize], zero) {
			changed = append(changed, i/blockcipher.BlockSize)
		}
	}

	return changed
}

func TestXTSDamageStaysInBlock(t *testing.T) {
	t.Parallel()

	const unitSize = 128

	// Bit 5 of byte 40 of unit 1: block 2 of that unit.
	out := flipAndDecrypt(t, ciphermode.KindXTS, unitSize, 8*(unitSize+40)+5)

	assert.Equal(t, make([]byte, unitSize), out[:unitSize], "unit 0")
	assert.Equal(t, make([]byte, unitSize), out[2*unitSize:], "unit 2")
	assert.Equal(t, []int{2}, changedBlocks(out[unitSize:2*unitSize]))
}

func TestElephantDamageSpreadsOverUnit(t *testing.T) {
	t.Parallel()

	const unitSize = 128

	for _, kind := range []ciphermode.Kind{ciphermode.KindElephant, ciphermode.KindElephantCBC} {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()

			out := flipAndDecrypt(t, kind, unitSize, 8*(unitSize+40)+5)

			assert.Equal(t, make([]byte, unitSize), out[:unitSize], "unit 0")
			assert.Equal(t, make([]byte, unitSize), out[2*unitSize:], "unit 2")

			// Every block of the damaged unit changes.
			assert.Len(t, changedBlocks(out[unitSize:2*unitSize]), unitSize/blockcipher.BlockSize)

			var nonZero int

			for _, b := range out[unitSize : 2*unitSize] {
				if b != 0 {
					nonZero++
				}
			}

			assert.Greater(t, nonZero, unitSize/2)
		})
	}
}

func TestCBCFlipsOneBitInNextBlock(t *testing.T) {
	t.Parallel()

	const unitSize = 128

	// Bit 3 of byte 2 of block 1.
	out := flipAndDecrypt(t, ciphermode.KindCBC, unitSize, 8*(16+2)+3)

	assert.Equal(t, []int{1, 2}, changedBlocks(out[:unitSize]))
	assert.Equal(t, make([]byte, 2*unitSize), out[unitSize:], "units 1 and 2")

	next := make([]byte, blockcipher.BlockSize)
	next[2] = 1 << 3
	assert.Equal(t, next, out[32:48], "block 2 carries exactly the flipped bit")
}

func TestPCBCDamagesRestOfUnit(t *testing.T) {
	t.Parallel()

	const unitSize = 128

	out := flipAndDecrypt(t, ciphermode.KindPCBC, unitSize, 8*(2*16+7))

	assert.Equal(t, []int{2, 3, 4, 5, 6, 7}, changedBlocks(out[:unitSize]))
	assert.Equal(t, make([]byte, 2*unitSize), out[unitSize:], "units 1 and 2")
}

func TestOFBFlipsSingleBit(t *testing.T) {
	t.Parallel()

	const unitSize = 64

	bit := 8*(unitSize+33) + 6
	out := flipAndDecrypt(t, ciphermode.KindOFB, unitSize, bit)

	want := make([]byte, 3*unitSize)
	want[bit/8] = 1 << (bit % 8)
	assert.Equal(t, want, out)
}

func TestOFBIsInvolution(t *testing.T) {
	t.Parallel()

	p := aesParams(t, 32, 3)
	plain := randomBytes(t, 96)

	viaEncrypt := bytes.Clone(plain)
	ciphermode.OFB{}.Encrypt(viaEncrypt, p)

	viaDecrypt := bytes.Clone(plain)
	ciphermode.OFB{}.Decrypt(viaDecrypt, p)

	assert.Equal(t, viaEncrypt, viaDecrypt)
}

func TestUnitsAreIndependent(t *testing.T) {
	t.Parallel()

	// Identical plaintext units must not encrypt to identical ciphertext units.
	for _, kind := range ciphermode.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()

			buf := make([]byte, 4*64)
			newMode(t, kind).Encrypt(buf, aesParams(t, 64, 0))

			seen := make(map[string]bool)
			for i := 0; i < len(buf); i += 64 {
				unit := string(buf[i : i+64])
				assert.False(t, seen[unit], "unit %d repeats", i/64)
				seen[unit] = true
			}
		})
	}
}

func TestElephantCBCTweakSeparatesStreams(t *testing.T) {
	t.Parallel()

	p := aesParams(t, 64, 0)
	plain := randomBytes(t, 128)

	a := bytes.Clone(plain)
	ciphermode.NewElephantCBC(randomTweak(t)).Encrypt(a, p)

	b := bytes.Clone(plain)
	ciphermode.NewElephantCBC(randomTweak(t)).Encrypt(b, p)

	assert.NotEqual(t, a, b)

	// The diffuser layer changes every unit relative to plain CBC.
	c := bytes.Clone(plain)
	ciphermode.CBC{}.Encrypt(c, p)
	assert.NotEqual(t, c, a)
}
