package ciphermode

import (
	"encoding/binary"
	"math/bits"

	"github.com/idelchi/sectorc/pkg/blockcipher"
)

// Rotation tables of the two diffuser sweeps, indexed by lane within a cipher block.
var (
	elephantRa = [4]int{9, 0, 13, 0}
	elephantRb = [4]int{0, 10, 0, 25}
)

// Tweak seed masks of the single-stream diffuser.
const (
	elephantMaskLo = 0xcafebabe
	elephantMaskHi = 0xdeadface
)

// diffuserTweak fills tweak with the eight salting words of one unit.
type diffuserTweak func(iv BlockIV, unitNo uint64, cipher blockcipher.Block, tweak *[8]uint32)

// Elephant runs CBC over each unit and then mixes the whole unit with the Elephant diffuser,
// so one flipped bit destroys the entire unit. The diffuser tweak is seeded from the block IV.
type Elephant struct{}

// Kind returns KindElephant.
func (Elephant) Kind() Kind { return KindElephant }

// Encrypt encrypts data in place.
func (Elephant) Encrypt(data []byte, p Params) {
	mustCheck(data, p)
	elephantEncrypt(data, p, singleStreamTweak)
}

// Decrypt decrypts data in place.
func (Elephant) Decrypt(data []byte, p Params) {
	mustCheck(data, p)
	elephantDecrypt(data, p, singleStreamTweak)
}

// ElephantCBC is Elephant with the diffuser tweak seeded from a stream-wide random tweak,
// letting one tweak cipher key serve many independent streams.
type ElephantCBC struct {
	tweak StreamTweak
}

// NewElephantCBC returns an ElephantCBC bound to the stream tweak.
func NewElephantCBC(tweak StreamTweak) ElephantCBC {
	return ElephantCBC{tweak: tweak}
}

// Kind returns KindElephantCBC.
func (ElephantCBC) Kind() Kind { return KindElephantCBC }

// Tweak returns the stream tweak.
func (e ElephantCBC) Tweak() StreamTweak { return e.tweak }

// Encrypt encrypts data in place.
func (e ElephantCBC) Encrypt(data []byte, p Params) {
	mustCheck(data, p)
	elephantEncrypt(data, p, e.multiStreamTweak)
}

// Decrypt decrypts data in place.
func (e ElephantCBC) Decrypt(data []byte, p Params) {
	mustCheck(data, p)
	elephantDecrypt(data, p, e.multiStreamTweak)
}

func singleStreamTweak(iv BlockIV, unitNo uint64, cipher blockcipher.Block, tweak *[8]uint32) {
	n := -unitNo
	hi, lo := uint32(n>>32), uint32(n) //nolint:gosec // halves

	*tweak = [8]uint32{
		iv[0] ^ elephantMaskLo, iv[1], iv[2] + hi, iv[3] + lo,
		iv[0] ^ elephantMaskHi, iv[1], iv[2] + hi, iv[3] + lo,
	}

	cipher.EncryptWords(tweak[:4], tweak[:4])
	cipher.EncryptWords(tweak[4:], tweak[4:])
}

func (e ElephantCBC) multiStreamTweak(_ BlockIV, unitNo uint64, cipher blockcipher.Block, tweak *[8]uint32) {
	src := e.tweak
	hi, lo := uint32(unitNo>>32), uint32(unitNo) //nolint:gosec // halves

	*tweak = [8]uint32{
		src[0] + hi, src[1] + lo, src[2], src[3],
		src[4] + hi, src[5] + lo, src[6], src[7] + 1,
	}

	cipher.EncryptWords(tweak[:4], tweak[:4])
	cipher.EncryptWords(tweak[4:], tweak[4:])
}

func elephantEncrypt(data []byte, p Params, tweakFn diffuserTweak) {
	words := make([]uint32, p.UnitSize/4)
	blocks := p.UnitSize / blockcipher.BlockSize

	var tweak [8]uint32

	for unit, off := p.StartUnit, 0; off < len(data); unit, off = unit+1, off+p.UnitSize {
		loadWords(words, data[off:off+p.UnitSize])

		chain := DeriveIVWords(p.IV, unit, p.Tweak)

		for i := 0; i < len(words); i += blockcipher.WordsPerBlock {
			for j := range chain {
				chain[j] ^= words[i+j]
			}

			p.Cipher.EncryptWords(chain[:], chain[:])
			copy(words[i:], chain[:])
		}

		tweakFn(p.IV, unit, p.Tweak, &tweak)
		salt(words, blocks, &tweak)
		diffuseForward(words)

		storeWords(data[off:off+p.UnitSize], words)
	}
}

func elephantDecrypt(data []byte, p Params, tweakFn diffuserTweak) {
	words := make([]uint32, p.UnitSize/4)
	blocks := p.UnitSize / blockcipher.BlockSize

	var (
		tweak [8]uint32
		saved [blockcipher.WordsPerBlock]uint32
	)

	for unit, off := p.StartUnit, 0; off < len(data); unit, off = unit+1, off+p.UnitSize {
		loadWords(words, data[off:off+p.UnitSize])

		tweakFn(p.IV, unit, p.Tweak, &tweak)
		diffuseInverse(words)
		salt(words, blocks, &tweak)

		chain := DeriveIVWords(p.IV, unit, p.Tweak)

		for i := 0; i < len(words); i += blockcipher.WordsPerBlock {
			block := words[i : i+blockcipher.WordsPerBlock]

			copy(saved[:], block)
			p.Cipher.DecryptWords(block, block)

			for j := range chain {
				block[j] ^= chain[j]
			}

			chain = saved
		}

		storeWords(data[off:off+p.UnitSize], words)
	}
}

// salt XORs the first n words with the tweak and their index. It is its own inverse.
func salt(words []uint32, n int, tweak *[8]uint32) {
	for i := range n {
		words[i] ^= tweak[i&7] ^ uint32(i) //nolint:gosec // i < len(words)
	}
}

// diffuseForward runs the two backward subtraction sweeps.
func diffuseForward(words []uint32) {
	w := len(words)

	for i := 5*w - 1; i >= 0; i-- {
		words[i%w] -= words[(i+2)%w] ^ bits.RotateLeft32(words[(i+5)%w], elephantRb[i&3])
	}

	for i := 3*w - 1; i >= 0; i-- {
		words[i%w] -= words[wrap(i-2, w)] ^ bits.RotateLeft32(words[wrap(i-5, w)], elephantRa[i&3])
	}
}

// diffuseInverse undoes diffuseForward with ascending addition sweeps.
func diffuseInverse(words []uint32) {
	w := len(words)

	for i := range 3 * w {
		words[i%w] += words[wrap(i-2, w)] ^ bits.RotateLeft32(words[wrap(i-5, w)], elephantRa[i&3])
	}

	for i := range 5 * w {
		words[i%w] += words[(i+2)%w] ^ bits.RotateLeft32(words[(i+5)%w], elephantRb[i&3])
	}
}

// wrap reduces i modulo n into [0, n).
func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func loadWords(dst []uint32, src []byte) {
	for i := range dst {
		dst[i] = binary.BigEndian.Uint32(src[4*i:])
	}
}

func storeWords(dst []byte, src []uint32) {
	for i, word := range src {
		binary.BigEndian.PutUint32(dst[4*i:], word)
	}
}
