package ciphermode

import (
	"encoding/binary"

	"github.com/idelchi/sectorc/pkg/blockcipher"
)

// xtsPoly is the low byte of the reduction polynomial x^128 + x^7 + x^2 + x + 1.
const xtsPoly = 135

// XTS whitens every block with a per-block tweak before and after encryption.
// The tweak starts at the unit's derived IV and is doubled in GF(2^128) after each block.
type XTS struct{}

// Kind returns KindXTS.
func (XTS) Kind() Kind { return KindXTS }

// Encrypt encrypts data in place.
func (x XTS) Encrypt(data []byte, p Params) {
	mustCheck(data, p)
	x.apply(data, p, p.Cipher.EncryptBlock)
}

// Decrypt decrypts data in place.
func (x XTS) Decrypt(data []byte, p Params) {
	mustCheck(data, p)
	x.apply(data, p, p.Cipher.DecryptBlock)
}

func (XTS) apply(data []byte, p Params, transform func(dst, src []byte)) {
	for unit, off := p.StartUnit, 0; off < len(data); unit, off = unit+1, off+p.UnitSize {
		tweak := DeriveIV(p.IV, unit, p.Tweak)

		for b := off; b < off+p.UnitSize; b += blockcipher.BlockSize {
			block := data[b : b+blockcipher.BlockSize]

			xorBlock(block, tweak[:])
			transform(block, block)
			xorBlock(block, tweak[:])

			mul2(&tweak)
		}
	}
}

// mul2 doubles a tweak in GF(2^128), treating it as a little-endian 128-bit integer.
func mul2(tweak *[blockcipher.BlockSize]byte) {
	lo := binary.LittleEndian.Uint64(tweak[:8])
	hi := binary.LittleEndian.Uint64(tweak[8:])

	var carry uint64
	if hi>>63 != 0 {
		carry = xtsPoly
	}

	hi = hi<<1 | lo>>63
	lo = lo<<1 ^ carry

	binary.LittleEndian.PutUint64(tweak[:8], lo)
	binary.LittleEndian.PutUint64(tweak[8:], hi)
}
