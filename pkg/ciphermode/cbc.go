package ciphermode

import "github.com/idelchi/sectorc/pkg/blockcipher"

// CBC chains blocks inside each unit, starting from the unit's derived IV.
type CBC struct{}

// Kind returns KindCBC.
func (CBC) Kind() Kind { return KindCBC }

// Encrypt encrypts data in place.
func (CBC) Encrypt(data []byte, p Params) {
	mustCheck(data, p)

	for unit, off := p.StartUnit, 0; off < len(data); unit, off = unit+1, off+p.UnitSize {
		chain := DeriveIV(p.IV, unit, p.Tweak)

		for b := off; b < off+p.UnitSize; b += blockcipher.BlockSize {
			block := data[b : b+blockcipher.BlockSize]

			xorBlock(block, chain[:])
			p.Cipher.EncryptBlock(block, block)
			copy(chain[:], block)
		}
	}
}

// Decrypt decrypts data in place.
func (CBC) Decrypt(data []byte, p Params) {
	mustCheck(data, p)

	var saved [blockcipher.BlockSize]byte

	for unit, off := p.StartUnit, 0; off < len(data); unit, off = unit+1, off+p.UnitSize {
		chain := DeriveIV(p.IV, unit, p.Tweak)

		for b := off; b < off+p.UnitSize; b += blockcipher.BlockSize {
			block := data[b : b+blockcipher.BlockSize]

			copy(saved[:], block)
			p.Cipher.DecryptBlock(block, block)
			xorBlock(block, chain[:])
			chain = saved
		}
	}
}
