package ciphermode

import "github.com/idelchi/sectorc/pkg/blockcipher"

// PCBC chains both plaintext and ciphertext into the next block, so damage runs to the end of the unit.
type PCBC struct{}

// Kind returns KindPCBC.
func (PCBC) Kind() Kind { return KindPCBC }

// Encrypt encrypts data in place.
func (PCBC) Encrypt(data []byte, p Params) {
	mustCheck(data, p)

	var plain [blockcipher.BlockSize]byte

	for unit, off := p.StartUnit, 0; off < len(data); unit, off = unit+1, off+p.UnitSize {
		chain := DeriveIV(p.IV, unit, p.Tweak)

		for b := off; b < off+p.UnitSize; b += blockcipher.BlockSize {
			block := data[b : b+blockcipher.BlockSize]

			copy(plain[:], block)
			xorBlock(block, chain[:])
			p.Cipher.EncryptBlock(block, block)

			copy(chain[:], block)
			xorBlock(chain[:], plain[:])
		}
	}
}

// Decrypt decrypts data in place.
func (PCBC) Decrypt(data []byte, p Params) {
	mustCheck(data, p)

	var cipherText [blockcipher.BlockSize]byte

	for unit, off := p.StartUnit, 0; off < len(data); unit, off = unit+1, off+p.UnitSize {
		chain := DeriveIV(p.IV, unit, p.Tweak)

		for b := off; b < off+p.UnitSize; b += blockcipher.BlockSize {
			block := data[b : b+blockcipher.BlockSize]

			copy(cipherText[:], block)
			p.Cipher.DecryptBlock(block, block)
			xorBlock(block, chain[:])

			chain = cipherText
			xorBlock(chain[:], block)
		}
	}
}
