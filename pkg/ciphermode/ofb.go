package ciphermode

import "github.com/idelchi/sectorc/pkg/blockcipher"

// OFB XORs each unit with a keystream obtained by repeatedly encrypting the unit's derived IV.
// Encryption and decryption are the same operation.
type OFB struct{}

// Kind returns KindOFB.
func (OFB) Kind() Kind { return KindOFB }

// Encrypt encrypts data in place.
func (o OFB) Encrypt(data []byte, p Params) {
	mustCheck(data, p)
	o.apply(data, p)
}

// Decrypt decrypts data in place.
func (o OFB) Decrypt(data []byte, p Params) {
	mustCheck(data, p)
	o.apply(data, p)
}

func (OFB) apply(data []byte, p Params) {
	for unit, off := p.StartUnit, 0; off < len(data); unit, off = unit+1, off+p.UnitSize {
		stream := DeriveIV(p.IV, unit, p.Tweak)

		for b := off; b < off+p.UnitSize; b += blockcipher.BlockSize {
			p.Cipher.EncryptBlock(stream[:], stream[:])
			xorBlock(data[b:b+blockcipher.BlockSize], stream[:])
		}
	}
}
