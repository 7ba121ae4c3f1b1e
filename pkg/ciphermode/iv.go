package ciphermode

import (
	"encoding/binary"
	"fmt"

	"github.com/idelchi/sectorc/pkg/blockcipher"
)

// BlockIV is the per-stream initialization vector, constant for the lifetime of a keyed stream.
// Words are serialized big-endian.
type BlockIV [4]uint32

// BlockIVFromWords validates and copies a four-word IV.
func BlockIVFromWords(words []uint32) (BlockIV, error) {
	var iv BlockIV

	if len(words) != len(iv) {
		return iv, fmt.Errorf("%w: got %d", ErrIVLength, len(words))
	}

	copy(iv[:], words)

	return iv, nil
}

// BlockIVFromBytes decodes a 16-byte big-endian IV.
func BlockIVFromBytes(raw []byte) (BlockIV, error) {
	var iv BlockIV

	if len(raw) != 4*len(iv) {
		return iv, fmt.Errorf("%w: got %d bytes", ErrIVLength, len(raw))
	}

	for i := range iv {
		iv[i] = binary.BigEndian.Uint32(raw[4*i:])
	}

	return iv, nil
}

// Bytes encodes the IV big-endian.
func (iv BlockIV) Bytes() [blockcipher.BlockSize]byte {
	var out [blockcipher.BlockSize]byte

	blockcipher.PutWords(out[:], iv[:])

	return out
}

// StreamTweak is the stream-wide random tweak of the ElephantCBC mode.
// It lets one tweak cipher key serve many independent streams.
type StreamTweak [8]uint32

// StreamTweakFromWords validates and copies an eight-word tweak.
func StreamTweakFromWords(words []uint32) (StreamTweak, error) {
	var tweak StreamTweak

	if len(words) != len(tweak) {
		return tweak, fmt.Errorf("%w: got %d", ErrTweakLength, len(words))
	}

	copy(tweak[:], words)

	return tweak, nil
}

// StreamTweakFromBytes decodes a 32-byte big-endian tweak.
func StreamTweakFromBytes(raw []byte) (StreamTweak, error) {
	var tweak StreamTweak

	if len(raw) != 4*len(tweak) {
		return tweak, fmt.Errorf("%w: got %d bytes", ErrTweakLength, len(raw))
	}

	for i := range tweak {
		tweak[i] = binary.BigEndian.Uint32(raw[4*i:])
	}

	return tweak, nil
}

// Bytes encodes the tweak big-endian.
func (t StreamTweak) Bytes() [32]byte {
	var out [32]byte

	for i, word := range t {
		binary.BigEndian.PutUint32(out[4*i:], word)
	}

	return out
}

// DeriveIV returns the seed of one data unit: the block IV with the unit number XORed into
// its last two words, encrypted once with the tweak cipher.
func DeriveIV(iv BlockIV, unitNo uint64, tweak blockcipher.Block) [blockcipher.BlockSize]byte {
	words := DeriveIVWords(iv, unitNo, tweak)

	var out [blockcipher.BlockSize]byte

	blockcipher.PutWords(out[:], words[:])

	return out
}

// DeriveIVWords is DeriveIV in packed-word form.
func DeriveIVWords(iv BlockIV, unitNo uint64, tweak blockcipher.Block) [blockcipher.WordsPerBlock]uint32 {
	out := [blockcipher.WordsPerBlock]uint32{
		iv[0],
		iv[1],
		iv[2] ^ uint32(unitNo>>32),
		iv[3] ^ uint32(unitNo), //nolint:gosec // low half
	}

	tweak.EncryptWords(out[:], out[:])

	return out
}
