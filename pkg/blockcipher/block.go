package blockcipher

import (
	"crypto/cipher"
	"encoding/binary"
	"fmt"
	"slices"
)

// BlockSize is the block size in bytes of every cipher usable by the sector modes.
const BlockSize = 16

// WordsPerBlock is the number of 32-bit words in one block.
const WordsPerBlock = BlockSize / 4

// Block is a keyed, resettable 16-byte block transform.
//
// The byte methods read the first 16 bytes of src and write the first 16 bytes of dst.
// The word methods read and write the first four words, packed big-endian.
// dst and src may be the same slice.
type Block interface {
	// Init expands key into a fresh key schedule, replacing any previous one.
	Init(key *SecretKey) error
	EncryptBlock(dst, src []byte)
	DecryptBlock(dst, src []byte)
	EncryptWords(dst, src []uint32)
	DecryptWords(dst, src []uint32)
	// Reset discards the key schedule.
	Reset()
	Initialized() bool
	Algorithm() Algorithm
}

// NewFunc builds a crypto/cipher.Block from raw key bytes.
type NewFunc func(key []byte) (cipher.Block, error)

// keyed adapts a crypto/cipher.Block constructor to the Block contract.
type keyed struct {
	alg      Algorithm
	keySizes []int
	newFunc  NewFunc
	block    cipher.Block
}

// Wrap adapts any 16-byte crypto/cipher.Block constructor to the Block contract.
// keySizes lists the accepted key lengths; an empty list accepts any length newFunc accepts.
func Wrap(alg Algorithm, keySizes []int, newFunc NewFunc) Block {
	return &keyed{
		alg:      alg,
		keySizes: keySizes,
		newFunc:  newFunc,
	}
}

func (k *keyed) Init(key *SecretKey) error {
	k.block = nil

	material, err := key.material()
	if err != nil {
		return err
	}

	if len(k.keySizes) > 0 && !slices.Contains(k.keySizes, len(material)) {
		return fmt.Errorf("%w: %s does not accept %d-byte keys", ErrKeySize, k.alg, len(material))
	}

	block, err := k.newFunc(material)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrKeySize, k.alg, err)
	}

	if block.BlockSize() != BlockSize {
		return fmt.Errorf("%w: %s has %d", ErrBlockSize, k.alg, block.BlockSize())
	}

	k.block = block

	return nil
}

func (k *keyed) schedule() cipher.Block {
	if k.block == nil {
		panic(ErrNotInitialized)
	}

	return k.block
}

func (k *keyed) EncryptBlock(dst, src []byte) {
	k.schedule().Encrypt(dst[:BlockSize], src[:BlockSize])
}

func (k *keyed) DecryptBlock(dst, src []byte) {
	k.schedule().Decrypt(dst[:BlockSize], src[:BlockSize])
}

func (k *keyed) EncryptWords(dst, src []uint32) {
	block := k.schedule()

	var buf [BlockSize]byte

	PutWords(buf[:], src)
	block.Encrypt(buf[:], buf[:])
	Words(dst, buf[:])
}

func (k *keyed) DecryptWords(dst, src []uint32) {
	block := k.schedule()

	var buf [BlockSize]byte

	PutWords(buf[:], src)
	block.Decrypt(buf[:], buf[:])
	Words(dst, buf[:])
}

// Reset drops the reference to the key schedule.
// The standard library ciphers do not expose their round keys, so they are left to the garbage collector.
func (k *keyed) Reset() {
	k.block = nil
}

func (k *keyed) Initialized() bool {
	return k.block != nil
}

func (k *keyed) Algorithm() Algorithm {
	return k.alg
}

// PutWords packs the first four words of src big-endian into dst.
func PutWords(dst []byte, src []uint32) {
	_ = src[WordsPerBlock-1]

	for i := range WordsPerBlock {
		binary.BigEndian.PutUint32(dst[4*i:], src[i])
	}
}

// Words unpacks the first 16 bytes of src into four big-endian words.
func Words(dst []uint32, src []byte) {
	_ = src[BlockSize-1]

	for i := range WordsPerBlock {
		dst[i] = binary.BigEndian.Uint32(src[4*i:])
	}
}
