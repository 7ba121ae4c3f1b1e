package blockcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"strings"

	"github.com/aead/serpent"
	"golang.org/x/crypto/twofish"
	"golang.org/x/sys/cpu"
)

// Algorithm identifies a supported block cipher. The numeric values are persisted in envelopes.
type Algorithm byte

const (
	// AES is Rijndael with a 128-bit block.
	AES Algorithm = iota + 1
	// Serpent is the AES finalist by Anderson, Biham and Knudsen.
	Serpent
	// Twofish is the AES finalist by Schneier et al.
	Twofish
)

// Algorithms returns every supported algorithm in a stable order.
func Algorithms() []Algorithm {
	return []Algorithm{AES, Serpent, Twofish}
}

// String returns the lower-case algorithm name.
func (a Algorithm) String() string {
	switch a {
	case AES:
		return "aes"
	case Serpent:
		return "serpent"
	case Twofish:
		return "twofish"
	default:
		return fmt.Sprintf("algorithm(%d)", byte(a))
	}
}

// ParseAlgorithm resolves a case-insensitive algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	for _, alg := range Algorithms() {
		if strings.EqualFold(name, alg.String()) {
			return alg, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// KeySizes returns the accepted key lengths in bytes, ascending.
func (a Algorithm) KeySizes() []int {
	switch a {
	case AES, Serpent, Twofish:
		return []int{16, 24, 32}
	default:
		return nil
	}
}

// MaxKeySize returns the largest accepted key length.
func (a Algorithm) MaxKeySize() int {
	sizes := a.KeySizes()
	if len(sizes) == 0 {
		return 0
	}

	return sizes[len(sizes)-1]
}

// New returns an uninitialized Block for the algorithm.
func New(alg Algorithm) (Block, error) {
	switch alg {
	case AES:
		return Wrap(alg, alg.KeySizes(), aes.NewCipher), nil
	case Serpent:
		return Wrap(alg, alg.KeySizes(), serpent.NewCipher), nil
	case Twofish:
		return Wrap(alg, alg.KeySizes(), func(key []byte) (cipher.Block, error) {
			return twofish.NewCipher(key)
		}), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, byte(alg))
	}
}

// MustNew is New for algorithms known to be valid. It panics otherwise.
func MustNew(alg Algorithm) Block {
	block, err := New(alg)
	if err != nil {
		panic(err)
	}

	return block
}

// NewKeyed returns a Block for the algorithm initialized with key.
func NewKeyed(alg Algorithm, key *SecretKey) (Block, error) {
	block, err := New(alg)
	if err != nil {
		return nil, err
	}

	if err := block.Init(key); err != nil {
		return nil, fmt.Errorf("initializing %s: %w", alg, err)
	}

	return block, nil
}

// HardwareAccelerated reports whether the running CPU has instructions for the algorithm.
// Only AES has hardware support; Serpent and Twofish always run in software.
func HardwareAccelerated(alg Algorithm) bool {
	if alg != AES {
		return false
	}

	return cpu.X86.HasAES || cpu.ARM64.HasAES || cpu.S390X.HasAES
}
