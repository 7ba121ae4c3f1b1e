package keys

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/idelchi/sectorc/pkg/blockcipher"
)

const (
	expandInfo = "sectorc/v1"

	cipherKeySize = 32
	macKeySize    = 32
	// SIVKeySize is the AES-SIV key length: two AES-256 keys.
	SIVKeySize = 64
)

// Set holds the keys derived from one master key.
type Set struct {
	// Data keys the payload cipher.
	Data *blockcipher.SecretKey
	// Tweak keys the IV and tweak derivation cipher.
	Tweak *blockcipher.SecretKey
	// MAC keys the HMAC-SHA256 trailer.
	MAC []byte
	// SIV keys the AES-SIV sealing of the stream parameters.
	SIV []byte
}

// Expand derives a key Set for alg from master. Cipher keys are cut to the algorithm's largest key size.
func Expand(master []byte, alg blockcipher.Algorithm) (*Set, error) {
	if len(master) != MasterKeySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrKeyLength, len(master))
	}

	size := alg.MaxKeySize()
	if size == 0 {
		return nil, fmt.Errorf("expanding keys: %w", blockcipher.ErrUnknownAlgorithm)
	}

	reader := hkdf.New(sha256.New, master, nil, []byte(expandInfo))
	derived := make([]byte, 2*cipherKeySize+macKeySize+SIVKeySize)

	if _, err := io.ReadFull(reader, derived); err != nil {
		return nil, fmt.Errorf("deriving keys: %w", err)
	}

	defer Wipe(derived)

	data := derived[:cipherKeySize]
	tweak := derived[cipherKeySize : 2*cipherKeySize]
	mac := derived[2*cipherKeySize : 2*cipherKeySize+macKeySize]
	siv := derived[2*cipherKeySize+macKeySize:]

	return &Set{
		Data:  blockcipher.NewSecretKey(data[:size]),
		Tweak: blockcipher.NewSecretKey(tweak[:size]),
		MAC:   append([]byte(nil), mac...),
		SIV:   append([]byte(nil), siv...),
	}, nil
}

// Reset wipes every key in the set.
func (s *Set) Reset() {
	if s == nil {
		return
	}

	s.Data.Reset()
	s.Tweak.Reset()
	Wipe(s.MAC)
	Wipe(s.SIV)
}
