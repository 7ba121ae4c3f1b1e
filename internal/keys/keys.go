// Package keys turns user supplied key material into the keys used by the file envelope.
//
// A 32-byte master key comes either from hex (flag, environment or key file) or from a passphrase
// stretched with a per-file salt. Expand splits the master key with HKDF-SHA256 into independent
// data, tweak, MAC and SIV keys.
package keys

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"runtime"

	"github.com/idelchi/gogen/pkg/key"
)

const (
	// MasterKeySize is the length of a master key in bytes.
	MasterKeySize = 32
	// SaltSize is the length of a passphrase salt in bytes.
	SaltSize = 16
)

// Generate returns a new random master key.
func Generate() ([]byte, error) {
	master, err := key.New(MasterKeySize)
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	return master, nil
}

// ParseHex decodes a hex master key. Surrounding whitespace, as left by key files, is ignored.
func ParseHex(s string) ([]byte, error) {
	master, err := key.FromHex(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyFormat, err)
	}

	if len(master) != MasterKeySize {
		Wipe(master)

		return nil, fmt.Errorf("%w: got %d bytes", ErrKeyLength, len(master))
	}

	return master, nil
}

// NewSalt returns a fresh random salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)

	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}

	return salt, nil
}

// Wipe overwrites b with zeros.
func Wipe(b []byte) {
	if b == nil {
		return
	}

	zeros := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zeros)

	runtime.KeepAlive(b)
}
