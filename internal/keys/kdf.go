package keys

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// KDF identifies how the master key was obtained. The numeric values are persisted in envelopes.
type KDF byte

const (
	// KDFNone means the master key was supplied directly.
	KDFNone KDF = iota
	// KDFScrypt stretches a passphrase with scrypt.
	KDFScrypt
	// KDFPBKDF2 stretches a passphrase with PBKDF2-HMAC-SHA256.
	KDFPBKDF2
	// KDFArgon2 stretches a passphrase with Argon2id.
	KDFArgon2
)

// Cost parameters. Changing any of them breaks decryption of existing files.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1

	pbkdf2Iterations = 600_000

	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
)

// KDFs returns the passphrase KDFs in a stable order.
func KDFs() []KDF {
	return []KDF{KDFScrypt, KDFPBKDF2, KDFArgon2}
}

func (k KDF) String() string {
	switch k {
	case KDFNone:
		return "none"
	case KDFScrypt:
		return "scrypt"
	case KDFPBKDF2:
		return "pbkdf2"
	case KDFArgon2:
		return "argon2"
	default:
		return fmt.Sprintf("kdf(%d)", byte(k))
	}
}

// ParseKDF resolves a case-insensitive KDF name.
func ParseKDF(name string) (KDF, error) {
	for _, kdf := range append([]KDF{KDFNone}, KDFs()...) {
		if strings.EqualFold(name, kdf.String()) {
			return kdf, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKDF, name)
}

// FromPassphrase stretches a passphrase into a master key.
func FromPassphrase(passphrase, salt []byte, kdf KDF) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}

	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: got %d", ErrSaltLength, len(salt))
	}

	switch kdf {
	case KDFScrypt:
		key, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, MasterKeySize)
		if err != nil {
			return nil, fmt.Errorf("running scrypt: %w", err)
		}

		return key, nil
	case KDFPBKDF2:
		return pbkdf2.Key(passphrase, salt, pbkdf2Iterations, MasterKeySize, sha256.New), nil
	case KDFArgon2:
		return argon2.IDKey(passphrase, salt, argon2Time, argon2Memory, argon2Threads, MasterKeySize), nil
	case KDFNone:
		return nil, fmt.Errorf("%w: %s cannot stretch a passphrase", ErrUnknownKDF, kdf)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKDF, byte(kdf))
	}
}
