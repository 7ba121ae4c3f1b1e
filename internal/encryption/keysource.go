package encryption

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/idelchi/sectorc/internal/config"
	"github.com/idelchi/sectorc/internal/keys"
)

// keySource resolves the master key of an envelope from either a raw key or a passphrase.
type keySource struct {
	master     []byte
	passphrase []byte
}

// newKeySource reads the configured key. Exactly one source is expected to be set.
func newKeySource(key config.Key) (keySource, error) {
	switch {
	case key.Hex != "":
		master, err := keys.ParseHex(key.Hex)
		if err != nil {
			return keySource{}, fmt.Errorf("reading key: %w", err)
		}

		return keySource{master: master}, nil
	case key.File != "":
		raw, err := os.ReadFile(filepath.Clean(key.File))
		if err != nil {
			return keySource{}, fmt.Errorf("reading key file: %w", err)
		}

		defer keys.Wipe(raw)

		master, err := keys.ParseHex(string(raw))
		if err != nil {
			return keySource{}, fmt.Errorf("reading key file %q: %w", key.File, err)
		}

		return keySource{master: master}, nil
	case key.Passphrase != "":
		return keySource{passphrase: []byte(key.Passphrase)}, nil
	default:
		return keySource{}, fmt.Errorf("%w: no key given", ErrKeySource)
	}
}

// kdfFor returns the KDF recorded for a new envelope.
func (k keySource) kdfFor(requested keys.KDF) keys.KDF {
	if k.passphrase == nil {
		return keys.KDFNone
	}

	return requested
}

// expand derives the key set of an envelope described by h.
func (k keySource) expand(h header) (*keys.Set, error) {
	if h.kdf == keys.KDFNone {
		if k.master == nil {
			return nil, fmt.Errorf("%w: file was encrypted with a key, not a passphrase", ErrKeySource)
		}

		return keys.Expand(k.master, h.cipher)
	}

	if k.passphrase == nil {
		return nil, fmt.Errorf("%w: file was encrypted with a passphrase (%s)", ErrKeySource, h.kdf)
	}

	master, err := keys.FromPassphrase(k.passphrase, h.salt[:], h.kdf)
	if err != nil {
		return nil, fmt.Errorf("deriving key from passphrase: %w", err)
	}

	defer keys.Wipe(master)

	return keys.Expand(master, h.cipher)
}

// wipe zeroes the held key material.
func (k keySource) wipe() {
	keys.Wipe(k.master)
	keys.Wipe(k.passphrase)
}
