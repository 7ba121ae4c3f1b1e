package keys

import "errors"

var (
	// ErrKeyFormat is returned when a master key is not valid hex.
	ErrKeyFormat = errors.New("master key must be hex encoded")
	// ErrKeyLength is returned when a master key does not decode to MasterKeySize bytes.
	ErrKeyLength = errors.New("master key must be 32 bytes (64 hex characters)")
	// ErrEmptyPassphrase is returned when deriving from an empty passphrase.
	ErrEmptyPassphrase = errors.New("passphrase must not be empty")
	// ErrSaltLength is returned when a KDF salt is not SaltSize bytes.
	ErrSaltLength = errors.New("salt must be 16 bytes")
	// ErrUnknownKDF is returned for a KDF identifier outside the supported set.
	ErrUnknownKDF = errors.New("unknown key derivation function")
)
