package blockcipher

import "errors"

var (
	// ErrNotInitialized is the panic value when a Block is used before Init or after Reset.
	ErrNotInitialized = errors.New("blockcipher: cipher is not initialized")
	// ErrKeySize is returned when a key length is not supported by the algorithm.
	ErrKeySize = errors.New("blockcipher: unsupported key size")
	// ErrKeyReset is returned when a SecretKey that has been reset is used to key a cipher.
	ErrKeyReset = errors.New("blockcipher: secret key has been reset")
	// ErrKeyNotSerializable is returned by the marshalling methods of SecretKey.
	ErrKeyNotSerializable = errors.New("blockcipher: secret keys cannot be serialized")
	// ErrUnknownAlgorithm is returned when parsing or constructing an unknown algorithm.
	ErrUnknownAlgorithm = errors.New("blockcipher: unknown algorithm")
	// ErrBlockSize is returned when a wrapped cipher does not use 16-byte blocks.
	ErrBlockSize = errors.New("blockcipher: cipher block size must be 16 bytes")
)
