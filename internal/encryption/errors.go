package encryption

import "errors"

var (
	// ErrProcessing indicates a malformed, tampered or undecryptable envelope.
	ErrProcessing = errors.New("envelope processing error")
	// ErrKeySource is returned when the key source does not match how a file was encrypted.
	ErrKeySource = errors.New("key source mismatch")
	// ErrInputChanged is returned when a file's size changes while it is being encrypted.
	ErrInputChanged = errors.New("input changed while reading")
)
