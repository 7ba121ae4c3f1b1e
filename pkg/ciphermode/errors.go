package ciphermode

import "errors"

var (
	// ErrUnitSize marks a unit size that is not a positive multiple of the block size.
	ErrUnitSize = errors.New("ciphermode: unit size must be a positive multiple of 16")
	// ErrLength marks a buffer length that is not a positive multiple of the unit size.
	ErrLength = errors.New("ciphermode: length must be a positive multiple of the unit size")
	// ErrNilCipher marks a missing data or tweak cipher.
	ErrNilCipher = errors.New("ciphermode: cipher and tweak cipher are required")
	// ErrIVLength marks a block IV that is not exactly four words (16 bytes).
	ErrIVLength = errors.New("ciphermode: block IV must be 4 words")
	// ErrTweakLength marks a stream tweak that is not exactly eight words (32 bytes).
	ErrTweakLength = errors.New("ciphermode: stream tweak must be 8 words")
	// ErrUnknownKind marks a mode kind outside the supported set.
	ErrUnknownKind = errors.New("ciphermode: unknown mode")
)
