package encryption

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/idelchi/sectorc/internal/config"
	"github.com/idelchi/sectorc/internal/keys"
	"github.com/idelchi/sectorc/pkg/blockcipher"
	"github.com/idelchi/sectorc/pkg/ciphermode"
)

const (
	envelopeMagic   = "SECT"
	envelopeVersion = byte(1)
	envelopeTagSize = sha256.Size

	envelopeFlagExec = 0x01

	// magic, version, flags, mode, cipher, kdf, unit size, plaintext size, salt
	envelopeHeaderSize = len(envelopeMagic) + 5 + 4 + 8 + keys.SaltSize

	// maxSealedSize bounds the sealed parameter block read from untrusted input.
	maxSealedSize = 1024
)

// header is the fixed, authenticated prefix of an envelope.
type header struct {
	executable bool
	mode       ciphermode.Kind
	cipher     blockcipher.Algorithm
	kdf        keys.KDF
	unitSize   uint32
	size       uint64
	salt       [keys.SaltSize]byte
}

// units returns the number of data units in the body.
func (h header) units() uint64 {
	unit := uint64(h.unitSize)

	return (h.size + unit - 1) / unit
}

// bodySize returns the body length in bytes.
func (h header) bodySize() uint64 {
	return h.units() * uint64(h.unitSize)
}

func (h header) marshal() []byte {
	out := make([]byte, envelopeHeaderSize)
	off := copy(out, envelopeMagic)

	var flags byte
	if h.executable {
		flags |= envelopeFlagExec
	}

	out[off] = envelopeVersion
	out[off+1] = flags
	out[off+2] = byte(h.mode)
	out[off+3] = byte(h.cipher)
	out[off+4] = byte(h.kdf)
	off += 5

	binary.BigEndian.PutUint32(out[off:], h.unitSize)
	off += 4

	binary.BigEndian.PutUint64(out[off:], h.size)
	off += 8

	copy(out[off:], h.salt[:])

	return out
}

func parseHeader(raw []byte) (header, error) {
	var h header

	if len(raw) != envelopeHeaderSize {
		return h, fmt.Errorf("%w: envelope header too short", ErrProcessing)
	}

	if !bytes.Equal(raw[:len(envelopeMagic)], []byte(envelopeMagic)) {
		return h, fmt.Errorf("%w: invalid envelope magic", ErrProcessing)
	}

	off := len(envelopeMagic)

	if version := raw[off]; version != envelopeVersion {
		return h, fmt.Errorf("%w: unsupported envelope version %d", ErrProcessing, version)
	}

	h.executable = raw[off+1]&envelopeFlagExec != 0
	h.mode = ciphermode.Kind(raw[off+2])
	h.cipher = blockcipher.Algorithm(raw[off+3])
	h.kdf = keys.KDF(raw[off+4])
	off += 5

	h.unitSize = binary.BigEndian.Uint32(raw[off:])
	off += 4

	h.size = binary.BigEndian.Uint64(raw[off:])
	off += 8

	copy(h.salt[:], raw[off:])

	if _, err := ciphermode.New(h.mode, ciphermode.StreamTweak{}); err != nil {
		return h, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	if h.cipher.MaxKeySize() == 0 {
		return h, fmt.Errorf("%w: unsupported cipher %d", ErrProcessing, byte(h.cipher))
	}

	if h.kdf != keys.KDFNone && !validKDF(h.kdf) {
		return h, fmt.Errorf("%w: unsupported key derivation %d", ErrProcessing, byte(h.kdf))
	}

	if h.unitSize == 0 || h.unitSize%blockcipher.BlockSize != 0 || h.unitSize > config.MaxUnitSize {
		return h, fmt.Errorf("%w: invalid unit size %d", ErrProcessing, h.unitSize)
	}

	return h, nil
}

func validKDF(kdf keys.KDF) bool {
	for _, known := range keys.KDFs() {
		if kdf == known {
			return true
		}
	}

	return false
}

// streamParams are the per-file secrets sealed into the envelope.
type streamParams struct {
	iv    ciphermode.BlockIV
	tweak ciphermode.StreamTweak
}

const streamParamsSize = 16 + 32

func (s streamParams) marshal() []byte {
	iv := s.iv.Bytes()
	tweak := s.tweak.Bytes()

	return append(iv[:], tweak[:]...)
}

func parseStreamParams(raw []byte) (streamParams, error) {
	var s streamParams

	if len(raw) != streamParamsSize {
		return s, fmt.Errorf("%w: sealed parameters have %d bytes", ErrProcessing, len(raw))
	}

	iv, err := ciphermode.BlockIVFromBytes(raw[:16])
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	tweak, err := ciphermode.StreamTweakFromBytes(raw[16:])
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	return streamParams{iv: iv, tweak: tweak}, nil
}

// verifyTag compares the trailer against the running MAC in constant time.
func verifyTag(sum, tag []byte) error {
	if len(tag) != envelopeTagSize {
		return fmt.Errorf("%w: authentication tag missing", ErrProcessing)
	}

	if !hmac.Equal(sum, tag) {
		return fmt.Errorf("%w: authentication failed", ErrProcessing)
	}

	return nil
}
