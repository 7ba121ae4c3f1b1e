package ciphermode

import (
	"fmt"
	"strings"

	"github.com/idelchi/sectorc/pkg/blockcipher"
)

// Kind identifies a cipher mode. The numeric values are persisted in envelopes.
type Kind byte

const (
	// KindCBC is cipher block chaining per unit.
	KindCBC Kind = iota + 1
	// KindPCBC is propagating cipher block chaining per unit.
	KindPCBC
	// KindXTS is XEX-style whitening with a GF(2^128) doubled tweak.
	KindXTS
	// KindOFB is output feedback per unit.
	KindOFB
	// KindElephant is CBC followed by the Elephant diffuser, tweaked by the block IV.
	KindElephant
	// KindElephantCBC is CBC followed by the Elephant diffuser, tweaked by a stream tweak.
	KindElephantCBC
)

// Kinds returns every supported kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindCBC, KindPCBC, KindXTS, KindOFB, KindElephant, KindElephantCBC}
}

// String returns the lower-case mode name.
func (k Kind) String() string {
	switch k {
	case KindCBC:
		return "cbc"
	case KindPCBC:
		return "pcbc"
	case KindXTS:
		return "xts"
	case KindOFB:
		return "ofb"
	case KindElephant:
		return "elephant"
	case KindElephantCBC:
		return "elephant-cbc"
	default:
		return fmt.Sprintf("mode(%d)", byte(k))
	}
}

// ParseKind resolves a case-insensitive mode name.
func ParseKind(name string) (Kind, error) {
	for _, kind := range Kinds() {
		if strings.EqualFold(name, kind.String()) {
			return kind, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Params addresses a run of data units.
type Params struct {
	// Cipher encrypts the payload.
	Cipher blockcipher.Block
	// Tweak derives per-unit IVs and tweaks; it never touches payload directly.
	Tweak blockcipher.Block
	// StartUnit is the number of the first unit in the buffer.
	StartUnit uint64
	// UnitSize is the size of one data unit in bytes.
	UnitSize int
	// IV is the stream's block IV.
	IV BlockIV
}

// Mode encrypts and decrypts whole data units in place.
//
// Both methods panic when Check reports an error: precondition violations are programmer errors.
type Mode interface {
	Kind() Kind
	Encrypt(data []byte, p Params)
	Decrypt(data []byte, p Params)
}

// New returns the mode for kind. The stream tweak is only used by KindElephantCBC.
func New(kind Kind, tweak StreamTweak) (Mode, error) {
	switch kind {
	case KindCBC:
		return CBC{}, nil
	case KindPCBC:
		return PCBC{}, nil
	case KindXTS:
		return XTS{}, nil
	case KindOFB:
		return OFB{}, nil
	case KindElephant:
		return Elephant{}, nil
	case KindElephantCBC:
		return NewElephantCBC(tweak), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, byte(kind))
	}
}

// Check validates the preconditions shared by every mode.
func Check(data []byte, p Params) error {
	if p.UnitSize <= 0 || p.UnitSize%blockcipher.BlockSize != 0 {
		return fmt.Errorf("%w: got %d", ErrUnitSize, p.UnitSize)
	}

	if len(data) == 0 || len(data)%p.UnitSize != 0 {
		return fmt.Errorf("%w: length %d, unit size %d", ErrLength, len(data), p.UnitSize)
	}

	if p.Cipher == nil || p.Tweak == nil {
		return ErrNilCipher
	}

	return nil
}

// mustCheck panics with the error from Check.
func mustCheck(data []byte, p Params) {
	if err := Check(data, p); err != nil {
		panic(err)
	}
}

func xorBlock(dst, src []byte) {
	_ = dst[blockcipher.BlockSize-1]
	_ = src[blockcipher.BlockSize-1]

	for i := range blockcipher.BlockSize {
		dst[i] ^= src[i]
	}
}
