package blockcipher

import (
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"runtime"
)

// SecretKey is an owned copy of raw key bytes.
// It never prints or serializes its contents; Reset zeroes the backing array.
type SecretKey struct {
	bytes []byte
	reset bool
}

// NewSecretKey copies key into a new SecretKey. The caller keeps ownership of key.
func NewSecretKey(key []byte) *SecretKey {
	buf := make([]byte, len(key))
	copy(buf, key)

	return &SecretKey{bytes: buf}
}

// SecretKeyFromWords packs the parts big-endian, 4 bytes each.
func SecretKeyFromWords(parts ...uint32) *SecretKey {
	buf := make([]byte, 4*len(parts))

	for i, part := range parts {
		binary.BigEndian.PutUint32(buf[4*i:], part)
	}

	return &SecretKey{bytes: buf}
}

// SecretKeyFromUint64s packs the parts big-endian, 8 bytes each.
func SecretKeyFromUint64s(parts ...uint64) *SecretKey {
	buf := make([]byte, 8*len(parts))

	for i, part := range parts {
		binary.BigEndian.PutUint64(buf[8*i:], part)
	}

	return &SecretKey{bytes: buf}
}

// Len returns the key length in bytes.
func (k *SecretKey) Len() int {
	return len(k.bytes)
}

// IsReset reports whether Reset has been called.
func (k *SecretKey) IsReset() bool {
	return k.reset
}

// Reset overwrites the key bytes with zeros. The key cannot be used to initialize a cipher afterwards.
func (k *SecretKey) Reset() {
	if k == nil {
		return
	}

	zeros := make([]byte, len(k.bytes))
	subtle.ConstantTimeCopy(1, k.bytes, zeros)

	runtime.KeepAlive(k.bytes)

	k.reset = true
}

// material returns the backing slice for key schedules inside this package.
func (k *SecretKey) material() ([]byte, error) {
	if k == nil || k.reset {
		return nil, ErrKeyReset
	}

	return k.bytes, nil
}

// String implements fmt.Stringer without revealing key material.
func (k *SecretKey) String() string {
	if k == nil {
		return "SecretKey(nil)"
	}

	return fmt.Sprintf("SecretKey(%d bytes, redacted)", len(k.bytes))
}

// GoString implements fmt.GoStringer without revealing key material.
func (k *SecretKey) GoString() string {
	return k.String()
}

// Format makes every fmt verb print the redacted form.
func (k *SecretKey) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, k.String()) //nolint:errcheck
}

// MarshalText always fails; keys must never be serialized.
func (k *SecretKey) MarshalText() ([]byte, error) {
	return nil, ErrKeyNotSerializable
}

// MarshalJSON always fails; keys must never be serialized.
func (k *SecretKey) MarshalJSON() ([]byte, error) {
	return nil, ErrKeyNotSerializable
}
