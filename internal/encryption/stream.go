package encryption

import (
	"bufio"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/idelchi/sectorc/internal/keys"
	"github.com/idelchi/sectorc/internal/logging"
	"github.com/idelchi/sectorc/pkg/blockcipher"
	"github.com/idelchi/sectorc/pkg/ciphermode"
)

// streamOptions are the parameters chosen for a new envelope.
type streamOptions struct {
	mode     ciphermode.Kind
	cipher   blockcipher.Algorithm
	kdf      keys.KDF
	unitSize int
	workers  int
}

func randomParams() (streamParams, error) {
	raw := make([]byte, streamParamsSize)

	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return streamParams{}, fmt.Errorf("generating stream parameters: %w", err)
	}

	return parseStreamParams(raw)
}

// encryptStream writes the envelope of the size bytes read from reader.
//
//nolint:funlen,cyclop
func (p *Processor) encryptStream(reader io.Reader, writer io.Writer, size int64, executable bool) error {
	opts := p.opts

	h := header{
		executable: executable,
		mode:       opts.mode,
		cipher:     opts.cipher,
		kdf:        p.keys.kdfFor(opts.kdf),
		unitSize:   uint32(opts.unitSize), //nolint:gosec // validated unit size
		size:       uint64(size),          //nolint:gosec // file sizes are non-negative
	}

	if h.kdf != keys.KDFNone {
		salt, err := keys.NewSalt()
		if err != nil {
			return err
		}

		copy(h.salt[:], salt)
	}

	set, err := p.keys.expand(h)
	if err != nil {
		return err
	}
	defer set.Reset()

	params, err := randomParams()
	if err != nil {
		return err
	}

	fixed := h.marshal()

	sealer, err := newSealer(set.SIV)
	if err != nil {
		return err
	}

	sealed, err := sealParams(sealer, params, fixed)
	if err != nil {
		return err
	}

	mac := hmac.New(sha256.New, set.MAC)
	out := io.MultiWriter(writer, mac)

	var sealedLen [2]byte

	binary.BigEndian.PutUint16(sealedLen[:], uint16(len(sealed))) //nolint:gosec // AES-SIV output is 64 bytes

	for _, part := range [][]byte{fixed, sealedLen[:], sealed} {
		if _, err := out.Write(part); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	mode, err := ciphermode.New(h.mode, params.tweak)
	if err != nil {
		return err
	}

	pipe, err := newPipeline(mode, h.cipher, set, params.iv, opts.unitSize, opts.workers, p.logger)
	if err != nil {
		return err
	}
	defer pipe.close()

	buf, ok := bufferPool.Get().([]byte)
	if !ok {
		return errors.New("invalid buffer type from pool") //nolint:err113
	}

	defer bufferPool.Put(buf) //nolint:staticcheck

	segLen := segmentLength(opts.unitSize)

	var (
		read int64
		unit uint64
	)

	for {
		n, readErr := io.ReadFull(reader, buf[:segLen])
		if n > 0 {
			read += int64(n)
			if read > size {
				return fmt.Errorf("%w: expected %d bytes", ErrInputChanged, size)
			}

			padded := (n + opts.unitSize - 1) / opts.unitSize * opts.unitSize
			clear(buf[n:padded])

			if err := pipe.transform(buf[:padded], unit, true); err != nil {
				return err
			}

			if _, err := out.Write(buf[:padded]); err != nil {
				return fmt.Errorf("writing ciphertext: %w", err)
			}

			unit += uint64(padded / opts.unitSize) //nolint:gosec // positive
		}

		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}

		if readErr != nil {
			return fmt.Errorf("reading plaintext: %w", readErr)
		}
	}

	if read != size {
		return fmt.Errorf("%w: expected %d bytes, read %d", ErrInputChanged, size, read)
	}

	if _, err := writer.Write(mac.Sum(nil)); err != nil {
		return fmt.Errorf("writing authentication tag: %w", err)
	}

	return nil
}

// decryptStream writes the plaintext of the envelope read from reader and reports the executable flag.
// Plaintext is written before the tag is checked; callers must discard the output on error.
//
//nolint:funlen,cyclop
func (p *Processor) decryptStream(reader io.Reader, writer io.Writer) (bool, error) {
	bufReader := bufio.NewReader(reader)

	fixed := make([]byte, envelopeHeaderSize)
	if _, err := io.ReadFull(bufReader, fixed); err != nil {
		return false, fmt.Errorf("%w: reading header: %w", ErrProcessing, err)
	}

	h, err := parseHeader(fixed)
	if err != nil {
		return false, err
	}

	var sealedLen [2]byte
	if _, err := io.ReadFull(bufReader, sealedLen[:]); err != nil {
		return false, fmt.Errorf("%w: reading sealed parameters: %w", ErrProcessing, err)
	}

	n := binary.BigEndian.Uint16(sealedLen[:])
	if n > maxSealedSize {
		return false, fmt.Errorf("%w: sealed parameters too large", ErrProcessing)
	}

	sealed := make([]byte, n)
	if _, err := io.ReadFull(bufReader, sealed); err != nil {
		return false, fmt.Errorf("%w: reading sealed parameters: %w", ErrProcessing, err)
	}

	set, err := p.keys.expand(h)
	if err != nil {
		return false, err
	}
	defer set.Reset()

	sealer, err := newSealer(set.SIV)
	if err != nil {
		return false, err
	}

	params, err := openParams(sealer, sealed, fixed)
	if err != nil {
		return false, err
	}

	mac := hmac.New(sha256.New, set.MAC)
	mac.Write(fixed)
	mac.Write(sealedLen[:])
	mac.Write(sealed)

	mode, err := ciphermode.New(h.mode, params.tweak)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	unitSize := int(h.unitSize)

	p.logger.WithFields(logging.Stream(h.mode, h.cipher, unitSize)).Debug("decrypting envelope")

	pipe, err := newPipeline(mode, h.cipher, set, params.iv, unitSize, p.opts.workers, p.logger)
	if err != nil {
		return false, err
	}
	defer pipe.close()

	buf, ok := bufferPool.Get().([]byte)
	if !ok {
		return false, errors.New("invalid buffer type from pool") //nolint:err113
	}

	defer bufferPool.Put(buf) //nolint:staticcheck

	segLen := uint64(segmentLength(unitSize)) //nolint:gosec // positive

	var unit uint64

	for remaining, plainLeft := h.bodySize(), h.size; remaining > 0; {
		chunk := buf[:min(segLen, remaining)]

		if _, err := io.ReadFull(bufReader, chunk); err != nil {
			return false, fmt.Errorf("%w: body truncated: %w", ErrProcessing, err)
		}

		mac.Write(chunk)

		if err := pipe.transform(chunk, unit, false); err != nil {
			return false, err
		}

		keep := min(uint64(len(chunk)), plainLeft)

		if _, err := writer.Write(chunk[:keep]); err != nil {
			return false, fmt.Errorf("writing plaintext: %w", err)
		}

		plainLeft -= keep
		remaining -= uint64(len(chunk))
		unit += uint64(len(chunk) / unitSize) //nolint:gosec // positive
	}

	tag := make([]byte, envelopeTagSize)
	if _, err := io.ReadFull(bufReader, tag); err != nil {
		return false, fmt.Errorf("%w: authentication tag missing", ErrProcessing)
	}

	if _, err := bufReader.ReadByte(); !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("%w: trailing data after authentication tag", ErrProcessing)
	}

	if err := verifyTag(mac.Sum(nil), tag); err != nil {
		return false, err
	}

	return h.executable, nil
}
