package encryption

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/sectorc/internal/keys"
	"github.com/idelchi/sectorc/internal/logging"
	"github.com/idelchi/sectorc/pkg/blockcipher"
	"github.com/idelchi/sectorc/pkg/ciphermode"
)

// cipherPair is the data and tweak cipher owned by one worker.
type cipherPair struct {
	data  blockcipher.Block
	tweak blockcipher.Block
}

// pipeline transforms segments of whole units, splitting each segment across workers.
type pipeline struct {
	mode     ciphermode.Mode
	iv       ciphermode.BlockIV
	unitSize int
	pairs    []cipherPair
	logger   logrus.FieldLogger
}

// newPipeline keys one cipher pair per worker from the key set.
func newPipeline(
	mode ciphermode.Mode,
	alg blockcipher.Algorithm,
	set *keys.Set,
	iv ciphermode.BlockIV,
	unitSize, workers int,
	logger logrus.FieldLogger,
) (*pipeline, error) {
	p := &pipeline{
		mode:     mode,
		iv:       iv,
		unitSize: unitSize,
		logger:   logger,
	}

	for range max(1, workers) {
		data, err := blockcipher.NewKeyed(alg, set.Data)
		if err != nil {
			p.close()

			return nil, fmt.Errorf("keying data cipher: %w", err)
		}

		tweak, err := blockcipher.NewKeyed(alg, set.Tweak)
		if err != nil {
			data.Reset()
			p.close()

			return nil, fmt.Errorf("keying tweak cipher: %w", err)
		}

		p.pairs = append(p.pairs, cipherPair{data: data, tweak: tweak})
	}

	return p, nil
}

// transform encrypts or decrypts buf in place. buf holds whole units starting at unit start.
func (p *pipeline) transform(buf []byte, start uint64, encrypt bool) error {
	units := len(buf) / p.unitSize
	if units == 0 {
		return nil
	}

	workers := min(len(p.pairs), units)
	perWorker := (units + workers - 1) / workers

	p.logger.WithFields(logging.Segment(start, units, workers)).Trace("transforming segment")

	var group errgroup.Group

	for w := range workers {
		first := w * perWorker
		if first >= units {
			break
		}

		last := min(first+perWorker, units)
		pair := p.pairs[w]

		group.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: units %d-%d: %v", ErrProcessing, start+uint64(first), start+uint64(last), r)
				}
			}()

			params := ciphermode.Params{
				Cipher:    pair.data,
				Tweak:     pair.tweak,
				StartUnit: start + uint64(first),
				UnitSize:  p.unitSize,
				IV:        p.iv,
			}

			chunk := buf[first*p.unitSize : last*p.unitSize]

			if encrypt {
				p.mode.Encrypt(chunk, params)
			} else {
				p.mode.Decrypt(chunk, params)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("transforming units: %w", err)
	}

	return nil
}

// close discards every key schedule.
func (p *pipeline) close() {
	for _, pair := range p.pairs {
		pair.data.Reset()
		pair.tweak.Reset()
	}
}
