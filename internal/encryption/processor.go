package encryption

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/sectorc/internal/config"
	"github.com/idelchi/sectorc/internal/fileutil"
	"github.com/idelchi/sectorc/internal/keys"
	"github.com/idelchi/sectorc/internal/logging"
)

// Processor handles the encryption and decryption of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// keys resolves the master key of each envelope
	keys keySource

	// opts are the stream parameters for new envelopes
	opts streamOptions

	logger logrus.FieldLogger

	// out receives the per-file progress lines
	out io.Writer

	// results channels processing outcomes to the printer goroutine
	results chan Result
}

// NewProcessor creates a new Processor with the given configuration.
func NewProcessor(cfg *config.Config, logger logrus.FieldLogger) (*Processor, error) {
	source, err := newKeySource(cfg.Key)
	if err != nil {
		return nil, err
	}

	processor := &Processor{
		cfg:     cfg,
		keys:    source,
		logger:  logger,
		out:     os.Stdout,
		results: make(chan Result, len(cfg.Files)),
		opts:    streamOptions{workers: cfg.Workers},
	}

	if cfg.Decrypt {
		return processor, nil
	}

	if processor.opts.mode, err = cfg.Encrypt.Kind(); err != nil {
		return nil, err
	}

	if processor.opts.cipher, err = cfg.Encrypt.Algorithm(); err != nil {
		return nil, err
	}

	if processor.opts.kdf, err = cfg.Encrypt.Derivation(); err != nil {
		return nil, err
	}

	if source.passphrase != nil && processor.opts.kdf == keys.KDFNone {
		return nil, fmt.Errorf("%w: a passphrase needs a key derivation function", ErrKeySource)
	}

	processor.opts.unitSize = cfg.Encrypt.UnitSize

	return processor, nil
}

// Close wipes the key material held by the processor.
func (p *Processor) Close() {
	p.keys.wipe()
}

// ProcessFiles concurrently processes all files specified in the configuration.
// Returns the number of successfully processed files, the number of errors and the
// total input and output sizes.
//
//nolint:cyclop,gocognit
func (p *Processor) ProcessFiles() (processed, errored int, inSize, outSize int64, err error) {
	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			entry := p.logger.WithField(logging.FieldFile, result.Input)

			if result.Error != nil {
				errored++

				entry.WithError(result.Error).Error("processing failed")

				continue
			}

			processed++

			inSize += result.InputSize
			outSize += result.OutputSize

			if !p.cfg.Quiet {
				fmt.Fprintf(p.out, "Processed %q -> %q\n", result.Input, result.Output)
			}

			if !p.cfg.Delete {
				continue
			}

			if err := os.Remove(result.Input); err != nil {
				entry.WithError(err).Error("deleting input failed")
			} else if !p.cfg.Quiet {
				fmt.Fprintf(p.out, "Deleted %q\n", result.Input)
			}
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			outPath := fileutil.OutputPath(file, p.cfg.Decrypt, p.cfg.Suffixes.Encrypt, p.cfg.Suffixes.Decrypt)

			in, out, err := p.processFile(file, outPath)
			if err != nil {
				p.results <- Result{Input: file, Error: err}

				return err
			}

			p.results <- Result{Input: file, Output: outPath, InputSize: in, OutputSize: out}

			return nil
		})
	}

	err = group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	if err != nil {
		return processed, errored, inSize, outSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, inSize, outSize, nil
}

// processFile handles the encryption or decryption of a single file.
// It writes to a temporary file and renames it onto outPath only on success.
func (p *Processor) processFile(filename, outPath string) (inSize, outSize int64, err error) {
	if filepath.Clean(filename) == filepath.Clean(outPath) {
		return 0, 0, fmt.Errorf("output %q would overwrite the input", outPath)
	}

	atomic, err := fileutil.NewAtomic(filename, outPath)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing atomic write: %w", err)
	}

	defer atomic.Abort(&err)

	inFile, err := os.Open(filepath.Clean(filename))
	if err != nil {
		return 0, 0, fmt.Errorf("opening input file: %w", err)
	}
	defer inFile.Close()

	inSize = atomic.Source.Size()
	logger := p.logger.WithField(logging.FieldFile, filename)

	executable := atomic.Executable

	if p.cfg.Decrypt {
		logger.Debug("decrypting")

		if executable, err = p.decryptStream(inFile, atomic.File); err != nil {
			return 0, 0, fmt.Errorf("decrypting file: %w", err)
		}
	} else {
		logger.WithFields(logging.Stream(p.opts.mode, p.opts.cipher, p.opts.unitSize)).Debug("encrypting")

		if err = p.encryptStream(inFile, atomic.File, inSize, executable); err != nil {
			return 0, 0, fmt.Errorf("encrypting file: %w", err)
		}
	}

	if err = inFile.Close(); err != nil {
		return 0, 0, fmt.Errorf("closing input file: %w", err)
	}

	outSize, err = atomic.Commit(executable, p.cfg.PreserveTimestamps)
	if err != nil {
		return 0, 0, fmt.Errorf("finalizing output: %w", err)
	}

	return inSize, outSize, nil
}
