// Package logic implements the commands on top of the encryption and cipher mode packages.
package logic

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-yaml"
	"github.com/sirupsen/logrus"

	"github.com/idelchi/sectorc/internal/config"
	"github.com/idelchi/sectorc/internal/encryption"
)

// Run encrypts or decrypts every configured file.
func Run(cfg *config.Config, logger logrus.FieldLogger) error {
	start := time.Now()

	proc, err := encryption.NewProcessor(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}
	defer proc.Close()

	processed, errored, inSize, outSize, err := proc.ProcessFiles()

	if cfg.Stats {
		PrintStats(os.Stderr, processed, errored, inSize, outSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running logic: %w", err)
	}

	return nil
}

// Show writes the configuration as YAML with secrets redacted.
func Show(w io.Writer, cfg *config.Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling configuration: %w", err)
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}

	return nil
}

// PrintStats writes a summary of a run.
//
//nolint:gosec // sizes are sums of file sizes and never negative
func PrintStats(w io.Writer, processed, errored int, inSize, outSize int64, duration time.Duration) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Processed:  %d\n", processed)
	fmt.Fprintf(w, "  Errors:     %d\n", errored)
	fmt.Fprintf(w, "  Input:      %s\n", humanize.IBytes(uint64(max(0, inSize))))
	fmt.Fprintf(w, "  Output:     %s\n", humanize.IBytes(uint64(max(0, outSize))))

	if seconds := duration.Seconds(); seconds > 0 {
		fmt.Fprintf(w, "  Throughput: %s/s\n", humanize.IBytes(uint64(float64(max(0, inSize))/seconds)))
	}

	fmt.Fprintf(w, "  Duration:   %s\n", duration.Round(time.Millisecond))
}
