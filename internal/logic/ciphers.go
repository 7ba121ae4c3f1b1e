package logic

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/idelchi/sectorc/pkg/blockcipher"
	"github.com/idelchi/sectorc/pkg/ciphermode"
)

// RunCiphers lists the block ciphers and cipher modes.
func RunCiphers(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "CIPHER\tKEY SIZES\tHARDWARE")

	for _, alg := range blockcipher.Algorithms() {
		sizes := make([]string, 0, len(alg.KeySizes()))
		for _, size := range alg.KeySizes() {
			sizes = append(sizes, fmt.Sprintf("%d", 8*size))
		}

		hardware := "no"
		if blockcipher.HardwareAccelerated(alg) {
			hardware = "yes"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\n", alg, strings.Join(sizes, "/"), hardware)
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "MODE\tDAMAGE ON ONE FLIPPED BIT")

	for _, kind := range ciphermode.Kinds() {
		fmt.Fprintf(tw, "%s\t%s\n", kind, damage(kind))
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing cipher list: %w", err)
	}

	return nil
}

func damage(kind ciphermode.Kind) string {
	switch kind {
	case ciphermode.KindCBC:
		return "its block, one bit of the next block"
	case ciphermode.KindPCBC:
		return "its block and the rest of the unit"
	case ciphermode.KindXTS:
		return "its block"
	case ciphermode.KindOFB:
		return "the flipped bit only"
	case ciphermode.KindElephant, ciphermode.KindElephantCBC:
		return "the whole unit"
	default:
		return "unknown"
	}
}
