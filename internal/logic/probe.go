package logic

import (
	"crypto/rand"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/sectorc/pkg/blockcipher"
	"github.com/idelchi/sectorc/pkg/ciphermode"
)

// probeUnits is the number of zero units encrypted per probe; the bit is flipped in the middle one.
const probeUnits = 3

// Damage counts the plaintext bytes and blocks that differ from zero in one unit.
type Damage struct {
	Bytes  int
	Blocks int
}

// ProbeResult is the per-unit damage after flipping one ciphertext bit in unit 1.
type ProbeResult struct {
	Kind  ciphermode.Kind
	Units [probeUnits]Damage
}

// Probe encrypts three zero units under random keys, flips ciphertext bit bit of unit 1,
// decrypts and measures the damage.
func Probe(kind ciphermode.Kind, alg blockcipher.Algorithm, unitSize, bit int) (ProbeResult, error) {
	result := ProbeResult{Kind: kind}

	if bit < 0 || bit >= 8*unitSize {
		return result, fmt.Errorf("bit %d outside a %d-byte unit", bit, unitSize)
	}

	random := func(n int) ([]byte, error) {
		raw := make([]byte, n)
		_, err := io.ReadFull(rand.Reader, raw)

		return raw, err
	}

	material, err := random(2*alg.MaxKeySize() + 16 + 32)
	if err != nil {
		return result, fmt.Errorf("generating keys: %w", err)
	}

	size := alg.MaxKeySize()

	data, err := blockcipher.NewKeyed(alg, blockcipher.NewSecretKey(material[:size]))
	if err != nil {
		return result, err
	}
	defer data.Reset()

	tweakCipher, err := blockcipher.NewKeyed(alg, blockcipher.NewSecretKey(material[size:2*size]))
	if err != nil {
		return result, err
	}
	defer tweakCipher.Reset()

	iv, err := ciphermode.BlockIVFromBytes(material[2*size : 2*size+16])
	if err != nil {
		return result, err
	}

	streamTweak, err := ciphermode.StreamTweakFromBytes(material[2*size+16:])
	if err != nil {
		return result, err
	}

	mode, err := ciphermode.New(kind, streamTweak)
	if err != nil {
		return result, err
	}

	params := ciphermode.Params{
		Cipher:   data,
		Tweak:    tweakCipher,
		UnitSize: unitSize,
		IV:       iv,
	}

	buf := make([]byte, probeUnits*unitSize)
	if err := ciphermode.Check(buf, params); err != nil {
		return result, err
	}

	mode.Encrypt(buf, params)

	pos := unitSize + bit/8
	buf[pos] ^= 1 << (bit % 8)

	mode.Decrypt(buf, params)

	for u := range probeUnits {
		unit := buf[u*unitSize : (u+1)*unitSize]

		for b := 0; b < unitSize; b += blockcipher.BlockSize {
			damaged := false

			for _, v := range unit[b : b+blockcipher.BlockSize] {
				if v != 0 {
					result.Units[u].Bytes++
					damaged = true
				}
			}

			if damaged {
				result.Units[u].Blocks++
			}
		}
	}

	return result, nil
}

// RunProbe probes every kind and writes a damage table.
func RunProbe(w io.Writer, kinds []ciphermode.Kind, alg blockcipher.Algorithm, unitSize, bit int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "MODE\tUNIT 0\tUNIT 1 BYTES\tUNIT 1 BLOCKS\tUNIT 2\t\n")

	for _, kind := range kinds {
		result, err := Probe(kind, alg, unitSize, bit)
		if err != nil {
			return fmt.Errorf("probing %s: %w", kind, err)
		}

		fmt.Fprintf(tw, "%s\t%s\t%s/%s\t%d/%d\t%s\t\n",
			kind,
			humanize.Comma(int64(result.Units[0].Bytes)),
			humanize.Comma(int64(result.Units[1].Bytes)), humanize.Comma(int64(unitSize)),
			result.Units[1].Blocks, unitSize/blockcipher.BlockSize,
			humanize.Comma(int64(result.Units[2].Bytes)),
		)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing probe report: %w", err)
	}

	return nil
}
