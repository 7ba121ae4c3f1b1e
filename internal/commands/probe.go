package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/sectorc/internal/config"
	"github.com/idelchi/sectorc/internal/logic"
	"github.com/idelchi/sectorc/pkg/blockcipher"
	"github.com/idelchi/sectorc/pkg/ciphermode"
)

// NewProbeCommand creates a new cobra command for the probe subcommand.
func NewProbeCommand() *cobra.Command {
	var (
		mode     string
		cipher   string
		unitSize int
		bit      int
	)

	cmd := &cobra.Command{
		Use:   "probe [flags]",
		Short: "Flip one ciphertext bit and report the damage per mode",
		Long: `Encrypts three zero data units under random keys, flips one bit of the middle
unit's ciphertext, decrypts and counts the damaged bytes and blocks per unit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			alg, err := blockcipher.ParseAlgorithm(cipher)
			if err != nil {
				return err
			}

			kinds := ciphermode.Kinds()

			if mode != "" {
				kind, err := ciphermode.ParseKind(mode)
				if err != nil {
					return err
				}

				kinds = []ciphermode.Kind{kind}
			}

			if bit < 0 {
				bit = 4 * unitSize
			}

			return logic.RunProbe(cmd.OutOrStdout(), kinds, alg, unitSize, bit)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Only probe this mode")
	cmd.Flags().StringVarP(&cipher, "cipher", "c", config.DefaultCipher, "Block cipher")
	cmd.Flags().IntVarP(&unitSize, "unit-size", "u", 128, "Data unit size in bytes")
	cmd.Flags().IntVar(&bit, "bit", -1, "Ciphertext bit of the middle unit to flip, defaults to the middle bit")

	return cmd
}
