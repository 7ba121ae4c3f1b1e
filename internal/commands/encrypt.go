package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/sectorc/internal/config"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encrypt [flags] files...",
		Aliases: []string{"enc"},
		Short:   "Encrypt files",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg),
		RunE:    run(cfg),
	}

	cmd.Flags().StringP("mode", "m", config.DefaultMode, "Cipher mode (cbc, pcbc, xts, ofb, elephant, elephant-cbc)")
	cmd.Flags().StringP("cipher", "c", config.DefaultCipher, "Block cipher (aes, serpent, twofish)")
	cmd.Flags().IntP("unit-size", "u", config.DefaultUnitSize, "Data unit size in bytes, a multiple of 16")
	cmd.Flags().String("kdf", config.DefaultKDF, "Passphrase key derivation (scrypt, pbkdf2, argon2)")

	return cmd
}
