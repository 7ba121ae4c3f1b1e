package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/sectorc/internal/config"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
// Mode, cipher and unit size are read from each envelope.
func NewDecryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "decrypt [flags] files...",
		Aliases: []string{"dec"},
		Short:   "Decrypt files",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Decrypt = true

			return preRun(cfg)(cmd, args)
		},
		RunE: run(cfg),
	}
}
