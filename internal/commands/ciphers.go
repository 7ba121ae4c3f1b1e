package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/sectorc/internal/logic"
)

// NewCiphersCommand creates a new cobra command for the ciphers subcommand.
func NewCiphersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ciphers",
		Short: "List block ciphers and cipher modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunCiphers(cmd.OutOrStdout())
		},
	}
}
