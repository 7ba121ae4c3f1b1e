package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/sectorc/internal/config"
	"github.com/idelchi/sectorc/internal/logging"
	"github.com/idelchi/sectorc/internal/logic"
)

// NewRootCommand creates the root command with common configuration.
// Environment variables are read with the SECTORC_ prefix, derived from the command name.
func NewRootCommand(version string) *cobra.Command {
	cfg := &config.Config{}

	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "sectorc [flags] command [flags]"
	root.Short = "Sector-oriented file encryption"
	root.Long = `A file encryption utility built on sector cipher modes.
Files are split into fixed-size data units, each encrypted independently with
CBC, PCBC, XTS, OFB or the Elephant diffuser, and sealed in an authenticated envelope.`

	flags := root.PersistentFlags()

	flags.BoolP("show", "s", false, "Show the configuration and exit")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of files processed in parallel, defaults to number of CPUs")
	flags.IntP("workers", "w", runtime.NumCPU(), "Number of workers transforming unit ranges within one file")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("delete", false, "Delete the original file after successful encryption/decryption")
	flags.Bool("stats", false, "Print a summary when done")
	flags.Bool("preserve-timestamps", false, "Copy the modification time of the input to the output")

	flags.StringP("key", "k", "", "Master key (32 bytes, hex-encoded)")
	flags.StringP("key-file", "f", "", "Path to the key file with the master key (32 bytes, hex-encoded)")
	flags.StringP("passphrase", "p", "", "Passphrase stretched into the master key")

	flags.String("encrypt-ext", ".sect", "Suffix to append to encrypted files")
	flags.String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")

	flags.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")

	root.AddCommand(
		NewKeygenCommand(),
		NewEncryptCommand(cfg),
		NewDecryptCommand(cfg),
		NewProbeCommand(),
		NewCiphersCommand(),
	)

	return root
}

// preRun returns a PreRunE handler that unmarshals the flags and environment bound by the
// root command into cfg, resolves positional args into cfg.Files and validates the configuration.
func preRun(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		decrypt := cfg.Decrypt

		if err := viper.Unmarshal(cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}

		cfg.Decrypt = decrypt
		cfg.Files = args

		if cfg.Show {
			return nil
		}

		return cfg.Validate()
	}
}

// run shows the configuration or processes the files.
func run(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if cfg.Show {
			return logic.Show(cmd.OutOrStdout(), cfg)
		}

		logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}

		return logic.Run(cfg, logger)
	}
}
