// Package commands provides the command-line interface for the sectorc tool.
//
// It implements commands for:
//   - key generation
//   - encryption
//   - decryption
//   - diffusion probing
//   - listing the available ciphers and modes
//
// Flags and SECTORC_* environment variables are merged through viper
// and validated by the config package before any file is touched.
package commands
