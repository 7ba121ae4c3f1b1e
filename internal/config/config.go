// Package config holds the command line configuration and its validation.
package config

import (
	"errors"
	"fmt"

	"github.com/idelchi/sectorc/internal/keys"
	"github.com/idelchi/sectorc/pkg/blockcipher"
	"github.com/idelchi/sectorc/pkg/ciphermode"
)

// ErrUsage is returned when the configuration fails validation.
var ErrUsage = errors.New("invalid configuration")

// Defaults for the encrypt command.
const (
	DefaultMode     = "xts"
	DefaultCipher   = "aes"
	DefaultUnitSize = 4096
	DefaultKDF      = "scrypt"
	MaxUnitSize     = 1 << 20
)

// Key selects where the master key comes from.
type Key struct {
	// Hex is the master key, hex encoded.
	Hex string `label:"--key" mapstructure:"key" validate:"exclusive=--key-file --passphrase"`
	// File is a path to a file containing the hex master key.
	File string `label:"--key-file" mapstructure:"key-file" validate:"exclusive=--passphrase"`
	// Passphrase is stretched into the master key with a per-file salt.
	Passphrase string `label:"--passphrase" mapstructure:"passphrase"`
}

// Set reports whether any key source was given.
func (k Key) Set() bool {
	return k.Hex != "" || k.File != "" || k.Passphrase != ""
}

// MarshalYAML prints which source is used without revealing it.
func (k Key) MarshalYAML() (any, error) {
	redact := func(s string) string {
		if s == "" {
			return ""
		}

		return "<redacted>"
	}

	return map[string]string{
		"key":        redact(k.Hex),
		"key-file":   k.File,
		"passphrase": redact(k.Passphrase),
	}, nil
}

// Suffixes controls output file naming.
type Suffixes struct {
	// Encrypt is appended to encrypted files and stripped on decryption.
	Encrypt string `label:"--encrypt-ext" mapstructure:"encrypt-ext" validate:"required" yaml:"encrypt"`
	// Decrypt is appended to decrypted files after stripping Encrypt.
	Decrypt string `label:"--decrypt-ext" mapstructure:"decrypt-ext" yaml:"decrypt"`
}

// Log configures the logger.
type Log struct {
	Level  string `label:"--log-level"  mapstructure:"log-level"  validate:"oneof=trace debug info warn warning error fatal panic" yaml:"level"`
	Format string `label:"--log-format" mapstructure:"log-format" validate:"oneof=text json"                                      yaml:"format"`
}

// Encrypt holds the stream parameters chosen at encryption time.
// Decryption reads them from the envelope instead.
type Encrypt struct {
	Mode     string `label:"--mode"      mapstructure:"mode"      validate:"mode"     yaml:"mode"`
	Cipher   string `label:"--cipher"    mapstructure:"cipher"    validate:"cipher"   yaml:"cipher"`
	UnitSize int    `label:"--unit-size" mapstructure:"unit-size" validate:"unitsize" yaml:"unit-size"`
	KDF      string `label:"--kdf"       mapstructure:"kdf"       validate:"kdf"      yaml:"kdf"`
}

// Kind returns the parsed cipher mode.
func (e Encrypt) Kind() (ciphermode.Kind, error) {
	return ciphermode.ParseKind(e.Mode)
}

// Algorithm returns the parsed block cipher.
func (e Encrypt) Algorithm() (blockcipher.Algorithm, error) {
	return blockcipher.ParseAlgorithm(e.Cipher)
}

// Derivation returns the parsed passphrase KDF.
func (e Encrypt) Derivation() (keys.KDF, error) {
	return keys.ParseKDF(e.KDF)
}

// Config holds the configuration of one invocation.
type Config struct {
	// Show prints the configuration and exits.
	Show bool `yaml:"-"`

	Key Key `mapstructure:",squash" yaml:"key"`

	// Parallel is the number of files processed at once.
	Parallel int `label:"--parallel" validate:"min=1" yaml:"parallel"`
	// Workers is the number of goroutines transforming unit ranges within one file.
	Workers int `label:"--workers" validate:"min=1" yaml:"workers"`

	Quiet              bool `yaml:"quiet"`
	Delete             bool `yaml:"delete"`
	Stats              bool `yaml:"stats"`
	PreserveTimestamps bool `mapstructure:"preserve-timestamps" yaml:"preserve-timestamps"`

	Suffixes Suffixes `mapstructure:",squash" yaml:"suffixes"`
	Log      Log      `mapstructure:",squash" yaml:"log"`
	Encrypt  Encrypt  `mapstructure:",squash" validate:"-" yaml:"encrypt"`

	// Decrypt is set by the decrypt command.
	Decrypt bool `mapstructure:"-" yaml:"decrypt"`

	// Files are the positional arguments.
	Files []string `label:"files" mapstructure:"-" validate:"min=1" yaml:"files"`
}

// Validate checks the configuration of the encrypt and decrypt commands.
func (c *Config) Validate() error {
	validate, err := newValidator()
	if err != nil {
		return err
	}

	if errs := validate.Validate(c); len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrUsage, errors.Join(errs...))
	}

	if !c.Key.Set() {
		return fmt.Errorf("%w: one of --key, --key-file or --passphrase is required", ErrUsage)
	}

	if c.Decrypt {
		return nil
	}

	if errs := validate.Validate(c.Encrypt); len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrUsage, errors.Join(errs...))
	}

	return nil
}
