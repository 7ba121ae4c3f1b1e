package config_test

import (
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/sectorc/internal/config"
	"github.com/idelchi/sectorc/internal/keys"
	"github.com/idelchi/sectorc/pkg/blockcipher"
	"github.com/idelchi/sectorc/pkg/ciphermode"
)

func valid() config.Config {
	return config.Config{
		Key:      config.Key{Hex: strings.Repeat("00", 32)},
		Parallel: 2,
		Workers:  4,
		Suffixes: config.Suffixes{Encrypt: ".sect"},
		Log:      config.Log{Level: "info", Format: "text"},
		Encrypt: config.Encrypt{
			Mode:     config.DefaultMode,
			Cipher:   config.DefaultCipher,
			UnitSize: config.DefaultUnitSize,
			KDF:      config.DefaultKDF,
		},
		Files: []string{"a.txt"},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "passphrase only", mutate: func(c *config.Config) {
			c.Key = config.Key{Passphrase: "pw"}
		}},
		{name: "no key", mutate: func(c *config.Config) {
			c.Key = config.Key{}
		}, wantErr: "one of --key"},
		{name: "key and passphrase", mutate: func(c *config.Config) {
			c.Key.Passphrase = "pw"
		}, wantErr: "--key is mutually exclusive with --key-file --passphrase"},
		{name: "key file and passphrase", mutate: func(c *config.Config) {
			c.Key = config.Key{File: "key.hex", Passphrase: "pw"}
		}, wantErr: "--key-file is mutually exclusive"},
		{name: "no files", mutate: func(c *config.Config) {
			c.Files = nil
		}, wantErr: "files must contain at least 1 item"},
		{name: "zero workers", mutate: func(c *config.Config) {
			c.Workers = 0
		}, wantErr: "--workers must be 1 or greater"},
		{name: "bad log format", mutate: func(c *config.Config) {
			c.Log.Format = "xml"
		}, wantErr: "--log-format must be one of"},
		{name: "unaligned unit size", mutate: func(c *config.Config) {
			c.Encrypt.UnitSize = 100
		}, wantErr: "--unit-size must be a multiple of 16"},
		{name: "huge unit size", mutate: func(c *config.Config) {
			c.Encrypt.UnitSize = 2 * config.MaxUnitSize
		}, wantErr: "--unit-size"},
		{name: "unknown mode", mutate: func(c *config.Config) {
			c.Encrypt.Mode = "ecb"
		}, wantErr: "--mode must be one of"},
		{name: "unknown cipher", mutate: func(c *config.Config) {
			c.Encrypt.Cipher = "des"
		}, wantErr: "--cipher must be one of"},
		{name: "unknown kdf", mutate: func(c *config.Config) {
			c.Encrypt.KDF = "md5"
		}, wantErr: "--kdf must be one of"},
		{name: "kdf none", mutate: func(c *config.Config) {
			c.Key = config.Key{Passphrase: "pw"}
			c.Encrypt.KDF = "none"
		}, wantErr: "--kdf must be one of [scrypt pbkdf2 argon2]"},
		{name: "decrypt ignores encrypt parameters", mutate: func(c *config.Config) {
			c.Decrypt = true
			c.Encrypt = config.Encrypt{}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, config.ErrUsage)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestEncryptParsers(t *testing.T) {
	t.Parallel()

	enc := config.Encrypt{Mode: "Elephant-CBC", Cipher: "twofish", KDF: "argon2"}

	kind, err := enc.Kind()
	require.NoError(t, err)
	assert.Equal(t, ciphermode.KindElephantCBC, kind)

	alg, err := enc.Algorithm()
	require.NoError(t, err)
	assert.Equal(t, blockcipher.Twofish, alg)

	kdf, err := enc.Derivation()
	require.NoError(t, err)
	assert.Equal(t, keys.KDFArgon2, kdf)
}

func TestShowRedactsSecrets(t *testing.T) {
	t.Parallel()

	cfg := valid()
	cfg.Key = config.Key{Hex: "deadbeef", Passphrase: ""}

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	assert.NotContains(t, string(out), "deadbeef")
	assert.Contains(t, string(out), "<redacted>")
	assert.Contains(t, string(out), "unit-size: 4096")
}
