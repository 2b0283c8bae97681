// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
)

// Key backend names accepted by [Vault.KeyBackend].
const (
	KeyBackendMemory  = "memory"
	KeyBackendKeyring = "keyring"
	KeyBackendFile    = "file"
)

// Storage drivers accepted by [Storage.Driver].
const (
	StorageDriverSQLite = "sqlite"
	StorageDriverFile   = "file"
)

const appDirName = "go-vault-keeper"

// StructuredConfig is the top-level configuration container. It is
// populated by merging defaults, an optional JSON file, environment
// variables and command-line flags.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Vault holds master key settings.
	Vault Vault `envPrefix:"VAULT_"`

	// Storage holds the persisted item store settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds background worker settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Log holds logging settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Vault configures the master key and its key store.
type Vault struct {
	// KeyID is the well-known identifier of the master key.
	// Env: VAULT_KEY_ID
	KeyID string `env:"KEY_ID"`

	// KeyBackend selects the key store: "memory", "keyring" or "file".
	// Env: VAULT_KEY_BACKEND
	KeyBackend string `env:"KEY_BACKEND"`

	// KeyDir is the directory of the "file" backend, of the keyring's
	// encrypted-file fallback and of the keyring's key creation lock.
	// Env: VAULT_KEY_DIR
	KeyDir string `env:"KEY_DIR"`

	// Passphrase unlocks file-based key storage. The keyring backend only
	// falls back to a file when it is set. It is not available as a flag.
	// Env: VAULT_PASSPHRASE
	Passphrase string `env:"PASSPHRASE"`

	// ServiceName names the vault's entries in the OS credential store.
	// Env: VAULT_SERVICE_NAME
	ServiceName string `env:"SERVICE_NAME"`
}

// Storage configures the persisted item store.
type Storage struct {
	// Driver selects the store implementation: "sqlite" or "file".
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the SQLite database path or the JSON store file path.
	// ":memory:" keeps everything in process memory.
	// Env: STORAGE_DSN
	DSN string `env:"DSN"`
}

// Workers configures background workers.
type Workers struct {
	// AuditInterval is how often the integrity audit worker decrypts every
	// record to find unreadable ones.
	// Env: WORKERS_AUDIT_INTERVAL
	AuditInterval time.Duration `env:"AUDIT_INTERVAL"`
}

// Log configures logging.
type Log struct {
	// File is the path of the JSON log file.
	// Env: LOG_FILE
	File string `env:"FILE"`
}

// Load assembles the configuration with the following priority (highest
// last): built-in defaults, JSON file, environment variables, flags.
// flagCfg is the struct filled by [BindFlags]; nil means no flags.
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func Load(flagCfg *StructuredConfig) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(flagCfg).
		withJSON().
		build()
}

// Defaults returns the built-in configuration.
func Defaults() *StructuredConfig {
	dir := defaultDataDir()

	return &StructuredConfig{
		Vault: Vault{
			KeyID:       "vault-master-key",
			KeyBackend:  KeyBackendKeyring,
			KeyDir:      filepath.Join(dir, "keys"),
			ServiceName: appDirName,
		},
		Storage: Storage{
			Driver: StorageDriverSQLite,
			DSN:    filepath.Join(dir, "vault.db"),
		},
		Workers: Workers{
			AuditInterval: 10 * time.Minute,
		},
		Log: Log{
			File: filepath.Join(dir, "vault.log"),
		},
	}
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, appDirName)
}

// BindFlags registers the configuration flags on fs and returns the struct
// they write into. Call [Load] with it after fs has been parsed.
//
// Flags:
//
//	-c/--config      JSON config file path
//	--key-id         master key identifier
//	--key-backend    memory | keyring | file
//	--key-dir        key directory for file-based key storage
//	--service-name   OS credential store service name
//	--storage-driver sqlite | file
//	-d/--dsn         item store path
//	--audit-interval integrity audit interval (e.g. "10m")
//	--log-file       log file path
func BindFlags(fs *pflag.FlagSet) *StructuredConfig {
	cfg := &StructuredConfig{}

	fs.StringVarP(&cfg.JSONFilePath, "config", "c", "", "JSON config file path")
	fs.StringVar(&cfg.Vault.KeyID, "key-id", "", "Master key identifier")
	fs.StringVar(&cfg.Vault.KeyBackend, "key-backend", "", "Key store: memory, keyring or file")
	fs.StringVar(&cfg.Vault.KeyDir, "key-dir", "", "Key directory for file-based key storage")
	fs.StringVar(&cfg.Vault.ServiceName, "service-name", "", "OS credential store service name")
	fs.StringVar(&cfg.Storage.Driver, "storage-driver", "", "Item store: sqlite or file")
	fs.StringVarP(&cfg.Storage.DSN, "dsn", "d", "", "Item store path")
	fs.DurationVar(&cfg.Workers.AuditInterval, "audit-interval", 0, "Integrity audit interval (e.g. 10m)")
	fs.StringVar(&cfg.Log.File, "log-file", "", "Log file path")

	return cfg
}
