// Package credentials stores and resolves the aggregation API key.
package credentials

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/zalando/go-keyring"

	skerrors "thoreinstein.com/skinscout/pkg/errors"
)

const (
	// KeyringService is the keychain service name for skinscout.
	KeyringService = "skinscout"
	// KeyringAccount is the keychain account name for the API key.
	KeyringAccount = "api-key"

	// EnvAPIKey overrides every other API key source.
	EnvAPIKey = "SKINSCOUT_API_KEY"

	// KeyFile is the fallback file name for the API key on systems without
	// a usable keychain.
	KeyFile = "api-key" //nolint:gosec // Not a credential, just a filename
)

// KeyStore persists the API key.
type KeyStore interface {
	// Get returns the stored key, or "" if none is stored.
	Get() (string, error)
	Set(key string) error
	Clear() error
}

// NewKeyStore creates a key store, preferring the keychain when available.
// configDir holds the fallback key file.
func NewKeyStore(configDir string) KeyStore {
	testService := KeyringService + "-test"
	if err := keyring.Set(testService, "test", "test"); err == nil {
		_ = keyring.Delete(testService, "test")
		return &KeychainStore{service: KeyringService, account: KeyringAccount}
	}

	return &FileStore{path: filepath.Join(configDir, KeyFile)}
}

// KeychainStore uses macOS keychain / Linux secret service / Windows credential manager.
type KeychainStore struct {
	service string
	account string
}

// NewKeychainStore creates a keychain-backed store for the default service
// and account.
func NewKeychainStore() *KeychainStore {
	return &KeychainStore{service: KeyringService, account: KeyringAccount}
}

// Get retrieves the key from the keychain.
func (k *KeychainStore) Get() (string, error) {
	key, err := keyring.Get(k.service, k.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", skerrors.NewConfigErrorWithCause("api.key", "failed to read from keychain", err)
	}
	return key, nil
}

// Set stores the key in the keychain.
func (k *KeychainStore) Set(key string) error {
	if err := keyring.Set(k.service, k.account, key); err != nil {
		return skerrors.NewConfigErrorWithCause("api.key", "failed to save to keychain", err)
	}
	return nil
}

// Clear removes the key from the keychain.
func (k *KeychainStore) Clear() error {
	err := keyring.Delete(k.service, k.account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return skerrors.NewConfigErrorWithCause("api.key", "failed to clear keychain", err)
	}
	return nil
}

// FileStore keeps the key in a file (fallback for headless systems).
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get reads the key file.
func (f *FileStore) Get() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", skerrors.NewConfigErrorWithCause("api.key", "failed to read key file", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Set writes the key file with restrictive permissions.
func (f *FileStore) Set(key string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return skerrors.NewConfigErrorWithCause("api.key", "failed to create config directory", err)
	}

	// Owner read/write only
	if err := os.WriteFile(f.path, []byte(key+"\n"), 0600); err != nil {
		return skerrors.NewConfigErrorWithCause("api.key", "failed to write key file", err)
	}
	return nil
}

// Clear removes the key file.
func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return skerrors.NewConfigErrorWithCause("api.key", "failed to remove key file", err)
	}
	return nil
}

// Source names where a resolved key came from.
type Source string

// Key sources in precedence order.
const (
	SourceNone   Source = ""
	SourceEnv    Source = "environment"
	SourceConfig Source = "config"
	SourceStore  Source = "keychain"
)

// Resolve returns the API key and its source. Precedence:
// SKINSCOUT_API_KEY env var > config value > key store. A failing key
// store is reported; a missing key is not an error.
func Resolve(configKey string, store KeyStore) (string, Source, error) {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key, SourceEnv, nil
	}
	if key := strings.TrimSpace(configKey); key != "" {
		return key, SourceConfig, nil
	}
	if store == nil {
		return "", SourceNone, nil
	}

	key, err := store.Get()
	if err != nil {
		return "", SourceNone, err
	}
	if key == "" {
		return "", SourceNone, nil
	}
	return key, SourceStore, nil
}
