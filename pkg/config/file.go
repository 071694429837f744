package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the config file name inside Dir().
const FileName = "config.toml"

// DefaultFile returns the default config file location.
func DefaultFile() string {
	return filepath.Join(Dir(), FileName)
}

// EncodeDefaults renders the default configuration as TOML.
func EncodeDefaults() ([]byte, error) {
	data, err := toml.Marshal(Defaults())
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode default config")
	}
	return data, nil
}

// WriteDefault writes the default configuration to path. An existing file
// is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.Newf("config file %s already exists (use --force to overwrite)", path)
	}

	data, err := EncodeDefaults()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
