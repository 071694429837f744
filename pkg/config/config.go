package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	skerrors "thoreinstein.com/skinscout/pkg/errors"
)

// AppName names the config and data directories.
const AppName = "skinscout"

// Config represents the application configuration
type Config struct {
	API    APIConfig    `mapstructure:"api" json:"api" yaml:"api"`
	Store  StoreConfig  `mapstructure:"store" json:"store" yaml:"store"`
	Server ServerConfig `mapstructure:"server" json:"server" yaml:"server"`
	Search SearchConfig `mapstructure:"search" json:"search" yaml:"search"`
}

// APIConfig holds aggregation API client configuration
type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url" json:"base_url" yaml:"base_url" validate:"required,url"`
	Timeout        time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout" validate:"gt=0"`
	// SKINSCOUT_API_KEY env var takes precedence
	Key            string        `mapstructure:"key" json:"key" yaml:"key"`
	// 0 disables the result cache
	CacheTTL       time.Duration `mapstructure:"cache_ttl" json:"cache_ttl" yaml:"cache_ttl" validate:"gte=0"`
	MaxConcurrency int           `mapstructure:"max_concurrency" json:"max_concurrency" yaml:"max_concurrency" validate:"gte=1,lte=32"`
}

// StoreConfig holds recent-search persistence configuration
type StoreConfig struct {
	Backend     string `mapstructure:"backend" json:"backend" yaml:"backend" validate:"oneof=memory file sqlite redis"`
	Path        string `mapstructure:"path" json:"path" yaml:"path"` // file or sqlite
	RedisURL    string `mapstructure:"redis_url" json:"redis_url" yaml:"redis_url" validate:"required_if=Backend redis"`
	RedisPrefix string `mapstructure:"redis_prefix" json:"redis_prefix" yaml:"redis_prefix"`
}

// ServerConfig holds local web front end configuration
type ServerConfig struct {
	Addr        string   `mapstructure:"addr" json:"addr" yaml:"addr" validate:"required,hostname_port"`
	// requests per second per client, 0 disables
	RateLimit   float64  `mapstructure:"rate_limit" json:"rate_limit" yaml:"rate_limit" validate:"gte=0"`
	RateBurst   int      `mapstructure:"rate_burst" json:"rate_burst" yaml:"rate_burst" validate:"gte=1"`
	// browser origins allowed to call the front end; empty disables CORS
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins" yaml:"cors_origins" validate:"dive,url"`
}

// SearchConfig holds search command defaults
type SearchConfig struct {
	DefaultLimit int    `mapstructure:"default_limit" json:"default_limit" yaml:"default_limit" validate:"gte=1"`
	DefaultSort  string `mapstructure:"default_sort" json:"default_sort" yaml:"default_sort" validate:"oneof=price float updated"`
}

// SecurityWarning represents a configuration security issue
type SecurityWarning struct {
	Field   string
	Message string
}

// Load loads the configuration from file and environment variables
func Load() (*Config, error) {
	config := &Config{}

	// Set defaults
	setDefaults()

	// Unmarshal the config
	if err := viper.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	// Expand paths
	if err := expandPaths(config); err != nil {
		return nil, errors.Wrap(err, "failed to expand paths")
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return config, nil
}

// CheckSecurityWarnings returns warnings for insecure configuration practices.
func CheckSecurityWarnings(config *Config) []SecurityWarning {
	var warnings []SecurityWarning

	if config.API.Key != "" && os.Getenv("SKINSCOUT_API_KEY") == "" && viper.InConfig("api.key") {
		warnings = append(warnings, SecurityWarning{
			Field:   "api.key",
			Message: "API key is set in config file. For security, use 'skinscout auth login' or the SKINSCOUT_API_KEY environment variable instead.",
		})
	}

	return warnings
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report config keys rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate validates the configuration and returns the first problem as a
// ConfigError naming the offending key.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return skerrors.NewConfigErrorWithCause("", "invalid configuration", err)
	}

	fe := verrs[0]
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	return skerrors.NewConfigError(field, describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required for this store backend"
	case "url":
		return "must be an absolute URL"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "hostname_port":
		return "must be host:port"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	}
	return "failed " + fe.Tag() + " validation"
}

// Dir returns the config directory, ~/.config/skinscout.
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".config", AppName)
}

// DataDir returns the data directory, ~/.local/share/skinscout.
func DataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// DefaultStorePath returns the store location for a backend.
func DefaultStorePath(backend string) string {
	if backend == "sqlite" {
		return filepath.Join(DataDir(), "store.db")
	}
	return filepath.Join(DataDir(), "store.json")
}

// Defaults returns the default configuration keyed like the config file.
func Defaults() map[string]map[string]any {
	return map[string]map[string]any{
		"api": {
			"base_url":        "http://localhost:3001/api",
			"timeout":         "15s",
			"key":             "",
			"cache_ttl":       "30s",
			"max_concurrency": 4,
		},
		"store": {
			"backend":      "file",
			"path":         "", // empty means the per-backend default under ~/.local/share/skinscout
			"redis_url":    "",
			"redis_prefix": "skinscout:",
		},
		"server": {
			"addr":         "127.0.0.1:8080",
			"rate_limit":   5.0,
			"rate_burst":   10,
			"cors_origins": []string{},
		},
		"search": {
			"default_limit": 50,
			"default_sort":  "price",
		},
	}
}

// setDefaults sets default configuration values
func setDefaults() {
	for section, values := range Defaults() {
		for key, value := range values {
			viper.SetDefault(section+"."+key, value)
		}
	}
}

// expandPaths expands ~ and fills in per-backend defaults
func expandPaths(config *Config) error {
	var err error

	config.Store.Path, err = expandPath(config.Store.Path)
	if err != nil {
		return err
	}
	if config.Store.Path == "" {
		config.Store.Path = DefaultStorePath(config.Store.Backend)
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, path[1:]), nil
}
