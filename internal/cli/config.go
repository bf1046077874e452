package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jsonkit/ecmason/pkg/errors"
)

// Config holds user settings loaded from ~/.config/ecmason/config.toml.
// Flags always win over config values; config values win over defaults.
type Config struct {
	Indent    int    `toml:"indent"`     // default space count for fmt (0 = compact)
	IndentStr string `toml:"indent_str"` // literal indent string, overrides Indent when set
	Color     bool   `toml:"color"`

	Cache CacheConfig `toml:"cache"`
	Serve ServeConfig `toml:"serve"`
}

// CacheConfig controls the on-disk format result cache.
type CacheConfig struct {
	Enabled bool          `toml:"enabled"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
}

// ServeConfig controls the HTTP server.
type ServeConfig struct {
	Addr      string `toml:"addr"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() Config {
	return Config{
		Indent: 0,
		Color:  true,
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

// configPath returns the config file location, honoring XDG_CONFIG_HOME.
func configPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "ecmason", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot determine home directory")
	}
	return filepath.Join(home, ".config", "ecmason", "config.toml"), nil
}

// loadConfig reads the config file if present, falling back to defaults.
// A missing file is not an error; a malformed file is.
func loadConfig() (Config, error) {
	cfg := defaultConfig()

	path, err := configPath()
	if err != nil {
		return cfg, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config file %s", path)
	}
	return cfg, nil
}

// indentString resolves the effective indent from a flag value and the
// config, capped at ten characters to match the formatting engine.
func (c Config) indentString(flagSpaces int, flagStr string) string {
	if flagStr != "" {
		return flagStr
	}
	n := flagSpaces
	if n == 0 {
		if c.IndentStr != "" {
			return c.IndentStr
		}
		n = c.Indent
	}
	if n <= 0 {
		return ""
	}
	if n > 10 {
		n = 10
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = ' '
	}
	return string(buf)
}
