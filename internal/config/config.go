// Package config loads settings from, in order of precedence: command
// line flags, SPACEDECK_ environment variables, a YAML config file, and
// built-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the full runtime configuration.
type Config struct {
	DBPath      string   `koanf:"db_path" validate:"required"`
	User        string   `koanf:"user" validate:"required"`
	Listen      string   `koanf:"listen" validate:"required,hostname_port"`
	DueLimit    int      `koanf:"due_limit" validate:"gte=1,lte=500"`
	DeckSources []string `koanf:"deck_sources"`
	CacheDir    string   `koanf:"cache_dir" validate:"required"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:   "spacedeck.db",
		User:     "default",
		Listen:   "127.0.0.1:8484",
		DueLimit: 50,
		CacheDir: "deck-cache",
	}
}

// Load merges the configuration layers and validates the result. path
// may be empty to skip the file layer; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// SPACEDECK_DB_PATH becomes db_path, and so on.
	err := k.Load(env.Provider("SPACEDECK_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SPACEDECK_"))
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	if flags != nil {
		// Flag names are dashed; koanf keys use underscores. Unchanged
		// flags do not override keys set by the layers above.
		err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil)
		if err != nil {
			return Config{}, fmt.Errorf("loading flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
