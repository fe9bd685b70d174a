package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"texpack/pkg/errors"
)

// ConfigFileName is the user configuration file searched for next to
// the input folder and in the working directory.
const ConfigFileName = "texpack.toml"

// Load builds the runtime configuration: embedded defaults first, then
// the first texpack.toml found. explicitPath wins when set; otherwise
// the input folder and the working directory are searched in that
// order. The returned config is already normalized.
func Load(explicitPath, inputFolder string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load built-in defaults")
	}

	path, err := findConfigFile(explicitPath, inputFolder)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseBytes builds a config from raw TOML layered over the embedded
// defaults. Tests use this to avoid touching the real filesystem.
func ParseBytes(data []byte) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load built-in defaults")
	}
	if err := k.Load(&rawBytesProvider{bytes: data}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse configuration")
	}
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration with no user overrides.
func Default() *Config {
	cfg, err := ParseBytes(nil)
	if err != nil {
		// The embedded defaults are compiled in; failing to parse them is
		// a programming error.
		panic(err)
	}
	return cfg
}

func findConfigFile(explicitPath, inputFolder string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", explicitPath)
		}
		return explicitPath, nil
	}

	var candidates []string
	if inputFolder != "" {
		candidates = append(candidates, filepath.Join(inputFolder, ConfigFileName))
	}
	candidates = append(candidates, ConfigFileName)

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}
