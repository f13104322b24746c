package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/statefold"
)

// Load reads the config file at path on top of Default(), then applies
// environment overrides. An empty path skips the file.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("%w: read config %s: %w", statefold.ErrIO, path, err)
		}
		if err := Decode(cfg, data, formatOf(path)); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}

// Format is a config file syntax.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".json", ".jsonc":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Decode merges data in the given format into cfg. Keys absent from data
// keep their current values; unknown keys are rejected.
//
// JSON is decoded with the yaml names, so every format accepts the same
// keys and durations are written as strings such as "90s".
func Decode(cfg *Config, data []byte, format Format) error {
	switch format {
	case FormatYAML:
		if err := decodeYAML(cfg, data); err != nil {
			return fmt.Errorf("%w: yaml: %w", ErrInvalidConfig, err)
		}

	case FormatTOML:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return fmt.Errorf("%w: toml: %w", ErrInvalidConfig, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("%w: toml: unknown key %s", ErrInvalidConfig, undecoded[0])
		}

	case FormatJSON:
		data = jsonc.ToJSON(data)
		if len(bytes.TrimSpace(data)) > 0 && !json.Valid(data) {
			return fmt.Errorf("%w: json: invalid document", ErrInvalidConfig)
		}
		if err := decodeYAML(cfg, data); err != nil {
			return fmt.Errorf("%w: json: %w", ErrInvalidConfig, err)
		}

	default:
		return fmt.Errorf("%w: unsupported format %q", ErrInvalidConfig, format)
	}
	return nil
}

func decodeYAML(cfg *Config, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// LoadDotEnv loads variables from each .env file into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("%w: load env file %s: %w", statefold.ErrIO, path, err)
		}
	}
	return nil
}
