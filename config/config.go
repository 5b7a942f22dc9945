package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"fastcat.org/go/excise/instance"
)

// Config holds the settings that may be persisted in the config file. Every
// field can also be set from the command line.
type Config struct {
	// RequireEnd fails a run whose block is never closed instead of removing
	// through end of file.
	RequireEnd bool `yaml:"require-end"`
	// Sync flushes rewritten files to disk before they replace the original.
	Sync      bool   `yaml:"sync"`
	LogLevel  string `yaml:"log-level" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log-format" validate:"oneof=text json"`
	Report    string `yaml:"report" validate:"oneof=table none"`
}

func Default() Config {
	return Config{
		Sync:      true,
		LogLevel:  "warn",
		LogFormat: "text",
		Report:    "table",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator returns the shared validator instance, for use with other option
// structs.
func Validator() *validator.Validate {
	return validate
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultPath is where the config file lives when no other path is given.
func DefaultPath() string {
	return os.ExpandEnv("${HOME}/.config/" + instance.AppName() + ".yaml")
}

// Load reads the config file at fn over the defaults. A missing file is not an
// error unless required is set.
func Load(fn string, required bool) (Config, error) {
	cfg := Default()
	f, err := os.Open(fn)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no config file, that's ok
		}
		return cfg, err
	}
	defer f.Close() // nolint:errcheck
	if err := decode(f, &cfg); err != nil {
		return Default(), fmt.Errorf("error loading config %q: %w", filepath.Clean(fn), err)
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	// an empty or comments-only document decodes as null, which would zero
	// every field rather than leave the defaults alone
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		return cfg.Validate()
	}
	// don't change the caller's config until we get everything OK
	decoded := *cfg
	d := yaml.NewDecoder(bytes.NewReader(data), yaml.DisallowUnknownField())
	if err := d.Decode(&decoded); err != nil {
		return err
	}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*cfg = decoded
	return nil
}

// Write encodes cfg as YAML.
func Write(w io.Writer, cfg Config) error {
	return yaml.NewEncoder(w).Encode(cfg)
}
