// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package config loads command configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gviegas/scenegraph/codec"
)

const prefix = "config: "

// Config is the configuration of scenectl.
type Config struct {
	// LogLevel is the minimum level logged.
	LogLevel string `yaml:"logLevel"`
	// Format is the format of written scenes.
	Format string `yaml:"format"`
	// Compression is the compression of written scenes.
	Compression string `yaml:"compression"`
}

// Default returns the configuration used when no file
// is given.
func Default() Config {
	return Config{
		LogLevel:    "info",
		Format:      codec.YAML.String(),
		Compression: codec.None.String(),
	}
}

// Load reads a YAML configuration from r.
// Fields absent from r keep their default values.
func Load(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf(prefix+"%w", err)
	}
	return c, c.Check()
}

// LoadFile reads a YAML configuration from the named file.
// An empty name yields the default configuration.
func LoadFile(name string) (Config, error) {
	if name == "" {
		return Default(), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return Config{}, fmt.Errorf(prefix+"%w", err)
	}
	defer f.Close()
	return Load(f)
}

// Check checks that every field of c is valid.
func (c Config) Check() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(prefix + "invalid log level " + c.LogLevel)
	}
	_, err := c.Options()
	return err
}

// Options returns the codec options that c describes.
func (c Config) Options() (codec.Options, error) {
	f, err := codec.ParseFormat(c.Format)
	if err != nil {
		return codec.Options{}, err
	}
	z, err := codec.ParseCompression(c.Compression)
	if err != nil {
		return codec.Options{}, err
	}
	return codec.Options{Format: f, Compression: z}, nil
}
