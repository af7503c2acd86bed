package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	yaml "gopkg.in/yaml.v3"

	"github.com/tdewolff/cssopt/browser"
)

// Config holds the options that can be read from a YAML file, command line flags are applied on top.
type Config struct {
	Browsers map[string]string `yaml:"browsers,omitempty"`
	O1       bool              `yaml:"o1"`
	SaveIE   bool              `yaml:"saveie"`
	Pretty   bool              `yaml:"pretty"`
	Indent   int               `yaml:"indent,omitempty"`
}

// DecodeConfig decodes a configuration, an empty document gives the zero Config.
func DecodeConfig(r io.Reader) (*Config, error) {
	// unknown keys are mistakes, yaml.Unmarshal would silently drop them
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	f, err := openInputFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Versions returns the configured browser minimums.
func (cfg *Config) Versions() (browser.Versions, error) {
	names := make([]string, 0, len(cfg.Browsers))
	for name := range cfg.Browsers {
		names = append(names, name)
	}
	sort.Strings(names)

	vs := browser.Versions{}
	for _, name := range names {
		if err := vs.Set(name, cfg.Browsers[name]); err != nil {
			return nil, err
		}
	}
	return vs, nil
}
