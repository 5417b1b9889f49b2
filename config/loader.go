// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a YAML configuration file. Settings missing
// from the file keep their default values. A path which does not exist
// yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration text.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DialTimeout < 0 || cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if cfg.MaxHeaderBytes < 0 {
		return fmt.Errorf("max_header_bytes must not be negative")
	}
	for i, h := range cfg.Headers {
		if !strings.Contains(h, ":") {
			return fmt.Errorf("headers[%d]: expected \"Name: Value\", got %q", i, h)
		}
	}
	if cfg.Retry.Times < 0 {
		return fmt.Errorf("retry.times must not be negative")
	}
	if cfg.Retry.Times > 0 {
		if cfg.Retry.BaseWait <= 0 {
			return fmt.Errorf("retry.base_wait must be positive")
		}
		if cfg.Retry.MaxWait < cfg.Retry.BaseWait {
			return fmt.Errorf("retry.max_wait must be >= base_wait")
		}
	}
	return nil
}
