// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/ink"
)

// DefaultOwnerHeader carries the diary owner set by the authenticating proxy.
const DefaultOwnerHeader = "X-Ink-Owner"

// Config holds the server configuration.
type Config struct {
	Addr            string        `yaml:"addr"`
	DBPath          string        `yaml:"db_path"`
	OwnerHeader     string        `yaml:"owner_header"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Board           BoardConfig   `yaml:"board"`

	// AllowedOrigins lists the origins allowed to open websockets.
	// Empty keeps the same-origin check; "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// BoardConfig sizes boards and rendered pages.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Size returns the board size.
func (b BoardConfig) Size() ink.Size {
	return ink.Size{Width: b.Width, Height: b.Height}
}

func (c *Config) defaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.DBPath == "" {
		c.DBPath = "ink.db"
	}
	if c.OwnerHeader == "" {
		c.OwnerHeader = DefaultOwnerHeader
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.Board.Width <= 0 {
		c.Board.Width = 800
	}
	if c.Board.Height <= 0 {
		c.Board.Height = 1000
	}
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

// LoadConfigFile reads a YAML config file and applies defaults to the
// fields it leaves unset.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server: config %s: %w", path, err)
	}
	cfg.defaults()
	return cfg, nil
}
