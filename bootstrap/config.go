// Copyright 2026 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the configuration of one graph-construction pass.  Relative
// directories are relative to the working directory.
type Config struct {
	SourceDir   string            `yaml:"source_dir"`
	BuildDir    string            `yaml:"build_dir"`
	Description string            `yaml:"description"` // file name looked up in each directory
	Output      string            `yaml:"output"`      // defaults to <build_dir>/build.ninja
	Depfile     string            `yaml:"depfile"`
	Tools       map[string]string `yaml:"tools"`       // program overrides
	SearchPath  []string          `yaml:"search_path"` // searched before $PATH
	Log         LogConfig         `yaml:"log"`

	// file is the configuration file the values were read from, if any.
	file string
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		SourceDir:   ".",
		BuildDir:    "out",
		Description: "build.hcl",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads the YAML file at path over the values already in c.
// Unknown keys are an error.
func (c *Config) LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	c.file = path
	return nil
}

// Validate reports the first invalid configuration value.
func (c *Config) Validate() error {
	switch {
	case c.SourceDir == "":
		return errors.New("source_dir must not be empty")
	case c.BuildDir == "":
		return errors.New("build_dir must not be empty")
	case c.Description == "" || filepath.Base(c.Description) != c.Description:
		return fmt.Errorf("description must be a file name, got %q", c.Description)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	src, err := filepath.Abs(c.SourceDir)
	if err != nil {
		return err
	}
	build, err := filepath.Abs(c.BuildDir)
	if err != nil {
		return err
	}
	if src == build {
		return errors.New("build_dir must differ from source_dir")
	}
	return nil
}

// OutputPath returns the manifest to write.
func (c *Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	return filepath.Join(c.BuildDir, "build.ninja")
}
