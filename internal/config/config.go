// Package config loads the optional archscaffold configuration file.
//
// The file may be YAML (.yaml/.yml) or JSON with comments (.json/.jsonc).
// JSONC is handled with github.com/tidwall/jsonc, which strips comments and
// trailing commas before the standard encoding/json parser runs, the same
// approach used for devcontainer.json files.
//
// Configuration only feeds the CLI and the MCP server. The scaffolding core
// never reads it; callers pass typed values instead.
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

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/archscaffold/internal/model"
)

// Color modes accepted by the color field.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// FileNames lists the names searched by Discover, in priority order.
var FileNames = []string{
	".archscaffold.yaml",
	".archscaffold.yml",
	".archscaffold.json",
	".archscaffold.jsonc",
}

// Config is the parsed configuration file. Zero values mean "not set".
type Config struct {
	// BaseDir is the authorized root that targets are resolved against.
	// Relative values are resolved against the directory of the config file.
	BaseDir string `yaml:"baseDir" json:"baseDir"`

	// DefaultPattern is used by `create` when --pattern is omitted.
	DefaultPattern string `yaml:"defaultPattern" json:"defaultPattern"`

	// Color is one of auto, always, never.
	Color string `yaml:"color" json:"color"`

	// GitInit runs `git init` after a successful create.
	GitInit bool `yaml:"gitInit" json:"gitInit"`

	// Source is the file the configuration was loaded from, if any.
	Source string `yaml:"-" json:"-"`
}

// Load reads and validates the configuration file at path. The format is
// chosen by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitConfigError,
				fmt.Sprintf("config file not found: %s", path),
				err,
			)
		}
		return nil, model.WrapCLIError(model.ExitConfigError, fmt.Sprintf("failed to read config file %s", path), err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, fmt.Sprintf("invalid config file %s", path), err)
	}

	if cfg.BaseDir != "" && !filepath.IsAbs(cfg.BaseDir) {
		abs, err := filepath.Abs(filepath.Join(filepath.Dir(path), cfg.BaseDir))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve baseDir: %w", err)
		}
		cfg.BaseDir = abs
	}
	cfg.Source = path
	return cfg, nil
}

// Parse decodes data in the format named by ext (".yaml", ".yml", ".json",
// ".jsonc") and validates the result.
func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json", ".jsonc":
		clean := jsonc.ToJSON(data)
		if len(bytes.TrimSpace(clean)) > 0 {
			dec := json.NewDecoder(bytes.NewReader(clean))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&cfg); err != nil {
				return nil, fmt.Errorf("failed to parse JSON: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .yaml, .yml, .json or .jsonc)", ext)
	}

	if problems := Validate(&cfg); len(problems) > 0 {
		msgs := make([]string, len(problems))
		for i := range problems {
			msgs[i] = problems[i].Error()
		}
		return nil, errors.New(strings.Join(msgs, "; "))
	}
	return &cfg, nil
}

// Validate returns every problem found in cfg.
func Validate(cfg *Config) []model.ValidationError {
	var problems []model.ValidationError

	if cfg.DefaultPattern != "" {
		if _, err := model.ParsePatternKey(cfg.DefaultPattern); err != nil {
			problems = append(problems, model.ValidationError{
				Field:   "defaultPattern",
				Message: err.Error(),
			})
		}
	}

	switch cfg.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		problems = append(problems, model.ValidationError{
			Field:   "color",
			Message: fmt.Sprintf("invalid value %q (valid: auto, always, never)", cfg.Color),
		})
	}

	return problems
}

// Discover looks for a configuration file in dir and loads the first one
// found. It returns an empty Config when none exists.
func Discover(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return &Config{}, nil
}
