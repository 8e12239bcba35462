// Package config loads the application configuration from JSON, YAML or TOML files.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/lao-tseu-is-alive/go-pose-flock/internal/logging"
	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/flock"
)

//go:embed schema.json
var schemaJSON string

// ErrUnsupportedFormat is returned for config files that are not .json, .yaml, .yml or .toml.
var ErrUnsupportedFormat = errors.New("unsupported config format")

type Config struct {
	LogLevel string       `json:"logLevel"`
	Flock    flock.Config `json:"flock"`
	Camera   Camera       `json:"camera"`
	Pose     PoseFeed     `json:"pose"`
	Render   Render       `json:"render"`
}

// Camera is the resolution of the images the pose estimator works on.
type Camera struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type PoseFeed struct {
	Listen   string  `json:"listen"` // Websocket listen address, empty disables the server
	Stdin    bool    `json:"stdin"`  // Read line-delimited JSON frames from stdin
	MinScore float64 `json:"minScore"`
}

type Render struct {
	SpriteSize    float64 `json:"spriteSize"`
	ShowKeypoints bool    `json:"showKeypoints"`
	ShowPanel     bool    `json:"showPanel"`
	Background    string  `json:"background"` // Optional still image shown mirrored behind the flock
	TPS           int     `json:"tps"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Flock:    flock.DefaultConfig(),
		Camera:   Camera{Width: 640, Height: 480},
		Pose:     PoseFeed{Listen: "127.0.0.1:8089"},
		Render: Render{
			SpriteSize:    100,
			ShowKeypoints: true,
			ShowPanel:     true,
			TPS:           60,
		},
	}
}

// Validate checks the settings the schema cannot express.
func (c Config) Validate() error {
	var errs []error
	if err := c.Flock.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		errs = append(errs, fmt.Errorf("camera size must be positive, got %vx%v", c.Camera.Width, c.Camera.Height))
	}
	if c.Pose.MinScore < 0 || c.Pose.MinScore > 1 {
		errs = append(errs, fmt.Errorf("pose minScore must be in [0, 1], got %v", c.Pose.MinScore))
	}
	if c.Render.SpriteSize <= 0 {
		errs = append(errs, fmt.Errorf("render spriteSize must be positive, got %v", c.Render.SpriteSize))
	}
	if c.Render.TPS <= 0 {
		errs = append(errs, fmt.Errorf("render tps must be positive, got %d", c.Render.TPS))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Load reads a configuration file, validates it against the embedded schema
// and overlays it onto Default. Keys absent from the file keep their default.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(b, filepath.Ext(path))
}

// Parse is Load for in-memory content. ext selects the format, with or without the dot.
func Parse(data []byte, ext string) (Config, error) {
	doc, err := decode(data, strings.ToLower(strings.TrimPrefix(ext, ".")))
	if err != nil {
		return Config{}, err
	}

	// Every format goes through JSON so the schema sees the same types.
	normalized, err := json.Marshal(doc)
	if err != nil {
		return Config{}, fmt.Errorf("failed to normalize config: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(normalized, &v); err != nil {
		return Config{}, fmt.Errorf("failed to normalize config: %w", err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return Config{}, err
	}
	if err := sch.Validate(v); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(normalized, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decode(data []byte, format string) (map[string]interface{}, error) {
	doc := make(map[string]interface{})
	switch format {
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode config json: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
	case "toml":
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("failed to decode config toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return doc, nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	sch, err := jsonschema.CompileString("config.schema.json", schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return sch, nil
}
