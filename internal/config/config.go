// Package config provides configuration loading for curldocs.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	configloader "github.com/GabrielNunesIT/go-libs/config-loader"

	"github.com/GabrielNunesIT/curldocs/internal/domain"
)

// EnvPrefix prefixes every environment override, e.g. CURLDOCS_DATA_DIR.
const EnvPrefix = "CURLDOCS_"

// Model backends accepted by WithModelBackend.
const (
	BackendNone    = "none"
	BackendHF      = "hf"
	BackendGPT4All = "gpt4all"
)

// Config holds the application configuration.
type Config struct {
	DataDir       string `koanf:"data_dir" json:"data_dir"`
	ListenAddr    string `koanf:"listen_addr" json:"listen_addr"`
	DefaultStyle  string `koanf:"default_style" json:"default_style"`
	DefaultFormat string `koanf:"default_format" json:"default_format"`
	AIEnabled     bool   `koanf:"ai_enabled" json:"ai_enabled"`
	ValidateSpec  bool   `koanf:"validate_spec" json:"validate_spec"`

	ModelBackend     string `koanf:"model_backend" json:"model_backend"`
	HFModelName      string `koanf:"hf_model_name" json:"hf_model_name"`
	GPT4AllModelPath string `koanf:"gpt4all_model_path" json:"gpt4all_model_path"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	dataDir := "data"

	return Config{
		DataDir:          dataDir,
		ListenAddr:       ":8000",
		DefaultStyle:     "vendor",
		DefaultFormat:    "pdf",
		AIEnabled:        true,
		ValidateSpec:     false,
		ModelBackend:     BackendNone,
		HFModelName:      "google/flan-t5-base",
		GPT4AllModelPath: filepath.Join(dataDir, "models", "ggml-gpt4all-j-v1.3-groovy.bin"),
	}
}

// Load returns the application configuration using go-libs config-loader.
// Values come from the defaults, then the optional file, then CURLDOCS_ environment variables.
func Load(path string) (*Config, error) {
	loader := configloader.NewConfigLoader(
		configloader.WithDefaults(Defaults()),
		configloader.WithEnv[Config](EnvPrefix),
	)

	if path != "" {
		loader = configloader.NewConfigLoader(
			configloader.WithDefaults(Defaults()),
			configloader.WithFile[Config](path),
			configloader.WithEnv[Config](EnvPrefix),
		)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return &cfg, nil
}

// Backends lists the selectable model backends.
func Backends() []string {
	return []string{BackendNone, BackendHF, BackendGPT4All}
}

// WithModelBackend returns a copy of c using backend. Empty model settings keep their
// current values. c itself is never modified.
func (c Config) WithModelBackend(backend, hfModelName, gpt4allModelPath string) (Config, error) {
	backend = strings.ToLower(strings.TrimSpace(backend))

	switch backend {
	case BackendNone, BackendHF, BackendGPT4All:
	default:
		return c, domain.BadInput("unknown model backend %q (supported: %s)", backend, strings.Join(Backends(), ", "))
	}

	c.ModelBackend = backend

	if hfModelName != "" {
		c.HFModelName = hfModelName
	}

	if gpt4allModelPath != "" {
		c.GPT4AllModelPath = gpt4allModelPath
	}

	return c, nil
}
