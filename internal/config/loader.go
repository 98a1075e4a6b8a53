package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// AppDirName is the per-user directory under $HOME.
const AppDirName = ".career-runner"

// candidateNames are tried in each search directory, in order.
var candidateNames = []string{"runner.yaml", "runner.yml", "runner.toml"}

// Load loads the runner configuration.
// Search order: customPath -> ~/.career-runner/configs/runner.{yaml,toml} ->
// ./configs/runner.{yaml,toml} -> embedded default.
// Files only need to set the fields they change; everything else keeps its
// default. A custom path that cannot be read, parsed or validated is an
// error; broken files on the search path are skipped.
func Load(customPath string) (RunnerConfig, error) {
	if customPath != "" {
		return LoadFile(customPath)
	}

	for _, dir := range searchDirs() {
		for _, name := range candidateNames {
			if cfg, err := LoadFile(filepath.Join(dir, name)); err == nil {
				return cfg, nil
			}
		}
	}

	cfg := DefaultRunnerConfig()
	if err := decode("runner.yaml", defaultRunnerYAML, &cfg); err != nil {
		return DefaultRunnerConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadFile reads, decodes and validates a single configuration file.
func LoadFile(path string) (RunnerConfig, error) {
	cfg := DefaultRunnerConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := decode(path, data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// decode picks the decoder from the file extension. YAML is the default.
func decode(path string, data []byte, cfg *RunnerConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil // empty file keeps defaults
	}
}

// searchDirs returns the directories searched when no custom path is given.
func searchDirs() []string {
	var dirs []string
	if dir := UserDir(); dir != "" {
		dirs = append(dirs, filepath.Join(dir, "configs"))
	}
	return append(dirs, "configs")
}

// UserDir returns ~/.career-runner, or empty if home is unavailable.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, AppDirName)
}

// ExpandHome expands a leading ~ in path.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// ApplyMode overrides the movement mode. Unknown modes are rejected.
func ApplyMode(cfg *RunnerConfig, mode string) error {
	switch mode {
	case ModePlatformer, ModeFreeRoam:
		cfg.Movement.Mode = mode
		return nil
	default:
		return fmt.Errorf("%w: unknown movement mode %q", ErrInvalidConfig, mode)
	}
}
