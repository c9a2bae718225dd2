package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileSystem is the subset of file operations the loader needs.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// MapFS serves files from memory. Useful in tests.
type MapFS map[string]string

// ReadFile implements FileSystem.
func (m MapFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return []byte(s), nil
}

// Load reads path from disk, applies environment overrides and validates.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	return LoadFS(OSFS{}, path, os.LookupEnv)
}

// LoadFS is Load with an explicit file system and environment lookup.
// A nil lookup skips environment overrides.
func LoadFS(fsys FileSystem, path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(fsys, path, cfg); err != nil {
			return nil, err
		}
	}
	if lookup != nil {
		if err := applyEnv(cfg, lookup); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(fsys FileSystem, path string, cfg *Config) error {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	// Lists replace the defaults wholesale when present in the file.
	triggers, entries := cfg.Triggers, cfg.Menu
	cfg.Triggers, cfg.Menu = nil, nil

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = decodeTOML(path, data, cfg)
	case ".yaml", ".yml":
		err = decodeYAML(path, data, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return err
	}

	if cfg.Triggers == nil {
		cfg.Triggers = triggers
	}
	if cfg.Menu == nil {
		cfg.Menu = entries
	}
	return nil
}

func decodeTOML(path string, data []byte, cfg *Config) error {
	err := toml.Unmarshal(data, cfg)
	if err == nil {
		return nil
	}
	pe := &ParseError{Path: path, Message: err.Error(), Err: err}
	var de *toml.DecodeError
	if errors.As(err, &de) {
		pe.Line, pe.Column = de.Position()
	}
	return pe
}

func decodeYAML(path string, data []byte, cfg *Config) error {
	err := yaml.Unmarshal(data, cfg)
	if err == nil {
		return nil
	}
	return &ParseError{Path: path, Message: err.Error(), Err: err}
}
