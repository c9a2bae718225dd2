package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
)

// Store is the settings file plus its last loaded contents.
type Store struct {
	path   string
	logger *zap.Logger

	mu  sync.Mutex
	cur Settings
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger for skipped fields and write failures.
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore returns a store for the file at path holding Default settings.
// Nothing is read until Load is called.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{path: path, logger: zap.NewNop(), cur: Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// Current returns a copy of the loaded settings.
func (s *Store) Current() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.Clone()
}

// Load re-reads the file on top of the current settings. A missing file
// leaves them unchanged. Invalid fields are logged and skipped.
func (s *Store) Load() (Settings, error) {
	doc, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.Current(), nil
	}
	if err != nil {
		return s.Current(), fmt.Errorf("read settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next, errs := Decode(doc, s.cur)
	for _, e := range errs {
		s.logger.Warn("skipping settings field", zap.Error(e))
	}
	s.cur = next
	return s.cur.Clone(), nil
}

// Update applies fn to a copy of the current settings and writes the named
// fields back to the file. Other fields in the file are preserved.
func (s *Store) Update(fn func(*Settings), names ...string) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur.Clone()
	fn(&next)
	if err := s.write(next, names); err != nil {
		return s.cur.Clone(), err
	}
	s.cur = next
	return next.Clone(), nil
}

// Set parses raw as the JSON value of one field, validates it and writes it.
func (s *Store) Set(name, raw string) (Settings, error) {
	f, ok := lookup(name)
	if !ok {
		return s.Current(), &FieldError{Field: name, Err: ErrUnknownField}
	}
	if !gjson.Valid(raw) {
		return s.Current(), &FieldError{Field: name, Value: raw, Err: ErrWrongType}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cur.Clone()
	if errs := f.decode(gjson.Parse(raw), &next); len(errs) > 0 {
		return s.cur.Clone(), errors.Join(errs...)
	}
	if err := s.write(next, []string{name}); err != nil {
		return s.cur.Clone(), err
	}
	s.cur = next
	return next.Clone(), nil
}

func (s *Store) write(next Settings, names []string) error {
	doc, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		doc = []byte("{}")
	case err != nil:
		return fmt.Errorf("read settings: %w", err)
	case !gjson.ValidBytes(doc):
		s.logger.Warn("settings file is not valid JSON, rewriting", zap.String("path", s.path))
		doc = []byte("{}")
	}

	for _, name := range names {
		f, ok := lookup(name)
		if !ok {
			return &FieldError{Field: name, Err: ErrUnknownField}
		}
		if v := f.encode(next); v == nil {
			doc, err = sjson.SetRawBytes(doc, name, []byte("null"))
		} else {
			doc, err = sjson.SetBytes(doc, name, v)
		}
		if err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return writeFileAtomic(s.path, doc)
}

// writeFileAtomic replaces path so a concurrent reader never sees a
// partial document.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
