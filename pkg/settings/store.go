// Package settings stores per-platform notification settings and drawable
// resources in a JSON file inside the Unity project.
//
// A Store is constructed explicitly with Open and passed to every caller
// that reads or writes settings. Set persists only values that changed.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	notifyerrors "github.com/go-drift/notifykit/pkg/errors"
)

// DefaultPath is the settings file location relative to the project root.
const DefaultPath = "ProjectSettings/NotificationsSettings.json"

var (
	// ErrUnknownSetting is returned by Set for a key no definition declares.
	ErrUnknownSetting = errors.New("unknown setting")
	// ErrKindMismatch is returned by Set when the value's kind differs from
	// the setting's declared kind.
	ErrKindMismatch = errors.New("value kind does not match setting")
)

// Option configures a Store.
type Option func(*Store)

// WithHandler sends warnings and errors to h instead of the global handler.
func WithHandler(h notifyerrors.ErrorHandler) Option {
	return func(s *Store) { s.handler = h }
}

// WithCheckout replaces the default FileCheckout.
func WithCheckout(c Checkout) Option {
	return func(s *Store) {
		if c != nil {
			s.checkout = c
		}
	}
}

// Store holds the settings of every platform and the drawable resources.
type Store struct {
	path      string
	handler   notifyerrors.ErrorHandler
	checkout  Checkout
	values    map[Platform]*Collection
	settings  map[Platform][]Setting
	drawables []DrawableResource
}

// Open loads the settings file at path and seeds defaults for every known
// setting missing from it. A missing or empty file starts from an empty
// mapping. The file is written back only when it did not exist or lacked a
// platform's collection; Save forces a write.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:     path,
		checkout: FileCheckout{},
		values:   make(map[Platform]*Collection),
		settings: make(map[Platform][]Setting),
	}
	for _, opt := range opts {
		opt(s)
	}

	exists := true
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		exists = false
	} else if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	f := &fileData{}
	if len(bytes.TrimSpace(data)) > 0 {
		if f, err = decodeFile(data); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	dirty := false
	for _, p := range Platforms() {
		coll := f.collection(p)
		if coll == nil {
			coll = NewCollection()
			dirty = true
		}
		s.values[p] = coll

		list := Flatten(Definitions(p))
		for i := range list {
			list[i].Value = s.getOrAdd(coll, list[i])
		}
		s.settings[p] = list
	}
	s.drawables = f.Drawables

	if dirty || !exists {
		// A failed write is already reported; the loaded state stays usable.
		_ = s.Save()
	}
	return s, nil
}

// getOrAdd returns the stored value for def, or stores and returns the
// default when the key is missing or holds a value of another kind.
func (s *Store) getOrAdd(coll *Collection, def Setting) Value {
	if v, ok := coll.Get(def.Key); ok {
		if v.Kind() == def.Kind() {
			return v
		}
		notifyerrors.Warn(s.handler, &notifyerrors.NotifyError{
			Op:   "settings.Open",
			Kind: notifyerrors.KindTypeMismatch,
			Key:  def.Key,
			Err: &notifyerrors.TypeMismatchError{
				Key:      def.Key,
				Expected: def.Kind().String(),
				Got:      v.Kind().String(),
			},
		})
	}
	coll.Set(def.Key, def.Default)
	return def.Default
}

// Path returns the settings file path.
func (s *Store) Path() string { return s.path }

// Settings returns the flattened settings of p in pre-order.
func (s *Store) Settings(p Platform) []Setting {
	list := s.settings[p]
	out := make([]Setting, len(list))
	copy(out, list)
	return out
}

// Lookup returns the setting with key on p.
func (s *Store) Lookup(p Platform, key string) (Setting, bool) {
	if i := s.index(p, key); i >= 0 {
		return s.settings[p][i], true
	}
	return Setting{}, false
}

// Get returns the current value of key on p.
func (s *Store) Get(p Platform, key string) (Value, bool) {
	setting, ok := s.Lookup(p, key)
	if !ok {
		return Value{}, false
	}
	return setting.Value, true
}

// Bool returns the value of a bool setting, false if absent.
func (s *Store) Bool(p Platform, key string) bool {
	v, _ := s.Get(p, key)
	b, _ := v.Bool()
	return b
}

// Int returns the value of an integer setting, 0 if absent.
func (s *Store) Int(p Platform, key string) int {
	v, _ := s.Get(p, key)
	i, _ := v.Int()
	return i
}

// Text returns the value of a string setting, "" if absent.
func (s *Store) Text(p Platform, key string) string {
	v, _ := s.Get(p, key)
	t, _ := v.Text()
	return t
}

// Set updates key on p. The file is rewritten only when the stored text
// form differs from v or the key was not stored yet.
func (s *Store) Set(p Platform, key string, v Value) error {
	i := s.index(p, key)
	if i < 0 {
		return fmt.Errorf("%w: %s/%s", ErrUnknownSetting, p, key)
	}
	setting := &s.settings[p][i]
	if v.Kind() != setting.Kind() {
		return fmt.Errorf("%w: %s is %s, got %s", ErrKindMismatch, key, setting.Kind(), v.Kind())
	}
	setting.Value = v

	coll := s.values[p]
	if cur, ok := coll.Get(key); ok && cur.String() == v.String() {
		return nil
	}
	coll.Set(key, v)
	return s.Save()
}

// Collection returns the persisted mapping of p.
func (s *Store) Collection(p Platform) *Collection {
	return s.values[p]
}

func (s *Store) index(p Platform, key string) int {
	for i, setting := range s.settings[p] {
		if setting.Key == key {
			return i
		}
	}
	return -1
}

// Save writes the settings file. If the file cannot be made writable the
// failure is reported as an error, nothing is written and the in-memory
// state stays authoritative until the next successful save.
func (s *Store) Save() error {
	if err := s.checkout.MakeEditable(s.path); err != nil {
		nerr := &notifyerrors.NotifyError{
			Op:   "settings.Save",
			Kind: notifyerrors.KindPermission,
			Key:  s.path,
			Err:  fmt.Errorf("failed to make file %s editable: %w", s.path, err),
		}
		notifyerrors.Report(s.handler, nerr)
		return nerr
	}

	f := &fileData{Drawables: s.drawables}
	for _, p := range Platforms() {
		f.setCollection(p, s.values[p])
	}
	data, err := encodeFile(f)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		nerr := &notifyerrors.NotifyError{
			Op:   "settings.Save",
			Kind: notifyerrors.KindIO,
			Key:  s.path,
			Err:  err,
		}
		notifyerrors.Report(s.handler, nerr)
		return nerr
	}
	return nil
}

// writeFileAtomic writes data to a temp file in the same directory and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".settings-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
