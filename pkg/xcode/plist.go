package xcode

import (
	"fmt"
	"os"

	"howett.net/plist"
)

// PropertyList is a dictionary-rooted property list that remembers the
// format it was read in.
type PropertyList struct {
	Root   map[string]any
	Format int
}

// NewPropertyList returns an empty XML property list.
func NewPropertyList() *PropertyList {
	return &PropertyList{Root: map[string]any{}, Format: plist.XMLFormat}
}

// ReadPropertyList parses the property list at path.
func ReadPropertyList(path string) (*PropertyList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pl, err := ParsePropertyList(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return pl, nil
}

// ParsePropertyList decodes XML, binary or text property list data whose
// root is a dictionary.
func ParsePropertyList(data []byte) (*PropertyList, error) {
	var root map[string]any
	format, err := plist.Unmarshal(data, &root)
	if err != nil {
		return nil, err
	}
	if root == nil {
		root = map[string]any{}
	}
	return &PropertyList{Root: root, Format: format}, nil
}

// Bytes encodes the list in its original format.
func (pl *PropertyList) Bytes() ([]byte, error) {
	if pl.Format == plist.BinaryFormat {
		return plist.Marshal(pl.Root, pl.Format)
	}
	return plist.MarshalIndent(pl.Root, pl.Format, "\t")
}

// Bool returns the boolean at key.
func (pl *PropertyList) Bool(key string) (bool, bool) {
	b, ok := pl.Root[key].(bool)
	return b, ok
}

// Int returns the integer at key. Decoded integers may be signed or
// unsigned depending on the source format.
func (pl *PropertyList) Int(key string) (int64, bool) {
	switch n := pl.Root[key].(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

// Text returns the string at key.
func (pl *PropertyList) Text(key string) (string, bool) {
	s, ok := pl.Root[key].(string)
	return s, ok
}

// SetBool stores v at key and reports whether the list changed.
func (pl *PropertyList) SetBool(key string, v bool) bool {
	if cur, ok := pl.Bool(key); ok && cur == v {
		return false
	}
	pl.Root[key] = v
	return true
}

// SetInt stores v at key and reports whether the list changed.
func (pl *PropertyList) SetInt(key string, v int64) bool {
	if cur, ok := pl.Int(key); ok && cur == v {
		return false
	}
	pl.Root[key] = v
	return true
}

// SetString stores v at key and reports whether the list changed.
func (pl *PropertyList) SetString(key, v string) bool {
	if cur, ok := pl.Text(key); ok && cur == v {
		return false
	}
	pl.Root[key] = v
	return true
}

// AppendUnique adds v to the string array at key, creating the array when
// absent. It reports whether the list changed.
func (pl *PropertyList) AppendUnique(key, v string) bool {
	arr, _ := pl.Root[key].([]any)
	for _, e := range arr {
		if s, ok := e.(string); ok && s == v {
			return false
		}
	}
	pl.Root[key] = append(arr, v)
	return true
}
