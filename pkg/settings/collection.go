package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Collection is the persisted mapping from setting key to value for one
// platform. It is the source of truth the Setting list is rebuilt from.
type Collection struct {
	values map[string]Value
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{values: make(map[string]Value)}
}

// Get returns the stored value for key. A stored value may be invalid when
// the file held something that is not a bool, integer or string.
func (c *Collection) Get(key string) (Value, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Set stores v under key.
func (c *Collection) Set(key string, v Value) {
	if c.values == nil {
		c.values = make(map[string]Value)
	}
	c.values[key] = v
}

// Contains reports whether key is stored.
func (c *Collection) Contains(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Len returns the number of stored keys.
func (c *Collection) Len() int { return len(c.values) }

// Keys returns the stored keys in sorted order.
func (c *Collection) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON writes the collection as a JSON object.
func (c *Collection) MarshalJSON() ([]byte, error) {
	out := make(map[string]Value, len(c.values))
	for k, v := range c.values {
		if v.IsValid() {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// pairedCollection is the older layout with parallel key and value arrays.
type pairedCollection struct {
	Keys   []string          `json:"keys"`
	Values []json.RawMessage `json:"values"`
}

// UnmarshalJSON reads either a JSON object or the paired keys/values layout.
// Entries that are not a bool, integer or string are kept as invalid values
// so the store can report them; null entries are dropped.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("settings collection must be an object: %w", err)
	}

	if isPaired(raw) {
		var p pairedCollection
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		if len(p.Keys) != len(p.Values) {
			return fmt.Errorf("settings collection has %d keys but %d values", len(p.Keys), len(p.Values))
		}
		raw = make(map[string]json.RawMessage, len(p.Keys))
		for i, k := range p.Keys {
			raw[k] = p.Values[i]
		}
	}

	c.values = make(map[string]Value, len(raw))
	for k, msg := range raw {
		if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			continue
		}
		var v Value
		if err := json.Unmarshal(msg, &v); err != nil {
			v = Value{}
		}
		c.values[k] = v
	}
	return nil
}

func isPaired(raw map[string]json.RawMessage) bool {
	if len(raw) != 2 {
		return false
	}
	keys, ok1 := raw["keys"]
	values, ok2 := raw["values"]
	if !ok1 || !ok2 {
		return false
	}
	return isArray(keys) && isArray(values)
}

func isArray(msg json.RawMessage) bool {
	msg = bytes.TrimSpace(msg)
	return len(msg) > 0 && msg[0] == '['
}
