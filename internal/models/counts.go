package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OrderedCounts is a label -> count mapping that remembers the order in which
// its keys were received. Iteration order is display order; nothing sorts it.
type OrderedCounts struct {
	keys   []string
	counts map[string]int64
}

// NewOrderedCounts returns an empty mapping
func NewOrderedCounts() *OrderedCounts {
	return &OrderedCounts{counts: make(map[string]int64)}
}

// Set assigns a count. A new key is appended; an existing key keeps its position.
func (c *OrderedCounts) Set(key string, count int64) *OrderedCounts {
	if c.counts == nil {
		c.counts = make(map[string]int64)
	}
	if _, exists := c.counts[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.counts[key] = count
	return c
}

// Get returns the count for key
func (c *OrderedCounts) Get(key string) (int64, bool) {
	v, ok := c.counts[key]
	return v, ok
}

// Len returns the number of keys
func (c *OrderedCounts) Len() int {
	return len(c.keys)
}

// Keys returns the labels in received order
func (c *OrderedCounts) Keys() []string {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	return keys
}

// Values returns the counts aligned with Keys
func (c *OrderedCounts) Values() []int64 {
	values := make([]int64, len(c.keys))
	for i, k := range c.keys {
		values[i] = c.counts[k]
	}
	return values
}

// Validate checks that no count is negative
func (c *OrderedCounts) Validate() error {
	for _, k := range c.keys {
		if c.counts[k] < 0 {
			return fmt.Errorf("count for %q must not be negative", k)
		}
	}
	return nil
}

// UnmarshalJSON decodes a JSON object token by token so the key order survives.
// A duplicated key keeps its first position and takes the last value.
func (c *OrderedCounts) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	c.keys = nil
	c.counts = make(map[string]int64)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}

		var n json.Number
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("count for %q: %w", key, err)
		}
		count, err := n.Int64()
		if err != nil {
			return fmt.Errorf("count for %q is not an integer: %s", key, n)
		}
		c.Set(key, count)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the mapping as a JSON object in key order
func (c OrderedCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", c.counts[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
