package argtypes

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/iancoleman/orderedmap"
)

// ConfigMap is an ordered mapping from option name to a boolean, number,
// string or list value. It drives the configuration of custom argument types.
// Unknown keys are kept and ignored by variants that do not declare them.
type ConfigMap struct {
	m *orderedmap.OrderedMap
}

// NewConfigMap creates an empty ConfigMap.
func NewConfigMap() *ConfigMap {
	return &ConfigMap{m: orderedmap.New()}
}

// ParseConfigMap decodes a JSON object into a ConfigMap, preserving key order.
func ParseConfigMap(data []byte) (*ConfigMap, error) {
	c := NewConfigMap()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Set stores value under key and returns the map for chaining.
func (c *ConfigMap) Set(key string, value any) *ConfigMap {
	c.m.Set(key, value)
	return c
}

// Get returns the raw value stored under key.
func (c *ConfigMap) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	return c.m.Get(key)
}

// Has reports whether key is present.
func (c *ConfigMap) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Keys returns the option names in insertion order.
func (c *ConfigMap) Keys() []string {
	if c == nil {
		return nil
	}
	return c.m.Keys()
}

// Len returns the number of options.
func (c *ConfigMap) Len() int {
	return len(c.Keys())
}

// Bool returns the boolean stored under key, or def when the key is absent.
// Numbers are true when non-zero; strings must parse as booleans.
func (c *ConfigMap) Bool(key string, def bool) (bool, error) {
	raw, ok := c.Get(key)
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, NewConfigurationError(key, ErrNotABool)
		}
		return b, nil
	}
	if f, ok := toFloat(raw); ok {
		return f != 0, nil
	}
	return false, NewConfigurationError(key, ErrNotABool)
}

// Number returns the number stored under key. The second result is false
// when the key is absent.
func (c *ConfigMap) Number(key string) (float64, bool, error) {
	raw, ok := c.Get(key)
	if !ok {
		return 0, false, nil
	}
	f, ok := toFloat(raw)
	if !ok {
		return 0, true, NewConfigurationError(key, ErrNotANumber)
	}
	return f, true, nil
}

// String returns the scalar stored under key rendered as a string.
func (c *ConfigMap) String(key string) (string, bool, error) {
	raw, ok := c.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := stringify(raw)
	if !ok {
		return "", true, NewConfigurationError(key, ErrNotAString)
	}
	return s, true, nil
}

// StringList returns the list stored under key with every item rendered as a string.
func (c *ConfigMap) StringList(key string) ([]string, bool, error) {
	raw, ok := c.Get(key)
	if !ok {
		return nil, false, nil
	}
	switch v := raw.(type) {
	case []string:
		return append([]string(nil), v...), true, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := stringify(item)
			if !ok {
				return nil, true, NewConfigurationError(key, ErrNotAString)
			}
			out = append(out, s)
		}
		return out, true, nil
	}
	return nil, true, NewConfigurationError(key, ErrNotAList)
}

// MarshalJSON encodes the map as a JSON object in key order.
func (c *ConfigMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.m)
}

// UnmarshalJSON decodes a JSON object, preserving key order.
func (c *ConfigMap) UnmarshalJSON(data []byte) error {
	m := orderedmap.New()
	if err := json.Unmarshal(data, m); err != nil {
		return err
	}
	c.m = m
	return nil
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case uint32:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func stringify(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case nil:
		return "null", true
	}
	if f, ok := toFloat(raw); ok {
		return formatNumber(f), true
	}
	if s, ok := raw.(fmt.Stringer); ok {
		return s.String(), true
	}
	return "", false
}
