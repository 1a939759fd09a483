package libcli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	orderedmap "github.com/wk8/go-ordered-map"
	"gopkg.in/yaml.v3"

	"github.com/russellane/libcli/util"
)

// Config is an ordered mapping of configuration keys to values. Insertion
// order is preserved so `--print-config` prints keys in a stable, meaningful
// order: well-known keys first, then application defaults, then keys read
// from the config file.
type Config struct {
	om *orderedmap.OrderedMap
}

func NewConfig() *Config {
	return &Config{om: orderedmap.New()}
}

func (c *Config) Set(key string, value any) {
	c.om.Set(key, value)
}

func (c *Config) Get(key string) (any, bool) {
	return c.om.Get(key)
}

// GetString returns the value of key formatted as a string, or "" when the
// key is absent or nil.
func (c *Config) GetString(key string) string {
	value, ok := c.om.Get(key)
	if !ok || value == nil {
		return ""
	}

	return fmt.Sprint(value)
}

// GetInt returns the value of key as an int, or fallback when the key is
// absent or not convertible.
func (c *Config) GetInt(key string, fallback int) int {
	value, ok := c.om.Get(key)
	if !ok || value == nil {
		return fallback
	}
	coerced, err := util.Coerce(value, fallback)
	if err != nil {
		return fallback
	}

	return coerced.(int)
}

func (c *Config) Has(key string) bool {
	_, ok := c.om.Get(key)
	return ok
}

func (c *Config) Len() int {
	return c.om.Len()
}

// Keys returns all keys in insertion order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, c.om.Len())
	for pair := c.om.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key.(string))
	}

	return keys
}

// Each calls fn for every key/value pair in insertion order.
func (c *Config) Each(fn func(key string, value any)) {
	for pair := c.om.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key.(string), pair.Value)
	}
}

// seed makes sure the well-known keys exist without disturbing values the
// application has already set.
func (c *Config) seed() {
	for _, key := range []string{KeyConfigFile, KeyConfigName, KeyDistName} {
		if !c.Has(key) {
			c.Set(key, nil)
		}
	}
	if !c.Has(KeyVerbose) {
		c.Set(KeyVerbose, 0)
	}
}

// mergeMap overlays values decoded from a config file onto the config. When
// KeyConfigName is set and the file has a table of that name, only that
// table is merged. Values for existing keys are coerced to the type already
// present; new keys are added in sorted order.
func (c *Config) mergeMap(raw map[string]any) error {
	if name := c.GetString(KeyConfigName); name != "" {
		if section, ok := raw[name].(map[string]any); ok {
			raw = section
		}
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := raw[key]
		if existing, ok := c.Get(key); ok && existing != nil {
			coerced, err := util.Coerce(value, existing)
			if err != nil {
				return fmt.Errorf("config key %q: %w", key, err)
			}
			value = coerced
		}
		c.Set(key, value)
	}

	return nil
}

// loadConfigFile reads and decodes path, TOML by default, YAML when the
// extension says so.
func loadConfigFile(path string) (map[string]any, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(text, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		if err := toml.Unmarshal(text, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	return raw, nil
}
