package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

// LevelEntry is one line of the [filters.levels] table.
type LevelEntry struct {
	Prefix string
	Level  string
}

// Levels keeps [filters.levels] in the order the file declares it.
type Levels []LevelEntry

// LevelsDecodeHook skips decoding for Levels. viper splits dotted keys into
// nested maps and loses declaration order, so Load reads the table from the
// file itself.
func LevelsDecodeHook() mapstructure.DecodeHookFunc {
	return func(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(Levels{}) {
			return data, nil
		}
		return Levels{}, nil
	}
}

// Compose joins Default and Levels into filter text:
// "default; prefix=level; ...".
func (f Filters) Compose() string {
	var parts []string
	if def := strings.TrimSpace(f.Default); def != "" {
		parts = append(parts, def)
	}
	for _, e := range f.Levels {
		parts = append(parts, e.Prefix+"="+e.Level)
	}
	return strings.Join(parts, "; ")
}

func readLevels(path string) (Levels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return tomlLevels(data)
	case ".yaml", ".yml":
		return yamlLevels(data)
	default:
		return nil, fmt.Errorf("%s: only TOML and YAML config files keep [filters.levels] in order", filepath.Base(path))
	}
}

func tomlLevels(data []byte) (Levels, error) {
	var doc map[string]interface{}
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, err
	}
	var out Levels
	for _, key := range md.Keys() {
		if len(key) < 3 || key[0] != "filters" || key[1] != "levels" {
			continue
		}
		v, ok := lookup(doc, key)
		if !ok {
			continue
		}
		if _, table := v.(map[string]interface{}); table {
			continue
		}
		level, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("filters.levels.%s: level must be a string, got %T", strings.Join(key[2:], "."), v)
		}
		out = append(out, LevelEntry{Prefix: strings.Join(key[2:], "."), Level: level})
	}
	return out, nil
}

func lookup(doc map[string]interface{}, key []string) (interface{}, bool) {
	var cur interface{} = doc
	for _, k := range key {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if cur, ok = m[k]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func yamlLevels(data []byte) (Levels, error) {
	var doc struct {
		Filters struct {
			Levels yamlTable `yaml:"levels"`
		} `yaml:"filters"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return flattenYAML(nil, doc.Filters.Levels)
}

// yamlTable is a mapping in declaration order. yaml.v2 resolves bare off, no
// and friends to bools, so values are decoded as the text that was written.
type yamlTable []yamlItem

type yamlItem struct {
	Key   string
	Value yamlValue
}

// yamlValue holds either a level as written or a nested table.
type yamlValue struct {
	Level string
	Table yamlTable
}

func (t *yamlTable) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var order yaml.MapSlice
	if err := unmarshal(&order); err != nil {
		return err
	}
	var values map[string]yamlValue
	if err := unmarshal(&values); err != nil {
		return err
	}
	*t = make(yamlTable, 0, len(order))
	for _, item := range order {
		key, ok := item.Key.(string)
		if !ok {
			return fmt.Errorf("filters.levels: prefix %v must be quoted", item.Key)
		}
		*t = append(*t, yamlItem{Key: key, Value: values[key]})
	}
	return nil
}

func (v *yamlValue) UnmarshalYAML(unmarshal func(interface{}) error) error {
	if err := unmarshal(&v.Level); err == nil {
		return nil
	}
	v.Level = ""
	return unmarshal(&v.Table)
}

func flattenYAML(parent []string, items yamlTable) (Levels, error) {
	var out Levels
	for _, item := range items {
		key := append(append([]string{}, parent...), item.Key)
		if item.Value.Table != nil {
			nested, err := flattenYAML(key, item.Value.Table)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			continue
		}
		out = append(out, LevelEntry{Prefix: strings.Join(key, "."), Level: item.Value.Level})
	}
	return out, nil
}
