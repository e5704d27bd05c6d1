package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/xzzpig/levelgate/internal/core/errs"
)

const starterHeader = `# levelgate configuration.
#
# Filters are resolved when "go generate" runs; rebuild after changing them.
# The longest matching prefix wins. A filter without a prefix is the default.
# LEVELGATE_FILTERS or --filters replace this section entirely.

`

type starterFile struct {
	Filters struct {
		Default string            `toml:"default"`
		Levels  map[string]string `toml:"levels"`
	} `toml:"filters"`
	Generate struct {
		Output string `toml:"output"`
		Const  string `toml:"const"`
		Zap    bool   `toml:"zap"`
	} `toml:"generate"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

// Starter renders a starter config for a module. modulePath may be empty.
func Starter(modulePath string) ([]byte, error) {
	var f starterFile
	f.Filters.Default = "info"
	f.Filters.Levels = map[string]string{}
	if modulePath != "" {
		f.Filters.Levels[modulePath] = "debug"
	}
	f.Generate.Output = "levelgate_gen.go"
	f.Generate.Const = "maxLogLevel"
	f.Log.Level = "info"

	buf := bytes.NewBufferString(starterHeader)
	if err := toml.NewEncoder(buf).Encode(f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteStarter writes Starter(modulePath) to path. An existing file is left
// alone unless force is set.
func WriteStarter(path, modulePath string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists: %w", path, errs.ErrInvalidInput)
	}
	data, err := Starter(modulePath)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
