package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/xzzpig/levelgate"
	"github.com/xzzpig/levelgate/internal/core/errs"
	"github.com/xzzpig/levelgate/internal/core/modpath"
	"github.com/xzzpig/levelgate/internal/core/rules"
	"github.com/xzzpig/levelgate/internal/i18n"
)

const (
	// EnvPrefix prefixes every environment override, e.g. LEVELGATE_LOG_LEVEL.
	EnvPrefix = "LEVELGATE"
	// EnvFilters holds the filter text. It overrides any config file.
	EnvFilters = EnvPrefix + "_FILTERS"
	// FileName is the config file base name searched for, without extension.
	FileName = "levelgate"
)

// Filters is the [filters] section.
type Filters struct {
	// Spec is complete filter text; when set, Default and Levels are ignored.
	Spec    string `mapstructure:"spec"`
	Default string `mapstructure:"default"`
	// Levels is filled from the config file in declaration order.
	Levels Levels `mapstructure:"levels"`
}

type Config struct {
	Filters Filters `mapstructure:"filters"`

	Generate struct {
		Output   string `mapstructure:"output"`
		Const    string `mapstructure:"const"`
		Prefix   string `mapstructure:"prefix"`
		Exported bool   `mapstructure:"exported"`
		Zap      bool   `mapstructure:"zap"`
	} `mapstructure:"generate"`
	Log struct {
		Level       levelgate.Level `mapstructure:"level"`
		Filters     string          `mapstructure:"filters"`
		Environment string          `mapstructure:"environment"`
	} `mapstructure:"log"`
	App struct {
		Lang string `mapstructure:"lang"`
	} `mapstructure:"app"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`

	override *string
}

// Options tells Load where to look.
type Options struct {
	// File is an explicit config file. It must exist.
	File string
	// Dir is where the search starts; the enclosing module root is searched
	// too. Defaults to the working directory.
	Dir string
	// Filters, when non-nil, replaces every other filter source.
	Filters *string
}

// Load reads the configuration: defaults, then the config file, then
// LEVELGATE_* environment variables.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		v.SetConfigName(FileName)
		v.AddConfigPath(dir)
		if mod, err := modpath.FindModule(dir); err == nil {
			v.AddConfigPath(mod.Dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// no config file; defaults and environment only
		case opts.File != "" && errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("config file %s: %w", opts.File, errs.ErrNotFound)
		default:
			return nil, invalidConfig(opts.File, err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		LevelsDecodeHook(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, invalidConfig(v.ConfigFileUsed(), err)
	}

	if used := v.ConfigFileUsed(); used != "" {
		cfg.File = used
		levels, err := readLevels(used)
		if err != nil {
			return nil, invalidConfig(used, err)
		}
		cfg.Filters.Levels = levels
	}
	cfg.override = opts.Filters
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("generate.output", "levelgate_gen.go")
	v.SetDefault("generate.const", "maxLogLevel")
	v.SetDefault("generate.prefix", "log")
	v.SetDefault("generate.exported", false)
	v.SetDefault("generate.zap", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.filters", "")
	v.SetDefault("log.environment", "development")
	v.SetDefault("app.lang", "")
}

// FilterText returns the raw filter text and a label for where it came from:
// the --filters flag, LEVELGATE_FILTERS, or the config file. Both are empty
// when no source provides filters.
func (c *Config) FilterText() (raw, source string) {
	if c.override != nil {
		return *c.override, "--filters"
	}
	if env, ok := os.LookupEnv(EnvFilters); ok {
		return env, EnvFilters
	}
	if c.File == "" {
		return "", ""
	}
	if c.Filters.Spec != "" {
		return c.Filters.Spec, filepath.Base(c.File)
	}
	return c.Filters.Compose(), filepath.Base(c.File)
}

// RuleSet compiles FilterText. Compile errors come back as translatable
// errors that still unwrap to the rules error types.
func (c *Config) RuleSet() (*rules.RuleSet, error) {
	raw, source := c.FilterText()
	set, err := rules.Compile(raw)
	if err != nil {
		return nil, localize(err, source)
	}
	return set, nil
}

// LogRuleSet compiles log.filters, the per-logger levels of levelgate itself.
// log.level is the default when log.filters names none.
func (c *Config) LogRuleSet() (*rules.RuleSet, error) {
	set, err := rules.Compile(c.Log.Filters)
	if err != nil {
		return nil, localize(err, "log.filters")
	}
	if !set.Defaulted {
		set.Default = c.Log.Level
	}
	return set, nil
}

func localize(err error, source string) error {
	var out error
	for _, e := range multierr.Errors(err) {
		var multi *rules.MultipleDefaultsError
		var unknown *rules.UnknownSeverityError
		switch {
		case errors.As(e, &multi):
			out = multierr.Append(out, i18n.NewI18nErrorWithData(i18n.ErrMultipleDefaults, map[string]interface{}{
				"Candidates": quoteAll(multi.Candidates),
				"Source":     source,
				"Raw":        multi.Raw,
			}).WithCause(e))
		case errors.As(e, &unknown):
			out = multierr.Append(out, i18n.NewI18nErrorWithData(i18n.ErrUnknownSeverity, map[string]interface{}{
				"Entry":  unknown.Entry,
				"Text":   unknown.Text,
				"Levels": levelNames(),
			}).WithCause(e))
		default:
			out = multierr.Append(out, e)
		}
	}
	return out
}

func quoteAll(list []string) string {
	quoted := make([]string, len(list))
	for i, s := range list {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}

func levelNames() string {
	var names []string
	for _, l := range levelgate.Levels() {
		names = append(names, l.String())
	}
	return strings.Join(names, ", ")
}

func invalidConfig(path string, err error) error {
	return i18n.NewI18nErrorWithData(i18n.ErrConfigInvalid, map[string]interface{}{
		"Path":   path,
		"Reason": err.Error(),
	}).WithCause(fmt.Errorf("%w: %w", errs.ErrInvalidInput, err))
}
