// Package codegen renders the per-package constant file that folds a filter
// resolution into a compile-time level.
package codegen

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/xzzpig/levelgate"
	"github.com/xzzpig/levelgate/internal/core/errs"
	"github.com/xzzpig/levelgate/internal/core/rules"
)

// DefaultOutput is the file name written into each package.
const DefaultOutput = "levelgate_gen.go"

// Header marks files written by the generator.
const Header = "// Code generated by levelgate; DO NOT EDIT."

//go:embed levelgate_gen.go.tmpl
var fileTemplate string

var tmpl = template.Must(template.New("levelgate").Parse(fileTemplate))

// Options controls the generated identifiers.
type Options struct {
	// Package is the package clause of the generated file.
	Package string
	// ImportPath is the module path the filters were resolved for.
	ImportPath string
	// Const names the level constant. Defaults to "maxLogLevel".
	Const string
	// Prefix starts each per-level boolean, e.g. "log" gives logDebugEnabled.
	// Defaults to "log".
	Prefix string
	// Exported capitalises every generated identifier.
	Exported bool
	// Zap adds a gateLogger helper wrapping a *zap.Logger.
	Zap bool
}

type enabledConst struct {
	Name  string
	Level string
}

type fileData struct {
	Package    string
	ImportPath string
	Const      string
	Level      string
	Reason     string
	Enabled    []enabledConst
	Zap        bool
	GateFunc   string
}

// Names returns the level constant name and the per-level boolean names that
// opts produce, the latter indexed by level.
func (o Options) Names() (string, map[levelgate.Level]string) {
	constName := o.Const
	if constName == "" {
		constName = "maxLogLevel"
	}
	prefix := o.Prefix
	if prefix == "" {
		prefix = "log"
	}
	enabled := make(map[levelgate.Level]string, 5)
	for _, l := range levelgate.Levels() {
		if l == levelgate.Off {
			continue
		}
		enabled[l] = ident(prefix+l.GoName()+"Enabled", o.Exported)
	}
	return ident(constName, o.Exported), enabled
}

func ident(name string, exported bool) string {
	if name == "" {
		return name
	}
	if exported {
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// Reason describes in one sentence why res has its level.
func Reason(set *rules.RuleSet, res rules.Resolution) string {
	switch {
	case res.Rule != nil:
		return fmt.Sprintf("Selected by filter %q.", res.Rule.String())
	case set.Defaulted:
		return fmt.Sprintf("No prefix filter matches; default %q applies.", set.Default.String())
	default:
		return fmt.Sprintf("No filter matches and no default is set; %q applies.", set.Default.String())
	}
}

// Generate resolves opts.ImportPath against set and renders the gofmt-ed
// source of the constant file.
func Generate(set *rules.RuleSet, opts Options) ([]byte, error) {
	if opts.Package == "" {
		return nil, fmt.Errorf("package name is required: %w", errs.ErrInvalidInput)
	}
	res := set.Resolve(opts.ImportPath)
	constName, enabled := opts.Names()

	data := fileData{
		Package:    opts.Package,
		ImportPath: opts.ImportPath,
		Const:      constName,
		Level:      res.Level.GoName(),
		Reason:     Reason(set, res),
		Zap:        opts.Zap,
		GateFunc:   ident("gateLogger", opts.Exported),
	}
	for _, l := range levelgate.Levels() {
		if name, ok := enabled[l]; ok {
			data.Enabled = append(data.Enabled, enabledConst{Name: name, Level: l.GoName()})
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.ImportPath, err)
	}
	src, err := imports.Process(DefaultOutput, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("format generated source for %s: %w", opts.ImportPath, err)
	}
	return src, nil
}
