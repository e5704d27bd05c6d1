// Package modpath works out the import path and package name of a directory
// inside a Go module without invoking the go command.
package modpath

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/xzzpig/levelgate/internal/core/errs"
)

// Module is the module enclosing a directory.
type Module struct {
	// Path is the module path declared in go.mod.
	Path string
	// Dir is the absolute directory holding go.mod.
	Dir string
}

// FindModule walks up from dir to the nearest go.mod.
func FindModule(dir string) (Module, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Module{}, fmt.Errorf("resolve %q: %w", dir, err)
	}
	for cur := abs; ; {
		data, err := os.ReadFile(filepath.Join(cur, "go.mod"))
		if err == nil {
			modPath := modfile.ModulePath(data)
			if modPath == "" {
				return Module{}, fmt.Errorf("%s/go.mod has no module directive: %w", cur, errs.ErrInvalidInput)
			}
			return Module{Path: modPath, Dir: cur}, nil
		}
		if !os.IsNotExist(err) {
			return Module{}, fmt.Errorf("read go.mod: %w", err)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return Module{}, fmt.Errorf("no go.mod above %s: %w", abs, errs.ErrNotFound)
		}
		cur = parent
	}
}

// ImportPath returns the import path of the package in dir.
func (m Module) ImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", dir, err)
	}
	rel, err := filepath.Rel(m.Dir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside module %s: %w", abs, m.Path, errs.ErrInvalidInput)
	}
	if rel == "." {
		return m.Path, nil
	}
	return path.Join(m.Path, filepath.ToSlash(rel)), nil
}

// ImportPath is FindModule(dir) followed by Module.ImportPath(dir).
func ImportPath(dir string) (string, error) {
	mod, err := FindModule(dir)
	if err != nil {
		return "", err
	}
	return mod.ImportPath(dir)
}

// PackageName returns the name declared by the non-test Go files in dir,
// skipping files named in ignore (typically the generator's own output).
func PackageName(dir string, ignore ...string) (string, error) {
	files, err := goFiles(dir, ignore)
	if err != nil {
		return "", err
	}
	fset := token.NewFileSet()
	for _, name := range files {
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.PackageClauseOnly)
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", name, err)
		}
		if pkg := f.Name.Name; pkg != "" && !strings.HasSuffix(pkg, "_test") {
			return pkg, nil
		}
	}
	return "", fmt.Errorf("no Go package in %s: %w", dir, errs.ErrNotFound)
}

func goFiles(dir string, ignore []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		if contains(ignore, name) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// SkipDir reports whether a directory is left out of module walks: hidden
// and underscore-prefixed directories, vendor and testdata. These match the
// directories the go tool ignores.
func SkipDir(name string) bool {
	if name == "vendor" || name == "testdata" {
		return true
	}
	return len(name) > 1 && (name[0] == '.' || name[0] == '_') && name != ".."
}
