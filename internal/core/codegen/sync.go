package codegen

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xzzpig/levelgate/internal/core/errs"
	"github.com/xzzpig/levelgate/internal/core/modpath"
)

// Sync makes the file at path hold src. It leaves an identical file untouched
// and reports whether anything changed. With check set it never writes and
// returns an error wrapping errs.ErrStale when the file would change. I/O
// failures wrap errs.ErrSystem.
func Sync(path string, src []byte, check bool) (bool, error) {
	current, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(current, src):
		return false, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("read %s: %w: %w", path, errs.ErrSystem, err)
	}
	if check {
		return true, fmt.Errorf("%s: %w", path, errs.ErrStale)
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w: %w", path, errs.ErrSystem, err)
	}
	return true, nil
}

// Discover walks root and returns every package directory that opted in to
// generation: it already holds output, or one of its Go files carries a
// go:generate directive mentioning levelgate. Nested modules, vendor and
// testdata trees, and directories starting with "." or "_" are skipped.
func Discover(root, output string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root {
			if modpath.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
				return filepath.SkipDir
			}
		}
		ok, err := optedIn(path, output)
		if err != nil {
			return err
		}
		if ok {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover packages under %s: %w", root, err)
	}
	return dirs, nil
}

func optedIn(dir, output string) (bool, error) {
	if _, err := os.Stat(filepath.Join(dir, output)); err == nil {
		return true, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") {
			continue
		}
		found, err := hasDirective(filepath.Join(dir, e.Name()))
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

func hasDirective(file string) (bool, error) {
	f, err := os.Open(file)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// Lines are unbounded; generated files often exceed bufio.Scanner's limit.
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if strings.HasPrefix(line, "//go:generate") && strings.Contains(line, "levelgate") {
			return true, nil
		}
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
}
