/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"context"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/xzzpig/levelgate/internal/core/codegen"
	"github.com/xzzpig/levelgate/internal/core/config"
	"github.com/xzzpig/levelgate/internal/core/logger"
	"github.com/xzzpig/levelgate/internal/core/modpath"
	"github.com/xzzpig/levelgate/internal/core/rules"
)

// generator writes constant files for one compiled RuleSet.
type generator struct {
	set    *rules.RuleSet
	opts   codegen.Options
	output string
	check  bool
	log    *zap.Logger
}

func newGenerator(set *rules.RuleSet, c *config.Config) *generator {
	return &generator{
		set: set,
		opts: codegen.Options{
			Const:    c.Generate.Const,
			Prefix:   c.Generate.Prefix,
			Exported: c.Generate.Exported,
			Zap:      c.Generate.Zap,
		},
		output: c.Generate.Output,
		log:    logger.Named("generate"),
	}
}

// packageDir generates the file for the package in dir. Empty pkg and
// importPath are derived from the directory.
func (g *generator) packageDir(dir, pkg, importPath string) (bool, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}
	if importPath == "" {
		if importPath, err = modpath.ImportPath(dir); err != nil {
			return false, moduleError(dir, err)
		}
	}
	return g.write(dir, pkg, importPath)
}

func (g *generator) write(dir, pkg, importPath string) (bool, error) {
	if pkg == "" {
		name, err := modpath.PackageName(dir, g.output)
		if err != nil {
			return false, packageError(dir, err)
		}
		pkg = name
	}

	opts := g.opts
	opts.Package = pkg
	opts.ImportPath = importPath
	src, err := codegen.Generate(g.set, opts)
	if err != nil {
		return false, err
	}

	path := filepath.Join(dir, g.output)
	changed, err := codegen.Sync(path, src, g.check)
	if err != nil {
		return changed, staleError(path, err)
	}
	level := g.set.Level(importPath)
	if changed {
		g.log.Info("Wrote level constants",
			zap.String("package", importPath),
			zap.Stringer("level", level),
			zap.String("file", path),
		)
	} else {
		g.log.Debug("Level constants up to date", zap.String("package", importPath), zap.Stringer("level", level))
	}
	return changed, nil
}

// module regenerates every opted-in package of the module enclosing dir. It
// keeps going past failing packages and returns their errors combined.
func (g *generator) module(ctx context.Context, dir string) (changed int, err error) {
	mod, err := modpath.FindModule(dir)
	if err != nil {
		return 0, moduleError(dir, err)
	}
	dirs, err := codegen.Discover(mod.Dir, g.output)
	if err != nil {
		return 0, err
	}
	g.log.Debug("Discovered packages", zap.String("module", mod.Path), zap.Int("count", len(dirs)))

	var errs error
	for _, d := range dirs {
		if err := ctx.Err(); err != nil {
			return changed, multierr.Append(errs, err)
		}
		importPath, err := mod.ImportPath(d)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		ok, err := g.write(d, "", importPath)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if ok {
			changed++
		}
	}
	return changed, errs
}
