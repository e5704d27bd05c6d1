/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"errors"

	"github.com/xzzpig/levelgate/internal/core/errs"
	"github.com/xzzpig/levelgate/internal/i18n"
)

// moduleError translates a missing go.mod; other errors pass through.
func moduleError(dir string, err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return i18n.NewI18nErrorWithData(i18n.ErrModuleNotFound, map[string]interface{}{"Dir": dir}).WithCause(err)
	}
	return err
}

// packageError translates a directory without Go files.
func packageError(dir string, err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return i18n.NewI18nErrorWithData(i18n.ErrPackageNotFound, map[string]interface{}{"Dir": dir}).WithCause(err)
	}
	return err
}

// staleError translates errs.ErrStale from codegen.Sync.
func staleError(path string, err error) error {
	if errors.Is(err, errs.ErrStale) {
		return i18n.NewI18nErrorWithData(i18n.ErrStaleFile, map[string]interface{}{"Path": path}).WithCause(err)
	}
	return err
}

func invalidInput(reason string) error {
	return i18n.NewI18nErrorWithData(i18n.ErrInvalidInput, map[string]interface{}{"Reason": reason}).WithCause(errs.ErrInvalidInput)
}
