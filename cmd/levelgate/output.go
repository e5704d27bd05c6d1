/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
	"golang.org/x/term"

	"github.com/xzzpig/levelgate"
)

var levelColors = map[levelgate.Level]color.RGBColor{
	levelgate.Off:   color.RGB(80, 80, 80),    // Gray
	levelgate.Error: color.RGB(231, 0, 11),    // Red
	levelgate.Warn:  color.RGB(254, 154, 0),   // Orange
	levelgate.Info:  color.RGB(21, 93, 252),   // Blue
	levelgate.Debug: color.RGB(0, 166, 62),    // Light Green
	levelgate.Trace: color.RGB(150, 150, 150), // Light Gray
}

// colorize reports whether w is a terminal worth colouring for.
func colorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// levelText renders l upper-cased, coloured when on is set.
func levelText(l levelgate.Level, on bool) string {
	text := strings.ToUpper(l.String())
	if !on {
		return text
	}
	return levelColors[l].Sprint(text)
}
