// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// UseColor is whether to use color in log and print messages.
// It is set by [InitColor] based on the terminal capabilities.
var UseColor = false

// colorOutput is the termenv output used for coloring, set by [InitColor].
var colorOutput *termenv.Output

// level colors for dark and light terminal backgrounds
var (
	darkColors = map[slog.Level]string{
		slog.LevelDebug: "#8a8a8a",
		slog.LevelInfo:  "#7fd4ff",
		slog.LevelWarn:  "#ffd75f",
		slog.LevelError: "#ff5f5f",
	}
	lightColors = map[slog.Level]string{
		slog.LevelDebug: "#5f5f5f",
		slog.LevelInfo:  "#005f87",
		slog.LevelWarn:  "#875f00",
		slog.LevelError: "#af0000",
	}
)

// InitColor sets up the terminal environment for color output
// on [os.Stderr], enabling [UseColor] if the terminal supports it.
func InitColor() {
	colorOutput = termenv.NewOutput(os.Stderr)
	UseColor = colorOutput.Profile != termenv.Ascii
}

// ApplyColor returns the given string colored according to the given
// level, if [UseColor] is on. Otherwise it returns the string unchanged.
func ApplyColor(level slog.Level, s string) string {
	if !UseColor || colorOutput == nil {
		return s
	}
	colors := darkColors
	if !colorOutput.HasDarkBackground() {
		colors = lightColors
	}
	clr, ok := colors[level]
	if !ok {
		return s
	}
	st := colorOutput.String(s).Foreground(colorOutput.Color(clr))
	if level >= slog.LevelWarn {
		st = st.Bold()
	}
	return st.String()
}
