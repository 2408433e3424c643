// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"io"
	"log/slog"
	"os"
)

// SetDefaultLogger sets the default [slog] logger to one that
// writes text to [os.Stderr], filtered at the current [UserLevel],
// with colored level tags when [UseColor] is on.
func SetDefaultLogger() {
	slog.SetDefault(slog.New(NewHandler(os.Stderr)))
}

// NewHandler returns a [slog.Handler] writing text to the given writer,
// filtered at the current [UserLevel] (which is read on every record).
func NewHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: userLeveler{},
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey || len(groups) > 0 {
				return a
			}
			lev, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}
			return slog.String(a.Key, ApplyColor(lev, lev.String()))
		},
	})
}
