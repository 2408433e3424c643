// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Output is where the Print helpers write. It defaults to [os.Stdout].
var Output io.Writer = os.Stdout

// Print is equivalent to [fmt.Fprint] to [Output], but it only
// prints if the given level is at or above [UserLevel].
func Print(level slog.Level, a ...any) (n int, err error) {
	if UserLevel > level {
		return 0, nil
	}
	return fmt.Fprint(Output, ApplyColor(level, fmt.Sprint(a...)))
}

// PrintDebug prints the given arguments at the debug level.
func PrintDebug(a ...any) (n int, err error) {
	return Print(slog.LevelDebug, a...)
}

// Println is equivalent to [fmt.Fprintln] to [Output], but it only
// prints if the given level is at or above [UserLevel].
func Println(level slog.Level, a ...any) (n int, err error) {
	if UserLevel > level {
		return 0, nil
	}
	s := fmt.Sprintln(a...)
	s = s[:len(s)-1] // color must not wrap the newline
	return fmt.Fprintln(Output, ApplyColor(level, s))
}

// PrintlnDebug prints the given arguments with a newline at the debug level.
func PrintlnDebug(a ...any) (n int, err error) {
	return Println(slog.LevelDebug, a...)
}

// PrintlnInfo prints the given arguments with a newline at the info level.
func PrintlnInfo(a ...any) (n int, err error) {
	return Println(slog.LevelInfo, a...)
}

// PrintlnWarn prints the given arguments with a newline at the warn level.
func PrintlnWarn(a ...any) (n int, err error) {
	return Println(slog.LevelWarn, a...)
}

// PrintlnError prints the given arguments with a newline at the error level.
func PrintlnError(a ...any) (n int, err error) {
	return Println(slog.LevelError, a...)
}

// Printf is equivalent to [fmt.Fprintf] to [Output], but it only
// prints if the given level is at or above [UserLevel].
func Printf(level slog.Level, format string, a ...any) (n int, err error) {
	if UserLevel > level {
		return 0, nil
	}
	return fmt.Fprint(Output, ApplyColor(level, fmt.Sprintf(format, a...)))
}

// PrintfDebug prints the given formatted arguments at the debug level.
func PrintfDebug(format string, a ...any) (n int, err error) {
	return Printf(slog.LevelDebug, format, a...)
}
