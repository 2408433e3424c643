// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import "errors"

// These are the standard library errors functions,
// so that this package can be used in place of it.

// ErrUnsupported indicates that a requested operation cannot be performed,
// because it is unsupported. See [errors.ErrUnsupported].
var ErrUnsupported = errors.ErrUnsupported

// As is [errors.As].
func As(err error, target any) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }
