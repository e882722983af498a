// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

package compiler

import (
	"errors"
	"fmt"
)

// ErrInvalidKey is returned synchronously when Compile is called with an
// empty template key. This is a caller contract violation, not a runtime
// compilation failure, so it is never stored in a cache entry.
var ErrInvalidKey = errors.New("compiler: template key must not be empty")

// NotFoundError reports that no source item exists for the requested key.
// Not-found results are not cached; the next request probes the source
// again.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Key)
}

// GenerateError reports that the code generator could not translate a
// template item. It stays cached in the entry until the entry is evicted.
type GenerateError struct {
	Key string
	Err error
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("generate template %q: %v", e.Key, e.Err)
}

func (e *GenerateError) Unwrap() error { return e.Err }

// CompileError reports that the unit compiler could not produce a loadable
// unit from a generated program. Sticky like GenerateError.
type CompileError struct {
	Key string
	Err error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile template %q: %v", e.Key, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// ConfigError reports an invalid precompiled registry configuration.
// Raised at construction time, fatal to startup.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("precompiled registry: duplicate key %q (keys are compared case-insensitively)", e.Key)
}
