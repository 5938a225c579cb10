// Copyright 2026 Ripple ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package scope is the public API for the chained name→value variable store.
// It satisfies the op.Scope interface the operator core consumes.
package scope

import (
	"github.com/ripple-ml/ripple/internal/scope"
)

// Scope is a name-keyed variable store with optional parent chaining.
type Scope = scope.Scope

// New creates a root scope.
func New() *Scope { return scope.New() }
