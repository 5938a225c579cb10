// Copyright 2026 Ripple ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ops is the public API for the built-in operator kinds: identity,
// scale, add, and sum, with their gradients.
package ops

import (
	"github.com/ripple-ml/ripple/internal/ops"
	"github.com/ripple-ml/ripple/op"
)

// Register declares all built-in kinds and their gradients on the given
// registry. Call once during startup, before any instantiation.
func Register(r *op.Registry) error { return ops.Register(r) }
