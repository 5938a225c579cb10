// Copyright 2026 Ripple ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph is the public API for sequencing operator nodes into a
// runnable Net with shape-inference and forward execution passes.
package graph

import (
	"log/slog"

	"github.com/ripple-ml/ripple/internal/graph"
	"github.com/ripple-ml/ripple/op"
)

// Net is an ordered, immutable sequence of operator nodes.
type Net = graph.Net

// New builds a Net over the given nodes; the order is fixed at this point.
// A nil logger falls back to slog.Default().
func New(ops []op.Operator, logger *slog.Logger) *Net {
	return graph.New(ops, logger)
}
