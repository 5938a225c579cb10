// Package graph sequences operator nodes into a runnable unit. A Net holds a
// fixed, caller-ordered list of nodes (typically in topological order of the
// originating graph; this package does not sort) and drives the two passes
// over it: shape inference and forward execution.
package graph

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ripple-ml/ripple/internal/op"
)

// Net is an ordered, immutable sequence of operator nodes.
//
// Both passes are strictly sequential: nodes run once each, in list order,
// and the first failure aborts the pass. Neither pass mutates the sequence,
// only the caller-owned variable store.
type Net struct {
	ops    []op.Operator
	logger *slog.Logger
}

// New builds a Net over the given nodes. The order is fixed at this point.
// A nil logger falls back to slog.Default().
func New(ops []op.Operator, logger *slog.Logger) *Net {
	if logger == nil {
		logger = slog.Default()
	}
	return &Net{ops: ops, logger: logger}
}

// Len returns the number of nodes in the sequence.
func (n *Net) Len() int { return len(n.ops) }

// At returns the i-th node.
func (n *Net) At(i int) op.Operator { return n.ops[i] }

// InferShape walks the sequence once, forward, invoking each node's shape
// inference against the shared variable store.
func (n *Net) InferShape(scope op.Scope) error {
	for i, o := range n.ops {
		if err := o.InferShape(scope); err != nil {
			return fmt.Errorf("net: infer shape: op %d (%s): %w", i, o.Base().Type, err)
		}
	}
	return nil
}

// Run walks the sequence once, forward, executing each node with the given
// device context.
func (n *Net) Run(scope op.Scope, dev op.DeviceContext) error {
	runID := uuid.NewString()
	n.logger.Debug("net run start", "run_id", runID, "ops", len(n.ops))
	for i, o := range n.ops {
		if err := o.Run(scope, dev); err != nil {
			n.logger.Error("net run failed",
				"run_id", runID, "op", i, "kind", o.Base().Type, "error", err)
			return fmt.Errorf("net: run: op %d (%s): %w", i, o.Base().Type, err)
		}
	}
	n.logger.Debug("net run done", "run_id", runID)
	return nil
}
