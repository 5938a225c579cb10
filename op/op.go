// Copyright 2026 Ripple ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package op is the public API for the operator registry: declaring operator
// kinds with schemas and attribute checkers, instantiating operator nodes,
// and deriving gradient operators.
//
// Example:
//
//	r := op.NewRegistry()
//	r.MustRegister("scale", func(m *op.Maker) {
//	    m.AddInput("X", "The input")
//	    m.AddOutput("Out", "The scaled input")
//	    op.AddAttr[float32](m, "scale", "Scale factor").SetDefault(1)
//	}, func() op.Operator { return &scaleOp{} })
//
//	node, err := r.NewOp("scale", []string{"x"}, []string{"y"}, nil)
package op

import (
	iop "github.com/ripple-ml/ripple/internal/op"
)

// Core types.

// Registry maps operator kind names to schemas, checkers, constructors and
// gradient constructors.
type Registry = iop.Registry

// Operator is one instantiated operator node.
type Operator = iop.Operator

// OpNode is the data core of an operator node; concrete kinds embed it.
type OpNode = iop.OpNode

// Constructor builds a bare node of one kind.
type Constructor = iop.Constructor

// Maker declares one kind's schema.
type Maker = iop.Maker

// VarIndex maps slot names to positions; shared read-only per kind.
type VarIndex = iop.VarIndex

// Attribute is the tagged union over attribute value kinds.
type Attribute = iop.Attribute

// AttributeMap binds attribute names to values.
type AttributeMap = iop.AttributeMap

// AttrType tags an attribute value kind.
type AttrType = iop.AttrType

// AttrData constrains the Go types an attribute can hold.
type AttrData = iop.AttrData

// TypedChecker chains defaults and predicates onto one declared attribute.
type TypedChecker[T iop.AttrData] = iop.TypedChecker[T]

// OpAttrChecker validates a bound attribute map against a kind's schema.
type OpAttrChecker = iop.OpAttrChecker

// Scope is the externally supplied variable store.
type Scope = iop.Scope

// DeviceContext is the opaque execution-environment handle.
type DeviceContext = iop.DeviceContext

// Reserved names.
const (
	TempVarName   = iop.TempVarName
	GradVarSuffix = iop.GradVarSuffix
)

// Error taxonomy.
var (
	ErrKindNotFound      = iop.ErrKindNotFound
	ErrNotDifferentiable = iop.ErrNotDifferentiable
	ErrValidation        = iop.ErrValidation
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry { return iop.NewRegistry() }

// Global returns the process-wide default registry.
func Global() *Registry { return iop.Global() }

// Make constructs an attribute value.
func Make[T AttrData](v T) Attribute { return iop.Make(v) }

// Get extracts a typed value from an attribute.
func Get[T AttrData](a Attribute) (T, error) { return iop.Get[T](a) }

// GetAttr returns a typed bound attribute value from a node.
func GetAttr[T AttrData](o *OpNode, name string) (T, error) { return iop.GetAttr[T](o, name) }

// AddAttr declares an attribute of type T on a schema under construction.
func AddAttr[T AttrData](m *Maker, name, comment string) *TypedChecker[T] {
	return iop.AddAttr[T](m, name, comment)
}

// LargerThan builds a predicate requiring the value to exceed lower.
func LargerThan[T int | float32](lower T) func(T) error { return iop.LargerThan(lower) }

// InEnum builds a predicate requiring the value to be one of allowed.
func InEnum[T int | float32 | string](allowed ...T) func(T) error { return iop.InEnum(allowed...) }
