// Copyright 2026 Ripple ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package desc is the public API for the descriptor wire formats: OpDesc,
// which requests instantiation of one operator node, and OpProto, the
// published schema of a registered kind. Both use protobuf wire encoding
// handled without a protobuf runtime dependency.
package desc

import (
	"github.com/ripple-ml/ripple/internal/desc"
)

// Wire structures.

// OpDesc describes one operator node to instantiate.
type OpDesc = desc.OpDesc

// AttrDesc is one self-describing attribute value.
type AttrDesc = desc.AttrDesc

// OpProto describes one registered operator kind.
type OpProto = desc.OpProto

// VarProto is one declared input or output slot.
type VarProto = desc.VarProto

// AttrProto is one declared attribute schema.
type AttrProto = desc.AttrProto

// AttrType tags an attribute value kind on the wire.
type AttrType = desc.AttrType

// Attribute value kinds.
const (
	AttrTypeInt     = desc.AttrTypeInt
	AttrTypeFloat   = desc.AttrTypeFloat
	AttrTypeString  = desc.AttrTypeString
	AttrTypeInts    = desc.AttrTypeInts
	AttrTypeFloats  = desc.AttrTypeFloats
	AttrTypeStrings = desc.AttrTypeStrings
)

// ErrDecode reports a structurally invalid or incomplete descriptor.
var ErrDecode = desc.ErrDecode

// ParseOpDesc parses a serialized operator descriptor.
func ParseOpDesc(data []byte) (*OpDesc, error) { return desc.ParseOpDesc(data) }

// ParseOpProto parses a serialized operator-kind schema descriptor.
func ParseOpProto(data []byte) (*OpProto, error) { return desc.ParseOpProto(data) }
