package desc

import (
	"encoding/binary"
	"math"
)

// Wire encoding, the mirror image of parser.go. Used for the schema
// descriptors the registry publishes and for building OpDesc records in
// tooling and tests.

// Marshal encodes the operator descriptor to protobuf wire bytes.
func (d *OpDesc) Marshal() []byte {
	var b []byte
	for _, in := range d.Inputs {
		b = appendString(b, 1, in)
	}
	for _, out := range d.Outputs {
		b = appendString(b, 2, out)
	}
	b = appendString(b, 3, d.Type)
	for i := range d.Attrs {
		b = appendMessage(b, 4, d.Attrs[i].marshal())
	}
	return b
}

func (a *AttrDesc) marshal() []byte {
	var b []byte
	b = appendString(b, 1, a.Name)
	b = appendVarint(b, 2, int64(a.Type))
	switch a.Type {
	case AttrTypeInt:
		b = appendVarint(b, 3, int64(a.I))
	case AttrTypeFloat:
		b = appendFloat32(b, 4, a.F)
	case AttrTypeString:
		b = appendString(b, 5, a.S)
	case AttrTypeInts:
		for _, v := range a.Ints {
			b = appendVarint(b, 6, int64(v))
		}
	case AttrTypeFloats:
		for _, v := range a.Floats {
			b = appendFloat32(b, 7, v)
		}
	case AttrTypeStrings:
		for _, v := range a.Strings {
			b = appendString(b, 8, v)
		}
	}
	return b
}

// Marshal encodes the operator-kind schema descriptor to protobuf wire bytes.
func (pr *OpProto) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, pr.Type)
	b = appendString(b, 2, pr.Comment)
	for i := range pr.Inputs {
		b = appendMessage(b, 3, pr.Inputs[i].marshal())
	}
	for i := range pr.Outputs {
		b = appendMessage(b, 4, pr.Outputs[i].marshal())
	}
	for i := range pr.Attrs {
		b = appendMessage(b, 5, pr.Attrs[i].marshal())
	}
	return b
}

func (v *VarProto) marshal() []byte {
	var b []byte
	b = appendString(b, 1, v.Name)
	b = appendString(b, 2, v.Comment)
	b = appendBool(b, 3, v.Multiple)
	b = appendBool(b, 4, v.Temporary)
	return b
}

func (a *AttrProto) marshal() []byte {
	var b []byte
	b = appendString(b, 1, a.Name)
	b = appendVarint(b, 2, int64(a.Type))
	b = appendString(b, 3, a.Comment)
	b = appendBool(b, 4, a.Generated)
	return b
}

func appendTag(b []byte, fieldNum, wireType int) []byte {
	return appendRawVarint(b, uint64(fieldNum)<<3|uint64(wireType)) //nolint:gosec // G115: field numbers are small constants.
}

func appendRawVarint(b []byte, v uint64) []byte {
	for v >= 0x80 {
		b = append(b, byte(v)|0x80)
		v >>= 7
	}
	return append(b, byte(v))
}

func appendVarint(b []byte, fieldNum int, v int64) []byte {
	b = appendTag(b, fieldNum, wireVarint)
	return appendRawVarint(b, uint64(v)) //nolint:gosec // G115: two's complement varint encoding.
}

func appendBool(b []byte, fieldNum int, v bool) []byte {
	if v {
		return appendVarint(b, fieldNum, 1)
	}
	return appendVarint(b, fieldNum, 0)
}

func appendString(b []byte, fieldNum int, s string) []byte {
	b = appendTag(b, fieldNum, wireBytes)
	b = appendRawVarint(b, uint64(len(s)))
	return append(b, s...)
}

func appendMessage(b []byte, fieldNum int, msg []byte) []byte {
	b = appendTag(b, fieldNum, wireBytes)
	b = appendRawVarint(b, uint64(len(msg)))
	return append(b, msg...)
}

func appendFloat32(b []byte, fieldNum int, v float32) []byte {
	b = appendTag(b, fieldNum, wire32Bit)
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
}
