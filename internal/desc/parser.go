package desc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrDecode reports a structurally invalid or incomplete descriptor.
var ErrDecode = errors.New("desc: decode error")

// ParseOpDesc parses a serialized operator descriptor.
func ParseOpDesc(data []byte) (*OpDesc, error) {
	p := &parser{data: data}
	d := &OpDesc{}
	if err := p.readOpDesc(d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if d.Type == "" {
		return nil, fmt.Errorf("%w: op desc has no type", ErrDecode)
	}
	return d, nil
}

// ParseOpProto parses a serialized operator-kind schema descriptor.
func ParseOpProto(data []byte) (*OpProto, error) {
	p := &parser{data: data}
	pr := &OpProto{}
	if err := p.readOpProto(pr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if pr.Type == "" {
		return nil, fmt.Errorf("%w: op proto has no type", ErrDecode)
	}
	return pr, nil
}

// parser implements a minimal protobuf wire format decoder.
type parser struct {
	data []byte
	pos  int
}

// Protobuf wire types.
const (
	wireVarint = 0 // int32, int64, bool, enum
	wire64Bit  = 1 // fixed64, double
	wireBytes  = 2 // string, embedded messages, packed repeated fields
	wire32Bit  = 5 // fixed32, float
)

func (p *parser) readOpDesc(d *OpDesc) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // inputs
			s, err := p.readString()
			if err != nil {
				return err
			}
			d.Inputs = append(d.Inputs, s)
		case 2: // outputs
			s, err := p.readString()
			if err != nil {
				return err
			}
			d.Outputs = append(d.Outputs, s)
		case 3: // type
			s, err := p.readString()
			if err != nil {
				return err
			}
			d.Type = s
		case 4: // attrs
			data, err := p.readBytes()
			if err != nil {
				return err
			}
			sub := &parser{data: data}
			attr := AttrDesc{}
			if err := sub.readAttrDesc(&attr); err != nil {
				return err
			}
			d.Attrs = append(d.Attrs, attr)
		default:
			if err := p.skipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

//nolint:gocognit,gocyclo // Field-by-field wire decoding is inherently a big switch.
func (p *parser) readAttrDesc(a *AttrDesc) error {
	typeSet := false
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // name
			a.Name, err = p.readString()
		case 2: // type
			var v int32
			v, err = p.readInt32()
			if err == nil {
				switch AttrType(v) {
				case AttrTypeInt, AttrTypeFloat, AttrTypeString,
					AttrTypeInts, AttrTypeFloats, AttrTypeStrings:
					a.Type = AttrType(v)
					typeSet = true
				default:
					return fmt.Errorf("unknown attr type tag %d", v)
				}
			}
		case 3: // i
			a.I, err = p.readInt32()
		case 4: // f
			a.F, err = p.readFloat32()
		case 5: // s
			a.S, err = p.readString()
		case 6: // ints (packed or unpacked)
			if wireType == wireBytes {
				var packed []byte
				packed, err = p.readBytes()
				if err == nil {
					sub := &parser{data: packed}
					for sub.pos < len(sub.data) {
						var v int32
						v, err = sub.readInt32()
						if err != nil {
							break
						}
						a.Ints = append(a.Ints, v)
					}
				}
			} else {
				var v int32
				v, err = p.readInt32()
				if err == nil {
					a.Ints = append(a.Ints, v)
				}
			}
		case 7: // floats (packed or unpacked)
			if wireType == wireBytes {
				var packed []byte
				packed, err = p.readBytes()
				if err == nil {
					sub := &parser{data: packed}
					for sub.pos < len(sub.data) {
						var v float32
						v, err = sub.readFloat32()
						if err != nil {
							break
						}
						a.Floats = append(a.Floats, v)
					}
				}
			} else {
				var v float32
				v, err = p.readFloat32()
				if err == nil {
					a.Floats = append(a.Floats, v)
				}
			}
		case 8: // strings
			var s string
			s, err = p.readString()
			if err == nil {
				a.Strings = append(a.Strings, s)
			}
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	if a.Name == "" {
		return errors.New("attr desc has no name")
	}
	if !typeSet {
		return fmt.Errorf("attr %q has no type", a.Name)
	}
	return nil
}

func (p *parser) readOpProto(pr *OpProto) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // type
			pr.Type, err = p.readString()
		case 2: // comment
			pr.Comment, err = p.readString()
		case 3, 4: // inputs, outputs
			var data []byte
			data, err = p.readBytes()
			if err == nil {
				sub := &parser{data: data}
				v := VarProto{}
				if err = sub.readVarProto(&v); err == nil {
					if fieldNum == 3 {
						pr.Inputs = append(pr.Inputs, v)
					} else {
						pr.Outputs = append(pr.Outputs, v)
					}
				}
			}
		case 5: // attrs
			var data []byte
			data, err = p.readBytes()
			if err == nil {
				sub := &parser{data: data}
				a := AttrProto{}
				if err = sub.readAttrProto(&a); err == nil {
					pr.Attrs = append(pr.Attrs, a)
				}
			}
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readVarProto(v *VarProto) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1:
			v.Name, err = p.readString()
		case 2:
			v.Comment, err = p.readString()
		case 3:
			v.Multiple, err = p.readBool()
		case 4:
			v.Temporary, err = p.readBool()
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readAttrProto(a *AttrProto) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1:
			a.Name, err = p.readString()
		case 2:
			var v int32
			v, err = p.readInt32()
			if err == nil {
				a.Type = AttrType(v)
			}
		case 3:
			a.Comment, err = p.readString()
		case 4:
			a.Generated, err = p.readBool()
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

// readTag reads a protobuf field tag.
func (p *parser) readTag() (fieldNum, wireType int, err error) {
	if p.pos >= len(p.data) {
		return 0, 0, io.EOF
	}
	tag, err := p.readVarint()
	if err != nil {
		return 0, 0, err
	}
	fieldNum = int(tag >> 3)
	wireType = int(tag & 0x7)
	return fieldNum, wireType, nil
}

// readVarint reads a varint-encoded int64.
func (p *parser) readVarint() (int64, error) {
	var result uint64
	var shift uint
	for {
		if p.pos >= len(p.data) {
			return 0, io.EOF
		}
		b := p.data[p.pos]
		p.pos++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= 64 {
			return 0, errors.New("varint overflow")
		}
	}
	return int64(result), nil //nolint:gosec // G115: wire varint fits in int64.
}

// readInt32 reads a varint-encoded int32.
func (p *parser) readInt32() (int32, error) {
	v, err := p.readVarint()
	if err != nil {
		return 0, err
	}
	return int32(v), nil //nolint:gosec // G115: wire varint fits in int32.
}

// readBool reads a varint-encoded bool.
func (p *parser) readBool() (bool, error) {
	v, err := p.readVarint()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// readBytes reads a length-delimited byte slice.
func (p *parser) readBytes() ([]byte, error) {
	length, err := p.readVarint()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, errors.New("negative length")
	}
	end := p.pos + int(length)
	if end > len(p.data) {
		return nil, io.ErrUnexpectedEOF
	}
	result := p.data[p.pos:end]
	p.pos = end
	return result, nil
}

// readString reads a length-delimited string.
func (p *parser) readString() (string, error) {
	data, err := p.readBytes()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readFloat32 reads a 32-bit float.
func (p *parser) readFloat32() (float32, error) {
	if p.pos+4 > len(p.data) {
		return 0, io.ErrUnexpectedEOF
	}
	bits := binary.LittleEndian.Uint32(p.data[p.pos:])
	p.pos += 4
	return math.Float32frombits(bits), nil
}

// skipField skips a field based on wire type.
func (p *parser) skipField(wireType int) error {
	switch wireType {
	case wireVarint:
		_, err := p.readVarint()
		return err
	case wire64Bit:
		if p.pos+8 > len(p.data) {
			return io.ErrUnexpectedEOF
		}
		p.pos += 8
		return nil
	case wireBytes:
		_, err := p.readBytes()
		return err
	case wire32Bit:
		if p.pos+4 > len(p.data) {
			return io.ErrUnexpectedEOF
		}
		p.pos += 4
		return nil
	default:
		return fmt.Errorf("unknown wire type: %d", wireType)
	}
}
