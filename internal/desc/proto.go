package desc

// Operator descriptor wire structures (hand-written protobuf).
//
// OpDesc is the record a collaborator hands us to instantiate one operator
// node; OpProto is the schema record the registry publishes for tooling.
// Both travel as standard protobuf wire bytes but are decoded and encoded
// by hand, without a protobuf runtime or generated code.

// AttrType tags the value carried by an attribute on the wire and in memory.
type AttrType int32

// Attribute value kinds. The set is closed: decoding any other tag fails.
const (
	AttrTypeInt     AttrType = 0 // INT
	AttrTypeFloat   AttrType = 1 // FLOAT
	AttrTypeString  AttrType = 2 // STRING
	AttrTypeInts    AttrType = 3 // INTS
	AttrTypeFloats  AttrType = 4 // FLOATS
	AttrTypeStrings AttrType = 5 // STRINGS
)

// OpDesc describes one operator node to instantiate.
type OpDesc struct {
	Inputs  []string   // Bound input variable names, field 1
	Outputs []string   // Bound output variable names, field 2
	Type    string     // Operator kind name, field 3 (required)
	Attrs   []AttrDesc // Bound attribute values, field 4
}

// AttrDesc is one self-describing attribute value.
type AttrDesc struct {
	Name    string    // field 1 (required)
	Type    AttrType  // field 2 (required)
	I       int32     // field 3, INT value
	F       float32   // field 4, FLOAT value
	S       string    // field 5, STRING value
	Ints    []int32   // field 6, INTS values
	Floats  []float32 // field 7, FLOATS values
	Strings []string  // field 8, STRINGS values
}

// OpProto describes one registered operator kind.
type OpProto struct {
	Type    string      // Kind name, field 1
	Comment string      // field 2
	Inputs  []VarProto  // Declared input slots, field 3
	Outputs []VarProto  // Declared output slots, field 4
	Attrs   []AttrProto // Declared attributes, field 5
}

// VarProto is one declared input or output slot.
type VarProto struct {
	Name      string // field 1
	Comment   string // field 2
	Multiple  bool   // field 3: slot binds a contiguous run of variables
	Temporary bool   // field 4: output is internal scratch (outputs only)
}

// AttrProto is one declared attribute schema.
type AttrProto struct {
	Name      string   // field 1
	Type      AttrType // field 2
	Comment   string   // field 3
	Generated bool     // field 4: injected by the framework, not user-declared
}
