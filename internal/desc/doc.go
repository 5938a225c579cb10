// Package desc implements the descriptor wire formats exchanged with
// collaborators: OpDesc, which requests instantiation of one operator node,
// and OpProto, the published schema of a registered operator kind.
//
// Both formats use standard protobuf wire encoding decoded and encoded by
// hand, so the package has no code-generation step and no protobuf runtime
// dependency.
//
// Key components:
//   - OpDesc / AttrDesc: one operator instantiation with self-describing
//     attribute values
//   - OpProto / VarProto / AttrProto: a kind's declared slots and attributes
//   - ParseOpDesc / ParseOpProto: wire decoding with required-field checks
//   - Marshal methods: the produced side of the exchange
//
// Decode failures, including an unrecognized attribute type tag or a missing
// required field, are reported as errors wrapping ErrDecode.
package desc
