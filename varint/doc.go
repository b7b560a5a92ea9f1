// Package varint implements the four variable-length integer encodings
// named by the wire format: DER (ASN.1-style length-of-length), LEB128
// (Protobuf-style, wire-identical to encoding/binary's uvarint), EBML
// (Matroska-style marker-bit width selection), and VLQ (MIDI-style,
// high-group-first).
//
// Each encoding provides a pure Encode function (uint64 in, []byte out)
// and a Decode function that pulls bytes one at a time from a ByteSource,
// so the same decoder works whether the bytes come from a plain slice or
// from a bitstream.Reader respecting its own byte-aligned/unaligned read
// rules.
package varint
