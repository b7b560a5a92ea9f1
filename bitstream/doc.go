// Package bitstream provides the bit-level encoder/decoder pair at the
// core of binschema: arbitrary-width integer and float reads/writes,
// byte-run reads/writes, and selectable bit ordering with exact
// byte-level positioning.
//
// # Bit ordering vs byte ordering
//
// Two independent axes govern how a multi-bit value lands on the wire:
//
//   - endian.BitOrder selects which bit of a value is packed into a byte
//     first when a write crosses a byte boundary mid-value.
//   - endian.Endianness (big/little) selects which byte of a multi-byte
//     numeric value is written first.
//
// # Byte-aligned fast path
//
// Whenever the stream's bit cursor sits at a byte boundary, WriteUint8/16/32/64
// and their read-side counterparts move whole bytes directly to or from the
// buffer, bypassing bit-order bookkeeping entirely — the fast path
// thebagchi-asn1c-go's PER bit buffer and this package both take.
//
// # The unaligned 8-bit crossing rule
//
// When a write_uintN call is NOT byte-aligned, each 8-bit unit of the value
// is written bit-by-bit with its lowest-order bit emitted first, regardless
// of the stream's configured BitOrder — a fixed rule, not configurable.
// This asymmetry (aligned ignores BitOrder via direct copy; unaligned always
// decomposes LSB-of-the-byte-first) is the reference behavior and is
// load-bearing: changing it breaks compatibility with schemas relying on
// it (e.g. DNS header flag fields packed adjacent to bit-level fields).
// See the package tests for the canonical boundary case.
package bitstream
