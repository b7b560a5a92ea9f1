// Package errs defines the structured error taxonomy shared by every
// encode/decode operation in binschema.
//
// Every fallible stream or schema operation returns one of the sentinel
// errors or error types below; DecodeError and EncodeError wrap another
// error to attach stream position or field-path context. Callers should use
// errors.Is against the sentinels and errors.As against the wrapper types;
// nothing in this package is retried internally.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the stream primitives (bitstream, varint).
var (
	// ErrEndOfInput is returned when a read operation needs more bytes or
	// bits than remain in the input.
	ErrEndOfInput = errors.New("binschema: end of input")

	// ErrInvalidUTF8 is returned when a string field's bytes are not
	// valid UTF-8.
	ErrInvalidUTF8 = errors.New("binschema: invalid UTF-8")

	// ErrNotByteAligned is returned by the Reader's peek methods when the
	// stream's bit cursor is not at a byte boundary.
	ErrNotByteAligned = errors.New("binschema: stream is not byte-aligned")

	// ErrInvalidBitWidth is returned when write_bits/read_bits is asked
	// for a width outside [1, 64].
	ErrInvalidBitWidth = errors.New("binschema: bit width must be between 1 and 64")

	// ErrVarintOverflow is returned when a value falls outside a varint
	// format's range: DecodeLEB128 past a 64-bit shift, EncodeVLQ above
	// 2^28-1, EncodeEBML above 2^56-2.
	ErrVarintOverflow = errors.New("binschema: varint value exceeds format range")

	// ErrVarintTooLong is returned when a varint's declared
	// length-of-length or group count exceeds the format's maximum
	// (DER length-of-length > 8 bytes, VLQ > 4 groups, EBML width > 8).
	ErrVarintTooLong = errors.New("binschema: varint encoding too long")

	// ErrSeekOutOfRange is returned by Reader.Seek when the target
	// position is past the end of the input.
	ErrSeekOutOfRange = errors.New("binschema: seek position out of range")
)

// Sentinel errors for schema composition (sequence, array, union, etc.).
var (
	// ErrConstMismatch is returned when a decoded const field does not
	// equal its declared literal value.
	ErrConstMismatch = errors.New("binschema: const field mismatch")

	// ErrNoMatchingVariant is returned when a discriminated union's
	// discriminator matches no declared variant, or when every variant
	// of an inline choice fails to decode.
	ErrNoMatchingVariant = errors.New("binschema: no matching variant")

	// ErrMissingField is returned when a computed-field expression or a
	// field-referenced array references a sibling/parent field that is
	// not present in the current record or context.
	ErrMissingField = errors.New("binschema: referenced field not found")

	// ErrBackReferenceLoop is returned when a back-reference token
	// resolves to an offset at or beyond the position of the token
	// itself, which would recurse without making progress.
	ErrBackReferenceLoop = errors.New("binschema: back-reference does not point strictly backward")

	// ErrUnalignedPosition is returned by Reader.ReadBytes and
	// Writer.WriteBytes when the stream is mid-byte, which includes
	// splicing a back-reference's or byte-length-prefixed array's payload.
	ErrUnalignedPosition = errors.New("binschema: position-dependent operation requires byte alignment")
)

// InvalidValueError reports a value that is well-formed bytes but violates
// a schema-level constraint (range, enum membership, malformed structure).
// It corresponds to spec's "invalid value" error kind.
type InvalidValueError struct {
	Detail string
}

func (e *InvalidValueError) Error() string {
	return "binschema: invalid value: " + e.Detail
}

// NewInvalidValue builds an InvalidValueError with a formatted detail
// message, mirroring the teacher's fmt.Errorf call-site style.
func NewInvalidValue(format string, args ...any) error {
	return &InvalidValueError{Detail: fmt.Sprintf(format, args...)}
}

// InvalidVariantError reports a discriminator value that does not select
// any declared union variant.
type InvalidVariantError struct {
	Discriminator any
}

func (e *InvalidVariantError) Error() string {
	return fmt.Sprintf("binschema: invalid variant discriminator: %v", e.Discriminator)
}

func (e *InvalidVariantError) Unwrap() error {
	return ErrNoMatchingVariant
}

// NotImplementedError reports a schema feature the runtime deliberately
// does not support.
type NotImplementedError struct {
	Feature string
}

func (e *NotImplementedError) Error() string {
	return "binschema: not implemented: " + e.Feature
}

// DecodeError wraps any decode-time failure with the absolute byte
// position in the input at which it occurred, per spec §7 ("decode errors
// carry the stream position at failure").
type DecodeError struct {
	Pos int
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("binschema: decode error at byte %d: %v", e.Pos, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// WrapDecode attaches a byte position to err, unless err is already nil.
func WrapDecode(pos int, err error) error {
	if err == nil {
		return nil
	}

	return &DecodeError{Pos: pos, Err: err}
}

// EncodeError wraps any encode-time failure with the dotted field path
// that was being encoded, per spec §7 ("encode errors name the offending
// field path").
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("binschema: encode error at field %q: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// WrapEncode attaches a field path to err, unless err is already nil.
func WrapEncode(path string, err error) error {
	if err == nil {
		return nil
	}

	var encErr *EncodeError
	if errors.As(err, &encErr) {
		return &EncodeError{Path: path + "." + encErr.Path, Err: encErr.Err}
	}

	return &EncodeError{Path: path, Err: err}
}
