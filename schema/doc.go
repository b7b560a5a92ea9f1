// Package schema provides the type constructors that compose the
// bitstream and fieldctx packages into encoders/decoders for structured
// wire formats: sequences, bitfields, six kinds of array, discriminated
// unions, inline choices, optionals, DNS-style back-references, computed
// and const fields, and alignment padding.
//
// There is no schema parser or interpreter here (that, along with the
// code generator, CLI driver, and test harness, is out of scope): a
// wire format is built directly in Go by composing these constructors,
// the same way the runtime's generated code would call them. dnsmsg is
// a complete worked example.
package schema
