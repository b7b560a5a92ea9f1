// Package dnsmsg is a worked example of the schema package: a DNS
// message format (RFC 1035 §4) built entirely by composing schema
// constructors, including the name-compression back-reference that
// motivated the runtime's shared compression dictionary.
//
// It is hand-written the way generated code would call schema, not a
// general-purpose DNS library — only the shapes needed to demonstrate
// header counts, questions, resource records, and pointer compression
// are modeled.
package dnsmsg
