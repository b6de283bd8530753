// Package canonical serializes decoded JSON values to a canonical byte form
// and derives content digests from it.
//
// The serialization follows RFC 8785 (JSON Canonicalization Scheme):
//   - Object keys sorted by UTF-16 code units
//   - No insignificant whitespace
//   - No HTML escaping (< > & are emitted literally)
//   - Strings NFC normalized
//   - Numbers in ECMAScript shortest round-trip form
//
// Framed JSON-LD documents, cached context documents and harness snapshots
// are all hashed through Digest so that two runs over the same inputs can be
// compared without relying on encoder map ordering.
package canonical
