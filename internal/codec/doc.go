// Package codec converts typed state values to and from the string form kept
// in a backend.
//
// Values are encoded as compact JSON. Encoding is total for the values the
// state layer persists (string slices and settings objects). Decoding reports
// malformed or foreign data as a [*DecodeError], which callers treat as
// "nothing stored" rather than as a fatal condition.
package codec
