// Package frame tokenizes raw packets.
//
// Ownership boundary:
// - single message framing: address, type tag string, argument cursor
// - bundle framing: marker, timetag, size-prefixed elements
// - 4-byte alignment helper shared with the encoder
package frame
