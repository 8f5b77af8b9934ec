// Package protocol owns the control-message data model and wire codec.
//
// Ownership boundary:
// - typed argument model and message aggregate
// - message encode into caller-owned buffers
// - message decode on top of frame tokenization
// - packet/bundle resolution into message sequences
package protocol
