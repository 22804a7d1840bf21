// Package protocol owns the message layer built on the bitstream codec.
//
// Ownership boundary:
// - frame primitives (frame/)
// - tlv field list primitives (tlv/)
// - message encode/decode entry points with magic/version checks and metrics
package protocol
