// Package blockcipher defines the contract shared by all 16-byte block ciphers used by the sector
// cipher modes, together with the owned secret key type they are keyed with.
//
// A Block is stateful: it holds the expanded key schedule of exactly one key, loaded with Init and
// discarded with Reset. It operates on a single 16-byte window of a byte slice, or on four 32-bit
// words packed big-endian, and both windows may alias (in-place operation).
//
// Block values are not safe for concurrent use. Every logical stream should own its own instances.
package blockcipher
