// Package encryption encrypts files into sector envelopes and back.
//
// An envelope carries a fixed header naming the cipher mode, block cipher, unit size and key
// derivation, the block IV and stream tweak sealed with AES-SIV, the body as a whole number of
// data units, and an HMAC-SHA256 tag over everything before it. The body is transformed segment
// by segment; each segment is split into unit ranges processed by parallel workers, each with
// its own cipher instances.
package encryption
