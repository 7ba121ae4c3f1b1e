// Package ciphermode implements sector-oriented block cipher modes.
//
// A buffer handed to a mode holds a whole number of consecutive data units of a fixed size,
// the first of which has the number Params.StartUnit. Every unit derives its own IV or tweak
// from the stream's BlockIV and its unit number by one encryption with a separately keyed
// tweak cipher, so any sub-range of units can be processed on its own and yields exactly the
// bytes a single call over the whole range would produce.
//
// The modes differ in how far damage spreads inside a unit:
//
//   - CBC: a flipped ciphertext bit destroys its block and flips the same bit in the next block.
//   - PCBC: a flipped ciphertext bit destroys its block and every following block of the unit.
//   - OFB: a flipped bit stays a single flipped bit.
//   - XTS: a flipped bit destroys exactly its own 16-byte block.
//   - Elephant, ElephantCBC: a flipped bit destroys the whole unit.
//
// None of the modes authenticate data. Corrupted ciphertext decrypts to garbage without error.
//
// Mode values are immutable and may be shared between goroutines. The blockcipher.Block
// instances passed in Params may not: each goroutine needs its own.
package ciphermode
