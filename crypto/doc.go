// Package crypto provides the arithmetic and cryptographic primitives used by
// the share verification servers.
//
// Note: field and polynomial math is not constant-time.
//
// # Field Operations
//
// All protocol values live in the prime field of order FieldModulus
// (2^32 - 2^20 + 1). Its multiplicative group contains a subgroup of order
// 2^20, which provides the evaluation domains for PolyFFT.
//
// # Polynomials
//
// PolyFFT converts between coefficient and point-value representations over
// power-of-two domains. PolyInterpretEval interpolates point values and
// evaluates the resulting polynomial at an arbitrary field element.
//
// # Shares and Seeds
//
// A share may be sent in full or compressed to a seed which ExpandSeed turns
// into a deterministic ChaCha20-derived vector. Shares are encrypted to a
// server with ECIES over P-256 (EncryptShare, DecryptShare).
//
// # Key Management
//
// The package provides Ed25519 for signing verification messages and X25519
// for deriving the challenge secret two servers share.
package crypto
