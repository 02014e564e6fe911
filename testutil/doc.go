/*
Package testutil provides test fixtures for the verification servers.

Servers only ever check proofs, so tests need a way to produce honest ones.
GenerateProof builds the data-plus-proof vector a client would submit and
GenerateSubmission additionally splits and encrypts it for both servers:

	sub, _ := testutil.GenerateSubmission(testutil.RandomBits(rs, 8), firstKey.PublicKey(), otherKey.PublicKey())
	v1, _ := first.GenerateVerificationMessage(evalAt, sub.EncryptedFirst)
	v2, _ := other.GenerateVerificationMessage(evalAt, sub.EncryptedOther)

Uint32Reader feeds chosen values to code that draws field elements from an
io.Reader, e.g. to force challenge selection through a domain point.

This package is intended for testing purposes only and should not be used in
production code.
*/
package testutil
