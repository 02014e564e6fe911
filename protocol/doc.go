// Package protocol implements the server side of a two-server Prio-style
// private aggregation scheme.
//
// # Overview
//
// Each client splits a vector of data together with a proof of its validity
// into two additive shares, one per server. The first server receives its
// share in full; the other receives a seed it expands locally. Neither server
// learns the data, yet together they can check that every element is 0 or 1
// and keep a running total of the valid submissions only.
//
// # Proof Layout
//
// For a dimension d, let n be the smallest power of two above d. A share holds
// ProofLength(d) = d + 3 + n field elements:
//
//	data[d] | f0 | g0 | h0 | hPacked[n]
//
// The proof describes polynomials f and g over the n-th roots of unity, with
// f taking the data values and g the data values minus one, and h = f*g over
// the 2n-th roots of unity. Only the odd points of h are sent; the even ones
// are zero for valid data.
//
// # Verification
//
// For every submission both servers:
//
//  1. Agree on a challenge point r outside the evaluation domain
//     (ChooseEvalAt, or NewChallengeStream to derive it from a shared secret).
//  2. Produce a VerificationMessage holding their shares of f(r), g(r), h(r).
//  3. Exchange messages and call Aggregate with both. The submission is
//     accepted iff (f1+f2)(r) * (g1+g2)(r) == (h1+h2)(r).
//
// Server keeps the validation scratch memory and the accumulator for one
// worker. ServerPool runs several Servers and merges their totals.
package protocol
