package protocol

import (
	"fmt"

	"github.com/hannahdaviscrypto/mastic/crypto"
)

// MaxDimension is the largest dimension whose doubled evaluation domain fits
// in the field's FFT subgroup.
const MaxDimension = crypto.MaxFFTSize/2 - 1

// checkDimension reports whether shares of the given dimension can be verified.
func checkDimension(dimension int) error {
	if dimension <= 0 || dimension > MaxDimension {
		return fmt.Errorf("%w: dimension must be in [1, %d], got %d", ErrInvalidConfig, MaxDimension, dimension)
	}
	return nil
}

// evalDomainSize returns the order n of the domain f and g are defined over.
// Position 0 holds the random constant term so n must exceed dimension.
func evalDomainSize(dimension int) int {
	return crypto.NextPowerOfTwo(dimension + 1)
}

// ProofLength returns the number of field elements in a share for the
// given dimension: the data, the three constant terms, and the odd-indexed
// evaluations of h.
func ProofLength(dimension int) int {
	return dimension + 3 + evalDomainSize(dimension)
}

// UnpackedProof is a view of a share split into its proof components.
// All fields alias the share they were unpacked from.
type UnpackedProof struct {
	Data    []crypto.Field
	F0      *crypto.Field
	G0      *crypto.Field
	H0      *crypto.Field
	HPacked []crypto.Field
}

// UnpackProof splits share into its components without copying.
func UnpackProof(share []crypto.Field, dimension int) (*UnpackedProof, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", ErrMalformedProof, dimension)
	}
	if len(share) != ProofLength(dimension) {
		return nil, fmt.Errorf("%w: got %d elements, want %d", ErrShareLength, len(share), ProofLength(dimension))
	}

	return &UnpackedProof{
		Data:    share[:dimension],
		F0:      &share[dimension],
		G0:      &share[dimension+1],
		H0:      &share[dimension+2],
		HPacked: share[dimension+3:],
	}, nil
}

// PackProof lays out proof components in share order. It is the inverse of
// UnpackProof and is used by whoever produces shares.
func PackProof(data []crypto.Field, f0, g0, h0 crypto.Field, hPacked []crypto.Field) ([]crypto.Field, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrMalformedProof)
	}
	if n := evalDomainSize(len(data)); len(hPacked) != n {
		return nil, fmt.Errorf("%w: got %d packed h values, want %d", ErrMalformedProof, len(hPacked), n)
	}

	share := make([]crypto.Field, 0, ProofLength(len(data)))
	share = append(share, data...)
	share = append(share, f0, g0, h0)
	share = append(share, hPacked...)
	return share, nil
}
