package protocol

import (
	"fmt"
	"io"

	"github.com/hannahdaviscrypto/mastic/crypto"
)

// ValidationMemory is the scratch space used to evaluate proof polynomials
// for one dimension. It is allocated once and reused for every share; each
// evaluation overwrites all of it.
type ValidationMemory struct {
	dimension int
	pointsF   []crypto.Field
	pointsG   []crypto.Field
	pointsH   []crypto.Field
	polyMem   *crypto.PolyAuxMemory
}

// NewValidationMemory allocates scratch space for shares of the given dimension.
func NewValidationMemory(dimension int) (*ValidationMemory, error) {
	if err := checkDimension(dimension); err != nil {
		return nil, err
	}

	n := evalDomainSize(dimension)
	return &ValidationMemory{
		dimension: dimension,
		pointsF:   crypto.NewFieldVector(n),
		pointsG:   crypto.NewFieldVector(n),
		pointsH:   crypto.NewFieldVector(2 * n),
		polyMem:   crypto.NewPolyAuxMemory(n),
	}, nil
}

// Dimension returns the dimension the memory was sized for.
func (m *ValidationMemory) Dimension() int {
	return m.dimension
}

// ChooseEvalAt draws challenge points from rand until one lies outside the
// order-2n evaluation domain. It fails only if rand does.
func (m *ValidationMemory) ChooseEvalAt(rand io.Reader) (crypto.Field, error) {
	for {
		evalAt, err := crypto.RandomField(rand)
		if err != nil {
			return crypto.FieldZero, fmt.Errorf("draw challenge point: %w", err)
		}
		if !m.polyMem.IsRoot2N(evalAt) {
			return evalAt, nil
		}
	}
}

// VerificationMessage holds one server's share of f(r), g(r) and h(r).
type VerificationMessage struct {
	FR crypto.Field `json:"f_r"`
	GR crypto.Field `json:"g_r"`
	HR crypto.Field `json:"h_r"`
}

// GenerateVerificationMessage evaluates this server's share of the proof
// polynomials at evalAt. The share is not modified.
func GenerateVerificationMessage(dimension int, evalAt crypto.Field, share []crypto.Field, role Role, mem *ValidationMemory) (*VerificationMessage, error) {
	unpacked, err := UnpackProof(share, dimension)
	if err != nil {
		return nil, err
	}
	if mem == nil || mem.dimension != dimension {
		return nil, fmt.Errorf("%w: validation memory does not match dimension %d", ErrMalformedProof, dimension)
	}

	n := len(mem.pointsF)

	mem.pointsF[0] = *unpacked.F0
	mem.pointsG[0] = *unpacked.G0
	for i, x := range unpacked.Data {
		mem.pointsF[i+1] = x
		mem.pointsG[i+1] = role.AdjustG(x)
	}
	clear(mem.pointsF[dimension+1 : n])
	clear(mem.pointsG[dimension+1 : n])

	// Even positions beyond 0 are products of padding and stay zero
	clear(mem.pointsH)
	mem.pointsH[0] = *unpacked.H0
	for j, x := range unpacked.HPacked {
		mem.pointsH[2*j+1] = x
	}

	polyMem := mem.polyMem
	return &VerificationMessage{
		FR: crypto.PolyInterpretEval(mem.pointsF, polyMem.RootsNInverted, evalAt, polyMem.Coeffs),
		GR: crypto.PolyInterpretEval(mem.pointsG, polyMem.RootsNInverted, evalAt, polyMem.Coeffs),
		HR: crypto.PolyInterpretEval(mem.pointsH, polyMem.Roots2NInverted, evalAt, polyMem.Coeffs),
	}, nil
}

// IsValidShare combines both servers' verification messages and checks
// f(r) * g(r) == h(r).
func IsValidShare(v1, v2 *VerificationMessage) bool {
	if v1 == nil || v2 == nil {
		return false
	}

	fr := v1.FR.Add(v2.FR)
	gr := v1.GR.Add(v2.GR)
	hr := v1.HR.Add(v2.HR)
	return fr.Mul(gr) == hr
}
