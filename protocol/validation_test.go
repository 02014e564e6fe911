package protocol

import (
	"crypto/rand"
	mrand "math/rand"
	"slices"
	"testing"

	"github.com/hannahdaviscrypto/mastic/crypto"
	"github.com/hannahdaviscrypto/mastic/testutil"
	"github.com/stretchr/testify/require"
)

var dimension8Proof = []uint32{
	1, 0, 0, 0, 0, 0, 0, 0, 2052337230, 3217065186, 1886032198, 2533724497, 397524722,
	3820138372, 1535223968, 4291254640, 3565670552, 2447741959, 163741941, 335831680,
	2567182742, 3542857140, 124017604, 4201373647, 431621210, 1618555683, 267689149,
}

// splitShares returns two additive shares of proof.
func splitShares(t *testing.T, proof []crypto.Field) ([]crypto.Field, []crypto.Field) {
	t.Helper()
	second := make([]crypto.Field, len(proof))
	for i := range second {
		el, err := crypto.RandomField(rand.Reader)
		require.NoError(t, err)
		second[i] = el
	}
	first := slices.Clone(proof)
	crypto.VectorSubInplace(first, second)
	return first, second
}

func verifyShares(t *testing.T, dimension int, evalAt crypto.Field, first, second []crypto.Field) bool {
	t.Helper()
	mem, err := NewValidationMemory(dimension)
	require.NoError(t, err)

	v1, err := GenerateVerificationMessage(dimension, evalAt, first, FirstServer{}, mem)
	require.NoError(t, err)
	v2, err := GenerateVerificationMessage(dimension, evalAt, second, OtherServer{}, mem)
	require.NoError(t, err)
	return IsValidShare(v1, v2)
}

func TestDimension8Proof(t *testing.T) {
	proof := crypto.FieldsFromUint32s(dimension8Proof)
	require.Len(t, proof, ProofLength(8))

	first, second := splitShares(t, proof)
	require.True(t, verifyShares(t, 8, 12313, first, second))

	// The scalar identity also holds when one server holds everything
	require.True(t, verifyShares(t, 8, 12313, proof, crypto.NewFieldVector(len(proof))))

	tampered := slices.Clone(proof)
	tampered[0] = tampered[0].Add(crypto.FieldOne)
	first, second = splitShares(t, tampered)
	require.False(t, verifyShares(t, 8, 12313, first, second))
}

func TestCompleteness(t *testing.T) {
	rs := mrand.New(mrand.NewSource(42))

	for dimension := 1; dimension <= 40; dimension++ {
		proof, err := testutil.GenerateProof(testutil.RandomBits(rs, dimension))
		require.NoError(t, err)
		require.Len(t, proof, ProofLength(dimension))

		mem, err := NewValidationMemory(dimension)
		require.NoError(t, err)
		evalAt, err := mem.ChooseEvalAt(rand.Reader)
		require.NoError(t, err)

		first, second := splitShares(t, proof)
		require.True(t, verifyShares(t, dimension, evalAt, first, second), "dimension %d", dimension)
	}
}

func TestProofRandomness(t *testing.T) {
	data := crypto.FieldsFromUint32s([]uint32{1, 0, 1})

	a, err := testutil.GenerateProof(data, testutil.WithProofRandomness(mrand.New(mrand.NewSource(3))))
	require.NoError(t, err)
	b, err := testutil.GenerateProof(data, testutil.WithProofRandomness(mrand.New(mrand.NewSource(3))))
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := testutil.GenerateProof(data, testutil.WithProofRandomness(mrand.New(mrand.NewSource(4))))
	require.NoError(t, err)
	require.NotEqual(t, a, c)
	require.Equal(t, a[:3], c[:3])

	first, second := splitShares(t, c)
	require.True(t, verifyShares(t, 3, 12313, first, second))
}

func TestSoundness(t *testing.T) {
	rs := mrand.New(mrand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		dimension := 1 + rs.Intn(20)
		proof, err := testutil.GenerateProof(testutil.RandomBits(rs, dimension))
		require.NoError(t, err)

		pos := rs.Intn(len(proof))
		delta := crypto.NewField(1 + uint32(rs.Int63n(int64(crypto.FieldModulus-1))))
		proof[pos] = proof[pos].Add(delta)

		first, second := splitShares(t, proof)
		require.False(t, verifyShares(t, dimension, 12313, first, second), "trial %d: position %d", trial, pos)
	}
}

func TestNonBooleanDataRejected(t *testing.T) {
	data := crypto.FieldsFromUint32s([]uint32{1, 0, 2, 1})
	proof, err := testutil.GenerateProof(data)
	require.NoError(t, err)

	first, second := splitShares(t, proof)
	require.False(t, verifyShares(t, 4, 12313, first, second))
}

func TestValidationMemoryReuse(t *testing.T) {
	rs := mrand.New(mrand.NewSource(3))
	dimension := 5

	proof, err := testutil.GenerateProof(testutil.RandomBits(rs, dimension))
	require.NoError(t, err)

	fresh, err := NewValidationMemory(dimension)
	require.NoError(t, err)
	expected, err := GenerateVerificationMessage(dimension, 999, proof, FirstServer{}, fresh)
	require.NoError(t, err)

	dirty, err := NewValidationMemory(dimension)
	require.NoError(t, err)
	for _, points := range [][]crypto.Field{dirty.pointsF, dirty.pointsG, dirty.pointsH, dirty.polyMem.Coeffs} {
		for i := range points {
			points[i] = crypto.NewField(rs.Uint32())
		}
	}

	got, err := GenerateVerificationMessage(dimension, 999, proof, FirstServer{}, dirty)
	require.NoError(t, err)
	require.Equal(t, expected, got)

	// a second, different share leaves no trace either
	other, err := testutil.GenerateProof(testutil.RandomBits(rs, dimension))
	require.NoError(t, err)
	_, err = GenerateVerificationMessage(dimension, 999, other, OtherServer{}, dirty)
	require.NoError(t, err)

	got, err = GenerateVerificationMessage(dimension, 999, proof, FirstServer{}, dirty)
	require.NoError(t, err)
	require.Equal(t, expected, got)
}

func TestGenerateVerificationMessageErrors(t *testing.T) {
	mem, err := NewValidationMemory(8)
	require.NoError(t, err)

	proof := crypto.FieldsFromUint32s(dimension8Proof)
	original := slices.Clone(proof)

	_, err = GenerateVerificationMessage(8, 12313, proof[:26], FirstServer{}, mem)
	require.ErrorIs(t, err, ErrShareLength)

	_, err = GenerateVerificationMessage(8, 12313, append(slices.Clone(proof), 0), FirstServer{}, mem)
	require.ErrorIs(t, err, ErrShareLength)

	otherMem, err := NewValidationMemory(7)
	require.NoError(t, err)
	_, err = GenerateVerificationMessage(8, 12313, proof, FirstServer{}, otherMem)
	require.ErrorIs(t, err, ErrMalformedProof)

	_, err = GenerateVerificationMessage(0, 12313, proof, FirstServer{}, mem)
	require.ErrorIs(t, err, ErrMalformedProof)

	_, err = GenerateVerificationMessage(8, 12313, proof, FirstServer{}, mem)
	require.NoError(t, err)
	require.Equal(t, original, proof)
}

func TestChooseEvalAtSkipsDomain(t *testing.T) {
	mem, err := NewValidationMemory(8)
	require.NoError(t, err)

	roots := crypto.FFTRoots(32, false)
	reader := testutil.NewUint32Reader(nil,
		uint32(roots[0]), uint32(roots[1]), uint32(roots[31]),
		crypto.FieldModulus, // not a field element
		12313,
	)

	evalAt, err := mem.ChooseEvalAt(reader)
	require.NoError(t, err)
	require.Equal(t, crypto.Field(12313), evalAt)

	_, err = mem.ChooseEvalAt(testutil.NewUint32Reader(nil, uint32(roots[4])))
	require.Error(t, err)

	for i := 0; i < 100; i++ {
		evalAt, err := mem.ChooseEvalAt(rand.Reader)
		require.NoError(t, err)
		require.NotContains(t, roots, evalAt)
	}
}

func TestIsValidShare(t *testing.T) {
	v := &VerificationMessage{FR: 1, GR: 1, HR: 1}
	require.False(t, IsValidShare(nil, v))
	require.False(t, IsValidShare(v, nil))

	// (1+0) * (1+1) == 1+1
	require.True(t, IsValidShare(v, &VerificationMessage{FR: 0, GR: 1, HR: 1}))
	require.False(t, IsValidShare(v, &VerificationMessage{FR: 0, GR: 1, HR: 3}))

	// sums wrap around the modulus
	neg := &VerificationMessage{FR: crypto.FieldOne.Neg(), GR: 2, HR: 1}
	require.True(t, IsValidShare(neg, &VerificationMessage{FR: 3, GR: 0, HR: 3}))
}

func TestNewValidationMemory(t *testing.T) {
	_, err := NewValidationMemory(0)
	require.ErrorIs(t, err, ErrInvalidConfig)

	mem, err := NewValidationMemory(8)
	require.NoError(t, err)
	require.Equal(t, 8, mem.Dimension())
	require.Len(t, mem.pointsF, 16)
	require.Len(t, mem.pointsG, 16)
	require.Len(t, mem.pointsH, 32)

	_, err = NewValidationMemory(MaxDimension + 1)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidationMemoryLargestDimension(t *testing.T) {
	require.Equal(t, 1<<19-1, MaxDimension)

	mem, err := NewValidationMemory(MaxDimension)
	require.NoError(t, err)
	require.Len(t, mem.pointsH, crypto.MaxFFTSize)

	// the doubled domain is a genuine subgroup of order 2^20
	roots := mem.polyMem.Roots2N
	require.NotEqual(t, crypto.FieldOne, roots[1])
	require.Equal(t, crypto.FieldOne.Neg(), roots[len(roots)/2])
	require.False(t, mem.polyMem.IsRoot2N(12313))

	_, err = NewValidationMemory(1 << 19)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
