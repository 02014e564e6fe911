package crypto

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomFields(rs *rand.Rand, n int) []Field {
	res := make([]Field, n)
	for i := range res {
		res[i] = NewField(rs.Uint32())
	}
	return res
}

func TestFFTRoots(t *testing.T) {
	for _, n := range []int{1, 2, 16, 1024} {
		roots := FFTRoots(n, false)
		inv := FFTRoots(n, true)
		require.Len(t, roots, n)
		require.Equal(t, FieldOne, roots[0])

		for i := range roots {
			require.Equal(t, FieldOne, roots[i].Mul(inv[i]), "root %d of order %d", i, n)
		}
		if n > 1 {
			// primitive: g^(n/2) = -1
			require.Equal(t, FieldOne.Neg(), roots[n/2])
		}
	}

	// the domain of order n is every other element of the domain of order 2n
	rootsN := FFTRoots(16, false)
	roots2N := FFTRoots(32, false)
	for i := range rootsN {
		require.Equal(t, rootsN[i], roots2N[2*i])
	}
}

func TestFFTRootsDomainLimit(t *testing.T) {
	roots := FFTRoots(MaxFFTSize, false)
	require.Len(t, roots, MaxFFTSize)
	require.NotEqual(t, FieldOne, roots[1])
	require.Equal(t, FieldOne, roots[1].Pow(MaxFFTSize))

	require.Panics(t, func() { FFTRoots(2*MaxFFTSize, false) })
	require.Panics(t, func() { FFTRoots(12, false) })
	require.Panics(t, func() { NewPolyAuxMemory(MaxFFTSize) })
}

func TestPolyFFTRoundTrip(t *testing.T) {
	rs := rand.New(rand.NewSource(1))

	for _, n := range []int{1, 2, 8, 64} {
		coeffs := randomFields(rs, n)
		roots := FFTRoots(n, false)
		rootsInv := FFTRoots(n, true)

		evals := make([]Field, n)
		PolyFFT(evals, coeffs, roots, false)
		for j := range evals {
			require.Equal(t, PolyHornerEval(coeffs, roots[j]), evals[j], "evaluation %d of order %d", j, n)
		}

		back := make([]Field, n)
		PolyFFT(back, evals, rootsInv, true)
		require.Equal(t, coeffs, back)

		// in place
		PolyFFT(evals, evals, rootsInv, true)
		require.Equal(t, coeffs, evals)
	}
}

func TestPolyInterpretEval(t *testing.T) {
	rs := rand.New(rand.NewSource(2))
	n := 16

	coeffs := randomFields(rs, n)
	roots := FFTRoots(n, false)
	rootsInv := FFTRoots(n, true)

	points := make([]Field, n)
	for j := range points {
		points[j] = PolyHornerEval(coeffs, roots[j])
	}

	scratch := NewFieldVector(2 * n)
	for _, x := range []Field{0, 1, 12313, Field(FieldModulus - 1)} {
		require.Equal(t, PolyHornerEval(coeffs, x), PolyInterpretEval(points, rootsInv, x, scratch))
	}

	// dirty scratch must not leak into the result
	for i := range scratch {
		scratch[i] = Field(7)
	}
	require.Equal(t, PolyHornerEval(coeffs, 99), PolyInterpretEval(points, rootsInv, 99, scratch))
}

func TestPolyAuxMemory(t *testing.T) {
	mem := NewPolyAuxMemory(16)
	require.Len(t, mem.RootsN, 16)
	require.Len(t, mem.Roots2N, 32)
	require.Len(t, mem.Coeffs, 32)

	for _, r := range mem.Roots2N {
		require.True(t, mem.IsRoot2N(r))
	}
	for _, r := range mem.Roots2NInverted {
		require.True(t, mem.IsRoot2N(r))
	}
	require.False(t, mem.IsRoot2N(0))
	require.False(t, mem.IsRoot2N(12313))
}

func TestPowerOfTwo(t *testing.T) {
	require.True(t, IsPowerOfTwo(1))
	require.True(t, IsPowerOfTwo(16))
	require.False(t, IsPowerOfTwo(0))
	require.False(t, IsPowerOfTwo(12))

	require.Equal(t, 1, NextPowerOfTwo(0))
	require.Equal(t, 1, NextPowerOfTwo(1))
	require.Equal(t, 2, NextPowerOfTwo(2))
	require.Equal(t, 16, NextPowerOfTwo(9))
	require.Equal(t, 16, NextPowerOfTwo(16))
	require.Equal(t, 32, NextPowerOfTwo(17))
}
