package crypto

import (
	"fmt"
	"math/bits"
)

// FFTRoots returns the first count powers of a primitive count-th root of
// unity, or of its inverse when invert is set. count must be a power of two
// no larger than MaxFFTSize; FFTRoots panics otherwise.
func FFTRoots(count int, invert bool) []Field {
	if !IsPowerOfTwo(count) || count > MaxFFTSize {
		panic(fmt.Sprintf("crypto: no FFT domain of order %d", count))
	}
	gen := Field(fieldGenerator)
	if invert {
		gen = gen.Inv()
	}
	gen = gen.Pow(uint32(fieldRootsOrder / count))

	roots := make([]Field, count)
	roots[0] = FieldOne
	for i := 1; i < count; i++ {
		roots[i] = roots[i-1].Mul(gen)
	}
	return roots
}

// PolyFFT writes into out the transform of in over the domain described by
// roots, i.e. out[j] = sum_i in[i] * roots[1]^(i*j). With invert set, roots
// must be an inverted table and the result is scaled by 1/n, turning point
// values back into coefficients.
//
// len(in), len(roots) and len(out) must be equal powers of two. in and out
// may alias.
func PolyFFT(out []Field, in []Field, roots []Field, invert bool) {
	n := len(roots)
	logN := bits.TrailingZeros(uint(n))

	if &out[0] == &in[0] {
		for i := 0; i < n; i++ {
			j := reverseBits(i, logN)
			if i < j {
				out[i], out[j] = out[j], out[i]
			}
		}
	} else {
		for i := 0; i < n; i++ {
			out[reverseBits(i, logN)] = in[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := n / size
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				w := roots[k*step]
				u := out[start+k]
				v := out[start+k+half].Mul(w)
				out[start+k] = u.Add(v)
				out[start+k+half] = u.Sub(v)
			}
		}
	}

	if invert {
		nInv := Field(uint32(n)).Inv()
		for i := range out {
			out[i] = out[i].Mul(nInv)
		}
	}
}

func reverseBits(i int, width int) int {
	if width == 0 {
		return 0
	}
	return int(bits.Reverse(uint(i)) >> (bits.UintSize - width))
}

// PolyHornerEval evaluates the polynomial with the given coefficients
// (lowest degree first) at x.
func PolyHornerEval(coeffs []Field, x Field) Field {
	acc := FieldZero
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = acc.Mul(x).Add(coeffs[i])
	}
	return acc
}

// PolyInterpretEval treats points as the values of a polynomial over the
// domain whose inverted root table is rootsInverted, interpolates it into
// coeffs and evaluates it at evalAt. coeffs must hold at least len(points)
// elements; its contents are overwritten.
func PolyInterpretEval(points []Field, rootsInverted []Field, evalAt Field, coeffs []Field) Field {
	n := len(points)
	PolyFFT(coeffs[:n], points, rootsInverted, true)
	return PolyHornerEval(coeffs[:n], evalAt)
}

// PolyAuxMemory holds the root tables for domains of order n and 2n together
// with the coefficient buffer shared by all interpolations over them.
type PolyAuxMemory struct {
	RootsN          []Field
	RootsNInverted  []Field
	Roots2N         []Field
	Roots2NInverted []Field
	Coeffs          []Field
}

// NewPolyAuxMemory precomputes root tables for domains of order n and 2n.
// n must be a power of two no larger than MaxFFTSize/2; it panics otherwise.
func NewPolyAuxMemory(n int) *PolyAuxMemory {
	return &PolyAuxMemory{
		RootsN:          FFTRoots(n, false),
		RootsNInverted:  FFTRoots(n, true),
		Roots2N:         FFTRoots(2*n, false),
		Roots2NInverted: FFTRoots(2*n, true),
		Coeffs:          NewFieldVector(2 * n),
	}
}

// IsRoot2N reports whether x belongs to the evaluation domain of order 2n.
// The domain is exactly the set of solutions of x^(2n) = 1.
func (m *PolyAuxMemory) IsRoot2N(x Field) bool {
	return x.Pow(uint32(len(m.Roots2N))) == FieldOne
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two not below n.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
