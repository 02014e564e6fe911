package crypto

import (
	"encoding/binary"
	"fmt"
	"io"
)

// FieldModulus is the order of the prime field used by proofs and shares.
// It is 2^32 - 2^20 + 1, which makes the multiplicative group contain a
// subgroup of order 2^20 suitable for radix-2 FFTs.
const FieldModulus uint32 = 4293918721

// fieldGenerator generates the subgroup of order fieldRootsOrder.
const fieldGenerator uint32 = 3925978153

// fieldRootsOrder is the largest power of two dividing FieldModulus-1.
const fieldRootsOrder = 1 << 20

// MaxFFTSize is the largest evaluation domain the field supports.
const MaxFFTSize = fieldRootsOrder

// Field is an element of the prime field, always kept in canonical form
// (strictly below FieldModulus).
type Field uint32

var (
	FieldZero = Field(0)
	FieldOne  = Field(1)
)

// NewField reduces v into the field.
func NewField(v uint32) Field {
	return Field(v % FieldModulus)
}

// RandomField draws a uniformly random field element from r by rejection
// sampling little-endian uint32 values.
func RandomField(r io.Reader) (Field, error) {
	var buf [FieldElementSize]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return FieldZero, fmt.Errorf("read randomness: %w", err)
		}
		if v := binary.LittleEndian.Uint32(buf[:]); v < FieldModulus {
			return Field(v), nil
		}
	}
}

// Add returns a + b.
func (a Field) Add(b Field) Field {
	s := uint64(a) + uint64(b)
	if s >= uint64(FieldModulus) {
		s -= uint64(FieldModulus)
	}
	return Field(s)
}

// Sub returns a - b.
func (a Field) Sub(b Field) Field {
	if a >= b {
		return a - b
	}
	return Field(uint64(a) + uint64(FieldModulus) - uint64(b))
}

// Mul returns a * b.
func (a Field) Mul(b Field) Field {
	return Field(uint64(a) * uint64(b) % uint64(FieldModulus))
}

// Neg returns -a.
func (a Field) Neg() Field {
	return FieldZero.Sub(a)
}

// Pow returns a^e.
func (a Field) Pow(e uint32) Field {
	result := FieldOne
	base := a
	for e > 0 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		e >>= 1
	}
	return result
}

// Inv returns the multiplicative inverse of a. The inverse of zero is zero.
func (a Field) Inv() Field {
	return a.Pow(FieldModulus - 2)
}

// Uint32 returns the canonical integer representative.
func (a Field) Uint32() uint32 {
	return uint32(a)
}

func (a Field) String() string {
	return fmt.Sprintf("%d", uint32(a))
}

// NewFieldVector allocates a zeroed vector of field elements.
func NewFieldVector(length int) []Field {
	return make([]Field, length)
}

// FieldsFromUint32s converts plain integers into field elements, reducing each.
func FieldsFromUint32s(vs []uint32) []Field {
	res := make([]Field, len(vs))
	for i, v := range vs {
		res[i] = NewField(v)
	}
	return res
}

// VectorAddInplace performs ls[i] = ls[i] + rs[i] for every i in ls.
// rs must be at least as long as ls.
func VectorAddInplace(ls []Field, rs []Field) {
	for i := range ls {
		ls[i] = ls[i].Add(rs[i])
	}
}

// VectorSubInplace performs ls[i] = ls[i] - rs[i] for every i in ls.
func VectorSubInplace(ls []Field, rs []Field) {
	for i := range ls {
		ls[i] = ls[i].Sub(rs[i])
	}
}
