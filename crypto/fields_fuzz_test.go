package crypto

import (
	"bytes"
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

var bigModulus = big.NewInt(int64(FieldModulus))

func fieldFromFuzz(v uint32) (Field, *big.Int) {
	f := NewField(v)
	return f, new(big.Int).SetUint64(uint64(f))
}

func FuzzFieldAdd(f *testing.F) {
	f.Add(uint32(0), uint32(0))
	f.Add(uint32(1), uint32(1))
	f.Add(FieldModulus-1, FieldModulus-1)
	f.Add(^uint32(0), uint32(12313))

	f.Fuzz(func(t *testing.T, aRaw, bRaw uint32) {
		a, aBig := fieldFromFuzz(aRaw)
		b, bBig := fieldFromFuzz(bRaw)

		result := a.Add(b)

		if uint32(result) >= FieldModulus {
			t.Errorf("result not canonical: %v", result)
		}

		expected := new(big.Int).Add(aBig, bBig)
		expected.Mod(expected, bigModulus)
		if uint64(result) != expected.Uint64() {
			t.Errorf("incorrect result: got %v, want %v", result, expected)
		}

		if result != b.Add(a) {
			t.Errorf("commutativity failed for %v, %v", a, b)
		}
	})
}

func FuzzFieldSub(f *testing.F) {
	f.Add(uint32(0), uint32(0))
	f.Add(uint32(1), uint32(2))
	f.Add(uint32(0), FieldModulus-1)

	f.Fuzz(func(t *testing.T, aRaw, bRaw uint32) {
		a, aBig := fieldFromFuzz(aRaw)
		b, bBig := fieldFromFuzz(bRaw)

		result := a.Sub(b)

		expected := new(big.Int).Sub(aBig, bBig)
		expected.Mod(expected, bigModulus)
		if uint64(result) != expected.Uint64() {
			t.Errorf("incorrect result: got %v, want %v (a=%v, b=%v)", result, expected, a, b)
		}

		if result.Add(b) != a {
			t.Errorf("inverse property failed: (%v - %v) + %v != %v", a, b, b, a)
		}
	})
}

func FuzzFieldMulInv(f *testing.F) {
	f.Add(uint32(2), uint32(3))
	f.Add(FieldModulus-1, FieldModulus-1)
	f.Add(uint32(3925978153), uint32(12313))

	f.Fuzz(func(t *testing.T, aRaw, bRaw uint32) {
		a, aBig := fieldFromFuzz(aRaw)
		b, bBig := fieldFromFuzz(bRaw)

		expected := new(big.Int).Mul(aBig, bBig)
		expected.Mod(expected, bigModulus)
		if got := a.Mul(b); uint64(got) != expected.Uint64() {
			t.Errorf("incorrect product: got %v, want %v", got, expected)
		}

		if a != FieldZero && a.Mul(a.Inv()) != FieldOne {
			t.Errorf("inverse of %v is wrong", a)
		}
		if a.Add(a.Neg()) != FieldZero {
			t.Errorf("negation of %v is wrong", a)
		}
	})
}

func FuzzRandomField(f *testing.F) {
	f.Add(bytes.Repeat([]byte{0xff}, 16))
	f.Add([]byte{1, 2, 3, 4})

	f.Fuzz(func(t *testing.T, randomness []byte) {
		el, err := RandomField(bytes.NewReader(randomness))
		if err != nil {
			// Ran out of randomness before finding a canonical value
			return
		}
		if uint32(el) >= FieldModulus {
			t.Errorf("random element not canonical: %v", el)
		}
	})
}

func TestRandomFieldRejectsOutOfRange(t *testing.T) {
	buf := binary.LittleEndian.AppendUint32(nil, FieldModulus)
	buf = binary.LittleEndian.AppendUint32(buf, ^uint32(0))
	buf = binary.LittleEndian.AppendUint32(buf, 42)

	el, err := RandomField(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, Field(42), el)

	_, err = RandomField(bytes.NewReader(buf[:8]))
	require.Error(t, err)
}

func TestVectorOps(t *testing.T) {
	ls := FieldsFromUint32s([]uint32{1, FieldModulus - 1, 5})
	rs := FieldsFromUint32s([]uint32{2, 3, FieldModulus + 7})

	VectorAddInplace(ls, rs)
	require.Equal(t, []Field{3, 2, 12}, ls)

	VectorSubInplace(ls, rs)
	require.Equal(t, FieldsFromUint32s([]uint32{1, FieldModulus - 1, 5}), ls)
}

func TestSerializeFields(t *testing.T) {
	elements := FieldsFromUint32s([]uint32{0, 1, 12313, FieldModulus - 1})
	data := SerializeFields(elements)
	require.Len(t, data, len(elements)*FieldElementSize)

	decoded, err := DeserializeFields(data)
	require.NoError(t, err)
	require.Equal(t, elements, decoded)

	_, err = DeserializeFields(data[:5])
	require.ErrorIs(t, err, ErrSerializedLength)

	_, err = DeserializeFields(binary.LittleEndian.AppendUint32(nil, FieldModulus))
	require.ErrorIs(t, err, ErrNonCanonical)
}
