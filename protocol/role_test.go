package protocol

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/hannahdaviscrypto/mastic/crypto"
	"github.com/stretchr/testify/require"
)

func TestFirstServerDecodeShare(t *testing.T) {
	proof := crypto.FieldsFromUint32s(dimension8Proof)
	encoded := crypto.SerializeFields(proof)

	share, err := FirstServer{}.DecodeShare(encoded, 8)
	require.NoError(t, err)
	require.Equal(t, proof, share)

	_, err = FirstServer{}.DecodeShare(encoded[:len(encoded)-4], 8)
	require.ErrorIs(t, err, ErrShareLength)

	_, err = FirstServer{}.DecodeShare(encoded[:len(encoded)-1], 8)
	require.ErrorIs(t, err, crypto.ErrSerializedLength)

	bad := bytes.Clone(encoded)
	binary.LittleEndian.PutUint32(bad[8:], crypto.FieldModulus)
	_, err = FirstServer{}.DecodeShare(bad, 8)
	require.ErrorIs(t, err, crypto.ErrNonCanonical)
}

func TestOtherServerDecodeShare(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, crypto.SeedSize)

	share, err := OtherServer{}.DecodeShare(seed, 8)
	require.NoError(t, err)
	require.Len(t, share, ProofLength(8))

	expanded, err := crypto.ExpandSeed(ProofLength(8), seed)
	require.NoError(t, err)
	require.Equal(t, expanded, share)

	_, err = OtherServer{}.DecodeShare(seed[:16], 8)
	require.ErrorIs(t, err, crypto.ErrSeedLength)
}

func TestAdjustG(t *testing.T) {
	require.Equal(t, crypto.FieldZero, FirstServer{}.AdjustG(crypto.FieldOne))
	require.Equal(t, crypto.Field(crypto.FieldModulus-1), FirstServer{}.AdjustG(crypto.FieldZero))
	require.Equal(t, crypto.Field(12), OtherServer{}.AdjustG(12))
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("first")
	require.NoError(t, err)
	require.Equal(t, FirstServer{}, role)
	require.Equal(t, "first", role.String())

	role, err = ParseRole("other")
	require.NoError(t, err)
	require.Equal(t, OtherServer{}, role)
	require.Equal(t, "other", role.String())

	_, err = ParseRole("leader")
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPrioConfigValidate(t *testing.T) {
	role, err := (&PrioConfig{Dimension: 8, Role: "other", Workers: 2}).Validate()
	require.NoError(t, err)
	require.Equal(t, OtherServer{}, role)

	_, err = (&PrioConfig{Dimension: 0, Role: "first"}).Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = (&PrioConfig{Dimension: 8, Role: "first", Workers: -1}).Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = (&PrioConfig{Dimension: 8}).Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = (&PrioConfig{Dimension: MaxDimension, Role: "first"}).Validate()
	require.NoError(t, err)
	_, err = (&PrioConfig{Dimension: MaxDimension + 1, Role: "first"}).Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
}
