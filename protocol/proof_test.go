package protocol

import (
	"testing"

	"github.com/hannahdaviscrypto/mastic/crypto"
	"github.com/stretchr/testify/require"
)

func TestProofLength(t *testing.T) {
	require.Equal(t, 1+3+2, ProofLength(1))
	require.Equal(t, 3+3+4, ProofLength(3))
	require.Equal(t, 27, ProofLength(8))
	require.Equal(t, 15+3+16, ProofLength(15))
	require.Equal(t, 16+3+32, ProofLength(16))
}

func TestUnpackProof(t *testing.T) {
	share := crypto.FieldsFromUint32s(dimension8Proof)

	unpacked, err := UnpackProof(share, 8)
	require.NoError(t, err)
	require.Equal(t, share[:8], unpacked.Data)
	require.Equal(t, crypto.Field(2052337230), *unpacked.F0)
	require.Equal(t, crypto.Field(3217065186), *unpacked.G0)
	require.Equal(t, crypto.Field(1886032198), *unpacked.H0)
	require.Len(t, unpacked.HPacked, 16)
	require.Equal(t, crypto.Field(267689149), unpacked.HPacked[15])

	// views alias the share
	share[0] = 5
	share[9] = 6
	require.Equal(t, crypto.Field(5), unpacked.Data[0])
	require.Equal(t, crypto.Field(6), *unpacked.G0)

	_, err = UnpackProof(share[:20], 8)
	require.ErrorIs(t, err, ErrShareLength)

	_, err = UnpackProof(share, 0)
	require.ErrorIs(t, err, ErrMalformedProof)
}

func TestPackProof(t *testing.T) {
	share := crypto.FieldsFromUint32s(dimension8Proof)
	unpacked, err := UnpackProof(share, 8)
	require.NoError(t, err)

	packed, err := PackProof(unpacked.Data, *unpacked.F0, *unpacked.G0, *unpacked.H0, unpacked.HPacked)
	require.NoError(t, err)
	require.Equal(t, share, packed)

	_, err = PackProof(nil, 0, 0, 0, nil)
	require.ErrorIs(t, err, ErrMalformedProof)

	_, err = PackProof(unpacked.Data, 0, 0, 0, unpacked.HPacked[:15])
	require.ErrorIs(t, err, ErrMalformedProof)
}
