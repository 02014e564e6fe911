package protocol

import (
	"fmt"

	"github.com/hannahdaviscrypto/mastic/crypto"
)

// Role determines how a server decodes its share and how it contributes to
// the g polynomial. Exactly one of the two servers must be the first server.
type Role interface {
	// DecodeShare turns a decrypted share payload into field elements.
	DecodeShare(plaintext []byte, dimension int) ([]crypto.Field, error)

	// AdjustG maps a data element to its g point value.
	AdjustG(x crypto.Field) crypto.Field

	String() string
}

// FirstServer receives its share in full and subtracts one from every g
// point, so that the combined g encodes x - 1.
type FirstServer struct{}

// DecodeShare deserializes exactly ProofLength(dimension) elements.
func (FirstServer) DecodeShare(plaintext []byte, dimension int) ([]crypto.Field, error) {
	share, err := crypto.DeserializeFields(plaintext)
	if err != nil {
		return nil, err
	}
	if len(share) != ProofLength(dimension) {
		return nil, fmt.Errorf("%w: got %d elements, want %d", ErrShareLength, len(share), ProofLength(dimension))
	}
	return share, nil
}

func (FirstServer) AdjustG(x crypto.Field) crypto.Field {
	return x.Sub(crypto.FieldOne)
}

func (FirstServer) String() string {
	return "first"
}

// OtherServer receives its share as a seed and expands it locally.
type OtherServer struct{}

// DecodeShare expands a SeedSize-byte seed into a full share.
func (OtherServer) DecodeShare(plaintext []byte, dimension int) ([]crypto.Field, error) {
	return crypto.ExpandSeed(ProofLength(dimension), plaintext)
}

func (OtherServer) AdjustG(x crypto.Field) crypto.Field {
	return x
}

func (OtherServer) String() string {
	return "other"
}

// ParseRole returns the role named by s.
func ParseRole(s string) (Role, error) {
	switch s {
	case "first":
		return FirstServer{}, nil
	case "other":
		return OtherServer{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidConfig, s)
	}
}
